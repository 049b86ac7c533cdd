package database

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

const seedCreatorPhone = "+263771234567"

type seedPoll struct {
	title       string
	description string
	category    string
	scope       string
	options     []string
	votes       []int64
}

type seedIdea struct {
	content  string
	category string
	hashtags []string
	upvotes  int64
}

var seedPolls = []seedPoll{
	{
		title:       "Should Africa adopt a unified currency?",
		description: "A single continental currency to simplify trade across the African Union.",
		category:    "economy",
		scope:       "CONTINENTAL",
		options:     []string{"Yes", "No", "Not sure"},
		votes:       []int64{120, 45, 30},
	},
	{
		title:       "Best African Music Artist 2025",
		description: "Vote for your favourite African music artist of the year.",
		category:    "culture",
		scope:       "CONTINENTAL",
		options:     []string{"Burna Boy", "Wizkid", "Diamond Platnumz"},
		votes:       []int64{45, 38, 29},
	},
	{
		title:       "Visa-free travel for all African citizens",
		description: "Should every AU member state remove visa requirements for African passport holders?",
		category:    "governance",
		scope:       "CONTINENTAL",
		options:     []string{"Yes", "No"},
		votes:       []int64{88, 12},
	},
	{
		title:       "Priority for national infrastructure spending",
		description: "Where should the next infrastructure budget go first?",
		category:    "infrastructure",
		scope:       "NATIONAL",
		options:     []string{"Roads", "Electricity", "Water", "Internet"},
		votes:       []int64{10, 25, 14, 9},
	},
	{
		title:       "Regional football league",
		description: "Should SADC countries form a joint professional football league?",
		category:    "sport",
		scope:       "REGIONAL",
		options:     []string{"Yes", "No"},
		votes:       []int64{5, 2},
	},
}

var seedIdeas = []seedIdea{
	{content: "Solar microgrids for every rural clinic", category: "energy", hashtags: []string{"solar", "health"}, upvotes: 7},
	{content: "Free coding bootcamps for school leavers", category: "education", hashtags: []string{"youth", "skills"}, upvotes: 4},
	{content: "Continental mobile money interoperability", category: "economy", hashtags: []string{"fintech", "trade"}, upvotes: 12},
	{content: "Local language content in public broadcasting", category: "culture", hashtags: []string{"languages"}, upvotes: 2},
}

// Seed inserts demo polls and ideas when no polls exist yet
func Seed(ctx context.Context, db *sql.DB) error {
	var count int
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM bantora_polls`).Scan(&count); err != nil {
		return fmt.Errorf("failed to count polls: %w", err)
	}
	if count > 0 {
		log.Printf("Skipping seed, %d polls already present", count)
		return nil
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin seed transaction: %w", err)
	}
	defer tx.Rollback()

	now := time.Now()
	for i, p := range seedPolls {
		pollID := uuid.New()
		var total int64
		for _, v := range p.votes {
			total += v
		}
		// Stagger creation times so "new" and "popular" orderings differ.
		createdAt := now.Add(-time.Duration(len(seedPolls)-i) * time.Hour)

		_, err := tx.ExecContext(ctx, `
			INSERT INTO bantora_polls (id, title, description, creator_phone, category, scope, status,
				start_time, end_time, allow_multiple_votes, total_votes, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, 'ACTIVE', $7, $8, FALSE, $9, $10, $10)`,
			pollID, p.title, p.description, seedCreatorPhone, p.category, p.scope,
			createdAt, now.AddDate(0, 1, 0), total, createdAt)
		if err != nil {
			return fmt.Errorf("failed to seed poll %q: %w", p.title, err)
		}

		for j, text := range p.options {
			_, err := tx.ExecContext(ctx, `
				INSERT INTO bantora_poll_options (id, poll_id, option_text, option_order, votes_count)
				VALUES ($1, $2, $3, $4, $5)`,
				uuid.New(), pollID, text, j+1, p.votes[j])
			if err != nil {
				return fmt.Errorf("failed to seed option %q: %w", text, err)
			}
		}
	}

	for _, idea := range seedIdeas {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO bantora_ideas (id, user_phone, content, category, hashtags, status, upvotes, created_at)
			VALUES ($1, $2, $3, $4, $5, 'PENDING', $6, $7)`,
			uuid.New(), seedCreatorPhone, idea.content, idea.category, pq.Array(idea.hashtags), idea.upvotes, now)
		if err != nil {
			return fmt.Errorf("failed to seed idea: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit seed: %w", err)
	}

	log.Printf("Seeded %d polls and %d ideas", len(seedPolls), len(seedIdeas))
	return nil
}
