package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/t3ratech/bantora-web/internal/database"
	"github.com/t3ratech/bantora-web/internal/models"
)

// Poll sort orders
const (
	SortCreated = "created"
	SortVotes   = "votes"
)

// PollFilter narrows a poll listing
type PollFilter struct {
	Category string
	Sort     string
	Limit    int
}

// PollRepository handles database operations for polls, options and votes
type PollRepository struct {
	db *sql.DB
}

// NewPollRepository creates a new poll repository
func NewPollRepository() *PollRepository {
	return &PollRepository{
		db: database.DB,
	}
}

// NewPollRepositoryWithDB creates a new poll repository with a specific database connection
func NewPollRepositoryWithDB(db *sql.DB) *PollRepository {
	return &PollRepository{
		db: db,
	}
}

const pollColumns = `id, title, description, creator_phone, category, scope, status,
	start_time, end_time, allow_multiple_votes, total_votes, created_at, updated_at`

// ListActive returns active polls that have not ended, with their options
func (r *PollRepository) ListActive(ctx context.Context, filter PollFilter, now time.Time) ([]models.Poll, error) {
	var (
		where = []string{"status = 'ACTIVE'", "end_time > $1"}
		args  = []interface{}{now}
	)
	if filter.Category != "" {
		args = append(args, filter.Category)
		where = append(where, fmt.Sprintf("category = $%d", len(args)))
	}

	order := "created_at DESC"
	if strings.EqualFold(filter.Sort, SortVotes) {
		order = "total_votes DESC, created_at DESC"
	}

	query := fmt.Sprintf("SELECT %s FROM bantora_polls WHERE %s ORDER BY %s",
		pollColumns, strings.Join(where, " AND "), order)
	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list polls: %w", err)
	}
	defer rows.Close()

	var polls []models.Poll
	for rows.Next() {
		poll, err := scanPoll(rows)
		if err != nil {
			return nil, err
		}
		polls = append(polls, *poll)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate polls: %w", err)
	}

	if err := r.attachOptions(ctx, polls); err != nil {
		return nil, err
	}
	return polls, nil
}

// GetByID retrieves a poll and its options
func (r *PollRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Poll, error) {
	query := fmt.Sprintf("SELECT %s FROM bantora_polls WHERE id = $1", pollColumns)

	poll, err := scanPoll(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrPollNotFound
	}
	if err != nil {
		return nil, err
	}

	polls := []models.Poll{*poll}
	if err := r.attachOptions(ctx, polls); err != nil {
		return nil, err
	}
	return &polls[0], nil
}

// Create inserts a poll and its options in one transaction
func (r *PollRepository) Create(ctx context.Context, poll *models.Poll) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := insertPoll(ctx, tx, poll); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit poll: %w", err)
	}
	return nil
}

// insertPoll writes a poll and its options inside tx
func insertPoll(ctx context.Context, tx *sql.Tx, poll *models.Poll) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO bantora_polls (id, title, description, creator_phone, category, scope, status,
			start_time, end_time, allow_multiple_votes, total_votes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
		poll.ID, poll.Title, poll.Description, poll.CreatorPhone, poll.Category,
		string(poll.Scope), string(poll.Status), poll.StartTime, poll.EndTime,
		poll.AllowMultipleVotes, poll.TotalVotes, poll.CreatedAt, poll.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create poll: %w", err)
	}

	for _, opt := range poll.Options {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO bantora_poll_options (id, poll_id, option_text, option_order, votes_count)
			VALUES ($1, $2, $3, $4, $5)`,
			opt.ID, poll.ID, opt.OptionText, opt.OptionOrder, opt.VotesCount)
		if err != nil {
			return fmt.Errorf("failed to create poll option: %w", err)
		}
	}
	return nil
}

// HasVoted reports whether the user already voted on the poll
func (r *PollRepository) HasVoted(ctx context.Context, pollID uuid.UUID, userPhone string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM bantora_votes WHERE poll_id = $1 AND user_phone = $2)`,
		pollID, userPhone).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check existing vote: %w", err)
	}
	return exists, nil
}

// RecordVote stores a vote and bumps the option and poll counters atomically.
// The poll row is locked so concurrent ballots from one user cannot both pass
// the duplicate check.
func (r *PollRepository) RecordVote(ctx context.Context, vote *models.Vote) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var allowMultiple bool
	err = tx.QueryRowContext(ctx,
		`SELECT allow_multiple_votes FROM bantora_polls WHERE id = $1 FOR UPDATE`,
		vote.PollID).Scan(&allowMultiple)
	if errors.Is(err, sql.ErrNoRows) {
		return models.ErrPollNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to lock poll: %w", err)
	}

	if !allowMultiple && vote.UserPhone != "" {
		var exists bool
		err = tx.QueryRowContext(ctx,
			`SELECT EXISTS (SELECT 1 FROM bantora_votes WHERE poll_id = $1 AND user_phone = $2)`,
			vote.PollID, vote.UserPhone).Scan(&exists)
		if err != nil {
			return fmt.Errorf("failed to check existing vote: %w", err)
		}
		if exists {
			return models.ErrAlreadyVoted
		}
	}

	result, err := tx.ExecContext(ctx,
		`UPDATE bantora_poll_options SET votes_count = votes_count + 1 WHERE id = $1 AND poll_id = $2`,
		vote.OptionID, vote.PollID)
	if err != nil {
		return fmt.Errorf("failed to count vote for option: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return models.ErrOptionNotInPoll
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE bantora_polls SET total_votes = total_votes + 1, updated_at = $1 WHERE id = $2`,
		vote.VotedAt, vote.PollID)
	if err != nil {
		return fmt.Errorf("failed to count vote for poll: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO bantora_votes (id, poll_id, option_id, user_phone, anonymous, voted_at, ip_address, user_agent)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		vote.ID, vote.PollID, vote.OptionID, nullString(vote.UserPhone), vote.Anonymous,
		vote.VotedAt, nullString(vote.IPAddress), nullString(vote.UserAgent))
	if err != nil {
		return fmt.Errorf("failed to insert vote: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit vote: %w", err)
	}
	return nil
}

func (r *PollRepository) attachOptions(ctx context.Context, polls []models.Poll) error {
	if len(polls) == 0 {
		return nil
	}

	ids := make([]string, len(polls))
	index := make(map[uuid.UUID]int, len(polls))
	for i, p := range polls {
		ids[i] = p.ID.String()
		index[p.ID] = i
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT id, poll_id, option_text, option_order, votes_count
		FROM bantora_poll_options
		WHERE poll_id = ANY($1::uuid[])
		ORDER BY poll_id, option_order`, pq.Array(ids))
	if err != nil {
		return fmt.Errorf("failed to load poll options: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var opt models.PollOption
		if err := rows.Scan(&opt.ID, &opt.PollID, &opt.OptionText, &opt.OptionOrder, &opt.VotesCount); err != nil {
			return fmt.Errorf("failed to scan poll option: %w", err)
		}
		if i, ok := index[opt.PollID]; ok {
			polls[i].Options = append(polls[i].Options, opt)
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to iterate poll options: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanPoll(row rowScanner) (*models.Poll, error) {
	var (
		poll          models.Poll
		scope, status string
	)
	err := row.Scan(
		&poll.ID,
		&poll.Title,
		&poll.Description,
		&poll.CreatorPhone,
		&poll.Category,
		&scope,
		&status,
		&poll.StartTime,
		&poll.EndTime,
		&poll.AllowMultipleVotes,
		&poll.TotalVotes,
		&poll.CreatedAt,
		&poll.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan poll: %w", err)
	}
	poll.Scope = models.PollScope(scope)
	poll.Status = models.PollStatus(status)
	return &poll, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
