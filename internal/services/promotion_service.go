package services

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/t3ratech/bantora-web/internal/metrics"
	"github.com/t3ratech/bantora-web/internal/models"
)

// PromotedPollDuration is how long a poll created from an idea stays open
const PromotedPollDuration = 30 * 24 * time.Hour

// maxPromotedTitle bounds the poll title derived from idea content
const maxPromotedTitle = 120

// PromotedPollOptions are the answers offered on every poll created from an idea
var PromotedPollOptions = []string{"Yes", "No", "Not sure"}

// PromotionService turns popular ideas into polls
type PromotionService interface {
	PromoteIdeas(ctx context.Context) (int, error)
}

// PromotionServiceImpl implements PromotionService
type PromotionServiceImpl struct {
	ideaRepo  IdeaRepository
	threshold int64
	now       func() time.Time
}

// NewPromotionService creates a new promotion service. Ideas need at least threshold upvotes.
func NewPromotionService(ideaRepo IdeaRepository, threshold int64) PromotionService {
	return &PromotionServiceImpl{
		ideaRepo:  ideaRepo,
		threshold: threshold,
		now:       time.Now,
	}
}

// PromoteIdeas creates an active poll for every promotable idea and marks the idea processed
// in one step, so an idea yields at most one poll. A failure on one idea is logged and does not
// stop the others.
func (s *PromotionServiceImpl) PromoteIdeas(ctx context.Context) (int, error) {
	ideas, err := s.ideaRepo.ListPromotable(ctx, s.threshold)
	if err != nil {
		return 0, fmt.Errorf("failed to list promotable ideas: %w", err)
	}

	promoted := 0
	for i := range ideas {
		if err := ctx.Err(); err != nil {
			return promoted, err
		}
		if err := s.promote(ctx, &ideas[i]); err != nil {
			log.Printf("Error promoting idea %s: %v", ideas[i].ID, err)
			continue
		}
		promoted++
		metrics.IdeasPromoted.Inc()
	}

	return promoted, nil
}

func (s *PromotionServiceImpl) promote(ctx context.Context, idea *models.Idea) error {
	start := s.now()
	poll, err := models.NewPoll(
		pollTitle(idea.Content),
		idea.Content,
		idea.UserPhone,
		models.PollScopeNational,
		PromotedPollOptions,
		start,
		start.Add(PromotedPollDuration),
	)
	if err != nil {
		return err
	}
	poll.Category = idea.Category
	if err := poll.Activate(); err != nil {
		return err
	}

	summary := ideaSummary(idea, poll)
	if err := idea.Process(summary); err != nil {
		return err
	}
	if err := s.ideaRepo.PromoteToPoll(ctx, idea.ID, summary, poll); err != nil {
		return fmt.Errorf("failed to promote idea: %w", err)
	}
	return nil
}

// pollTitle uses the first line of the idea, shortened on a word boundary
func pollTitle(content string) string {
	title := strings.TrimSpace(strings.SplitN(content, "\n", 2)[0])
	runes := []rune(title)
	if len(runes) <= maxPromotedTitle {
		return title
	}
	cut := string(runes[:maxPromotedTitle])
	if i := strings.LastIndex(cut, " "); i > maxPromotedTitle/2 {
		cut = cut[:i]
	}
	return strings.TrimSpace(cut) + "..."
}

func ideaSummary(idea *models.Idea, poll *models.Poll) string {
	tags := make([]string, len(idea.Hashtags))
	for i, tag := range idea.Hashtags {
		tags[i] = "#" + tag
	}
	return fmt.Sprintf("Promoted to poll %s after %d upvotes. Tags: %s",
		poll.ID, idea.Upvotes, strings.Join(tags, " "))
}
