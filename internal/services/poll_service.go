package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/t3ratech/bantora-web/internal/models"
	"github.com/t3ratech/bantora-web/internal/repository"
)

// DefaultPopularLimit is how many polls the popular listing returns when no limit is given
const DefaultPopularLimit = 10

// PollRepository defines the interface for poll persistence
type PollRepository interface {
	ListActive(ctx context.Context, filter repository.PollFilter, now time.Time) ([]models.Poll, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Poll, error)
	HasVoted(ctx context.Context, pollID uuid.UUID, userPhone string) (bool, error)
	RecordVote(ctx context.Context, vote *models.Vote) error
}

// PollService handles poll queries
type PollService interface {
	ListActive(ctx context.Context, filter repository.PollFilter) ([]models.Poll, error)
	Popular(ctx context.Context, category string, limit int) ([]models.Poll, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Poll, error)
}

// PollServiceImpl implements PollService
type PollServiceImpl struct {
	pollRepo PollRepository
	now      func() time.Time
}

// NewPollService creates a new poll service
func NewPollService(pollRepo PollRepository) PollService {
	return &PollServiceImpl{
		pollRepo: pollRepo,
		now:      time.Now,
	}
}

// ListActive returns polls that are open for voting
func (s *PollServiceImpl) ListActive(ctx context.Context, filter repository.PollFilter) ([]models.Poll, error) {
	if filter.Limit < 0 {
		filter.Limit = 0
	}
	polls, err := s.pollRepo.ListActive(ctx, filter, s.now())
	if err != nil {
		return nil, fmt.Errorf("failed to list polls: %w", err)
	}
	if polls == nil {
		polls = []models.Poll{}
	}
	return polls, nil
}

// Popular returns the most voted active polls
func (s *PollServiceImpl) Popular(ctx context.Context, category string, limit int) ([]models.Poll, error) {
	if limit <= 0 {
		limit = DefaultPopularLimit
	}
	return s.ListActive(ctx, repository.PollFilter{
		Category: category,
		Sort:     repository.SortVotes,
		Limit:    limit,
	})
}

// Get retrieves a poll by id
func (s *PollServiceImpl) Get(ctx context.Context, id uuid.UUID) (*models.Poll, error) {
	poll, err := s.pollRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get poll: %w", err)
	}
	return poll, nil
}
