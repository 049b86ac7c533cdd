package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/t3ratech/bantora-web/internal/models"
	"github.com/t3ratech/bantora-web/internal/repository"
)

// MockPollRepository is a mock implementation of PollRepository for testing
type MockPollRepository struct {
	ListActiveFunc func(repository.PollFilter, time.Time) ([]models.Poll, error)
	GetByIDFunc    func(uuid.UUID) (*models.Poll, error)
	HasVotedFunc   func(uuid.UUID, string) (bool, error)
	RecordVoteFunc func(*models.Vote) error
}

func (m *MockPollRepository) ListActive(ctx context.Context, filter repository.PollFilter, now time.Time) ([]models.Poll, error) {
	if m.ListActiveFunc != nil {
		return m.ListActiveFunc(filter, now)
	}
	return nil, nil
}

func (m *MockPollRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Poll, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(id)
	}
	return nil, models.ErrPollNotFound
}

func (m *MockPollRepository) HasVoted(ctx context.Context, pollID uuid.UUID, userPhone string) (bool, error) {
	if m.HasVotedFunc != nil {
		return m.HasVotedFunc(pollID, userPhone)
	}
	return false, nil
}

func (m *MockPollRepository) RecordVote(ctx context.Context, vote *models.Vote) error {
	if m.RecordVoteFunc != nil {
		return m.RecordVoteFunc(vote)
	}
	return nil
}

// MockIdeaRepository is a mock implementation of IdeaRepository for testing
type MockIdeaRepository struct {
	ListFunc           func(repository.IdeaFilter) ([]models.Idea, error)
	ListPromotableFunc func(int64) ([]models.Idea, error)
	GetByIDFunc        func(uuid.UUID) (*models.Idea, error)
	CreateFunc         func(*models.Idea) error
	UpvoteFunc         func(uuid.UUID) (*models.Idea, error)
	PromoteToPollFunc  func(uuid.UUID, string, *models.Poll) error
}

func (m *MockIdeaRepository) List(ctx context.Context, filter repository.IdeaFilter) ([]models.Idea, error) {
	if m.ListFunc != nil {
		return m.ListFunc(filter)
	}
	return nil, nil
}

func (m *MockIdeaRepository) ListPromotable(ctx context.Context, threshold int64) ([]models.Idea, error) {
	if m.ListPromotableFunc != nil {
		return m.ListPromotableFunc(threshold)
	}
	return nil, nil
}

func (m *MockIdeaRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Idea, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(id)
	}
	return nil, models.ErrIdeaNotFound
}

func (m *MockIdeaRepository) Create(ctx context.Context, idea *models.Idea) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(idea)
	}
	return nil
}

func (m *MockIdeaRepository) Upvote(ctx context.Context, id uuid.UUID) (*models.Idea, error) {
	if m.UpvoteFunc != nil {
		return m.UpvoteFunc(id)
	}
	return nil, models.ErrIdeaNotFound
}

func (m *MockIdeaRepository) PromoteToPoll(ctx context.Context, id uuid.UUID, summary string, poll *models.Poll) error {
	if m.PromoteToPollFunc != nil {
		return m.PromoteToPollFunc(id, summary, poll)
	}
	return nil
}

// MockUserRepository is a mock implementation of UserRepository for testing
type MockUserRepository struct {
	CreateFunc         func(*models.User) error
	GetByPhoneFunc     func(string) (*models.User, error)
	TouchLastLoginFunc func(string, time.Time) error
}

func (m *MockUserRepository) Create(ctx context.Context, user *models.User) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(user)
	}
	return nil
}

func (m *MockUserRepository) GetByPhone(ctx context.Context, phone string) (*models.User, error) {
	if m.GetByPhoneFunc != nil {
		return m.GetByPhoneFunc(phone)
	}
	return nil, models.ErrUserNotFound
}

func (m *MockUserRepository) TouchLastLogin(ctx context.Context, phone string, at time.Time) error {
	if m.TouchLastLoginFunc != nil {
		return m.TouchLastLoginFunc(phone, at)
	}
	return nil
}

// activePoll builds an open two-option poll for tests
func activePoll(now time.Time) *models.Poll {
	poll, err := models.NewPoll("Should fuel subsidies end?", "", "+263771234567", models.PollScopeNational,
		[]string{"Yes", "No"}, now.Add(-time.Hour), now.Add(24*time.Hour))
	if err != nil {
		panic(err)
	}
	if err := poll.Activate(); err != nil {
		panic(err)
	}
	return poll
}
