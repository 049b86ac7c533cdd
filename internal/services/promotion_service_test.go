package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/t3ratech/bantora-web/internal/models"
)

func TestPromotionService_PromoteIdeas(t *testing.T) {
	now := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	good := models.Idea{
		ID:        uuid.New(),
		UserPhone: "+263771234567",
		Content:   "Free sanitary products in all public schools\nDetails follow.",
		Category:  "Education",
		Hashtags:  []string{"education", "health"},
		Status:    models.IdeaStatusPending,
		Upvotes:   12,
	}
	failing := models.Idea{
		ID:       uuid.New(),
		Content:  "Fix the roads",
		Hashtags: []string{"roads"},
		Status:   models.IdeaStatusPending,
		Upvotes:  15,
	}

	var threshold int64
	var polls []*models.Poll
	processed := map[uuid.UUID]string{}

	ideaRepo := &MockIdeaRepository{
		ListPromotableFunc: func(th int64) ([]models.Idea, error) {
			threshold = th
			return []models.Idea{good, failing}, nil
		},
		PromoteToPollFunc: func(id uuid.UUID, summary string, poll *models.Poll) error {
			if poll.Title == "Fix the roads" {
				return errors.New("insert failed")
			}
			processed[id] = summary
			polls = append(polls, poll)
			return nil
		},
	}

	service := &PromotionServiceImpl{
		ideaRepo:  ideaRepo,
		threshold: 10,
		now:       func() time.Time { return now },
	}

	n, err := service.PromoteIdeas(context.Background())
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if n != 1 {
		t.Fatalf("Expected 1 promoted idea, got %d", n)
	}
	if threshold != 10 {
		t.Errorf("Expected threshold 10, got %d", threshold)
	}

	poll := polls[0]
	if poll.Title != "Free sanitary products in all public schools" {
		t.Errorf("Unexpected poll title %q", poll.Title)
	}
	if poll.Status != models.PollStatusActive {
		t.Errorf("Expected ACTIVE poll, got %s", poll.Status)
	}
	if poll.Category != "Education" {
		t.Errorf("Expected category Education, got %q", poll.Category)
	}
	if len(poll.Options) != 3 || poll.Options[2].OptionText != "Not sure" {
		t.Errorf("Unexpected options: %+v", poll.Options)
	}
	if !poll.EndTime.Equal(now.Add(PromotedPollDuration)) {
		t.Errorf("Expected poll to end at %v, got %v", now.Add(PromotedPollDuration), poll.EndTime)
	}

	summary, ok := processed[good.ID]
	if !ok {
		t.Fatal("Expected promoted idea to be marked processed")
	}
	if !strings.Contains(summary, poll.ID.String()) || !strings.Contains(summary, "#education #health") {
		t.Errorf("Unexpected summary %q", summary)
	}
	if _, ok := processed[failing.ID]; ok {
		t.Error("Idea whose poll failed should stay pending")
	}
}

func TestPromotionService_ListError(t *testing.T) {
	ideaRepo := &MockIdeaRepository{
		ListPromotableFunc: func(int64) ([]models.Idea, error) {
			return nil, errors.New("database error")
		},
	}
	service := NewPromotionService(ideaRepo, 10)

	if _, err := service.PromoteIdeas(context.Background()); err == nil {
		t.Error("Expected error when listing fails")
	}
}

// promotionStore keeps idea status and polls together the way a transactional
// repository does: a failed write leaves neither behind.
type promotionStore struct {
	ideas     []models.Idea
	polls     map[uuid.UUID][]*models.Poll
	failNext  bool
	promoteFn func(uuid.UUID, string, *models.Poll) error
}

func newPromotionStore(ideas ...models.Idea) *promotionStore {
	st := &promotionStore{ideas: ideas, polls: map[uuid.UUID][]*models.Poll{}}
	st.promoteFn = func(id uuid.UUID, summary string, poll *models.Poll) error {
		if st.failNext {
			st.failNext = false
			return errors.New("connection reset")
		}
		for i := range st.ideas {
			if st.ideas[i].ID != id {
				continue
			}
			if st.ideas[i].Status != models.IdeaStatusPending {
				return models.ErrIdeaNotPending
			}
			st.ideas[i].Status = models.IdeaStatusProcessed
			st.ideas[i].Summary = summary
			st.polls[id] = append(st.polls[id], poll)
			return nil
		}
		return models.ErrIdeaNotFound
	}
	return st
}

func (st *promotionStore) repo() *MockIdeaRepository {
	return &MockIdeaRepository{
		ListPromotableFunc: func(threshold int64) ([]models.Idea, error) {
			var pending []models.Idea
			for _, idea := range st.ideas {
				if idea.Status == models.IdeaStatusPending && idea.Upvotes >= threshold {
					pending = append(pending, idea)
				}
			}
			return pending, nil
		},
		PromoteToPollFunc: st.promoteFn,
	}
}

func TestPromotionService_FailedWriteIsRetriedWithoutDuplicatePoll(t *testing.T) {
	idea := models.Idea{
		ID:       uuid.New(),
		Content:  "Continental mobile money",
		Hashtags: []string{"fintech"},
		Status:   models.IdeaStatusPending,
		Upvotes:  12,
	}
	store := newPromotionStore(idea)
	store.failNext = true
	service := NewPromotionService(store.repo(), 10)

	n, err := service.PromoteIdeas(context.Background())
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if n != 0 {
		t.Errorf("Expected nothing promoted on failed write, got %d", n)
	}

	n, err = service.PromoteIdeas(context.Background())
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if n != 1 {
		t.Errorf("Expected retry to promote the idea, got %d", n)
	}

	n, err = service.PromoteIdeas(context.Background())
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if n != 0 {
		t.Errorf("Expected processed idea to be skipped, got %d", n)
	}

	if got := len(store.polls[idea.ID]); got != 1 {
		t.Errorf("Expected exactly one poll for the idea across runs, got %d", got)
	}
}

func TestPromotionService_ConcurrentlyProcessedIdeaIsSkipped(t *testing.T) {
	idea := models.Idea{
		ID:       uuid.New(),
		Content:  "Visa-free travel",
		Hashtags: []string{"travel"},
		Status:   models.IdeaStatusPending,
		Upvotes:  20,
	}
	store := newPromotionStore(idea)
	stale := store.repo()
	// Another run processes the idea after this run listed it.
	stale.ListPromotableFunc = func(int64) ([]models.Idea, error) {
		listed := []models.Idea{store.ideas[0]}
		if err := store.promoteFn(idea.ID, "other run", &models.Poll{ID: uuid.New()}); err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		return listed, nil
	}

	n, err := NewPromotionService(stale, 10).PromoteIdeas(context.Background())
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if n != 0 {
		t.Errorf("Expected 0 promoted, got %d", n)
	}
	if got := len(store.polls[idea.ID]); got != 1 {
		t.Errorf("Expected only the other run's poll, got %d", got)
	}
}

func TestPollTitle(t *testing.T) {
	long := strings.Repeat("word ", 40)
	title := pollTitle(long)
	if len([]rune(title)) > maxPromotedTitle+3 {
		t.Errorf("Title too long: %d", len(title))
	}
	if !strings.HasSuffix(title, "...") {
		t.Errorf("Expected ellipsis, got %q", title)
	}
	if got := pollTitle("  Short one  "); got != "Short one" {
		t.Errorf("Expected %q, got %q", "Short one", got)
	}
}
