package services

import (
	"context"
	"fmt"
	"html"
	"strings"

	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"
	"github.com/t3ratech/bantora-web/internal/metrics"
	"github.com/t3ratech/bantora-web/internal/models"
	"github.com/t3ratech/bantora-web/internal/repository"
)

// IdeaRepository defines the interface for idea persistence
type IdeaRepository interface {
	List(ctx context.Context, filter repository.IdeaFilter) ([]models.Idea, error)
	ListPromotable(ctx context.Context, threshold int64) ([]models.Idea, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Idea, error)
	Create(ctx context.Context, idea *models.Idea) error
	Upvote(ctx context.Context, id uuid.UUID) (*models.Idea, error)
	PromoteToPoll(ctx context.Context, id uuid.UUID, summary string, poll *models.Poll) error
}

// CreateIdeaRequest is the payload for submitting an idea
type CreateIdeaRequest struct {
	Content  string   `json:"content"`
	Category string   `json:"category"`
	Hashtags []string `json:"hashtags"`
}

// IdeaService handles idea submission and queries
type IdeaService interface {
	List(ctx context.Context, status, category, hashtag string) ([]models.Idea, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Idea, error)
	Create(ctx context.Context, userPhone string, req CreateIdeaRequest) (*models.Idea, error)
	Upvote(ctx context.Context, id uuid.UUID) (*models.Idea, error)
}

// IdeaServiceImpl implements IdeaService
type IdeaServiceImpl struct {
	ideaRepo  IdeaRepository
	sanitizer *bluemonday.Policy
}

// NewIdeaService creates a new idea service. HTML elements in submitted content are removed
// and character references are decoded, so ideas are stored as plain text.
func NewIdeaService(ideaRepo IdeaRepository) IdeaService {
	return &IdeaServiceImpl{
		ideaRepo:  ideaRepo,
		sanitizer: bluemonday.StrictPolicy(),
	}
}

// List returns ideas with the given status (PENDING when empty)
func (s *IdeaServiceImpl) List(ctx context.Context, status, category, hashtag string) ([]models.Idea, error) {
	if strings.TrimSpace(status) == "" {
		status = string(models.IdeaStatusPending)
	}
	resolved, err := models.ParseIdeaStatus(status)
	if err != nil {
		return nil, err
	}
	tag, err := models.NormalizeHashtag(hashtag)
	if err != nil {
		return nil, err
	}

	ideas, err := s.ideaRepo.List(ctx, repository.IdeaFilter{
		Status:   resolved,
		Category: strings.TrimSpace(category),
		Hashtag:  tag,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list ideas: %w", err)
	}
	if ideas == nil {
		ideas = []models.Idea{}
	}
	return ideas, nil
}

// Get retrieves an idea by id
func (s *IdeaServiceImpl) Get(ctx context.Context, id uuid.UUID) (*models.Idea, error) {
	idea, err := s.ideaRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get idea: %w", err)
	}
	return idea, nil
}

// Create validates, sanitizes and stores a new idea
func (s *IdeaServiceImpl) Create(ctx context.Context, userPhone string, req CreateIdeaRequest) (*models.Idea, error) {
	// Tags are dropped first, then entities decoded: "&lt;b&gt;" stays as the literal text "<b>".
	// Templates and JSON encoders escape it on output.
	content := html.UnescapeString(s.sanitizer.Sanitize(req.Content))

	idea, err := models.NewIdea(userPhone, content, req.Category, req.Hashtags)
	if err != nil {
		return nil, err
	}

	if err := s.ideaRepo.Create(ctx, idea); err != nil {
		return nil, fmt.Errorf("failed to create idea: %w", err)
	}

	metrics.IdeasSubmitted.Inc()
	return idea, nil
}

// Upvote adds one upvote to an idea
func (s *IdeaServiceImpl) Upvote(ctx context.Context, id uuid.UUID) (*models.Idea, error) {
	idea, err := s.ideaRepo.Upvote(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to upvote idea: %w", err)
	}
	return idea, nil
}
