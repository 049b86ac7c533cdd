package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/t3ratech/bantora-web/internal/auth"
	"github.com/t3ratech/bantora-web/internal/models"
	"github.com/t3ratech/bantora-web/internal/repository"
	"github.com/t3ratech/bantora-web/internal/services"
)

// MockPollService is a mock implementation of PollService for testing
type MockPollService struct {
	ListActiveFunc func(repository.PollFilter) ([]models.Poll, error)
	PopularFunc    func(string, int) ([]models.Poll, error)
	GetFunc        func(uuid.UUID) (*models.Poll, error)
}

func (m *MockPollService) ListActive(ctx context.Context, filter repository.PollFilter) ([]models.Poll, error) {
	if m.ListActiveFunc != nil {
		return m.ListActiveFunc(filter)
	}
	return []models.Poll{}, nil
}

func (m *MockPollService) Popular(ctx context.Context, category string, limit int) ([]models.Poll, error) {
	if m.PopularFunc != nil {
		return m.PopularFunc(category, limit)
	}
	return []models.Poll{}, nil
}

func (m *MockPollService) Get(ctx context.Context, id uuid.UUID) (*models.Poll, error) {
	if m.GetFunc != nil {
		return m.GetFunc(id)
	}
	return nil, models.ErrPollNotFound
}

// MockVoteService is a mock implementation of VoteService for testing
type MockVoteService struct {
	SubmitVoteFunc func(services.VoteRequest) (*models.Poll, error)
}

func (m *MockVoteService) SubmitVote(ctx context.Context, req services.VoteRequest) (*models.Poll, error) {
	if m.SubmitVoteFunc != nil {
		return m.SubmitVoteFunc(req)
	}
	return &models.Poll{ID: req.PollID}, nil
}

// MockIdeaService is a mock implementation of IdeaService for testing
type MockIdeaService struct {
	ListFunc   func(status, category, hashtag string) ([]models.Idea, error)
	GetFunc    func(uuid.UUID) (*models.Idea, error)
	CreateFunc func(string, services.CreateIdeaRequest) (*models.Idea, error)
	UpvoteFunc func(uuid.UUID) (*models.Idea, error)
}

func (m *MockIdeaService) List(ctx context.Context, status, category, hashtag string) ([]models.Idea, error) {
	if m.ListFunc != nil {
		return m.ListFunc(status, category, hashtag)
	}
	return []models.Idea{}, nil
}

func (m *MockIdeaService) Get(ctx context.Context, id uuid.UUID) (*models.Idea, error) {
	if m.GetFunc != nil {
		return m.GetFunc(id)
	}
	return nil, models.ErrIdeaNotFound
}

func (m *MockIdeaService) Create(ctx context.Context, userPhone string, req services.CreateIdeaRequest) (*models.Idea, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(userPhone, req)
	}
	return &models.Idea{ID: uuid.New(), UserPhone: userPhone, Content: req.Content}, nil
}

func (m *MockIdeaService) Upvote(ctx context.Context, id uuid.UUID) (*models.Idea, error) {
	if m.UpvoteFunc != nil {
		return m.UpvoteFunc(id)
	}
	return nil, models.ErrIdeaNotFound
}

// MockAuthService is a mock implementation of AuthService for testing
type MockAuthService struct {
	RegisterFunc     func(services.RegisterRequest) (*services.AuthResponse, error)
	LoginFunc        func(services.LoginRequest) (*services.AuthResponse, error)
	AuthenticateFunc func(string) (string, error)
}

func (m *MockAuthService) Register(ctx context.Context, req services.RegisterRequest) (*services.AuthResponse, error) {
	if m.RegisterFunc != nil {
		return m.RegisterFunc(req)
	}
	return &services.AuthResponse{AccessToken: "token", TokenType: "Bearer", PhoneNumber: req.PhoneNumber}, nil
}

func (m *MockAuthService) Login(ctx context.Context, req services.LoginRequest) (*services.AuthResponse, error) {
	if m.LoginFunc != nil {
		return m.LoginFunc(req)
	}
	return &services.AuthResponse{AccessToken: "token", TokenType: "Bearer", PhoneNumber: req.PhoneNumber}, nil
}

func (m *MockAuthService) Authenticate(token string) (string, error) {
	if m.AuthenticateFunc != nil {
		return m.AuthenticateFunc(token)
	}
	return "", auth.ErrInvalidToken
}

// withURLParam adds a chi URL parameter to the request
func withURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	ctx := context.WithValue(r.Context(), chi.RouteCtxKey, rctx)
	return r.WithContext(ctx)
}
