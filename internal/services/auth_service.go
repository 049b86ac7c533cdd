package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/t3ratech/bantora-web/internal/auth"
	"github.com/t3ratech/bantora-web/internal/config"
	"github.com/t3ratech/bantora-web/internal/models"
)

// UserRepository defines the interface for user persistence
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByPhone(ctx context.Context, phone string) (*models.User, error)
	TouchLastLogin(ctx context.Context, phone string, at time.Time) error
}

// TokenManager issues and validates access tokens
type TokenManager interface {
	GenerateToken(phone string) (string, error)
	ValidateToken(token string) (string, error)
	TTL() time.Duration
}

// RegisterRequest is the payload for creating an account
type RegisterRequest struct {
	PhoneNumber string `json:"phoneNumber"`
	Password    string `json:"password"`
	CountryCode string `json:"countryCode"`
}

// LoginRequest is the payload for signing in
type LoginRequest struct {
	PhoneNumber string `json:"phoneNumber"`
	Password    string `json:"password"`
}

// AuthResponse is returned after a successful register or login
type AuthResponse struct {
	AccessToken string `json:"accessToken"`
	TokenType   string `json:"tokenType"`
	ExpiresIn   int64  `json:"expiresIn"`
	PhoneNumber string `json:"phoneNumber"`
}

// AuthService handles registration, login and token verification
type AuthService interface {
	Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error)
	Login(ctx context.Context, req LoginRequest) (*AuthResponse, error)
	Authenticate(header string) (string, error)
}

// AuthServiceImpl implements AuthService
type AuthServiceImpl struct {
	userRepo UserRepository
	tokens   TokenManager
	cfg      *config.AuthConfig
	now      func() time.Time
}

// NewAuthService creates a new auth service
func NewAuthService(userRepo UserRepository, tokens TokenManager, cfg *config.AuthConfig) AuthService {
	return &AuthServiceImpl{
		userRepo: userRepo,
		tokens:   tokens,
		cfg:      cfg,
		now:      time.Now,
	}
}

// Register creates a verified, enabled account and signs the user in
func (s *AuthServiceImpl) Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error) {
	phone, err := models.NormalizePhoneNumber(req.PhoneNumber)
	if err != nil {
		return nil, err
	}
	if len(req.Password) < models.MinPasswordLength {
		return nil, models.ErrPasswordTooShort
	}
	country := strings.ToUpper(strings.TrimSpace(req.CountryCode))
	if !s.cfg.CountryAllowed(country) {
		return nil, models.ErrCountryNotAllowed
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		PhoneNumber:  phone,
		PasswordHash: hash,
		CountryCode:  country,
		Enabled:      true,
		Verified:     true,
		CreatedAt:    s.now(),
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	log.Printf("Registered user %s (%s)", phone, country)
	return s.issue(phone)
}

// Login checks credentials and issues an access token
func (s *AuthServiceImpl) Login(ctx context.Context, req LoginRequest) (*AuthResponse, error) {
	phone, err := models.NormalizePhoneNumber(req.PhoneNumber)
	if err != nil {
		return nil, models.ErrInvalidCredentials
	}

	user, err := s.userRepo.GetByPhone(ctx, phone)
	if errors.Is(err, models.ErrUserNotFound) {
		return nil, models.ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if !user.Enabled {
		return nil, models.ErrAccountDisabled
	}
	if !auth.CheckPassword(req.Password, user.PasswordHash) {
		return nil, models.ErrInvalidCredentials
	}

	if err := s.userRepo.TouchLastLogin(ctx, phone, s.now()); err != nil {
		// Login still succeeds; the timestamp is informational.
		log.Printf("Warning: %v", err)
	}
	return s.issue(phone)
}

// Authenticate validates an Authorization header of the form "Bearer <jwt>" and returns
// the caller's phone number. Any other scheme, or a bare token, is rejected.
func (s *AuthServiceImpl) Authenticate(header string) (string, error) {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", auth.ErrInvalidToken
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return "", auth.ErrInvalidToken
	}
	return s.tokens.ValidateToken(token)
}

func (s *AuthServiceImpl) issue(phone string) (*AuthResponse, error) {
	token, err := s.tokens.GenerateToken(phone)
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}
	return &AuthResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresIn:   int64(s.tokens.TTL().Seconds()),
		PhoneNumber: phone,
	}, nil
}
