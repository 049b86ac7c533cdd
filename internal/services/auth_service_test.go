package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/t3ratech/bantora-web/internal/auth"
	"github.com/t3ratech/bantora-web/internal/config"
	"github.com/t3ratech/bantora-web/internal/models"
)

func testAuthConfig() *config.AuthConfig {
	return &config.AuthConfig{
		JWTSecret:             "0123456789abcdef0123456789abcdef",
		Issuer:                "bantora-api",
		Audience:              "bantora-web",
		AccessTokenTTL:        time.Hour,
		RegistrationCountries: []string{"ZW", "KE"},
	}
}

func newTestAuthService(repo UserRepository) AuthService {
	cfg := testAuthConfig()
	return NewAuthService(repo, auth.NewJWTManager(cfg), cfg)
}

func TestAuthService_Register(t *testing.T) {
	tests := []struct {
		name    string
		req     RegisterRequest
		repoErr error
		wantErr error
	}{
		{
			name: "successful registration",
			req:  RegisterRequest{PhoneNumber: "+263 77-123-4567", Password: "s3cretpass", CountryCode: "zw"},
		},
		{
			name:    "country not allowed",
			req:     RegisterRequest{PhoneNumber: "+2348012345678", Password: "s3cretpass", CountryCode: "NG"},
			wantErr: models.ErrCountryNotAllowed,
		},
		{
			name:    "invalid phone",
			req:     RegisterRequest{PhoneNumber: "0771234567", Password: "s3cretpass", CountryCode: "ZW"},
			wantErr: models.ErrInvalidPhoneNumber,
		},
		{
			name:    "short password",
			req:     RegisterRequest{PhoneNumber: "+263771234567", Password: "short", CountryCode: "ZW"},
			wantErr: models.ErrPasswordTooShort,
		},
		{
			name:    "phone already registered",
			req:     RegisterRequest{PhoneNumber: "+263771234567", Password: "s3cretpass", CountryCode: "ZW"},
			repoErr: models.ErrPhoneRegistered,
			wantErr: models.ErrPhoneRegistered,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var created *models.User
			mockRepo := &MockUserRepository{
				CreateFunc: func(user *models.User) error {
					if tt.repoErr != nil {
						return tt.repoErr
					}
					created = user
					return nil
				},
			}

			service := newTestAuthService(mockRepo)
			resp, err := service.Register(context.Background(), tt.req)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Expected error %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}

			if created.PhoneNumber != "+263771234567" {
				t.Errorf("Expected normalised phone, got %q", created.PhoneNumber)
			}
			if created.CountryCode != "ZW" {
				t.Errorf("Expected country ZW, got %q", created.CountryCode)
			}
			if created.PasswordHash == tt.req.Password || !auth.CheckPassword(tt.req.Password, created.PasswordHash) {
				t.Error("Password should be stored as a bcrypt hash")
			}
			if !created.Enabled || !created.Verified {
				t.Error("New users should be enabled and verified")
			}
			if resp.TokenType != "Bearer" || resp.AccessToken == "" {
				t.Errorf("Unexpected auth response: %+v", resp)
			}
			if resp.ExpiresIn != 3600 {
				t.Errorf("Expected ExpiresIn 3600, got %d", resp.ExpiresIn)
			}
		})
	}
}

func TestAuthService_Login(t *testing.T) {
	hash, err := auth.HashPassword("s3cretpass")
	if err != nil {
		t.Fatalf("Failed to hash password: %v", err)
	}

	tests := []struct {
		name     string
		phone    string
		password string
		enabled  bool
		wantErr  error
	}{
		{name: "successful login", phone: "+254712345678", password: "s3cretpass", enabled: true},
		{name: "wrong password", phone: "+254712345678", password: "nope-nope", enabled: true, wantErr: models.ErrInvalidCredentials},
		{name: "unknown user", phone: "+254700000000", password: "s3cretpass", enabled: true, wantErr: models.ErrInvalidCredentials},
		{name: "malformed phone", phone: "12", password: "s3cretpass", enabled: true, wantErr: models.ErrInvalidCredentials},
		{name: "disabled account", phone: "+254712345678", password: "s3cretpass", enabled: false, wantErr: models.ErrAccountDisabled},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			touched := false
			mockRepo := &MockUserRepository{
				GetByPhoneFunc: func(phone string) (*models.User, error) {
					if phone != "+254712345678" {
						return nil, models.ErrUserNotFound
					}
					return &models.User{PhoneNumber: phone, PasswordHash: hash, Enabled: tt.enabled}, nil
				},
				TouchLastLoginFunc: func(string, time.Time) error {
					touched = true
					return nil
				},
			}

			service := newTestAuthService(mockRepo)
			resp, err := service.Login(context.Background(), LoginRequest{PhoneNumber: tt.phone, Password: tt.password})
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Expected error %v, got %v", tt.wantErr, err)
				}
				if touched {
					t.Error("Last login should not be updated on failure")
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if !touched {
				t.Error("Expected last login to be updated")
			}

			phone, err := service.Authenticate("Bearer " + resp.AccessToken)
			if err != nil {
				t.Fatalf("Issued token should authenticate: %v", err)
			}
			if phone != tt.phone {
				t.Errorf("Expected phone %s, got %s", tt.phone, phone)
			}
		})
	}
}

func TestAuthService_Authenticate_Rejects(t *testing.T) {
	service := newTestAuthService(&MockUserRepository{})

	for _, header := range []string{"", "Bearer ", "Bearer not-a-jwt", "Basic dXNlcjpwYXNz"} {
		if _, err := service.Authenticate(header); err == nil {
			t.Errorf("Expected %q to be rejected", header)
		}
	}
}

func TestAuthService_Authenticate_RequiresBearerScheme(t *testing.T) {
	service := newTestAuthService(&MockUserRepository{})
	token, err := service.(*AuthServiceImpl).tokens.GenerateToken("+263771234567")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if _, err := service.Authenticate(token); !errors.Is(err, auth.ErrInvalidToken) {
		t.Errorf("Expected bare token to be rejected with ErrInvalidToken, got %v", err)
	}
	if _, err := service.Authenticate("Token " + token); !errors.Is(err, auth.ErrInvalidToken) {
		t.Errorf("Expected unknown scheme to be rejected, got %v", err)
	}
	for _, header := range []string{"Bearer " + token, "bearer " + token, "  Bearer   " + token + " "} {
		phone, err := service.Authenticate(header)
		if err != nil {
			t.Errorf("Expected %q to authenticate: %v", header, err)
			continue
		}
		if phone != "+263771234567" {
			t.Errorf("Expected phone +263771234567, got %s", phone)
		}
	}
}
