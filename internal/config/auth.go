package config

import (
	"fmt"
	"strings"
	"time"
)

const minJWTSecretLength = 32

// AuthConfig holds token signing and registration settings
type AuthConfig struct {
	JWTSecret             string
	Issuer                string
	Audience              string
	AccessTokenTTL        time.Duration
	RegistrationCountries []string
}

// LoadAuthConfig loads authentication configuration from environment variables
func LoadAuthConfig(getenv func(string) string) (*AuthConfig, error) {
	config := &AuthConfig{
		JWTSecret: getenv("BANTORA_JWT_SECRET"),
		Issuer:    getenv("BANTORA_JWT_ISSUER"),
		Audience:  getenv("BANTORA_JWT_AUDIENCE"),
	}

	if config.JWTSecret == "" {
		return nil, fmt.Errorf("BANTORA_JWT_SECRET is required")
	}
	if len(config.JWTSecret) < minJWTSecretLength {
		return nil, fmt.Errorf("BANTORA_JWT_SECRET must be at least %d bytes", minJWTSecretLength)
	}
	if config.Issuer == "" {
		config.Issuer = "bantora-api"
	}
	if config.Audience == "" {
		config.Audience = "bantora-web"
	}

	config.AccessTokenTTL = time.Hour
	if raw := getenv("BANTORA_ACCESS_TOKEN_TTL"); raw != "" {
		ttl, err := time.ParseDuration(raw)
		if err != nil || ttl <= 0 {
			return nil, fmt.Errorf("BANTORA_ACCESS_TOKEN_TTL must be a positive duration, got %q", raw)
		}
		config.AccessTokenTTL = ttl
	}

	countries := getenv("BANTORA_REGISTRATION_COUNTRIES")
	if countries == "" {
		countries = "ZW,ZA,KE,NG,GH"
	}
	config.RegistrationCountries = splitList(countries)

	return config, nil
}

// CountryAllowed reports whether users from the given ISO country code may register
func (c *AuthConfig) CountryAllowed(code string) bool {
	code = strings.ToUpper(strings.TrimSpace(code))
	for _, allowed := range c.RegistrationCountries {
		if allowed == code {
			return true
		}
	}
	return false
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		part = strings.ToUpper(strings.TrimSpace(part))
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}
