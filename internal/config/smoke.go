package config

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// SmokeConfig holds settings for the browser smoke suite
type SmokeConfig struct {
	BaseURL        string
	Port           int
	Headless       bool
	ScreenshotPath string
	SettleDelay    time.Duration
	Timeout        time.Duration
	S3Bucket       string
	S3Prefix       string
}

// LoadSmokeConfig loads smoke suite configuration from environment variables
func LoadSmokeConfig(getenv func(string) string) (*SmokeConfig, error) {
	config := &SmokeConfig{
		BaseURL:        getenv("BANTORA_WEB_BASE_URL"),
		Port:           8080,
		Headless:       true,
		ScreenshotPath: getenv("BANTORA_SMOKE_SCREENSHOT"),
		SettleDelay:    3000 * time.Millisecond,
		Timeout:        30 * time.Second,
		S3Bucket:       getenv("BANTORA_SMOKE_S3_BUCKET"),
		S3Prefix:       getenv("BANTORA_SMOKE_S3_PREFIX"),
	}

	if config.BaseURL == "" {
		config.BaseURL = "localhost"
	}
	if config.ScreenshotPath == "" {
		config.ScreenshotPath = "homepage.png"
	}

	if raw := getenv("BANTORA_WEB_PORT"); raw != "" {
		port, err := strconv.Atoi(raw)
		if err != nil || port < 1 || port > 65535 {
			return nil, fmt.Errorf("BANTORA_WEB_PORT must be a valid port, got %q", raw)
		}
		config.Port = port
	}

	if raw := getenv("BANTORA_SMOKE_HEADLESS"); raw != "" {
		headless, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, fmt.Errorf("BANTORA_SMOKE_HEADLESS must be a boolean, got %q", raw)
		}
		config.Headless = headless
	}

	if raw := getenv("BANTORA_SMOKE_SETTLE"); raw != "" {
		settle, err := time.ParseDuration(raw)
		if err != nil || settle < 0 {
			return nil, fmt.Errorf("BANTORA_SMOKE_SETTLE must be a non-negative duration, got %q", raw)
		}
		config.SettleDelay = settle
	}

	if raw := getenv("BANTORA_SMOKE_TIMEOUT"); raw != "" {
		timeout, err := time.ParseDuration(raw)
		if err != nil || timeout <= 0 {
			return nil, fmt.Errorf("BANTORA_SMOKE_TIMEOUT must be a positive duration, got %q", raw)
		}
		config.Timeout = timeout
	}

	return config, nil
}

// ResolvedBaseURL returns the URL the browser context resolves "/" against.
// A bare host gets an http scheme, one trailing slash is dropped, and a
// localhost host without an explicit port gets the configured port.
func (c *SmokeConfig) ResolvedBaseURL() string {
	raw := c.BaseURL
	if !strings.HasPrefix(raw, "http://") && !strings.HasPrefix(raw, "https://") {
		raw = "http://" + raw
	}
	raw = strings.TrimSuffix(raw, "/")

	u, err := url.Parse(raw)
	if err != nil {
		return raw
	}
	if u.Hostname() == "localhost" && u.Port() == "" {
		u.Host = fmt.Sprintf("%s:%d", u.Hostname(), c.Port)
	}
	return u.String()
}

// S3Key returns the object key used when uploading the given artifact
func (c *SmokeConfig) S3Key(name string) string {
	prefix := strings.Trim(c.S3Prefix, "/")
	if prefix == "" {
		return name
	}
	return prefix + "/" + name
}
