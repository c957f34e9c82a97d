package kite

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/riskdesk/orderqueue/internal/domain/entity"
)

// ClientConfig holds configuration for the Kite Connect client.
type ClientConfig struct {
	// Session is the authenticated venue session (API key + access token).
	Session *entity.Session

	// BaseURL is the Kite Connect API base URL.
	// Defaults to https://api.kite.trade
	BaseURL string

	// Timeout is the maximum time to wait for a single HTTP request.
	Timeout time.Duration

	// Attempts is the total number of tries for retryable requests (quote
	// and profile lookups). Order placement is always a single attempt.
	Attempts int

	// MinDelay is the initial delay before the first retry.
	MinDelay time.Duration

	// MaxDelay is the maximum delay between retries.
	MaxDelay time.Duration

	// RateLimitPerSec is the request rate limit. Kite Connect allows 3
	// requests per second per endpoint class; stay under it.
	RateLimitPerSec float64

	// Logger is the structured logger for the client.
	Logger *slog.Logger

	// HTTPClient is an optional custom HTTP client.
	HTTPClient *http.Client
}

// ClientConfigDefaults returns a config with default values.
func ClientConfigDefaults() ClientConfig {
	return ClientConfig{
		BaseURL:         "https://api.kite.trade",
		Timeout:         10 * time.Second,
		Attempts:        3,
		MinDelay:        500 * time.Millisecond,
		MaxDelay:        5 * time.Second,
		RateLimitPerSec: 2,
		Logger:          slog.Default(),
	}
}

func applyDefaults(config *ClientConfig, defaults ClientConfig) {
	if config.BaseURL == "" {
		config.BaseURL = defaults.BaseURL
	}
	if config.Timeout == 0 {
		config.Timeout = defaults.Timeout
	}
	if config.Attempts == 0 {
		config.Attempts = defaults.Attempts
	}
	if config.MinDelay == 0 {
		config.MinDelay = defaults.MinDelay
	}
	if config.MaxDelay == 0 {
		config.MaxDelay = defaults.MaxDelay
	}
	if config.RateLimitPerSec == 0 {
		config.RateLimitPerSec = defaults.RateLimitPerSec
	}
	if config.Logger == nil {
		config.Logger = defaults.Logger
	}
}
