package kite

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/riskdesk/orderqueue/internal/domain/entity"
)

// AuthConfig holds what the one-time interactive login exchange needs.
type AuthConfig struct {
	APIKey    string
	APISecret string

	// BaseURL defaults to the production API.
	BaseURL string

	// Timeout for the exchange request.
	Timeout time.Duration

	Logger *slog.Logger

	// HTTPClient is an optional custom HTTP client.
	HTTPClient *http.Client
}

// LoginURL returns the venue login page the operator must visit to obtain a
// one-time request token.
func LoginURL(apiKey string) string {
	return fmt.Sprintf("https://kite.zerodha.com/connect/login?v=3&api_key=%s", url.QueryEscape(apiKey))
}

// GenerateSession exchanges a one-time request token for a session. This is
// the interactive re-auth path, used only when no stored token is valid; it
// is a single attempt by design — a failed exchange means the operator must
// fetch a fresh request token anyway.
func GenerateSession(ctx context.Context, cfg AuthConfig, requestToken string) (*entity.Session, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("APIKey is required")
	}
	if cfg.APISecret == "" {
		return nil, errors.New("APISecret is required")
	}
	if requestToken == "" {
		return nil, errors.New("request token is required")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = ClientConfigDefaults().BaseURL
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = ClientConfigDefaults().Timeout
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}

	// checksum = SHA256(api_key + request_token + api_secret)
	sum := sha256.Sum256([]byte(cfg.APIKey + requestToken + cfg.APISecret))

	form := url.Values{}
	form.Set("api_key", cfg.APIKey)
	form.Set("request_token", requestToken)
	form.Set("checksum", hex.EncodeToString(sum[:]))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, cfg.BaseURL+"/session/token", strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("X-Kite-Version", "3")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("HTTP request failed: %w", err)
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			logger.Warn("failed to close response body", "error", closeErr)
		}
	}()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("parsing response (HTTP %d): %w", resp.StatusCode, err)
	}
	if env.Status != "success" {
		return nil, fmt.Errorf("session exchange failed (HTTP %d, %s): %s", resp.StatusCode, env.ErrorType, env.Message)
	}

	var data sessionData
	if err := json.Unmarshal(env.Data, &data); err != nil {
		return nil, fmt.Errorf("parsing session data: %w", err)
	}

	session, err := entity.NewSession(cfg.APIKey, data.AccessToken)
	if err != nil {
		return nil, fmt.Errorf("building session: %w", err)
	}

	logger.Info("session generated", "userID", data.UserID)
	return session, nil
}
