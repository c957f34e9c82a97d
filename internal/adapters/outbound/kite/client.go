// Package kite implements the MarketDataProvider, OrderGateway, and
// SessionValidator ports against the Kite Connect v3 REST API.
//
// Quote and profile lookups are retried with exponential backoff on
// transient transport failures; order placement is deliberately a single
// attempt, because the caller's contract is one atomic submission per row
// per cycle. All requests share one rate limiter.
package kite

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/riskdesk/orderqueue/internal/domain/entity"
	"github.com/riskdesk/orderqueue/internal/pkg/retry"
	"github.com/riskdesk/orderqueue/internal/ports/outbound"
)

// Compile-time checks that Client implements the broker ports.
var (
	_ outbound.MarketDataProvider = (*Client)(nil)
	_ outbound.OrderGateway       = (*Client)(nil)
	_ outbound.SessionValidator   = (*Client)(nil)
)

// Client talks to the Kite Connect v3 API on behalf of one session.
type Client struct {
	config      ClientConfig
	session     *entity.Session
	httpClient  *http.Client
	limiter     *rate.Limiter
	retryConfig retry.Config
	logger      *slog.Logger
}

// NewClient creates a new Kite Connect API client.
func NewClient(config ClientConfig) (*Client, error) {
	if config.Session == nil {
		return nil, errors.New("session is required")
	}

	defaults := ClientConfigDefaults()
	applyDefaults(&config, defaults)

	httpClient := config.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: config.Timeout}
	}

	return &Client{
		config:     config,
		session:    config.Session,
		httpClient: httpClient,
		limiter:    rate.NewLimiter(rate.Limit(config.RateLimitPerSec), 1),
		retryConfig: retry.Config{
			Attempts: config.Attempts,
			MinDelay: config.MinDelay,
			MaxDelay: config.MaxDelay,
			Jitter:   false, // deterministic backoff keeps us under the venue's rate limit
		},
		logger: config.Logger.With("component", "kite-client"),
	}, nil
}

// ValidateSession checks the stored access token with a profile lookup.
func (c *Client) ValidateSession(ctx context.Context) error {
	var profile profileData
	if err := c.getWithRetry(ctx, "/user/profile", nil, &profile); err != nil {
		return err
	}
	c.logger.Info("session valid", "userID", profile.UserID)
	return nil
}

// getWithRetry performs a GET with rate limiting and bounded retries for
// transient failures.
func (c *Client) getWithRetry(ctx context.Context, path string, params url.Values, result any) error {
	onRetry := func(attempt int, err error, wait time.Duration) {
		c.logger.Warn("request failed, retrying",
			"path", path,
			"attempt", attempt,
			"wait", wait,
			"error", err,
		)
	}

	_, err := retry.Do(ctx, c.retryConfig, onRetry, func() (struct{}, error) {
		if err := c.limiter.Wait(ctx); err != nil {
			return struct{}{}, fmt.Errorf("rate limiter: %w", err)
		}
		return struct{}{}, c.doRequest(ctx, http.MethodGet, path, params, nil, result)
	})
	return err
}

// postOnce performs a single POST attempt with rate limiting and no retry.
func (c *Client) postOnce(ctx context.Context, path string, form url.Values, result any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter: %w", err)
	}
	return c.doRequest(ctx, http.MethodPost, path, nil, form, result)
}

func (c *Client) doRequest(ctx context.Context, method, path string, params, form url.Values, result any) error {
	fullURL := c.config.BaseURL + path
	if len(params) > 0 {
		fullURL = fmt.Sprintf("%s?%s", fullURL, params.Encode())
	}

	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}

	req, err := http.NewRequestWithContext(ctx, method, fullURL, body)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("X-Kite-Version", "3")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", c.session.Authorization())
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return retry.Mark(fmt.Errorf("HTTP request failed: %w", err))
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			c.logger.Warn("failed to close response body", "error", closeErr)
		}
	}()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return retry.Mark(fmt.Errorf("reading response body: %w", err))
	}

	if resp.StatusCode == http.StatusTooManyRequests {
		return retry.Mark(fmt.Errorf("rate limited (HTTP 429)"))
	}
	if resp.StatusCode >= 500 {
		return retry.Mark(fmt.Errorf("server error (HTTP %d)", resp.StatusCode))
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return fmt.Errorf("parsing response (HTTP %d): %w", resp.StatusCode, err)
	}

	if env.Status != "success" {
		return c.apiError(resp.StatusCode, &env)
	}

	if result != nil {
		if err := json.Unmarshal(env.Data, result); err != nil {
			return fmt.Errorf("parsing response data: %w", err)
		}
	}
	return nil
}

// apiError maps a venue error envelope to the domain error taxonomy.
func (c *Client) apiError(statusCode int, env *envelope) error {
	switch env.ErrorType {
	case errTypeToken:
		return fmt.Errorf("%w: %s", entity.ErrSessionExpired, env.Message)
	case errTypeNetwork:
		return retry.Mark(fmt.Errorf("venue network error (HTTP %d): %s", statusCode, env.Message))
	default:
		return fmt.Errorf("API error (HTTP %d, %s): %s", statusCode, env.ErrorType, env.Message)
	}
}
