// Package sns implements the SubmissionNotifier port using AWS SNS.
//
// Every accepted order is published to one topic as a JSON message, with
// message attributes for subscription filtering by exchange, symbol, and
// direction. Publishing retries transient failures with exponential
// backoff; the caller treats a final failure as non-fatal.
//
// For testing, use the memory.Notifier adapter instead.
package sns

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/aws/aws-sdk-go-v2/service/sns/types"

	"github.com/riskdesk/orderqueue/internal/ports/outbound"
)

// Compile-time check that Notifier implements outbound.SubmissionNotifier
var _ outbound.SubmissionNotifier = (*Notifier)(nil)

// SNSPublisher defines the subset of SNS client methods used by Notifier.
// This interface allows for easy mocking in tests.
type SNSPublisher interface {
	Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

// Config holds configuration for the SNS submission notifier.
type Config struct {
	// TopicARN is the SNS topic submission events are published to.
	TopicARN string

	// MaxRetries is the maximum number of retry attempts for transient failures.
	// Set to 0 to disable retries.
	MaxRetries int

	// InitialBackoff is the initial delay before the first retry.
	InitialBackoff time.Duration

	// MaxBackoff is the maximum delay between retries.
	MaxBackoff time.Duration

	// BackoffFactor is the multiplier applied to backoff after each retry.
	BackoffFactor float64

	// Logger is the structured logger for the notifier.
	Logger *slog.Logger
}

// ConfigDefaults returns a config with default values.
func ConfigDefaults() Config {
	return Config{
		MaxRetries:     3,
		InitialBackoff: 100 * time.Millisecond,
		MaxBackoff:     5 * time.Second,
		BackoffFactor:  2.0,
		Logger:         slog.Default(),
	}
}

// Notifier publishes submission events to AWS SNS.
type Notifier struct {
	client    SNSPublisher
	config    Config
	logger    *slog.Logger
	closeOnce sync.Once
	closed    bool
	mu        sync.RWMutex
}

// NewNotifier creates a new SNS submission notifier.
func NewNotifier(client SNSPublisher, config Config) (*Notifier, error) {
	if client == nil {
		return nil, errors.New("sns client is required")
	}
	if config.TopicARN == "" {
		return nil, errors.New("topic ARN is required")
	}

	// Apply defaults for unset values
	defaults := ConfigDefaults()
	if config.MaxRetries == 0 {
		config.MaxRetries = defaults.MaxRetries
	}
	if config.InitialBackoff == 0 {
		config.InitialBackoff = defaults.InitialBackoff
	}
	if config.MaxBackoff == 0 {
		config.MaxBackoff = defaults.MaxBackoff
	}
	if config.BackoffFactor == 0 {
		config.BackoffFactor = defaults.BackoffFactor
	}
	if config.Logger == nil {
		config.Logger = defaults.Logger
	}

	return &Notifier{
		client: client,
		config: config,
		logger: config.Logger.With("component", "sns-notifier"),
	}, nil
}

// NotifySubmission publishes one submission event.
func (n *Notifier) NotifySubmission(ctx context.Context, event outbound.SubmissionEvent) error {
	n.mu.RLock()
	if n.closed {
		n.mu.RUnlock()
		return errors.New("notifier is closed")
	}
	n.mu.RUnlock()

	messageBytes, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	// Message attributes let subscribers filter without parsing the body
	attributes := map[string]types.MessageAttributeValue{
		"exchange": {
			DataType:    aws.String("String"),
			StringValue: aws.String(event.Exchange),
		},
		"symbol": {
			DataType:    aws.String("String"),
			StringValue: aws.String(event.Symbol),
		},
		"direction": {
			DataType:    aws.String("String"),
			StringValue: aws.String(event.Direction),
		},
	}

	input := &sns.PublishInput{
		TopicArn:          aws.String(n.config.TopicARN),
		Message:           aws.String(string(messageBytes)),
		MessageAttributes: attributes,
	}

	return n.publishWithRetry(ctx, input, event)
}

// publishWithRetry attempts to publish with exponential backoff on transient failures.
func (n *Notifier) publishWithRetry(ctx context.Context, input *sns.PublishInput, event outbound.SubmissionEvent) error {
	var lastErr error
	backoff := n.config.InitialBackoff

	for attempt := 0; attempt <= n.config.MaxRetries; attempt++ {
		if attempt > 0 {
			n.logger.Warn("publish failed, retrying",
				"attempt", attempt,
				"maxRetries", n.config.MaxRetries,
				"backoff", backoff,
				"error", lastErr,
				"orderID", event.OrderID,
			)

			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(backoff):
			}

			backoff = time.Duration(float64(backoff) * n.config.BackoffFactor)
			if backoff > n.config.MaxBackoff {
				backoff = n.config.MaxBackoff
			}
		}

		_, err := n.client.Publish(ctx, input)
		if err == nil {
			n.logger.Debug("submission event published", "orderID", event.OrderID)
			return nil
		}

		lastErr = err

		if !isRetryableError(err) {
			return fmt.Errorf("failed to publish to SNS: %w", err)
		}
	}

	n.logger.Error("publish failed after all retries",
		"maxRetries", n.config.MaxRetries,
		"error", lastErr,
		"orderID", event.OrderID,
	)

	return fmt.Errorf("failed to publish to SNS after %d retries: %w", n.config.MaxRetries, lastErr)
}

// isRetryableError determines if an error should trigger a retry.
func isRetryableError(err error) bool {
	if err == nil {
		return false
	}

	// Context errors are not retryable
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	var throttleErr *types.ThrottledException
	if errors.As(err, &throttleErr) {
		return true
	}

	var internalErr *types.InternalErrorException
	if errors.As(err, &internalErr) {
		return true
	}

	// Default to retrying on unknown errors (network issues, etc.)
	return true
}

// Close marks the notifier as closed and prevents further publishing.
func (n *Notifier) Close() error {
	n.closeOnce.Do(func() {
		n.mu.Lock()
		n.closed = true
		n.mu.Unlock()
		n.logger.Info("SNS notifier closed")
	})
	return nil
}
