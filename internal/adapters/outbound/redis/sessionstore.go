// Package redis provides a Redis implementation of the SessionStore port.
//
// The venue access token is valid for roughly one trading day, so it is
// stored under a single key with a TTL; an expired key reads the same as
// no stored session, forcing a fresh interactive login.
package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/riskdesk/orderqueue/internal/domain/entity"
	"github.com/riskdesk/orderqueue/internal/ports/outbound"
)

// Compile-time check that SessionStore implements outbound.SessionStore
var _ outbound.SessionStore = (*SessionStore)(nil)

// Config holds Redis session store configuration.
type Config struct {
	// Addr is the Redis server address (e.g., "localhost:6379")
	Addr string
	// Password for Redis authentication (empty for no auth)
	Password string
	// DB is the Redis database number (0-15)
	DB int
	// TTL is how long a stored session lives before expiring
	TTL time.Duration
	// KeyPrefix is prepended to the session key
	KeyPrefix string
}

// ConfigDefaults returns sensible defaults for the session store.
func ConfigDefaults() Config {
	return Config{
		Addr:      "localhost:6379",
		Password:  "",
		DB:        0,
		TTL:       20 * time.Hour,
		KeyPrefix: "orderqueue",
	}
}

// SessionStore is a Redis implementation of the outbound.SessionStore port.
type SessionStore struct {
	client    *redis.Client
	ttl       time.Duration
	keyPrefix string
	logger    *slog.Logger
}

// NewSessionStore creates a new Redis session store.
func NewSessionStore(cfg Config, logger *slog.Logger) (*SessionStore, error) {
	if cfg.Addr == "" {
		return nil, fmt.Errorf("redis address is required")
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "redis-sessions")

	return &SessionStore{
		client:    client,
		ttl:       cfg.TTL,
		keyPrefix: cfg.KeyPrefix,
		logger:    logger,
	}, nil
}

// Ping checks the Redis connection.
func (s *SessionStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Close closes the Redis connection.
func (s *SessionStore) Close() error {
	return s.client.Close()
}

func (s *SessionStore) key() string {
	return fmt.Sprintf("%s:session", s.keyPrefix)
}

type storedSession struct {
	APIKey      string `json:"api_key"`
	AccessToken string `json:"access_token"`
}

// Save stores the session, replacing any previous one.
func (s *SessionStore) Save(ctx context.Context, session *entity.Session) error {
	if session == nil {
		return fmt.Errorf("session cannot be nil")
	}

	payload, err := json.Marshal(storedSession{
		APIKey:      session.APIKey,
		AccessToken: session.AccessToken,
	})
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}

	if err := s.client.Set(ctx, s.key(), payload, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to store session: %w", err)
	}

	s.logger.Debug("session stored", "ttl", s.ttl)
	return nil
}

// Load returns the stored session, or entity.ErrNoStoredSession when the
// key is absent or expired.
func (s *SessionStore) Load(ctx context.Context) (*entity.Session, error) {
	payload, err := s.client.Get(ctx, s.key()).Bytes()
	if err == redis.Nil {
		return nil, entity.ErrNoStoredSession
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}

	var stored storedSession
	if err := json.Unmarshal(payload, &stored); err != nil {
		return nil, fmt.Errorf("failed to decode session: %w", err)
	}

	session, err := entity.NewSession(stored.APIKey, stored.AccessToken)
	if err != nil {
		return nil, fmt.Errorf("stored session is invalid: %w", err)
	}
	return session, nil
}

// Delete removes the stored session.
func (s *SessionStore) Delete(ctx context.Context) error {
	if err := s.client.Del(ctx, s.key()).Err(); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}
