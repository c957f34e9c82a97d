// Package main performs the interactive venue login: it exchanges a
// one-time request token for an access token and stores the session in
// Redis for the reconciler to pick up.
package main

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"

	"github.com/riskdesk/orderqueue/internal/adapters/outbound/kite"
	"github.com/riskdesk/orderqueue/internal/adapters/outbound/redis"
	"github.com/riskdesk/orderqueue/internal/domain/entity"
	"github.com/riskdesk/orderqueue/internal/pkg/env"
)

func main() {
	_ = godotenv.Load()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: env.ParseLogLevel(slog.LevelInfo),
	}))
	slog.SetDefault(logger)

	if err := run(context.Background(), logger); err != nil {
		logger.Error("login failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, logger *slog.Logger) error {
	apiKey := requireEnv("KITE_API_KEY")
	apiSecret := requireEnv("KITE_API_SECRET")

	fmt.Printf("Open this URL, log in, and copy the request_token from the redirect:\n\n  %s\n\n", kite.LoginURL(apiKey))
	fmt.Print("request_token: ")

	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil {
		return fmt.Errorf("reading request token: %w", err)
	}
	requestToken := strings.TrimSpace(line)

	session, err := kite.GenerateSession(ctx, kite.AuthConfig{
		APIKey:    apiKey,
		APISecret: apiSecret,
		Logger:    logger,
	}, requestToken)
	if err != nil {
		return fmt.Errorf("exchanging request token: %w", err)
	}

	if addr := env.Get("REDIS_ADDR", ""); addr != "" {
		if err := storeSession(ctx, logger, addr, session); err != nil {
			return err
		}
		logger.Info("session stored in Redis", "addr", addr)
		return nil
	}

	// No store configured: hand the token to the operator instead.
	fmt.Printf("\nKITE_ACCESS_TOKEN=%s\n", session.AccessToken)
	return nil
}

func storeSession(ctx context.Context, logger *slog.Logger, addr string, session *entity.Session) error {
	cfg := redis.ConfigDefaults()
	cfg.Addr = addr
	cfg.Password = env.Get("REDIS_PASSWORD", "")
	cfg.DB = env.GetInt("REDIS_DB", 0)

	store, err := redis.NewSessionStore(cfg, logger)
	if err != nil {
		return fmt.Errorf("creating session store: %w", err)
	}
	defer store.Close()

	if err := store.Save(ctx, session); err != nil {
		return fmt.Errorf("storing session: %w", err)
	}
	return nil
}

func requireEnv(key string) string {
	value := os.Getenv(key)
	if value == "" {
		slog.Error("required environment variable not set", "key", key)
		os.Exit(1)
	}
	return value
}
