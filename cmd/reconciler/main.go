// Package main runs the order queue reconciler: it polls the spreadsheet
// job queue and places one limit order per eligible row.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	awssns "github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/joho/godotenv"

	"github.com/riskdesk/orderqueue/internal/adapters/outbound/kite"
	"github.com/riskdesk/orderqueue/internal/adapters/outbound/memory"
	"github.com/riskdesk/orderqueue/internal/adapters/outbound/postgres"
	"github.com/riskdesk/orderqueue/internal/adapters/outbound/redis"
	"github.com/riskdesk/orderqueue/internal/adapters/outbound/sheets"
	"github.com/riskdesk/orderqueue/internal/adapters/outbound/sns"
	"github.com/riskdesk/orderqueue/internal/domain/entity"
	"github.com/riskdesk/orderqueue/internal/pkg/env"
	"github.com/riskdesk/orderqueue/internal/ports/outbound"
	"github.com/riskdesk/orderqueue/internal/services/pricing"
	"github.com/riskdesk/orderqueue/internal/services/reconcile"
	"github.com/riskdesk/orderqueue/internal/services/submit"
)

// Build-time variables - can be set via ldflags, otherwise populated from Go's build info.
var (
	GitCommit string
	BuildTime string
)

func init() {
	if info, ok := debug.ReadBuildInfo(); ok {
		for _, setting := range info.Settings {
			switch setting.Key {
			case "vcs.revision":
				if GitCommit == "" {
					GitCommit = setting.Value
				}
			case "vcs.time":
				if BuildTime == "" {
					BuildTime = setting.Value
				}
			}
		}
	}
}

func main() {
	_ = godotenv.Load()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: env.ParseLogLevel(slog.LevelInfo),
	}))
	slog.SetDefault(logger)

	logger.Info("starting reconciler", "commit", GitCommit, "buildTime", BuildTime)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigChan
		logger.Info("received signal, shutting down", "signal", sig)
		cancel()
	}()

	if err := run(ctx, logger); err != nil {
		logger.Error("failed", "error", err)
		os.Exit(1)
	}

	logger.Info("stopped cleanly")
}

func run(ctx context.Context, logger *slog.Logger) error {
	session, err := resolveSession(ctx, logger)
	if err != nil {
		return err
	}

	broker, err := kite.NewClient(kite.ClientConfig{
		Session: session,
		Logger:  logger,
	})
	if err != nil {
		return fmt.Errorf("creating broker client: %w", err)
	}

	if err := broker.ValidateSession(ctx); err != nil {
		if errors.Is(err, entity.ErrSessionExpired) {
			return fmt.Errorf("stored session is no longer valid, run the login command to refresh it: %w", err)
		}
		return fmt.Errorf("validating session: %w", err)
	}

	rowStore, err := sheets.NewRowStore(ctx, sheets.Config{
		SpreadsheetID:   requireEnv("SPREADSHEET_ID"),
		SheetName:       env.Get("SHEET_NAME", ""),
		CredentialsFile: env.Get("SHEET_CREDENTIALS_FILE", ""),
		Logger:          logger,
	})
	if err != nil {
		return fmt.Errorf("creating row store: %w", err)
	}

	journal, closeJournal, err := createJournal(ctx, logger)
	if err != nil {
		return err
	}
	defer closeJournal()

	notifier, err := createNotifier(ctx, logger)
	if err != nil {
		return err
	}
	defer notifier.Close()

	resolver, err := pricing.NewResolver(broker, logger)
	if err != nil {
		return fmt.Errorf("creating price resolver: %w", err)
	}

	submitter, err := submit.NewSubmitter(submit.Config{
		Variety: env.Get("ORDER_VARIETY", kite.VarietyAMO),
		Logger:  logger,
	}, broker)
	if err != nil {
		return fmt.Errorf("creating submitter: %w", err)
	}

	defaults := reconcile.ConfigDefaults()
	service, err := reconcile.NewService(reconcile.Config{
		PollInterval: env.GetDuration("POLL_INTERVAL", defaults.PollInterval),
		RowDelay:     env.GetDuration("ROW_DELAY", defaults.RowDelay),
		Logger:       logger,
	}, rowStore, resolver, submitter, journal, notifier)
	if err != nil {
		return fmt.Errorf("creating reconciler: %w", err)
	}

	return service.Run(ctx)
}

// resolveSession prefers an explicit token from the environment, falling
// back to the Redis store populated by the login command.
func resolveSession(ctx context.Context, logger *slog.Logger) (*entity.Session, error) {
	apiKey := requireEnv("KITE_API_KEY")

	if token := env.Get("KITE_ACCESS_TOKEN", ""); token != "" {
		return entity.NewSession(apiKey, token)
	}

	addr := env.Get("REDIS_ADDR", "")
	if addr == "" {
		return nil, fmt.Errorf("set KITE_ACCESS_TOKEN or REDIS_ADDR (and run the login command first)")
	}

	cfg := redis.ConfigDefaults()
	cfg.Addr = addr
	cfg.Password = env.Get("REDIS_PASSWORD", "")
	cfg.DB = env.GetInt("REDIS_DB", 0)

	store, err := redis.NewSessionStore(cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("creating session store: %w", err)
	}
	defer store.Close()

	session, err := store.Load(ctx)
	if errors.Is(err, entity.ErrNoStoredSession) {
		return nil, fmt.Errorf("no session in Redis, run the login command first")
	}
	if err != nil {
		return nil, fmt.Errorf("loading session: %w", err)
	}
	if session.APIKey != apiKey {
		return nil, fmt.Errorf("stored session belongs to a different API key, run the login command again")
	}
	return session, nil
}

// createJournal returns the PostgreSQL journal when DATABASE_URL is set and
// the in-memory one otherwise. Without a database, repair only covers
// write-back failures within one process lifetime.
func createJournal(ctx context.Context, logger *slog.Logger) (outbound.SubmissionJournal, func(), error) {
	dbURL := env.Get("DATABASE_URL", "")
	if dbURL == "" {
		logger.Warn("DATABASE_URL not set, submission journal is in-memory only")
		return memory.NewJournal(), func() {}, nil
	}

	pool, err := postgres.OpenPool(ctx, postgres.DefaultDBConfig(dbURL))
	if err != nil {
		return nil, nil, fmt.Errorf("connecting to database: %w", err)
	}

	journal, err := postgres.NewJournal(pool, logger)
	if err != nil {
		pool.Close()
		return nil, nil, fmt.Errorf("creating journal: %w", err)
	}
	return journal, pool.Close, nil
}

// createNotifier returns the SNS notifier when SNS_TOPIC_ARN is set and the
// in-memory no-op one otherwise.
func createNotifier(ctx context.Context, logger *slog.Logger) (outbound.SubmissionNotifier, error) {
	topicARN := env.Get("SNS_TOPIC_ARN", "")
	if topicARN == "" {
		return memory.NewNotifier(), nil
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading AWS config: %w", err)
	}

	notifier, err := sns.NewNotifier(awssns.NewFromConfig(awsCfg), sns.Config{
		TopicARN: topicARN,
		Logger:   logger,
	})
	if err != nil {
		return nil, fmt.Errorf("creating notifier: %w", err)
	}
	return notifier, nil
}

func requireEnv(key string) string {
	value := os.Getenv(key)
	if value == "" {
		slog.Error("required environment variable not set", "key", key)
		os.Exit(1)
	}
	return value
}
