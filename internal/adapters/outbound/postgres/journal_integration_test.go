//go:build integration

package postgres

import (
	"context"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/riskdesk/orderqueue/db/migrator"
	"github.com/riskdesk/orderqueue/internal/domain/entity"
)

type journalTestFixture struct {
	journal *Journal
	pool    *pgxpool.Pool
	cleanup func()
}

func setupJournalTest(t *testing.T) *journalTestFixture {
	t.Helper()
	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"postgres:17-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("test"),
		postgres.WithPassword("test"),
		postgres.WithSQLDriver("pgx"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	if err != nil {
		t.Fatalf("failed to start container: %v", err)
	}

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("failed to get connection string: %v", err)
	}

	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		t.Fatalf("failed to create pgxpool: %v", err)
	}

	for i := 0; i < 30; i++ {
		if err := pool.Ping(ctx); err == nil {
			break
		}
		time.Sleep(100 * time.Millisecond)
	}

	_, currentFile, _, _ := runtime.Caller(0)
	migrationsDir := filepath.Join(filepath.Dir(currentFile), "../../../../db/migrations")
	m := migrator.New(pool, migrationsDir)
	if err := m.ApplyAll(ctx); err != nil {
		t.Fatalf("failed to apply migrations: %v", err)
	}

	journal, err := NewJournal(pool, nil)
	if err != nil {
		t.Fatalf("failed to create journal: %v", err)
	}

	return &journalTestFixture{
		journal: journal,
		pool:    pool,
		cleanup: func() {
			pool.Close()
			container.Terminate(ctx)
		},
	}
}

func testRecord(t *testing.T, key string, sheetRow int) *entity.SubmissionRecord {
	t.Helper()

	intent, err := entity.NewOrderIntent("INFY", entity.DirectionBuy, 10, entity.ProductCNC)
	if err != nil {
		t.Fatalf("failed to create intent: %v", err)
	}
	result, err := entity.NewSubmissionResult("240830000123456", decimal.RequireFromString("1520.45"))
	if err != nil {
		t.Fatalf("failed to create result: %v", err)
	}
	cls := entity.Classification{Exchange: entity.ExchangeNSE, Product: entity.ProductCNC}

	record, err := entity.NewSubmissionRecord(key, sheetRow, cls, intent, result, time.Now().UTC().Truncate(time.Second))
	if err != nil {
		t.Fatalf("failed to create record: %v", err)
	}
	return record
}

func TestJournal_RecordAndFind(t *testing.T) {
	fixture := setupJournalTest(t)
	t.Cleanup(fixture.cleanup)

	ctx := context.Background()
	record := testRecord(t, "2:ab12cd34ef56ab78", 2)

	if err := fixture.journal.RecordSubmission(ctx, record); err != nil {
		t.Fatalf("RecordSubmission failed: %v", err)
	}

	found, err := fixture.journal.FindByKey(ctx, record.SubmissionKey)
	if err != nil {
		t.Fatalf("FindByKey failed: %v", err)
	}
	if found == nil {
		t.Fatal("FindByKey returned nil for recorded key")
	}
	if found.OrderID != record.OrderID {
		t.Errorf("OrderID = %q, want %q", found.OrderID, record.OrderID)
	}
	if found.Exchange != entity.ExchangeNSE {
		t.Errorf("Exchange = %v, want NSE", found.Exchange)
	}
	if found.Direction != entity.DirectionBuy {
		t.Errorf("Direction = %v, want BUY", found.Direction)
	}
	if !found.LimitPrice.Equal(record.LimitPrice) {
		t.Errorf("LimitPrice = %s, want %s", found.LimitPrice, record.LimitPrice)
	}
	if found.SheetRow != 2 {
		t.Errorf("SheetRow = %d, want 2", found.SheetRow)
	}
	if found.CreatedAt.IsZero() {
		t.Error("CreatedAt not populated")
	}
}

func TestJournal_FindMissingKey(t *testing.T) {
	fixture := setupJournalTest(t)
	t.Cleanup(fixture.cleanup)

	found, err := fixture.journal.FindByKey(context.Background(), "9:0000000000000000")
	if err != nil {
		t.Fatalf("FindByKey failed: %v", err)
	}
	if found != nil {
		t.Errorf("FindByKey = %+v, want nil for missing key", found)
	}
}

func TestJournal_DuplicateKeyIgnored(t *testing.T) {
	fixture := setupJournalTest(t)
	t.Cleanup(fixture.cleanup)

	ctx := context.Background()
	record := testRecord(t, "3:ff12cd34ef56ab78", 3)

	if err := fixture.journal.RecordSubmission(ctx, record); err != nil {
		t.Fatalf("first RecordSubmission failed: %v", err)
	}
	if err := fixture.journal.RecordSubmission(ctx, record); err != nil {
		t.Fatalf("duplicate RecordSubmission failed: %v", err)
	}

	var count int
	err := fixture.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM submission_journal WHERE submission_key = $1`,
		record.SubmissionKey).Scan(&count)
	if err != nil {
		t.Fatalf("failed to query: %v", err)
	}
	if count != 1 {
		t.Errorf("expected 1 record after duplicate insert, got %d", count)
	}
}
