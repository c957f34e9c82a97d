package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/riskdesk/orderqueue/internal/domain/entity"
	"github.com/riskdesk/orderqueue/internal/ports/outbound"
)

// Compile-time check that Journal implements outbound.SubmissionJournal
var _ outbound.SubmissionJournal = (*Journal)(nil)

// Journal is a PostgreSQL implementation of the outbound.SubmissionJournal
// port. One row per accepted venue order, keyed by submission key, written
// before the queue row is marked placed.
type Journal struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

// NewJournal creates a new PostgreSQL submission journal.
func NewJournal(pool *pgxpool.Pool, logger *slog.Logger) (*Journal, error) {
	if pool == nil {
		return nil, fmt.Errorf("database pool cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Journal{
		pool:   pool,
		logger: logger.With("component", "submission-journal"),
	}, nil
}

// RecordSubmission persists one accepted order. The submission key is
// unique; recording the same key twice is a no-op, since the first record
// is already the proof that the order went out.
func (j *Journal) RecordSubmission(ctx context.Context, record *entity.SubmissionRecord) error {
	if record == nil {
		return fmt.Errorf("record cannot be nil")
	}

	_, err := j.pool.Exec(ctx,
		`INSERT INTO submission_journal (submission_key, sheet_row, symbol, exchange, direction, quantity, product, limit_price, order_id, submitted_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		 ON CONFLICT (submission_key) DO NOTHING`,
		record.SubmissionKey, record.SheetRow, record.Symbol,
		record.Exchange.Code(), record.Direction.Code(), record.Quantity,
		record.Product.Code(), record.LimitPrice.String(), record.OrderID,
		record.SubmittedAt)
	if err != nil {
		return fmt.Errorf("failed to record submission: %w", err)
	}

	j.logger.Debug("submission recorded",
		"submissionKey", record.SubmissionKey,
		"orderID", record.OrderID,
	)
	return nil
}

// FindByKey returns the journal entry for a submission key, or (nil, nil)
// when no order has been accepted under that key.
func (j *Journal) FindByKey(ctx context.Context, key string) (*entity.SubmissionRecord, error) {
	row := j.pool.QueryRow(ctx,
		`SELECT id, submission_key, sheet_row, symbol, exchange, direction, quantity, product, limit_price::text, order_id, submitted_at, created_at
		 FROM submission_journal
		 WHERE submission_key = $1`,
		key)

	var (
		record        entity.SubmissionRecord
		exchangeCode  string
		directionCode string
		productCode   string
		priceText     string
	)
	err := row.Scan(
		&record.ID, &record.SubmissionKey, &record.SheetRow, &record.Symbol,
		&exchangeCode, &directionCode, &record.Quantity, &productCode,
		&priceText, &record.OrderID, &record.SubmittedAt, &record.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query submission: %w", err)
	}

	if record.Exchange, err = entity.ParseExchange(exchangeCode); err != nil {
		return nil, fmt.Errorf("corrupt journal row %d: %w", record.ID, err)
	}
	if record.Direction, err = entity.ParseDirection(directionCode); err != nil {
		return nil, fmt.Errorf("corrupt journal row %d: %w", record.ID, err)
	}
	if record.Product, err = entity.ParseProduct(productCode); err != nil {
		return nil, fmt.Errorf("corrupt journal row %d: %w", record.ID, err)
	}
	if record.LimitPrice, err = decimal.NewFromString(priceText); err != nil {
		return nil, fmt.Errorf("corrupt journal row %d: %w", record.ID, err)
	}
	return &record, nil
}
