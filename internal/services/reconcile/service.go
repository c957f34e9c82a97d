// Package reconcile drives the idempotent queue reconciliation loop: read a
// snapshot of the job queue, place one order per eligible row, and write the
// outcome back so the next cycle skips it.
package reconcile

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/time/rate"

	"github.com/riskdesk/orderqueue/internal/domain/entity"
	"github.com/riskdesk/orderqueue/internal/ports/inbound"
	"github.com/riskdesk/orderqueue/internal/ports/outbound"
)

// Compile-time check that Service implements inbound.QueueReconciler
var _ inbound.QueueReconciler = (*Service)(nil)

// Columns written back after a submission: status, timestamp, limit price.
const (
	writeStartColumn = "D"
	writeEndColumn   = "F"
)

// Config holds configuration for the reconciliation service.
type Config struct {
	// PollInterval is the pause between cycles in Run.
	PollInterval time.Duration

	// RowDelay is the minimum spacing between processed rows within a
	// cycle, keeping submission bursts off the venue.
	RowDelay time.Duration

	// Logger is the structured logger for the service.
	Logger *slog.Logger
}

// ConfigDefaults returns a Config with default values.
func ConfigDefaults() Config {
	return Config{
		PollInterval: 10 * time.Second,
		RowDelay:     time.Second,
	}
}

// Service is the queue reconciler. One instance owns the whole loop; it is
// not safe to run two instances against the same queue.
type Service struct {
	config   Config
	rowStore outbound.RowStore
	resolver inbound.PriceResolver
	submit   inbound.OrderSubmitter
	journal  outbound.SubmissionJournal
	notifier outbound.SubmissionNotifier
	limiter  *rate.Limiter
	logger   *slog.Logger

	now func() time.Time
}

// NewService creates a new reconciliation service. The journal and notifier
// are required; callers without a database or topic pass the in-memory
// implementations.
func NewService(config Config, rowStore outbound.RowStore, resolver inbound.PriceResolver, submitter inbound.OrderSubmitter, journal outbound.SubmissionJournal, notifier outbound.SubmissionNotifier) (*Service, error) {
	if rowStore == nil {
		return nil, fmt.Errorf("rowStore cannot be nil")
	}
	if resolver == nil {
		return nil, fmt.Errorf("resolver cannot be nil")
	}
	if submitter == nil {
		return nil, fmt.Errorf("submitter cannot be nil")
	}
	if journal == nil {
		return nil, fmt.Errorf("journal cannot be nil")
	}
	if notifier == nil {
		return nil, fmt.Errorf("notifier cannot be nil")
	}

	defaults := ConfigDefaults()
	if config.PollInterval <= 0 {
		config.PollInterval = defaults.PollInterval
	}
	if config.RowDelay <= 0 {
		config.RowDelay = defaults.RowDelay
	}
	if config.Logger == nil {
		config.Logger = slog.Default()
	}

	return &Service{
		config:   config,
		rowStore: rowStore,
		resolver: resolver,
		submit:   submitter,
		journal:  journal,
		notifier: notifier,
		limiter:  rate.NewLimiter(rate.Every(config.RowDelay), 1),
		logger:   config.Logger.With("component", "reconciler"),
		now:      time.Now,
	}, nil
}

// Reconcile reads one full snapshot and processes each eligible row in
// order. Row-level failures are isolated; the returned error is non-nil only
// when the snapshot could not be read, the context ended, or the session
// expired (after which every remaining row would fail the same way).
func (s *Service) Reconcile(ctx context.Context) (inbound.CycleStats, error) {
	var stats inbound.CycleStats

	rows, err := s.rowStore.ReadAllRows(ctx)
	if err != nil {
		return stats, fmt.Errorf("reading queue snapshot: %w", err)
	}
	if len(rows) > 1 {
		stats.Total = len(rows) - 1
	}

	// Row 1 is the header.
	for i := 1; i < len(rows); i++ {
		number := i + 1
		fields := rows[i]

		// A fully blank row has no intent to act on; it counts invalid
		// like any other row missing required fields.
		if entity.RowBlank(fields) {
			stats.Invalid++
			continue
		}
		if entity.RowPlaced(fields) {
			stats.Skipped++
			continue
		}

		if err := s.limiter.Wait(ctx); err != nil {
			return stats, fmt.Errorf("row pacing: %w", err)
		}

		if err := s.processRow(ctx, number, fields, &stats); err != nil {
			if errors.Is(err, entity.ErrSessionExpired) || ctx.Err() != nil {
				return stats, err
			}
			// Unreachable today: processRow tallies all other failures.
			s.logger.Error("row processing failed", "row", number, "error", err)
			stats.Failed++
		}
	}

	s.logger.Info("cycle complete",
		"total", stats.Total,
		"processed", stats.Processed,
		"repaired", stats.Repaired,
		"skipped", stats.Skipped,
		"invalid", stats.Invalid,
		"failed", stats.Failed,
	)
	return stats, nil
}

// processRow takes one eligible row through parse, repair check, pricing,
// submission, journal, and write-back. It updates stats for every outcome it
// absorbs and returns an error only for cycle-fatal conditions.
func (s *Service) processRow(ctx context.Context, number int, fields []string, stats *inbound.CycleStats) error {
	row, err := entity.ParseQueueRow(number, fields)
	if err != nil {
		s.logger.Warn("invalid row skipped", "row", number, "error", err)
		stats.Invalid++
		return nil
	}

	key := row.SubmissionKey()

	// A journal entry with no placed status on the sheet means an earlier
	// cycle submitted the order but the write-back failed. Repair the sheet
	// from the journal; never submit again.
	existing, err := s.journal.FindByKey(ctx, key)
	if err != nil {
		s.logger.Error("journal lookup failed, leaving row untouched", "row", number, "error", err)
		stats.Failed++
		return nil
	}
	if existing != nil {
		return s.repairRow(ctx, row, existing, stats)
	}

	intent, err := row.Intent()
	if err != nil {
		s.logger.Warn("invalid row skipped", "row", number, "error", err)
		stats.Invalid++
		return nil
	}
	cls := entity.Classify(intent.Symbol, intent.Product)

	price, err := s.resolver.ResolvePrice(ctx, cls.Exchange, intent.Symbol, intent.Direction)
	if err != nil {
		if errors.Is(err, entity.ErrSessionExpired) || ctx.Err() != nil {
			return err
		}
		s.logger.Warn("row not priced this cycle", "row", number, "symbol", intent.Symbol, "error", err)
		stats.Failed++
		return nil
	}

	result, err := s.submit.Submit(ctx, cls, intent, price)
	if err != nil {
		if errors.Is(err, entity.ErrSessionExpired) || ctx.Err() != nil {
			return err
		}
		s.logger.Warn("submission failed", "row", number, "symbol", intent.Symbol, "error", err)
		stats.Failed++
		return nil
	}

	submittedAt := s.now()
	record, err := entity.NewSubmissionRecord(key, number, cls, intent, result, submittedAt)
	if err != nil {
		// The order is live on the venue; without a journal entry the only
		// protection left is the sheet write below.
		s.logger.Error("journal record could not be built", "row", number, "orderID", result.OrderID, "error", err)
	} else if err := s.journal.RecordSubmission(ctx, record); err != nil {
		s.logger.Error("journal write failed", "row", number, "orderID", result.OrderID, "error", err)
	}

	if err := s.writeBack(ctx, number, submittedAt, result.LimitPrice.String()); err != nil {
		s.logger.Error("status write-back failed, row will be repaired next cycle",
			"row", number,
			"orderID", result.OrderID,
			"error", err,
		)
		stats.Failed++
		return nil
	}
	stats.Processed++

	s.notify(ctx, record, intent, cls, number)
	return nil
}

// repairRow rewrites a row's status from its journal entry.
func (s *Service) repairRow(ctx context.Context, row *entity.QueueRow, record *entity.SubmissionRecord, stats *inbound.CycleStats) error {
	if err := s.writeBack(ctx, row.Number, record.SubmittedAt, record.LimitPrice.String()); err != nil {
		s.logger.Error("repair write failed", "row", row.Number, "orderID", record.OrderID, "error", err)
		stats.Failed++
		return nil
	}
	s.logger.Info("row repaired from journal",
		"row", row.Number,
		"orderID", record.OrderID,
		"submittedAt", record.SubmittedAt.Format(entity.TimestampLayout),
	)
	stats.Repaired++
	return nil
}

// writeBack marks one row placed in a single atomic range write.
func (s *Service) writeBack(ctx context.Context, number int, submittedAt time.Time, price string) error {
	values := []string{
		entity.StatusOrderPlaced,
		submittedAt.Format(entity.TimestampLayout),
		price,
	}
	if err := s.rowStore.WriteRowRange(ctx, number, writeStartColumn, writeEndColumn, values); err != nil {
		return &entity.StoreWriteError{Row: number, Err: err}
	}
	return nil
}

// notify publishes the submission event. Best-effort: failures are logged
// and never affect the row.
func (s *Service) notify(ctx context.Context, record *entity.SubmissionRecord, intent *entity.OrderIntent, cls entity.Classification, number int) {
	if record == nil {
		return
	}
	event := outbound.SubmissionEvent{
		OrderID:     record.OrderID,
		SheetRow:    number,
		Symbol:      intent.Symbol,
		Exchange:    cls.Exchange.Code(),
		Direction:   intent.Direction.Code(),
		Quantity:    intent.Quantity,
		Product:     cls.Product.Code(),
		LimitPrice:  record.LimitPrice,
		SubmittedAt: record.SubmittedAt,
	}
	if err := s.notifier.NotifySubmission(ctx, event); err != nil {
		s.logger.Warn("submission event not published", "row", number, "orderID", record.OrderID, "error", err)
	}
}

// Run polls Reconcile until the context ends. Cycle errors are logged and
// the loop continues, except for an expired session, which nothing in the
// loop can fix.
func (s *Service) Run(ctx context.Context) error {
	s.logger.Info("reconciler started", "pollInterval", s.config.PollInterval, "rowDelay", s.config.RowDelay)

	ticker := time.NewTicker(s.config.PollInterval)
	defer ticker.Stop()

	for {
		if _, err := s.Reconcile(ctx); err != nil {
			if errors.Is(err, entity.ErrSessionExpired) {
				s.logger.Error("session expired, stopping", "error", err)
				return err
			}
			if ctx.Err() != nil {
				s.logger.Info("reconciler stopped")
				return nil
			}
			s.logger.Error("cycle failed", "error", err)
		}

		select {
		case <-ctx.Done():
			s.logger.Info("reconciler stopped")
			return nil
		case <-ticker.C:
		}
	}
}
