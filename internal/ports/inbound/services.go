// Package inbound contains the primary/inbound ports.
// These interfaces define the use cases that the application exposes.
package inbound

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/riskdesk/orderqueue/internal/domain/entity"
)

// PriceResolver picks a defensible limit price from live market depth.
type PriceResolver interface {
	// ResolvePrice returns the passive limit price for the given side, or a
	// *entity.QuoteUnavailableError when the instrument cannot be priced
	// this cycle.
	ResolvePrice(ctx context.Context, exchange entity.Exchange, symbol string, direction entity.Direction) (decimal.Decimal, error)
}

// OrderSubmitter builds and submits exactly one limit order per call.
type OrderSubmitter interface {
	// Submit places a single-leg, day-validity limit order. On success both
	// the venue order ID and the realized limit price are returned together;
	// on failure the error carries the reason and nothing was placed, or the
	// venue rejected the order (*entity.SubmissionRejectedError).
	Submit(ctx context.Context, cls entity.Classification, intent *entity.OrderIntent, price decimal.Decimal) (*entity.SubmissionResult, error)
}

// CycleStats are the tallies for one reconciliation cycle.
type CycleStats struct {
	// Total is the number of data rows in the snapshot (header excluded).
	Total int
	// Processed rows had an order placed and their status written back.
	Processed int
	// Repaired rows had an order placed in an earlier cycle whose status
	// write failed; the status was rewritten from the journal, with no new
	// submission.
	Repaired int
	// Skipped rows were already marked placed.
	Skipped int
	// Invalid rows had missing or unparsable required fields.
	Invalid int
	// Failed rows could not be priced or submitted this cycle and stay
	// eligible for the next one.
	Failed int
}

// QueueReconciler drives one pass over the job queue.
type QueueReconciler interface {
	// Reconcile reads a full snapshot and processes each eligible row in
	// order. Row-level failures are isolated and logged; the returned error
	// is non-nil only when the snapshot itself could not be read.
	Reconcile(ctx context.Context) (CycleStats, error)
}
