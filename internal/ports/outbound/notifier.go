package outbound

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// SubmissionEvent describes one order accepted by the venue, for downstream
// consumers (fill monitors, ops dashboards, alerting).
type SubmissionEvent struct {
	OrderID     string          `json:"order_id"`
	SheetRow    int             `json:"sheet_row"`
	Symbol      string          `json:"symbol"`
	Exchange    string          `json:"exchange"`
	Direction   string          `json:"direction"`
	Quantity    int64           `json:"quantity"`
	Product     string          `json:"product"`
	LimitPrice  decimal.Decimal `json:"limit_price"`
	SubmittedAt time.Time       `json:"submitted_at"`
}

// SubmissionNotifier publishes submission events. Publishing is best-effort
// from the reconciler's point of view: a notify failure is logged, never
// fatal to the row.
type SubmissionNotifier interface {
	NotifySubmission(ctx context.Context, event SubmissionEvent) error
	Close() error
}
