package entity

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// SubmissionResult is the outcome of a successful order submission. By
// construction both fields are always populated; a failed submission is an
// error, never a partial result.
type SubmissionResult struct {
	OrderID    string
	LimitPrice decimal.Decimal
}

// NewSubmissionResult creates a validated SubmissionResult.
func NewSubmissionResult(orderID string, limitPrice decimal.Decimal) (*SubmissionResult, error) {
	r := &SubmissionResult{OrderID: orderID, LimitPrice: limitPrice}
	if err := r.validate(); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *SubmissionResult) validate() error {
	if r.OrderID == "" {
		return fmt.Errorf("orderID must not be empty")
	}
	if !r.LimitPrice.IsPositive() {
		return fmt.Errorf("limitPrice must be positive, got %s", r.LimitPrice)
	}
	return nil
}

// SubmissionRecord is the durable journal entry for one accepted venue
// order. It is written before the queue row is marked placed, so a crashed
// or failed write-back can be detected and repaired instead of re-submitted.
type SubmissionRecord struct {
	ID            int64
	SubmissionKey string
	SheetRow      int
	Symbol        string
	Exchange      Exchange
	Direction     Direction
	Quantity      int64
	Product       Product
	LimitPrice    decimal.Decimal
	OrderID       string
	SubmittedAt   time.Time
	CreatedAt     time.Time
}

// NewSubmissionRecord creates a validated SubmissionRecord.
func NewSubmissionRecord(key string, sheetRow int, cls Classification, intent *OrderIntent, result *SubmissionResult, submittedAt time.Time) (*SubmissionRecord, error) {
	if intent == nil {
		return nil, fmt.Errorf("intent must not be nil")
	}
	if result == nil {
		return nil, fmt.Errorf("result must not be nil")
	}
	rec := &SubmissionRecord{
		SubmissionKey: key,
		SheetRow:      sheetRow,
		Symbol:        intent.Symbol,
		Exchange:      cls.Exchange,
		Direction:     intent.Direction,
		Quantity:      intent.Quantity,
		Product:       cls.Product,
		LimitPrice:    result.LimitPrice,
		OrderID:       result.OrderID,
		SubmittedAt:   submittedAt,
	}
	if err := rec.validate(); err != nil {
		return nil, err
	}
	return rec, nil
}

func (r *SubmissionRecord) validate() error {
	if r.SubmissionKey == "" {
		return fmt.Errorf("submissionKey must not be empty")
	}
	if r.SheetRow < 2 {
		return fmt.Errorf("sheetRow must be below the header, got %d", r.SheetRow)
	}
	if r.Symbol == "" {
		return fmt.Errorf("symbol must not be empty")
	}
	if r.Exchange.Code() == "" {
		return fmt.Errorf("exchange must be set")
	}
	if r.Product.Code() == "" {
		return fmt.Errorf("product must be set")
	}
	if r.OrderID == "" {
		return fmt.Errorf("orderID must not be empty")
	}
	if r.SubmittedAt.IsZero() {
		return fmt.Errorf("submittedAt must not be zero")
	}
	return nil
}
