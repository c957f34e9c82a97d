package outbound

import (
	"context"

	"github.com/riskdesk/orderqueue/internal/domain/entity"
)

// SubmissionJournal is the durable record of accepted venue orders, keyed by
// row identity. The reconciler writes a record after the venue accepts an
// order and before the row store is updated, so a crashed or failed
// write-back can be repaired instead of causing a duplicate order.
type SubmissionJournal interface {
	// RecordSubmission persists one accepted order. Writing the same
	// submission key twice is an error.
	RecordSubmission(ctx context.Context, record *entity.SubmissionRecord) error

	// FindByKey returns the record for a submission key, or (nil, nil) when
	// no order has been accepted for that key.
	FindByKey(ctx context.Context, key string) (*entity.SubmissionRecord, error)
}
