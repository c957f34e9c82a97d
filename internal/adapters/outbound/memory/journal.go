package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/riskdesk/orderqueue/internal/domain/entity"
	"github.com/riskdesk/orderqueue/internal/ports/outbound"
)

// Compile-time check that Journal implements outbound.SubmissionJournal
var _ outbound.SubmissionJournal = (*Journal)(nil)

// Journal is an in-memory implementation of the SubmissionJournal port. It
// is also the fallback journal when no database is configured: repair still
// works within one process lifetime, which covers the common write-back
// failure without requiring PostgreSQL.
type Journal struct {
	mu      sync.RWMutex
	records map[string]*entity.SubmissionRecord
	nextID  int64
}

// NewJournal creates an empty in-memory journal.
func NewJournal() *Journal {
	return &Journal{
		records: make(map[string]*entity.SubmissionRecord),
		nextID:  1,
	}
}

// RecordSubmission stores one record, keyed by submission key. Recording an
// existing key is a no-op, matching the database journal.
func (j *Journal) RecordSubmission(ctx context.Context, record *entity.SubmissionRecord) error {
	if record == nil {
		return fmt.Errorf("record cannot be nil")
	}

	j.mu.Lock()
	defer j.mu.Unlock()

	if _, exists := j.records[record.SubmissionKey]; exists {
		return nil
	}
	stored := *record
	stored.ID = j.nextID
	j.nextID++
	j.records[record.SubmissionKey] = &stored
	return nil
}

// FindByKey returns the record for a submission key, or (nil, nil).
func (j *Journal) FindByKey(ctx context.Context, key string) (*entity.SubmissionRecord, error) {
	j.mu.RLock()
	defer j.mu.RUnlock()

	record, ok := j.records[key]
	if !ok {
		return nil, nil
	}
	copied := *record
	return &copied, nil
}

// Count returns the number of stored records.
func (j *Journal) Count() int {
	j.mu.RLock()
	defer j.mu.RUnlock()
	return len(j.records)
}
