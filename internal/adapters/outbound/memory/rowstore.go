// Package memory provides in-memory implementations of the outbound ports
// for testing and for running without optional backing services. All
// operations are thread-safe.
package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/riskdesk/orderqueue/internal/ports/outbound"
)

// Compile-time check that RowStore implements outbound.RowStore
var _ outbound.RowStore = (*RowStore)(nil)

// RowStore is an in-memory implementation of the RowStore port for testing.
// Rows are stored as a simple grid indexed by 1-based row number.
type RowStore struct {
	mu   sync.RWMutex
	rows [][]string

	// writeErr, when set, is returned by the next WriteRowRange call and
	// then cleared. Lets tests exercise the failed-write-back path.
	writeErr error

	writeCalls int
}

// NewRowStore creates an in-memory row store seeded with the given rows.
func NewRowStore(rows [][]string) *RowStore {
	copied := make([][]string, len(rows))
	for i, row := range rows {
		copied[i] = append([]string(nil), row...)
	}
	return &RowStore{rows: copied}
}

// ReadAllRows returns a snapshot of all rows.
func (s *RowStore) ReadAllRows(ctx context.Context) ([][]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([][]string, len(s.rows))
	for i, row := range s.rows {
		result[i] = append([]string(nil), row...)
	}
	return result, nil
}

// WriteRowRange writes values into startColumn..endColumn of one row.
// Columns are single letters; rows are grown as needed.
func (s *RowStore) WriteRowRange(ctx context.Context, row int, startColumn, endColumn string, values []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.writeCalls++
	if s.writeErr != nil {
		err := s.writeErr
		s.writeErr = nil
		return err
	}

	if row < 1 || row > len(s.rows) {
		return fmt.Errorf("row %d out of range", row)
	}
	start := int(startColumn[0] - 'A')
	end := int(endColumn[0] - 'A')
	if end-start+1 != len(values) {
		return fmt.Errorf("range %s:%s does not fit %d values", startColumn, endColumn, len(values))
	}

	target := s.rows[row-1]
	for len(target) <= end {
		target = append(target, "")
	}
	copy(target[start:end+1], values)
	s.rows[row-1] = target
	return nil
}

// Row returns a copy of one 1-based row for assertions.
func (s *RowStore) Row(number int) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if number < 1 || number > len(s.rows) {
		return nil
	}
	return append([]string(nil), s.rows[number-1]...)
}

// FailNextWrite makes the next WriteRowRange call return err.
func (s *RowStore) FailNextWrite(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.writeErr = err
}

// WriteCalls returns how many times WriteRowRange was called.
func (s *RowStore) WriteCalls() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.writeCalls
}
