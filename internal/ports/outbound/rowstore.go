// Package outbound contains the secondary/outbound ports: the interfaces the
// application needs the outside world to implement (row store, venue API,
// session store, journal, notifier).
package outbound

import "context"

// RowStore is the durable, row-addressable job queue. Row 1 is a header.
// Implementations must make WriteRowRange atomic for the addressed row: the
// status, timestamp, and price cells land together or not at all.
type RowStore interface {
	// ReadAllRows returns a full snapshot of the queue, one ordered field
	// list per row, header included. Trailing empty cells may be omitted.
	ReadAllRows(ctx context.Context) ([][]string, error)

	// WriteRowRange writes values into columns startColumn..endColumn of the
	// given 1-based row in a single update.
	WriteRowRange(ctx context.Context, row int, startColumn, endColumn string, values []string) error
}
