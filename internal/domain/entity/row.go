package entity

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
)

// StatusOrderPlaced is the literal written to the status column once a row's
// order is accepted by the venue. Comparison is case-insensitive on read.
const StatusOrderPlaced = "Order_Placed"

// TimestampLayout is the wall-clock format written to the timestamp column.
const TimestampLayout = "2006-01-02 15:04:05"

// Sheet column positions, 0-indexed within a row snapshot. Row 1 of the
// sheet is a header and is never parsed.
const (
	colSymbol = iota
	colDirection
	colQuantity
	colStatus
)

// QueueRow is one parsed, eligible row of the job queue.
type QueueRow struct {
	// Number is the 1-based sheet row number, used for write-back addressing.
	Number    int
	Symbol    string
	Direction Direction
	Quantity  int64
}

// cell returns the trimmed field at idx, tolerating short rows: the sheets
// API drops trailing empty cells from a snapshot.
func cell(fields []string, idx int) string {
	if idx >= len(fields) {
		return ""
	}
	return strings.TrimSpace(fields[idx])
}

// RowPlaced reports whether a raw row snapshot is already marked processed.
func RowPlaced(fields []string) bool {
	return strings.EqualFold(cell(fields, colStatus), StatusOrderPlaced)
}

// RowBlank reports whether a raw row snapshot has no required fields at all,
// e.g. formatting-only rows left behind in the sheet.
func RowBlank(fields []string) bool {
	return cell(fields, colSymbol) == "" && cell(fields, colDirection) == "" && cell(fields, colQuantity) == ""
}

// ParseQueueRow parses one raw row snapshot into a QueueRow. number is the
// 1-based sheet row. Missing or unparsable required fields return a
// RowParseError; the caller counts such rows invalid and never mutates them.
func ParseQueueRow(number int, fields []string) (*QueueRow, error) {
	symbol := cell(fields, colSymbol)
	if symbol == "" {
		return nil, &RowParseError{Row: number, Field: "symbol", Reason: "empty"}
	}

	direction, err := ParseDirection(cell(fields, colDirection))
	if err != nil {
		return nil, &RowParseError{Row: number, Field: "direction", Reason: err.Error()}
	}

	quantity, err := parseQuantity(cell(fields, colQuantity))
	if err != nil {
		return nil, &RowParseError{Row: number, Field: "quantity", Reason: err.Error()}
	}

	return &QueueRow{
		Number:    number,
		Symbol:    symbol,
		Direction: direction,
		Quantity:  quantity,
	}, nil
}

// parseQuantity accepts both "10" and "10.0" (spreadsheets love to decorate
// integers) but rejects fractional and non-positive quantities.
func parseQuantity(s string) (int64, error) {
	if s == "" {
		return 0, fmt.Errorf("empty quantity")
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("not a number: %q", s)
	}
	q := int64(f)
	if float64(q) != f {
		return 0, fmt.Errorf("quantity must be a whole number, got %q", s)
	}
	if q <= 0 {
		return 0, fmt.Errorf("quantity must be positive, got %d", q)
	}
	return q, nil
}

// Intent builds the immutable order intent for this row. Rows carry no
// product column, so the product is left unset for the classifier.
func (r *QueueRow) Intent() (*OrderIntent, error) {
	return NewOrderIntent(r.Symbol, r.Direction, r.Quantity, ProductUnset)
}

// SubmissionKey identifies this row's intent for idempotency bookkeeping:
// the sheet row number plus a digest of the fields that define the intent.
// Editing a row's symbol, direction, or quantity yields a new key.
func (r *QueueRow) SubmissionKey() string {
	sum := sha256.Sum256([]byte(fmt.Sprintf("%s|%s|%d", strings.ToUpper(r.Symbol), r.Direction.Code(), r.Quantity)))
	return fmt.Sprintf("%d:%s", r.Number, hex.EncodeToString(sum[:8]))
}
