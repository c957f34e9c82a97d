package entity

import (
	"errors"
	"fmt"
)

// ErrSessionExpired marks an access token the venue no longer accepts. The
// holder must re-authenticate interactively; nothing in the reconciler can
// recover from it.
var ErrSessionExpired = errors.New("session token expired or invalid")

// ErrNoStoredSession means the session store holds no token at all, as
// opposed to holding one the venue rejects.
var ErrNoStoredSession = errors.New("no stored session")

// RowParseError marks a queue row whose required fields are missing or
// unparsable. Such rows are counted invalid and skipped without mutation;
// they are not retried until a human fixes the row.
type RowParseError struct {
	Row    int
	Field  string
	Reason string
}

func (e *RowParseError) Error() string {
	return fmt.Sprintf("row %d: invalid %s: %s", e.Row, e.Field, e.Reason)
}

// QuoteUnavailableError marks an instrument that could not be priced this
// cycle: transport failure, unknown instrument, or a missing side of the
// book. The row stays eligible and is retried next cycle.
type QuoteUnavailableError struct {
	Exchange Exchange
	Symbol   string
	Reason   string
}

func (e *QuoteUnavailableError) Error() string {
	return fmt.Sprintf("quote unavailable for %s:%s: %s", e.Exchange, e.Symbol, e.Reason)
}

// SubmissionRejectedError marks an order the venue refused. The row stays
// eligible and is retried next cycle; the attempt itself is never retried.
type SubmissionRejectedError struct {
	Symbol string
	Reason string
}

func (e *SubmissionRejectedError) Error() string {
	return fmt.Sprintf("order rejected for %s: %s", e.Symbol, e.Reason)
}

// StoreWriteError marks a failed write-back to the row store after a
// successful submission. The order exists on the venue; the journal entry
// written beforehand lets the next cycle repair the row instead of
// re-submitting it.
type StoreWriteError struct {
	Row int
	Err error
}

func (e *StoreWriteError) Error() string {
	return fmt.Sprintf("row %d: status write failed: %v", e.Row, e.Err)
}

func (e *StoreWriteError) Unwrap() error {
	return e.Err
}
