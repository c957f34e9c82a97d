package memory

import (
	"context"
	"sync"

	"github.com/riskdesk/orderqueue/internal/ports/outbound"
)

// Compile-time check that Notifier implements outbound.SubmissionNotifier
var _ outbound.SubmissionNotifier = (*Notifier)(nil)

// Notifier is an in-memory implementation of the SubmissionNotifier port.
// It stores all published events for later inspection and doubles as the
// no-op notifier when no SNS topic is configured.
type Notifier struct {
	mu     sync.RWMutex
	events []outbound.SubmissionEvent
	closed bool

	// failErr, when set, is returned by every NotifySubmission call.
	failErr error
}

// NewNotifier creates a new in-memory notifier.
func NewNotifier() *Notifier {
	return &Notifier{
		events: make([]outbound.SubmissionEvent, 0),
	}
}

// NotifySubmission stores the event in memory.
func (n *Notifier) NotifySubmission(ctx context.Context, event outbound.SubmissionEvent) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.failErr != nil {
		return n.failErr
	}
	if n.closed {
		return nil
	}
	n.events = append(n.events, event)
	return nil
}

// Close marks the notifier as closed.
func (n *Notifier) Close() error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.closed = true
	return nil
}

// Events returns all published events.
func (n *Notifier) Events() []outbound.SubmissionEvent {
	n.mu.RLock()
	defer n.mu.RUnlock()
	result := make([]outbound.SubmissionEvent, len(n.events))
	copy(result, n.events)
	return result
}

// FailWith makes every subsequent NotifySubmission call return err.
func (n *Notifier) FailWith(err error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.failErr = err
}
