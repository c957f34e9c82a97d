package outbound

import (
	"context"

	"github.com/riskdesk/orderqueue/internal/domain/entity"
)

// SessionStore persists the venue access token across process restarts so a
// still-valid token can be reused instead of forcing an interactive login.
type SessionStore interface {
	// Load returns the stored session, or an error when none is stored.
	Load(ctx context.Context) (*entity.Session, error)

	// Save stores the session, replacing any previous one.
	Save(ctx context.Context, session *entity.Session) error

	// Delete removes the stored session.
	Delete(ctx context.Context) error
}
