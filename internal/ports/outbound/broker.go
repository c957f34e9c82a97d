package outbound

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/riskdesk/orderqueue/internal/domain/entity"
)

// OrderRequest is one single-leg limit order as the venue expects it.
// Order type LIMIT and validity DAY are fixed by the adapter; everything
// else is resolved upstream.
type OrderRequest struct {
	// Variety is the venue order variety ("amo" queues for the next
	// session, "regular" goes straight to the book).
	Variety   string
	Exchange  entity.Exchange
	Symbol    string
	Direction entity.Direction
	Quantity  int64
	Product   entity.Product
	Price     decimal.Decimal
	// Tag is the client-side identifier attached to the order for later
	// reconciliation against the venue's order book.
	Tag string
}

// MarketDataProvider serves live two-sided quotes from venue depth.
type MarketDataProvider interface {
	// GetQuote fetches the top of book for exchange:symbol. It returns a
	// *entity.QuoteUnavailableError when the instrument cannot be priced:
	// transport failure, unknown instrument, or a missing side.
	GetQuote(ctx context.Context, exchange entity.Exchange, symbol string) (*entity.Quote, error)
}

// OrderGateway submits orders to the venue. One call is one atomic attempt:
// the gateway retries transport-level failures internally but never re-sends
// an order the venue has rejected.
type OrderGateway interface {
	// PlaceOrder submits the order and returns the venue order ID.
	// Rejections surface as *entity.SubmissionRejectedError; an expired
	// session surfaces as entity.ErrSessionExpired.
	PlaceOrder(ctx context.Context, req OrderRequest) (string, error)
}

// SessionValidator performs the lightweight identity check used to decide
// whether a stored access token is still good.
type SessionValidator interface {
	// ValidateSession returns entity.ErrSessionExpired when the venue no
	// longer accepts the session's token.
	ValidateSession(ctx context.Context) error
}
