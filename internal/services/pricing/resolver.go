// Package pricing resolves passive limit prices from live market depth.
package pricing

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/riskdesk/orderqueue/internal/domain/entity"
	"github.com/riskdesk/orderqueue/internal/ports/inbound"
	"github.com/riskdesk/orderqueue/internal/ports/outbound"
)

// Compile-time check that Resolver implements inbound.PriceResolver
var _ inbound.PriceResolver = (*Resolver)(nil)

// Resolver prices an intent off the top of the visible book: best bid for a
// buy, best ask for a sell. Joining the near side of the book rather than
// crossing the spread keeps the order passive at the moment of pricing.
type Resolver struct {
	marketData outbound.MarketDataProvider
	logger     *slog.Logger
}

// NewResolver creates a new price resolver.
func NewResolver(marketData outbound.MarketDataProvider, logger *slog.Logger) (*Resolver, error) {
	if marketData == nil {
		return nil, fmt.Errorf("marketData cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Resolver{
		marketData: marketData,
		logger:     logger.With("component", "price-resolver"),
	}, nil
}

// ResolvePrice returns the passive limit price for the given side.
func (r *Resolver) ResolvePrice(ctx context.Context, exchange entity.Exchange, symbol string, direction entity.Direction) (decimal.Decimal, error) {
	quote, err := r.marketData.GetQuote(ctx, exchange, symbol)
	if err != nil {
		return decimal.Zero, err
	}

	price, err := quote.PriceFor(direction)
	if err != nil {
		return decimal.Zero, &entity.QuoteUnavailableError{
			Exchange: exchange,
			Symbol:   symbol,
			Reason:   err.Error(),
		}
	}

	r.logger.Debug("price resolved",
		"exchange", exchange.Code(),
		"symbol", symbol,
		"side", direction.Code(),
		"price", price,
	)
	return price, nil
}
