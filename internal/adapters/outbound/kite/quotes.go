package kite

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"github.com/shopspring/decimal"

	"github.com/riskdesk/orderqueue/internal/domain/entity"
)

// GetQuote fetches the top of the visible book for exchange:symbol.
//
// Every failure mode that prevents pricing — transport trouble, an unknown
// instrument, a one-sided book — comes back as *entity.QuoteUnavailableError
// so the caller retries the row next cycle. An expired session stays
// distinguishable via errors.Is(err, entity.ErrSessionExpired).
func (c *Client) GetQuote(ctx context.Context, exchange entity.Exchange, symbol string) (*entity.Quote, error) {
	if exchange.Code() == "" {
		return nil, &entity.QuoteUnavailableError{Exchange: exchange, Symbol: symbol, Reason: "unknown exchange"}
	}
	instrument := fmt.Sprintf("%s:%s", exchange.Code(), symbol)

	params := url.Values{"i": {instrument}}
	var data map[string]quoteData
	if err := c.getWithRetry(ctx, "/quote", params, &data); err != nil {
		if errors.Is(err, entity.ErrSessionExpired) {
			return nil, err
		}
		return nil, &entity.QuoteUnavailableError{Exchange: exchange, Symbol: symbol, Reason: err.Error()}
	}

	quote, ok := data[instrument]
	if !ok {
		return nil, &entity.QuoteUnavailableError{Exchange: exchange, Symbol: symbol, Reason: "instrument not in response"}
	}

	bid, ok := topOfBook(quote.Depth.Buy)
	if !ok {
		return nil, &entity.QuoteUnavailableError{Exchange: exchange, Symbol: symbol, Reason: "no resting bids"}
	}
	ask, ok := topOfBook(quote.Depth.Sell)
	if !ok {
		return nil, &entity.QuoteUnavailableError{Exchange: exchange, Symbol: symbol, Reason: "no resting asks"}
	}

	result, err := entity.NewQuote(bid, ask)
	if err != nil {
		return nil, &entity.QuoteUnavailableError{Exchange: exchange, Symbol: symbol, Reason: err.Error()}
	}

	c.logger.Debug("quote fetched",
		"instrument", instrument,
		"bestBid", result.BestBid,
		"bestAsk", result.BestAsk,
	)
	return result, nil
}

// topOfBook returns the first real price level. The venue pads depth with
// zero levels, so a zero price counts as an absent side, not a price.
func topOfBook(levels []depthLevel) (decimal.Decimal, bool) {
	if len(levels) == 0 {
		return decimal.Zero, false
	}
	top := levels[0].Price
	if !top.IsPositive() {
		return decimal.Zero, false
	}
	return top, true
}
