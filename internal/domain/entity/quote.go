package entity

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Quote is the top of the visible order book for one instrument. Both sides
// are required: an instrument without a two-sided quote cannot be priced, and
// a zero price is treated as an absent side, never as a price.
type Quote struct {
	BestBid decimal.Decimal
	BestAsk decimal.Decimal
}

// NewQuote creates a validated two-sided Quote.
func NewQuote(bestBid, bestAsk decimal.Decimal) (*Quote, error) {
	q := &Quote{BestBid: bestBid, BestAsk: bestAsk}
	if err := q.validate(); err != nil {
		return nil, err
	}
	return q, nil
}

func (q *Quote) validate() error {
	if !q.BestBid.IsPositive() {
		return fmt.Errorf("best bid must be positive, got %s", q.BestBid)
	}
	if !q.BestAsk.IsPositive() {
		return fmt.Errorf("best ask must be positive, got %s", q.BestAsk)
	}
	return nil
}

// PriceFor returns the passive limit price for the given side: buyers join
// the best resting bid, sellers join the best resting ask. This favors fill
// probability over price improvement.
func (q *Quote) PriceFor(direction Direction) (decimal.Decimal, error) {
	switch direction {
	case DirectionBuy:
		return q.BestBid, nil
	case DirectionSell:
		return q.BestAsk, nil
	default:
		return decimal.Zero, fmt.Errorf("no quote side for direction %q", direction)
	}
}
