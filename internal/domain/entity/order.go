// Package entity contains the core domain entities for the order queue
// reconciler. These entities represent the fundamental business objects and
// have no external dependencies beyond decimal arithmetic.
package entity

import (
	"fmt"
	"strings"
)

// Direction is the side of an order.
type Direction int

const (
	DirectionUnknown Direction = iota
	DirectionBuy
	DirectionSell
)

// ParseDirection parses a direction cell value ("BUY" or "SELL", any case).
func ParseDirection(s string) (Direction, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "BUY":
		return DirectionBuy, nil
	case "SELL":
		return DirectionSell, nil
	default:
		return DirectionUnknown, fmt.Errorf("invalid direction %q", s)
	}
}

// Code returns the venue wire value for the transaction type.
func (d Direction) Code() string {
	switch d {
	case DirectionBuy:
		return "BUY"
	case DirectionSell:
		return "SELL"
	default:
		return ""
	}
}

func (d Direction) String() string {
	if c := d.Code(); c != "" {
		return c
	}
	return fmt.Sprintf("Direction(%d)", int(d))
}

// Product is the settlement/margin treatment of a position.
type Product int

const (
	ProductUnset Product = iota
	ProductCNC           // delivery-style settlement (cash equities)
	ProductMIS           // intraday margin
	ProductNRML          // carry-forward margin (derivatives)
)

// ParseProduct parses an explicit product value. The empty string maps to
// ProductUnset so classification can pick the exchange default.
func ParseProduct(s string) (Product, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "":
		return ProductUnset, nil
	case "CNC":
		return ProductCNC, nil
	case "MIS":
		return ProductMIS, nil
	case "NRML":
		return ProductNRML, nil
	default:
		return ProductUnset, fmt.Errorf("invalid product %q", s)
	}
}

// Code returns the venue wire value for the product.
func (p Product) Code() string {
	switch p {
	case ProductCNC:
		return "CNC"
	case ProductMIS:
		return "MIS"
	case ProductNRML:
		return "NRML"
	default:
		return ""
	}
}

func (p Product) String() string {
	if c := p.Code(); c != "" {
		return c
	}
	return "UNSET"
}

// OrderIntent is the immutable request derived from one queue row: what to
// trade, which way, and how much. Product is optional; when unset the
// classifier picks the exchange default.
type OrderIntent struct {
	Symbol    string
	Direction Direction
	Quantity  int64
	Product   Product
}

// NewOrderIntent creates a validated OrderIntent.
func NewOrderIntent(symbol string, direction Direction, quantity int64, product Product) (*OrderIntent, error) {
	intent := &OrderIntent{
		Symbol:    strings.TrimSpace(symbol),
		Direction: direction,
		Quantity:  quantity,
		Product:   product,
	}
	if err := intent.validate(); err != nil {
		return nil, err
	}
	return intent, nil
}

func (i *OrderIntent) validate() error {
	if i.Symbol == "" {
		return fmt.Errorf("symbol must not be empty")
	}
	if i.Direction != DirectionBuy && i.Direction != DirectionSell {
		return fmt.Errorf("direction must be BUY or SELL, got %q", i.Direction)
	}
	if i.Quantity <= 0 {
		return fmt.Errorf("quantity must be positive, got %d", i.Quantity)
	}
	return nil
}
