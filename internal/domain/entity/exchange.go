package entity

import (
	"fmt"
	"strings"
	"unicode"
)

// Exchange is the venue segment an instrument trades on.
type Exchange int

const (
	ExchangeUnknown Exchange = iota
	ExchangeNSE              // cash equities
	ExchangeNFO              // equity/index derivatives
	ExchangeCDS              // currency derivatives
)

// Code returns the venue wire value for the exchange.
func (e Exchange) Code() string {
	switch e {
	case ExchangeNSE:
		return "NSE"
	case ExchangeNFO:
		return "NFO"
	case ExchangeCDS:
		return "CDS"
	default:
		return ""
	}
}

// ParseExchange maps a venue wire value back to an Exchange.
func ParseExchange(s string) (Exchange, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "NSE":
		return ExchangeNSE, nil
	case "NFO":
		return ExchangeNFO, nil
	case "CDS":
		return ExchangeCDS, nil
	default:
		return ExchangeUnknown, fmt.Errorf("unknown exchange %q", s)
	}
}

func (e Exchange) String() string {
	if c := e.Code(); c != "" {
		return c
	}
	return fmt.Sprintf("Exchange(%d)", int(e))
}

// DefaultProduct is the settlement product used when a row does not specify
// one: delivery for cash equities, carry-forward margin for derivatives.
func (e Exchange) DefaultProduct() Product {
	if e == ExchangeNSE {
		return ProductCNC
	}
	return ProductNRML
}

// Classification is the resolved routing for an intent: the exchange the
// symbol trades on and a concrete settlement product. Product is always set
// by the time a Classification exists.
type Classification struct {
	Exchange Exchange
	Product  Product
}

// currencyTokens identify currency-derivative symbols. The bare "INR" entry
// is deliberate: every currency pair on the segment settles against the
// rupee, so any INR-bearing contract symbol routes to CDS.
var currencyTokens = []string{"USDINR", "EURINR", "GBPINR", "JPYINR", "INR"}

// Classify maps a raw trading symbol to its exchange and settlement product.
// Pure and total: malformed symbols degrade to the cash equity segment.
//
// The heuristic leans entirely on NSE symbology: derivative contracts encode
// expiry and strike digits (NIFTY24DEC22000CE), so two or more digits mark a
// derivative; among those, a currency token marks the CDS segment. An
// explicitly supplied product is never overridden.
func Classify(symbol string, explicit Product) Classification {
	exchange := ExchangeNSE
	if digitCount(symbol) >= 2 {
		exchange = ExchangeNFO
		upper := strings.ToUpper(symbol)
		for _, token := range currencyTokens {
			if strings.Contains(upper, token) {
				exchange = ExchangeCDS
				break
			}
		}
	}

	product := explicit
	if product == ProductUnset {
		product = exchange.DefaultProduct()
	}

	return Classification{Exchange: exchange, Product: product}
}

func digitCount(s string) int {
	n := 0
	for _, r := range s {
		if unicode.IsDigit(r) {
			n++
		}
	}
	return n
}
