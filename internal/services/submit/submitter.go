// Package submit builds and places limit orders, one atomic attempt each.
package submit

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/riskdesk/orderqueue/internal/domain/entity"
	"github.com/riskdesk/orderqueue/internal/ports/inbound"
	"github.com/riskdesk/orderqueue/internal/ports/outbound"
)

// Compile-time check that Submitter implements inbound.OrderSubmitter
var _ inbound.OrderSubmitter = (*Submitter)(nil)

// Config holds configuration for the order submitter.
type Config struct {
	// Variety selects the order book path, e.g. "amo" to queue for the next
	// session's opening or "regular" for immediate entry.
	Variety string

	// TagPrefix is prepended to the per-order tag sent to the venue.
	TagPrefix string

	Logger *slog.Logger
}

// ConfigDefaults returns a Config with default values.
func ConfigDefaults() Config {
	return Config{
		Variety:   "amo",
		TagPrefix: "oq",
	}
}

// Submitter turns a classified intent plus a resolved price into one venue
// order. Each order carries a unique tag so it can be traced back from the
// venue's order book to this system.
type Submitter struct {
	config  Config
	gateway outbound.OrderGateway
	logger  *slog.Logger
}

// NewSubmitter creates a new order submitter.
func NewSubmitter(config Config, gateway outbound.OrderGateway) (*Submitter, error) {
	if gateway == nil {
		return nil, fmt.Errorf("gateway cannot be nil")
	}

	defaults := ConfigDefaults()
	if config.Variety == "" {
		config.Variety = defaults.Variety
	}
	if config.TagPrefix == "" {
		config.TagPrefix = defaults.TagPrefix
	}
	if config.Logger == nil {
		config.Logger = slog.Default()
	}

	return &Submitter{
		config:  config,
		gateway: gateway,
		logger:  config.Logger.With("component", "order-submitter"),
	}, nil
}

// Submit places a single-leg, day-validity limit order.
func (s *Submitter) Submit(ctx context.Context, cls entity.Classification, intent *entity.OrderIntent, price decimal.Decimal) (*entity.SubmissionResult, error) {
	if intent == nil {
		return nil, fmt.Errorf("intent cannot be nil")
	}
	if !price.IsPositive() {
		return nil, &entity.SubmissionRejectedError{
			Symbol: intent.Symbol,
			Reason: fmt.Sprintf("price must be positive, got %s", price),
		}
	}

	tag := fmt.Sprintf("%s-%s", s.config.TagPrefix, uuid.NewString()[:8])
	req := outbound.OrderRequest{
		Variety:   s.config.Variety,
		Exchange:  cls.Exchange,
		Symbol:    intent.Symbol,
		Direction: intent.Direction,
		Quantity:  intent.Quantity,
		Product:   cls.Product,
		Price:     price,
		Tag:       tag,
	}

	orderID, err := s.gateway.PlaceOrder(ctx, req)
	if err != nil {
		return nil, err
	}

	result, err := entity.NewSubmissionResult(orderID, price)
	if err != nil {
		return nil, fmt.Errorf("venue accepted order but result is invalid: %w", err)
	}

	s.logger.Info("order submitted",
		"orderID", orderID,
		"symbol", intent.Symbol,
		"side", intent.Direction.Code(),
		"quantity", intent.Quantity,
		"price", price,
		"tag", tag,
	)
	return result, nil
}
