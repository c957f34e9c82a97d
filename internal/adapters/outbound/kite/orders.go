package kite

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"

	"github.com/riskdesk/orderqueue/internal/domain/entity"
	"github.com/riskdesk/orderqueue/internal/ports/outbound"
)

// Fixed order parameters: this gateway only ever places day-validity limit
// orders. Upgrading the variety from after-market to regular is the caller's
// configuration decision.
const (
	orderTypeLimit = "LIMIT"
	validityDay    = "DAY"

	// VarietyAMO queues the order for the next session's opening.
	VarietyAMO = "amo"
	// VarietyRegular sends the order straight to the book.
	VarietyRegular = "regular"
)

// PlaceOrder submits one single-leg limit order. The attempt is atomic: no
// internal retry, no partial result. A venue refusal comes back as
// *entity.SubmissionRejectedError; an expired session as
// entity.ErrSessionExpired.
func (c *Client) PlaceOrder(ctx context.Context, req outbound.OrderRequest) (string, error) {
	if err := validateOrderRequest(req); err != nil {
		return "", &entity.SubmissionRejectedError{Symbol: req.Symbol, Reason: err.Error()}
	}

	form := url.Values{}
	form.Set("exchange", req.Exchange.Code())
	form.Set("tradingsymbol", req.Symbol)
	form.Set("transaction_type", req.Direction.Code())
	form.Set("quantity", strconv.FormatInt(req.Quantity, 10))
	form.Set("product", req.Product.Code())
	form.Set("order_type", orderTypeLimit)
	form.Set("price", req.Price.String())
	form.Set("validity", validityDay)
	if req.Tag != "" {
		form.Set("tag", req.Tag)
	}

	var data orderData
	if err := c.postOnce(ctx, "/orders/"+req.Variety, form, &data); err != nil {
		if errors.Is(err, entity.ErrSessionExpired) {
			return "", err
		}
		return "", &entity.SubmissionRejectedError{Symbol: req.Symbol, Reason: err.Error()}
	}

	if data.OrderID == "" {
		return "", &entity.SubmissionRejectedError{Symbol: req.Symbol, Reason: "venue returned no order ID"}
	}

	c.logger.Info("order placed",
		"orderID", data.OrderID,
		"exchange", req.Exchange.Code(),
		"symbol", req.Symbol,
		"side", req.Direction.Code(),
		"quantity", req.Quantity,
		"price", req.Price,
	)
	return data.OrderID, nil
}

func validateOrderRequest(req outbound.OrderRequest) error {
	if req.Variety == "" {
		return fmt.Errorf("variety must be set")
	}
	if req.Exchange.Code() == "" {
		return fmt.Errorf("exchange must be set")
	}
	if req.Symbol == "" {
		return fmt.Errorf("symbol must not be empty")
	}
	if req.Direction.Code() == "" {
		return fmt.Errorf("direction must be BUY or SELL")
	}
	if req.Quantity <= 0 {
		return fmt.Errorf("quantity must be positive, got %d", req.Quantity)
	}
	if req.Product.Code() == "" {
		return fmt.Errorf("product must be set")
	}
	if !req.Price.IsPositive() {
		return fmt.Errorf("price must be positive, got %s", req.Price)
	}
	return nil
}
