package submit

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/riskdesk/orderqueue/internal/domain/entity"
	"github.com/riskdesk/orderqueue/internal/ports/outbound"
)

// mockGateway implements outbound.OrderGateway for testing.
type mockGateway struct {
	placeOrderFn func(ctx context.Context, req outbound.OrderRequest) (string, error)
	requests     []outbound.OrderRequest
}

func (m *mockGateway) PlaceOrder(ctx context.Context, req outbound.OrderRequest) (string, error) {
	m.requests = append(m.requests, req)
	if m.placeOrderFn != nil {
		return m.placeOrderFn(ctx, req)
	}
	return "240830000123456", nil
}

func testIntent(t *testing.T) *entity.OrderIntent {
	t.Helper()
	intent, err := entity.NewOrderIntent("INFY", entity.DirectionBuy, 10, entity.ProductUnset)
	if err != nil {
		t.Fatalf("NewOrderIntent() error = %v", err)
	}
	return intent
}

func TestNewSubmitter_RequiresGateway(t *testing.T) {
	if _, err := NewSubmitter(Config{}, nil); err == nil {
		t.Error("expected error for nil gateway")
	}
}

func TestNewSubmitter_AppliesDefaults(t *testing.T) {
	submitter, err := NewSubmitter(Config{}, &mockGateway{})
	if err != nil {
		t.Fatalf("NewSubmitter() error = %v", err)
	}
	if submitter.config.Variety != "amo" {
		t.Errorf("default Variety = %q, want amo", submitter.config.Variety)
	}
	if submitter.config.TagPrefix != "oq" {
		t.Errorf("default TagPrefix = %q, want oq", submitter.config.TagPrefix)
	}
}

func TestSubmit_BuildsOrderRequest(t *testing.T) {
	gateway := &mockGateway{}
	submitter, err := NewSubmitter(Config{Variety: "regular"}, gateway)
	if err != nil {
		t.Fatalf("NewSubmitter() error = %v", err)
	}

	cls := entity.Classification{Exchange: entity.ExchangeNSE, Product: entity.ProductCNC}
	price := decimal.RequireFromString("1520.45")

	result, err := submitter.Submit(context.Background(), cls, testIntent(t), price)
	if err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
	if result.OrderID != "240830000123456" {
		t.Errorf("OrderID = %q", result.OrderID)
	}
	if !result.LimitPrice.Equal(price) {
		t.Errorf("LimitPrice = %s, want %s", result.LimitPrice, price)
	}

	if len(gateway.requests) != 1 {
		t.Fatalf("expected 1 PlaceOrder call, got %d", len(gateway.requests))
	}
	req := gateway.requests[0]
	if req.Variety != "regular" {
		t.Errorf("Variety = %q", req.Variety)
	}
	if req.Exchange != entity.ExchangeNSE {
		t.Errorf("Exchange = %v", req.Exchange)
	}
	if req.Symbol != "INFY" {
		t.Errorf("Symbol = %q", req.Symbol)
	}
	if req.Direction != entity.DirectionBuy {
		t.Errorf("Direction = %v", req.Direction)
	}
	if req.Quantity != 10 {
		t.Errorf("Quantity = %d", req.Quantity)
	}
	if req.Product != entity.ProductCNC {
		t.Errorf("Product = %v", req.Product)
	}
	if !req.Price.Equal(price) {
		t.Errorf("Price = %s", req.Price)
	}
	if !strings.HasPrefix(req.Tag, "oq-") {
		t.Errorf("Tag = %q, want oq- prefix", req.Tag)
	}
}

func TestSubmit_TagsAreUnique(t *testing.T) {
	gateway := &mockGateway{}
	submitter, err := NewSubmitter(Config{}, gateway)
	if err != nil {
		t.Fatalf("NewSubmitter() error = %v", err)
	}

	cls := entity.Classification{Exchange: entity.ExchangeNSE, Product: entity.ProductCNC}
	price := decimal.RequireFromString("100")

	if _, err := submitter.Submit(context.Background(), cls, testIntent(t), price); err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
	if _, err := submitter.Submit(context.Background(), cls, testIntent(t), price); err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
	if gateway.requests[0].Tag == gateway.requests[1].Tag {
		t.Errorf("tags should differ, both = %q", gateway.requests[0].Tag)
	}
}

func TestSubmit_RejectsNonPositivePrice(t *testing.T) {
	gateway := &mockGateway{}
	submitter, err := NewSubmitter(Config{}, gateway)
	if err != nil {
		t.Fatalf("NewSubmitter() error = %v", err)
	}

	cls := entity.Classification{Exchange: entity.ExchangeNSE, Product: entity.ProductCNC}
	_, err = submitter.Submit(context.Background(), cls, testIntent(t), decimal.Zero)

	var rejected *entity.SubmissionRejectedError
	if !errors.As(err, &rejected) {
		t.Fatalf("error = %v, want *SubmissionRejectedError", err)
	}
	if len(gateway.requests) != 0 {
		t.Errorf("gateway should not be called, got %d calls", len(gateway.requests))
	}
}

func TestSubmit_GatewayErrorPassesThrough(t *testing.T) {
	gateway := &mockGateway{
		placeOrderFn: func(ctx context.Context, req outbound.OrderRequest) (string, error) {
			return "", &entity.SubmissionRejectedError{Symbol: req.Symbol, Reason: "Insufficient funds"}
		},
	}
	submitter, err := NewSubmitter(Config{}, gateway)
	if err != nil {
		t.Fatalf("NewSubmitter() error = %v", err)
	}

	cls := entity.Classification{Exchange: entity.ExchangeNSE, Product: entity.ProductCNC}
	_, err = submitter.Submit(context.Background(), cls, testIntent(t), decimal.RequireFromString("100"))

	var rejected *entity.SubmissionRejectedError
	if !errors.As(err, &rejected) {
		t.Fatalf("error = %v, want *SubmissionRejectedError", err)
	}
	if !strings.Contains(rejected.Reason, "Insufficient funds") {
		t.Errorf("Reason = %q", rejected.Reason)
	}
}

func TestSubmit_SessionExpiryPassesThrough(t *testing.T) {
	gateway := &mockGateway{
		placeOrderFn: func(ctx context.Context, req outbound.OrderRequest) (string, error) {
			return "", entity.ErrSessionExpired
		},
	}
	submitter, err := NewSubmitter(Config{}, gateway)
	if err != nil {
		t.Fatalf("NewSubmitter() error = %v", err)
	}

	cls := entity.Classification{Exchange: entity.ExchangeNSE, Product: entity.ProductCNC}
	_, err = submitter.Submit(context.Background(), cls, testIntent(t), decimal.RequireFromString("100"))
	if !errors.Is(err, entity.ErrSessionExpired) {
		t.Errorf("error = %v, want ErrSessionExpired", err)
	}
}
