package pricing

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/riskdesk/orderqueue/internal/domain/entity"
)

// mockMarketData implements outbound.MarketDataProvider for testing.
type mockMarketData struct {
	getQuoteFn func(ctx context.Context, exchange entity.Exchange, symbol string) (*entity.Quote, error)
	calls      int
}

func (m *mockMarketData) GetQuote(ctx context.Context, exchange entity.Exchange, symbol string) (*entity.Quote, error) {
	m.calls++
	return m.getQuoteFn(ctx, exchange, symbol)
}

func twoSidedQuote(t *testing.T, bid, ask string) *entity.Quote {
	t.Helper()
	quote, err := entity.NewQuote(decimal.RequireFromString(bid), decimal.RequireFromString(ask))
	if err != nil {
		t.Fatalf("NewQuote() error = %v", err)
	}
	return quote
}

func TestNewResolver_RequiresMarketData(t *testing.T) {
	if _, err := NewResolver(nil, nil); err == nil {
		t.Error("expected error for nil market data provider")
	}
}

func TestResolvePrice_SideSelection(t *testing.T) {
	tests := []struct {
		name      string
		direction entity.Direction
		want      string
	}{
		{name: "buy joins best bid", direction: entity.DirectionBuy, want: "150.25"},
		{name: "sell joins best ask", direction: entity.DirectionSell, want: "150.30"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := &mockMarketData{
				getQuoteFn: func(ctx context.Context, exchange entity.Exchange, symbol string) (*entity.Quote, error) {
					if exchange != entity.ExchangeNSE || symbol != "INFY" {
						t.Errorf("GetQuote(%v, %q), want NSE INFY", exchange, symbol)
					}
					return twoSidedQuote(t, "150.25", "150.30"), nil
				},
			}
			resolver, err := NewResolver(mock, nil)
			if err != nil {
				t.Fatalf("NewResolver() error = %v", err)
			}

			price, err := resolver.ResolvePrice(context.Background(), entity.ExchangeNSE, "INFY", tt.direction)
			if err != nil {
				t.Fatalf("ResolvePrice() error = %v", err)
			}
			if !price.Equal(decimal.RequireFromString(tt.want)) {
				t.Errorf("price = %s, want %s", price, tt.want)
			}
		})
	}
}

func TestResolvePrice_QuoteErrorPassesThrough(t *testing.T) {
	wantErr := &entity.QuoteUnavailableError{Exchange: entity.ExchangeNSE, Symbol: "INFY", Reason: "no resting bids"}
	mock := &mockMarketData{
		getQuoteFn: func(ctx context.Context, exchange entity.Exchange, symbol string) (*entity.Quote, error) {
			return nil, wantErr
		},
	}
	resolver, err := NewResolver(mock, nil)
	if err != nil {
		t.Fatalf("NewResolver() error = %v", err)
	}

	_, err = resolver.ResolvePrice(context.Background(), entity.ExchangeNSE, "INFY", entity.DirectionBuy)
	var unavailable *entity.QuoteUnavailableError
	if !errors.As(err, &unavailable) {
		t.Fatalf("error = %v, want *QuoteUnavailableError", err)
	}
}

func TestResolvePrice_SessionExpiryPassesThrough(t *testing.T) {
	mock := &mockMarketData{
		getQuoteFn: func(ctx context.Context, exchange entity.Exchange, symbol string) (*entity.Quote, error) {
			return nil, entity.ErrSessionExpired
		},
	}
	resolver, err := NewResolver(mock, nil)
	if err != nil {
		t.Fatalf("NewResolver() error = %v", err)
	}

	_, err = resolver.ResolvePrice(context.Background(), entity.ExchangeNSE, "INFY", entity.DirectionBuy)
	if !errors.Is(err, entity.ErrSessionExpired) {
		t.Errorf("error = %v, want ErrSessionExpired", err)
	}
}

func TestResolvePrice_UnknownDirection(t *testing.T) {
	mock := &mockMarketData{
		getQuoteFn: func(ctx context.Context, exchange entity.Exchange, symbol string) (*entity.Quote, error) {
			return twoSidedQuote(t, "150.25", "150.30"), nil
		},
	}
	resolver, err := NewResolver(mock, nil)
	if err != nil {
		t.Fatalf("NewResolver() error = %v", err)
	}

	_, err = resolver.ResolvePrice(context.Background(), entity.ExchangeNSE, "INFY", entity.DirectionUnknown)
	var unavailable *entity.QuoteUnavailableError
	if !errors.As(err, &unavailable) {
		t.Errorf("error = %v, want *QuoteUnavailableError", err)
	}
}
