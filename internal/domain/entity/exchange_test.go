package entity

import (
	"strings"
	"testing"
)

func contains(s, substr string) bool {
	return strings.Contains(s, substr)
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name         string
		symbol       string
		explicit     Product
		wantExchange Exchange
		wantProduct  Product
	}{
		{
			name:         "plain equity symbol",
			symbol:       "RELIANCE",
			wantExchange: ExchangeNSE,
			wantProduct:  ProductCNC,
		},
		{
			name:         "equity with single digit stays equity",
			symbol:       "M3M",
			wantExchange: ExchangeNSE,
			wantProduct:  ProductCNC,
		},
		{
			name:         "hyphenated equity series",
			symbol:       "AAPL-EQ",
			wantExchange: ExchangeNSE,
			wantProduct:  ProductCNC,
		},
		{
			name:         "index option",
			symbol:       "NIFTY24DEC22000CE",
			wantExchange: ExchangeNFO,
			wantProduct:  ProductNRML,
		},
		{
			name:         "stock future",
			symbol:       "RELIANCE24DECFUT",
			wantExchange: ExchangeNFO,
			wantProduct:  ProductNRML,
		},
		{
			name:         "currency future",
			symbol:       "USDINR24DECFUT",
			wantExchange: ExchangeCDS,
			wantProduct:  ProductNRML,
		},
		{
			name:         "currency option lowercase",
			symbol:       "eurinr24dec90ce",
			wantExchange: ExchangeCDS,
			wantProduct:  ProductNRML,
		},
		{
			name:         "bare INR token with enough digits",
			symbol:       "JPYINR24JANFUT",
			wantExchange: ExchangeCDS,
			wantProduct:  ProductNRML,
		},
		{
			name:         "INR-bearing equity name without digits stays equity",
			symbol:       "INRBANK",
			wantExchange: ExchangeNSE,
			wantProduct:  ProductCNC,
		},
		{
			name:         "explicit product wins on equity",
			symbol:       "RELIANCE",
			explicit:     ProductMIS,
			wantExchange: ExchangeNSE,
			wantProduct:  ProductMIS,
		},
		{
			name:         "explicit product wins on derivative",
			symbol:       "NIFTY24DEC22000CE",
			explicit:     ProductMIS,
			wantExchange: ExchangeNFO,
			wantProduct:  ProductMIS,
		},
		{
			name:         "empty symbol degrades to equity",
			symbol:       "",
			wantExchange: ExchangeNSE,
			wantProduct:  ProductCNC,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(tt.symbol, tt.explicit)
			if got.Exchange != tt.wantExchange {
				t.Errorf("Classify(%q) exchange = %v, want %v", tt.symbol, got.Exchange, tt.wantExchange)
			}
			if got.Product != tt.wantProduct {
				t.Errorf("Classify(%q) product = %v, want %v", tt.symbol, got.Product, tt.wantProduct)
			}
			if got.Product == ProductUnset {
				t.Errorf("Classify(%q) left product unset", tt.symbol)
			}
		})
	}
}

func TestExchangeCode(t *testing.T) {
	tests := []struct {
		exchange Exchange
		want     string
	}{
		{ExchangeNSE, "NSE"},
		{ExchangeNFO, "NFO"},
		{ExchangeCDS, "CDS"},
		{ExchangeUnknown, ""},
	}
	for _, tt := range tests {
		if got := tt.exchange.Code(); got != tt.want {
			t.Errorf("Code() = %q, want %q", got, tt.want)
		}
	}
}

func TestParseExchange(t *testing.T) {
	tests := []struct {
		in      string
		want    Exchange
		wantErr bool
	}{
		{in: "NSE", want: ExchangeNSE},
		{in: "nfo", want: ExchangeNFO},
		{in: " CDS ", want: ExchangeCDS},
		{in: "BSE", wantErr: true},
		{in: "", wantErr: true},
	}
	for _, tt := range tests {
		got, err := ParseExchange(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseExchange(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if !tt.wantErr && got != tt.want {
			t.Errorf("ParseExchange(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestDefaultProduct(t *testing.T) {
	if got := ExchangeNSE.DefaultProduct(); got != ProductCNC {
		t.Errorf("NSE default product = %v, want CNC", got)
	}
	if got := ExchangeNFO.DefaultProduct(); got != ProductNRML {
		t.Errorf("NFO default product = %v, want NRML", got)
	}
	if got := ExchangeCDS.DefaultProduct(); got != ProductNRML {
		t.Errorf("CDS default product = %v, want NRML", got)
	}
}
