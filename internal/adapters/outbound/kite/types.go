package kite

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// envelope is the wrapper every Kite Connect response uses.
// Example error response:
//
//	{"status": "error", "message": "Token is invalid", "error_type": "TokenException"}
type envelope struct {
	Status    string          `json:"status"`
	Message   string          `json:"message"`
	ErrorType string          `json:"error_type"`
	Data      json.RawMessage `json:"data"`
}

// Error types the venue reports that matter to this client. Everything else
// is treated as a plain rejection.
const (
	errTypeToken   = "TokenException"
	errTypeNetwork = "NetworkException"
)

// quoteData is one instrument's entry in the GET /quote response.
// Example (trimmed):
//
//	{"NSE:INFY": {"last_price": 1520.5, "depth": {
//	  "buy":  [{"price": 1520.45, "quantity": 30, "orders": 2}, ...],
//	  "sell": [{"price": 1520.60, "quantity": 12, "orders": 1}, ...]}}}
type quoteData struct {
	LastPrice decimal.Decimal `json:"last_price"`
	Depth     struct {
		Buy  []depthLevel `json:"buy"`
		Sell []depthLevel `json:"sell"`
	} `json:"depth"`
}

// depthLevel is one resting price level. The venue pads depth to five
// levels with zero entries, so a zero price means an absent level.
type depthLevel struct {
	Price    decimal.Decimal `json:"price"`
	Quantity int64           `json:"quantity"`
	Orders   int64           `json:"orders"`
}

// orderData is the payload of a successful POST /orders/{variety}.
type orderData struct {
	OrderID string `json:"order_id"`
}

// profileData is the payload of GET /user/profile, used only as a
// lightweight session validity check.
type profileData struct {
	UserID   string `json:"user_id"`
	UserName string `json:"user_name"`
	Email    string `json:"email"`
}

// sessionData is the payload of POST /session/token.
type sessionData struct {
	UserID      string `json:"user_id"`
	AccessToken string `json:"access_token"`
	PublicToken string `json:"public_token"`
}
