package response

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Alturino/storefront/cart/pkg/cart"
	"github.com/Alturino/storefront/order/pkg/request"
)

const StatusPendingPayment = "PENDING_PAYMENT"

// Order is the record appended to orders.json.
type Order struct {
	OrderNumber     string                  `json:"orderNumber"`
	CreatedAt       time.Time               `json:"createdAt"`
	Status          string                  `json:"status"`
	Customer        request.Customer        `json:"customer"`
	ShippingAddress request.ShippingAddress `json:"shippingAddress"`
	PaymentMethod   string                  `json:"paymentMethod"`
	CryptoCurrency  string                  `json:"cryptoCurrency"`
	Notes           string                  `json:"notes,omitempty"`
	Items           []cart.PricedLine       `json:"items"`
	Subtotal        decimal.Decimal         `json:"subtotal"`
	Shipping        decimal.Decimal         `json:"shipping"`
	Total           decimal.Decimal         `json:"total"`
}

type Totals struct {
	Subtotal      decimal.Decimal `json:"subtotal"`
	Shipping      decimal.Decimal `json:"shipping"`
	Total         decimal.Decimal `json:"total"`
	QualifiesFree bool            `json:"qualifiesFree"`
}

type Etransfer struct {
	Email     string `json:"email"`
	Recipient string `json:"recipient"`
	Question  string `json:"question"`
	Answer    string `json:"answer"`
}

// CreatedOrder holds everything the checkout page shows after submitting.
type CreatedOrder struct {
	Ok          bool            `json:"ok"`
	OrderNumber string          `json:"orderNumber"`
	Totals      Totals          `json:"totals"`
	Etransfer   Etransfer       `json:"etransfer"`
	Crypto      json.RawMessage `json:"crypto"`
	Disclaimer  string          `json:"disclaimer"`
}

type MinimumOrder struct {
	Error    string          `json:"error"`
	Message  string          `json:"message"`
	MinOrder decimal.Decimal `json:"minOrder"`
	Subtotal decimal.Decimal `json:"subtotal"`
}
