package request

import (
	"github.com/Alturino/storefront/cart/pkg/cart"
)

type Customer struct {
	FullName string `validate:"max=200"                json:"fullName"`
	Email    string `validate:"omitempty,email"        json:"email"`
	Phone    string `validate:"omitempty,phone"        json:"phone"`
}

type ShippingAddress struct {
	Addr1    string `validate:"max=200"          json:"addr1"`
	Addr2    string `validate:"max=200"          json:"addr2"`
	City     string `validate:"max=100"          json:"city"`
	Province string `validate:"max=100"          json:"province"`
	Postal   string `validate:"omitempty,postal" json:"postal"`
}

type CreateOrder struct {
	Items           []cart.Line     `validate:"max=200"                                       json:"items"`
	Customer        Customer        `                                                         json:"customer"`
	ShippingAddress ShippingAddress `                                                         json:"shippingAddress"`
	PaymentMethod   string          `validate:"omitempty,oneof=etransfer crypto interac"      json:"paymentMethod"`
	CryptoCurrency  string          `validate:"omitempty,max=10"                              json:"cryptoCurrency"`
	Notes           string          `validate:"max=2000"                                      json:"notes"`
}
