package response

import "github.com/Alturino/storefront/cart/pkg/cart"

// Quote is a priced cart plus, when checkout is blocked, the reason shown to
// the shopper.
type Quote struct {
	cart.Quote
	Message string `json:"message,omitempty"`
}
