package response

import (
	"github.com/shopspring/decimal"

	"github.com/Alturino/storefront/catalog/pkg/model"
)

// Product is a catalog product with its rating summary and the price of its
// cheapest variant.
type Product struct {
	model.Product
	Rating       float64         `json:"rating"`
	ReviewsCount int             `json:"reviewsCount"`
	FromPrice    decimal.Decimal `json:"fromPrice"`
}
