package request

import (
	"github.com/shopspring/decimal"
)

const (
	SortFeatured  = ""
	SortPriceAsc  = "price_asc"
	SortPriceDesc = "price_desc"
	SortRating    = "rating"
	SortName      = "name"
)

// FindProducts filters the catalog listing. Prices compare against the
// cheapest variant of each product.
type FindProducts struct {
	Category string           `validate:"max=100"                                             json:"category"`
	Query    string           `validate:"max=100"                                             json:"q"`
	MinPrice *decimal.Decimal `validate:"omitempty,money"                                     json:"minPrice"`
	MaxPrice *decimal.Decimal `validate:"omitempty,money"                                     json:"maxPrice"`
	Sort     string           `validate:"omitempty,oneof=price_asc price_desc rating name"    json:"sort"`
}
