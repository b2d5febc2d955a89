// Package cart prices storefront carts against the catalog.
//
// Lines are keyed by (productId, variantLabel). Every mutation re-merges the
// cart so a key appears at most once, with quantities kept in
// [1, MaxLineQuantity]. Money is decimal and rounded to cents.
package cart

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/Alturino/storefront/catalog/pkg/model"
)

const (
	MaxLineQuantity = 999
	moneyPlaces     = 2
)

var (
	ErrUnknownProduct = errors.New("Unknown product")
	ErrUnknownVariant = errors.New("Unknown variant")
	ErrEmptyCart      = errors.New("Cart is empty")
	ErrMinimumOrder   = errors.New("MIN_ORDER")
)

// Prices are JSON numbers on the wire, as the storefront scripts expect.
func init() {
	decimal.MarshalJSONWithoutQuotes = true
}

// Rules are the pricing thresholds read from the catalog settings.
type Rules = model.Rules

type Key struct {
	ProductID    string
	VariantLabel string
}

type Line struct {
	ProductID    string `json:"productId"`
	VariantLabel string `json:"variantLabel"`
	Quantity     int    `json:"qty"`
}

func (l Line) Key() Key {
	return Key{ProductID: l.ProductID, VariantLabel: l.VariantLabel}
}

type PricedLine struct {
	Line
	Name      string          `json:"name"`
	Image     string          `json:"image"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
	LineTotal decimal.Decimal `json:"lineTotal"`
}

type Quote struct {
	Lines                 []PricedLine    `json:"items"`
	Currency              string          `json:"currency"`
	Subtotal              decimal.Decimal `json:"subtotal"`
	Shipping              decimal.Decimal `json:"shipping"`
	Total                 decimal.Decimal `json:"total"`
	MinOrder              decimal.Decimal `json:"minOrder"`
	FreeShipping          decimal.Decimal `json:"freeShipping"`
	AmountToMinimum       decimal.Decimal `json:"amountToMinimum"`
	AmountToFreeShipping  decimal.Decimal `json:"amountToFreeShipping"`
	ItemCount             int             `json:"itemCount"`
	QualifiesFreeShipping bool            `json:"qualifiesFree"`
	CanCheckout           bool            `json:"canCheckout"`
}

// MinimumOrderError blocks checkout of a cart below the catalog minimum.
type MinimumOrderError struct {
	MinOrder decimal.Decimal
	Subtotal decimal.Decimal
}

func (e *MinimumOrderError) Error() string {
	return fmt.Sprintf("Minimum order is $%s.", e.MinOrder.StringFixed(0))
}

func (e *MinimumOrderError) Unwrap() error {
	return ErrMinimumOrder
}

func clampQuantity(q int) int {
	switch {
	case q < 1:
		return 1
	case q > MaxLineQuantity:
		return MaxLineQuantity
	}
	return q
}

// Merge collapses lines sharing a key into the first occurrence, summing
// their quantities.
func Merge(lines []Line) []Line {
	merged := make([]Line, 0, len(lines))
	index := make(map[Key]int, len(lines))
	for _, line := range lines {
		line.Quantity = clampQuantity(line.Quantity)
		if i, ok := index[line.Key()]; ok {
			merged[i].Quantity = clampQuantity(merged[i].Quantity + line.Quantity)
			continue
		}
		index[line.Key()] = len(merged)
		merged = append(merged, line)
	}
	return merged
}

func Add(lines []Line, line Line) []Line {
	next := make([]Line, 0, len(lines)+1)
	next = append(next, lines...)
	return Merge(append(next, line))
}

// SetQuantity replaces the quantity of the line with key. Unknown keys leave
// the cart unchanged.
func SetQuantity(lines []Line, key Key, quantity int) []Line {
	next := Merge(lines)
	for i := range next {
		if next[i].Key() == key {
			next[i].Quantity = clampQuantity(quantity)
		}
	}
	return next
}

func Remove(lines []Line, key Key) []Line {
	next := make([]Line, 0, len(lines))
	for _, line := range Merge(lines) {
		if line.Key() != key {
			next = append(next, line)
		}
	}
	return next
}

func ItemCount(lines []Line) int {
	count := 0
	for _, line := range lines {
		count += line.Quantity
	}
	return count
}

// Price looks up every line in the catalog. Lines are priced as given, so
// callers that need one line per key merge first.
func Price(catalog *model.Catalog, lines []Line) ([]PricedLine, decimal.Decimal, error) {
	priced := make([]PricedLine, 0, len(lines))
	subtotal := decimal.Zero
	for _, line := range lines {
		product, ok := catalog.FindProduct(line.ProductID)
		if !ok {
			return nil, decimal.Zero, fmt.Errorf("%w: %s", ErrUnknownProduct, line.ProductID)
		}
		variant, ok := product.FindVariant(line.VariantLabel)
		if !ok {
			return nil, decimal.Zero, fmt.Errorf(
				"%w: %s for %s",
				ErrUnknownVariant,
				line.VariantLabel,
				product.Name,
			)
		}

		line.Quantity = clampQuantity(line.Quantity)
		lineTotal := variant.Price.Mul(decimal.NewFromInt(int64(line.Quantity)))
		subtotal = subtotal.Add(lineTotal)
		priced = append(priced, PricedLine{
			Line:      line,
			Name:      product.Name,
			Image:     product.Image,
			UnitPrice: variant.Price,
			LineTotal: lineTotal.Round(moneyPlaces),
		})
	}
	return priced, subtotal.Round(moneyPlaces), nil
}

// ShippingFor is free from the free shipping threshold up and for a cart with
// no items, and the flat fee otherwise.
func ShippingFor(itemCount int, subtotal decimal.Decimal, rules Rules) decimal.Decimal {
	rules = rules.WithDefaults()
	if itemCount == 0 || subtotal.GreaterThanOrEqual(rules.FreeShipping) {
		return decimal.Zero
	}
	return rules.ShippingFlat
}

func NewQuote(catalog *model.Catalog, lines []Line) (Quote, error) {
	rules := catalog.Rules()
	merged := Merge(lines)
	priced, subtotal, err := Price(catalog, merged)
	if err != nil {
		return Quote{}, err
	}

	shipping := ShippingFor(ItemCount(merged), subtotal, rules)
	qualifiesFree := len(merged) > 0 && subtotal.GreaterThanOrEqual(rules.FreeShipping)
	return Quote{
		Lines:                 priced,
		Currency:              rules.Currency,
		Subtotal:              subtotal,
		Shipping:              shipping,
		Total:                 subtotal.Add(shipping).Round(moneyPlaces),
		MinOrder:              rules.MinOrder,
		FreeShipping:          rules.FreeShipping,
		AmountToMinimum:       decimal.Max(decimal.Zero, rules.MinOrder.Sub(subtotal)),
		AmountToFreeShipping:  decimal.Max(decimal.Zero, rules.FreeShipping.Sub(subtotal)),
		ItemCount:             ItemCount(merged),
		QualifiesFreeShipping: qualifiesFree,
		CanCheckout:           len(merged) > 0 && subtotal.GreaterThanOrEqual(rules.MinOrder),
	}, nil
}

func CheckCheckout(quote Quote) error {
	if len(quote.Lines) == 0 {
		return ErrEmptyCart
	}
	if quote.Subtotal.LessThan(quote.MinOrder) {
		return &MinimumOrderError{MinOrder: quote.MinOrder, Subtotal: quote.Subtotal}
	}
	return nil
}
