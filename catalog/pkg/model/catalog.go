package model

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	ErrNotObject          = errors.New("Invalid JSON")
	ErrProductsNotArray   = errors.New("catalog.products must be an array")
	ErrCategoriesNotArray = errors.New("catalog.categories must be an array")
	ErrPromotionsNotArray = errors.New("catalog.promotions must be an array")
	ErrCatalogUnavailable = errors.New("catalog.json missing/broken")
)

var (
	defaultCurrency     = "CAD"
	defaultMinOrder     = decimal.NewFromInt(75)
	defaultFreeShipping = decimal.NewFromInt(250)
	defaultShippingFlat = decimal.NewFromInt(20)
)

var requiredArrays = []struct {
	key string
	err error
}{
	{key: "products", err: ErrProductsNotArray},
	{key: "categories", err: ErrCategoriesNotArray},
	{key: "promotions", err: ErrPromotionsNotArray},
}

type Variant struct {
	Label string          `json:"label"`
	Price decimal.Decimal `json:"price"`
}

type Product struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Category     string    `json:"category,omitempty"`
	CategoryID   string    `json:"categoryId,omitempty"`
	Image        string    `json:"image,omitempty"`
	Rating       float64   `json:"rating,omitempty"`
	ReviewsCount int       `json:"reviewsCount,omitempty"`
	Variants     []Variant `json:"variants"`
}

func (p Product) FindVariant(label string) (Variant, bool) {
	for _, v := range p.Variants {
		if v.Label == label {
			return v, true
		}
	}
	return Variant{}, false
}

type Rules struct {
	Currency     string          `json:"currency"`
	MinOrder     decimal.Decimal `json:"minOrder"`
	FreeShipping decimal.Decimal `json:"freeShipping"`
	ShippingFlat decimal.Decimal `json:"shippingFlat"`
}

// UnmarshalJSON reads amounts written as numbers or strings. Anything else
// counts as unset so WithDefaults can fill it.
func (r *Rules) UnmarshalJSON(data []byte) error {
	document := struct {
		Currency     json.RawMessage `json:"currency"`
		MinOrder     json.RawMessage `json:"minOrder"`
		FreeShipping json.RawMessage `json:"freeShipping"`
		ShippingFlat json.RawMessage `json:"shippingFlat"`
	}{}
	if err := json.Unmarshal(data, &document); err != nil {
		return err
	}
	*r = Rules{
		Currency:     looseString(document.Currency),
		MinOrder:     looseDecimal(document.MinOrder),
		FreeShipping: looseDecimal(document.FreeShipping),
		ShippingFlat: looseDecimal(document.ShippingFlat),
	}
	return nil
}

// WithDefaults fills every missing or zero rule with the storefront default.
func (r Rules) WithDefaults() Rules {
	if r.Currency == "" {
		r.Currency = defaultCurrency
	}
	if r.MinOrder.IsZero() {
		r.MinOrder = defaultMinOrder
	}
	if r.FreeShipping.IsZero() {
		r.FreeShipping = defaultFreeShipping
	}
	if r.ShippingFlat.IsZero() {
		r.ShippingFlat = defaultShippingFlat
	}
	return r
}

type Brand struct {
	Name     string `json:"name"`
	Tagline  string `json:"tagline"`
	LogoPath string `json:"logoPath"`
}

type QA struct {
	Q string `json:"q"`
	A string `json:"a"`
}

type Etransfer struct {
	Email     string `json:"email"`
	Recipient string `json:"recipient"`
	QA        []QA   `json:"qa"`
}

type Payments struct {
	Etransfer Etransfer       `json:"etransfer"`
	Crypto    json.RawMessage `json:"crypto,omitempty"`
}

type Settings struct {
	Brand      Brand    `json:"brand"`
	Rules      Rules    `json:"rules"`
	Disclaimer string   `json:"disclaimer"`
	Payments   Payments `json:"payments"`
}

type ReviewEntry struct {
	Name   string  `json:"name"`
	Rating float64 `json:"rating"`
	Text   string  `json:"text"`
}

// Catalog is the typed read view of catalog.json. It is never written back:
// the stored document keeps keys this struct does not know about.
type Catalog struct {
	Settings   Settings          `json:"settings"`
	Categories []json.RawMessage `json:"categories"`
	Products   []Product         `json:"products"`
	Promotions []json.RawMessage `json:"promotions"`
	ReviewPool []ReviewEntry     `json:"reviewPool,omitempty"`

	// Warnings lists the entries Parse skipped or could not read.
	Warnings []string `json:"-"`
}

type productDocument struct {
	ID           json.RawMessage   `json:"id"`
	Name         json.RawMessage   `json:"name"`
	Category     json.RawMessage   `json:"category"`
	CategoryID   json.RawMessage   `json:"categoryId"`
	Image        json.RawMessage   `json:"image"`
	Rating       json.RawMessage   `json:"rating"`
	ReviewCount  json.RawMessage   `json:"reviewCount"`
	ReviewsCount json.RawMessage   `json:"reviewsCount"`
	Variants     []json.RawMessage `json:"variants"`
}

type variantDocument struct {
	Label json.RawMessage `json:"label"`
	Price json.RawMessage `json:"price"`
}

// Parse reads the typed view of a catalog document. Only a document that is
// not a JSON object fails: a broken entry is skipped or coerced and noted in
// Warnings so one bad product never hides the rest.
func Parse(data []byte) (*Catalog, error) {
	document := map[string]json.RawMessage{}
	if err := json.Unmarshal(data, &document); err != nil {
		return nil, fmt.Errorf("failed decoding catalog with error=%w", err)
	}

	catalog := Catalog{}
	if raw, ok := document["settings"]; ok {
		if err := json.Unmarshal(raw, &catalog.Settings); err != nil {
			catalog.Settings = Settings{}
			catalog.warn("settings ignored with error=%s", err)
		}
	}
	catalog.Categories = looseArray(document["categories"])
	catalog.Promotions = looseArray(document["promotions"])

	for i, raw := range looseArray(document["products"]) {
		product, err := parseProduct(raw)
		if err != nil {
			catalog.warn("products[%d] skipped with error=%s", i, err)
			continue
		}
		for _, skipped := range product.skipped {
			catalog.warn("products[%d].variants[%d] skipped", i, skipped)
		}
		catalog.Products = append(catalog.Products, product.Product)
	}

	for i, raw := range looseArray(document["reviewPool"]) {
		entry := ReviewEntry{}
		if err := json.Unmarshal(raw, &entry); err != nil {
			catalog.warn("reviewPool[%d] skipped with error=%s", i, err)
			continue
		}
		catalog.ReviewPool = append(catalog.ReviewPool, entry)
	}

	return &catalog, nil
}

func (c *Catalog) warn(format string, args ...any) {
	c.Warnings = append(c.Warnings, fmt.Sprintf(format, args...))
}

type parsedProduct struct {
	Product
	skipped []int
}

// parseProduct coerces product fields the way the storefront scripts do:
// ids and labels become strings, prices and counts become numbers, and
// anything unreadable becomes zero. reviewCount is the admin editor's name
// for the count and wins over reviewsCount.
func parseProduct(raw json.RawMessage) (parsedProduct, error) {
	document := productDocument{}
	if err := json.Unmarshal(raw, &document); err != nil {
		return parsedProduct{}, err
	}
	id := looseString(document.ID)
	if id == "" {
		return parsedProduct{}, errors.New("missing id")
	}

	reviewCount := document.ReviewsCount
	if len(bytes.TrimSpace(document.ReviewCount)) > 0 {
		reviewCount = document.ReviewCount
	}

	parsed := parsedProduct{Product: Product{
		ID:           id,
		Name:         looseString(document.Name),
		Category:     looseString(document.Category),
		CategoryID:   looseString(document.CategoryID),
		Image:        looseString(document.Image),
		Rating:       looseDecimal(document.Rating).InexactFloat64(),
		ReviewsCount: int(looseDecimal(reviewCount).IntPart()),
		Variants:     make([]Variant, 0, len(document.Variants)),
	}}
	for i, rawVariant := range document.Variants {
		variant := variantDocument{}
		if err := json.Unmarshal(rawVariant, &variant); err != nil {
			parsed.skipped = append(parsed.skipped, i)
			continue
		}
		parsed.Variants = append(parsed.Variants, Variant{
			Label: looseString(variant.Label),
			Price: looseDecimal(variant.Price),
		})
	}
	return parsed, nil
}

func looseArray(raw json.RawMessage) []json.RawMessage {
	items := []json.RawMessage{}
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil
	}
	return items
}

func looseValue(raw json.RawMessage) any {
	decoder := json.NewDecoder(bytes.NewReader(raw))
	decoder.UseNumber()
	var value any
	if err := decoder.Decode(&value); err != nil {
		return nil
	}
	return value
}

func looseString(raw json.RawMessage) string {
	switch v := looseValue(raw).(type) {
	case string:
		return strings.TrimSpace(v)
	case json.Number:
		return v.String()
	}
	return ""
}

func looseDecimal(raw json.RawMessage) decimal.Decimal {
	var text string
	switch v := looseValue(raw).(type) {
	case json.Number:
		text = v.String()
	case string:
		text = strings.TrimPrefix(strings.TrimSpace(v), "$")
	default:
		return decimal.Zero
	}
	d, err := decimal.NewFromString(strings.ReplaceAll(text, ",", ""))
	if err != nil {
		return decimal.Zero
	}
	return d
}

func (c *Catalog) Rules() Rules {
	return c.Settings.Rules.WithDefaults()
}

func (c *Catalog) FindProduct(id string) (Product, bool) {
	for _, p := range c.Products {
		if p.ID == id {
			return p, true
		}
	}
	return Product{}, false
}

// Crypto returns the configured wallet addresses, or an empty object.
func (c *Catalog) Crypto() json.RawMessage {
	if len(bytes.TrimSpace(c.Settings.Payments.Crypto)) == 0 {
		return json.RawMessage(`{}`)
	}
	return c.Settings.Payments.Crypto
}

// Validate checks that data is a JSON object whose products, categories and
// promotions are arrays, in that order, returning the first violation.
func Validate(data []byte) error {
	document := map[string]json.RawMessage{}
	if err := json.Unmarshal(data, &document); err != nil || document == nil {
		return ErrNotObject
	}
	for _, required := range requiredArrays {
		raw, ok := document[required.key]
		if !ok {
			return required.err
		}
		trimmed := bytes.TrimSpace(raw)
		if len(trimmed) == 0 || trimmed[0] != '[' {
			return required.err
		}
	}
	return nil
}
