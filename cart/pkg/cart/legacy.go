package cart

import (
	"math"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

const (
	defaultProductID    = "item"
	defaultVariantLabel = "Default"
)

var (
	containerKeys = []string{
		"items",
		"cart",
		"lines",
		"products",
		"cartItems",
		"cart_items",
		"cartitems",
	}
	productIDKeys    = []string{"id", "productId", "sku", "slug", "handle"}
	nestedIDKeys     = []string{"id", "slug"}
	nameKeys         = []string{"name", "title"}
	variantKeys      = []string{"variantLabel", "variant", "size", "weight", "option", "unit"}
	quantityKeys     = []string{"qty", "quantity", "count", "units"}
	itemHintKeys     = []string{"price", "unitPrice", "name", "title", "qty", "quantity"}
	leadingNumberExp = regexp.MustCompile(`^-?(\d+\.?\d*|\.\d+)`)
	nonNumericExp    = regexp.MustCompile(`[^0-9.\-]`)
)

// ExtractLines reads cart lines out of any decoded JSON value older clients
// may have stored: a bare array, an object holding the array under a known
// key, or an object whose values are items. Anything else is an empty cart.
// Objects of items are read in key order.
func ExtractLines(v any) []Line {
	raw := extractItems(v)
	lines := make([]Line, 0, len(raw))
	for _, item := range raw {
		fields, ok := item.(map[string]any)
		if !ok {
			continue
		}
		lines = append(lines, normalizeItem(fields))
	}
	return Merge(lines)
}

func extractItems(v any) []any {
	switch value := v.(type) {
	case []any:
		return value
	case map[string]any:
		for _, key := range containerKeys {
			if items, ok := value[key].([]any); ok {
				return items
			}
		}
		return itemValues(value)
	}
	return nil
}

func itemValues(object map[string]any) []any {
	if len(object) == 0 {
		return nil
	}
	keys := make([]string, 0, len(object))
	looksLikeItems := false
	for key, value := range object {
		fields, ok := value.(map[string]any)
		if !ok {
			return nil
		}
		if hasAny(fields, itemHintKeys) {
			looksLikeItems = true
		}
		keys = append(keys, key)
	}
	if !looksLikeItems {
		return nil
	}
	sort.Strings(keys)
	items := make([]any, 0, len(keys))
	for _, key := range keys {
		items = append(items, object[key])
	}
	return items
}

func hasAny(fields map[string]any, keys []string) bool {
	for _, key := range keys {
		if v, ok := fields[key]; ok && v != nil {
			return true
		}
	}
	return false
}

func normalizeItem(fields map[string]any) Line {
	productID := firstString(fields, productIDKeys)
	if productID == "" {
		if product, ok := fields["product"].(map[string]any); ok {
			productID = firstString(product, nestedIDKeys)
		}
	}
	if productID == "" {
		productID = firstString(fields, nameKeys)
	}
	if productID == "" {
		productID = defaultProductID
	}

	variantLabel := firstString(fields, variantKeys)
	if variantLabel == "" {
		variantLabel = defaultVariantLabel
	}

	quantity := 1
	for _, key := range quantityKeys {
		if v, ok := fields[key]; ok && v != nil {
			quantity = int(math.Round(toNumber(v)))
			break
		}
	}

	return Line{ProductID: productID, VariantLabel: variantLabel, Quantity: quantity}
}

func firstString(fields map[string]any, keys []string) string {
	for _, key := range keys {
		switch v := fields[key].(type) {
		case string:
			if s := strings.TrimSpace(v); s != "" {
				return s
			}
		case float64:
			return strconv.FormatFloat(v, 'f', -1, 64)
		case bool:
			return strconv.FormatBool(v)
		}
	}
	return ""
}

// toNumber accepts numbers and loosely formatted numeric strings such as
// "$12.50". Unparseable values are 0.
func toNumber(v any) float64 {
	switch value := v.(type) {
	case float64:
		if math.IsInf(value, 0) || math.IsNaN(value) {
			return 0
		}
		return value
	case string:
		cleaned := nonNumericExp.ReplaceAllString(value, "")
		n, err := strconv.ParseFloat(leadingNumberExp.FindString(cleaned), 64)
		if err != nil {
			return 0
		}
		return n
	}
	return 0
}
