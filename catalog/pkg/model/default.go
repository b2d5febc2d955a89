package model

import (
	"bytes"
	_ "embed"
)

//go:embed default_catalog.json
var defaultDocument []byte

// DefaultDocument is the catalog written at startup when none exists.
func DefaultDocument() []byte {
	return bytes.Clone(defaultDocument)
}
