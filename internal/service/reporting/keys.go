package reporting

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

const keySeparator = "\x1f"

// KeyFolder derives grouping keys from product and batch names.
// With Normalize unset keys are exact, case-sensitive matches.
type KeyFolder struct {
	Normalize bool
}

// Fold returns the comparable form of a single name.
func (k KeyFolder) Fold(value string) string {
	if !k.Normalize {
		return value
	}

	stripped, _, err := transform.String(transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC), value)
	if err != nil {
		stripped = value
	}
	return cases.Fold().String(strings.Join(strings.Fields(stripped), " "))
}

// Product is the key of product-only grouping.
func (k KeyFolder) Product(product string) string {
	return k.Fold(product)
}

// ProductBatch is the key of product+batch grouping.
func (k KeyFolder) ProductBatch(product, batch string) string {
	return k.Fold(product) + keySeparator + k.Fold(batch)
}

// Placement identifies a product lot at one location; transfers merge into it.
func (k KeyFolder) Placement(product, batch, location string) string {
	return k.ProductBatch(product, batch) + keySeparator + location
}
