package models

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

// ParseDecimal normalizes locale formatted numbers ("12,5", "1.234,5") before parsing.
func ParseDecimal(value string) (decimal.Decimal, error) {
	str := strings.TrimSpace(value)
	if str == "" {
		return decimal.Zero, errors.New("empty numeric value")
	}

	if strings.Contains(str, ",") {
		if strings.Contains(str, ".") {
			str = strings.ReplaceAll(str, ".", "")
		}
		str = strings.ReplaceAll(str, ",", ".")
	}

	return decimal.NewFromString(str)
}
