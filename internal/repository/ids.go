package repository

import (
	"fmt"
	"strconv"
	"strings"
)

// Sequential id prefixes and widths, e.g. prod_000001 and local_001.
const (
	StockIDPrefix    = "prod_"
	LocationIDPrefix = "local_"
	stockIDWidth     = 6
	locationIDWidth  = 3
)

// NextStockID returns the id following the highest prod_ suffix in use.
func NextStockID(existing []string) string {
	return nextSequentialID(existing, StockIDPrefix, stockIDWidth)
}

// NextLocationID returns the id following the highest local_ suffix in use.
func NextLocationID(existing []string) string {
	return nextSequentialID(existing, LocationIDPrefix, locationIDWidth)
}

func nextSequentialID(existing []string, prefix string, width int) string {
	highest := 0
	for _, id := range existing {
		if !strings.HasPrefix(id, prefix) {
			continue
		}
		n, err := strconv.Atoi(strings.TrimPrefix(id, prefix))
		if err != nil {
			continue
		}
		if n > highest {
			highest = n
		}
	}
	return fmt.Sprintf("%s%0*d", prefix, width, highest+1)
}
