package reporting

import (
	"strings"

	"github.com/estoque-lab/estoque/internal/domain/models"
)

// Filter composes the search and status predicates with AND.
// Empty fields place no constraint.
type Filter struct {
	Search string
	Status models.StockStatus
}

// Match reports whether rec passes both predicates.
func (f Filter) Match(rec models.StockRecord) bool {
	if f.Status != "" && rec.Status != f.Status {
		return false
	}

	query := strings.ToLower(strings.TrimSpace(f.Search))
	if query == "" {
		return true
	}

	for _, field := range []string{rec.Product, rec.Batch, rec.Manufacturer} {
		if field != "" && strings.Contains(strings.ToLower(field), query) {
			return true
		}
	}
	return false
}

// Apply returns the matching records in input order.
func (f Filter) Apply(records []models.StockRecord) []models.StockRecord {
	out := make([]models.StockRecord, 0, len(records))
	for _, rec := range records {
		if f.Match(rec) {
			out = append(out, rec)
		}
	}
	return out
}
