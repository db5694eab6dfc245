package reporting

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/estoque-lab/estoque/internal/domain/models"
)

func TestFilterSearchesProductBatchAndManufacturer(t *testing.T) {
	a := record("p1", "Etanol", "L-77", "1", "0")
	a.Manufacturer = "Merck"
	b := record("p2", "Acetona", "X1", "1", "0")

	assert.Len(t, Filter{Search: "ETA"}.Apply([]models.StockRecord{a, b}), 1)
	assert.Len(t, Filter{Search: "l-7"}.Apply([]models.StockRecord{a, b}), 1)
	assert.Len(t, Filter{Search: "merck"}.Apply([]models.StockRecord{a, b}), 1)
	assert.Len(t, Filter{Search: "zzz"}.Apply([]models.StockRecord{a, b}), 0)
	assert.Len(t, Filter{}.Apply([]models.StockRecord{a, b}), 2)
}

func TestFilterMissingFieldsDoNotMatch(t *testing.T) {
	rec := models.StockRecord{ID: "p1"}
	assert.False(t, Filter{Search: "a"}.Match(rec))
}

func TestFilterComposesWithStatus(t *testing.T) {
	a := record("p1", "Etanol", "L1", "1", "0")
	b := record("p2", "Etanol", "L2", "0", "0")
	b.Status = models.StatusUnavailable

	got := Filter{Search: "etanol", Status: models.StatusUnavailable}.Apply([]models.StockRecord{a, b})
	assert.Equal(t, []models.StockRecord{b}, got)
}
