package reporting

import (
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/estoque-lab/estoque/internal/domain/models"
)

// GroupMode selects the grouping key.
type GroupMode int

const (
	ByProductAndBatch GroupMode = iota
	ByProduct
)

// Group is the aggregated view of the records sharing a key.
type Group struct {
	Key             string               `json:"key"`
	Product         string               `json:"product"`
	Batch           string               `json:"batch,omitempty"`
	Manufacturer    string               `json:"manufacturer"`
	Unit            string               `json:"unit"`
	Location        string               `json:"location"`
	Packaging       string               `json:"packaging"`
	PackagingNumber int                  `json:"packagingNumber"`
	Status          models.StockStatus   `json:"status"`
	TotalQuantity   decimal.Decimal      `json:"totalQuantity"`
	MinimumStock    decimal.Decimal      `json:"minimumStock"`
	ExpirationDate  *models.Date         `json:"expirationDate"`
	IsLowStock      bool                 `json:"isLowStock"`
	Expiry          Expiry               `json:"expiry"`
	Items           []models.StockRecord `json:"items"`
}

// Aggregator groups flat stock lists.
type Aggregator struct {
	Keys KeyFolder
	// Minimums holds global per-product thresholds keyed by Keys.Product.
	Minimums map[string]decimal.Decimal
	Logger   *zap.Logger
}

// Group aggregates records in first-seen key order. Records missing the
// product (or the batch, in ByProductAndBatch mode) are excluded and logged.
func (a Aggregator) Group(records []models.StockRecord, mode GroupMode) []Group {
	logger := a.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	index := make(map[string]int)
	groups := make([]Group, 0)

	for _, rec := range records {
		if rec.Product == "" || (mode == ByProductAndBatch && rec.Batch == "") {
			logger.Warn("stock record excluded from grouping",
				zap.String("id", rec.ID),
				zap.String("product", rec.Product),
				zap.String("batch", rec.Batch))
			continue
		}

		key := a.Keys.Product(rec.Product)
		if mode == ByProductAndBatch {
			key = a.Keys.ProductBatch(rec.Product, rec.Batch)
		}

		pos, ok := index[key]
		if !ok {
			pos = len(groups)
			index[key] = pos
			groups = append(groups, a.newGroup(key, rec, mode))
		}
		absorb(&groups[pos], rec)
	}

	for i := range groups {
		g := &groups[i]
		g.IsLowStock = IsLowStock(g.TotalQuantity, g.MinimumStock)
	}

	return groups
}

func (a Aggregator) newGroup(key string, first models.StockRecord, mode GroupMode) Group {
	g := Group{
		Key:          key,
		Product:      first.Product,
		Manufacturer: first.Manufacturer,
		Unit:         first.Unit,
		Location:     first.Location,
		Packaging:    first.Packaging,
		Status:       models.StatusUnavailable,
		MinimumStock: decimal.Zero,
	}
	if mode == ByProductAndBatch {
		g.Batch = first.Batch
	}
	if override, ok := a.Minimums[a.Keys.Product(first.Product)]; ok {
		g.MinimumStock = override
	}
	return g
}

func absorb(g *Group, rec models.StockRecord) {
	g.TotalQuantity = g.TotalQuantity.Add(rec.Quantity)
	g.PackagingNumber += rec.PackagingNumber
	if rec.MinimumStock.GreaterThan(g.MinimumStock) {
		g.MinimumStock = rec.MinimumStock
	}
	if rec.ExpirationDate != nil && (g.ExpirationDate == nil || rec.ExpirationDate.Before(g.ExpirationDate.Time)) {
		d := *rec.ExpirationDate
		g.ExpirationDate = &d
	}
	if rec.Available() {
		g.Status = models.StatusAvailable
	}
	g.Items = append(g.Items, rec)
}

// IsLowStock is true when total <= minimum and the minimum is positive.
func IsLowStock(total, minimum decimal.Decimal) bool {
	return minimum.IsPositive() && total.LessThanOrEqual(minimum)
}
