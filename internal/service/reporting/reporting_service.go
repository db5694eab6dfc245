package reporting

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/estoque-lab/estoque/internal/domain/models"
)

// Options configures the read path.
type Options struct {
	Thresholds    Thresholds
	PageSize      int
	NormalizeKeys bool
	// Clock overrides time.Now.
	Clock func() time.Time
}

// Query selects one page of the grouped stock view.
type Query struct {
	Search   string
	Status   models.StockStatus
	Page     int
	PageSize int
}

// ExpiringSummary backs the "products close to expiry" banner.
type ExpiringSummary struct {
	Count       int                 `json:"count"`
	Expired     int                 `json:"expired"`
	Nearest     *models.StockRecord `json:"nearest,omitempty"`
	NearestDays int                 `json:"nearestDays"`
}

// Reporter turns flat stock lists into the grouped, classified views.
type Reporter struct {
	opts   Options
	logger *zap.Logger
	now    func() time.Time
}

// NewReporter wires a reporter with the given options.
func NewReporter(opts Options, logger *zap.Logger) *Reporter {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.PageSize <= 0 {
		opts.PageSize = DefaultPageSize
	}
	if opts.Thresholds == (Thresholds{}) {
		opts.Thresholds = DefaultThresholds()
	}
	now := opts.Clock
	if now == nil {
		now = time.Now
	}
	return &Reporter{opts: opts, logger: logger, now: now}
}

// Keys exposes the grouping key policy so writers match the same records.
func (r *Reporter) Keys() KeyFolder {
	return KeyFolder{Normalize: r.opts.NormalizeKeys}
}

// Thresholds returns the configured expiry limits.
func (r *Reporter) Thresholds() Thresholds {
	return r.opts.Thresholds
}

// Groups filters, groups by product+batch and sorts by expiry.
func (r *Reporter) Groups(records []models.StockRecord, minimums []models.MinimumThreshold, f Filter) []Group {
	groups := r.aggregator(minimums).Group(f.Apply(records), ByProductAndBatch)
	r.classify(groups)
	SortByExpiration(groups)
	return groups
}

// StockView is Groups followed by pagination.
func (r *Reporter) StockView(records []models.StockRecord, minimums []models.MinimumThreshold, q Query) Page[Group] {
	groups := r.Groups(records, minimums, Filter{Search: q.Search, Status: q.Status})

	pageSize := q.PageSize
	if pageSize <= 0 {
		pageSize = r.opts.PageSize
	}
	return Paginate(groups, q.Page, pageSize)
}

// Totals groups all records by product.
func (r *Reporter) Totals(records []models.StockRecord, minimums []models.MinimumThreshold) []Group {
	groups := r.aggregator(minimums).Group(records, ByProduct)
	r.classify(groups)
	return groups
}

// Expiring counts records within [0, warningDays] of expiry and reports the nearest.
func (r *Reporter) Expiring(records []models.StockRecord) ExpiringSummary {
	now := r.now()
	var summary ExpiringSummary

	for i := range records {
		exp := Classify(records[i].ExpirationDate, now, r.opts.Thresholds)
		if exp.Tier == TierNoExpiry {
			continue
		}
		days := *exp.DaysRemaining
		if days < 0 {
			summary.Expired++
			continue
		}
		if days > r.opts.Thresholds.WarningDays {
			continue
		}
		summary.Count++
		if summary.Nearest == nil || days < summary.NearestDays {
			rec := records[i].Clone()
			summary.Nearest = &rec
			summary.NearestDays = days
		}
	}

	return summary
}

// Snapshot builds the archived daily summary.
func (r *Reporter) Snapshot(records []models.StockRecord, locations int, minimums []models.MinimumThreshold) models.InventorySnapshot {
	now := r.now()
	totals := r.Totals(records, minimums)
	expiring := r.Expiring(records)

	snap := models.InventorySnapshot{
		Date:            models.DateOf(now).Time,
		Records:         len(records),
		Locations:       locations,
		Totals:          make([]models.ProductTotal, 0, len(totals)),
		ExpiringRecords: expiring.Count,
		ExpiredRecords:  expiring.Expired,
		CreatedAt:       now.UTC(),
	}

	for _, g := range totals {
		snap.Totals = append(snap.Totals, models.ProductTotal{
			Product:       g.Product,
			Unit:          g.Unit,
			TotalQuantity: g.TotalQuantity.InexactFloat64(),
			MinimumStock:  g.MinimumStock.InexactFloat64(),
			LowStock:      g.IsLowStock,
		})
		if g.IsLowStock {
			snap.LowStockProducts = append(snap.LowStockProducts, g.Product)
		}
	}
	sort.Strings(snap.LowStockProducts)

	return snap
}

func (r *Reporter) aggregator(minimums []models.MinimumThreshold) Aggregator {
	keys := r.Keys()
	overrides := make(map[string]decimal.Decimal, len(minimums))
	for _, m := range minimums {
		overrides[keys.Product(m.Product)] = m.MinimumStock
	}
	return Aggregator{Keys: keys, Minimums: overrides, Logger: r.logger}
}

func (r *Reporter) classify(groups []Group) {
	now := r.now()
	for i := range groups {
		groups[i].Expiry = Classify(groups[i].ExpirationDate, now, r.opts.Thresholds)
	}
}
