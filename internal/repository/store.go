// Package repository defines the persistence contract of the inventory.
// Records are addressed by stable id only.
package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/estoque-lab/estoque/internal/domain/models"
)

// Store is the source of truth for stock, locations, audit logs and
// per-product minimum thresholds.
type Store interface {
	ListStock(ctx context.Context) ([]models.StockRecord, error)
	GetStock(ctx context.Context, id string) (models.StockRecord, error)
	CreateStock(ctx context.Context, rec models.StockRecord) (models.StockRecord, error)
	UpdateStock(ctx context.Context, rec models.StockRecord) (models.StockRecord, error)
	DeleteStock(ctx context.Context, id string) error

	ListLocations(ctx context.Context) ([]models.LocationRecord, error)
	GetLocation(ctx context.Context, id string) (models.LocationRecord, error)
	CreateLocation(ctx context.Context, loc models.LocationRecord) (models.LocationRecord, error)
	UpdateLocation(ctx context.Context, loc models.LocationRecord) (models.LocationRecord, error)
	DeleteLocation(ctx context.Context, id string) error

	AppendLog(ctx context.Context, entry models.LogEntry) error
	ListLogs(ctx context.Context) ([]models.LogEntry, error)

	ListMinimums(ctx context.Context) ([]models.MinimumThreshold, error)
	SetMinimum(ctx context.Context, product string, minimum decimal.Decimal) error
}
