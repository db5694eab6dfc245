package inventory

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/estoque-lab/estoque/internal/domain/models"
)

// TransferResult reports both sides of a completed transfer.
type TransferResult struct {
	Source      models.StockRecord `json:"source"`
	Destination models.StockRecord `json:"destination"`
	// Merged is set when the package joined an existing record at the destination.
	Merged bool `json:"merged"`
}

// Transfer moves one package's worth of quantity from the record id to the
// destination location.
//
// The destination is written before the source. When the source update fails
// the destination write is compensated: a created record is deleted and a
// merged record is restored to its previous state. A failed audit log append
// is returned but the stock changes stand.
func (s *Service) Transfer(ctx context.Context, id, destination string) (res TransferResult, err error) {
	destination = strings.TrimSpace(destination)
	if destination == "" {
		return TransferResult{}, validationError("missing required fields: destination")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	defer s.finish(ctx, "transfer_stock", &err)

	source, err := s.store.GetStock(ctx, id)
	if err != nil {
		return TransferResult{}, err
	}
	if source.PackagingNumber <= 1 {
		return TransferResult{}, fmt.Errorf("%w: %s holds a single package and cannot be split",
			models.ErrInvalidOperation, source.Label())
	}

	locations, err := s.store.ListLocations(ctx)
	if err != nil {
		return TransferResult{}, fmt.Errorf("transfer %s: %w", id, err)
	}
	dest, ok := findLocation(locations, destination)
	if !ok {
		return TransferResult{}, fmt.Errorf("%w: location %s", models.ErrNotFound, destination)
	}
	if current, found := findLocation(locations, source.Location); (found && current.ID == dest.ID) || source.Location == dest.ID {
		return TransferResult{}, fmt.Errorf("%w: %s is already at %s",
			models.ErrInvalidOperation, source.Label(), dest.Label())
	}

	// Computed before the source is decremented.
	perPackage := source.Quantity.Div(decimal.NewFromInt(int64(source.PackagingNumber)))

	stock, err := s.store.ListStock(ctx)
	if err != nil {
		return TransferResult{}, fmt.Errorf("transfer %s: %w", id, err)
	}

	var (
		placed     models.StockRecord
		compensate func(context.Context) error
	)
	if existing, found := s.matchAt(stock, locations, source, dest); found {
		before := existing.Clone()
		existing.PackagingNumber++
		existing.Quantity = existing.Quantity.Add(perPackage)
		if existing.Quantity.IsPositive() {
			existing.Status = models.StatusAvailable
		}
		placed, err = s.store.UpdateStock(ctx, existing)
		if err != nil {
			return TransferResult{}, fmt.Errorf("transfer %s: merge into %s: %w", id, existing.ID, err)
		}
		res.Merged = true
		compensate = func(ctx context.Context) error {
			_, err := s.store.UpdateStock(ctx, before)
			return err
		}
	} else {
		fresh := source.Clone()
		fresh.ID = ""
		fresh.PackagingNumber = 1
		fresh.Quantity = perPackage
		fresh.Location = dest.ID
		fresh.Status = models.StatusAvailable
		fresh.Settle()
		placed, err = s.store.CreateStock(ctx, fresh)
		if err != nil {
			return TransferResult{}, fmt.Errorf("transfer %s: create at %s: %w", id, dest.ID, err)
		}
		compensate = func(ctx context.Context) error {
			return s.store.DeleteStock(ctx, placed.ID)
		}
	}

	source.PackagingNumber--
	source.Quantity = source.Quantity.Sub(perPackage)
	if source.PackagingNumber <= 0 {
		source.Status = models.StatusUnavailable
	}
	source.Settle()

	updated, err := s.store.UpdateStock(ctx, source)
	if err != nil {
		err = fmt.Errorf("transfer %s: update source: %w", id, err)
		if cerr := compensate(ctx); cerr != nil {
			s.logger.Error("transfer compensation failed",
				zap.String("source", id),
				zap.String("destination", placed.ID),
				zap.Error(cerr),
			)
			return TransferResult{}, errors.Join(err, fmt.Errorf("compensate destination %s: %w", placed.ID, cerr))
		}
		return TransferResult{}, err
	}

	res.Source = updated
	res.Destination = placed

	details := fmt.Sprintf("%s -> %s", updated.Label(), dest.Label())
	return res, s.appendLog(ctx, models.ActionTransferProduct, details)
}

// matchAt finds the record holding the same product lot at dest.
func (s *Service) matchAt(stock []models.StockRecord, locations []models.LocationRecord, source models.StockRecord, dest models.LocationRecord) (models.StockRecord, bool) {
	keys := s.reporter.Keys()
	want := keys.Placement(source.Product, source.Batch, dest.ID)
	for _, rec := range stock {
		if rec.ID == source.ID {
			continue
		}
		loc, ok := findLocation(locations, rec.Location)
		if !ok {
			continue
		}
		if keys.Placement(rec.Product, rec.Batch, loc.ID) == want {
			return rec, true
		}
	}
	return models.StockRecord{}, false
}
