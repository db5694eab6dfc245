package inventory

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/estoque-lab/estoque/internal/domain/models"
)

// CreateStock validates and persists a new record.
func (s *Service) CreateStock(ctx context.Context, rec models.StockRecord) (created models.StockRecord, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err = s.prepareStock(ctx, &rec); err != nil {
		return models.StockRecord{}, err
	}
	defer s.finish(ctx, "create_stock", &err)

	rec.ID = ""
	created, err = s.store.CreateStock(ctx, rec)
	if err != nil {
		return models.StockRecord{}, fmt.Errorf("create stock: %w", err)
	}
	return created, s.appendLog(ctx, models.ActionAddProduct, created.Label())
}

// UpdateStock replaces every field of the record with the given id.
func (s *Service) UpdateStock(ctx context.Context, id string, rec models.StockRecord) (updated models.StockRecord, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err = s.prepareStock(ctx, &rec); err != nil {
		return models.StockRecord{}, err
	}
	defer s.finish(ctx, "update_stock", &err)

	if _, err = s.store.GetStock(ctx, id); err != nil {
		return models.StockRecord{}, err
	}

	rec.ID = id
	updated, err = s.store.UpdateStock(ctx, rec)
	if err != nil {
		return models.StockRecord{}, fmt.Errorf("update stock %s: %w", id, err)
	}
	return updated, s.appendLog(ctx, models.ActionEditProduct, updated.Label())
}

// DeleteStock removes the record with the given id.
func (s *Service) DeleteStock(ctx context.Context, id string) (err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	defer s.finish(ctx, "delete_stock", &err)

	rec, err := s.store.GetStock(ctx, id)
	if err != nil {
		return err
	}
	if err = s.store.DeleteStock(ctx, id); err != nil {
		return fmt.Errorf("delete stock %s: %w", id, err)
	}
	return s.appendLog(ctx, models.ActionDeleteProduct, rec.Label())
}

// Use draws quantity from a record. The balance is clamped at zero and the
// record becomes unavailable once exhausted.
func (s *Service) Use(ctx context.Context, id string, quantity decimal.Decimal) (rec models.StockRecord, err error) {
	if !quantity.IsPositive() {
		return models.StockRecord{}, fmt.Errorf("%w: quantity to use must be positive, got %s", models.ErrInvalidQuantity, quantity)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	defer s.finish(ctx, "use_stock", &err)

	rec, err = s.store.GetStock(ctx, id)
	if err != nil {
		return models.StockRecord{}, err
	}
	if quantity.GreaterThan(rec.Quantity) {
		return models.StockRecord{}, fmt.Errorf("%w: requested %s %s but %s holds %s",
			models.ErrInsufficientStock, quantity, rec.Unit, rec.Label(), rec.Quantity)
	}

	rec.Quantity = rec.Quantity.Sub(quantity)
	rec.Settle()

	rec, err = s.store.UpdateStock(ctx, rec)
	if err != nil {
		return models.StockRecord{}, fmt.Errorf("use stock %s: %w", id, err)
	}
	details := fmt.Sprintf("%s - %s %s", rec.Label(), quantity, rec.Unit)
	return rec, s.appendLog(ctx, models.ActionUseProduct, details)
}

// Exhaust zeroes a record. The caller must confirm the request.
func (s *Service) Exhaust(ctx context.Context, id string, confirm bool) (rec models.StockRecord, err error) {
	if !confirm {
		return models.StockRecord{}, fmt.Errorf("%w: exhausting %s", models.ErrConfirmationRequired, id)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	defer s.finish(ctx, "exhaust_stock", &err)

	rec, err = s.store.GetStock(ctx, id)
	if err != nil {
		return models.StockRecord{}, err
	}

	rec.Quantity = decimal.Zero
	rec.Status = models.StatusUnavailable

	rec, err = s.store.UpdateStock(ctx, rec)
	if err != nil {
		return models.StockRecord{}, fmt.Errorf("exhaust stock %s: %w", id, err)
	}
	return rec, s.appendLog(ctx, models.ActionExhaustProduct, rec.Label())
}

// prepareStock trims and validates rec in place and resolves its location to
// the location id.
func (s *Service) prepareStock(ctx context.Context, rec *models.StockRecord) error {
	rec.Product = strings.TrimSpace(rec.Product)
	rec.Manufacturer = strings.TrimSpace(rec.Manufacturer)
	rec.Batch = strings.TrimSpace(rec.Batch)
	rec.Unit = strings.TrimSpace(rec.Unit)
	rec.Packaging = strings.TrimSpace(rec.Packaging)
	rec.Invoice = strings.TrimSpace(rec.Invoice)
	rec.Location = strings.TrimSpace(rec.Location)
	rec.Status = models.StockStatus(strings.TrimSpace(string(rec.Status)))

	if err := missingFields(map[string]string{
		"product":  rec.Product,
		"batch":    rec.Batch,
		"unit":     rec.Unit,
		"location": rec.Location,
		"status":   string(rec.Status),
	}, "product", "batch", "unit", "location", "status"); err != nil {
		return err
	}

	switch {
	case !rec.Status.Valid():
		return validationError("status %q is not one of %s, %s", rec.Status, models.StatusAvailable, models.StatusUnavailable)
	case rec.Quantity.IsNegative():
		return validationError("quantity must not be negative")
	case rec.MinimumStock.IsNegative():
		return validationError("minimumStock must not be negative")
	case rec.PackagingNumber < 0:
		return validationError("packagingNumber must be at least 1")
	}
	if rec.PackagingNumber == 0 {
		rec.PackagingNumber = 1
	}

	snap, err := s.cache.Get(ctx)
	if err != nil {
		return err
	}
	loc, ok := findLocation(snap.Locations, rec.Location)
	if !ok {
		return validationError("location %q does not exist", rec.Location)
	}
	rec.Location = loc.ID

	rec.Settle()
	return nil
}

// findLocation resolves ref by id first, then by display label.
func findLocation(locations []models.LocationRecord, ref string) (models.LocationRecord, bool) {
	for _, loc := range locations {
		if loc.ID == ref {
			return loc, true
		}
	}
	for _, loc := range locations {
		if loc.Label() == ref {
			return loc, true
		}
	}
	return models.LocationRecord{}, false
}
