// Package memory is an in-process keyed Store used for local runs and tests.
package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/estoque-lab/estoque/internal/domain/models"
	"github.com/estoque-lab/estoque/internal/repository"
)

// Store keeps records in maps keyed by id; order slices preserve insertion order.
type Store struct {
	mu sync.RWMutex

	stock      map[string]models.StockRecord
	stockOrder []string

	locations     map[string]models.LocationRecord
	locationOrder []string

	logs     []models.LogEntry
	minimums map[string]decimal.Decimal
	minOrder []string
}

var _ repository.Store = (*Store)(nil)

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{
		stock:     make(map[string]models.StockRecord),
		locations: make(map[string]models.LocationRecord),
		minimums:  make(map[string]decimal.Decimal),
	}
}

func (s *Store) ListStock(_ context.Context) ([]models.StockRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.StockRecord, 0, len(s.stockOrder))
	for _, id := range s.stockOrder {
		out = append(out, s.stock[id].Clone())
	}
	return out, nil
}

func (s *Store) GetStock(_ context.Context, id string) (models.StockRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.stock[id]
	if !ok {
		return models.StockRecord{}, fmt.Errorf("%w: stock record %s", models.ErrNotFound, id)
	}
	return rec.Clone(), nil
}

func (s *Store) CreateStock(_ context.Context, rec models.StockRecord) (models.StockRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if rec.ID == "" {
		rec.ID = repository.NextStockID(s.stockOrder)
	}
	if _, exists := s.stock[rec.ID]; exists {
		return models.StockRecord{}, fmt.Errorf("%w: stock id %s already exists", models.ErrValidation, rec.ID)
	}
	s.stock[rec.ID] = rec.Clone()
	s.stockOrder = append(s.stockOrder, rec.ID)
	return rec.Clone(), nil
}

func (s *Store) UpdateStock(_ context.Context, rec models.StockRecord) (models.StockRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.stock[rec.ID]; !ok {
		return models.StockRecord{}, fmt.Errorf("%w: stock record %s", models.ErrNotFound, rec.ID)
	}
	s.stock[rec.ID] = rec.Clone()
	return rec.Clone(), nil
}

func (s *Store) DeleteStock(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.stock[id]; !ok {
		return fmt.Errorf("%w: stock record %s", models.ErrNotFound, id)
	}
	delete(s.stock, id)
	s.stockOrder = without(s.stockOrder, id)
	return nil
}

func (s *Store) ListLocations(_ context.Context) ([]models.LocationRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.LocationRecord, 0, len(s.locationOrder))
	for _, id := range s.locationOrder {
		out = append(out, s.locations[id])
	}
	return out, nil
}

func (s *Store) GetLocation(_ context.Context, id string) (models.LocationRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	loc, ok := s.locations[id]
	if !ok {
		return models.LocationRecord{}, fmt.Errorf("%w: location %s", models.ErrNotFound, id)
	}
	return loc, nil
}

func (s *Store) CreateLocation(_ context.Context, loc models.LocationRecord) (models.LocationRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if loc.ID == "" {
		loc.ID = repository.NextLocationID(s.locationOrder)
	}
	if _, exists := s.locations[loc.ID]; exists {
		return models.LocationRecord{}, fmt.Errorf("%w: location id %s already exists", models.ErrValidation, loc.ID)
	}
	s.locations[loc.ID] = loc
	s.locationOrder = append(s.locationOrder, loc.ID)
	return loc, nil
}

func (s *Store) UpdateLocation(_ context.Context, loc models.LocationRecord) (models.LocationRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.locations[loc.ID]; !ok {
		return models.LocationRecord{}, fmt.Errorf("%w: location %s", models.ErrNotFound, loc.ID)
	}
	s.locations[loc.ID] = loc
	return loc, nil
}

func (s *Store) DeleteLocation(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.locations[id]; !ok {
		return fmt.Errorf("%w: location %s", models.ErrNotFound, id)
	}
	delete(s.locations, id)
	s.locationOrder = without(s.locationOrder, id)
	return nil
}

func (s *Store) AppendLog(_ context.Context, entry models.LogEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.logs = append(s.logs, entry)
	return nil
}

func (s *Store) ListLogs(_ context.Context) ([]models.LogEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.LogEntry, len(s.logs))
	copy(out, s.logs)
	return out, nil
}

func (s *Store) ListMinimums(_ context.Context) ([]models.MinimumThreshold, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.MinimumThreshold, 0, len(s.minOrder))
	for _, product := range s.minOrder {
		out = append(out, models.MinimumThreshold{Product: product, MinimumStock: s.minimums[product]})
	}
	return out, nil
}

func (s *Store) SetMinimum(_ context.Context, product string, minimum decimal.Decimal) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.minimums[product]; !ok {
		s.minOrder = append(s.minOrder, product)
	}
	s.minimums[product] = minimum
	return nil
}

func without(ids []string, id string) []string {
	out := ids[:0]
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}
