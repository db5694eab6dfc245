package inventory

import (
	"context"
	"fmt"
	"strings"

	"github.com/estoque-lab/estoque/internal/domain/models"
)

// Locations returns every storage place.
func (s *Service) Locations(ctx context.Context) ([]models.LocationRecord, error) {
	snap, err := s.cache.Get(ctx)
	if err != nil {
		return nil, err
	}
	return append(make([]models.LocationRecord, 0, len(snap.Locations)), snap.Locations...), nil
}

// CreateLocation persists a new storage place.
func (s *Service) CreateLocation(ctx context.Context, loc models.LocationRecord) (created models.LocationRecord, err error) {
	if err = prepareLocation(&loc); err != nil {
		return models.LocationRecord{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	defer s.finish(ctx, "create_location", &err)

	loc.ID = ""
	created, err = s.store.CreateLocation(ctx, loc)
	if err != nil {
		return models.LocationRecord{}, fmt.Errorf("create location: %w", err)
	}
	return created, s.appendLog(ctx, models.ActionAddLocation, created.Label())
}

// UpdateLocation renames the storage place with the given id.
func (s *Service) UpdateLocation(ctx context.Context, id string, loc models.LocationRecord) (updated models.LocationRecord, err error) {
	if err = prepareLocation(&loc); err != nil {
		return models.LocationRecord{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	defer s.finish(ctx, "update_location", &err)

	loc.ID = id
	updated, err = s.store.UpdateLocation(ctx, loc)
	if err != nil {
		return models.LocationRecord{}, fmt.Errorf("update location %s: %w", id, err)
	}
	return updated, s.appendLog(ctx, models.ActionEditLocation, updated.Label())
}

// DeleteLocation removes an empty storage place. Locations still referenced
// by stock records are rejected.
func (s *Service) DeleteLocation(ctx context.Context, id string) (err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	defer s.finish(ctx, "delete_location", &err)

	loc, err := s.store.GetLocation(ctx, id)
	if err != nil {
		return err
	}

	stock, err := s.store.ListStock(ctx)
	if err != nil {
		return fmt.Errorf("delete location %s: %w", id, err)
	}
	held := 0
	for _, rec := range stock {
		if rec.Location == loc.ID || rec.Location == loc.Label() {
			held++
		}
	}
	if held > 0 {
		return fmt.Errorf("%w: %s still holds %d stock records", models.ErrInvalidOperation, loc.Label(), held)
	}

	if err = s.store.DeleteLocation(ctx, id); err != nil {
		return fmt.Errorf("delete location %s: %w", id, err)
	}
	return s.appendLog(ctx, models.ActionDeleteLocation, loc.Label())
}

func prepareLocation(loc *models.LocationRecord) error {
	loc.Room = strings.TrimSpace(loc.Room)
	loc.Cabinet = strings.TrimSpace(loc.Cabinet)
	if loc.Room == "" {
		return validationError("missing required fields: room")
	}
	return nil
}
