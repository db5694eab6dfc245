package inventory

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/estoque-lab/estoque/internal/domain/models"
)

// Logs returns the most recent audit entries, newest first. A limit <= 0
// selects the configured display limit.
func (s *Service) Logs(ctx context.Context, limit int) ([]models.LogEntry, error) {
	entries, err := s.store.ListLogs(ctx)
	if err != nil {
		return nil, fmt.Errorf("list logs: %w", err)
	}
	if limit <= 0 {
		limit = s.logLimit
	}

	out := make([]models.LogEntry, 0, min(limit, len(entries)))
	for i := len(entries) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, entries[i])
	}
	return out, nil
}

// AppendLog records a client-supplied audit entry.
func (s *Service) AppendLog(ctx context.Context, action, details string) (err error) {
	action = strings.TrimSpace(action)
	if action == "" {
		return validationError("missing required fields: action")
	}
	defer func() { s.recorder.Operation("append_log", err) }()
	return s.appendLog(ctx, action, strings.TrimSpace(details))
}

// Minimums returns the global per-product thresholds.
func (s *Service) Minimums(ctx context.Context) ([]models.MinimumThreshold, error) {
	snap, err := s.cache.Get(ctx)
	if err != nil {
		return nil, err
	}
	return append(make([]models.MinimumThreshold, 0, len(snap.Minimums)), snap.Minimums...), nil
}

// SetMinimum sets the global minimum for product. It overrides lower
// per-record minimums in every group of that product.
func (s *Service) SetMinimum(ctx context.Context, product string, minimum decimal.Decimal) (err error) {
	product = strings.TrimSpace(product)
	switch {
	case product == "":
		return validationError("missing required fields: product")
	case minimum.IsNegative():
		return validationError("minimumStock must not be negative")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	defer s.finish(ctx, "set_minimum", &err)

	if err = s.store.SetMinimum(ctx, product, minimum); err != nil {
		return fmt.Errorf("set minimum for %s: %w", product, err)
	}
	return s.appendLog(ctx, models.ActionSetMinimum, fmt.Sprintf("%s: %s", product, minimum))
}
