package inventory

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/estoque-lab/estoque/internal/domain/models"
	"github.com/estoque-lab/estoque/internal/repository"
	"github.com/estoque-lab/estoque/internal/service/reporting"
)

// DefaultLogLimit is the number of audit entries returned for display.
const DefaultLogLimit = 50

// Options tunes the service.
type Options struct {
	CacheTTL time.Duration
	LogLimit int
	Recorder Recorder
	// Clock overrides time.Now for log timestamps and cache staleness.
	Clock func() time.Time
	// NewLogID overrides the log id generator.
	NewLogID func() string
}

// Service owns every read and mutation of the inventory.
type Service struct {
	store    repository.Store
	cache    *Cache
	reporter *reporting.Reporter
	logger   *zap.Logger
	recorder Recorder
	now      func() time.Time
	newLogID func() string
	logLimit int

	// mu serializes mutations within this process.
	mu sync.Mutex
}

// NewService wires the inventory service.
func NewService(store repository.Store, reporter *reporting.Reporter, opts Options, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if reporter == nil {
		reporter = reporting.NewReporter(reporting.Options{}, logger)
	}

	s := &Service{
		store:    store,
		reporter: reporter,
		logger:   logger,
		recorder: opts.Recorder,
		now:      opts.Clock,
		newLogID: opts.NewLogID,
		logLimit: opts.LogLimit,
	}
	if s.recorder == nil {
		s.recorder = nopRecorder{}
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.newLogID == nil {
		s.newLogID = func() string { return "log_" + uuid.NewString() }
	}
	if s.logLimit <= 0 {
		s.logLimit = DefaultLogLimit
	}

	s.cache = NewCache(store, opts.CacheTTL, logger)
	s.cache.now = s.now
	s.cache.recorder = s.recorder
	s.cache.onLoad = s.observe
	return s
}

// Cache exposes the snapshot cache.
func (s *Service) Cache() *Cache {
	return s.cache
}

// Reporter exposes the read-path configuration.
func (s *Service) Reporter() *reporting.Reporter {
	return s.reporter
}

// Refresh forces a reload of the snapshot.
func (s *Service) Refresh(ctx context.Context) (Snapshot, error) {
	return s.cache.Refresh(ctx)
}

// Records returns the raw stock records.
func (s *Service) Records(ctx context.Context) ([]models.StockRecord, error) {
	snap, err := s.cache.Get(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]models.StockRecord, 0, len(snap.Stock))
	for _, rec := range snap.Stock {
		out = append(out, rec.Clone())
	}
	return out, nil
}

// Stock returns one page of the grouped, filtered stock view.
func (s *Service) Stock(ctx context.Context, q reporting.Query) (reporting.Page[reporting.Group], error) {
	snap, err := s.cache.Get(ctx)
	if err != nil {
		return reporting.Page[reporting.Group]{}, err
	}
	return s.reporter.StockView(snap.Stock, snap.Minimums, q), nil
}

// Groups returns the full grouped view, unpaginated.
func (s *Service) Groups(ctx context.Context, f reporting.Filter) ([]reporting.Group, error) {
	snap, err := s.cache.Get(ctx)
	if err != nil {
		return nil, err
	}
	return s.reporter.Groups(snap.Stock, snap.Minimums, f), nil
}

// Totals returns per-product totals.
func (s *Service) Totals(ctx context.Context) ([]reporting.Group, error) {
	snap, err := s.cache.Get(ctx)
	if err != nil {
		return nil, err
	}
	return s.reporter.Totals(snap.Stock, snap.Minimums), nil
}

// Expiring summarizes the records close to expiry.
func (s *Service) Expiring(ctx context.Context) (reporting.ExpiringSummary, error) {
	snap, err := s.cache.Get(ctx)
	if err != nil {
		return reporting.ExpiringSummary{}, err
	}
	return s.reporter.Expiring(snap.Stock), nil
}

// Snapshot builds the archived daily summary from the current cache.
func (s *Service) Snapshot(ctx context.Context) (models.InventorySnapshot, error) {
	snap, err := s.cache.Get(ctx)
	if err != nil {
		return models.InventorySnapshot{}, err
	}
	return s.reporter.Snapshot(snap.Stock, len(snap.Locations), snap.Minimums), nil
}

// finish records the outcome of a mutation and rebuilds the cache from the
// store whatever the outcome was.
func (s *Service) finish(ctx context.Context, op string, err *error) {
	s.recorder.Operation(op, *err)
	if *err != nil {
		s.logger.Warn("inventory operation failed", zap.String("operation", op), zap.Error(*err))
	}

	s.cache.Invalidate()
	if _, rerr := s.cache.Refresh(ctx); rerr != nil {
		s.logger.Warn("cache left stale after mutation", zap.String("operation", op), zap.Error(rerr))
	}
}

func (s *Service) appendLog(ctx context.Context, action, details string) error {
	entry := models.LogEntry{
		ID:        s.newLogID(),
		Action:    action,
		Details:   details,
		Timestamp: s.now().UTC(),
	}
	if err := s.store.AppendLog(ctx, entry); err != nil {
		return fmt.Errorf("append log %q: %w", action, err)
	}
	return nil
}

func (s *Service) observe(snap Snapshot) {
	low := 0
	for _, g := range s.reporter.Totals(snap.Stock, snap.Minimums) {
		if g.IsLowStock {
			low++
		}
	}
	s.recorder.Inventory(low, s.reporter.Expiring(snap.Stock).Count)
}

func validationError(format string, args ...any) error {
	return fmt.Errorf("%w: %s", models.ErrValidation, fmt.Sprintf(format, args...))
}

func missingFields(fields map[string]string, order ...string) error {
	var missing []string
	for _, name := range order {
		if strings.TrimSpace(fields[name]) == "" {
			missing = append(missing, name)
		}
	}
	if len(missing) == 0 {
		return nil
	}
	return validationError("missing required fields: %s", strings.Join(missing, ", "))
}
