package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/estoque-lab/estoque/internal/config"
	"github.com/estoque-lab/estoque/internal/domain/models"
	"github.com/estoque-lab/estoque/internal/service/inventory"
)

const jobTimeout = 2 * time.Minute

// Inventory is the part of the inventory service the daily job needs.
type Inventory interface {
	Refresh(ctx context.Context) (inventory.Snapshot, error)
	Snapshot(ctx context.Context) (models.InventorySnapshot, error)
}

// Archive stores daily snapshots.
type Archive interface {
	SaveSnapshot(ctx context.Context, snap models.InventorySnapshot) error
}

// Notifier delivers the stock digest.
type Notifier interface {
	SendDigest(ctx context.Context) (bool, error)
}

// Scheduler runs the daily inventory job.
type Scheduler struct {
	cron     *cron.Cron
	schedule string
	inv      Inventory
	archive  Archive
	notifier Notifier
	logger   *zap.Logger
}

// NewScheduler creates a scheduler on the configured cron schedule and timezone.
// archive and notifier may be nil.
func NewScheduler(cfg config.ReportingConfig, inv Inventory, archive Archive, notifier Notifier, logger *zap.Logger) (*Scheduler, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", cfg.Timezone, err)
	}

	return &Scheduler{
		cron:     cron.New(cron.WithLocation(loc)),
		schedule: cfg.CronSchedule,
		inv:      inv,
		archive:  archive,
		notifier: notifier,
		logger:   logger,
	}, nil
}

// Start registers the daily job and starts the cron loop.
func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc(s.schedule, s.runDaily); err != nil {
		return fmt.Errorf("schedule daily job %q: %w", s.schedule, err)
	}
	s.logger.Info("starting scheduler", zap.String("schedule", s.schedule))
	s.cron.Start()
	return nil
}

// Stop stops the scheduler and waits for a running job.
func (s *Scheduler) Stop() {
	s.logger.Info("stopping scheduler")
	<-s.cron.Stop().Done()
}

func (s *Scheduler) runDaily() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	if err := s.RunOnce(ctx); err != nil {
		s.logger.Error("daily inventory job failed", zap.Error(err))
	}
}

// RunOnce refreshes the cache, archives the snapshot and sends the digest.
// Archive and digest failures are logged so one does not block the other.
func (s *Scheduler) RunOnce(ctx context.Context) error {
	if _, err := s.inv.Refresh(ctx); err != nil {
		return fmt.Errorf("refresh inventory: %w", err)
	}

	if s.archive != nil {
		snap, err := s.inv.Snapshot(ctx)
		if err != nil {
			return fmt.Errorf("build snapshot: %w", err)
		}
		if err := s.archive.SaveSnapshot(ctx, snap); err != nil {
			s.logger.Error("failed to archive inventory snapshot", zap.Error(err))
		} else {
			s.logger.Info("inventory snapshot archived",
				zap.Int("records", snap.Records),
				zap.Int("low_stock", len(snap.LowStockProducts)),
			)
		}
	}

	if s.notifier != nil {
		sent, err := s.notifier.SendDigest(ctx)
		if err != nil {
			s.logger.Error("failed to send stock digest", zap.Error(err))
		} else if sent {
			s.logger.Info("stock digest sent successfully")
		}
	}

	return nil
}
