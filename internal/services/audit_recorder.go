package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/skillmart/backend/domain"
	"github.com/skillmart/backend/internal/infrastructure/buffer"
	"github.com/skillmart/backend/repository"
)

// ConnectionHealth abstracts the connection monitor functionality.
type ConnectionHealth interface {
	IsOnline() bool
}

// RecorderConfig controls queueing, spill replay and retention.
type RecorderConfig struct {
	QueueSize     int
	WriteTimeout  time.Duration
	SyncInterval  time.Duration
	BatchSize     int
	MaxRetries    int
	RetentionDays int
}

// AuditRecorder is the audit log sink. Record never blocks the caller and
// never reports failure upward: entries flow through a bounded queue to an
// async writer; writes that fail are spilled to the Bolt buffer and replayed
// once Postgres is reachable again. A full queue drops the entry with an
// operational log line. The one guarantee traded away is durability of the
// trail under sustained outage; the decision being described is never
// delayed or failed by this path.
type AuditRecorder struct {
	repo    repository.AuditRepository
	spill   *buffer.Store
	monitor ConnectionHealth
	logger  *zap.Logger
	cfg     RecorderConfig

	entries chan domain.AuditLogEntry
	stopCh  chan struct{}
	wg      sync.WaitGroup
	cron    *cron.Cron
}

func NewAuditRecorder(
	repo repository.AuditRepository,
	spill *buffer.Store,
	monitor ConnectionHealth,
	logger *zap.Logger,
	cfg RecorderConfig,
) *AuditRecorder {
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = 1000
	}
	if cfg.WriteTimeout <= 0 {
		cfg.WriteTimeout = 5 * time.Second
	}
	if cfg.SyncInterval <= 0 {
		cfg.SyncInterval = 30 * time.Second
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 50
	}
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = 3
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	r := &AuditRecorder{
		repo:    repo,
		spill:   spill,
		monitor: monitor,
		logger:  logger,
		cfg:     cfg,
		entries: make(chan domain.AuditLogEntry, cfg.QueueSize),
		stopCh:  make(chan struct{}),
		cron:    cron.New(cron.WithSeconds()),
	}

	schedule := fmt.Sprintf("@every %ds", int(cfg.SyncInterval.Seconds()))
	_, _ = r.cron.AddFunc(schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), cfg.SyncInterval)
		defer cancel()
		if err := r.Drain(ctx); err != nil {
			r.logger.Error("audit spill drain failed", zap.Error(err))
		}
	})

	if cfg.RetentionDays > 0 {
		_, _ = r.cron.AddFunc("0 0 3 * * *", r.retentionSweep)
	}

	return r
}

// Start launches the async writer and the replay scheduler.
func (r *AuditRecorder) Start() {
	if r == nil {
		return
	}
	r.wg.Add(1)
	go r.writer()
	r.cron.Start()
	r.logger.Info("audit recorder started")
}

// Stop flushes queued entries and stops the scheduler.
func (r *AuditRecorder) Stop(ctx context.Context) {
	if r == nil {
		return
	}
	close(r.stopCh)

	done := make(chan struct{})
	go func() {
		r.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-ctx.Done():
	}

	stopCtx := r.cron.Stop()
	select {
	case <-stopCtx.Done():
	case <-ctx.Done():
	}
	r.logger.Info("audit recorder stopped")
}

// Record enqueues an audit entry. It returns immediately and never raises
// back to the caller.
func (r *AuditRecorder) Record(entry domain.AuditLogEntry) {
	if r == nil {
		return
	}
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}
	if entry.CreatedBy == "" {
		entry.CreatedBy = entry.UserID
	}

	select {
	case r.entries <- entry:
	default:
		r.logger.Warn("audit queue full, dropping entry",
			zap.String("action", string(entry.Action)),
			zap.String("route", entry.Route))
	}
}

func (r *AuditRecorder) writer() {
	defer r.wg.Done()

	for {
		select {
		case <-r.stopCh:
			for {
				select {
				case entry := <-r.entries:
					r.persist(entry)
				default:
					return
				}
			}
		case entry := <-r.entries:
			r.persist(entry)
		}
	}
}

// persist attempts one write; failure spills the entry instead of surfacing.
func (r *AuditRecorder) persist(entry domain.AuditLogEntry) {
	ctx, cancel := context.WithTimeout(context.Background(), r.cfg.WriteTimeout)
	defer cancel()

	if err := r.repo.Append(ctx, &entry); err == nil {
		return
	} else {
		r.logger.Warn("audit write failed, spilling",
			zap.String("entry_id", entry.ID),
			zap.Error(err))
	}

	if r.spill == nil {
		r.logger.Error("audit entry lost (no spill buffer)", zap.String("entry_id", entry.ID))
		return
	}
	if err := r.spill.Enqueue(buffer.Item{ID: entry.ID, Entry: entry}); err != nil {
		r.logger.Error("audit entry lost (spill failed)",
			zap.String("entry_id", entry.ID),
			zap.Error(err))
	}
}

// Drain replays spilled entries once storage is reachable.
func (r *AuditRecorder) Drain(ctx context.Context) error {
	if r == nil || r.spill == nil {
		return nil
	}
	if r.monitor != nil && !r.monitor.IsOnline() {
		r.logger.Debug("skipping audit spill drain (offline)")
		return nil
	}

	items, err := r.spill.GetBatch(r.cfg.BatchSize)
	if err != nil {
		return err
	}

	for _, item := range items {
		if err := r.repo.Append(ctx, &item.Entry); err != nil {
			r.logger.Error("failed to replay audit entry",
				zap.String("item_id", item.ID),
				zap.Error(err))

			item.Retries++
			if item.Retries >= r.cfg.MaxRetries {
				r.logger.Warn("dropping audit entry (max retries reached)", zap.String("item_id", item.ID))
				_ = r.spill.Remove(item)
				continue
			}

			if err := r.spill.Remove(item); err != nil {
				r.logger.Warn("failed to remove spilled entry", zap.Error(err))
			}
			if err := r.spill.Requeue(item); err != nil {
				r.logger.Error("failed to requeue spilled entry", zap.Error(err))
			}
			continue
		}

		if err := r.spill.Remove(item); err != nil {
			r.logger.Warn("failed to purge replayed entry", zap.Error(err))
		}
	}
	return nil
}

// retentionSweep soft-deletes entries past the retention window.
func (r *AuditRecorder) retentionSweep() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	cutoff := time.Now().UTC().AddDate(0, 0, -r.cfg.RetentionDays)
	count, err := r.repo.SoftDeleteOlderThan(ctx, cutoff)
	if err != nil {
		r.logger.Error("audit retention sweep failed", zap.Error(err))
		return
	}
	if count > 0 {
		r.logger.Info("audit retention sweep", zap.Int64("soft_deleted", count))
	}
}

// Size returns the number of spilled entries awaiting replay.
func (r *AuditRecorder) Size() int {
	if r == nil || r.spill == nil {
		return 0
	}
	size, err := r.spill.Size()
	if err != nil {
		return 0
	}
	return size
}
