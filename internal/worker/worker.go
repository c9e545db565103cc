// Package worker runs the background jobs of the stock ledger: relaying
// outbox events and verifying the materialized stock against the ledger.
package worker

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"github.com/MagetoJ/XYZ-Hotel-sub000/internal/domain/registers/stock"
	"github.com/MagetoJ/XYZ-Hotel-sub000/internal/infrastructure/cache"
	"github.com/MagetoJ/XYZ-Hotel-sub000/pkg/logger"
)

// EventSource hands pending stock events to handle and marks them published.
type EventSource interface {
	Drain(ctx context.Context, handle func(ctx context.Context, e stock.Event) error) (int, error)
}

// EventHandler consumes one relayed event.
type EventHandler func(ctx context.Context, e stock.Event) error

// Locker runs fn only while holding a shared lock.
type Locker interface {
	WithLock(ctx context.Context, fn func(ctx context.Context) error) (bool, error)
}

// Config tunes the job schedule.
type Config struct {
	OutboxInterval time.Duration
	VerifyInterval time.Duration
	// RepairDrift rebuilds drifted items instead of only reporting them.
	RepairDrift bool
}

// Worker owns the background jobs.
type Worker struct {
	cfg     Config
	events  EventSource
	stock   *stock.Service
	handler EventHandler
	locks   func(job string) Locker
	log     *logger.Logger
}

// Option configures a Worker.
type Option func(*Worker)

// WithEventHandler replaces the default handler, which logs each event.
func WithEventHandler(h EventHandler) Option {
	return func(w *Worker) { w.handler = h }
}

// WithRedisLocks makes every job run on one replica at a time.
func WithRedisLocks(client *redis.Client) Option {
	return func(w *Worker) {
		w.locks = func(job string) Locker {
			ttl := 2 * w.interval(job)
			return cache.NewLock(client, "worker:"+job, ttl)
		}
	}
}

// New creates a worker. events may be nil when no outbox is available.
func New(cfg Config, events EventSource, stockSvc *stock.Service, log *logger.Logger, opts ...Option) *Worker {
	if log == nil {
		log = logger.Default()
	}
	w := &Worker{
		cfg:    cfg,
		events: events,
		stock:  stockSvc,
		log:    log.WithComponent("worker"),
	}
	w.handler = w.logEvent
	for _, opt := range opts {
		opt(w)
	}
	return w
}

const (
	jobOutbox = "outbox"
	jobVerify = "verify"
)

func (w *Worker) interval(job string) time.Duration {
	if job == jobOutbox {
		return w.cfg.OutboxInterval
	}
	return w.cfg.VerifyInterval
}

// Run starts every job and blocks until ctx is cancelled.
func (w *Worker) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)
	if w.events != nil {
		g.Go(func() error {
			w.loop(ctx, jobOutbox, func(ctx context.Context) error {
				_, err := w.RelayOnce(ctx)
				return err
			})
			return nil
		})
	}
	g.Go(func() error {
		w.loop(ctx, jobVerify, func(ctx context.Context) error {
			_, err := w.VerifyOnce(ctx)
			return err
		})
		return nil
	})
	return g.Wait()
}

// loop runs fn immediately and then on every tick. Job errors are logged
// and the loop keeps going.
func (w *Worker) loop(ctx context.Context, job string, fn func(ctx context.Context) error) {
	ticker := time.NewTicker(w.interval(job))
	defer ticker.Stop()

	log := w.log.With("job", job)
	log.Infow("job started", "interval", w.interval(job).String())

	for {
		if err := w.runJob(ctx, job, fn); err != nil && ctx.Err() == nil {
			log.Errorw("job failed", "error", err)
		}

		select {
		case <-ctx.Done():
			log.Infow("job stopped")
			return
		case <-ticker.C:
		}
	}
}

func (w *Worker) runJob(ctx context.Context, job string, fn func(ctx context.Context) error) error {
	if w.locks == nil {
		return fn(ctx)
	}
	ran, err := w.locks(job).WithLock(ctx, fn)
	if err == nil && !ran {
		w.log.Debugw("job skipped, lock held elsewhere", "job", job)
	}
	return err
}

// RelayOnce drains pending outbox events through the handler.
func (w *Worker) RelayOnce(ctx context.Context) (int, error) {
	n, err := w.events.Drain(ctx, w.handler)
	if n > 0 {
		w.log.Debugw("relayed outbox events", "count", n)
	}
	return n, err
}

// Report summarizes one verification pass.
type Report struct {
	Drifted  []stock.Verification
	Repaired int
}

// VerifyOnce checks every item against its ledger and, with RepairDrift,
// rebuilds the drifted ones.
func (w *Worker) VerifyOnce(ctx context.Context) (*Report, error) {
	drift, err := w.stock.VerifyAll(ctx)
	if err != nil {
		return nil, err
	}

	report := &Report{Drifted: drift}
	for _, v := range drift {
		w.log.Warnw("stock projection drifted",
			"item_id", v.ItemID,
			"materialized", v.Materialized.String(),
			"ledger_sum", v.LedgerSum.String(),
		)
		if !w.cfg.RepairDrift {
			continue
		}
		if _, err := w.stock.Rebuild(ctx, v.ItemID); err != nil {
			w.log.Errorw("rebuild failed", "item_id", v.ItemID, "error", err)
			continue
		}
		report.Repaired++
	}
	return report, nil
}

func (w *Worker) logEvent(ctx context.Context, e stock.Event) error {
	if e.Type == stock.EventLowStock {
		w.log.Warnw("low stock",
			"item_id", e.ItemID,
			"name", e.Payload["name"],
			"current_stock", e.Payload["current_stock"],
			"minimum_stock", e.Payload["minimum_stock"],
		)
		return nil
	}
	w.log.Infow("stock event", "type", e.Type, "item_id", e.ItemID)
	return nil
}
