package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/example/icecheck/internal/domain/availability"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const DefaultConcurrency = 5

// Runner fans a set of windows out over a bounded pool of probes.
type Runner struct {
	Prober      availability.Prober
	Concurrency int
	Log         *zap.Logger
}

// Run probes every window and blocks until all are done. It returns exactly
// one result per window, in completion order; callers sort for display.
func (r Runner) Run(ctx context.Context, windows []availability.Window) []availability.Result {
	limit := r.Concurrency
	if limit <= 0 {
		limit = DefaultConcurrency
	}
	log := r.Log
	if log == nil {
		log = zap.NewNop()
	}

	start := time.Now()
	var (
		mu  sync.Mutex
		out = make([]availability.Result, 0, len(windows))
	)

	var g errgroup.Group
	g.SetLimit(limit)
	for _, w := range windows {
		w := w
		g.Go(func() error {
			res := r.probe(ctx, log, w)
			mu.Lock()
			out = append(out, res)
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	log.Info("all dates checked",
		zap.String("prober", r.Prober.Name()),
		zap.Int("dates", len(windows)),
		zap.Int("workers", limit),
		zap.Duration("elapsed", time.Since(start)))
	return out
}

// probe shields the pool from a misbehaving prober: a panic becomes an
// unavailable result for that date.
func (r Runner) probe(ctx context.Context, log *zap.Logger, w availability.Window) (res availability.Result) {
	defer func() {
		if p := recover(); p != nil {
			log.Error("probe panicked", zap.String("date", w.Date), zap.Any("panic", p))
			res = availability.Result{Date: w.Date}
		}
	}()
	res = r.Prober.Probe(ctx, w)
	res.Date = w.Date
	return res
}
