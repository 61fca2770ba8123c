package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Cron runs a job on a cron schedule until the context ends. Runs never
// overlap; a tick that fires while the previous run is still going is skipped.
type Cron struct {
	Spec     string
	Location *time.Location
	Log      *zap.Logger
}

func (c Cron) Run(ctx context.Context, job func(context.Context)) error {
	log := c.Log
	if log == nil {
		log = zap.NewNop()
	}
	loc := c.Location
	if loc == nil {
		loc = time.Local
	}
	cl := cronLogger{log: log.Named("cron")}
	cr := cron.New(
		cron.WithLocation(loc),
		cron.WithLogger(cl),
		cron.WithChain(cron.SkipIfStillRunning(cl)),
	)
	id, err := cr.AddFunc(c.Spec, func() { job(ctx) })
	if err != nil {
		return fmt.Errorf("invalid cron spec %q: %w", c.Spec, err)
	}
	cr.Start()
	log.Info("watching", zap.String("spec", c.Spec), zap.Time("next", cr.Entry(id).Next))

	<-ctx.Done()
	<-cr.Stop().Done()
	return ctx.Err()
}

type cronLogger struct {
	log *zap.Logger
}

func (l cronLogger) fields(keysAndValues []any) []zap.Field {
	fields := make([]zap.Field, 0, len(keysAndValues)/2)
	for i := 0; i+1 < len(keysAndValues); i += 2 {
		fields = append(fields, zap.Any(fmt.Sprint(keysAndValues[i]), keysAndValues[i+1]))
	}
	return fields
}

func (l cronLogger) Info(msg string, keysAndValues ...any) {
	l.log.Debug(msg, l.fields(keysAndValues)...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...any) {
	l.log.Error(msg, append(l.fields(keysAndValues), zap.Error(err))...)
}
