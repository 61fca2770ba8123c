package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/example/icecheck/internal/application/scheduler"
	"github.com/example/icecheck/internal/application/usecases"
	"github.com/example/icecheck/internal/domain/availability"
	"github.com/example/icecheck/internal/domain/facility"
	"github.com/example/icecheck/internal/infrastructure/activenet"
	"github.com/example/icecheck/internal/infrastructure/config"
	"github.com/example/icecheck/internal/infrastructure/logging"
	"github.com/example/icecheck/internal/infrastructure/mail"
	"github.com/example/icecheck/internal/infrastructure/postgres"
	"github.com/example/icecheck/internal/infrastructure/supabase"
	"github.com/jedib0t/go-pretty/v6/table"
	"go.uber.org/zap"
)

// app holds what every command builds from the environment.
type app struct {
	cfg config.Config
	log *zap.Logger
}

func bootstrap() (*app, error) {
	cfg, err := config.FromEnv()
	if err != nil {
		return nil, err
	}
	log, err := logging.New(cfg.Production(), cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	return &app{cfg: cfg, log: log}, nil
}

func (a *app) close() { _ = a.log.Sync() }

// directory prefers a direct Postgres connection and falls back to the
// PostgREST endpoint. The returned func releases the connection pool.
func (a *app) directory(ctx context.Context) (facility.Directory, func(), error) {
	if err := a.cfg.RequireDirectory(); err != nil {
		return nil, nil, err
	}
	if a.cfg.DatabaseURL != "" {
		pool, err := postgres.Open(ctx, a.cfg.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		a.log.Debug("facility directory", zap.String("source", "postgres"))
		return postgres.NewFacilityRepo(pool), pool.Close, nil
	}
	a.log.Debug("facility directory", zap.String("source", "supabase"))
	return supabase.NewFacilityRepo(a.cfg.SupabaseURL, a.cfg.SupabaseKey), func() {}, nil
}

func (a *app) prober() availability.Prober {
	opts := activenet.Options{
		SearchURL:   a.cfg.SearchURL,
		ResourceURL: a.cfg.ResourceURL,
		Timeout:     a.cfg.ProbeTimeout,
	}
	switch a.cfg.ProbeStrategy {
	case "html":
		return activenet.NewHTMLProber(opts, a.log)
	case "browser":
		return activenet.NewBrowserProber(activenet.BrowserOptions{
			SearchURL:  a.cfg.SearchURL,
			ChromePath: a.cfg.ChromePath,
		}, a.log)
	default:
		return activenet.NewAPIProber(opts, a.log)
	}
}

func (a *app) mailer() *mail.Mailer {
	return mail.New(mail.Config{
		Host:     a.cfg.SMTPHost,
		Port:     a.cfg.SMTPPort,
		From:     a.cfg.EmailFrom,
		To:       a.cfg.EmailTo,
		Password: a.cfg.EmailAppPassword,
	}, a.log)
}

func (a *app) service(dir facility.Directory, n usecases.Notifier) usecases.CheckService {
	p := a.prober()
	a.log.Info("prober ready", zap.String("strategy", p.Name()), zap.Int("concurrency", a.cfg.ProbeConcurrency))
	return usecases.CheckService{
		Directory: dir,
		Runner: scheduler.Runner{
			Prober:      p,
			Concurrency: a.cfg.ProbeConcurrency,
			Log:         a.log,
		},
		Notifier:    n,
		Location:    a.cfg.Location,
		HorizonDays: a.cfg.HorizonDays,
		Log:         a.log,
	}
}

// selectPresets resolves names against the configured presets; no names
// means all of them.
func (a *app) selectPresets(names []string) ([]availability.Preset, error) {
	all, err := availability.LoadPresets(a.cfg.PresetsFile)
	if err != nil {
		return nil, err
	}
	if len(names) == 0 {
		return all, nil
	}
	out := make([]availability.Preset, 0, len(names))
	for _, n := range names {
		p, ok := availability.FindPreset(all, n)
		if !ok {
			return nil, fmt.Errorf("unknown preset %q", n)
		}
		out = append(out, p)
	}
	return out, nil
}

func newTable(w io.Writer) table.Writer {
	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.SetOutputMirror(w)
	return t
}
