package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/example/icecheck/internal/domain/facility"
	"github.com/example/icecheck/internal/interfaces/web"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the interactive dashboard",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := bootstrap()
			if err != nil {
				return err
			}
			defer a.close()
			if err := a.cfg.RequireSessionKeys(); err != nil {
				return err
			}
			presets, err := a.selectPresets(nil)
			if err != nil {
				return err
			}

			ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer cancel()

			dir, release, err := a.directory(ctx)
			if err != nil {
				return err
			}
			defer release()

			loadCtx, loadCancel := context.WithTimeout(ctx, 20*time.Second)
			catalog, defaults, err := facility.Load(loadCtx, dir)
			loadCancel()
			if err != nil {
				return err
			}
			a.log.Info("facilities loaded", zap.Int("count", len(catalog.All())), zap.Int("defaults", len(defaults)))

			tmpl, err := web.ParseTemplates()
			if err != nil {
				return err
			}
			srv := web.New(web.Options{
				Addr:         a.cfg.HTTPAddr,
				Catalog:      catalog,
				Defaults:     defaults,
				Presets:      presets,
				Location:     a.cfg.Location,
				PasswordHash: a.cfg.DashboardPasswordHash,
			}, web.NewSessionManager(a.cfg.SessionHashKey, a.cfg.SessionBlockKey), a.service(dir, nil), tmpl, a.log)
			return srv.ListenAndServe(ctx)
		},
	}
}
