package cli

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/example/icecheck/internal/application/scheduler"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newWatchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "watch [preset...]",
		Short: "Run check on the CHECK_CRON schedule until interrupted",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := bootstrap()
			if err != nil {
				return err
			}
			defer a.close()
			if err := a.cfg.RequireMail(); err != nil {
				return err
			}
			presets, err := a.selectPresets(args)
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
			svc := a.service(dir, a.mailer())

			c := scheduler.Cron{Spec: a.cfg.CheckCron, Location: a.cfg.Location, Log: a.log}
			err = c.Run(ctx, func(ctx context.Context) {
				if _, err := svc.RunPresets(ctx, presets); err != nil {
					a.log.Error("scheduled check failed", zap.Error(err))
				}
			})
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		},
	}
}
