package cli

import (
	"context"
	"io"

	"github.com/example/icecheck/internal/domain/availability"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func newCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check [preset...]",
		Short: "Check the booking horizon for each preset and email any openings",
		Long: `Runs each preset (all configured presets when none are named) over
HORIZON_DAYS days from today against the default facilities, prints what
was found and emails one message per preset with availability.`,
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

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			dir, release, err := a.directory(ctx)
			if err != nil {
				return err
			}
			defer release()

			reports, err := a.service(dir, a.mailer()).RunPresets(ctx, presets)
			printReports(cmd.OutOrStdout(), reports)
			return err
		},
	}
}

func printReports(w io.Writer, reports []availability.Report) {
	t := newTable(w)
	t.AppendHeader(table.Row{"Preset", "Date", "Link"})
	for _, r := range reports {
		if r.Empty() {
			t.AppendRow(table.Row{r.Label, "-", "no availability"})
			continue
		}
		for _, res := range r.Results {
			t.AppendRow(table.Row{r.Label, res.Date, res.Link})
		}
		t.AppendSeparator()
	}
	t.Render()
}
