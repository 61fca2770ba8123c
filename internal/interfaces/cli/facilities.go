package cli

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/example/icecheck/internal/domain/facility"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func newFacilitiesCmd() *cobra.Command {
	var defaultsOnly bool
	cmd := &cobra.Command{
		Use:   "facilities",
		Short: "List the facility directory, marking the default set",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := bootstrap()
			if err != nil {
				return err
			}
			defer a.close()

			ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
			defer cancel()
			dir, release, err := a.directory(ctx)
			if err != nil {
				return err
			}
			defer release()
			return listFacilities(ctx, cmd.OutOrStdout(), dir, defaultsOnly)
		},
	}
	cmd.Flags().BoolVar(&defaultsOnly, "defaults", false, "print only the names of the default facilities")
	return cmd
}

func listFacilities(ctx context.Context, w io.Writer, dir facility.Directory, defaultsOnly bool) error {
	if defaultsOnly {
		names, err := facility.Defaults(ctx, dir)
		if err != nil {
			return err
		}
		for _, n := range names {
			fmt.Fprintln(w, n)
		}
		return nil
	}

	catalog, defaults, err := facility.Load(ctx, dir)
	if err != nil {
		return err
	}
	isDefault := make(map[int64]bool, len(defaults))
	for _, id := range defaults {
		isDefault[id] = true
	}

	t := newTable(w)
	t.AppendHeader(table.Row{"ID", "Facility", "Default"})
	for _, f := range catalog.All() {
		mark := ""
		if isDefault[f.ExtID] {
			mark = "✓"
		}
		t.AppendRow(table.Row{f.ExtID, f.Description, mark})
	}
	t.AppendFooter(table.Row{"", len(catalog.All()), len(defaults)})
	t.Render()
	return nil
}
