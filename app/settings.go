package app

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/paramset/paramset/internal/command"
	"github.com/paramset/paramset/internal/daemon"
)

func init() { //nolint: gochecknoinits
	settingsCmd.AddCommand(settingsListCmd)
	rootCmd.AddCommand(settingsCmd)
}

var (
	settingsCmd = &cobra.Command{
		Use:   "settings",
		Short: "Inspect the settings written by settings:// authorities",
	}

	settingsListCmd = &cobra.Command{
		Use:   "list NAMESPACE",
		Short: "List the settings of a namespace",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSurface(cmd, func(ctx context.Context, d *daemon.Daemon, _ *command.Surface) error {
				rows, err := d.Store.ListSettings(ctx, args[0])
				if err != nil {
					return err
				}

				tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
				fmt.Fprintln(tw, "NAME\tVALUE")
				for _, row := range rows {
					fmt.Fprintf(tw, "%s\t%s\n", row.Name, row.Value)
				}

				return tw.Flush()
			})
		},
	}
)
