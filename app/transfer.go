package app

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/paramset/paramset/internal/command"
	"github.com/paramset/paramset/internal/daemon"
	"github.com/paramset/paramset/internal/transfer"
)

func init() { //nolint: gochecknoinits
	exportCmd.Flags().StringVarP(&exportFile, "output", "o", "", "write to this file instead of stdout")

	rootCmd.AddCommand(exportCmd, importCmd)
}

var (
	exportFile string

	exportCmd = &cobra.Command{
		Use:   "export",
		Short: "Export all configs with their key/values as YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withSurface(cmd, func(ctx context.Context, d *daemon.Daemon, _ *command.Surface) error {
				var w io.Writer = cmd.OutOrStdout()

				if exportFile != "" {
					f, err := os.Create(exportFile)
					if err != nil {
						return err
					}
					defer f.Close()

					w = f
				}

				return transfer.Export(ctx, d.Store, w)
			})
		},
	}

	importCmd = &cobra.Command{
		Use:   "import FILE",
		Short: "Import configs from a YAML export as new configs",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			return withSurface(cmd, func(ctx context.Context, d *daemon.Daemon, _ *command.Surface) error {
				ids, err := transfer.Import(ctx, d.Store, f)
				fmt.Fprintf(cmd.OutOrStdout(), "imported %d configs\n", len(ids))

				return err
			})
		},
	}
)
