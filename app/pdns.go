package app

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/paramset/paramset/internal/command"
	"github.com/paramset/paramset/internal/daemon"
	"github.com/paramset/paramset/internal/db/controller/pdnsserver"
)

func init() { //nolint: gochecknoinits
	pdnsSetCmd.Flags().StringVar(&pdnsSettings.APIServerURL, "url", "", "PowerDNS API server url")
	pdnsSetCmd.Flags().StringVar(&pdnsSettings.APIKey, "key", "", "PowerDNS API key")
	pdnsSetCmd.Flags().StringVar(&pdnsSettings.VHost, "vhost", "localhost", "PowerDNS server id")
	pdnsSetCmd.Flags().Uint32Var(&pdnsSettings.TTL, "ttl", 0, "TTL of patched RRsets, 0 for the default")

	pdnsCmd.AddCommand(pdnsSetCmd, pdnsShowCmd, pdnsTestCmd)
	rootCmd.AddCommand(pdnsCmd)
}

var (
	pdnsSettings pdnsserver.Settings

	pdnsCmd = &cobra.Command{
		Use:   "pdns-server",
		Short: "Manage the PowerDNS server pdns:// authorities are applied to",
	}

	pdnsSetCmd = &cobra.Command{
		Use:   "set",
		Short: "Store the PowerDNS server settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withSurface(cmd, func(ctx context.Context, d *daemon.Daemon, _ *command.Surface) error {
				return d.Store.SavePDNSServerSettings(ctx, pdnsSettings)
			})
		},
	}

	pdnsShowCmd = &cobra.Command{
		Use:   "show",
		Short: "Show the stored PowerDNS server settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withSurface(cmd, func(ctx context.Context, d *daemon.Daemon, _ *command.Surface) error {
				p, err := d.Store.PDNSServerSettings(ctx)
				if err != nil {
					return err
				}

				p.APIKey = "********"

				return printJSON(cmd.OutOrStdout(), p)
			})
		},
	}

	pdnsTestCmd = &cobra.Command{
		Use:   "test",
		Short: "Test the connection to the PowerDNS API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withSurface(cmd, func(ctx context.Context, d *daemon.Daemon, _ *command.Surface) error {
				zones, err := d.PDNS.Test(ctx)
				if err != nil {
					return err
				}

				fmt.Fprintf(cmd.OutOrStdout(), "connected, %d zones visible\n", zones)

				return nil
			})
		},
	}
)
