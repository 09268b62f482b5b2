package app

import (
	"github.com/spf13/cobra"

	"github.com/paramset/paramset/internal/daemon"
)

func init() { //nolint: gochecknoinits
	startCmd.Flags().BoolVar(&devMode, "dev", false, "Enable dev mode")
	startCmd.Flags().IntVarP(&listenPort, "port", "p", 0, "Override Webserver.Port")

	rootCmd.AddCommand(startCmd)
}

var (
	devMode    bool
	listenPort int

	startCmd = &cobra.Command{
		Use:   "start",
		Short: "Serve the paramset HTTP API and run executions on the worker pool",
		PreRun: func(_ *cobra.Command, _ []string) {
			if devMode {
				cfg.DevMode = true
			}
			if listenPort > 0 {
				cfg.Webserver.Port = listenPort
			}
		},
		RunE: func(_ *cobra.Command, _ []string) error {
			return withDaemon(func(d *daemon.Daemon) error {
				return d.Start()
			})
		},
	}
)
