// Package app implements the main application commands.
package app

import (
	"github.com/spf13/cobra"

	"github.com/paramset/paramset/internal/config"
	"github.com/paramset/paramset/internal/daemon"
	"github.com/paramset/paramset/internal/logger"
)

var (
	configPath string // Path to the configuration directory
	cfg        config.Config
)

var rootCmd = &cobra.Command{
	Use:   "paramset",
	Short: "paramset stores named parameter sets and applies them to their authorities",
	Long: `paramset stores named parameter sets (configs of key/values) and applies
them to the authority they target, a PowerDNS zone or a settings namespace,
recording the outcome of every execution.`,
	Args:          cobra.OnlyValidArgs,
	SilenceUsage:  true,
	SilenceErrors: false,
	PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
		var err error
		if cfg, err = config.ReadConfig(configPath); err != nil {
			return err
		}

		return logger.Init(cfg.Log)
	},
}

func init() { //nolint: gochecknoinits
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "./etc/", "directory holding main.toml")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// withDaemon runs fn against a freshly opened daemon and closes it afterwards.
func withDaemon(fn func(d *daemon.Daemon) error) (err error) {
	d, err := daemon.New(&cfg)
	if err != nil {
		return err
	}

	defer func() {
		if cerr := d.Close(); err == nil {
			err = cerr
		}
	}()

	return fn(d)
}
