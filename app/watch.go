package app

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/paramset/paramset/internal/events"
)

func init() { //nolint: gochecknoinits
	rootCmd.AddCommand(watchCmd)
}

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Print the table changes mirrored to NATS until interrupted",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		if cfg.Events.NATSURL == "" {
			return errors.New("events are disabled, set Events.NATSURL")
		}

		sub, err := events.NewNATSSubscriber(cfg.Events.NATSURL)
		if err != nil {
			return err
		}
		defer sub.Close()

		msgs, cancel, err := sub.Subscribe(cfg.Events.Subject)
		if err != nil {
			return err
		}
		defer cancel()

		irqSig := make(chan os.Signal, 1)
		signal.Notify(irqSig, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(irqSig)

		for {
			select {
			case msg, ok := <-msgs:
				if !ok {
					return nil
				}

				fmt.Fprintln(cmd.OutOrStdout(), string(msg))
			case <-irqSig:
				return nil
			}
		}
	},
}
