package app

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/paramset/paramset/internal/command"
	"github.com/paramset/paramset/internal/daemon"
	"github.com/paramset/paramset/internal/db/models"
)

func init() { //nolint: gochecknoinits
	kvSetCmd.Flags().Uint64Var(&kvID, "id", 0, "edit the key/value with this id instead of adding one")

	kvCmd.AddCommand(kvSetCmd, kvDeleteCmd, kvListCmd)
	rootCmd.AddCommand(kvCmd)
}

var (
	kvID uint64

	kvCmd = &cobra.Command{
		Use:   "kv",
		Short: "Manage the key/values of a config",
	}

	kvSetCmd = &cobra.Command{
		Use:   "set CONFIG_ID KEY VALUE",
		Short: "Add a key/value to a config, or edit one with --id",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			configID, err := parseID(args[0])
			if err != nil {
				return err
			}

			return withSurface(cmd, func(ctx context.Context, d *daemon.Daemon, s *command.Surface) error {
				var draft models.KeyValueDraft = models.NewKeyValue{ConfigID: configID, Key: args[1], Value: args[2]}

				if kvID != 0 {
					kv, err := d.Store.GetKeyValue(ctx, kvID)
					if err != nil {
						return err
					}
					if kv.ConfigID != configID {
						return fmt.Errorf("key/value %d belongs to config %d", kvID, kv.ConfigID)
					}

					draft = models.ExistingKeyValue{ID: kvID, Key: args[1], Value: args[2]}
				} else {
					if err := s.OnAddKeyValueClicked(configID); err != nil {
						return err
					}
					if _, err := d.Store.GetConfig(ctx, configID); err != nil {
						return err
					}
				}

				id, err := s.OnStoreKeyValue(ctx, draft).Wait(ctx)
				if err != nil {
					return err
				}

				return s.OnKeyValueClicked(models.KeyValue{ID: id, ConfigID: configID})
			})
		},
	}

	kvDeleteCmd = &cobra.Command{
		Use:   "delete KV_ID",
		Short: "Delete a key/value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			return withSurface(cmd, func(ctx context.Context, _ *daemon.Daemon, s *command.Surface) error {
				_, err := s.OnDeleteKeyValue(ctx, id).Wait(ctx)
				return err
			})
		},
	}

	kvListCmd = &cobra.Command{
		Use:   "list CONFIG_ID",
		Short: "List the key/values of a config in the order they are applied",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			configID, err := parseID(args[0])
			if err != nil {
				return err
			}

			return withSurface(cmd, func(ctx context.Context, d *daemon.Daemon, _ *command.Surface) error {
				if _, err := d.Store.GetConfig(ctx, configID); err != nil {
					return err
				}

				kvs, err := d.Store.ListKeyValues(ctx, configID)
				if err != nil {
					return err
				}

				tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
				fmt.Fprintln(tw, "ID\tKEY\tVALUE")
				for _, kv := range kvs {
					fmt.Fprintf(tw, "%d\t%s\t%s\n", kv.ID, kv.Key, kv.Value)
				}

				return tw.Flush()
			})
		},
	}
)
