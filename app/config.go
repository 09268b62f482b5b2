package app

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/paramset/paramset/internal/command"
	"github.com/paramset/paramset/internal/daemon"
	"github.com/paramset/paramset/internal/db/models"
)

func init() { //nolint: gochecknoinits
	configExecuteCmd.Flags().BoolVar(&executeAll, "all", false, "Execute every config in list order")

	configCmd.AddCommand(
		configAddCmd,
		configListCmd,
		configShowCmd,
		configRenameCmd,
		configAuthorityCmd,
		configCloneCmd,
		configDeleteCmd,
		configExecuteCmd,
		configResultsCmd,
	)

	rootCmd.AddCommand(configCmd)
}

var (
	executeAll bool

	configCmd = &cobra.Command{
		Use:   "config",
		Short: "Manage configs",
	}

	configAddCmd = &cobra.Command{
		Use:   "add",
		Short: "Add an empty config",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withSurface(cmd, func(ctx context.Context, _ *daemon.Daemon, s *command.Surface) error {
				id, err := s.OnAddConfigClicked(ctx).Wait(ctx)
				if err != nil {
					return err
				}

				fmt.Fprintf(cmd.OutOrStdout(), "added config %d\n", id)

				return nil
			})
		},
	}

	configListCmd = &cobra.Command{
		Use:   "list",
		Short: "List configs with their latest result",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withSurface(cmd, func(ctx context.Context, d *daemon.Daemon, _ *command.Surface) error {
				entries, err := d.Store.ListConfigEntries(ctx)
				if err != nil {
					return err
				}

				return printConfigList(cmd.OutOrStdout(), entries)
			})
		},
	}

	configShowCmd = &cobra.Command{
		Use:   "show ID",
		Short: "Show a config with its key/values",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			return withSurface(cmd, func(ctx context.Context, d *daemon.Daemon, _ *command.Surface) error {
				entry, err := d.Store.GetConfigEntry(ctx, id)
				if err != nil {
					navigatorFor(cmd).NotifyError(err)
					return err
				}

				return printJSON(cmd.OutOrStdout(), entry)
			})
		},
	}

	configRenameCmd = &cobra.Command{
		Use:   "rename ID NAME",
		Short: "Rename a config",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			return withSurface(cmd, func(ctx context.Context, _ *daemon.Daemon, s *command.Surface) error {
				_, err := s.OnRenameConfig(ctx, id, args[1]).Wait(ctx)
				return err
			})
		},
	}

	configAuthorityCmd = &cobra.Command{
		Use:   "authority ID AUTHORITY",
		Short: "Set the authority a config is applied to, e.g. pdns://example.org or settings://billing",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			return withSurface(cmd, func(ctx context.Context, _ *daemon.Daemon, s *command.Surface) error {
				_, err := s.OnAuthorityChanged(ctx, id, args[1]).Wait(ctx)
				return err
			})
		},
	}

	configCloneCmd = &cobra.Command{
		Use:   "clone ID [NAME]",
		Short: "Clone a config and its key/values without results",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			var name string
			if len(args) == 2 {
				name = args[1]
			}

			return withSurface(cmd, func(ctx context.Context, d *daemon.Daemon, s *command.Surface) error {
				entry, err := d.Store.GetConfigEntry(ctx, id)
				if err != nil {
					return err
				}

				cloneID, err := s.OnCloneClicked(ctx, *entry, name).Wait(ctx)
				if err != nil {
					return err
				}

				fmt.Fprintf(cmd.OutOrStdout(), "cloned config %d to %d\n", id, cloneID)

				return nil
			})
		},
	}

	configDeleteCmd = &cobra.Command{
		Use:   "delete ID",
		Short: "Delete a config with its key/values and results",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			return withSurface(cmd, func(ctx context.Context, d *daemon.Daemon, s *command.Surface) error {
				entry, err := d.Store.GetConfigEntry(ctx, id)
				if err != nil {
					return err
				}

				_, err = s.OnDeleteClicked(ctx, *entry).Wait(ctx)

				return err
			})
		},
	}

	configExecuteCmd = &cobra.Command{
		Use:   "execute [ID]",
		Short: "Apply a config, or every listed config with --all, and record the result",
		Args: func(cmd *cobra.Command, args []string) error {
			if executeAll {
				return cobra.NoArgs(cmd, args)
			}
			return cobra.ExactArgs(1)(cmd, args)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if executeAll {
				return withSurface(cmd, func(ctx context.Context, d *daemon.Daemon, s *command.Surface) error {
					list, err := d.Store.ListConfigEntries(ctx)
					if err != nil {
						return err
					}

					results, err := s.ExecuteListed(ctx, d.Store, list)
					if err != nil {
						return err
					}

					return printResults(cmd.OutOrStdout(), results)
				})
			}

			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			return withSurface(cmd, func(ctx context.Context, _ *daemon.Daemon, s *command.Surface) error {
				r, err := s.OnDetailExecuteClicked(ctx, id).Wait(ctx)
				if err != nil {
					return err
				}

				return printResults(cmd.OutOrStdout(), []models.ExecutionResult{*r})
			})
		},
	}

	configResultsCmd = &cobra.Command{
		Use:   "results ID",
		Short: "List the execution results of a config, newest first",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			return withSurface(cmd, func(ctx context.Context, d *daemon.Daemon, _ *command.Surface) error {
				if _, err := d.Store.GetConfig(ctx, id); err != nil {
					return err
				}

				results, err := d.Store.ListExecutionResults(ctx, id)
				if err != nil {
					return err
				}

				return printResults(cmd.OutOrStdout(), results)
			})
		},
	}
)

// withSurface opens the daemon and hands fn a surface navigating on the console.
func withSurface(cmd *cobra.Command, fn func(ctx context.Context, d *daemon.Daemon, s *command.Surface) error) error {
	return withDaemon(func(d *daemon.Daemon) error {
		return fn(cmd.Context(), d, d.Surface.WithNavigator(navigatorFor(cmd)))
	})
}

func navigatorFor(cmd *cobra.Command) consoleNavigator {
	return consoleNavigator{out: cmd.OutOrStdout(), err: cmd.ErrOrStderr()}
}

func parseID(s string) (uint64, error) {
	id, err := strconv.ParseUint(s, 10, 64)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("invalid id %q", s)
	}

	return id, nil
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	return enc.Encode(v)
}

func printConfigList(w io.Writer, entries []models.ConfigListEntry) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tAUTHORITY\tLAST RESULT")

	for _, e := range entries {
		last := "-"
		if e.LatestResult != nil {
			last = fmt.Sprintf("%s (%d) %s", e.LatestResult.ResultType, e.LatestResult.ValuesCount,
				e.LatestResult.CreatedAt.Format("2006-01-02 15:04:05"))
		}

		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", e.Config.ID, e.Config.Name, e.Config.Authority, last)
	}

	return tw.Flush()
}

func printResults(w io.Writer, results []models.ExecutionResult) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tRESULT\tVALUES\tAT\tMESSAGE")

	for _, r := range results {
		msg := ""
		if r.Message != nil {
			msg = *r.Message
		}

		fmt.Fprintf(tw, "%d\t%s\t%d\t%s\t%s\n", r.ID, r.ResultType, r.ValuesCount,
			r.CreatedAt.Format("2006-01-02 15:04:05"), msg)
	}

	return tw.Flush()
}
