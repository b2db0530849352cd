package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/goccy/go-json"
	"github.com/iwvelando/economic-loss/internal/config"
	"github.com/iwvelando/economic-loss/internal/store"
	"github.com/iwvelando/economic-loss/pkg/constants"
	"github.com/iwvelando/economic-loss/pkg/format"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func runsCmd() *cobra.Command {
	var dbPath string

	cmd := &cobra.Command{
		Use:   "runs",
		Short: "Inspect the run history",
	}
	cmd.PersistentFlags().StringVar(&dbPath, "db", config.DefaultStoragePath, "run history database path")

	var limit int
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List recorded runs, newest first",
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := store.Open(cmd.Context(), dbPath, zap.NewNop())
			if err != nil {
				return err
			}
			defer func() {
				_ = s.Close()
			}()

			runs, err := s.ListRuns(cmd.Context(), limit)
			if err != nil {
				return err
			}
			return writeRunList(cmd.OutOrStdout(), runs)
		},
	}
	listCmd.Flags().IntVar(&limit, "limit", 20, "maximum number of runs to list (0 for all)")

	showCmd := &cobra.Command{
		Use:   "show <run-id>",
		Short: "Print a recorded run as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := store.Open(cmd.Context(), dbPath, zap.NewNop())
			if err != nil {
				return err
			}
			defer func() {
				_ = s.Close()
			}()

			run, err := s.GetRun(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			encoder := json.NewEncoder(cmd.OutOrStdout())
			encoder.SetIndent("", "  ")
			return encoder.Encode(run)
		},
	}

	cmd.AddCommand(listCmd, showCmd)
	return cmd
}

func writeRunList(w io.Writer, runs []store.RunSummary) error {
	if len(runs) == 0 {
		_, err := fmt.Fprintln(w, "No runs recorded.")
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tName\tCreated\tTables\tEconomic Loss")
	for _, run := range runs {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
			run.ID,
			run.Name,
			run.CreatedAt.Format(constants.DateLayout+" 15:04:05"),
			run.TablesVersion,
			format.Currency(run.TotalEconomicLoss),
		)
	}
	return tw.Flush()
}
