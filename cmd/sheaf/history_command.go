package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"sheaf/internal/config"
	"sheaf/internal/history"
)

func newHistoryCommand() *cobra.Command {
	var limit int
	var dbPath string

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent grouping passes",
		RunE: func(cmd *cobra.Command, args []string) error {
			path := dbPath
			if path == "" {
				path = config.Default().History.Path
			}
			expanded, err := config.ExpandPath(path)
			if err != nil {
				return err
			}

			store, err := history.Open(expanded)
			if err != nil {
				return err
			}
			defer store.Close()

			runs, err := store.Recent(cmd.Context(), limit)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(runs) == 0 {
				fmt.Fprintln(out, "No recorded passes yet.")
				return nil
			}

			rows := make([][]string, 0, len(runs))
			for _, run := range runs {
				rows = append(rows, []string{
					run.StartedAt.Local().Format("2006-01-02 15:04:05"),
					run.Directory,
					run.Mode,
					strconv.Itoa(run.Processed),
					strconv.Itoa(run.Skipped),
					strconv.Itoa(run.Errors),
					run.FinishedAt.Sub(run.StartedAt).Round(time.Millisecond).String(),
				})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"Started", "Directory", "Mode", "Processed", "Skipped", "Errors", "Duration"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignRight, alignRight, alignRight},
			))
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum number of passes to show")
	cmd.Flags().StringVar(&dbPath, "db", "", "History database path")
	return cmd
}
