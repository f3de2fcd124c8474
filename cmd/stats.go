package main

import (
	"fmt"
	"os"
	"sort"
	"text/tabwriter"

	"github.com/lightningnetwork/lnd/fn/v2"
	"github.com/spf13/cobra"

	"github.com/davidbz/atelier/internal/domain"
)

func newStatsCmd() *cobra.Command {
	var (
		userID    int64
		projectID int64
		days      int
	)

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Summarize generations over a time window",
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, stats, err := openHistory()
			if err != nil {
				return err
			}
			defer store.Close()

			query := domain.StatsQuery{UserID: userID, WindowDays: days}
			if projectID != 0 {
				query.ProjectID = fn.Some(projectID)
			}

			summary, err := stats.Summarize(cmd.Context(), query)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintf(w, "Period\t%d days\n", summary.PeriodDays)
			fmt.Fprintf(w, "Generations\t%d\n", summary.TotalGenerations)
			fmt.Fprintf(w, "Success rate\t%.2f%%\n", summary.SuccessRate)
			fmt.Fprintf(w, "Avg time\t%.2fs\n", summary.AverageGenerationTime)
			fmt.Fprintf(w, "Avg quality\t%.2f\n", summary.AverageQualityScore)
			for _, label := range sortedKeys(summary.StatusBreakdown) {
				fmt.Fprintf(w, "Status %s\t%d\n", label, summary.StatusBreakdown[label])
			}
			for _, label := range sortedKeys(summary.ModeBreakdown) {
				fmt.Fprintf(w, "Mode %s\t%d\n", label, summary.ModeBreakdown[label])
			}
			return w.Flush()
		},
	}

	cmd.Flags().Int64Var(&userID, "user", 0, "user id (default user when unset)")
	cmd.Flags().Int64Var(&projectID, "project", 0, "project id filter")
	cmd.Flags().IntVar(&days, "days", domain.DefaultWindowDays, "window in days")
	return cmd
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
