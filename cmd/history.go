package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/lightningnetwork/lnd/fn/v2"
	"github.com/spf13/cobra"

	"github.com/davidbz/atelier/internal/domain"
	"github.com/davidbz/atelier/internal/history/sqlite"
)

// openHistory opens the configured history database for the offline commands.
func openHistory() (*sqlite.Store, *domain.StatsService, error) {
	container, err := buildContainer()
	if err != nil {
		return nil, nil, err
	}

	var store *sqlite.Store
	var stats *domain.StatsService
	if err := container.Invoke(func(s *sqlite.Store, svc *domain.StatsService) {
		store, stats = s, svc
	}); err != nil {
		return nil, nil, err
	}
	return store, stats, nil
}

func newHistoryCmd() *cobra.Command {
	var (
		userID    int64
		projectID int64
		status    string
		limit     int
		offset    int
	)

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List past generations, most recent first",
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, stats, err := openHistory()
			if err != nil {
				return err
			}
			defer store.Close()

			query := domain.HistoryQuery{UserID: userID, Limit: limit, Offset: offset}
			if projectID != 0 {
				query.ProjectID = fn.Some(projectID)
			}
			if status != "" {
				query.Status = fn.Some(domain.Status(status))
			}

			page, err := stats.History(cmd.Context(), query)
			if err != nil {
				return err
			}

			if len(page.Records) == 0 {
				fmt.Println("No generations found.")
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tCREATED\tMODE\tSTATUS\tRETRIES\tSCORE\tPROMPT")
			for _, rec := range page.Records {
				score := "-"
				if rec.QualityScore != nil {
					score = fmt.Sprintf("%.2f", *rec.QualityScore)
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%s\t%s\n",
					rec.ID, rec.CreatedAt.Format("2006-01-02T15:04:05"), rec.Mode, rec.Status,
					rec.RetryCount, score, truncate(rec.Prompt, 48))
			}
			if err := w.Flush(); err != nil {
				return err
			}

			fmt.Printf("\n%d of %d (offset %d)\n", len(page.Records), page.Total, page.Offset)
			return nil
		},
	}

	cmd.Flags().Int64Var(&userID, "user", 0, "user id (default user when unset)")
	cmd.Flags().Int64Var(&projectID, "project", 0, "project id filter")
	cmd.Flags().StringVar(&status, "status", "", "status filter: processing, completed or failed")
	cmd.Flags().IntVar(&limit, "limit", domain.DefaultHistoryLimit, "page size")
	cmd.Flags().IntVar(&offset, "offset", 0, "records to skip")
	return cmd
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n-1]) + "…"
}
