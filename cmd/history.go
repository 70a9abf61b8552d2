// cmd/history.go
package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/ColonelBlimp/fibertester/internal/history"
)

// newHistoryCmd creates the "fibertester history" subcommand.
func newHistoryCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent journaled transmissions",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistory(cmd, limit)
		},
	}

	cmd.Flags().IntVar(&limit, "limit", history.DefaultRecentLimit, "how many entries to show")
	return cmd
}

func runHistory(cmd *cobra.Command, limit int) error {
	if limit < 1 {
		return fmt.Errorf("limit must be a positive integer, got %d", limit)
	}

	settings, _, err := loadSettings()
	if err != nil {
		return err
	}
	store, err := history.Open(settings.JournalPath())
	if err != nil {
		return err
	}
	defer store.Close()

	records, err := store.Recent(context.Background(), limit)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(records) == 0 {
		fmt.Fprintln(out, "No transmissions journaled")
		return nil
	}
	for _, rec := range records {
		fmt.Fprintf(out, "%s  %-5s %-3s  %-22s  %-8s  %6dms\n",
			rec.SentAt.Format(time.RFC3339), rec.Color, rec.Number,
			rec.Pattern, rec.Profile, rec.TotalDuration.Milliseconds())
	}
	return nil
}
