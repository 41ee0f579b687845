package cmd

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/kozaktomas/attendance-kiosk/internal/config"
	"github.com/spf13/cobra"
)

var journalCmd = &cobra.Command{
	Use:   "journal",
	Short: "List scan outcomes recorded by this kiosk",
	Long: `List the scan outcomes this kiosk recorded in its local journal for one day.
Requires JOURNAL_DATABASE_URL (PostgreSQL) or JOURNAL_MARIADB_DSN (MariaDB).`,
	RunE: runJournal,
}

func init() {
	rootCmd.AddCommand(journalCmd)

	journalCmd.Flags().String("date", "", "Day to list (YYYY-MM-DD, default today)")
}

func runJournal(cmd *cobra.Command, args []string) error {
	cfg := config.Load()
	if !cfg.Journal.Enabled() {
		return errors.New("JOURNAL_DATABASE_URL or JOURNAL_MARIADB_DSN environment variable is required")
	}

	day := time.Now()
	if date := mustGetString(cmd, "date"); date != "" {
		parsed, err := time.ParseInLocation("2006-01-02", date, time.Local)
		if err != nil {
			return fmt.Errorf("invalid --date: %w", err)
		}
		day = parsed
	}

	ctx := context.Background()
	store, err := openJournal(ctx, &cfg.Journal)
	if err != nil {
		return err
	}
	defer store.Close()

	entries, err := store.ListDay(ctx, day)
	if err != nil {
		return fmt.Errorf("listing journal: %w", err)
	}

	fmt.Printf("Journal for %s: %d entries\n", day.Format("2006-01-02"), len(entries))
	for _, e := range entries {
		fmt.Printf("  %s  %-16s %-24s %5dms", e.CreatedAt.Local().Format("15:04:05"), e.Outcome, e.Name, e.LatencyMS)
		if e.Error != "" {
			fmt.Printf("  %s", e.Error)
		}
		fmt.Println()
	}
	return nil
}
