package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/kozaktomas/attendance-kiosk/internal/config"
	"github.com/spf13/cobra"
)

var logsCmd = &cobra.Command{
	Use:   "logs",
	Short: "Print today's check-ins from the recognition backend",
	RunE:  runLogs,
}

func init() {
	rootCmd.AddCommand(logsCmd)

	logsCmd.Flags().Bool("json", false, "Output as JSON")
}

func runLogs(cmd *cobra.Command, args []string) error {
	cfg := config.Load()
	jsonOutput := mustGetBool(cmd, "json")

	client, err := newBackendClient(cfg)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Backend.Timeout)
	defer cancel()

	entries, err := client.TodayLog(ctx)
	if err != nil {
		return err
	}

	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(entries)
	}

	if len(entries) == 0 {
		fmt.Println("No check-ins today")
		return nil
	}
	fmt.Printf("%-10s %s\n", "TIME", "NAME")
	for _, e := range entries {
		fmt.Printf("%-10s %s\n", e.Time, e.Name)
	}
	fmt.Printf("\n%d check-ins\n", len(entries))
	return nil
}
