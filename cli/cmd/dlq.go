package cmd

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/lotwire-systems/lotwire-relay/cli/internal/client"
	"github.com/lotwire-systems/lotwire-relay/cli/pkg/output"
)

var dlqCmd = &cobra.Command{
	Use:   "dlq",
	Short: "Dead letter queue administration",
	Long: `Inspect and drain the relay's dead letter queue. All dlq commands
require an admin token (the --token flag or the active profile; mint
one with 'lotwire token').`,
}

var dlqListCmd = &cobra.Command{
	Use:   "list",
	Short: "List dead-lettered deliveries",
	RunE: func(cmd *cobra.Command, args []string) error {
		token := adminToken(cmd)
		if token == "" {
			return fmt.Errorf("admin token required (use --token or 'lotwire token --save')")
		}

		limit, _ := cmd.Flags().GetInt("limit")
		relay := client.NewRelayClient(serverURL(cmd))
		entries, err := relay.DLQList(token, limit)
		if err != nil {
			return fmt.Errorf("failed to list dead letter queue: %w", err)
		}

		outputFormat, _ := cmd.Flags().GetString("output")
		if outputFormat == "json" {
			return output.JSON(entries)
		}

		if len(entries) == 0 {
			output.Info("Dead letter queue is empty")
			return nil
		}

		table := output.NewTable([]string{"ID", "Time", "Source", "Reason", "Error"})
		for _, e := range entries {
			table.AddRow([]string{
				e.ID,
				e.Timestamp.Format("2006-01-02 15:04:05"),
				e.Source,
				e.Reason,
				truncate(e.Error, 60),
			})
		}
		table.Render()
		return nil
	},
}

var dlqPurgeCmd = &cobra.Command{
	Use:   "purge",
	Short: "Drop every entry from the dead letter queue",
	RunE: func(cmd *cobra.Command, args []string) error {
		token := adminToken(cmd)
		if token == "" {
			return fmt.Errorf("admin token required (use --token or 'lotwire token --save')")
		}

		relay := client.NewRelayClient(serverURL(cmd))
		if err := relay.DLQPurge(token); err != nil {
			return fmt.Errorf("failed to purge dead letter queue: %w", err)
		}

		output.Success("Dead letter queue purged")
		return nil
	},
}

var dlqStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show dead letter queue statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		token := adminToken(cmd)
		if token == "" {
			return fmt.Errorf("admin token required (use --token or 'lotwire token --save')")
		}

		relay := client.NewRelayClient(serverURL(cmd))
		stats, err := relay.DLQStats(token)
		if err != nil {
			return fmt.Errorf("failed to fetch dead letter queue stats: %w", err)
		}

		outputFormat, _ := cmd.Flags().GetString("output")
		if outputFormat == "json" {
			return output.JSON(stats)
		}

		output.Info("Enabled: %v", stats["enabled"])
		if backend, ok := stats["backend"].(string); ok {
			output.Info("Backend: %s", backend)
		}
		if pending, ok := stats["pending"]; ok {
			output.Info("Pending: %v", pending)
		}
		if byReason, ok := stats["by_reason"].(map[string]interface{}); ok && len(byReason) > 0 {
			reasons := make([]string, 0, len(byReason))
			for reason := range byReason {
				reasons = append(reasons, reason)
			}
			sort.Strings(reasons)

			table := output.NewTable([]string{"Reason", "Count"})
			for _, reason := range reasons {
				table.AddRow([]string{reason, fmt.Sprintf("%v", byReason[reason])})
			}
			table.Render()
		}
		return nil
	},
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}

func init() {
	rootCmd.AddCommand(dlqCmd)
	dlqCmd.AddCommand(dlqListCmd)
	dlqCmd.AddCommand(dlqPurgeCmd)
	dlqCmd.AddCommand(dlqStatsCmd)

	dlqCmd.PersistentFlags().String("token", "", "admin JWT (overrides the profile)")
	dlqListCmd.Flags().Int("limit", 100, "maximum entries to list")
}
