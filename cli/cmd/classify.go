package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lotwire-systems/lotwire-relay/cli/internal/client"
	"github.com/lotwire-systems/lotwire-relay/cli/pkg/output"
)

var classifyCmd = &cobra.Command{
	Use:   "classify [file]",
	Short: "Dry-run a payload through the classifier",
	Long: `Run a payload through the relay's classify endpoint. The full pipeline
executes but nothing is persisted: no idempotency entry, no forward to
the destination, no dead letter spool.

Use "-" as the file to read the payload from stdin.`,
	Example: `  lotwire classify appointment.json
  lotwire classify --output json appointment.json`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		payload, err := readPayload(args[0])
		if err != nil {
			return fmt.Errorf("failed to read payload: %w", err)
		}

		relay := client.NewRelayClient(serverURL(cmd))
		outcome, err := relay.Classify(payload)
		if err != nil {
			return fmt.Errorf("classify failed: %w", err)
		}

		outputFormat, _ := cmd.Flags().GetString("output")
		if outputFormat == "json" {
			return output.JSON(outcome)
		}

		switch {
		case outcome.Status == "classified" && outcome.Classified != nil:
			c := outcome.Classified
			output.Success("Classified as %s/%s", c.Category, c.Tag)
			output.Info("Dealer:      %s", c.DealerID)
			output.Info("Customer:    %s", c.CustomerID)
			output.Info("Fingerprint: %s", c.Fingerprint)
			output.Info("Logical:     %s", c.LogicalFingerprint)
			output.Info("Delivery:    %s", c.DeliveryFingerprint)
		case outcome.Status == "rejected" && outcome.Rejection != nil:
			r := outcome.Rejection
			output.Error("Would be rejected: %s", r.Message)
			if r.Field != "" {
				output.Info("Code: %s (field: %s)", r.Code, r.Field)
			} else {
				output.Info("Code: %s", r.Code)
			}
		case outcome.Status == "degraded" && outcome.Degraded != nil:
			output.Warn("Would be degraded: %s", outcome.Degraded.Reason)
		default:
			output.Info("Status: %s", outcome.Status)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(classifyCmd)
}
