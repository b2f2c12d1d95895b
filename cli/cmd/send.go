package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lotwire-systems/lotwire-relay/cli/internal/client"
	"github.com/lotwire-systems/lotwire-relay/cli/pkg/output"
)

var sendCmd = &cobra.Command{
	Use:   "send [file]",
	Short: "Send a webhook delivery to the relay",
	Long: `Post a JSON payload to the relay intake. The request is signed when a
signing secret is available (the --secret flag or the active profile),
and carries an idempotency header when --delivery-id is set.

Use "-" as the file to read the payload from stdin.`,
	Example: `  lotwire send appointment.json
  lotwire send --source dealercrm --delivery-id whd-1041 appointment.json
  cat payload.json | lotwire send -`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		payload, err := readPayload(args[0])
		if err != nil {
			return fmt.Errorf("failed to read payload: %w", err)
		}

		source, _ := cmd.Flags().GetString("source")
		deliveryID, _ := cmd.Flags().GetString("delivery-id")
		secret, _ := cmd.Flags().GetString("secret")
		if secret == "" {
			secret = profileSecret(cmd)
		}

		relay := client.NewRelayClient(serverURL(cmd))
		result, err := relay.Send(source, payload, secret, deliveryID)
		if err != nil {
			return fmt.Errorf("failed to send delivery: %w", err)
		}

		outputFormat, _ := cmd.Flags().GetString("output")
		if outputFormat == "json" {
			return output.JSON(result)
		}

		switch {
		case result.Duplicate:
			output.Info("Duplicate delivery, already processed as %s", result.Fingerprint)
		case result.Status == "classified":
			output.Success("Classified as %s/%s", result.Category, result.Tag)
			output.Info("Fingerprint: %s", result.Fingerprint)
			output.Info("Logical:     %s", result.LogicalFingerprint)
			output.Info("Delivery:    %s", result.DeliveryFingerprint)
		case result.Status == "rejected":
			output.Error("Rejected: %s", result.Error)
			if result.Field != "" {
				output.Info("Code: %s (field: %s)", result.Code, result.Field)
			} else {
				output.Info("Code: %s", result.Code)
			}
		case result.Status == "degraded":
			output.Warn("Degraded delivery, preserved under the %q tag", result.Tag)
		default:
			output.Info("Status: %s", result.Status)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(sendCmd)

	sendCmd.Flags().String("source", "cli", "source connector name")
	sendCmd.Flags().String("delivery-id", "", "transport delivery id (sent as X-Delivery-Id)")
	sendCmd.Flags().String("secret", "", "webhook signing secret (overrides the profile)")
}
