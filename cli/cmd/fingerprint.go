package cmd

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/lotwire-systems/lotwire-relay/cli/pkg/output"
	"github.com/lotwire-systems/lotwire-relay/common/canonical"
	"github.com/lotwire-systems/lotwire-relay/common/fingerprint"
	"github.com/lotwire-systems/lotwire-relay/relay/pkg/taxonomy"
)

var fingerprintCmd = &cobra.Command{
	Use:   "fingerprint [file]",
	Short: "Compute delivery fingerprints locally",
	Long: `Compute both fingerprint flavors for a payload without calling the
relay. The logical flavor strips the received_at timestamp so
redeliveries of identical content hash the same; the delivery flavor
folds it in so every physical arrival is distinct.

The category namespace is auto-detected from the payload's category
sub-object, or forced with --category.`,
	Example: `  lotwire fingerprint appointment.json
  lotwire fingerprint --category communication payload.json
  lotwire fingerprint --canonical payload.json`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := readPayload(args[0])
		if err != nil {
			return fmt.Errorf("failed to read payload: %w", err)
		}

		var raw map[string]interface{}
		if err := json.Unmarshal(data, &raw); err != nil {
			return fmt.Errorf("payload is not a JSON object: %w", err)
		}

		categoryName, _ := cmd.Flags().GetString("category")
		if categoryName == "" {
			categoryName = detectCategory(raw)
		}
		cat, ok := taxonomy.ByName(categoryName)
		if !ok {
			return fmt.Errorf("cannot determine category; use --category (one of %s)",
				strings.Join(taxonomy.Names(), ", "))
		}

		logical := fingerprint.New(raw, cat.Namespace, false)
		delivery := fingerprint.New(raw, cat.Namespace, true)

		outputFormat, _ := cmd.Flags().GetString("output")
		if outputFormat == "json" {
			return output.JSON(map[string]string{
				"category":             cat.Name,
				"namespace":            cat.Namespace,
				"logical_fingerprint":  logical,
				"delivery_fingerprint": delivery,
			})
		}

		output.Info("Category:  %s (namespace %s)", cat.Name, cat.Namespace)
		output.Info("Logical:   %s", logical)
		output.Info("Delivery:  %s", delivery)
		if _, present := raw[fingerprint.ArrivalField]; !present {
			output.Warn("payload carries no %s; both flavors hash the same content", fingerprint.ArrivalField)
		}

		if showCanonical, _ := cmd.Flags().GetBool("canonical"); showCanonical {
			subject := make(map[string]interface{}, len(raw))
			for k, v := range raw {
				if k == fingerprint.ArrivalField {
					continue
				}
				subject[k] = v
			}
			fmt.Println(canonical.EncodeUnordered(subject))
		}
		return nil
	},
}

// detectCategory finds the category key in the payload the same way the
// relay's classifier does, first match in sorted key order.
func detectCategory(raw map[string]interface{}) string {
	for _, name := range taxonomy.Names() {
		if _, present := raw[name]; present {
			return name
		}
	}
	return ""
}

func init() {
	rootCmd.AddCommand(fingerprintCmd)

	fingerprintCmd.Flags().String("category", "", "category to hash under (auto-detected by default)")
	fingerprintCmd.Flags().Bool("canonical", false, "also print the canonical form the logical flavor hashes")
}
