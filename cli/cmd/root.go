package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/lotwire-systems/lotwire-relay/cli/internal/config"
	"github.com/lotwire-systems/lotwire-relay/cli/pkg/color"
)

var (
	cfgFile string
	cfg     *config.Config
)

// defaultServerURL matches the relay's default listen port.
const defaultServerURL = "http://localhost:8095"

var rootCmd = &cobra.Command{
	Use:   "lotwire",
	Short: "Lotwire relay CLI",
	Long: `lotwire is the command-line interface for the Lotwire webhook relay.

Send deliveries, dry-run the classifier, compute fingerprints locally,
inspect the dead letter queue, and mint admin tokens.`,
	Version: "0.1.0",
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $HOME/.lotwire/config.yaml)")
	rootCmd.PersistentFlags().String("server", "", "relay URL (overrides the profile)")
	rootCmd.PersistentFlags().String("profile", "", "profile to use")
	rootCmd.PersistentFlags().String("output", "table", "output format: table, json")
	rootCmd.PersistentFlags().Bool("no-color", false, "disable colored output")
}

func initConfig() {
	if os.Getenv("NO_COLOR") != "" {
		color.NoColor = true
	}
	if noColor, _ := rootCmd.PersistentFlags().GetBool("no-color"); noColor {
		color.NoColor = true
	}

	var err error
	cfg, err = config.Load(cfgFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Could not load config: %v\n", err)
		cfg = config.Default()
	}
}

// serverURL resolves the relay base URL: the --server flag wins, then
// the active profile, then the local default.
func serverURL(cmd *cobra.Command) string {
	if s, _ := cmd.Flags().GetString("server"); s != "" {
		return s
	}
	profileName, _ := cmd.Flags().GetString("profile")
	if p, err := cfg.GetProfile(profileName); err == nil && p.ServerURL != "" {
		return p.ServerURL
	}
	return defaultServerURL
}

// profileSecret returns the webhook signing secret of the active
// profile, or empty when none is configured.
func profileSecret(cmd *cobra.Command) string {
	profileName, _ := cmd.Flags().GetString("profile")
	if p, err := cfg.GetProfile(profileName); err == nil {
		return p.SigningSecret
	}
	return ""
}

// adminToken resolves the admin JWT: the --token flag wins, then the
// active profile.
func adminToken(cmd *cobra.Command) string {
	if tok, _ := cmd.Flags().GetString("token"); tok != "" {
		return tok
	}
	profileName, _ := cmd.Flags().GetString("profile")
	if p, err := cfg.GetProfile(profileName); err == nil {
		return p.Token
	}
	return ""
}

// readPayload loads a JSON payload from path, or stdin when path is "-".
func readPayload(path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(path)
}
