package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/lotwire-systems/lotwire-relay/cli/pkg/output"
	"github.com/lotwire-systems/lotwire-relay/relay/pkg/tokens"
)

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Mint an admin token",
	Long: `Mint an HS256 admin JWT from the shared secret the relay is configured
with (auth.jwt_secret). The token authorizes the dlq commands. Minting
happens locally; the relay is not contacted.`,
	Example: `  lotwire token --secret $LOTWIRE_AUTH_JWT_SECRET
  lotwire token --secret $LOTWIRE_AUTH_JWT_SECRET --ttl 1h --save`,
	RunE: func(cmd *cobra.Command, args []string) error {
		secret, _ := cmd.Flags().GetString("secret")
		subject, _ := cmd.Flags().GetString("subject")
		ttl, _ := cmd.Flags().GetDuration("ttl")

		token, err := tokens.Generate(secret, subject, []string{tokens.RoleAdmin}, ttl)
		if err != nil {
			return fmt.Errorf("failed to mint token: %w", err)
		}

		if save, _ := cmd.Flags().GetBool("save"); save {
			if err := saveTokenToProfile(cmd, token); err != nil {
				output.Warn("Could not save token to profile: %v", err)
			}
		}

		output.Success("Admin token minted (subject: %s, ttl: %s)", subject, ttl)
		fmt.Println(token)
		return nil
	},
}

// saveTokenToProfile persists the token to the active profile, keeping
// its server URL and signing secret intact.
func saveTokenToProfile(cmd *cobra.Command, token string) error {
	profileName, _ := cmd.Flags().GetString("profile")
	if profileName == "" {
		profileName = cfg.CurrentProfile
	}

	var url, signingSecret string
	if p, err := cfg.GetProfile(profileName); err == nil {
		url = p.ServerURL
		signingSecret = p.SigningSecret
	}
	if s, _ := cmd.Flags().GetString("server"); s != "" {
		url = s
	}

	if err := cfg.SaveProfile(profileName, url, signingSecret, token); err != nil {
		return err
	}
	output.Info("Token saved to profile %q", profileName)
	return nil
}

func init() {
	rootCmd.AddCommand(tokenCmd)

	tokenCmd.Flags().String("secret", "", "shared JWT secret the relay validates with")
	tokenCmd.Flags().String("subject", "admin", "token subject")
	tokenCmd.Flags().Duration("ttl", 24*time.Hour, "token lifetime")
	tokenCmd.Flags().Bool("save", false, "save the token to the active profile")

	if err := tokenCmd.MarkFlagRequired("secret"); err != nil {
		panic(fmt.Sprintf("failed to mark --secret required: %v", err))
	}
}
