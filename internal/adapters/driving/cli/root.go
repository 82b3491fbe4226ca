package cli

import (
	"github.com/spf13/cobra"

	"github.com/castellan-labs/m365vault-cli/internal/adapters/driven/config/file"
	"github.com/castellan-labs/m365vault-cli/internal/core/ports/driving"
	"github.com/castellan-labs/m365vault-cli/internal/logger"
)

var (
	// Version is set by goreleaser ldflags.
	version = "dev"

	// Verbose enables debug logging.
	verbose bool

	// Services holds injected service implementations for CLI commands.
	recoveryService     driving.RecoveryService
	subscriptionService driving.SubscriptionService
	configStore         *file.ConfigStore
)

// Services holds configuration for CLI commands.
type Services struct {
	Recovery     driving.RecoveryService
	Subscription driving.SubscriptionService
	ConfigStore  *file.ConfigStore
}

// SetServices injects service implementations for CLI commands.
func SetServices(s *Services) {
	if s == nil {
		return
	}
	recoveryService = s.Recovery
	subscriptionService = s.Subscription
	configStore = s.ConfigStore
}

// rootCmd is the base command.
var rootCmd = &cobra.Command{
	Use:   "m365vault",
	Short: "Bulk recovery for Microsoft 365 backups",
	Long: `m365vault drives mass recovery of Microsoft 365 data (OneDrive, Exchange,
SharePoint) from your backup platform account.

Start a bulk recovery for a group of accounts, track its progress, cancel it,
or complete an operational recovery with the remaining data.`,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// SetVersion sets the version string for the CLI.
func SetVersion(v string) {
	version = v
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose debug output")

	// Use PersistentPreRunE to set verbose mode before any command executes
	rootCmd.PersistentPreRunE = func(_ *cobra.Command, _ []string) error {
		logger.SetVerbose(verbose)
		return nil
	}
}
