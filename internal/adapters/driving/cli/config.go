package cli

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage CLI configuration",
	Long:  `Initialise and update the configuration file (account URL, credentials, defaults).`,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write the initial configuration file",
	RunE:  runConfigInit,
}

var configSetTokenCmd = &cobra.Command{
	Use:   "set-token",
	Short: "Store an API access token",
	Long:  `Prompt for an API access token and store it in the configuration file.`,
	RunE:  runConfigSetToken,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective configuration",
	RunE:  runConfigShow,
}

// Flags for config init.
var (
	configAccountURL   string
	configSubscription string
)

func init() {
	configInitCmd.Flags().StringVar(&configAccountURL, "account-url", "",
		"Platform account URL, e.g. https://acme.my.vault.com (required)")
	configInitCmd.Flags().StringVar(&configSubscription, "default-subscription", "",
		"Subscription name used when --subscription is omitted")
	_ = configInitCmd.MarkFlagRequired("account-url")

	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configSetTokenCmd)
	configCmd.AddCommand(configShowCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfigInit(cmd *cobra.Command, _ []string) error {
	if configStore == nil {
		return errors.New("config store not configured")
	}

	cfg, err := configStore.Load()
	if err != nil {
		return err
	}

	cfg.AccountURL = strings.TrimRight(configAccountURL, "/")
	if configSubscription != "" {
		cfg.DefaultSubscription = configSubscription
	}

	if err := configStore.Save(cfg); err != nil {
		return err
	}

	cmd.Printf("Configuration written to %s\n", configStore.Path())
	cmd.Println("Next, store a token with 'm365vault config set-token'.")
	return nil
}

func runConfigSetToken(cmd *cobra.Command, _ []string) error {
	if configStore == nil {
		return errors.New("config store not configured")
	}

	cfg, err := configStore.Load()
	if err != nil {
		return err
	}

	cmd.Print("Enter API access token: ")
	raw, err := term.ReadPassword(int(os.Stdin.Fd()))
	cmd.Println()
	if err != nil {
		return fmt.Errorf("failed to read token: %w", err)
	}

	token := strings.TrimSpace(string(raw))
	if token == "" {
		return errors.New("token is required")
	}

	cfg.Token = token
	if err := configStore.Save(cfg); err != nil {
		return err
	}

	cmd.Printf("Token stored in %s\n", configStore.Path())
	return nil
}

func runConfigShow(cmd *cobra.Command, _ []string) error {
	if configStore == nil {
		return errors.New("config store not configured")
	}

	cfg, err := configStore.Load()
	if err != nil {
		return err
	}

	cmd.Printf("Config file: %s\n", configStore.Path())
	cmd.Printf("  Account URL: %s\n", orUnset(cfg.AccountURL))
	cmd.Printf("  Token: %s\n", maskSecret(cfg.Token))
	cmd.Printf("  Client ID: %s\n", orUnset(cfg.ClientID))
	cmd.Printf("  Client secret: %s\n", maskSecret(cfg.ClientSecret))
	cmd.Printf("  Default subscription: %s\n", orUnset(cfg.DefaultSubscription))
	if cfg.RequestsPerSecond > 0 {
		cmd.Printf("  Rate limit: %.1f req/s, burst %d\n", cfg.RequestsPerSecond, cfg.BurstSize)
	}
	return nil
}

func orUnset(s string) string {
	if s == "" {
		return "(unset)"
	}
	return s
}

func maskSecret(s string) string {
	if s == "" {
		return "(unset)"
	}
	return "********"
}
