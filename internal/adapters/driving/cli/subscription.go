package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/castellan-labs/m365vault-cli/internal/core/domain"
)

var subscriptionCmd = &cobra.Command{
	Use:   "subscription",
	Short: "Inspect tenant subscriptions",
	Long:  `List the Microsoft 365 subscriptions visible to your account and resolve names to ids.`,
}

var subscriptionListCmd = &cobra.Command{
	Use:   "list",
	Short: "List visible subscriptions",
	RunE:  runSubscriptionList,
}

var subscriptionResolveCmd = &cobra.Command{
	Use:   "resolve [name]",
	Short: "Resolve a subscription name to its id",
	Long: `Resolve a subscription display name to its id. Fails unless exactly one
active subscription matches the name.`,
	Args: cobra.ExactArgs(1),
	RunE: runSubscriptionResolve,
}

func init() {
	subscriptionCmd.AddCommand(subscriptionListCmd)
	subscriptionCmd.AddCommand(subscriptionResolveCmd)
	rootCmd.AddCommand(subscriptionCmd)
}

func runSubscriptionList(cmd *cobra.Command, _ []string) error {
	if subscriptionService == nil {
		return errors.New("subscription service not configured")
	}

	subs, err := subscriptionService.List(context.Background())
	if err != nil {
		return fmt.Errorf("failed to list subscriptions: %w", err)
	}

	if len(subs) == 0 {
		cmd.Println("No subscriptions visible.")
		return nil
	}

	cmd.Println("Subscriptions:")
	cmd.Println()
	for _, sub := range subs {
		cmd.Printf("  %s\n", sub.Name)
		cmd.Printf("    ID: %s\n", sub.ID)
		cmd.Printf("    Status: %s\n", sub.Status)
		cmd.Println()
	}
	return nil
}

func runSubscriptionResolve(cmd *cobra.Command, args []string) error {
	if subscriptionService == nil {
		return errors.New("subscription service not configured")
	}

	ref, err := subscriptionService.Resolve(context.Background(), args[0])
	if err != nil {
		if errors.Is(err, domain.ErrSubscriptionNotExactlyOne) {
			return fmt.Errorf("cannot resolve %q: %w", args[0], err)
		}
		return fmt.Errorf("failed to resolve subscription: %w", err)
	}

	cmd.Printf("%s: %s\n", ref.Name, ref.ID)
	return nil
}
