package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/castellan-labs/m365vault-cli/internal/core/domain"
	"github.com/castellan-labs/m365vault-cli/internal/core/ports/driving"
)

var recoveryCmd = &cobra.Command{
	Use:   "recovery",
	Short: "Manage bulk recoveries",
	Long:  `Start, track, cancel, and complete bulk recoveries of Microsoft 365 data.`,
}

var recoveryStartCmd = &cobra.Command{
	Use:   "start",
	Short: "Start a bulk recovery",
	Long: `Start a bulk recovery for a group of accounts.

The exchange workload launches one independent recovery per sub-workload
(Mailbox, Calendar, Contacts) unless --sub-workload narrows it to one. Each
submission is named "<name>_<sub-workload>".

OneDrive and Exchange select accounts with --ad-group; SharePoint selects
sites with --group-name.

Examples:
  # In-place OneDrive recovery for an AD group
  m365vault recovery start --name Migration1 --subscription "Corp Tenant" \
    --workload onedrive --ad-group grp-123 \
    --recovery-point 2024-01-01T00:00:00Z --in-place

  # Operational Exchange recovery, mailbox only, bounded time window
  m365vault recovery start --name DayOne --subscription "Corp Tenant" \
    --workload exchange --sub-workload mailbox --ad-group grp-123 \
    --recovery-point 2024-01-01T00:00:00Z --operational \
    --from 2023-12-01T00:00:00Z --until 2024-01-01T00:00:00Z`,
	RunE: runRecoveryStart,
}

var recoveryProgressCmd = &cobra.Command{
	Use:   "progress [instance-id]",
	Short: "Show progress of a bulk recovery instance",
	Args:  cobra.ExactArgs(1),
	RunE:  runRecoveryProgress,
}

var recoveryCancelCmd = &cobra.Command{
	Use:   "cancel [instance-id]",
	Short: "Cancel an in-flight bulk recovery instance",
	Args:  cobra.ExactArgs(1),
	RunE:  runRecoveryCancel,
}

var recoveryCompleteCmd = &cobra.Command{
	Use:   "complete [instance-id]",
	Short: "Complete an operational recovery with the remaining data",
	Long: `Transition an operational (time-bounded) recovery into a complete recovery
of the remaining data, under the same instance id.`,
	Args: cobra.ExactArgs(1),
	RunE: runRecoveryComplete,
}

var recoveryWaitCmd = &cobra.Command{
	Use:   "wait [instance-id]",
	Short: "Poll a bulk recovery instance until it finishes",
	Args:  cobra.ExactArgs(1),
	RunE:  runRecoveryWait,
}

var recoveryListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recoveries started from this machine",
	RunE:  runRecoveryList,
}

// Flags shared across recovery commands.
var (
	recoverySubscription string

	startName           string
	startWorkload       string
	startSubWorkload    string
	startRecoveryPoint  string
	startADGroup        string
	startGroupName      string
	startOperational    bool
	startFrom           string
	startUntil          string
	startArchiveAction  string
	startSkipPermission bool
	startSiteOwnerEmail string
	startInplace        bool

	waitInterval time.Duration
	waitTimeout  time.Duration
)

func init() {
	for _, c := range []*cobra.Command{
		recoveryStartCmd, recoveryProgressCmd, recoveryCancelCmd, recoveryCompleteCmd, recoveryWaitCmd,
	} {
		c.Flags().StringVar(&recoverySubscription, "subscription", "",
			"Subscription display name (defaults to the configured default)")
	}

	recoveryStartCmd.Flags().StringVar(&startName, "name", "", "Base name for the recovery (required)")
	recoveryStartCmd.Flags().StringVar(&startWorkload, "workload", "",
		"Workload to recover: onedrive, exchange, or sharepoint (required)")
	recoveryStartCmd.Flags().StringVar(&startSubWorkload, "sub-workload", "",
		"Exchange sub-workload filter: mailbox, calendar, or contacts")
	recoveryStartCmd.Flags().StringVar(&startRecoveryPoint, "recovery-point", "",
		"Point in time to recover to, RFC 3339 (required)")
	recoveryStartCmd.Flags().StringVar(&startADGroup, "ad-group", "",
		"AD group id selecting accounts (onedrive, exchange)")
	recoveryStartCmd.Flags().StringVar(&startGroupName, "group-name", "",
		"Configured group name selecting sites (sharepoint)")
	recoveryStartCmd.Flags().BoolVar(&startOperational, "operational", false,
		"Operational recovery: restore a time-bounded slice first")
	recoveryStartCmd.Flags().StringVar(&startFrom, "from", "",
		"Operational window start, RFC 3339")
	recoveryStartCmd.Flags().StringVar(&startUntil, "until", "",
		"Operational window end, RFC 3339")
	recoveryStartCmd.Flags().StringVar(&startArchiveAction, "archive-folder-action", "",
		"Mailbox archive handling: NO_ACTION, EXCLUDE_ARCHIVE, or ARCHIVE_ONLY")
	recoveryStartCmd.Flags().BoolVar(&startSkipPermission, "skip-item-permissions", false,
		"Skip restoring item-level permissions (sharepoint)")
	recoveryStartCmd.Flags().StringVar(&startSiteOwnerEmail, "site-owner-email", "",
		"Owner email for restored sites (sharepoint)")
	recoveryStartCmd.Flags().BoolVar(&startInplace, "in-place", false,
		"Restore to the original location, overwriting name collisions")
	_ = recoveryStartCmd.MarkFlagRequired("name")
	_ = recoveryStartCmd.MarkFlagRequired("workload")
	_ = recoveryStartCmd.MarkFlagRequired("recovery-point")

	recoveryWaitCmd.Flags().DurationVar(&waitInterval, "interval", 30*time.Second,
		"Polling interval")
	recoveryWaitCmd.Flags().DurationVar(&waitTimeout, "timeout", 0,
		"Give up after this long (0 waits forever)")

	recoveryCmd.AddCommand(recoveryStartCmd)
	recoveryCmd.AddCommand(recoveryProgressCmd)
	recoveryCmd.AddCommand(recoveryCancelCmd)
	recoveryCmd.AddCommand(recoveryCompleteCmd)
	recoveryCmd.AddCommand(recoveryWaitCmd)
	recoveryCmd.AddCommand(recoveryListCmd)
	rootCmd.AddCommand(recoveryCmd)
}

// subscriptionName returns the --subscription flag or the configured default.
func subscriptionName() (string, error) {
	if recoverySubscription != "" {
		return recoverySubscription, nil
	}
	if configStore != nil {
		cfg, err := configStore.Load()
		if err == nil && cfg.DefaultSubscription != "" {
			return cfg.DefaultSubscription, nil
		}
	}
	return "", errors.New("no subscription given, use --subscription or set default_subscription in the config")
}

func runRecoveryStart(cmd *cobra.Command, _ []string) error {
	if recoveryService == nil {
		return errors.New("recovery service not configured")
	}

	subscription, err := subscriptionName()
	if err != nil {
		return err
	}

	workload, err := domain.ParseWorkloadType(startWorkload)
	if err != nil {
		return err
	}
	subWorkload, err := domain.ParseSubWorkloadType(startSubWorkload)
	if err != nil {
		return err
	}
	archiveAction, err := domain.ParseArchiveFolderAction(startArchiveAction)
	if err != nil {
		return err
	}

	recoveryPoint, err := parseTimeFlag("recovery-point", startRecoveryPoint, true)
	if err != nil {
		return err
	}
	from, err := parseTimeFlag("from", startFrom, false)
	if err != nil {
		return err
	}
	until, err := parseTimeFlag("until", startUntil, false)
	if err != nil {
		return err
	}

	req := driving.StartRecoveryRequest{
		Name:                     startName,
		SubscriptionName:         subscription,
		Workload:                 workload,
		SubWorkload:              subWorkload,
		RecoveryPoint:            recoveryPoint,
		ADGroupID:                startADGroup,
		ConfiguredGroupName:      startGroupName,
		Operational:              startOperational,
		FromTime:                 from,
		UntilTime:                until,
		ArchiveFolderAction:      archiveAction,
		ShouldSkipItemPermission: startSkipPermission,
		SiteOwnerEmail:           startSiteOwnerEmail,
		Inplace:                  startInplace,
	}

	results, err := recoveryService.Start(context.Background(), req)
	if err != nil {
		return err
	}

	failed := 0
	for _, res := range results {
		if res.Err != nil {
			failed++
			cmd.Printf("Failed to start %s: %v\n", res.Name, res.Err)
			continue
		}
		cmd.Printf("Started %s\n", res.Name)
		cmd.Printf("  Instance: %s\n", res.Instance.ID)
		if res.Instance.TaskchainID != "" {
			cmd.Printf("  Taskchain: %s\n", res.Instance.TaskchainID)
		}
		if res.Instance.JobID != "" {
			cmd.Printf("  Job: %s\n", res.Instance.JobID)
		}
	}

	if failed == len(results) {
		return fmt.Errorf("all %d submissions failed", failed)
	}
	if failed > 0 {
		cmd.Printf("\n%d of %d submissions failed; the rest are running.\n", failed, len(results))
	}
	return nil
}

func runRecoveryProgress(cmd *cobra.Command, args []string) error {
	if recoveryService == nil {
		return errors.New("recovery service not configured")
	}

	subscription, err := subscriptionName()
	if err != nil {
		return err
	}

	progress, err := recoveryService.Progress(context.Background(), subscription, args[0])
	if err != nil {
		return fmt.Errorf("failed to fetch progress: %w", err)
	}

	printProgress(cmd, progress)
	return nil
}

func runRecoveryCancel(cmd *cobra.Command, args []string) error {
	if recoveryService == nil {
		return errors.New("recovery service not configured")
	}

	subscription, err := subscriptionName()
	if err != nil {
		return err
	}

	if err := recoveryService.Cancel(context.Background(), subscription, args[0]); err != nil {
		return fmt.Errorf("failed to cancel recovery: %w", err)
	}

	cmd.Printf("Cancellation requested for instance %s\n", args[0])
	cmd.Println("Run 'recovery progress' to confirm the final status.")
	return nil
}

func runRecoveryComplete(cmd *cobra.Command, args []string) error {
	if recoveryService == nil {
		return errors.New("recovery service not configured")
	}

	subscription, err := subscriptionName()
	if err != nil {
		return err
	}

	if err := recoveryService.CompleteOperational(context.Background(), subscription, args[0]); err != nil {
		return fmt.Errorf("failed to complete operational recovery: %w", err)
	}

	cmd.Printf("Completion requested for instance %s\n", args[0])
	return nil
}

func runRecoveryWait(cmd *cobra.Command, args []string) error {
	if recoveryService == nil {
		return errors.New("recovery service not configured")
	}

	subscription, err := subscriptionName()
	if err != nil {
		return err
	}

	ctx := context.Background()
	if waitTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, waitTimeout)
		defer cancel()
	}

	progress, err := recoveryService.WaitForCompletion(ctx, subscription, args[0], waitInterval)
	if err != nil {
		return fmt.Errorf("wait failed: %w", err)
	}

	printProgress(cmd, progress)
	return nil
}

func runRecoveryList(cmd *cobra.Command, _ []string) error {
	if recoveryService == nil {
		return errors.New("recovery service not configured")
	}

	records, err := recoveryService.List(context.Background())
	if err != nil {
		return fmt.Errorf("failed to list recoveries: %w", err)
	}

	if len(records) == 0 {
		cmd.Println("No recoveries recorded on this machine.")
		return nil
	}

	cmd.Println("Recorded recoveries:")
	cmd.Println()
	for i := range records {
		cmd.Printf("  %s\n", records[i].Name)
		cmd.Printf("    Instance: %s\n", records[i].InstanceID)
		cmd.Printf("    Workload: %s", records[i].Workload)
		if records[i].SubWorkload != domain.SubWorkloadNone {
			cmd.Printf(" (%s)", records[i].SubWorkload)
		}
		cmd.Println()
		if records[i].Operational {
			cmd.Println("    Operational: yes")
		}
		cmd.Printf("    Subscription: %s\n", records[i].Subscription)
		cmd.Printf("    Started: %s\n", records[i].CreatedAt.Format(time.RFC3339))
		cmd.Println()
	}
	return nil
}

func printProgress(cmd *cobra.Command, p *domain.Progress) {
	cmd.Printf("Instance %s\n", p.InstanceID)
	cmd.Printf("  Status: %s\n", p.Status)
	if p.CurrentStep != "" {
		cmd.Printf("  Current step: %s\n", p.CurrentStep)
	}
	cmd.Printf("  Objects: %d succeeded, %d failed, %d in progress", p.Succeeded, p.Failed, p.InProgress)
	if p.Status == domain.StatusCanceled {
		cmd.Printf(", %d canceled", p.Canceled)
	}
	cmd.Printf(" of %d\n", p.Total)
	if p.WithoutSnapshot > 0 {
		cmd.Printf("  Without snapshot: %d\n", p.WithoutSnapshot)
	}
	cmd.Printf("  Groups: %d of %d processed\n", p.GroupsProcessed, p.TotalGroups)
	if p.CreateTime != "" {
		cmd.Printf("  Created: %s\n", p.CreateTime)
	}
	if p.StartTime != "" {
		cmd.Printf("  Started: %s\n", p.StartTime)
	}
	if p.EndTime != "" {
		cmd.Printf("  Ended: %s\n", p.EndTime)
	}
	if p.ElapsedTime != "" {
		cmd.Printf("  Elapsed: %s\n", p.ElapsedTime)
	}
	if p.FailureReason != "" {
		cmd.Printf("  Failure reason: %s\n", p.FailureReason)
	}
	cmd.Printf("  On failure: %s\n", p.FailureAction)

	if p.Group != nil {
		cmd.Printf("  Group: %s (%s)\n", p.Group.GroupName, p.Group.GroupID)
		for _, w := range p.Group.Workloads {
			cmd.Printf("    %s", w.SnappableType)
			if w.SubSnappableType != domain.SubSnappableNone {
				cmd.Printf("/%s", w.SubSnappableType)
			}
			cmd.Printf(": %s, %d/%d succeeded\n", w.Status, w.Succeeded, w.Total)
		}
	}
}

// parseTimeFlag parses an RFC 3339 flag value; empty is allowed unless required.
func parseTimeFlag(name, value string, required bool) (time.Time, error) {
	if value == "" {
		if required {
			return time.Time{}, fmt.Errorf("--%s is required", name)
		}
		return time.Time{}, nil
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid --%s: %q is not RFC 3339 (e.g. 2024-01-01T00:00:00Z)", name, value)
	}
	return t, nil
}
