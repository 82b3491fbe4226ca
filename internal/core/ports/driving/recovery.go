package driving

import (
	"context"
	"time"

	"github.com/castellan-labs/m365vault-cli/internal/core/domain"
)

// StartRecoveryRequest carries every user-facing parameter for launching a
// bulk recovery. Optional times are zero values when not supplied.
type StartRecoveryRequest struct {
	// Name is the base recovery name; submissions are named "<Name>_<suffix>".
	Name string
	// SubscriptionName is the tenant subscription display name to resolve.
	SubscriptionName string
	Workload         domain.WorkloadType
	// SubWorkload filters Exchange to a single sub-workload.
	// SubWorkloadNone means all sub-workloads for the workload.
	SubWorkload   domain.SubWorkloadType
	RecoveryPoint time.Time
	// ADGroupID selects accounts for OneDrive and Exchange.
	ADGroupID string
	// ConfiguredGroupName selects accounts for SharePoint.
	ConfiguredGroupName string
	// Operational requests a time-bounded operational recovery.
	Operational bool
	FromTime    time.Time
	UntilTime   time.Time
	// ArchiveFolderAction applies to the Mailbox sub-workload only.
	ArchiveFolderAction      domain.ArchiveFolderAction
	ShouldSkipItemPermission bool
	SiteOwnerEmail           string
	// Inplace restores to the original location, overwriting name collisions.
	Inplace bool
}

// RecoveryService drives the bulk recovery lifecycle: launch, track, cancel,
// and the two-phase operational workflow.
type RecoveryService interface {
	// Start resolves the subscription, builds one spec per applicable
	// sub-workload, and submits each as an independent named recovery.
	// Per-sub-workload failures are carried in the results, not returned
	// as the error; the error covers preconditions that stop the whole
	// launch (validation, subscription resolution).
	Start(ctx context.Context, req StartRecoveryRequest) ([]domain.LaunchResult, error)

	// Progress polls the backend once and returns the shaped progress view.
	Progress(ctx context.Context, subscriptionName, instanceID string) (*domain.Progress, error)

	// Cancel requests cancellation of an in-flight recovery instance.
	Cancel(ctx context.Context, subscriptionName, instanceID string) error

	// CompleteOperational transitions an operational recovery into a
	// complete recovery of the remaining data, under the same instance.
	CompleteOperational(ctx context.Context, subscriptionName, instanceID string) error

	// WaitForCompletion polls Progress at the given interval until the
	// instance reaches a terminal status or ctx is done.
	WaitForCompletion(
		ctx context.Context, subscriptionName, instanceID string, interval time.Duration,
	) (*domain.Progress, error)

	// List returns locally recorded recoveries, newest first.
	List(ctx context.Context) ([]domain.RecoveryRecord, error)
}

// SubscriptionService resolves and lists tenant subscriptions.
type SubscriptionService interface {
	// List returns all organisations visible to the caller.
	List(ctx context.Context) ([]domain.Subscription, error)

	// Resolve returns the single active subscription matching name.
	// Returns domain.ErrSubscriptionNotExactlyOne for zero or multiple
	// matches.
	Resolve(ctx context.Context, name string) (domain.SubscriptionRef, error)
}
