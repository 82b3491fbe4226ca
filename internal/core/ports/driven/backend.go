package driven

import (
	"context"

	"github.com/castellan-labs/m365vault-cli/internal/core/domain"
)

// Backend is the backup platform's GraphQL API as consumed by this client.
// Every method is one blocking request/response call.
type Backend interface {
	// ListSubscriptions returns all tenant organisations visible to the
	// caller, including inactive ones.
	ListSubscriptions(ctx context.Context) ([]domain.Subscription, error)

	// StartBulkRecovery submits one named recovery for one sub-workload spec
	// and returns the instance handle.
	StartBulkRecovery(
		ctx context.Context, name string, selector domain.GroupSelector, spec domain.RecoverySpec,
	) (*domain.BulkRecoveryInstance, error)

	// RecoveryProgress fetches the raw progress state for an instance.
	RecoveryProgress(ctx context.Context, instanceID string) (*domain.ProgressSnapshot, error)

	// CancelRecovery requests cancellation of an in-flight instance.
	// Cancellation is requested, not instantaneous; callers observe the
	// CANCELED state by re-polling RecoveryProgress.
	CancelRecovery(ctx context.Context, instanceID string) (bool, error)

	// CompleteOperationalRecovery restores the remaining data outside the
	// original operational window, under the same instance identity.
	CompleteOperationalRecovery(ctx context.Context, instanceID string) (bool, error)
}
