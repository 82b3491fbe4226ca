package driven

import (
	"context"

	"github.com/castellan-labs/m365vault-cli/internal/core/domain"
)

// RecoveryLedger records bulk recoveries launched from this machine.
// The ledger is advisory: launch and cancel succeed even if it is
// unavailable.
type RecoveryLedger interface {
	// Record stores one launched recovery.
	Record(ctx context.Context, rec domain.RecoveryRecord) error

	// List returns all recorded recoveries, newest first.
	List(ctx context.Context) ([]domain.RecoveryRecord, error)

	// FindByInstance returns the record for an instance id.
	// Returns domain.ErrNotFound if the instance was not recorded.
	FindByInstance(ctx context.Context, instanceID string) (*domain.RecoveryRecord, error)

	// Close releases the underlying store.
	Close() error
}
