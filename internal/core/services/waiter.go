package services

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/castellan-labs/m365vault-cli/internal/core/domain"
	"github.com/castellan-labs/m365vault-cli/internal/logger"
)

// defaultPollInterval is used when the caller does not supply one.
const defaultPollInterval = 30 * time.Second

// errStillRunning drives the retry loop while the recovery is not terminal.
var errStillRunning = errors.New("recovery still running")

// WaitForCompletion polls Progress at the given interval until the instance
// reaches a terminal status. The wait is bounded only by ctx: cancel it or
// attach a deadline to stop waiting. Transient backend failures are logged
// and polling continues; precondition failures stop the wait immediately.
func (s *RecoveryService) WaitForCompletion(
	ctx context.Context, subscriptionName, instanceID string, interval time.Duration,
) (*domain.Progress, error) {
	if err := validateInstanceID(instanceID); err != nil {
		return nil, err
	}
	if interval <= 0 {
		interval = defaultPollInterval
	}

	var last *domain.Progress
	poll := func() error {
		progress, err := s.Progress(ctx, subscriptionName, instanceID)
		if err != nil {
			if errors.Is(err, domain.ErrInvalidInstanceID) ||
				errors.Is(err, domain.ErrSubscriptionNotExactlyOne) ||
				errors.Is(err, domain.ErrInvalidInput) {
				return backoff.Permanent(err)
			}
			logger.Debug("recovery: poll for %s failed, retrying: %v", instanceID, err)
			return err
		}

		last = progress
		if !progress.Status.IsTerminal() {
			logger.Debug("recovery: instance %s is %s", instanceID, progress.Status)
			return errStillRunning
		}
		return nil
	}

	bo := backoff.WithContext(backoff.NewConstantBackOff(interval), ctx)
	if err := backoff.Retry(poll, bo); err != nil {
		return last, err
	}
	return last, nil
}
