package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/castellan-labs/m365vault-cli/internal/core/domain"
	"github.com/castellan-labs/m365vault-cli/internal/core/ports/driven"
	"github.com/castellan-labs/m365vault-cli/internal/core/ports/driving"
	"github.com/castellan-labs/m365vault-cli/internal/logger"
)

// Ensure RecoveryService implements the interface.
var _ driving.RecoveryService = (*RecoveryService)(nil)

// RecoveryService orchestrates the bulk recovery lifecycle. It holds no
// mutable state; every call is a fresh resolve-then-request sequence.
type RecoveryService struct {
	backend       driven.Backend
	subscriptions driving.SubscriptionService
	builder       *SpecBuilder
	// ledger is optional; a nil ledger disables local recording.
	ledger driven.RecoveryLedger
}

// NewRecoveryService creates a new recovery service.
func NewRecoveryService(
	backend driven.Backend,
	subscriptions driving.SubscriptionService,
	ledger driven.RecoveryLedger,
) *RecoveryService {
	return &RecoveryService{
		backend:       backend,
		subscriptions: subscriptions,
		builder:       NewSpecBuilder(),
		ledger:        ledger,
	}
}

// Start resolves the subscription, builds the recovery specs, and submits
// each as an independent named recovery, in table order. A failed
// submission is recorded in its result and does not stop the siblings; no
// rollback of already-started recoveries is attempted.
func (s *RecoveryService) Start(
	ctx context.Context, req driving.StartRecoveryRequest,
) ([]domain.LaunchResult, error) {
	if req.Name == "" {
		return nil, fmt.Errorf("%w: recovery name is required", domain.ErrInvalidInput)
	}
	if req.RecoveryPoint.IsZero() {
		return nil, fmt.Errorf("%w: recovery point is required", domain.ErrInvalidInput)
	}

	sub, err := s.subscriptions.Resolve(ctx, req.SubscriptionName)
	if err != nil {
		return nil, err
	}

	specs, err := s.builder.Build(req, sub)
	if err != nil {
		return nil, err
	}

	def := domain.BulkRecoveryDefinition{
		BaseName: req.Name,
		Selector: domain.GroupSelector{
			ADGroupID:           req.ADGroupID,
			ConfiguredGroupName: req.ConfiguredGroupName,
		},
		Specs: specs,
	}
	return s.launch(ctx, def, req), nil
}

// launch submits each spec in the definition as an independent named
// recovery, in table order.
func (s *RecoveryService) launch(
	ctx context.Context, def domain.BulkRecoveryDefinition, req driving.StartRecoveryRequest,
) []domain.LaunchResult {
	results := make([]domain.LaunchResult, 0, len(def.Specs))
	for _, spec := range def.Specs {
		name := def.BaseName + "_" + spec.NameSuffix
		result := domain.LaunchResult{Name: name, Spec: spec}

		instance, err := s.backend.StartBulkRecovery(ctx, name, def.Selector, spec)
		if err != nil {
			logger.Warn("recovery: submission %s failed: %v", name, err)
			result.Err = fmt.Errorf("start recovery %q: %w", name, err)
			results = append(results, result)
			continue
		}

		logger.Debug("recovery: submitted %s as instance %s", name, instance.ID)
		result.Instance = instance
		results = append(results, result)
		s.record(ctx, req, name, spec, instance)
	}
	return results
}

// record stores a launched recovery in the local ledger, best effort.
func (s *RecoveryService) record(
	ctx context.Context,
	req driving.StartRecoveryRequest,
	name string,
	spec domain.RecoverySpec,
	instance *domain.BulkRecoveryInstance,
) {
	if s.ledger == nil {
		return
	}
	rec := domain.RecoveryRecord{
		ID:           uuid.New().String(),
		Name:         name,
		InstanceID:   instance.ID,
		Workload:     req.Workload,
		SubWorkload:  subWorkloadOf(spec.SubSnappableType),
		Operational:  spec.Operational != nil || req.Operational,
		Subscription: req.SubscriptionName,
		CreatedAt:    time.Now(),
	}
	if err := s.ledger.Record(ctx, rec); err != nil {
		logger.Warn("recovery: failed to record %s in ledger: %v", name, err)
	}
}

// Progress validates the instance id, resolves the subscription, polls the
// backend once, and returns the shaped view.
func (s *RecoveryService) Progress(
	ctx context.Context, subscriptionName, instanceID string,
) (*domain.Progress, error) {
	if err := validateInstanceID(instanceID); err != nil {
		return nil, err
	}
	if _, err := s.subscriptions.Resolve(ctx, subscriptionName); err != nil {
		return nil, err
	}

	snap, err := s.backend.RecoveryProgress(ctx, instanceID)
	if err != nil {
		return nil, fmt.Errorf("progress for instance %s: %w", instanceID, err)
	}
	return shapeProgress(instanceID, snap), nil
}

// Cancel requests cancellation of an in-flight recovery. The CANCELED state
// is observed by re-polling Progress, not returned here.
func (s *RecoveryService) Cancel(ctx context.Context, subscriptionName, instanceID string) error {
	if err := validateInstanceID(instanceID); err != nil {
		return err
	}
	if _, err := s.subscriptions.Resolve(ctx, subscriptionName); err != nil {
		return err
	}

	ok, err := s.backend.CancelRecovery(ctx, instanceID)
	if err != nil {
		return fmt.Errorf("cancel instance %s: %w", instanceID, err)
	}
	if !ok {
		return fmt.Errorf("%w: cancellation of instance %s was not accepted", domain.ErrBackend, instanceID)
	}
	return nil
}

// CompleteOperational restores the remaining data for an operational
// recovery instance. Lineage is not enforced client-side: when the local
// ledger knows the instance was not launched as operational a warning is
// logged, but the mutation is still issued and any backend error surfaces
// verbatim.
func (s *RecoveryService) CompleteOperational(ctx context.Context, subscriptionName, instanceID string) error {
	if err := validateInstanceID(instanceID); err != nil {
		return err
	}
	if _, err := s.subscriptions.Resolve(ctx, subscriptionName); err != nil {
		return err
	}

	if s.ledger != nil {
		rec, err := s.ledger.FindByInstance(ctx, instanceID)
		switch {
		case err == nil && !rec.Operational:
			logger.Warn("recovery: instance %s was not recorded as an operational recovery", instanceID)
		case errors.Is(err, domain.ErrNotFound):
			logger.Debug("recovery: instance %s not found in local ledger", instanceID)
		case err != nil:
			logger.Debug("recovery: ledger lookup for %s failed: %v", instanceID, err)
		}
	}

	ok, err := s.backend.CompleteOperationalRecovery(ctx, instanceID)
	if err != nil {
		return fmt.Errorf("complete operational recovery for instance %s: %w", instanceID, err)
	}
	if !ok {
		return fmt.Errorf("%w: complete operational recovery for instance %s was not accepted",
			domain.ErrBackend, instanceID)
	}
	return nil
}

// List returns locally recorded recoveries, newest first.
func (s *RecoveryService) List(ctx context.Context) ([]domain.RecoveryRecord, error) {
	if s.ledger == nil {
		return nil, nil
	}
	return s.ledger.List(ctx)
}

// validateInstanceID rejects identifiers that are not UUID-shaped before
// any network call is made.
func validateInstanceID(instanceID string) error {
	if _, err := uuid.Parse(instanceID); err != nil {
		return fmt.Errorf("%w: %q", domain.ErrInvalidInstanceID, instanceID)
	}
	return nil
}

// subWorkloadOf maps a wire sub-snappable back to the user-facing
// sub-workload type for ledger rows.
func subWorkloadOf(sub domain.SubSnappableType) domain.SubWorkloadType {
	switch sub {
	case domain.SubSnappableMailbox:
		return domain.SubWorkloadMailbox
	case domain.SubSnappableCalendar:
		return domain.SubWorkloadCalendar
	case domain.SubSnappableContacts:
		return domain.SubWorkloadContacts
	case domain.SubSnappableNone:
		return domain.SubWorkloadNone
	default:
		return domain.SubWorkloadNone
	}
}
