package cli

import (
	"context"
	"time"

	"github.com/castellan-labs/m365vault-cli/internal/core/domain"
	"github.com/castellan-labs/m365vault-cli/internal/core/ports/driving"
)

const testInstanceID = "7e2bc6f0-0001-4a6e-9a1d-000000000001"

// mockRecoveryService implements driving.RecoveryService for testing.
type mockRecoveryService struct{}

func (m *mockRecoveryService) Start(
	_ context.Context, req driving.StartRecoveryRequest,
) ([]domain.LaunchResult, error) {
	return []domain.LaunchResult{
		{
			Name:     req.Name + "_OneDrive",
			Instance: &domain.BulkRecoveryInstance{ID: testInstanceID, TaskchainID: "tc-1", JobID: "job-1"},
		},
	}, nil
}

func (m *mockRecoveryService) Progress(
	_ context.Context, _, instanceID string,
) (*domain.Progress, error) {
	return &domain.Progress{
		InstanceID:      instanceID,
		Status:          domain.StatusInProgress,
		CurrentStep:     "Restoring objects",
		Succeeded:       40,
		Failed:          2,
		InProgress:      8,
		Total:           50,
		GroupsProcessed: 1,
		TotalGroups:     1,
		StartTime:       "2024-03-01 12:00:00 UTC",
		ElapsedTime:     "0 days, 1 hours, 30 minutes, 0 seconds",
		FailureAction:   "IGNORE_AND_CONTINUE",
	}, nil
}

func (m *mockRecoveryService) Cancel(_ context.Context, _, _ string) error {
	return nil
}

func (m *mockRecoveryService) CompleteOperational(_ context.Context, _, _ string) error {
	return nil
}

func (m *mockRecoveryService) WaitForCompletion(
	_ context.Context, _, instanceID string, _ time.Duration,
) (*domain.Progress, error) {
	return &domain.Progress{
		InstanceID:    instanceID,
		Status:        domain.StatusSucceeded,
		Succeeded:     50,
		Total:         50,
		FailureAction: "IGNORE_AND_CONTINUE",
	}, nil
}

func (m *mockRecoveryService) List(_ context.Context) ([]domain.RecoveryRecord, error) {
	return []domain.RecoveryRecord{
		{
			ID:           "rec-1",
			Name:         "Migration1_Mailbox",
			InstanceID:   testInstanceID,
			Workload:     domain.WorkloadExchange,
			SubWorkload:  domain.SubWorkloadMailbox,
			Operational:  true,
			Subscription: "Corp Tenant",
			CreatedAt:    time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
		},
	}, nil
}

// mockRecoveryServiceError implements driving.RecoveryService that returns errors.
type mockRecoveryServiceError struct{}

func (m *mockRecoveryServiceError) Start(
	_ context.Context, _ driving.StartRecoveryRequest,
) ([]domain.LaunchResult, error) {
	return nil, domain.ErrSubscriptionNotExactlyOne
}

func (m *mockRecoveryServiceError) Progress(_ context.Context, _, _ string) (*domain.Progress, error) {
	return nil, domain.ErrInvalidInstanceID
}

func (m *mockRecoveryServiceError) Cancel(_ context.Context, _, _ string) error {
	return domain.ErrNotFound
}

func (m *mockRecoveryServiceError) CompleteOperational(_ context.Context, _, _ string) error {
	return domain.ErrNotFound
}

func (m *mockRecoveryServiceError) WaitForCompletion(
	_ context.Context, _, _ string, _ time.Duration,
) (*domain.Progress, error) {
	return nil, domain.ErrInvalidInstanceID
}

func (m *mockRecoveryServiceError) List(_ context.Context) ([]domain.RecoveryRecord, error) {
	return nil, domain.ErrBackend
}

// mockRecoveryServiceEmpty returns empty lists for testing edge cases.
type mockRecoveryServiceEmpty struct {
	mockRecoveryService
}

func (m *mockRecoveryServiceEmpty) List(_ context.Context) ([]domain.RecoveryRecord, error) {
	return nil, nil
}

// mockSubscriptionService implements driving.SubscriptionService for testing.
type mockSubscriptionService struct{}

func (m *mockSubscriptionService) List(_ context.Context) ([]domain.Subscription, error) {
	return []domain.Subscription{
		{ID: "sub-1", Name: "Corp Tenant", Status: domain.SubscriptionStatusActive},
		{ID: "sub-2", Name: "Lab Tenant", Status: "DISABLED"},
	}, nil
}

func (m *mockSubscriptionService) Resolve(_ context.Context, name string) (domain.SubscriptionRef, error) {
	if name != "Corp Tenant" {
		return domain.SubscriptionRef{}, domain.ErrSubscriptionNotExactlyOne
	}
	return domain.SubscriptionRef{Name: name, ID: "sub-1"}, nil
}

// mockSubscriptionServiceEmpty returns no subscriptions.
type mockSubscriptionServiceEmpty struct{}

func (m *mockSubscriptionServiceEmpty) List(_ context.Context) ([]domain.Subscription, error) {
	return nil, nil
}

func (m *mockSubscriptionServiceEmpty) Resolve(_ context.Context, _ string) (domain.SubscriptionRef, error) {
	return domain.SubscriptionRef{}, domain.ErrSubscriptionNotExactlyOne
}

// setupTestServices injects mock services for testing and returns a cleanup func.
func setupTestServices() func() {
	oldRecovery := recoveryService
	oldSubscription := subscriptionService
	oldConfig := configStore

	recoveryService = &mockRecoveryService{}
	subscriptionService = &mockSubscriptionService{}
	configStore = nil

	return func() {
		recoveryService = oldRecovery
		subscriptionService = oldSubscription
		configStore = oldConfig
	}
}
