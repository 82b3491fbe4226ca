package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/castellan-labs/m365vault-cli/internal/core/domain"
	"github.com/castellan-labs/m365vault-cli/internal/core/ports/driven"
)

const (
	testInstanceID = "7e2bc6f0-0001-4a6e-9a1d-000000000001"
	testSubID      = "sub-1"
	testSubName    = "Corp Tenant"
)

// startCall records one StartBulkRecovery invocation.
type startCall struct {
	name     string
	selector domain.GroupSelector
	spec     domain.RecoverySpec
}

// fakeBackend implements driven.Backend in memory for testing.
type fakeBackend struct {
	subs    []domain.Subscription
	listErr error

	started []startCall
	// startErrFor maps a submission name to an error, failing just that one.
	startErrFor map[string]error
	nextID      int

	snapshots    []*domain.ProgressSnapshot
	progressErr  error
	failFirst    int
	progressPos  int
	progressGets int

	cancelOK    bool
	cancelErr   error
	completeOK  bool
	completeErr error
}

var _ driven.Backend = (*fakeBackend)(nil)

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		subs: []domain.Subscription{
			{ID: testSubID, Name: testSubName, Status: domain.SubscriptionStatusActive},
		},
		cancelOK:   true,
		completeOK: true,
	}
}

func (f *fakeBackend) ListSubscriptions(_ context.Context) ([]domain.Subscription, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.subs, nil
}

func (f *fakeBackend) StartBulkRecovery(
	_ context.Context, name string, selector domain.GroupSelector, spec domain.RecoverySpec,
) (*domain.BulkRecoveryInstance, error) {
	if err, ok := f.startErrFor[name]; ok {
		return nil, err
	}
	f.started = append(f.started, startCall{name: name, selector: selector, spec: spec})
	f.nextID++
	return &domain.BulkRecoveryInstance{
		ID:          fmt.Sprintf("7e2bc6f0-0001-4a6e-9a1d-%012d", f.nextID),
		TaskchainID: fmt.Sprintf("tc-%d", f.nextID),
		JobID:       fmt.Sprintf("job-%d", f.nextID),
	}, nil
}

func (f *fakeBackend) RecoveryProgress(_ context.Context, _ string) (*domain.ProgressSnapshot, error) {
	f.progressGets++
	if f.failFirst > 0 {
		f.failFirst--
		return nil, errBackendDown
	}
	if f.progressErr != nil {
		return nil, f.progressErr
	}
	if len(f.snapshots) == 0 {
		return &domain.ProgressSnapshot{Status: domain.StatusInProgress}, nil
	}
	snap := f.snapshots[f.progressPos]
	if f.progressPos < len(f.snapshots)-1 {
		f.progressPos++
	}
	return snap, nil
}

func (f *fakeBackend) CancelRecovery(_ context.Context, _ string) (bool, error) {
	return f.cancelOK, f.cancelErr
}

func (f *fakeBackend) CompleteOperationalRecovery(_ context.Context, _ string) (bool, error) {
	return f.completeOK, f.completeErr
}

// fakeLedger implements driven.RecoveryLedger in memory for testing.
type fakeLedger struct {
	records   []domain.RecoveryRecord
	recordErr error
}

var _ driven.RecoveryLedger = (*fakeLedger)(nil)

func (f *fakeLedger) Record(_ context.Context, rec domain.RecoveryRecord) error {
	if f.recordErr != nil {
		return f.recordErr
	}
	f.records = append(f.records, rec)
	return nil
}

func (f *fakeLedger) List(_ context.Context) ([]domain.RecoveryRecord, error) {
	out := make([]domain.RecoveryRecord, len(f.records))
	for i := range f.records {
		out[len(f.records)-1-i] = f.records[i]
	}
	return out, nil
}

func (f *fakeLedger) FindByInstance(_ context.Context, instanceID string) (*domain.RecoveryRecord, error) {
	for i := len(f.records) - 1; i >= 0; i-- {
		if f.records[i].InstanceID == instanceID {
			return &f.records[i], nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakeLedger) Close() error { return nil }

// errBackendDown simulates a transient backend outage.
var errBackendDown = errors.New("backend down")
