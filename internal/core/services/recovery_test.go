package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/castellan-labs/m365vault-cli/internal/core/domain"
	"github.com/castellan-labs/m365vault-cli/internal/core/ports/driving"
)

func newTestRecoveryService(backend *fakeBackend, ledger *fakeLedger) *RecoveryService {
	subs := NewSubscriptionService(backend)
	if ledger == nil {
		return NewRecoveryService(backend, subs, nil)
	}
	return NewRecoveryService(backend, subs, ledger)
}

func startRequest(workload domain.WorkloadType) driving.StartRecoveryRequest {
	req := driving.StartRecoveryRequest{
		Name:             "Migration1",
		SubscriptionName: testSubName,
		Workload:         workload,
		SubWorkload:      domain.SubWorkloadNone,
		RecoveryPoint:    time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
	switch workload {
	case domain.WorkloadSharePoint:
		req.ConfiguredGroupName = "Site Group"
	default:
		req.ADGroupID = "grp-123"
	}
	return req
}

func TestStart_OneDriveSubmitsOneNamedRecovery(t *testing.T) {
	backend := newFakeBackend()
	svc := newTestRecoveryService(backend, nil)

	results, err := svc.Start(context.Background(), startRequest(domain.WorkloadOneDrive))

	require.NoError(t, err)
	require.Len(t, results, 1)
	require.NoError(t, results[0].Err)
	assert.Equal(t, "Migration1_OneDrive", results[0].Name)
	require.NotNil(t, results[0].Instance)

	require.Len(t, backend.started, 1)
	assert.Equal(t, "grp-123", backend.started[0].selector.ADGroupID)
	assert.Equal(t, testSubID, backend.started[0].spec.SourceSubscriptionID)
}

func TestStart_ExchangeSubmitsThree(t *testing.T) {
	backend := newFakeBackend()
	svc := newTestRecoveryService(backend, nil)

	results, err := svc.Start(context.Background(), startRequest(domain.WorkloadExchange))

	require.NoError(t, err)
	require.Len(t, results, 3)
	assert.Equal(t, "Migration1_Mailbox", results[0].Name)
	assert.Equal(t, "Migration1_Calendar", results[1].Name)
	assert.Equal(t, "Migration1_Contacts", results[2].Name)
	assert.Len(t, backend.started, 3)
}

func TestStart_SharedSelectorAndBaseNameAcrossFanOut(t *testing.T) {
	backend := newFakeBackend()
	svc := newTestRecoveryService(backend, nil)

	// When an Exchange request fans out into three submissions
	_, err := svc.Start(context.Background(), startRequest(domain.WorkloadExchange))
	require.NoError(t, err)

	// Then every submission carries the same selector and base name
	require.Len(t, backend.started, 3)
	for _, call := range backend.started {
		assert.Equal(t, "grp-123", call.selector.ADGroupID)
		assert.Empty(t, call.selector.ConfiguredGroupName)
		assert.Equal(t, "Migration1_"+call.spec.NameSuffix, call.name)
	}
}

func TestStart_SiblingFailureIsIsolated(t *testing.T) {
	backend := newFakeBackend()
	backend.startErrFor = map[string]error{"Migration1_Calendar": errBackendDown}
	svc := newTestRecoveryService(backend, nil)

	results, err := svc.Start(context.Background(), startRequest(domain.WorkloadExchange))

	require.NoError(t, err, "per-sub-workload failures are reported in results")
	require.Len(t, results, 3)
	assert.NoError(t, results[0].Err)
	assert.ErrorIs(t, results[1].Err, errBackendDown)
	assert.Nil(t, results[1].Instance)
	assert.NoError(t, results[2].Err, "the contacts submission still happens")
	assert.Len(t, backend.started, 2)
}

func TestStart_ValidationStopsBeforeBackend(t *testing.T) {
	backend := newFakeBackend()
	svc := newTestRecoveryService(backend, nil)
	req := startRequest(domain.WorkloadOneDrive)
	req.ADGroupID = ""

	_, err := svc.Start(context.Background(), req)

	assert.ErrorIs(t, err, domain.ErrMissingGroupSelector)
	assert.Empty(t, backend.started)
}

func TestStart_MissingNameAndRecoveryPoint(t *testing.T) {
	svc := newTestRecoveryService(newFakeBackend(), nil)

	req := startRequest(domain.WorkloadOneDrive)
	req.Name = ""
	_, err := svc.Start(context.Background(), req)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	req = startRequest(domain.WorkloadOneDrive)
	req.RecoveryPoint = time.Time{}
	_, err = svc.Start(context.Background(), req)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestStart_AmbiguousSubscriptionStopsLaunch(t *testing.T) {
	backend := newFakeBackend()
	backend.subs = append(backend.subs, domain.Subscription{
		ID: "sub-2", Name: testSubName, Status: domain.SubscriptionStatusActive,
	})
	svc := newTestRecoveryService(backend, nil)

	_, err := svc.Start(context.Background(), startRequest(domain.WorkloadOneDrive))

	assert.ErrorIs(t, err, domain.ErrSubscriptionNotExactlyOne)
	assert.Empty(t, backend.started)
}

func TestStart_RecordsInLedger(t *testing.T) {
	backend := newFakeBackend()
	ledger := &fakeLedger{}
	svc := newTestRecoveryService(backend, ledger)
	req := startRequest(domain.WorkloadExchange)
	req.Operational = true
	req.FromTime = time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)

	_, err := svc.Start(context.Background(), req)

	require.NoError(t, err)
	require.Len(t, ledger.records, 3)
	assert.Equal(t, domain.SubWorkloadMailbox, ledger.records[0].SubWorkload)
	assert.True(t, ledger.records[0].Operational)
	assert.True(t, ledger.records[2].Operational,
		"contacts is part of an operational launch even without a window")
}

func TestStart_LedgerFailureDoesNotFailLaunch(t *testing.T) {
	backend := newFakeBackend()
	ledger := &fakeLedger{recordErr: errors.New("disk full")}
	svc := newTestRecoveryService(backend, ledger)

	results, err := svc.Start(context.Background(), startRequest(domain.WorkloadOneDrive))

	require.NoError(t, err)
	assert.NoError(t, results[0].Err)
}

func TestProgress_InvalidInstanceIDShortCircuits(t *testing.T) {
	backend := newFakeBackend()
	svc := newTestRecoveryService(backend, nil)

	_, err := svc.Progress(context.Background(), testSubName, "not-a-uuid")

	assert.ErrorIs(t, err, domain.ErrInvalidInstanceID)
	assert.Zero(t, backend.progressGets, "no network call for a malformed id")
}

func TestProgress_ShapesSnapshot(t *testing.T) {
	backend := newFakeBackend()
	backend.snapshots = []*domain.ProgressSnapshot{{
		Status:      domain.StatusInProgress,
		CurrentStep: "Restoring objects",
		Succeeded:   10,
		Total:       50,
		StartTimeMs: 1709294400000,
	}}
	svc := newTestRecoveryService(backend, nil)

	p, err := svc.Progress(context.Background(), testSubName, testInstanceID)

	require.NoError(t, err)
	assert.Equal(t, testInstanceID, p.InstanceID)
	assert.Equal(t, "Restoring objects", p.CurrentStep)
	assert.Equal(t, "IGNORE_AND_CONTINUE", p.FailureAction)
}

func TestCancel(t *testing.T) {
	backend := newFakeBackend()
	svc := newTestRecoveryService(backend, nil)

	err := svc.Cancel(context.Background(), testSubName, testInstanceID)

	assert.NoError(t, err)
}

func TestCancel_NotAccepted(t *testing.T) {
	backend := newFakeBackend()
	backend.cancelOK = false
	svc := newTestRecoveryService(backend, nil)

	err := svc.Cancel(context.Background(), testSubName, testInstanceID)

	assert.ErrorIs(t, err, domain.ErrBackend)
}

func TestCancel_InvalidInstanceID(t *testing.T) {
	svc := newTestRecoveryService(newFakeBackend(), nil)

	err := svc.Cancel(context.Background(), testSubName, "nope")

	assert.ErrorIs(t, err, domain.ErrInvalidInstanceID)
}

func TestCompleteOperational(t *testing.T) {
	backend := newFakeBackend()
	ledger := &fakeLedger{records: []domain.RecoveryRecord{{
		InstanceID: testInstanceID, Operational: true,
	}}}
	svc := newTestRecoveryService(backend, ledger)

	err := svc.CompleteOperational(context.Background(), testSubName, testInstanceID)

	assert.NoError(t, err)
}

func TestCompleteOperational_UnknownInstanceStillIssued(t *testing.T) {
	backend := newFakeBackend()
	svc := newTestRecoveryService(backend, &fakeLedger{})

	err := svc.CompleteOperational(context.Background(), testSubName, testInstanceID)

	assert.NoError(t, err, "missing ledger lineage is advisory only")
}

func TestCompleteOperational_BackendError(t *testing.T) {
	backend := newFakeBackend()
	backend.completeErr = errBackendDown
	svc := newTestRecoveryService(backend, nil)

	err := svc.CompleteOperational(context.Background(), testSubName, testInstanceID)

	assert.ErrorIs(t, err, errBackendDown)
}

func TestList_NilLedger(t *testing.T) {
	svc := newTestRecoveryService(newFakeBackend(), nil)

	records, err := svc.List(context.Background())

	require.NoError(t, err)
	assert.Nil(t, records)
}

func TestList_ReturnsNewestFirst(t *testing.T) {
	ledger := &fakeLedger{}
	svc := newTestRecoveryService(newFakeBackend(), ledger)
	_, err := svc.Start(context.Background(), startRequest(domain.WorkloadExchange))
	require.NoError(t, err)

	records, err := svc.List(context.Background())

	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, "Migration1_Contacts", records[0].Name)
}
