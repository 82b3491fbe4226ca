package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/castellan-labs/m365vault-cli/internal/core/domain"
)

func TestSubscriptionResolve(t *testing.T) {
	tests := []struct {
		name    string
		subs    []domain.Subscription
		query   string
		wantID  string
		wantErr error
	}{
		{
			name: "exactly one active match",
			subs: []domain.Subscription{
				{ID: "sub-1", Name: "Corp Tenant", Status: domain.SubscriptionStatusActive},
				{ID: "sub-2", Name: "Lab Tenant", Status: domain.SubscriptionStatusActive},
			},
			query:  "Corp Tenant",
			wantID: "sub-1",
		},
		{
			name: "zero matches",
			subs: []domain.Subscription{
				{ID: "sub-1", Name: "Corp Tenant", Status: domain.SubscriptionStatusActive},
			},
			query:   "Missing Tenant",
			wantErr: domain.ErrSubscriptionNotExactlyOne,
		},
		{
			name: "two active matches are ambiguous",
			subs: []domain.Subscription{
				{ID: "sub-1", Name: "Corp Tenant", Status: domain.SubscriptionStatusActive},
				{ID: "sub-2", Name: "Corp Tenant", Status: domain.SubscriptionStatusActive},
			},
			query:   "Corp Tenant",
			wantErr: domain.ErrSubscriptionNotExactlyOne,
		},
		{
			name: "inactive match does not count",
			subs: []domain.Subscription{
				{ID: "sub-1", Name: "Corp Tenant", Status: "DISABLED"},
			},
			query:   "Corp Tenant",
			wantErr: domain.ErrSubscriptionNotExactlyOne,
		},
		{
			name: "inactive duplicate is ignored",
			subs: []domain.Subscription{
				{ID: "sub-1", Name: "Corp Tenant", Status: domain.SubscriptionStatusActive},
				{ID: "sub-2", Name: "Corp Tenant", Status: "DISABLED"},
			},
			query:  "Corp Tenant",
			wantID: "sub-1",
		},
		{
			name:    "empty name",
			subs:    nil,
			query:   "",
			wantErr: domain.ErrInvalidInput,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			backend := newFakeBackend()
			backend.subs = tt.subs
			svc := NewSubscriptionService(backend)

			ref, err := svc.Resolve(context.Background(), tt.query)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantID, ref.ID)
			assert.Equal(t, tt.query, ref.Name)
		})
	}
}

func TestSubscriptionResolve_BackendError(t *testing.T) {
	backend := newFakeBackend()
	backend.listErr = errBackendDown
	svc := NewSubscriptionService(backend)

	_, err := svc.Resolve(context.Background(), "Corp Tenant")

	assert.ErrorIs(t, err, errBackendDown)
}

func TestSubscriptionList(t *testing.T) {
	backend := newFakeBackend()
	backend.subs = append(backend.subs, domain.Subscription{ID: "sub-2", Name: "Lab Tenant", Status: "DISABLED"})
	svc := NewSubscriptionService(backend)

	subs, err := svc.List(context.Background())

	require.NoError(t, err)
	assert.Len(t, subs, 2, "listing includes inactive subscriptions")
}
