package domain

import "errors"

// Sentinel errors shared across services and adapters.
var (
	// ErrInvalidInput indicates a malformed or missing user-supplied value.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnknownWorkload indicates an unrecognised workload or sub-workload type.
	ErrUnknownWorkload = errors.New("unknown workload type")

	// ErrSubscriptionNotExactlyOne indicates a subscription name matched zero
	// or more than one active organisation. Resolution requires exactly one.
	ErrSubscriptionNotExactlyOne = errors.New("zero or more than 1 subscriptions matched")

	// ErrInvalidInstanceID indicates a recovery instance identifier that is
	// not a valid UUID. Checked before any network call.
	ErrInvalidInstanceID = errors.New("recovery instance id is not a valid UUID")

	// ErrMissingGroupSelector indicates the group selector required for the
	// workload type was not supplied (AD group id for OneDrive/Exchange,
	// configured group name for SharePoint).
	ErrMissingGroupSelector = errors.New("missing group selector for workload")

	// ErrMissingRecoveryWindow indicates an operational recovery was requested
	// without any of the time/flag fields that would bound it.
	ErrMissingRecoveryWindow = errors.New("operational recovery requires a time range or archive folder action")

	// ErrEmptyResponse indicates the backend returned no payload for a call.
	ErrEmptyResponse = errors.New("empty response from backend")

	// ErrBackend indicates the backend returned an error envelope.
	ErrBackend = errors.New("backend error")

	// ErrNotFound indicates a requested record does not exist.
	ErrNotFound = errors.New("not found")
)
