// Package polaris is the client for the backup platform's GraphQL API.
//
// This package provides:
//   - A single-endpoint GraphQL transport (POST, JSON body, bearer auth)
//   - The named operations consumed by the recovery subsystem
//   - Rate limiting for API requests
//   - Error mapping for HTTP statuses and GraphQL error envelopes
//
// # Wire format
//
// Every call POSTs {"operationName", "query", "variables"} to
// <account URL>/api/graphql. Responses carry the usual {"data", "errors"}
// envelope; when the errors array is non-empty the first message is
// surfaced as the failure reason and the data is not interpreted.
//
// # Operations
//
//   - O365Orgs: lists tenant organisations for subscription resolution
//   - StartBulkRecovery: submits one named bulk recovery
//   - BulkRecoveryProgress: fetches instance progress
//   - CancelBulkRecovery: requests cancellation
//   - CompleteOperationalRecovery: restores remaining data for an
//     operational recovery instance
//
// Field absence has wire significance in recovery specs: an omitted
// inplaceRecoverySpec selects restore-to-alternate semantics, so optional
// spec fields marshal with omitempty and are never sent as null.
package polaris
