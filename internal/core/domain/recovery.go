package domain

import "time"

// SubscriptionRef is a resolved tenant subscription: display name plus the
// opaque backend identifier. Resolved once per top-level operation, never
// cached across calls.
type SubscriptionRef struct {
	Name string
	ID   string
}

// Subscription is one tenant organisation as listed by the backend.
type Subscription struct {
	ID     string
	Name   string
	Status string
}

// SubscriptionStatusActive is the status value a subscription must carry to
// be eligible for name resolution.
const SubscriptionStatusActive = "ACTIVE"

// GroupSelector identifies the accounts a bulk recovery applies to. Exactly
// one field is populated: ADGroupID for OneDrive and Exchange, or
// ConfiguredGroupName for SharePoint.
type GroupSelector struct {
	ADGroupID           string
	ConfiguredGroupName string
}

// SnappableType is the backend workload identifier carried on the wire.
type SnappableType string

const (
	// SnappableOneDrive is the OneDrive workload.
	SnappableOneDrive SnappableType = "O365_ONEDRIVE"
	// SnappableExchange is the Exchange workload.
	SnappableExchange SnappableType = "O365_EXCHANGE"
	// SnappableSharePoint is the SharePoint workload.
	SnappableSharePoint SnappableType = "O365_SHAREPOINT"
)

// SubSnappableType is the backend sub-workload identifier carried on the wire.
type SubSnappableType string

const (
	// SubSnappableNone is for single-type workloads.
	SubSnappableNone SubSnappableType = "NONE"
	// SubSnappableMailbox is Exchange mail.
	SubSnappableMailbox SubSnappableType = "O365_MAILBOX"
	// SubSnappableCalendar is Exchange calendar.
	SubSnappableCalendar SubSnappableType = "O365_CALENDAR"
	// SubSnappableContacts is Exchange contacts.
	SubSnappableContacts SubSnappableType = "O365_CONTACTS"
)

// MailboxOperationalSpec bounds a mailbox operational recovery. Zero time
// values mean "not supplied"; at least one of the three fields must be set.
type MailboxOperationalSpec struct {
	FromTimeMs          int64
	UntilTimeMs         int64
	ArchiveFolderAction ArchiveFolderAction
}

// CalendarOperationalSpec bounds a calendar operational recovery. The window
// is always the fixed 14-day lookback; caller-supplied bounds are ignored.
type CalendarOperationalSpec struct {
	FromTimeMs  int64
	UntilTimeMs int64
}

// SiteOperationalSpec bounds a OneDrive or SharePoint operational recovery
// by last-modified time, with optional site-level options.
type SiteOperationalSpec struct {
	LastModifiedFromMs       int64
	LastModifiedUntilMs      int64
	ShouldSkipItemPermission bool
	SiteOwnerEmail           string
}

// OperationalRecoverySpec is the per-workload operational variant. Exactly
// one pointer is set, matching the spec's sub-workload.
type OperationalRecoverySpec struct {
	Mailbox  *MailboxOperationalSpec
	Calendar *CalendarOperationalSpec
	Site     *SiteOperationalSpec
}

// NameCollisionOverwrite is the only collision rule in-place recovery sends.
const NameCollisionOverwrite = "OVERWRITE"

// InplaceRecoverySpec selects in-place restore semantics. Its absence (nil)
// selects restore-to-alternate semantics; absence has wire significance.
type InplaceRecoverySpec struct {
	NameCollisionRule string
}

// RecoverySpec is one backend recovery specification, one per sub-workload.
type RecoverySpec struct {
	SnappableType    SnappableType
	SubSnappableType SubSnappableType
	// NameSuffix is appended to the base recovery name, e.g. "Mailbox".
	NameSuffix           string
	RecoveryPointMs      int64
	SourceSubscriptionID string
	TargetSubscriptionID string
	Operational          *OperationalRecoverySpec
	Inplace              *InplaceRecoverySpec
}

// BulkRecoveryDefinition is a launch request: a base name, the group
// selector, and one RecoverySpec per applicable sub-workload. Each spec is
// submitted as an independent named recovery "<BaseName>_<NameSuffix>".
type BulkRecoveryDefinition struct {
	BaseName string
	Selector GroupSelector
	Specs    []RecoverySpec
}

// BulkRecoveryInstance is the handle returned for one submitted recovery.
type BulkRecoveryInstance struct {
	ID          string
	TaskchainID string
	JobID       string
}

// LaunchResult is the outcome of submitting one sub-workload recovery.
// Failures are isolated per sub-workload: a failed sibling does not stop
// the remaining submissions, so each result carries its own error.
type LaunchResult struct {
	Name     string
	Spec     RecoverySpec
	Instance *BulkRecoveryInstance
	Err      error
}

// WorkloadProgress is per-workload progress within one group.
type WorkloadProgress struct {
	SnappableType    SnappableType
	SubSnappableType SubSnappableType
	Status           RecoveryStatus
	Succeeded        int64
	Failed           int64
	InProgress       int64
	Total            int64
}

// GroupProgress is per-group progress within a recovery instance.
type GroupProgress struct {
	GroupName string
	GroupID   string
	GroupType string
	Workloads []WorkloadProgress
}

// ProgressSnapshot is the raw backend progress state for an instance, with
// epoch-millisecond timestamps. It is a read-only projection recomputed on
// every poll.
type ProgressSnapshot struct {
	Status            RecoveryStatus
	CurrentStep       string
	Succeeded         int64
	Failed            int64
	InProgress        int64
	Total             int64
	WithoutSnapshot   int64
	GroupsProcessed   int64
	TotalGroups       int64
	CreateTimeMs      int64
	StartTimeMs       int64
	EndTimeMs         int64
	ElapsedTimeMs     int64
	FailureReason     string
	FailureActionType string
	Groups            []GroupProgress
}

// Progress is the shaped, display-ready view of a ProgressSnapshot.
type Progress struct {
	InstanceID string
	Status     RecoveryStatus
	// CurrentStep is populated only while Status is IN_PROGRESS.
	CurrentStep string
	Succeeded   int64
	Failed      int64
	InProgress  int64
	// Canceled is computed and populated only when Status is CANCELED.
	Canceled        int64
	Total           int64
	WithoutSnapshot int64
	GroupsProcessed int64
	TotalGroups     int64
	CreateTime      string
	StartTime       string
	EndTime         string
	ElapsedTime     string
	FailureReason   string
	FailureAction   string
	// Group is the first group, flattened for display.
	Group *GroupProgress
	// Groups is the full multi-group detail.
	Groups []GroupProgress
}

// RecoveryRecord is one row of the local launch ledger.
type RecoveryRecord struct {
	ID           string
	Name         string
	InstanceID   string
	Workload     WorkloadType
	SubWorkload  SubWorkloadType
	Operational  bool
	Subscription string
	CreatedAt    time.Time
}
