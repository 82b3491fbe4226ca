package domain

import "fmt"

// WorkloadType identifies the Microsoft 365 workload a recovery applies to.
type WorkloadType string

const (
	// WorkloadOneDrive is for OneDrive user drives.
	WorkloadOneDrive WorkloadType = "onedrive"
	// WorkloadExchange is for Exchange data (mailbox, calendar, contacts).
	WorkloadExchange WorkloadType = "exchange"
	// WorkloadSharePoint is for SharePoint sites, libraries, and lists.
	WorkloadSharePoint WorkloadType = "sharepoint"
)

// ParseWorkloadType converts a user-supplied string to a WorkloadType.
func ParseWorkloadType(s string) (WorkloadType, error) {
	switch WorkloadType(s) {
	case WorkloadOneDrive, WorkloadExchange, WorkloadSharePoint:
		return WorkloadType(s), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownWorkload, s)
	}
}

// SubWorkloadType identifies a finer-grained data category within a workload.
// Only Exchange splits into sub-workloads; OneDrive and SharePoint use
// SubWorkloadNone.
type SubWorkloadType string

const (
	// SubWorkloadNone is for single-type workloads.
	SubWorkloadNone SubWorkloadType = "none"
	// SubWorkloadMailbox is Exchange mail data.
	SubWorkloadMailbox SubWorkloadType = "mailbox"
	// SubWorkloadCalendar is Exchange calendar data.
	SubWorkloadCalendar SubWorkloadType = "calendar"
	// SubWorkloadContacts is Exchange contact data.
	SubWorkloadContacts SubWorkloadType = "contacts"
)

// ParseSubWorkloadType converts a user-supplied string to a SubWorkloadType.
// The empty string parses to SubWorkloadNone, meaning "no filter".
func ParseSubWorkloadType(s string) (SubWorkloadType, error) {
	if s == "" {
		return SubWorkloadNone, nil
	}
	switch SubWorkloadType(s) {
	case SubWorkloadNone, SubWorkloadMailbox, SubWorkloadCalendar, SubWorkloadContacts:
		return SubWorkloadType(s), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownWorkload, s)
	}
}

// ArchiveFolderAction controls how a mailbox recovery treats the archive folder.
type ArchiveFolderAction string

const (
	// ArchiveNoAction restores without special archive handling.
	ArchiveNoAction ArchiveFolderAction = "NO_ACTION"
	// ArchiveExclude restores everything except the archive folder.
	ArchiveExclude ArchiveFolderAction = "EXCLUDE_ARCHIVE"
	// ArchiveOnly restores only the archive folder.
	ArchiveOnly ArchiveFolderAction = "ARCHIVE_ONLY"
)

// ParseArchiveFolderAction converts a user-supplied string to an
// ArchiveFolderAction. The empty string means "not specified".
func ParseArchiveFolderAction(s string) (ArchiveFolderAction, error) {
	if s == "" {
		return "", nil
	}
	switch ArchiveFolderAction(s) {
	case ArchiveNoAction, ArchiveExclude, ArchiveOnly:
		return ArchiveFolderAction(s), nil
	default:
		return "", fmt.Errorf("%w: archive folder action %q", ErrInvalidInput, s)
	}
}

// RecoveryStatus is the backend-reported state of a bulk recovery instance.
type RecoveryStatus string

const (
	// StatusInProgress means the recovery is still running.
	StatusInProgress RecoveryStatus = "IN_PROGRESS"
	// StatusSucceeded means the recovery finished without failures.
	StatusSucceeded RecoveryStatus = "SUCCEEDED"
	// StatusPartiallySucceeded means some objects failed.
	StatusPartiallySucceeded RecoveryStatus = "PARTIALLY_SUCCEEDED"
	// StatusFailed means the recovery failed.
	StatusFailed RecoveryStatus = "FAILED"
	// StatusCanceled means the recovery was canceled.
	StatusCanceled RecoveryStatus = "CANCELED"
	// StatusScheduled means the recovery has not started yet.
	StatusScheduled RecoveryStatus = "SCHEDULED"
)

// IsTerminal reports whether the status can no longer change.
func (s RecoveryStatus) IsTerminal() bool {
	switch s {
	case StatusSucceeded, StatusPartiallySucceeded, StatusFailed, StatusCanceled:
		return true
	case StatusInProgress, StatusScheduled:
		return false
	default:
		return false
	}
}
