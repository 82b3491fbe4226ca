package services

import (
	"fmt"
	"time"

	"github.com/castellan-labs/m365vault-cli/internal/core/domain"
	"github.com/castellan-labs/m365vault-cli/internal/core/ports/driving"
)

// snappableEntry maps a workload to the wire identifiers of one of its
// sub-workloads and the suffix appended to the recovery name.
type snappableEntry struct {
	snappable    domain.SnappableType
	subSnappable domain.SubSnappableType
	subWorkload  domain.SubWorkloadType
	nameSuffix   string
}

// snappableTable is the static workload fan-out. Exchange splits into three
// sub-workloads submitted in this order; OneDrive and SharePoint have a
// single NONE entry.
var snappableTable = map[domain.WorkloadType][]snappableEntry{
	domain.WorkloadOneDrive: {
		{domain.SnappableOneDrive, domain.SubSnappableNone, domain.SubWorkloadNone, "OneDrive"},
	},
	domain.WorkloadSharePoint: {
		{domain.SnappableSharePoint, domain.SubSnappableNone, domain.SubWorkloadNone, "SharePoint"},
	},
	domain.WorkloadExchange: {
		{domain.SnappableExchange, domain.SubSnappableMailbox, domain.SubWorkloadMailbox, "Mailbox"},
		{domain.SnappableExchange, domain.SubSnappableCalendar, domain.SubWorkloadCalendar, "Calendar"},
		{domain.SnappableExchange, domain.SubSnappableContacts, domain.SubWorkloadContacts, "Contacts"},
	},
}

// calendarLookback is the fixed window for Calendar operational recoveries.
// The backend only supports a 14-day calendar range; caller-supplied bounds
// are ignored for this sub-workload.
const calendarLookback = 14 * 24 * time.Hour

// SpecBuilder produces backend recovery specifications from a launch
// request: one spec per sub-workload surviving the optional filter.
type SpecBuilder struct {
	now func() time.Time
}

// NewSpecBuilder creates a spec builder using the wall clock.
func NewSpecBuilder() *SpecBuilder {
	return &SpecBuilder{now: time.Now}
}

// Build validates the request and returns the ordered recovery specs.
// Validation failures are reported to the caller before anything is sent
// to the backend.
func (b *SpecBuilder) Build(
	req driving.StartRecoveryRequest, sub domain.SubscriptionRef,
) ([]domain.RecoverySpec, error) {
	entries, ok := snappableTable[req.Workload]
	if !ok {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownWorkload, req.Workload)
	}

	if err := validateSelector(req); err != nil {
		return nil, err
	}

	if req.SubWorkload != domain.SubWorkloadNone {
		entries = filterEntries(entries, req.SubWorkload)
		if len(entries) == 0 {
			return nil, fmt.Errorf("%w: workload %q has no sub-workload %q",
				domain.ErrInvalidInput, req.Workload, req.SubWorkload)
		}
	}

	if req.Operational {
		if err := validateOperationalWindow(req, entries); err != nil {
			return nil, err
		}
	}

	specs := make([]domain.RecoverySpec, 0, len(entries))
	for _, entry := range entries {
		spec := domain.RecoverySpec{
			SnappableType:        entry.snappable,
			SubSnappableType:     entry.subSnappable,
			NameSuffix:           entry.nameSuffix,
			RecoveryPointMs:      req.RecoveryPoint.UnixMilli(),
			SourceSubscriptionID: sub.ID,
			TargetSubscriptionID: sub.ID,
		}
		if req.Operational {
			spec.Operational = b.operationalSpec(req, entry)
		}
		if req.Inplace {
			spec.Inplace = &domain.InplaceRecoverySpec{NameCollisionRule: domain.NameCollisionOverwrite}
		}
		specs = append(specs, spec)
	}
	return specs, nil
}

// validateSelector checks the group selector legal for the workload type:
// AD group id for OneDrive and Exchange, configured group name for
// SharePoint.
func validateSelector(req driving.StartRecoveryRequest) error {
	switch req.Workload {
	case domain.WorkloadOneDrive, domain.WorkloadExchange:
		if req.ADGroupID == "" {
			return fmt.Errorf("%w: %s requires an AD group id", domain.ErrMissingGroupSelector, req.Workload)
		}
	case domain.WorkloadSharePoint:
		if req.ConfiguredGroupName == "" {
			return fmt.Errorf("%w: sharepoint requires a configured group name", domain.ErrMissingGroupSelector)
		}
	default:
		return fmt.Errorf("%w: %q", domain.ErrUnknownWorkload, req.Workload)
	}
	return nil
}

// validateOperationalWindow enforces the minimum narrowing an operational
// recovery must carry: a Mailbox sub-workload needs one of fromTime,
// untilTime, or an archive folder action; OneDrive and SharePoint need one
// of fromTime or untilTime. Calendar always uses the fixed lookback.
func validateOperationalWindow(req driving.StartRecoveryRequest, entries []snappableEntry) error {
	hasRange := !req.FromTime.IsZero() || !req.UntilTime.IsZero()

	for _, entry := range entries {
		switch entry.subWorkload {
		case domain.SubWorkloadMailbox:
			if !hasRange && req.ArchiveFolderAction == "" {
				return fmt.Errorf(
					"%w: mailbox needs fromTime, untilTime, or an archive folder action",
					domain.ErrMissingRecoveryWindow)
			}
		case domain.SubWorkloadNone:
			if !hasRange {
				return fmt.Errorf("%w: %s needs fromTime or untilTime",
					domain.ErrMissingRecoveryWindow, req.Workload)
			}
		case domain.SubWorkloadCalendar, domain.SubWorkloadContacts:
			// Calendar uses the fixed lookback; Contacts carries no window.
		}
	}
	return nil
}

// operationalSpec builds the per-sub-workload operational variant.
func (b *SpecBuilder) operationalSpec(
	req driving.StartRecoveryRequest, entry snappableEntry,
) *domain.OperationalRecoverySpec {
	switch entry.subWorkload {
	case domain.SubWorkloadMailbox:
		return &domain.OperationalRecoverySpec{
			Mailbox: &domain.MailboxOperationalSpec{
				FromTimeMs:          epochMs(req.FromTime),
				UntilTimeMs:         epochMs(req.UntilTime),
				ArchiveFolderAction: req.ArchiveFolderAction,
			},
		}
	case domain.SubWorkloadCalendar:
		now := b.now()
		return &domain.OperationalRecoverySpec{
			Calendar: &domain.CalendarOperationalSpec{
				FromTimeMs:  now.Add(-calendarLookback).UnixMilli(),
				UntilTimeMs: now.UnixMilli(),
			},
		}
	case domain.SubWorkloadContacts:
		// Contacts has no operational narrowing; the remaining data is
		// picked up by the complete-operational-recovery stage.
		return nil
	case domain.SubWorkloadNone:
		return &domain.OperationalRecoverySpec{
			Site: &domain.SiteOperationalSpec{
				LastModifiedFromMs:       epochMs(req.FromTime),
				LastModifiedUntilMs:      epochMs(req.UntilTime),
				ShouldSkipItemPermission: req.ShouldSkipItemPermission,
				SiteOwnerEmail:           req.SiteOwnerEmail,
			},
		}
	default:
		return nil
	}
}

func filterEntries(entries []snappableEntry, filter domain.SubWorkloadType) []snappableEntry {
	var kept []snappableEntry
	for _, entry := range entries {
		if entry.subWorkload == filter {
			kept = append(kept, entry)
		}
	}
	return kept
}

// epochMs converts a time to epoch milliseconds, mapping the zero time to 0
// so unset bounds are omitted on the wire.
func epochMs(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.UnixMilli()
}
