package services

import (
	"fmt"
	"time"

	"github.com/castellan-labs/m365vault-cli/internal/core/domain"
)

// displayTimeFormat is how epoch timestamps render in progress output.
const displayTimeFormat = "2006-01-02 15:04:05 MST"

// shapeProgress converts a raw backend snapshot into the display-ready view.
// The shaping is deterministic and backend-independent:
//   - epoch timestamps become local-time strings, absent ones become ""
//   - elapsed time becomes "D days, H hours, M minutes, S seconds", forced
//     empty when the recovery has not started
//   - currentStep survives only while IN_PROGRESS
//   - canceledObjects is computed only for CANCELED, and the failure reason
//     is cleared for it
//   - failureActionType is normalised to IGNORE_AND_CONTINUE, the only
//     policy this subsystem supports end to end
//   - the per-group detail is flattened to its first element for display
func shapeProgress(instanceID string, snap *domain.ProgressSnapshot) *domain.Progress {
	p := &domain.Progress{
		InstanceID:      instanceID,
		Status:          snap.Status,
		Succeeded:       snap.Succeeded,
		Failed:          snap.Failed,
		InProgress:      snap.InProgress,
		Total:           snap.Total,
		WithoutSnapshot: snap.WithoutSnapshot,
		GroupsProcessed: snap.GroupsProcessed,
		TotalGroups:     snap.TotalGroups,
		CreateTime:      formatEpochMs(snap.CreateTimeMs),
		StartTime:       formatEpochMs(snap.StartTimeMs),
		EndTime:         formatEpochMs(snap.EndTimeMs),
		FailureReason:   snap.FailureReason,
		FailureAction:   "IGNORE_AND_CONTINUE",
		Groups:          snap.Groups,
	}

	// A recovery that has not started cannot have elapsed.
	if snap.StartTimeMs != 0 {
		p.ElapsedTime = formatElapsed(snap.ElapsedTimeMs)
	}

	if snap.Status == domain.StatusInProgress {
		p.CurrentStep = snap.CurrentStep
	}

	if snap.Status == domain.StatusCanceled {
		p.Canceled = snap.Total - snap.Succeeded - snap.Failed - snap.InProgress
		if p.Canceled < 0 {
			p.Canceled = 0
		}
		p.FailureReason = ""
	}

	if len(snap.Groups) > 0 {
		first := snap.Groups[0]
		p.Group = &first
	}

	return p
}

// formatEpochMs renders an epoch-millisecond timestamp in local time.
// Zero means the backend did not report the timestamp.
func formatEpochMs(ms int64) string {
	if ms == 0 {
		return ""
	}
	return time.UnixMilli(ms).Local().Format(displayTimeFormat)
}

// formatElapsed renders a millisecond duration as
// "D days, H hours, M minutes, S seconds".
func formatElapsed(ms int64) string {
	if ms < 0 {
		ms = 0
	}
	total := ms / 1000
	days := total / 86400
	hours := (total % 86400) / 3600
	minutes := (total % 3600) / 60
	seconds := total % 60
	return fmt.Sprintf("%d days, %d hours, %d minutes, %d seconds", days, hours, minutes, seconds)
}
