package polaris

import (
	"github.com/castellan-labs/m365vault-cli/internal/core/domain"
)

// Recovery definition constants. IGNORE_AND_CONTINUE is the only failure
// action this client ever sends.
const (
	recoveryModeAdHoc        = "AD_HOC"
	failureIgnoreAndContinue = "IGNORE_AND_CONTINUE"
	recoveryDomainO365       = "O365"
)

// timeRange is an epoch-millisecond window. Zero bounds are omitted.
type timeRange struct {
	FromTime  int64 `json:"fromTime,omitempty"`
	UntilTime int64 `json:"untilTime,omitempty"`
}

// lastModifiedTimeFilter bounds drive/site recoveries by modification time.
type lastModifiedTimeFilter struct {
	FromTime  int64 `json:"fromTime,omitempty"`
	UntilTime int64 `json:"untilTime,omitempty"`
}

type operationalRecoverySpec struct {
	MailboxTimeRange         *timeRange              `json:"mailboxTimeRange,omitempty"`
	ArchiveFolderAction      string                  `json:"archiveFolderAction,omitempty"`
	CalendarTimeRange        *timeRange              `json:"calendarTimeRange,omitempty"`
	LastModifiedTimeFilter   *lastModifiedTimeFilter `json:"lastModifiedTimeFilter,omitempty"`
	ShouldSkipItemPermission bool                    `json:"shouldSkipItemPermission,omitempty"`
	SiteOwnerEmail           string                  `json:"siteOwnerEmail,omitempty"`
}

type inplaceRecoverySpec struct {
	NameCollisionRule string `json:"nameCollisionRule"`
}

type recoverySpec struct {
	SnappableType           string                   `json:"snappableType"`
	SubSnappableType        string                   `json:"subSnappableType"`
	RecoveryPoint           int64                    `json:"recoveryPoint"`
	SourceSubscriptionID    string                   `json:"sourceSubscriptionId"`
	TargetSubscriptionID    string                   `json:"targetSubscriptionId"`
	OperationalRecoverySpec *operationalRecoverySpec `json:"operationalRecoverySpec,omitempty"`
	InplaceRecoverySpec     *inplaceRecoverySpec     `json:"inplaceRecoverySpec,omitempty"`
}

type adGroupSelector struct {
	AdGroupID string `json:"adGroupId"`
}

type configuredGroupSelector struct {
	GroupName string `json:"groupName"`
}

type groupSelectorWithSpecs struct {
	AdGroupSelector         *adGroupSelector         `json:"adGroupSelector,omitempty"`
	ConfiguredGroupSelector *configuredGroupSelector `json:"configuredGroupSelector,omitempty"`
	RecoverySpecs           []recoverySpec           `json:"recoverySpecs"`
}

type bulkRecoveryDefinition struct {
	Name           string                 `json:"name"`
	GroupSelector  groupSelectorWithSpecs `json:"o365GroupSelectorWithRecoverySpecs"`
	RecoveryMode   string                 `json:"recoveryMode"`
	FailureAction  string                 `json:"failureAction"`
	RecoveryDomain string                 `json:"recoveryDomain"`
}

type startBulkRecoveryInput struct {
	Definition bulkRecoveryDefinition `json:"definition"`
}

type instanceInput struct {
	BulkRecoveryInstanceID string `json:"bulkRecoveryInstanceId"`
}

// toWireSpec converts a domain spec to its wire form.
func toWireSpec(spec domain.RecoverySpec) recoverySpec {
	w := recoverySpec{
		SnappableType:        string(spec.SnappableType),
		SubSnappableType:     string(spec.SubSnappableType),
		RecoveryPoint:        spec.RecoveryPointMs,
		SourceSubscriptionID: spec.SourceSubscriptionID,
		TargetSubscriptionID: spec.TargetSubscriptionID,
	}
	if op := spec.Operational; op != nil {
		w.OperationalRecoverySpec = toWireOperationalSpec(op)
	}
	if spec.Inplace != nil {
		w.InplaceRecoverySpec = &inplaceRecoverySpec{NameCollisionRule: spec.Inplace.NameCollisionRule}
	}
	return w
}

func toWireOperationalSpec(op *domain.OperationalRecoverySpec) *operationalRecoverySpec {
	w := &operationalRecoverySpec{}
	switch {
	case op.Mailbox != nil:
		if op.Mailbox.FromTimeMs != 0 || op.Mailbox.UntilTimeMs != 0 {
			w.MailboxTimeRange = &timeRange{
				FromTime:  op.Mailbox.FromTimeMs,
				UntilTime: op.Mailbox.UntilTimeMs,
			}
		}
		w.ArchiveFolderAction = string(op.Mailbox.ArchiveFolderAction)
	case op.Calendar != nil:
		w.CalendarTimeRange = &timeRange{
			FromTime:  op.Calendar.FromTimeMs,
			UntilTime: op.Calendar.UntilTimeMs,
		}
	case op.Site != nil:
		w.LastModifiedTimeFilter = &lastModifiedTimeFilter{
			FromTime:  op.Site.LastModifiedFromMs,
			UntilTime: op.Site.LastModifiedUntilMs,
		}
		w.ShouldSkipItemPermission = op.Site.ShouldSkipItemPermission
		w.SiteOwnerEmail = op.Site.SiteOwnerEmail
	}
	return w
}

// toWireSelector converts a domain group selector to its wire form.
// Exactly one variant is populated; the spec builder validates this.
func toWireSelector(sel domain.GroupSelector, specs []recoverySpec) groupSelectorWithSpecs {
	w := groupSelectorWithSpecs{RecoverySpecs: specs}
	if sel.ADGroupID != "" {
		w.AdGroupSelector = &adGroupSelector{AdGroupID: sel.ADGroupID}
	} else {
		w.ConfiguredGroupSelector = &configuredGroupSelector{GroupName: sel.ConfiguredGroupName}
	}
	return w
}

// Response shapes.

type orgNode struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Status string `json:"status"`
}

type o365OrgsResponse struct {
	O365Orgs struct {
		Edges []struct {
			Node orgNode `json:"node"`
		} `json:"edges"`
		PageInfo struct {
			EndCursor   string `json:"endCursor"`
			HasNextPage bool   `json:"hasNextPage"`
		} `json:"pageInfo"`
	} `json:"o365Orgs"`
}

type startBulkRecoveryResponse struct {
	StartBulkRecovery struct {
		BulkRecoveryInstanceID string `json:"bulkRecoveryInstanceId"`
		TaskchainID            string `json:"taskchainId"`
		JobID                  string `json:"jobId"`
		Error                  string `json:"error"`
	} `json:"startBulkRecovery"`
}

type workloadProgressNode struct {
	SnappableType     string `json:"snappableType"`
	SubSnappableType  string `json:"subSnappableType"`
	Status            string `json:"status"`
	SucceededObjects  int64  `json:"succeededObjects"`
	FailedObjects     int64  `json:"failedObjects"`
	InProgressObjects int64  `json:"inProgressObjects"`
	TotalObjects      int64  `json:"totalObjects"`
}

type groupProgressNode struct {
	GroupName          string                 `json:"groupName"`
	GroupID            string                 `json:"groupId"`
	GroupType          string                 `json:"groupType"`
	WorkloadProgresses []workloadProgressNode `json:"workloadProgresses"`
}

type bulkRecoveryProgressResponse struct {
	BulkRecoveryProgress struct {
		Status                 string              `json:"status"`
		CurrentStep            string              `json:"currentStep"`
		SucceededObjects       int64               `json:"succeededObjects"`
		FailedObjects          int64               `json:"failedObjects"`
		InProgressObjects      int64               `json:"inProgressObjects"`
		TotalObjects           int64               `json:"totalObjects"`
		ObjectsWithoutSnapshot int64               `json:"objectsWithoutSnapshot"`
		GroupsProcessed        int64               `json:"groupsProcessed"`
		TotalGroups            int64               `json:"totalGroups"`
		CreateTime             int64               `json:"createTime"`
		StartTime              int64               `json:"startTime"`
		EndTime                int64               `json:"endTime"`
		ElapsedTime            int64               `json:"elapsedTime"`
		FailureReason          string              `json:"failureReason"`
		FailureActionType      string              `json:"failureActionType"`
		GroupProgresses        []groupProgressNode `json:"groupProgresses"`
	} `json:"bulkRecoveryProgress"`
}

type cancelBulkRecoveryResponse struct {
	CancelBulkRecovery struct {
		Success bool `json:"success"`
	} `json:"cancelBulkRecovery"`
}

type completeOperationalRecoveryResponse struct {
	CompleteOperationalRecovery struct {
		Success bool `json:"success"`
	} `json:"completeOperationalRecovery"`
}

// toDomainSnapshot converts the wire progress payload to the domain snapshot.
func toDomainSnapshot(p *bulkRecoveryProgressResponse) *domain.ProgressSnapshot {
	raw := p.BulkRecoveryProgress
	snap := &domain.ProgressSnapshot{
		Status:            domain.RecoveryStatus(raw.Status),
		CurrentStep:       raw.CurrentStep,
		Succeeded:         raw.SucceededObjects,
		Failed:            raw.FailedObjects,
		InProgress:        raw.InProgressObjects,
		Total:             raw.TotalObjects,
		WithoutSnapshot:   raw.ObjectsWithoutSnapshot,
		GroupsProcessed:   raw.GroupsProcessed,
		TotalGroups:       raw.TotalGroups,
		CreateTimeMs:      raw.CreateTime,
		StartTimeMs:       raw.StartTime,
		EndTimeMs:         raw.EndTime,
		ElapsedTimeMs:     raw.ElapsedTime,
		FailureReason:     raw.FailureReason,
		FailureActionType: raw.FailureActionType,
	}
	for _, g := range raw.GroupProgresses {
		group := domain.GroupProgress{
			GroupName: g.GroupName,
			GroupID:   g.GroupID,
			GroupType: g.GroupType,
		}
		for _, w := range g.WorkloadProgresses {
			group.Workloads = append(group.Workloads, domain.WorkloadProgress{
				SnappableType:    domain.SnappableType(w.SnappableType),
				SubSnappableType: domain.SubSnappableType(w.SubSnappableType),
				Status:           domain.RecoveryStatus(w.Status),
				Succeeded:        w.SucceededObjects,
				Failed:           w.FailedObjects,
				InProgress:       w.InProgressObjects,
				Total:            w.TotalObjects,
			})
		}
		snap.Groups = append(snap.Groups, group)
	}
	return snap
}
