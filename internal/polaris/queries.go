package polaris

// GraphQL documents for the named operations this client consumes. Only the
// fields interpreted by the recovery subsystem are selected.

const o365OrgsQuery = `query O365Orgs($after: String) {
  o365Orgs(after: $after) {
    edges {
      node {
        id
        name
        status
      }
    }
    pageInfo {
      endCursor
      hasNextPage
    }
  }
}`

const startBulkRecoveryMutation = `mutation StartBulkRecovery($input: StartBulkRecoveryInput!) {
  startBulkRecovery(input: $input) {
    bulkRecoveryInstanceId
    taskchainId
    jobId
    error
  }
}`

const bulkRecoveryProgressQuery = `query BulkRecoveryProgress($input: BulkRecoveryProgressInput!) {
  bulkRecoveryProgress(input: $input) {
    status
    currentStep
    succeededObjects
    failedObjects
    inProgressObjects
    totalObjects
    objectsWithoutSnapshot
    groupsProcessed
    totalGroups
    createTime
    startTime
    endTime
    elapsedTime
    failureReason
    failureActionType
    groupProgresses {
      groupName
      groupId
      groupType
      workloadProgresses {
        snappableType
        subSnappableType
        status
        succeededObjects
        failedObjects
        inProgressObjects
        totalObjects
      }
    }
  }
}`

const cancelBulkRecoveryMutation = `mutation CancelBulkRecovery($input: CancelBulkRecoveryInput!) {
  cancelBulkRecovery(input: $input) {
    success
  }
}`

const completeOperationalRecoveryMutation = `mutation CompleteOperationalRecovery($input: CompleteOperationalRecoveryInput!) {
  completeOperationalRecovery(input: $input) {
    success
  }
}`
