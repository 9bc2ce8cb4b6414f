package worker

// LogMsgWorkerJobFailed is logged when a worker fails to process a job
const LogMsgWorkerJobFailed = "Worker job failed"

// Log messages for the reconciliation sweep worker
const (
	LogMsgSweepStarting        = "Reconciliation sweep starting"
	LogMsgSweepCompleted       = "Reconciliation sweep completed"
	LogMsgRedemptionSweepError = "Failed to expire stale redemptions"
	LogMsgHoldSweepError       = "Failed to release stale stock holds"
)
