// Package jobs hosts the asynq task definitions and worker wiring for
// background maintenance of the ledger.
package jobs

import (
	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskLedgerIntegrity recomputes every tenant's trial balance and
	// flags imbalances.
	TaskLedgerIntegrity = "ledger:integrity"
)

// NewLedgerIntegrityTask constructs the integrity scan task. The scan
// covers all tenants, so there is no payload.
func NewLedgerIntegrityTask() *asynq.Task {
	return asynq.NewTask(TaskLedgerIntegrity, nil)
}
