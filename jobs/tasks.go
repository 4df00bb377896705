package jobs

import (
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskStockAudit triggers the nightly stock consistency audit.
	TaskStockAudit = "stock:audit"
)

// StockAuditPayload carries scheduling metadata.
type StockAuditPayload struct {
	ScheduledFor time.Time `json:"scheduled_for"`
}

// NewStockAuditTask constructs an Asynq task for the stock audit.
func NewStockAuditTask(at time.Time) (*asynq.Task, error) {
	body, err := json.Marshal(StockAuditPayload{ScheduledFor: at})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskStockAudit, body, asynq.Queue(QueueDefault)), nil
}
