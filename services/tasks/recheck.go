package tasks

import (
	"encoding/json"
	"time"

	"andino/models"

	"github.com/hibiken/asynq"
)

const TypePaymentRecheck = "payment:recheck"

// NewPaymentRecheckTask builds a deferred gateway status re-query task.
func NewPaymentRecheckTask(payload models.RecheckPayload, delay time.Duration) (*asynq.Task, []asynq.Option, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, nil, err
	}
	task := asynq.NewTask(TypePaymentRecheck, b)
	opts := []asynq.Option{asynq.ProcessIn(delay)}

	return task, opts, nil
}
