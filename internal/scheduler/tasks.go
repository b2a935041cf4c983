// Package scheduler runs background work through asynq. The API process
// enqueues tasks; cmd/worker consumes them.
package scheduler

import (
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"
)

const TaskCallAlert = "notification.call.alert"

// CallAlertPayload carries everything the worker needs to deliver one
// inbound-call notification without a database round trip.
type CallAlertPayload struct {
	WebhookURL  string    `json:"webhookUrl"`
	AgencyName  string    `json:"agencyName"`
	CallerPhone string    `json:"callerPhone"`
	NewLead     bool      `json:"newLead"`
	OccurredAt  time.Time `json:"occurredAt"`
}

func NewCallAlertTask(payload CallAlertPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskCallAlert, data), nil
}

func ParseCallAlertPayload(task *asynq.Task) (CallAlertPayload, error) {
	var payload CallAlertPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return CallAlertPayload{}, err
	}
	return payload, nil
}
