package job

import (
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"
)

const (
	TaskVisitScheduled = "visit:scheduled"
)

// VisitScheduledPayload is the body of a visit:scheduled task.
type VisitScheduledPayload struct {
	VisitID     int       `json:"visit_id"`
	PetID       int       `json:"pet_id"`
	PetName     string    `json:"pet_name"`
	OwnerID     int       `json:"owner_id"`
	OwnerName   string    `json:"owner_name"`
	Date        time.Time `json:"date"`
	Description string    `json:"description"`
}

// NewVisitScheduledTask encodes p into a task that retries up to three times.
func NewVisitScheduledTask(p VisitScheduledPayload) (*asynq.Task, error) {
	payload, err := json.Marshal(p)
	if err != nil {
		return nil, err
	}

	return asynq.NewTask(
		TaskVisitScheduled,
		payload,
		asynq.MaxRetry(3),
		asynq.Queue("default"),
		asynq.Timeout(30*time.Second),
	), nil
}
