package job

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/deppfellow/petclinic/internal/lib/email"
	"github.com/hibiken/asynq"
)

// VisitNotifier delivers the visit-scheduled notification.
type VisitNotifier interface {
	SendVisitScheduled(to string, v email.VisitScheduled) error
}

// InitHandlers wires the dependencies the task handlers need.
func (j *JobService) InitHandlers(notifier VisitNotifier) {
	j.notifier = notifier
}

func (j *JobService) handleVisitScheduledTask(ctx context.Context, t *asynq.Task) error {
	var p VisitScheduledPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return fmt.Errorf("failed to unmarshal visit scheduled payload: %w: %w", err, asynq.SkipRetry)
	}

	log := j.logger.With().
		Str("type", TaskVisitScheduled).
		Int("visit_id", p.VisitID).
		Int("pet_id", p.PetID).
		Logger()

	if j.notifier == nil || j.clinicInbox == "" {
		log.Info().Msg("no clinic inbox configured, dropping visit notification")
		return nil
	}

	log.Info().Msg("Processing visit scheduled task")

	err := j.notifier.SendVisitScheduled(j.clinicInbox, email.VisitScheduled{
		OwnerID:     p.OwnerID,
		OwnerName:   p.OwnerName,
		PetID:       p.PetID,
		PetName:     p.PetName,
		VisitID:     p.VisitID,
		Date:        p.Date.Format(time.DateOnly),
		Description: p.Description,
	})
	if err != nil {
		log.Error().Err(err).Msg("Failed to send visit scheduled email")
		return err
	}

	log.Info().Msg("Successfully sent visit scheduled email")
	return nil
}
