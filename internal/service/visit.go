package service

import (
	"context"
	"fmt"

	"github.com/deppfellow/petclinic/internal/errs"
	"github.com/deppfellow/petclinic/internal/lib/job"
	"github.com/deppfellow/petclinic/internal/logger"
	"github.com/deppfellow/petclinic/internal/model"
	"github.com/hibiken/asynq"
)

// TaskEnqueuer is the part of the asynq client VisitService uses.
type TaskEnqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// VisitService books visits and lists them.
type VisitService struct {
	owners OwnerStore
	visits VisitStore
	tasks  TaskEnqueuer
}

func NewVisitService(owners OwnerStore, visits VisitStore, tasks TaskEnqueuer) *VisitService {
	return &VisitService{owners: owners, visits: visits, tasks: tasks}
}

// Create books a visit for one of the owner's pets and queues the clinic
// notification. A failed enqueue is logged; the visit stays booked.
func (s *VisitService) Create(ctx context.Context, ownerID, petID int, visit model.Visit) (model.Visit, error) {
	owner, err := s.owners.FindByID(ctx, ownerID)
	if err != nil {
		return model.Visit{}, fmt.Errorf("create visit: %w", err)
	}
	pet, ok := owner.PetByID(petID)
	if !ok {
		return model.Visit{}, errs.NewNotFoundError("Pet not found", true, nil)
	}

	visit.ID = 0
	visit.PetID = petID
	id, err := s.visits.Save(ctx, visit)
	if err != nil {
		return model.Visit{}, fmt.Errorf("create visit: %w", err)
	}
	visit.ID = id

	task, err := job.NewVisitScheduledTask(job.VisitScheduledPayload{
		VisitID:     visit.ID,
		PetID:       pet.ID,
		PetName:     pet.Name,
		OwnerID:     owner.ID,
		OwnerName:   owner.FirstName + " " + owner.LastName,
		Date:        visit.Date,
		Description: visit.Description,
	})
	if err == nil {
		_, err = s.tasks.EnqueueContext(ctx, task)
	}
	if err != nil {
		logger.FromContext(ctx).Error().Err(err).Int("visit_id", visit.ID).Msg("failed to enqueue visit notification")
	}

	return visit, nil
}

// ListByPet returns a pet's visits, newest first.
func (s *VisitService) ListByPet(ctx context.Context, petID int) ([]model.Visit, error) {
	visits, err := s.visits.FindByPetID(ctx, petID)
	if err != nil {
		return nil, fmt.Errorf("list visits of pet %d: %w", petID, err)
	}
	return visits, nil
}
