package service

import (
	"context"
	"fmt"

	"github.com/deppfellow/petclinic/internal/lib/query"
	"github.com/deppfellow/petclinic/internal/model"
)

// OwnerService implements the owner use cases.
type OwnerService struct {
	owners OwnerStore
}

func NewOwnerService(owners OwnerStore) *OwnerService {
	return &OwnerService{owners: owners}
}

// FindByLastName pages through owners whose last name starts with lastName.
// An empty lastName lists everyone.
func (s *OwnerService) FindByLastName(ctx context.Context, lastName string, pageable query.Pageable) (query.Page[model.Owner], error) {
	page, err := s.owners.FindByLastNameStartingWith(ctx, lastName, pageable)
	if err != nil {
		return query.Page[model.Owner]{}, fmt.Errorf("find owners: %w", err)
	}
	return page, nil
}

// Get returns an owner with pets and visits.
func (s *OwnerService) Get(ctx context.Context, id int) (model.Owner, error) {
	owner, err := s.owners.FindByID(ctx, id)
	if err != nil {
		return model.Owner{}, fmt.Errorf("get owner %d: %w", id, err)
	}
	return owner, nil
}

// Create stores a new owner and returns it with its id.
func (s *OwnerService) Create(ctx context.Context, owner model.Owner) (model.Owner, error) {
	owner.ID = 0
	id, err := s.owners.Save(ctx, owner)
	if err != nil {
		return model.Owner{}, fmt.Errorf("create owner: %w", err)
	}
	owner.ID = id
	owner.Pets = []model.Pet{}
	return owner, nil
}

// Update overwrites the owner's contact details. Pets are left untouched.
func (s *OwnerService) Update(ctx context.Context, owner model.Owner) (model.Owner, error) {
	if _, err := s.owners.Save(ctx, owner); err != nil {
		return model.Owner{}, fmt.Errorf("update owner %d: %w", owner.ID, err)
	}
	return s.Get(ctx, owner.ID)
}
