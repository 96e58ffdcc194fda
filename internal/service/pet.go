package service

import (
	"context"
	"fmt"
	"time"

	"github.com/deppfellow/petclinic/internal/errs"
	"github.com/deppfellow/petclinic/internal/model"
)

// PetService implements the pet use cases.
type PetService struct {
	owners OwnerStore
	pets   PetStore
	now    func() time.Time
}

func NewPetService(owners OwnerStore, pets PetStore) *PetService {
	return &PetService{owners: owners, pets: pets, now: time.Now}
}

// Types lists the pet types.
func (s *PetService) Types(ctx context.Context) ([]model.PetType, error) {
	types, err := s.pets.FindPetTypes(ctx)
	if err != nil {
		return nil, fmt.Errorf("find pet types: %w", err)
	}
	return types, nil
}

// Get returns a pet by id.
func (s *PetService) Get(ctx context.Context, id int) (model.Pet, error) {
	pet, err := s.pets.FindByID(ctx, id)
	if err != nil {
		return model.Pet{}, fmt.Errorf("get pet %d: %w", id, err)
	}
	return pet, nil
}

// Create adds a pet to an owner. Pet names are unique per owner, ignoring
// case.
func (s *PetService) Create(ctx context.Context, ownerID int, pet model.Pet) (model.Pet, error) {
	owner, err := s.owners.FindByID(ctx, ownerID)
	if err != nil {
		return model.Pet{}, fmt.Errorf("create pet: %w", err)
	}

	if _, exists := owner.Pet(pet.Name, true); exists {
		return model.Pet{}, errs.NewConflictError("already exists", "name")
	}
	if err := s.check(ctx, &pet); err != nil {
		return model.Pet{}, err
	}

	pet.ID = 0
	pet.OwnerID = ownerID
	id, err := s.pets.Save(ctx, ownerID, pet)
	if err != nil {
		return model.Pet{}, fmt.Errorf("create pet: %w", err)
	}
	pet.ID = id
	return pet, nil
}

// Update renames or retypes one of the owner's pets. Renaming onto the name
// of a sibling pet is rejected.
func (s *PetService) Update(ctx context.Context, ownerID int, pet model.Pet) (model.Pet, error) {
	owner, err := s.owners.FindByID(ctx, ownerID)
	if err != nil {
		return model.Pet{}, fmt.Errorf("update pet: %w", err)
	}

	if _, ok := owner.PetByID(pet.ID); !ok {
		return model.Pet{}, errs.NewNotFoundError("Pet not found", true, nil)
	}
	if sibling, exists := owner.Pet(pet.Name, false); exists && sibling.ID != pet.ID {
		return model.Pet{}, errs.NewConflictError("already exists", "name")
	}
	if err := s.check(ctx, &pet); err != nil {
		return model.Pet{}, err
	}

	pet.OwnerID = ownerID
	if err := s.pets.Update(ctx, pet); err != nil {
		return model.Pet{}, fmt.Errorf("update pet %d: %w", pet.ID, err)
	}
	return pet, nil
}

// check rejects future birth dates and resolves the pet type's name.
func (s *PetService) check(ctx context.Context, pet *model.Pet) error {
	if pet.BirthDate.After(s.now()) {
		return errs.NewBadRequestError("Birth date must not be in the future", true, nil,
			[]errs.FieldError{{Field: "birthDate", Error: "must not be in the future"}}, nil)
	}

	types, err := s.Types(ctx)
	if err != nil {
		return err
	}
	for _, t := range types {
		if t.ID == pet.Type.ID {
			pet.Type = t
			return nil
		}
	}
	return errs.NewBadRequestError("Unknown pet type", true, nil,
		[]errs.FieldError{{Field: "typeId", Error: "unknown pet type"}}, nil)
}
