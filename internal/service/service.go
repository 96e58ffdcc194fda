// Package service holds the clinic's business rules. It sits between the
// handlers and the repositories: handlers pass validated input in, services
// enforce ownership and uniqueness rules and call the repositories.
package service

import (
	"context"

	"github.com/deppfellow/petclinic/internal/lib/query"
	"github.com/deppfellow/petclinic/internal/model"
)

// OwnerStore is the owner persistence the services need.
type OwnerStore interface {
	FindByLastNameStartingWith(ctx context.Context, lastName string, pageable query.Pageable) (query.Page[model.Owner], error)
	FindByID(ctx context.Context, id int) (model.Owner, error)
	Save(ctx context.Context, owner model.Owner) (int, error)
}

// PetStore is the pet persistence the services need.
type PetStore interface {
	FindPetTypes(ctx context.Context) ([]model.PetType, error)
	FindByID(ctx context.Context, id int) (model.Pet, error)
	Save(ctx context.Context, ownerID int, pet model.Pet) (int, error)
	Update(ctx context.Context, pet model.Pet) error
}

// VisitStore is the visit persistence the services need.
type VisitStore interface {
	Save(ctx context.Context, visit model.Visit) (int, error)
	FindByPetID(ctx context.Context, petID int) ([]model.Visit, error)
}

// VetStore is the vet persistence the services need.
type VetStore interface {
	FindAll(ctx context.Context) ([]model.Vet, error)
	FindAllPaged(ctx context.Context, pageable query.Pageable) (query.Page[model.Vet], error)
}
