package repository

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/deppfellow/petclinic/internal/lib/query"
	"github.com/deppfellow/petclinic/internal/model"
)

// PetRepository reads and writes pets and pet types.
type PetRepository struct {
	db DBTX
}

func NewPetRepository(db DBTX) *PetRepository {
	return &PetRepository{db: db}
}

// FindPetTypes lists every pet type ordered by name.
func (r *PetRepository) FindPetTypes(ctx context.Context) ([]model.PetType, error) {
	spec := query.From("types", query.Col("types.id"), query.Col("types.name")).OrderBy("types.name")

	types, err := query.FetchAll(ctx, r.db, spec, toPetType)
	if err != nil {
		return nil, fmt.Errorf("find pet types: %w", err)
	}
	return types, nil
}

// FindByID loads a pet and its type, without visits.
func (r *PetRepository) FindByID(ctx context.Context, id int) (model.Pet, error) {
	pets, err := query.FetchAll(ctx, r.db, petSpec().Where(sq.Eq{"pets.id": id}), toPet)
	if err != nil {
		return model.Pet{}, fmt.Errorf("find pet %d: %w", id, err)
	}
	if len(pets) == 0 {
		return model.Pet{}, notFound("pets")
	}
	return pets[0], nil
}

// Save stores pet under ownerID and returns its id. Existing pets are
// updated in place.
func (r *PetRepository) Save(ctx context.Context, ownerID int, pet model.Pet) (int, error) {
	if !pet.IsNew() {
		pet.OwnerID = ownerID
		if err := r.Update(ctx, pet); err != nil {
			return 0, err
		}
		return pet.ID, nil
	}

	id, err := insertReturningID(ctx, r.db, psql.Insert("pets").
		Columns("name", "birth_date", "type_id", "owner_id").
		Values(pet.Name, pet.BirthDate, pet.Type.ID, ownerID))
	if err != nil {
		return 0, fmt.Errorf("insert pet: %w", err)
	}
	return id, nil
}

// Update changes a pet's name, birth date and type. The pet must belong to
// pet.OwnerID.
func (r *PetRepository) Update(ctx context.Context, pet model.Pet) error {
	err := execUpdate(ctx, r.db, "pets", psql.Update("pets").
		Set("name", pet.Name).
		Set("birth_date", pet.BirthDate).
		Set("type_id", pet.Type.ID).
		Where(sq.Eq{"id": pet.ID, "owner_id": pet.OwnerID}))
	if err != nil {
		return fmt.Errorf("update pet %d: %w", pet.ID, err)
	}
	return nil
}
