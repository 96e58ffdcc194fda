package repository

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/deppfellow/petclinic/internal/lib/query"
	"github.com/deppfellow/petclinic/internal/model"
)

// VisitRepository reads and writes visits.
type VisitRepository struct {
	db DBTX
}

func NewVisitRepository(db DBTX) *VisitRepository {
	return &VisitRepository{db: db}
}

// Save inserts visit and returns its id.
func (r *VisitRepository) Save(ctx context.Context, visit model.Visit) (int, error) {
	id, err := insertReturningID(ctx, r.db, psql.Insert("visits").
		Columns("pet_id", "visit_date", "description").
		Values(visit.PetID, visit.Date, visit.Description))
	if err != nil {
		return 0, fmt.Errorf("insert visit: %w", err)
	}
	return id, nil
}

// FindByPetID returns the pet's visits, most recent first.
func (r *VisitRepository) FindByPetID(ctx context.Context, petID int) ([]model.Visit, error) {
	visits, err := query.FetchAll(ctx, r.db, visitSpec().Where(sq.Eq{"visits.pet_id": petID}), toVisit)
	if err != nil {
		return nil, fmt.Errorf("find visits of pet %d: %w", petID, err)
	}
	return visits, nil
}
