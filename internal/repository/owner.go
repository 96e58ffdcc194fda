package repository

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/deppfellow/petclinic/internal/lib/query"
	"github.com/deppfellow/petclinic/internal/logger"
	"github.com/deppfellow/petclinic/internal/model"
)

var ownerSort = []query.SortKey{query.Asc("last_name"), query.Asc("id")}

// OwnerRepository reads and writes owners.
type OwnerRepository struct {
	db DBTX
}

func NewOwnerRepository(db DBTX) *OwnerRepository {
	return &OwnerRepository{db: db}
}

// FindByLastNameStartingWith pages through owners whose last name starts
// with lastName (case-insensitive), each with its pets. An empty lastName
// matches everyone.
func (r *OwnerRepository) FindByLastNameStartingWith(
	ctx context.Context,
	lastName string,
	pageable query.Pageable,
) (query.Page[model.Owner], error) {
	spec, err := query.WithNested(
		ownerSpec().Where("owners.last_name ILIKE ?", likePrefix(lastName)),
		petsOfOwner(false),
	)
	if err != nil {
		return query.Page[model.Owner]{}, err
	}

	page, err := query.FetchPage(ctx, r.db, spec, ownerSort, pageable, toOwner)
	if err != nil {
		return query.Page[model.Owner]{}, fmt.Errorf("find owners by last name: %w", err)
	}

	logger.FromContext(ctx).Debug().
		Str("last_name", lastName).
		Int("page", pageable.PageNumber).
		Int64("total", page.TotalElements).
		Msg("owners page fetched")

	return page, nil
}

// FindByID loads one owner with pets and their visits in a single statement.
func (r *OwnerRepository) FindByID(ctx context.Context, id int) (model.Owner, error) {
	spec, err := query.WithNested(ownerSpec().Where(sq.Eq{"owners.id": id}), petsOfOwner(true))
	if err != nil {
		return model.Owner{}, err
	}

	owners, err := query.FetchAll(ctx, r.db, spec, toOwner)
	if err != nil {
		return model.Owner{}, fmt.Errorf("find owner %d: %w", id, err)
	}
	if len(owners) == 0 {
		return model.Owner{}, notFound("owners")
	}

	return owners[0], nil
}

// Save inserts a new owner or updates an existing one and returns its id.
// Pets are saved through PetRepository.
func (r *OwnerRepository) Save(ctx context.Context, owner model.Owner) (int, error) {
	if owner.IsNew() {
		id, err := insertReturningID(ctx, r.db, psql.Insert("owners").
			Columns("first_name", "last_name", "address", "city", "telephone").
			Values(owner.FirstName, owner.LastName, owner.Address, owner.City, owner.Telephone))
		if err != nil {
			return 0, fmt.Errorf("insert owner: %w", err)
		}
		return id, nil
	}

	err := execUpdate(ctx, r.db, "owners", psql.Update("owners").
		SetMap(map[string]any{
			"first_name": owner.FirstName,
			"last_name":  owner.LastName,
			"address":    owner.Address,
			"city":       owner.City,
			"telephone":  owner.Telephone,
		}).
		Where(sq.Eq{"id": owner.ID}))
	if err != nil {
		return 0, fmt.Errorf("update owner %d: %w", owner.ID, err)
	}

	return owner.ID, nil
}
