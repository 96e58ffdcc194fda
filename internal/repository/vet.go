package repository

import (
	"context"
	"fmt"

	"github.com/deppfellow/petclinic/internal/lib/query"
	"github.com/deppfellow/petclinic/internal/model"
)

var vetSort = []query.SortKey{query.Asc("id")}

// VetRepository reads vets with their specialties.
type VetRepository struct {
	db      DBTX
	fetcher *query.BatchFetcher
}

func NewVetRepository(db DBTX) *VetRepository {
	return &VetRepository{db: db, fetcher: query.NewBatchFetcher(db)}
}

// FindAll lists every vet with specialties ordered by name. The vet list is
// small and read often, so it is loaded with two flat statements rather than
// a correlated sub-select per vet.
func (r *VetRepository) FindAll(ctx context.Context) ([]model.Vet, error) {
	rows, err := r.fetcher.Fetch(ctx, vetSpec(), specialtiesOfVet())
	if err != nil {
		return nil, fmt.Errorf("find vets: %w", err)
	}
	return query.MapRows(rows, toVet)
}

// FindAllPaged returns one page of vets ordered by id, specialties nested.
func (r *VetRepository) FindAllPaged(ctx context.Context, pageable query.Pageable) (query.Page[model.Vet], error) {
	spec, err := query.WithNested(vetSpec(), specialtiesOfVet())
	if err != nil {
		return query.Page[model.Vet]{}, err
	}

	page, err := query.FetchPage(ctx, r.db, spec, vetSort, pageable, toVet)
	if err != nil {
		return query.Page[model.Vet]{}, fmt.Errorf("find vets page: %w", err)
	}
	return page, nil
}
