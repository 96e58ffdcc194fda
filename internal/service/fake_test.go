package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/deppfellow/petclinic/internal/lib/query"
	"github.com/deppfellow/petclinic/internal/model"
	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5"
)

type fakeOwners struct {
	owners map[int]model.Owner
	saved  []model.Owner
	nextID int
}

func (f *fakeOwners) FindByLastNameStartingWith(_ context.Context, _ string, p query.Pageable) (query.Page[model.Owner], error) {
	var all []model.Owner
	for _, o := range f.owners {
		all = append(all, o)
	}
	return query.NewPage(all, p, int64(len(all))), nil
}

func (f *fakeOwners) FindByID(_ context.Context, id int) (model.Owner, error) {
	o, ok := f.owners[id]
	if !ok {
		return model.Owner{}, fmt.Errorf("table:owners: %w", pgx.ErrNoRows)
	}
	return o, nil
}

func (f *fakeOwners) Save(_ context.Context, o model.Owner) (int, error) {
	f.saved = append(f.saved, o)
	if o.IsNew() {
		f.nextID++
		o.ID = f.nextID
	}
	if f.owners == nil {
		f.owners = map[int]model.Owner{}
	}
	f.owners[o.ID] = o
	return o.ID, nil
}

type fakePets struct {
	types   []model.PetType
	saved   []model.Pet
	updated []model.Pet
}

func (f *fakePets) FindPetTypes(context.Context) ([]model.PetType, error) {
	return f.types, nil
}

func (f *fakePets) FindByID(context.Context, int) (model.Pet, error) {
	return model.Pet{}, fmt.Errorf("table:pets: %w", pgx.ErrNoRows)
}

func (f *fakePets) Save(_ context.Context, ownerID int, p model.Pet) (int, error) {
	p.OwnerID = ownerID
	f.saved = append(f.saved, p)
	return 100 + len(f.saved), nil
}

func (f *fakePets) Update(_ context.Context, p model.Pet) error {
	f.updated = append(f.updated, p)
	return nil
}

type fakeVisits struct {
	saved []model.Visit
}

func (f *fakeVisits) Save(_ context.Context, v model.Visit) (int, error) {
	f.saved = append(f.saved, v)
	return len(f.saved), nil
}

func (f *fakeVisits) FindByPetID(_ context.Context, petID int) ([]model.Visit, error) {
	var out []model.Visit
	for _, v := range f.saved {
		if v.PetID == petID {
			out = append(out, v)
		}
	}
	return out, nil
}

type fakeEnqueuer struct {
	tasks []*asynq.Task
	err   error
}

func (f *fakeEnqueuer) EnqueueContext(_ context.Context, task *asynq.Task, _ ...asynq.Option) (*asynq.TaskInfo, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.tasks = append(f.tasks, task)
	return &asynq.TaskInfo{Type: task.Type()}, nil
}

type fakeVets struct {
	vets  []model.Vet
	calls int
	err   error
}

func (f *fakeVets) FindAll(context.Context) ([]model.Vet, error) {
	f.calls++
	return f.vets, f.err
}

func (f *fakeVets) FindAllPaged(_ context.Context, p query.Pageable) (query.Page[model.Vet], error) {
	f.calls++
	if f.err != nil {
		return query.Page[model.Vet]{}, f.err
	}
	return query.NewPage(f.vets, p, int64(len(f.vets))), nil
}

type memCache struct {
	data   map[string][]byte
	ttls   map[string]time.Duration
	broken bool
}

func newMemCache() *memCache {
	return &memCache{data: map[string][]byte{}, ttls: map[string]time.Duration{}}
}

func (c *memCache) Get(_ context.Context, key string) ([]byte, error) {
	if c.broken {
		return nil, errors.New("redis: connection refused")
	}
	v, ok := c.data[key]
	if !ok {
		return nil, ErrCacheMiss
	}
	return v, nil
}

func (c *memCache) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	if c.broken {
		return errors.New("redis: connection refused")
	}
	c.data[key] = value
	c.ttls[key] = ttl
	return nil
}
