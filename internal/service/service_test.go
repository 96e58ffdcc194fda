package service

import (
	"encoding/json"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/deppfellow/petclinic/internal/errs"
	"github.com/deppfellow/petclinic/internal/lib/job"
	"github.com/deppfellow/petclinic/internal/lib/query"
	"github.com/deppfellow/petclinic/internal/model"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var petTypes = []model.PetType{{ID: 1, Name: "cat"}, {ID: 2, Name: "dog"}}

func colemans() *fakeOwners {
	return &fakeOwners{
		nextID: 10,
		owners: map[int]model.Owner{
			6: {
				ID: 6, FirstName: "Jean", LastName: "Coleman",
				Pets: []model.Pet{
					{ID: 7, Name: "Samantha", Type: petTypes[0], OwnerID: 6},
					{ID: 8, Name: "Max", Type: petTypes[0], OwnerID: 6},
				},
			},
		},
	}
}

func httpStatus(t *testing.T, err error) int {
	t.Helper()
	var httpErr *errs.HTTPError
	require.True(t, errors.As(err, &httpErr), "expected *errs.HTTPError, got %v", err)
	return httpErr.Status
}

func TestOwnerServiceCreateAndUpdate(t *testing.T) {
	owners := colemans()
	svc := NewOwnerService(owners)

	created, err := svc.Create(t.Context(), model.Owner{ID: 99, FirstName: "Sam", LastName: "Schultz"})
	require.NoError(t, err)
	assert.Equal(t, 11, created.ID)
	assert.NotNil(t, created.Pets)
	assert.True(t, owners.saved[0].IsNew())

	created.City = "Wollongong"
	updated, err := svc.Update(t.Context(), created)
	require.NoError(t, err)
	assert.Equal(t, "Wollongong", updated.City)
}

func TestOwnerServiceGetMissing(t *testing.T) {
	_, err := NewOwnerService(colemans()).Get(t.Context(), 42)
	assert.ErrorIs(t, err, pgx.ErrNoRows)
	assert.Contains(t, err.Error(), "table:owners:")
}

func TestPetServiceCreate(t *testing.T) {
	pets := &fakePets{types: petTypes}
	svc := NewPetService(colemans(), pets)

	pet, err := svc.Create(t.Context(), 6, model.Pet{Name: "Leo", Type: model.PetType{ID: 2}, BirthDate: time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)})
	require.NoError(t, err)
	assert.Equal(t, 101, pet.ID)
	assert.Equal(t, 6, pet.OwnerID)
	assert.Equal(t, "dog", pet.Type.Name)
	require.Len(t, pets.saved, 1)
}

func TestPetServiceCreateRejects(t *testing.T) {
	svc := NewPetService(colemans(), &fakePets{types: petTypes})
	svc.now = func() time.Time { return time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC) }

	tests := []struct {
		name   string
		pet    model.Pet
		status int
	}{
		{"duplicate name ignoring case", model.Pet{Name: "samantha", Type: model.PetType{ID: 1}}, http.StatusConflict},
		{"future birth date", model.Pet{Name: "Leo", Type: model.PetType{ID: 1}, BirthDate: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)}, http.StatusBadRequest},
		{"unknown type", model.Pet{Name: "Leo", Type: model.PetType{ID: 9}}, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(t.Context(), 6, tt.pet)
			assert.Equal(t, tt.status, httpStatus(t, err))
		})
	}

	_, err := svc.Create(t.Context(), 42, model.Pet{Name: "Leo"})
	assert.ErrorIs(t, err, pgx.ErrNoRows)
}

func TestPetServiceUpdate(t *testing.T) {
	pets := &fakePets{types: petTypes}
	svc := NewPetService(colemans(), pets)

	pet, err := svc.Update(t.Context(), 6, model.Pet{ID: 7, Name: "SAMANTHA", Type: model.PetType{ID: 1}})
	require.NoError(t, err)
	assert.Equal(t, 6, pet.OwnerID)
	require.Len(t, pets.updated, 1)

	_, err = svc.Update(t.Context(), 6, model.Pet{ID: 7, Name: "Max", Type: model.PetType{ID: 1}})
	assert.Equal(t, http.StatusConflict, httpStatus(t, err))

	_, err = svc.Update(t.Context(), 6, model.Pet{ID: 4, Name: "Jewel", Type: model.PetType{ID: 1}})
	assert.Equal(t, http.StatusNotFound, httpStatus(t, err))
}

func TestVisitServiceCreateEnqueuesNotification(t *testing.T) {
	visits := &fakeVisits{}
	tasks := &fakeEnqueuer{}
	svc := NewVisitService(colemans(), visits, tasks)

	date := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	visit, err := svc.Create(t.Context(), 6, 7, model.Visit{Date: date, Description: "checkup"})
	require.NoError(t, err)
	assert.Equal(t, 1, visit.ID)
	assert.Equal(t, 7, visit.PetID)

	require.Len(t, tasks.tasks, 1)
	assert.Equal(t, job.TaskVisitScheduled, tasks.tasks[0].Type())

	var payload job.VisitScheduledPayload
	require.NoError(t, json.Unmarshal(tasks.tasks[0].Payload(), &payload))
	assert.Equal(t, "Samantha", payload.PetName)
	assert.Equal(t, "Jean Coleman", payload.OwnerName)
	assert.True(t, date.Equal(payload.Date))

	listed, err := svc.ListByPet(t.Context(), 7)
	require.NoError(t, err)
	assert.Len(t, listed, 1)
}

func TestVisitServiceCreateSurvivesQueueFailure(t *testing.T) {
	visits := &fakeVisits{}
	svc := NewVisitService(colemans(), visits, &fakeEnqueuer{err: errors.New("redis down")})

	_, err := svc.Create(t.Context(), 6, 8, model.Visit{Description: "checkup"})
	require.NoError(t, err)
	assert.Len(t, visits.saved, 1)
}

func TestVisitServiceCreateForeignPet(t *testing.T) {
	visits := &fakeVisits{}
	svc := NewVisitService(colemans(), visits, &fakeEnqueuer{})

	_, err := svc.Create(t.Context(), 6, 4, model.Visit{Description: "checkup"})
	assert.Equal(t, http.StatusNotFound, httpStatus(t, err))
	assert.Empty(t, visits.saved)
}

func TestVetServiceReadsThrough(t *testing.T) {
	store := &fakeVets{vets: []model.Vet{{ID: 1, LastName: "Carter", Specialties: []model.Specialty{}}}}
	cache := newMemCache()
	svc := NewVetService(store, cache, time.Minute)

	first, err := svc.List(t.Context())
	require.NoError(t, err)
	second, err := svc.List(t.Context())
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, store.calls)
	assert.Equal(t, time.Minute, cache.ttls[vetCachePrefix+":all"])

	page, err := svc.Page(t.Context(), query.PageRequest(0, 5))
	require.NoError(t, err)
	assert.Equal(t, int64(1), page.TotalElements)
	_, err = svc.Page(t.Context(), query.PageRequest(0, 5))
	require.NoError(t, err)
	assert.Equal(t, 2, store.calls)
}

func TestVetServiceFallsBackWhenCacheFails(t *testing.T) {
	store := &fakeVets{vets: []model.Vet{{ID: 1}}}
	cache := newMemCache()
	cache.broken = true
	svc := NewVetService(store, cache, time.Minute)

	for range 2 {
		vets, err := svc.List(t.Context())
		require.NoError(t, err)
		assert.Len(t, vets, 1)
	}
	assert.Equal(t, 2, store.calls)
}

func TestVetServiceIgnoresCorruptEntries(t *testing.T) {
	store := &fakeVets{vets: []model.Vet{{ID: 1}}}
	cache := newMemCache()
	cache.data[vetCachePrefix+":all"] = []byte("{not json")
	svc := NewVetService(store, cache, time.Minute)

	vets, err := svc.List(t.Context())
	require.NoError(t, err)
	assert.Len(t, vets, 1)
	assert.Equal(t, 1, store.calls)
}

func TestVetServiceDoesNotCacheErrors(t *testing.T) {
	store := &fakeVets{err: errors.New("db down")}
	cache := newMemCache()
	svc := NewVetService(store, cache, time.Minute)

	_, err := svc.List(t.Context())
	require.Error(t, err)
	assert.Empty(t, cache.data)
}
