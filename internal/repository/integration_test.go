package repository

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/deppfellow/petclinic/internal/database"
	"github.com/deppfellow/petclinic/internal/lib/query"
	"github.com/deppfellow/petclinic/internal/model"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// openTx migrates the database behind PETCLINIC_TEST_DATABASE_URL and
// returns repositories bound to a transaction that is rolled back when the
// test ends, so every test sees the seed data untouched.
func openTx(t *testing.T) *Repositories {
	t.Helper()

	url := os.Getenv("PETCLINIC_TEST_DATABASE_URL")
	if url == "" {
		t.Skip("PETCLINIC_TEST_DATABASE_URL not set")
	}

	logger := zerolog.Nop()
	require.NoError(t, database.MigrateURL(t.Context(), &logger, url))

	conn, err := pgx.Connect(t.Context(), url)
	require.NoError(t, err)

	tx, err := conn.Begin(t.Context())
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = tx.Rollback(context.Background())
		_ = conn.Close(context.Background())
	})

	return NewRepositoriesWithDB(tx)
}

func TestIntegrationFindOwnersByLastName(t *testing.T) {
	repos := openTx(t)

	page, err := repos.Owners.FindByLastNameStartingWith(t.Context(), "Davis", query.PageRequest(0, 5))
	require.NoError(t, err)
	assert.Len(t, page.Content, 2)
	assert.Equal(t, int64(2), page.TotalElements)
	assert.Equal(t, 1, page.TotalPages)

	page, err = repos.Owners.FindByLastNameStartingWith(t.Context(), "daV", query.PageRequest(0, 5))
	require.NoError(t, err)
	assert.Len(t, page.Content, 2)

	page, err = repos.Owners.FindByLastNameStartingWith(t.Context(), "Daviss", query.PageRequest(0, 5))
	require.NoError(t, err)
	assert.Empty(t, page.Content)
	assert.Equal(t, int64(0), page.TotalElements)
}

func TestIntegrationOwnersPaging(t *testing.T) {
	repos := openTx(t)

	for i := range 15 {
		_, err := repos.Owners.Save(t.Context(), model.Owner{
			FirstName: "Extra", LastName: "Zeta", Address: "1 Main St.", City: "Madison",
			Telephone: "60855500" + string(rune('0'+i%10)) + "0",
		})
		require.NoError(t, err)
	}

	first, err := repos.Owners.FindByLastNameStartingWith(t.Context(), "", query.PageRequest(0, 10))
	require.NoError(t, err)
	assert.Len(t, first.Content, 10)
	assert.Equal(t, int64(25), first.TotalElements)
	assert.Equal(t, 3, first.TotalPages)
	assert.Equal(t, "Black", first.Content[0].LastName)

	middle, err := repos.Owners.FindByLastNameStartingWith(t.Context(), "", query.PageRequest(1, 10))
	require.NoError(t, err)
	require.Len(t, middle.Content, 10)
	assert.True(t, middle.HasNext())
	assert.Equal(t, int64(25), middle.TotalElements)
	for _, owner := range middle.Content {
		assert.Equal(t, "Zeta", owner.LastName)
	}
	assert.Less(t, middle.Content[0].ID, middle.Content[9].ID)

	last, err := repos.Owners.FindByLastNameStartingWith(t.Context(), "", query.PageRequest(2, 10))
	require.NoError(t, err)
	assert.Len(t, last.Content, 5)
	assert.False(t, last.HasNext())

	beyond, err := repos.Owners.FindByLastNameStartingWith(t.Context(), "", query.PageRequest(9, 10))
	require.NoError(t, err)
	assert.Empty(t, beyond.Content)
	assert.Equal(t, int64(25), beyond.TotalElements)
}

func TestIntegrationFindOwnerByID(t *testing.T) {
	repos := openTx(t)

	owner, err := repos.Owners.FindByID(t.Context(), 1)
	require.NoError(t, err)
	assert.Equal(t, "Franklin", owner.LastName)
	require.Len(t, owner.Pets, 1)
	assert.Equal(t, "cat", owner.Pets[0].Type.Name)

	owner, err = repos.Owners.FindByID(t.Context(), 6)
	require.NoError(t, err)
	require.Len(t, owner.Pets, 2)
	samantha, ok := owner.PetByID(7)
	require.True(t, ok)
	require.Len(t, samantha.Visits, 2)
	assert.Equal(t, "spayed", samantha.Visits[0].Description)

	_, err = repos.Owners.FindByID(t.Context(), 9999)
	assert.ErrorIs(t, err, pgx.ErrNoRows)
}

func TestIntegrationSaveOwner(t *testing.T) {
	repos := openTx(t)

	id, err := repos.Owners.Save(t.Context(), model.Owner{
		FirstName: "Sam", LastName: "Schultz", Address: "4, Evans Street", City: "Wollongong", Telephone: "4444444444",
	})
	require.NoError(t, err)
	assert.NotZero(t, id)

	page, err := repos.Owners.FindByLastNameStartingWith(t.Context(), "Schultz", query.PageRequest(0, 5))
	require.NoError(t, err)
	require.Len(t, page.Content, 1)
	assert.Equal(t, id, page.Content[0].ID)

	owner := page.Content[0]
	owner.LastName = "Schultz-Smith"
	_, err = repos.Owners.Save(t.Context(), owner)
	require.NoError(t, err)

	saved, err := repos.Owners.FindByID(t.Context(), id)
	require.NoError(t, err)
	assert.Equal(t, "Schultz-Smith", saved.LastName)
}

func TestIntegrationPets(t *testing.T) {
	repos := openTx(t)

	types, err := repos.Pets.FindPetTypes(t.Context())
	require.NoError(t, err)
	require.Len(t, types, 6)
	byID := map[int]string{}
	for _, pt := range types {
		byID[pt.ID] = pt.Name
	}
	assert.Equal(t, "cat", byID[1])
	assert.Equal(t, "dog", byID[2])
	assert.Equal(t, "snake", byID[4])
	assert.Equal(t, "bird", types[0].Name)

	jewel, err := repos.Pets.FindByID(t.Context(), 4)
	require.NoError(t, err)
	assert.Equal(t, "Jewel", jewel.Name)
	assert.Equal(t, "dog", jewel.Type.Name)
	assert.Equal(t, 3, jewel.OwnerID)
	assert.Equal(t, "2010-03-07", jewel.BirthDate.Format(time.DateOnly))

	id, err := repos.Pets.Save(t.Context(), 6, model.Pet{
		Name: "bowser", BirthDate: time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC), Type: model.PetType{ID: 2},
	})
	require.NoError(t, err)

	owner, err := repos.Owners.FindByID(t.Context(), 6)
	require.NoError(t, err)
	assert.Len(t, owner.Pets, 3)
	_, ok := owner.PetByID(id)
	assert.True(t, ok)

	jewel.Name = "Jewel II"
	require.NoError(t, repos.Pets.Update(t.Context(), jewel))
	jewel, err = repos.Pets.FindByID(t.Context(), 4)
	require.NoError(t, err)
	assert.Equal(t, "Jewel II", jewel.Name)

	jewel.OwnerID = 1
	assert.ErrorIs(t, repos.Pets.Update(t.Context(), jewel), pgx.ErrNoRows)
}

func TestIntegrationVisits(t *testing.T) {
	repos := openTx(t)

	visits, err := repos.Visits.FindByPetID(t.Context(), 7)
	require.NoError(t, err)
	require.Len(t, visits, 2)
	assert.True(t, visits[0].Date.After(visits[1].Date))

	_, err = repos.Visits.Save(t.Context(), model.Visit{
		PetID: 7, Date: time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC), Description: "visit",
	})
	require.NoError(t, err)

	visits, err = repos.Visits.FindByPetID(t.Context(), 7)
	require.NoError(t, err)
	require.Len(t, visits, 3)
	assert.Equal(t, "visit", visits[0].Description)
}

func TestIntegrationVets(t *testing.T) {
	repos := openTx(t)

	vets, err := repos.Vets.FindAll(t.Context())
	require.NoError(t, err)
	require.Len(t, vets, 6)

	douglas := vets[2]
	assert.Equal(t, "Douglas", douglas.LastName)
	assert.Equal(t, []model.Specialty{{ID: 3, Name: "dentistry"}, {ID: 2, Name: "surgery"}}, douglas.Specialties)
	assert.NotNil(t, vets[0].Specialties)
	assert.Empty(t, vets[0].Specialties)

	page, err := repos.Vets.FindAllPaged(t.Context(), query.PageRequest(0, 3))
	require.NoError(t, err)
	require.Len(t, page.Content, 3)
	assert.Equal(t, int64(6), page.TotalElements)
	assert.Equal(t, 2, page.TotalPages)
	assert.Equal(t, vets[:3], page.Content)
}
