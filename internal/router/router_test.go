package router

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/deppfellow/petclinic/internal/config"
	"github.com/deppfellow/petclinic/internal/handler"
	"github.com/deppfellow/petclinic/internal/lib/query"
	"github.com/deppfellow/petclinic/internal/middleware"
	"github.com/deppfellow/petclinic/internal/model"
	"github.com/deppfellow/petclinic/internal/server"
	"github.com/deppfellow/petclinic/internal/service"
	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type clinic struct {
	owners map[int]model.Owner
	visits []model.Visit
	vets   []model.Vet
}

func (c *clinic) FindByLastNameStartingWith(_ context.Context, lastName string, p query.Pageable) (query.Page[model.Owner], error) {
	var out []model.Owner
	for id := 1; id <= len(c.owners); id++ {
		if o, ok := c.owners[id]; ok && strings.HasPrefix(strings.ToLower(o.LastName), strings.ToLower(lastName)) {
			out = append(out, o)
		}
	}
	total := int64(len(out))
	start := min(int(p.Offset()), len(out))
	end := min(start+p.PageSize, len(out))
	return query.NewPage(out[start:end], p, total), nil
}

func (c *clinic) FindByID(_ context.Context, id int) (model.Owner, error) {
	o, ok := c.owners[id]
	if !ok {
		return model.Owner{}, fmt.Errorf("table:owners: %w", pgx.ErrNoRows)
	}
	return o, nil
}

func (c *clinic) Save(_ context.Context, o model.Owner) (int, error) {
	if o.IsNew() {
		o.ID = len(c.owners) + 1
	}
	c.owners[o.ID] = o
	return o.ID, nil
}

type clinicPets struct{ *clinic }

func (p clinicPets) FindPetTypes(context.Context) ([]model.PetType, error) {
	return []model.PetType{{ID: 1, Name: "cat"}, {ID: 2, Name: "dog"}}, nil
}

func (p clinicPets) FindByID(_ context.Context, id int) (model.Pet, error) {
	for _, o := range p.owners {
		if pet, ok := o.PetByID(id); ok {
			return pet, nil
		}
	}
	return model.Pet{}, fmt.Errorf("table:pets: %w", pgx.ErrNoRows)
}

func (p clinicPets) Save(_ context.Context, ownerID int, pet model.Pet) (int, error) {
	return 100, nil
}

func (p clinicPets) Update(context.Context, model.Pet) error {
	return nil
}

type clinicVisits struct{ *clinic }

func (v clinicVisits) Save(_ context.Context, visit model.Visit) (int, error) {
	v.visits = append(v.visits, visit)
	return len(v.visits), nil
}

func (v clinicVisits) FindByPetID(_ context.Context, petID int) ([]model.Visit, error) {
	return nil, nil
}

type clinicVets struct{ *clinic }

func (v clinicVets) FindAll(context.Context) ([]model.Vet, error) {
	return v.vets, nil
}

func (v clinicVets) FindAllPaged(_ context.Context, p query.Pageable) (query.Page[model.Vet], error) {
	return query.NewPage(v.vets[:min(p.PageSize, len(v.vets))], p, int64(len(v.vets))), nil
}

type nopQueue struct{}

func (nopQueue) EnqueueContext(context.Context, *asynq.Task, ...asynq.Option) (*asynq.TaskInfo, error) {
	return &asynq.TaskInfo{}, nil
}

func newTestAPI(t *testing.T, requireAuth echo.MiddlewareFunc) (*echo.Echo, *clinic) {
	t.Helper()

	c := &clinic{
		owners: map[int]model.Owner{
			1: {ID: 1, FirstName: "George", LastName: "Franklin", Pets: []model.Pet{{ID: 1, Name: "Leo", Type: model.PetType{ID: 1, Name: "cat"}, OwnerID: 1}}},
			2: {ID: 2, FirstName: "Betty", LastName: "Davis", Pets: []model.Pet{}},
			3: {ID: 3, FirstName: "Harold", LastName: "Davis", Pets: []model.Pet{}},
		},
		vets: []model.Vet{{ID: 1, LastName: "Carter", Specialties: []model.Specialty{}}},
	}

	l := zerolog.Nop()
	s := &server.Server{Logger: &l, Config: &config.Config{}}

	services := &service.Services{
		Owners: service.NewOwnerService(c),
		Pets:   service.NewPetService(c, clinicPets{c}),
		Visits: service.NewVisitService(c, clinicVisits{c}, nopQueue{}),
		Vets:   service.NewVetService(clinicVets{c}, nil, 0),
	}

	e := echo.New()
	e.HTTPErrorHandler = middleware.NewGlobalMiddlewares(s).GlobalErrorHandler
	registerClinicRoutes(e.Group("/api/v1"), handler.NewHandlers(s, services), requireAuth)
	return e, c
}

func passThrough(next echo.HandlerFunc) echo.HandlerFunc { return next }

func do(e *echo.Echo, method, target, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestListOwnersPage(t *testing.T) {
	e, _ := newTestAPI(t, passThrough)

	rec := do(e, http.MethodGet, "/api/v1/owners?lastName=dav&page=0&size=1", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var page query.Page[model.Owner]
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &page))
	assert.Len(t, page.Content, 1)
	assert.Equal(t, int64(2), page.TotalElements)
	assert.Equal(t, 2, page.TotalPages)

	rec = do(e, http.MethodGet, "/api/v1/owners?lastName=zz", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"content":[]`)
	assert.Contains(t, rec.Body.String(), `"pageSize":5`)

	rec = do(e, http.MethodGet, "/api/v1/owners?size=0&page=-1", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(e, http.MethodGet, "/api/v1/owners?page=1844674407370955161", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), `"field":"page"`)
}

func TestGetOwner(t *testing.T) {
	e, _ := newTestAPI(t, passThrough)

	rec := do(e, http.MethodGet, "/api/v1/owners/1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"lastName":"Franklin"`)

	rec = do(e, http.MethodGet, "/api/v1/owners/99", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "Owner not found")

	rec = do(e, http.MethodGet, "/api/v1/owners/abc", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateOwner(t *testing.T) {
	e, c := newTestAPI(t, passThrough)

	rec := do(e, http.MethodPost, "/api/v1/owners",
		`{"firstName":"Sam","lastName":"Schultz","address":"4, Evans Street","city":"Wollongong","telephone":"4444444444"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), `"id":4`)
	assert.Equal(t, "Schultz", c.owners[4].LastName)

	rec = do(e, http.MethodPost, "/api/v1/owners", `{"firstName":"Sam","telephone":"12-34"}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), `"field":"lastName"`)
	assert.Contains(t, rec.Body.String(), `"field":"telephone"`)
}

func TestWriteRoutesRequireAuth(t *testing.T) {
	deny := func(echo.HandlerFunc) echo.HandlerFunc {
		return func(echo.Context) error { return echo.NewHTTPError(http.StatusUnauthorized, "Unauthorized") }
	}
	e, _ := newTestAPI(t, deny)

	assert.Equal(t, http.StatusUnauthorized, do(e, http.MethodPost, "/api/v1/owners", `{}`).Code)
	assert.Equal(t, http.StatusUnauthorized, do(e, http.MethodPost, "/api/v1/owners/1/pets/1/visits", `{}`).Code)
	assert.Equal(t, http.StatusOK, do(e, http.MethodGet, "/api/v1/owners/1", "").Code)
}

func TestPetsAndVisits(t *testing.T) {
	e, c := newTestAPI(t, passThrough)

	rec := do(e, http.MethodPost, "/api/v1/owners/1/pets", `{"name":"leo","birthDate":"2020-01-01","typeId":2}`)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = do(e, http.MethodPost, "/api/v1/owners/1/pets", `{"name":"Max","birthDate":"2020-13-01","typeId":2}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(e, http.MethodPost, "/api/v1/owners/1/pets", `{"name":"Max","birthDate":"2020-01-01","typeId":2}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), `"name":"dog"`)

	rec = do(e, http.MethodPost, "/api/v1/owners/1/pets/1/visits", `{"date":"2024-05-01","description":"checkup"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	require.Len(t, c.visits, 1)
	assert.Equal(t, time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC), c.visits[0].Date)

	rec = do(e, http.MethodPost, "/api/v1/owners/2/pets/1/visits", `{"description":"checkup"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(e, http.MethodGet, "/api/v1/pets/1/visits", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())

	rec = do(e, http.MethodGet, "/api/v1/pettypes", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"cat"`)
}

func TestVets(t *testing.T) {
	e, _ := newTestAPI(t, passThrough)

	rec := do(e, http.MethodGet, "/api/v1/vets", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[{"id":1,"firstName":"","lastName":"Carter","specialties":[]}]`, rec.Body.String())

	rec = do(e, http.MethodGet, "/api/v1/vets/page?size=3", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"totalElements":1`)
}
