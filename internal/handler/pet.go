package handler

import (
	"github.com/deppfellow/petclinic/internal/model"
	"github.com/deppfellow/petclinic/internal/server"
	"github.com/deppfellow/petclinic/internal/service"
	"github.com/labstack/echo/v4"
)

// PetHandler serves pet and pet type endpoints.
type PetHandler struct {
	Handler
	pets *service.PetService
}

// NewPetHandler returns a PetHandler backed by pets.
func NewPetHandler(s *server.Server, pets *service.PetService) *PetHandler {
	return &PetHandler{Handler: NewHandler(s), pets: pets}
}

// Types lists the pet types by name.
func (h *PetHandler) Types(c echo.Context, _ *EmptyRequest) ([]model.PetType, error) {
	return h.pets.Types(c.Request().Context())
}

// Get returns a single pet without its visits.
func (h *PetHandler) Get(c echo.Context, req *PetIDRequest) (model.Pet, error) {
	return h.pets.Get(c.Request().Context(), req.PetID)
}

// Create adds a pet to the owner in the path.
func (h *PetHandler) Create(c echo.Context, req *CreatePetRequest) (model.Pet, error) {
	return h.pets.Create(c.Request().Context(), req.OwnerID, req.pet(0))
}

// Update edits a pet of the owner in the path.
func (h *PetHandler) Update(c echo.Context, req *UpdatePetRequest) (model.Pet, error) {
	return h.pets.Update(c.Request().Context(), req.OwnerID, req.pet(req.PetID))
}
