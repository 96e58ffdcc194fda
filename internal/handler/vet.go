package handler

import (
	"github.com/deppfellow/petclinic/internal/lib/query"
	"github.com/deppfellow/petclinic/internal/model"
	"github.com/deppfellow/petclinic/internal/server"
	"github.com/deppfellow/petclinic/internal/service"
	"github.com/labstack/echo/v4"
)

// VetHandler serves the /vets endpoints.
type VetHandler struct {
	Handler
	vets *service.VetService
}

// NewVetHandler returns a VetHandler backed by vets.
func NewVetHandler(s *server.Server, vets *service.VetService) *VetHandler {
	return &VetHandler{Handler: NewHandler(s), vets: vets}
}

// List returns every vet with specialties.
func (h *VetHandler) List(c echo.Context, _ *EmptyRequest) ([]model.Vet, error) {
	return h.vets.List(c.Request().Context())
}

// Page returns one page of vets.
func (h *VetHandler) Page(c echo.Context, req *PageRequest) (query.Page[model.Vet], error) {
	return h.vets.Page(c.Request().Context(), req.Pageable())
}
