package handler

import (
	"github.com/deppfellow/petclinic/internal/lib/query"
	"github.com/deppfellow/petclinic/internal/model"
	"github.com/deppfellow/petclinic/internal/server"
	"github.com/deppfellow/petclinic/internal/service"
	"github.com/labstack/echo/v4"
)

// OwnerHandler serves the /owners endpoints.
type OwnerHandler struct {
	Handler
	owners *service.OwnerService
}

// NewOwnerHandler returns an OwnerHandler backed by owners.
func NewOwnerHandler(s *server.Server, owners *service.OwnerService) *OwnerHandler {
	return &OwnerHandler{Handler: NewHandler(s), owners: owners}
}

// List pages through owners whose last name starts with req.LastName.
func (h *OwnerHandler) List(c echo.Context, req *ListOwnersRequest) (query.Page[model.Owner], error) {
	return h.owners.FindByLastName(c.Request().Context(), req.LastName, req.Pageable())
}

// Get returns an owner with pets and visits.
func (h *OwnerHandler) Get(c echo.Context, req *OwnerIDRequest) (model.Owner, error) {
	return h.owners.Get(c.Request().Context(), req.OwnerID)
}

// Create registers an owner and returns it with its new id.
func (h *OwnerHandler) Create(c echo.Context, req *CreateOwnerRequest) (model.Owner, error) {
	return h.owners.Create(c.Request().Context(), req.owner(0))
}

// Update replaces an owner's details.
func (h *OwnerHandler) Update(c echo.Context, req *UpdateOwnerRequest) (model.Owner, error) {
	return h.owners.Update(c.Request().Context(), req.owner(req.OwnerID))
}
