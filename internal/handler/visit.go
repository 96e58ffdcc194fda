package handler

import (
	"time"

	"github.com/deppfellow/petclinic/internal/model"
	"github.com/deppfellow/petclinic/internal/server"
	"github.com/deppfellow/petclinic/internal/service"
	"github.com/labstack/echo/v4"
)

// VisitHandler serves visit endpoints.
type VisitHandler struct {
	Handler
	visits *service.VisitService
	now    func() time.Time
}

// NewVisitHandler returns a VisitHandler backed by visits.
func NewVisitHandler(s *server.Server, visits *service.VisitService) *VisitHandler {
	return &VisitHandler{Handler: NewHandler(s), visits: visits, now: time.Now}
}

// Create books a visit for the pet in the path.
func (h *VisitHandler) Create(c echo.Context, req *CreateVisitRequest) (model.Visit, error) {
	return h.visits.Create(c.Request().Context(), req.OwnerID, req.PetID, req.visit(h.now()))
}

// ListByPet returns a pet's visits, newest first.
func (h *VisitHandler) ListByPet(c echo.Context, req *PetIDRequest) ([]model.Visit, error) {
	visits, err := h.visits.ListByPet(c.Request().Context(), req.PetID)
	if visits == nil && err == nil {
		visits = []model.Visit{}
	}
	return visits, err
}
