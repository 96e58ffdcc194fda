package handler

import (
	"github.com/deppfellow/petclinic/internal/server"
	"github.com/deppfellow/petclinic/internal/service"
)

// Handlers groups every endpoint the router mounts.
type Handlers struct {
	Health  *HealthHandler
	OpenAPI *OpenAPIHandler
	Owners  *OwnerHandler
	Pets    *PetHandler
	Visits  *VisitHandler
	Vets    *VetHandler
}

// NewHandlers builds the handlers on top of services.
func NewHandlers(s *server.Server, services *service.Services) *Handlers {
	return &Handlers{
		Health:  NewHealthHandler(s),
		OpenAPI: NewOpenAPIHandler(s),
		Owners:  NewOwnerHandler(s, services.Owners),
		Pets:    NewPetHandler(s, services.Pets),
		Visits:  NewVisitHandler(s, services.Visits),
		Vets:    NewVetHandler(s, services.Vets),
	}
}
