// Package router assembles the echo instance: middleware chain, system
// routes and the versioned clinic API.
package router

import (
	"net/http"

	"github.com/deppfellow/petclinic/internal/handler"
	"github.com/deppfellow/petclinic/internal/middleware"
	"github.com/deppfellow/petclinic/internal/server"
	"github.com/labstack/echo/v4"
)

// NewRouter wires the middleware chain and every route.
func NewRouter(s *server.Server, h *handler.Handlers) *echo.Echo {
	mw := middleware.NewMiddlewares(s)

	r := echo.New()
	r.HideBanner = true
	r.HidePort = true
	r.HTTPErrorHandler = mw.Global.GlobalErrorHandler

	r.Use(
		mw.Global.Recover(),
		middleware.RequestID(),
		mw.Tracing.NewRelicMiddleware(),
		mw.Tracing.EnhanceTracing(),
		mw.ContextEnhancer.EnhanceContext(),
		mw.Global.RequestLogger(),
		mw.Global.CORS(),
		mw.Global.Secure(),
	)

	registerSystemRoutes(r, h)

	api := r.Group("/api/v1", mw.RateLimit.Limit())
	registerClinicRoutes(api, h, mw.Auth.RequireAuth)

	return r
}

// registerClinicRoutes mounts the clinic API. Reads are public; writes
// go through requireAuth.
func registerClinicRoutes(api *echo.Group, h *handler.Handlers, requireAuth echo.MiddlewareFunc) {
	owners := api.Group("/owners")
	owners.GET("", handler.Handle(h.Owners.Handler, h.Owners.List, http.StatusOK, &handler.ListOwnersRequest{}))
	owners.GET("/:ownerId", handler.Handle(h.Owners.Handler, h.Owners.Get, http.StatusOK, &handler.OwnerIDRequest{}))
	owners.POST("", handler.Handle(h.Owners.Handler, h.Owners.Create, http.StatusCreated, &handler.CreateOwnerRequest{}), requireAuth)
	owners.PUT("/:ownerId", handler.Handle(h.Owners.Handler, h.Owners.Update, http.StatusOK, &handler.UpdateOwnerRequest{}), requireAuth)

	owners.POST("/:ownerId/pets", handler.Handle(h.Pets.Handler, h.Pets.Create, http.StatusCreated, &handler.CreatePetRequest{}), requireAuth)
	owners.PUT("/:ownerId/pets/:petId", handler.Handle(h.Pets.Handler, h.Pets.Update, http.StatusOK, &handler.UpdatePetRequest{}), requireAuth)
	owners.POST("/:ownerId/pets/:petId/visits", handler.Handle(h.Visits.Handler, h.Visits.Create, http.StatusCreated, &handler.CreateVisitRequest{}), requireAuth)

	api.GET("/pets/:petId", handler.Handle(h.Pets.Handler, h.Pets.Get, http.StatusOK, &handler.PetIDRequest{}))
	api.GET("/pets/:petId/visits", handler.Handle(h.Visits.Handler, h.Visits.ListByPet, http.StatusOK, &handler.PetIDRequest{}))
	api.GET("/pettypes", handler.Handle(h.Pets.Handler, h.Pets.Types, http.StatusOK, &handler.EmptyRequest{}))

	api.GET("/vets", handler.Handle(h.Vets.Handler, h.Vets.List, http.StatusOK, &handler.EmptyRequest{}))
	api.GET("/vets/page", handler.Handle(h.Vets.Handler, h.Vets.Page, http.StatusOK, &handler.PageRequest{}))
}
