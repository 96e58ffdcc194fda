package handler

import (
	"fmt"
	"net/http"
	"os"

	"github.com/deppfellow/petclinic/internal/server"
	"github.com/labstack/echo/v4"
)

// OpenAPIHandler serves the API reference page.
type OpenAPIHandler struct {
	Handler
}

// NewOpenAPIHandler returns an OpenAPIHandler for s.
func NewOpenAPIHandler(s *server.Server) *OpenAPIHandler {
	return &OpenAPIHandler{
		Handler: NewHandler(s),
	}
}

// ServeOpenAPIUI serves the Scalar page that renders /static/openapi.json.
func (h *OpenAPIHandler) ServeOpenAPIUI(c echo.Context) error {
	templateBytes, err := os.ReadFile("static/openapi.html")
	if err != nil {
		return fmt.Errorf("failed to read OpenAPI UI template: %w", err)
	}

	c.Response().Header().Set("Cache-Control", "no-cache")

	return c.HTML(http.StatusOK, string(templateBytes))
}
