package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/deppfellow/petclinic/internal/middleware"
	"github.com/deppfellow/petclinic/internal/server"
	"github.com/labstack/echo/v4"
)

// HealthHandler serves /status.
type HealthHandler struct {
	Handler
}

// NewHealthHandler returns a HealthHandler for s.
func NewHealthHandler(s *server.Server) *HealthHandler {
	return &HealthHandler{
		Handler: NewHandler(s),
	}
}

type pinger func(ctx context.Context) error

type checkResult struct {
	Status       string `json:"status"`
	ResponseTime string `json:"response_time"`
	Error        string `json:"error,omitempty"`
}

func (h *HealthHandler) check(ctx context.Context, name string, ping pinger) checkResult {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	start := time.Now()
	err := ping(ctx)
	result := checkResult{Status: "healthy", ResponseTime: time.Since(start).String()}
	if err == nil {
		return result
	}

	result.Status = "unhealthy"
	result.Error = err.Error()

	if h.server.LoggerService != nil && h.server.LoggerService.GetApplication() != nil {
		h.server.LoggerService.GetApplication().RecordCustomEvent("HealthCheckError", map[string]any{
			"check_type":       name,
			"operation":        "health_check",
			"response_time_ms": time.Since(start).Milliseconds(),
			"error_message":    err.Error(),
		})
	}
	return result
}

// CheckHealth pings the database and Redis. Only the database decides the
// overall status; Redis is optional.
func (h *HealthHandler) CheckHealth(c echo.Context) error {
	start := time.Now()
	logger := middleware.GetLogger(c).With().Str("operation", "health_check").Logger()
	ctx := c.Request().Context()

	checks := map[string]checkResult{
		"database": h.check(ctx, "database", h.server.DB.Pool.Ping),
	}
	if h.server.Redis != nil {
		checks["redis"] = h.check(ctx, "redis", func(ctx context.Context) error {
			return h.server.Redis.Ping(ctx).Err()
		})
	}

	status := http.StatusOK
	response := map[string]any{
		"status":      "healthy",
		"timestamp":   time.Now().UTC(),
		"environment": h.server.Config.Primary.Env,
		"checks":      checks,
	}

	if checks["database"].Status != "healthy" {
		status = http.StatusServiceUnavailable
		response["status"] = "unhealthy"
	}

	for name, result := range checks {
		if result.Status != "healthy" {
			logger.Error().Str("check", name).Str("error", result.Error).Msg("health check failed")
		}
	}

	logger.Debug().Dur("total_duration", time.Since(start)).Int("status", status).Msg("health check done")

	return c.JSON(status, response)
}
