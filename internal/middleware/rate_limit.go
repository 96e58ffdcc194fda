package middleware

import (
	"math"
	"net/http"
	"time"

	"github.com/deppfellow/petclinic/internal/errs"
	"github.com/deppfellow/petclinic/internal/server"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"golang.org/x/time/rate"
)

// RateLimitMiddleware throttles the API per client IP.
type RateLimitMiddleware struct {
	server *server.Server
}

func NewRateLimitMiddleware(s *server.Server) *RateLimitMiddleware {
	return &RateLimitMiddleware{
		server: s,
	}
}

// Limit throttles each client IP to the configured requests per second,
// with a burst of twice that.
func (r *RateLimitMiddleware) Limit() echo.MiddlewareFunc {
	perSecond := r.server.Config.Server.RateLimitPerSecond

	return echomw.RateLimiterWithConfig(echomw.RateLimiterConfig{
		Store: echomw.NewRateLimiterMemoryStoreWithConfig(echomw.RateLimiterMemoryStoreConfig{
			Rate:      rate.Limit(perSecond),
			Burst:     int(math.Ceil(perSecond * 2)),
			ExpiresIn: 3 * time.Minute,
		}),
		IdentifierExtractor: func(c echo.Context) (string, error) {
			return c.RealIP(), nil
		},
		ErrorHandler: func(c echo.Context, err error) error {
			return errs.NewForbiddenError("Unable to identify client", false)
		},
		DenyHandler: func(c echo.Context, identifier string, err error) error {
			r.RecordRateLimitHit(c.Path())
			GetLogger(c).Warn().Str("client", identifier).Msg("rate limit exceeded")
			return echo.NewHTTPError(http.StatusTooManyRequests, "Too many requests")
		},
	})
}

// RecordRateLimitHit reports a rejected request to New Relic.
func (r *RateLimitMiddleware) RecordRateLimitHit(endpoint string) {
	if r.server.LoggerService != nil && r.server.LoggerService.GetApplication() != nil {
		r.server.LoggerService.GetApplication().RecordCustomEvent("RateLimitHit", map[string]any{
			"endpoint": endpoint,
		})
	}
}
