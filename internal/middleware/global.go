package middleware

import (
	"net/http"

	"github.com/deppfellow/petclinic/internal/errs"
	"github.com/deppfellow/petclinic/internal/server"
	"github.com/deppfellow/petclinic/internal/sqlerr"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

// GlobalMiddlewares are applied to every route.
type GlobalMiddlewares struct {
	server *server.Server
}

func NewGlobalMiddlewares(s *server.Server) *GlobalMiddlewares {
	return &GlobalMiddlewares{
		server: s,
	}
}

// CORS allows the configured origins.
func (global *GlobalMiddlewares) CORS() echo.MiddlewareFunc {
	return middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: global.server.Config.Server.CORSAllowedOrigins,
	})
}

// statusOf reports the status the error handler will answer err with.
func statusOf(err error, fallback int) int {
	var httpErr *errs.HTTPError
	var echoErr *echo.HTTPError
	switch {
	case errors.As(err, &httpErr):
		return httpErr.Status
	case errors.As(err, &echoErr):
		return echoErr.Code
	}
	return fallback
}

// RequestLogger writes one line per request through the request logger.
func (global *GlobalMiddlewares) RequestLogger() echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:     true,
		LogStatus:  true,
		LogError:   true,
		LogLatency: true,
		LogHost:    true,
		LogMethod:  true,
		LogURIPath: true,

		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			statusCode := v.Status
			if v.Error != nil {
				statusCode = statusOf(v.Error, statusCode)
			}

			logger := GetLogger(c)

			var e *zerolog.Event
			switch {
			case statusCode >= 500:
				e = logger.Error().Err(v.Error)
			case statusCode >= 400:
				e = logger.Warn()
			default:
				e = logger.Info()
			}

			e.
				Dur("latency", v.Latency).
				Int("status", statusCode).
				Str("method", v.Method).
				Str("uri", v.URI).
				Str("host", v.Host).
				Str("ip", c.RealIP()).
				Str("user_agent", c.Request().UserAgent()).
				Msg("API")

			return nil
		},
	})
}

// Recover turns panics into 500 responses.
func (global *GlobalMiddlewares) Recover() echo.MiddlewareFunc {
	return middleware.Recover()
}

// Secure sets the usual security headers.
func (global *GlobalMiddlewares) Secure() echo.MiddlewareFunc {
	return middleware.Secure()
}

// GlobalErrorHandler renders every error as an errs.HTTPError body. Store
// errors go through sqlerr first so not-found and constraint failures keep
// their meaning.
func (global *GlobalMiddlewares) GlobalErrorHandler(err error, c echo.Context) {
	originalErr := err

	var httpErr *errs.HTTPError
	var echoErr *echo.HTTPError
	switch {
	case errors.As(err, &httpErr):
	case errors.As(err, &echoErr):
		if echoErr.Code == http.StatusNotFound {
			err = errs.NewNotFoundError("Route not found", false, nil)
		}
	default:
		err = sqlerr.HandleError(err)
	}

	body := errs.HTTPError{
		Status:  http.StatusInternalServerError,
		Code:    errs.MakeUpperCaseWithUnderscores(http.StatusText(http.StatusInternalServerError)),
		Message: http.StatusText(http.StatusInternalServerError),
	}

	httpErr = nil
	switch {
	case errors.As(err, &httpErr):
		body = *httpErr

	case errors.As(err, &echoErr):
		body.Status = echoErr.Code
		body.Code = errs.MakeUpperCaseWithUnderscores(http.StatusText(echoErr.Code))
		if msg, ok := echoErr.Message.(string); ok {
			body.Message = msg
		} else {
			body.Message = http.StatusText(echoErr.Code)
		}
	}

	logger := GetLogger(c)
	event := logger.Warn()
	if body.Status >= http.StatusInternalServerError {
		event = logger.Error().Stack()
	}
	event.
		Err(originalErr).
		Int("status", body.Status).
		Str("error_code", body.Code).
		Msg(body.Message)

	if c.Response().Committed {
		return
	}

	if c.Request().Method == http.MethodHead {
		_ = c.NoContent(body.Status)
		return
	}
	_ = c.JSON(body.Status, body)
}
