package middleware

import (
	"encoding/json"
	"net/http"

	"github.com/clerk/clerk-sdk-go/v2"
	clerkhttp "github.com/clerk/clerk-sdk-go/v2/http"
	"github.com/deppfellow/petclinic/internal/errs"
	"github.com/deppfellow/petclinic/internal/server"
	"github.com/labstack/echo/v4"
)

// AuthMiddleware guards write routes with Clerk sessions.
type AuthMiddleware struct {
	server *server.Server
}

func NewAuthMiddleware(s *server.Server) *AuthMiddleware {
	return &AuthMiddleware{
		server: s,
	}
}

func (auth *AuthMiddleware) unauthorized(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)

	if err := json.NewEncoder(w).Encode(errs.NewUnauthorizedError("Unauthorized", false)); err != nil {
		auth.server.Logger.Error().Err(err).Str("function", "RequireAuth").Msg("failed to write JSON response")
	}
}

// RequireAuth rejects requests without a valid Clerk session token and
// records the session's user on the echo context.
func (auth *AuthMiddleware) RequireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return echo.WrapMiddleware(
		clerkhttp.WithHeaderAuthorization(
			clerkhttp.AuthorizationFailureHandler(http.HandlerFunc(auth.unauthorized)),
		),
	)(func(c echo.Context) error {
		claims, ok := clerk.SessionClaimsFromContext(c.Request().Context())
		if !ok {
			GetLogger(c).Error().
				Str("function", "RequireAuth").
				Msg("could not get session claims from context")
			return errs.NewUnauthorizedError("Unauthorized", false)
		}

		c.Set(UserIDKey, claims.Subject)
		c.Set(UserRoleKey, claims.ActiveOrganizationRole)

		logger := GetLogger(c).With().Str("user_id", claims.Subject).Logger()
		c.Set(LoggerKey, &logger)
		c.SetRequest(c.Request().WithContext(logger.WithContext(c.Request().Context())))

		logger.Debug().Str("function", "RequireAuth").Msg("user authenticated")

		return next(c)
	})
}
