package service

import (
	"github.com/clerk/clerk-sdk-go/v2"
	"github.com/deppfellow/petclinic/internal/server"
)

// AuthService configures the Clerk SDK used by the write-route middleware.
type AuthService struct {
	server *server.Server
}

// NewAuthService configures the Clerk SDK with the secret key.
func NewAuthService(s *server.Server) *AuthService {
	clerk.SetKey(s.Config.Auth.SecretKey)
	return &AuthService{
		server: s,
	}
}
