package service

import (
	"github.com/deppfellow/petclinic/internal/lib/job"
	"github.com/deppfellow/petclinic/internal/repository"
	"github.com/deppfellow/petclinic/internal/server"
)

// Services groups every service.
type Services struct {
	Auth   *AuthService
	Owners *OwnerService
	Pets   *PetService
	Visits *VisitService
	Vets   *VetService
	Job    *job.JobService
}

// NewService builds the services on the repositories and the server's
// Redis and job client.
func NewService(s *server.Server, repos *repository.Repositories) (*Services, error) {
	authService := NewAuthService(s)

	return &Services{
		Auth:   authService,
		Owners: NewOwnerService(repos.Owners),
		Pets:   NewPetService(repos.Owners, repos.Pets),
		Visits: NewVisitService(repos.Owners, repos.Visits, s.Job.Client),
		Vets:   NewVetService(repos.Vets, NewRedisCache(s.Redis), s.Config.Cache.VetsTTL),
		Job:    s.Job,
	}, nil
}
