package repository

import (
	"github.com/deppfellow/petclinic/internal/server"
)

// Repositories groups every repository.
type Repositories struct {
	Owners *OwnerRepository
	Pets   *PetRepository
	Visits *VisitRepository
	Vets   *VetRepository
}

// NewRepositories builds every repository on the server's pool.
func NewRepositories(s *server.Server) *Repositories {
	return NewRepositoriesWithDB(s.DB.Pool)
}

// NewRepositoriesWithDB builds the repositories on db, which may be a transaction.
func NewRepositoriesWithDB(db DBTX) *Repositories {
	return &Repositories{
		Owners: NewOwnerRepository(db),
		Pets:   NewPetRepository(db),
		Visits: NewVisitRepository(db),
		Vets:   NewVetRepository(db),
	}
}
