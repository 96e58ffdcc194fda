// Package model holds the clinic's domain entities. They carry no
// persistence logic; repositories map query rows into them.
package model

import (
	"sort"
	"strings"
	"time"
)

// Owner is a pet owner together with their pets.
type Owner struct {
	ID        int    `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Address   string `json:"address"`
	City      string `json:"city"`
	Telephone string `json:"telephone"`
	Pets      []Pet  `json:"pets"`
}

// IsNew reports whether the owner has not been stored yet.
func (o Owner) IsNew() bool {
	return o.ID == 0
}

// Pet finds one of the owner's pets by name, case-insensitively. New
// (unsaved) pets are skipped when ignoreNew is set.
func (o Owner) Pet(name string, ignoreNew bool) (Pet, bool) {
	for _, p := range o.Pets {
		if ignoreNew && p.IsNew() {
			continue
		}
		if strings.EqualFold(p.Name, name) {
			return p, true
		}
	}
	return Pet{}, false
}

// PetByID finds one of the owner's pets.
func (o Owner) PetByID(id int) (Pet, bool) {
	for _, p := range o.Pets {
		if p.ID == id {
			return p, true
		}
	}
	return Pet{}, false
}

// PetType is a kind of animal, such as cat or dog.
type PetType struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Pet belongs to exactly one owner.
type Pet struct {
	ID        int       `json:"id"`
	Name      string    `json:"name"`
	BirthDate time.Time `json:"birthDate"`
	Type      PetType   `json:"type"`
	OwnerID   int       `json:"ownerId"`
	Visits    []Visit   `json:"visits,omitempty"`
}

func (p Pet) IsNew() bool {
	return p.ID == 0
}

// Visit is one appointment of a pet.
type Visit struct {
	ID          int       `json:"id"`
	PetID       int       `json:"petId"`
	Date        time.Time `json:"date"`
	Description string    `json:"description"`
}

// Specialty is a field a vet practices, such as surgery.
type Specialty struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Vet is a veterinarian with zero or more specialties.
type Vet struct {
	ID          int         `json:"id"`
	FirstName   string      `json:"firstName"`
	LastName    string      `json:"lastName"`
	Specialties []Specialty `json:"specialties"`
}

// SortedSpecialties returns the specialties ordered by name.
func (v Vet) SortedSpecialties() []Specialty {
	out := append([]Specialty(nil), v.Specialties...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func (v Vet) NrOfSpecialties() int {
	return len(v.Specialties)
}
