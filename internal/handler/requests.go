package handler

import (
	"time"

	"github.com/deppfellow/petclinic/internal/lib/query"
	"github.com/deppfellow/petclinic/internal/model"
	"github.com/deppfellow/petclinic/internal/validation"
)

const defaultPageSize = 5

// PageParams are the page and size query parameters shared by paged
// endpoints. Size defaults to 5.
type PageParams struct {
	Page int `query:"page" validate:"gte=0,lte=1000000"`
	Size int `query:"size" validate:"omitempty,gte=1,lte=100"`
}

// Pageable converts the parameters, applying the default size.
func (p PageParams) Pageable() query.Pageable {
	size := p.Size
	if size == 0 {
		size = defaultPageSize
	}
	return query.PageRequest(p.Page, size)
}

// ListOwnersRequest filters owners by a last name prefix.
type ListOwnersRequest struct {
	PageParams
	LastName string `query:"lastName" validate:"max=80"`
}

func (r *ListOwnersRequest) Validate() error {
	return validation.Struct(r)
}

// OwnerIDRequest addresses a single owner by path.
type OwnerIDRequest struct {
	OwnerID int `param:"ownerId" validate:"required,gte=1"`
}

func (r *OwnerIDRequest) Validate() error {
	return validation.Struct(r)
}

// OwnerFields is the editable part of an owner.
type OwnerFields struct {
	FirstName string `json:"firstName" validate:"required,max=30"`
	LastName  string `json:"lastName" validate:"required,max=30"`
	Address   string `json:"address" validate:"required,max=255"`
	City      string `json:"city" validate:"required,max=80"`
	Telephone string `json:"telephone" validate:"required,numeric,max=10"`
}

func (f OwnerFields) owner(id int) model.Owner {
	return model.Owner{
		ID:        id,
		FirstName: f.FirstName,
		LastName:  f.LastName,
		Address:   f.Address,
		City:      f.City,
		Telephone: f.Telephone,
	}
}

// CreateOwnerRequest registers a new owner.
type CreateOwnerRequest struct {
	OwnerFields
}

func (r *CreateOwnerRequest) Validate() error {
	return validation.Struct(r)
}

// UpdateOwnerRequest replaces the fields of an existing owner.
type UpdateOwnerRequest struct {
	OwnerID int `param:"ownerId" validate:"required,gte=1"`
	OwnerFields
}

func (r *UpdateOwnerRequest) Validate() error {
	return validation.Struct(r)
}

// PetFields is the editable part of a pet. BirthDate is YYYY-MM-DD.
type PetFields struct {
	Name      string `json:"name" validate:"required,max=30"`
	BirthDate string `json:"birthDate" validate:"required,datetime=2006-01-02"`
	TypeID    int    `json:"typeId" validate:"required,gte=1"`
}

func (f PetFields) pet(id int) model.Pet {
	// BirthDate was checked by the datetime rule.
	birth, _ := time.Parse(time.DateOnly, f.BirthDate)
	return model.Pet{
		ID:        id,
		Name:      f.Name,
		BirthDate: birth,
		Type:      model.PetType{ID: f.TypeID},
	}
}

// CreatePetRequest adds a pet to an owner.
type CreatePetRequest struct {
	OwnerID int `param:"ownerId" validate:"required,gte=1"`
	PetFields
}

func (r *CreatePetRequest) Validate() error {
	return validation.Struct(r)
}

// UpdatePetRequest edits a pet the owner already has.
type UpdatePetRequest struct {
	OwnerID int `param:"ownerId" validate:"required,gte=1"`
	PetID   int `param:"petId" validate:"required,gte=1"`
	PetFields
}

func (r *UpdatePetRequest) Validate() error {
	return validation.Struct(r)
}

// PetIDRequest addresses a single pet by path.
type PetIDRequest struct {
	PetID int `param:"petId" validate:"required,gte=1"`
}

func (r *PetIDRequest) Validate() error {
	return validation.Struct(r)
}

// CreateVisitRequest books a visit. Date is optional and defaults to today.
type CreateVisitRequest struct {
	OwnerID     int    `param:"ownerId" validate:"required,gte=1"`
	PetID       int    `param:"petId" validate:"required,gte=1"`
	Date        string `json:"date" validate:"omitempty,datetime=2006-01-02"`
	Description string `json:"description" validate:"required,max=255"`
}

func (r *CreateVisitRequest) Validate() error {
	return validation.Struct(r)
}

// visit defaults the date to today.
func (r *CreateVisitRequest) visit(now time.Time) model.Visit {
	date := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	if r.Date != "" {
		date, _ = time.Parse(time.DateOnly, r.Date)
	}
	return model.Visit{PetID: r.PetID, Date: date, Description: r.Description}
}

// PageRequest is a bare paged listing.
type PageRequest struct {
	PageParams
}

func (r *PageRequest) Validate() error {
	return validation.Struct(r)
}

// EmptyRequest is used by endpoints that take no input.
type EmptyRequest struct{}

func (r *EmptyRequest) Validate() error {
	return nil
}
