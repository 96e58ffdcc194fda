package repository

import (
	"github.com/deppfellow/petclinic/internal/lib/query"
	"github.com/deppfellow/petclinic/internal/model"
)

var (
	ownerColumns = []query.Column{
		query.Col("owners.id"),
		query.Col("owners.first_name"),
		query.Col("owners.last_name"),
		query.Col("owners.address"),
		query.Col("owners.city"),
		query.Col("owners.telephone"),
	}

	petColumns = []query.Column{
		query.Col("pets.id"),
		query.Col("pets.name"),
		query.Col("pets.birth_date"),
		query.Col("pets.owner_id"),
		query.As("types.id", "type_id"),
		query.As("types.name", "type_name"),
	}

	visitColumns = []query.Column{
		query.Col("visits.id"),
		query.Col("visits.pet_id"),
		query.Col("visits.visit_date"),
		query.Col("visits.description"),
	}

	vetColumns = []query.Column{
		query.Col("vets.id"),
		query.Col("vets.first_name"),
		query.Col("vets.last_name"),
	}

	specialtyColumns = []query.Column{
		query.As("specialties.id", "id"),
		query.As("specialties.name", "name"),
		query.Col("vet_specialties.vet_id"),
	}
)

func ownerSpec() query.Spec {
	return query.From("owners", ownerColumns...)
}

func petSpec() query.Spec {
	return query.From("pets", petColumns...).
		Join("types ON types.id = pets.type_id").
		OrderBy("pets.name", "pets.id")
}

func visitSpec() query.Spec {
	return query.From("visits", visitColumns...).
		OrderBy("visits.visit_date DESC", "visits.id DESC")
}

func vetSpec() query.Spec {
	return query.From("vets", vetColumns...).OrderBy("vets.id")
}

func specialtySpec() query.Spec {
	return query.From("vet_specialties", specialtyColumns...).
		Join("specialties ON specialties.id = vet_specialties.specialty_id").
		OrderBy("specialties.name")
}

func visitsOfPet() query.Nested {
	return query.Nested{Name: "visits", Child: visitSpec(), ChildKey: "visits.pet_id", ParentKey: "pets.id"}
}

// petsOfOwner nests an owner's pets, and each pet's visits when withVisits
// is set.
func petsOfOwner(withVisits bool) query.Nested {
	n := query.Nested{Name: "pets", Child: petSpec(), ChildKey: "pets.owner_id", ParentKey: "owners.id"}
	if withVisits {
		n.Nested = []query.Nested{visitsOfPet()}
	}
	return n
}

func specialtiesOfVet() query.Nested {
	return query.Nested{
		Name:      "specialties",
		Child:     specialtySpec(),
		ChildKey:  "vet_specialties.vet_id",
		ParentKey: "vets.id",
	}
}

func toOwner(r query.Row) (model.Owner, error) {
	pets, err := query.MapRows(r.Nested("pets"), toPet)
	if err != nil {
		return model.Owner{}, err
	}

	return model.Owner{
		ID:        r.Int("id"),
		FirstName: r.String("first_name"),
		LastName:  r.String("last_name"),
		Address:   r.String("address"),
		City:      r.String("city"),
		Telephone: r.String("telephone"),
		Pets:      pets,
	}, nil
}

func toPet(r query.Row) (model.Pet, error) {
	pet := model.Pet{
		ID:        r.Int("id"),
		Name:      r.String("name"),
		BirthDate: r.Time("birth_date"),
		OwnerID:   r.Int("owner_id"),
		Type: model.PetType{
			ID:   r.Int("type_id"),
			Name: r.String("type_name"),
		},
	}

	if r.Has("visits") {
		visits, err := query.MapRows(r.Nested("visits"), toVisit)
		if err != nil {
			return model.Pet{}, err
		}
		pet.Visits = visits
	}

	return pet, nil
}

func toPetType(r query.Row) (model.PetType, error) {
	return model.PetType{ID: r.Int("id"), Name: r.String("name")}, nil
}

func toVisit(r query.Row) (model.Visit, error) {
	return model.Visit{
		ID:          r.Int("id"),
		PetID:       r.Int("pet_id"),
		Date:        r.Time("visit_date"),
		Description: r.String("description"),
	}, nil
}

func toSpecialty(r query.Row) (model.Specialty, error) {
	return model.Specialty{ID: r.Int("id"), Name: r.String("name")}, nil
}

func toVet(r query.Row) (model.Vet, error) {
	specialties, err := query.MapRows(r.Nested("specialties"), toSpecialty)
	if err != nil {
		return model.Vet{}, err
	}

	return model.Vet{
		ID:          r.Int("id"),
		FirstName:   r.String("first_name"),
		LastName:    r.String("last_name"),
		Specialties: specialties,
	}, nil
}
