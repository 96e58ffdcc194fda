package email

import "fmt"

// PreviewData holds sample data for rendering each template locally.
var PreviewData = map[Template]any{
	TemplateVisitScheduled: VisitScheduled{
		OwnerID:     6,
		OwnerName:   "Jean Coleman",
		PetID:       7,
		PetName:     "Samantha",
		VisitID:     1,
		Date:        "2013-01-01",
		Description: "rabies shot",
	},
}

// Preview renders a template with its sample data.
func Preview(name Template) (string, error) {
	data, ok := PreviewData[name]
	if !ok {
		return "", fmt.Errorf("no preview data for template %q", name)
	}
	return Render(name, data)
}
