package email

import "fmt"

// VisitScheduled is the data behind the visit-scheduled email.
type VisitScheduled struct {
	OwnerID     int
	OwnerName   string
	PetID       int
	PetName     string
	VisitID     int
	Date        string
	Description string
}

// SendVisitScheduled tells the clinic inbox about a newly booked visit.
func (c *Client) SendVisitScheduled(to string, v VisitScheduled) error {
	return c.SendEmail(
		to,
		fmt.Sprintf("Visit scheduled for %s on %s", v.PetName, v.Date),
		TemplateVisitScheduled,
		v,
	)
}
