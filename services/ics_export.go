// File: services/ics_export.go
package services

import (
	"fmt"
	"io"
	"time"

	ics "github.com/arran4/golang-ical"
	"go-gym-classes/models"
)

// ExportICS writes the given classes as an iCalendar feed. baseURL is used
// to link each event back to its class page.
func ExportICS(records []models.ClassRecord, baseURL string, w io.Writer) error {
	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//go-gym-classes//timetable//EN")
	cal.SetName("My gym classes")

	stamp := time.Now()
	for _, r := range records {
		event := cal.AddEvent(fmt.Sprintf("class-%s@go-gym-classes", r.ID))
		event.SetDtStampTime(stamp)
		event.SetStartAt(r.Start)
		event.SetEndAt(r.End)
		event.SetSummary(r.Title)
		if r.Trainer != "" {
			event.SetDescription(fmt.Sprintf("%s\nTrainer: %s", r.Description, r.Trainer))
		} else {
			event.SetDescription(r.Description)
		}
		if baseURL != "" {
			event.SetURL(baseURL + "/class/" + r.ID)
		}
	}

	return cal.SerializeTo(w)
}
