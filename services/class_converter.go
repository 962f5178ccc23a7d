// File: services/class_converter.go
package services

import (
	"slices"

	"go-gym-classes/models"
)

// ConvertClassData maps class records 1:1 and in order to calendar events.
// Participant lists are copied so events never alias the source records.
func ConvertClassData(records []models.ClassRecord) []models.CalendarEvent {
	events := make([]models.CalendarEvent, 0, len(records))
	for _, r := range records {
		events = append(events, models.CalendarEvent{
			ID:              r.ID,
			Title:           r.Title,
			Start:           r.Start,
			End:             r.End,
			ParticipantList: slices.Clone(r.ParticipantList),
			VisualState:     models.Default,
		})
	}
	return events
}
