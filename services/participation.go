// File: services/participation.go
package services

import (
	"slices"

	"go-gym-classes/models"
)

// ColourEvents returns a new slice with each event's visual state set for user:
// Highlighted when the user is a participant, Default otherwise.
// The input slice is left untouched.
func ColourEvents(events []models.CalendarEvent, user models.CurrentUser) []models.CalendarEvent {
	out := make([]models.CalendarEvent, len(events))
	for i, e := range events {
		e.ParticipantList = slices.Clone(e.ParticipantList)
		e.VisualState = VisualStateFor(e, user)
		out[i] = e
	}
	return out
}

// VisualStateFor decides the visual state of a single event.
func VisualStateFor(e models.CalendarEvent, user models.CurrentUser) models.VisualState {
	if user.ID != "" && slices.Contains(e.ParticipantList, user.ID) {
		return models.Highlighted
	}
	return models.Default
}
