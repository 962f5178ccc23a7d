// File: services/week_window.go
package services

import (
	"time"

	"go-gym-classes/models"
)

// ComputeWeekWindow returns the Sunday-to-Saturday window containing now,
// with both bounds at midnight in now's location.
func ComputeWeekWindow(now time.Time) models.WeekWindow {
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	start := midnight.AddDate(0, 0, -int(now.Weekday()))
	return models.WeekWindow{
		StartOfWeek: start,
		EndOfWeek:   start.AddDate(0, 0, 6),
	}
}

// ClassesInWindow keeps the Highlighted events whose start falls on a day of w.
// Default events are dropped even when they are in the window.
func ClassesInWindow(events []models.CalendarEvent, w models.WeekWindow) []models.CalendarEvent {
	var out []models.CalendarEvent
	for _, e := range events {
		if e.VisualState == models.Highlighted && w.Contains(e.Start) {
			out = append(out, e)
		}
	}
	return out
}

// CountClassesThisWeek is the number of the user's own classes in the week of now.
func CountClassesThisWeek(events []models.CalendarEvent, now time.Time) int {
	return len(ClassesInWindow(events, ComputeWeekWindow(now)))
}
