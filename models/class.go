// Package models defines data structures used across the application.
// File: models/class.go
package models

import (
	"slices"
	"time"
)

// ----------------------- class model -----------------------

// ClassRecord is one bookable class occurrence as provided by the class API.
type ClassRecord struct {
	ID              string    `json:"id" validate:"required"`
	Title           string    `json:"title" validate:"required"`
	Description     string    `json:"description"`
	Trainer         string    `json:"trainer"`
	Start           time.Time `json:"start" validate:"required"`
	End             time.Time `json:"end" validate:"required,gtfield=Start"`
	ParticipantList []string  `json:"participantList"`
}

// HasParticipant reports whether userID is signed up for the class.
func (r ClassRecord) HasParticipant(userID string) bool {
	return userID != "" && slices.Contains(r.ParticipantList, userID)
}

// ----------------------- calendar model -----------------------

// VisualState marks whether the viewing user is enrolled in an event.
type VisualState int

const (
	Default VisualState = iota
	Highlighted
)

// String returns the name used in JSON payloads and templates.
func (s VisualState) String() string {
	if s == Highlighted {
		return "highlighted"
	}
	return "default"
}

// CalendarEvent is the presentation form of a ClassRecord.
type CalendarEvent struct {
	ID              string
	Title           string
	Start           time.Time
	End             time.Time
	ParticipantList []string
	VisualState     VisualState
}

// ViewType is the calendar layout.
type ViewType string

const (
	ViewDay  ViewType = "Day"
	ViewWeek ViewType = "Week"
)

// ----------------------- user model -----------------------

// CurrentUser is the viewer of a page. Empty fields mean anonymous.
type CurrentUser struct {
	ID    string
	Token string
}

// Anonymous is the user of a session without credentials.
var Anonymous = CurrentUser{}

// IsAuthenticated reports whether both the identifier and the token are present.
func (u CurrentUser) IsAuthenticated() bool {
	return u.ID != "" && u.Token != ""
}

// Normalize returns Anonymous unless both fields are present.
func (u CurrentUser) Normalize() CurrentUser {
	if !u.IsAuthenticated() {
		return Anonymous
	}
	return u
}

// ----------------------- week model -----------------------

// WeekWindow is the Sunday-to-Saturday range containing a given moment.
// Both bounds are local midnights; EndOfWeek is inclusive for the whole day.
type WeekWindow struct {
	StartOfWeek time.Time
	EndOfWeek   time.Time
}

// Contains reports whether t falls on any calendar day of the window.
func (w WeekWindow) Contains(t time.Time) bool {
	t = t.In(w.StartOfWeek.Location())
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	return !day.Before(w.StartOfWeek) && !day.After(w.EndOfWeek)
}
