// Package websocket bridges the browser calendar widget to a TimetableView.
// The server pushes data (setEvents, setViewType, navigate) and the widget
// sends user events (eventClick, resize, refresh).
// file: websocket/messages.go
package websocket

import (
	"time"

	"go-gym-classes/models"
	"go-gym-classes/views"
)

// Colours used by the calendar widget for each visual state.
const (
	HighlightColor = "#FE3434"
	DefaultColor   = "#E8EAED"
)

// widget event timestamps carry no zone; they are rendered in WidgetConfig.Location
const widgetTimeLayout = "2006-01-02T15:04:05"

// WidgetConfig is the static part of what the widget is fed.
type WidgetConfig struct {
	BusinessBeginsHour int
	BusinessEndsHour   int
	Location           *time.Location
}

// InboundMessage is a message sent by the widget.
type InboundMessage struct {
	Action string `json:"action"`
	ID     string `json:"id,omitempty"`
	Width  int    `json:"width,omitempty"`
}

// EventPayload is one calendar event in the widget's format.
type EventPayload struct {
	ID          string `json:"id"`
	Text        string `json:"text"`
	Start       string `json:"start"`
	End         string `json:"end"`
	BackColor   string `json:"backColor"`
	VisualState string `json:"visualState"`
}

// SetEventsMessage replaces everything the widget shows.
type SetEventsMessage struct {
	Action             string         `json:"action"`
	State              string         `json:"state"`
	Events             []EventPayload `json:"events"`
	ViewType           string         `json:"viewType"`
	BusinessBeginsHour int            `json:"businessBeginsHour"`
	BusinessEndsHour   int            `json:"businessEndsHour"`
	WeeklyCount        int            `json:"weeklyCount"`
	Authenticated      bool           `json:"authenticated"`
}

// ViewTypeMessage switches between the Day and Week layouts.
type ViewTypeMessage struct {
	Action   string `json:"action"`
	ViewType string `json:"viewType"`
}

// NavigateMessage tells the browser to open a page.
type NavigateMessage struct {
	Action string `json:"action"`
	Path   string `json:"path"`
}

// NewSetEventsMessage converts a snapshot to the widget format.
func NewSetEventsMessage(snap views.TimetableSnapshot, cfg WidgetConfig) SetEventsMessage {
	loc := cfg.Location
	if loc == nil {
		loc = time.Local
	}

	events := make([]EventPayload, 0, len(snap.Events))
	for _, e := range snap.Events {
		color := DefaultColor
		if e.VisualState == models.Highlighted {
			color = HighlightColor
		}
		events = append(events, EventPayload{
			ID:          e.ID,
			Text:        e.Title,
			Start:       e.Start.In(loc).Format(widgetTimeLayout),
			End:         e.End.In(loc).Format(widgetTimeLayout),
			BackColor:   color,
			VisualState: e.VisualState.String(),
		})
	}

	return SetEventsMessage{
		Action:             "setEvents",
		State:              snap.State.String(),
		Events:             events,
		ViewType:           string(snap.ViewType),
		BusinessBeginsHour: cfg.BusinessBeginsHour,
		BusinessEndsHour:   cfg.BusinessEndsHour,
		WeeklyCount:        snap.WeeklyCount,
		Authenticated:      snap.Authenticated,
	}
}
