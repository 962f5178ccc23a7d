// File: views/timetable_view.go
package views

import (
	"context"
	"net/url"
	"slices"
	"sync"

	"go-gym-classes/logger"
	"go-gym-classes/models"
	"go-gym-classes/services"
)

// TimetableSnapshot is everything the timetable page and the calendar widget render.
type TimetableSnapshot struct {
	State         State
	Events        []models.CalendarEvent
	ViewType      models.ViewType
	WeeklyCount   int
	Authenticated bool
}

// TimetableView is the weekly class listing of one viewer.
type TimetableView struct {
	service         services.ClassListingService
	session         services.SessionStore
	dayViewMaxWidth int
	opts            options

	mu         sync.Mutex
	generation uint64
	closed     bool
	state      State
	events     []models.CalendarEvent // converted, not coloured
	viewType   models.ViewType
}

// NewTimetableView creates a view in the Loading state with a Week layout.
func NewTimetableView(svc services.ClassListingService, session services.SessionStore, dayViewMaxWidth int, opts ...Option) *TimetableView {
	return &TimetableView{
		service:         svc,
		session:         session,
		dayViewMaxWidth: dayViewMaxWidth,
		opts:            buildOptions(opts),
		state:           Loading,
		viewType:        models.ViewWeek,
	}
}

// Load fetches the listing once and replaces the whole event set.
// A failed fetch leaves an empty set, never the previous one. It reports
// whether the result was applied; results of a superseded or closed view are dropped.
func (v *TimetableView) Load(ctx context.Context) bool {
	v.mu.Lock()
	v.generation++
	gen := v.generation
	if v.state != Ready {
		v.state = Loading
	}
	v.mu.Unlock()

	records, err := v.service.ListClasses(ctx)

	v.mu.Lock()
	defer v.mu.Unlock()
	if v.closed || gen != v.generation {
		logger.Debug.Printf("[TimetableView.Load] Discarding stale listing (generation %d)", gen)
		return false
	}
	if err != nil {
		logger.Warn.Printf("[TimetableView.Load] Listing fetch failed: %v", err)
		v.opts.metrics.RecordFetchFailure("list")
		v.state = Empty
		v.events = nil
		return true
	}

	v.events = services.ConvertClassData(records)
	v.state = Ready
	logger.Debug.Printf("[TimetableView.Load] Applied %d events", len(v.events))
	return true
}

// Resize recomputes the layout from the viewport width.
func (v *TimetableView) Resize(width int) models.ViewType {
	v.mu.Lock()
	defer v.mu.Unlock()
	if width <= v.dayViewMaxWidth {
		v.viewType = models.ViewDay
	} else {
		v.viewType = models.ViewWeek
	}
	return v.viewType
}

// Snapshot colours the events for the current session user and counts the
// user's classes in the current week. Both are derived fresh on every call.
func (v *TimetableView) Snapshot() TimetableSnapshot {
	user := v.session.CurrentUser()
	now := v.opts.clock()

	v.mu.Lock()
	defer v.mu.Unlock()

	snap := TimetableSnapshot{
		State:         v.state,
		ViewType:      v.viewType,
		Authenticated: user.IsAuthenticated(),
	}
	if v.state == Ready {
		snap.Events = services.ColourEvents(v.events, user)
		snap.WeeklyCount = services.CountClassesThisWeek(snap.Events, now)
	}
	return snap
}

// EventClick maps a clicked event to the class page it navigates to.
func (v *TimetableView) EventClick(id string) (string, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()

	known := slices.ContainsFunc(v.events, func(e models.CalendarEvent) bool { return e.ID == id })
	if !known {
		logger.Warn.Printf("[TimetableView.EventClick] Click on unknown event %q", id)
		return "", false
	}
	return "/class/" + url.PathEscape(id), true
}

// Close marks the view as gone; in-flight loads are discarded when they return.
func (v *TimetableView) Close() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.closed = true
	v.generation++
}
