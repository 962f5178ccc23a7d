// File: views/class_details_view.go
package views

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"

	"go-gym-classes/logger"
	"go-gym-classes/models"
	"go-gym-classes/services"
)

// ClassDetailsSnapshot is what the class page renders.
type ClassDetailsSnapshot struct {
	State         State
	Class         models.ClassRecord
	TimeRange     string
	CanSignUp     bool
	Enrolled      bool
	Authenticated bool
}

// ClassDetailsView is the detail page of a single class.
type ClassDetailsView struct {
	service   services.ClassListingService
	session   services.SessionStore
	gate      *services.SignupGate
	formatter *services.TimeFormatter
	opts      options

	mu         sync.Mutex
	generation uint64
	closed     bool
	state      State
	class      models.ClassRecord
}

// NewClassDetailsView creates a view in the Loading state.
func NewClassDetailsView(svc services.ClassListingService, session services.SessionStore, gate *services.SignupGate, formatter *services.TimeFormatter, opts ...Option) *ClassDetailsView {
	return &ClassDetailsView{
		service:   svc,
		session:   session,
		gate:      gate,
		formatter: formatter,
		opts:      buildOptions(opts),
		state:     Loading,
	}
}

// Load fetches class id. An unknown id leaves the view NotFound, any other
// failure leaves it Empty. It reports whether the result was applied.
func (v *ClassDetailsView) Load(ctx context.Context, id string) bool {
	v.mu.Lock()
	v.generation++
	gen := v.generation
	v.state = Loading
	v.class = models.ClassRecord{}
	v.mu.Unlock()

	record, err := v.service.GetClass(ctx, id)

	v.mu.Lock()
	defer v.mu.Unlock()
	if v.closed || gen != v.generation {
		logger.Debug.Printf("[ClassDetailsView.Load] Discarding stale result for class %s", id)
		return false
	}

	switch {
	case err == nil:
		v.class = record
		v.state = Ready
	case errors.Is(err, services.ErrNotFound):
		logger.Info.Printf("[ClassDetailsView.Load] Class %s not found", id)
		v.state = NotFound
	default:
		logger.Warn.Printf("[ClassDetailsView.Load] Fetch of class %s failed: %v", id, err)
		v.opts.metrics.RecordFetchFailure("get")
		v.state = Empty
	}
	return true
}

// Snapshot derives the time range, the signup visibility and the viewer's
// enrolment from the current clock and session.
func (v *ClassDetailsView) Snapshot() ClassDetailsSnapshot {
	user := v.session.CurrentUser()
	now := v.opts.clock()

	v.mu.Lock()
	defer v.mu.Unlock()

	snap := ClassDetailsSnapshot{State: v.state, Authenticated: user.IsAuthenticated()}
	if v.state != Ready {
		return snap
	}
	snap.Class = v.class
	snap.Class.ParticipantList = slices.Clone(v.class.ParticipantList)
	snap.TimeRange = v.formatter.FormatRange(v.class.Start, v.class.End)
	snap.CanSignUp = v.gate.CanSignUp(v.class.Start, now)
	snap.Enrolled = v.class.HasParticipant(user.ID)
	return snap
}

// SignUp registers the session user for the loaded class.
func (v *ClassDetailsView) SignUp(ctx context.Context) error {
	user := v.session.CurrentUser()
	now := v.opts.clock()

	v.mu.Lock()
	state, class := v.state, v.class
	v.mu.Unlock()

	switch state {
	case Ready:
	case Empty:
		return services.ErrUnavailable
	default:
		return services.ErrNotFound
	}
	if user.Token == "" {
		return services.ErrUnauthenticated
	}
	if !v.gate.CanSignUp(class.Start, now) {
		logger.Info.Printf("[ClassDetailsView.SignUp] Signup for class %s attempted after cutoff", class.ID)
		return fmt.Errorf("%w: %w", services.ErrSignupFailed, services.ErrSignupClosed)
	}

	err := v.gate.SignUp(ctx, class.ID, user)
	v.opts.metrics.RecordSignup(class.ID, err)
	return err
}

// Close marks the view as gone; in-flight loads are discarded when they return.
func (v *ClassDetailsView) Close() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.closed = true
	v.generation++
}
