// file: controllers/class_controller.go
package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go-gym-classes/logger"
	"go-gym-classes/middleware"
	"go-gym-classes/services"
	"go-gym-classes/views"
)

const (
	noticeSignupFailed = "Sorry, we couldn't sign you up. Please try again."
	noticeSignupClosed = "Signups for this class have closed."
)

func newClassDetailsView(c *gin.Context) *views.ClassDetailsView {
	formatter := services.NewTimeFormatter(c.GetHeader("Accept-Language"), settings.Location)
	gate := services.NewSignupGate(classService, settings.SignupCutoffOffset)
	return views.NewClassDetailsView(classService, middleware.NewSessionStore(c), gate, formatter, viewOptions()...)
}

// renderClass writes the detail page, or the not-found page for an unknown class.
func renderClass(c *gin.Context, snap views.ClassDetailsSnapshot, status int, notice string) {
	switch snap.State {
	case views.NotFound:
		NotFound(c)
		return
	case views.Empty:
		status = http.StatusServiceUnavailable
	}

	c.HTML(status, "class_details.html", gin.H{
		"State":         snap.State.String(),
		"Class":         snap.Class,
		"TimeRange":     snap.TimeRange,
		"CanSignUp":     snap.CanSignUp,
		"Enrolled":      snap.Enrolled,
		"Authenticated": snap.Authenticated,
		"Notice":        notice,
	})
}

// ShowClass renders a single class with its signup button.
func ShowClass(c *gin.Context) {
	id := c.Param("id")
	view := newClassDetailsView(c)
	defer view.Close()

	view.Load(c.Request.Context(), id)
	logger.Info.Printf("ShowClass: Rendering class %s", id)
	renderClass(c, view.Snapshot(), http.StatusOK, "")
}

// SignUp registers the session member for a class.
// Anonymous visitors are sent to the login page and come back to the class.
func SignUp(c *gin.Context) {
	id := c.Param("id")
	view := newClassDetailsView(c)
	defer view.Close()

	ctx := c.Request.Context()
	view.Load(ctx, id)
	err := view.SignUp(ctx)

	switch {
	case err == nil:
		snap := view.Snapshot()
		logger.Info.Printf("SignUp: Member signed up for class %s", id)
		addFlash(c, "You're signed up for "+snap.Class.Title+".")
		messenger.BroadcastRefresh()
		c.Redirect(http.StatusFound, "/timetable")

	case errors.Is(err, services.ErrUnauthenticated):
		logger.Info.Printf("SignUp: Anonymous signup for class %s, redirecting to login", id)
		c.Redirect(http.StatusFound, middleware.LoginPath("/class/"+id))

	case errors.Is(err, services.ErrNotFound):
		renderClass(c, view.Snapshot(), http.StatusNotFound, "")

	case errors.Is(err, services.ErrUnavailable):
		renderClass(c, view.Snapshot(), http.StatusServiceUnavailable, "")

	case errors.Is(err, services.ErrSignupClosed):
		renderClass(c, view.Snapshot(), http.StatusConflict, noticeSignupClosed)

	default:
		logger.Warn.Printf("SignUp: Signup for class %s failed: %v", id, err)
		renderClass(c, view.Snapshot(), http.StatusBadGateway, noticeSignupFailed)
	}
}
