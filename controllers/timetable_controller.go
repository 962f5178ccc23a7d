// file: controllers/timetable_controller.go
package controllers

import (
	"bytes"
	"net/http"

	"github.com/gin-gonic/gin"
	"go-gym-classes/logger"
	"go-gym-classes/middleware"
	"go-gym-classes/models"
	"go-gym-classes/services"
	"go-gym-classes/views"
	"go-gym-classes/websocket"
)

var whatToBring = []string{"Water bottle", "Towel", "Comfortable clothing"}

// loadTimetable fetches the listing for the session member. The view is closed
// before returning, so only the snapshot escapes.
func loadTimetable(c *gin.Context) views.TimetableSnapshot {
	view := views.NewTimetableView(classService, middleware.NewSessionStore(c), settings.DayViewMaxWidth, viewOptions()...)
	defer view.Close()

	view.Load(c.Request.Context())
	return view.Snapshot()
}

func snapshotStatus(state views.State) int {
	if state == views.Empty {
		return http.StatusServiceUnavailable
	}
	return http.StatusOK
}

// ShowTimetable renders the weekly class listing.
func ShowTimetable(c *gin.Context) {
	snap := loadTimetable(c)
	logger.Info.Printf("ShowTimetable: Rendering %d classes (state=%s)", len(snap.Events), snap.State)

	c.HTML(snapshotStatus(snap.State), "timetable.html", gin.H{
		"WebsocketURL":  WebsocketURL,
		"State":         snap.State.String(),
		"Authenticated": snap.Authenticated,
		"WeeklyCount":   snap.WeeklyCount,
		"Widget":        websocket.NewSetEventsMessage(snap, widgetConfig()),
		"Flash":         popFlash(c),
		"WhatToBring":   whatToBring,
	})
}

// ClassesAPI returns what the calendar widget is fed, as JSON.
func ClassesAPI(c *gin.Context) {
	snap := loadTimetable(c)
	c.JSON(snapshotStatus(snap.State), websocket.NewSetEventsMessage(snap, widgetConfig()))
}

// TimetableUpdates attaches a calendar widget over WebSocket.
// The member is read once here; the session is not touched after the upgrade.
func TimetableUpdates(c *gin.Context) {
	user := middleware.CurrentUser(c)
	logger.Info.Printf("TimetableUpdates: Widget connected (member=%q)", user.ID)

	view := views.NewTimetableView(classService, services.StaticSession(user), settings.DayViewMaxWidth, viewOptions()...)
	websocket.ServeTimetable(c.Writer, c.Request, view, widgetConfig())
}

// ExportMyClasses downloads the member's classes as an iCalendar file.
func ExportMyClasses(c *gin.Context) {
	user := middleware.CurrentUser(c)

	records, err := classService.ListClasses(c.Request.Context())
	if err != nil {
		logger.Warn.Printf("ExportMyClasses: Listing fetch failed: %v", err)
		metrics.RecordFetchFailure("list")
		c.String(http.StatusServiceUnavailable, "Classes are unavailable, please try again later.")
		return
	}

	mine := make([]models.ClassRecord, 0, len(records))
	for _, r := range records {
		if r.HasParticipant(user.ID) {
			mine = append(mine, r)
		}
	}

	var buf bytes.Buffer
	if err := services.ExportICS(mine, ApplicationURL, &buf); err != nil {
		logger.Error.Printf("ExportMyClasses: Error writing calendar: %v", err)
		c.String(http.StatusInternalServerError, "Calendar export failed")
		return
	}

	logger.Info.Printf("ExportMyClasses: Exported %d classes for member %s", len(mine), user.ID)
	c.Header("Content-Disposition", "attachment; filename=\"my-classes.ics\"")
	c.Data(http.StatusOK, "text/calendar; charset=utf-8", buf.Bytes())
}
