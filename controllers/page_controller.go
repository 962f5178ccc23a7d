// Package controllers file: controllers/page_controller.go
package controllers

import (
	"net/http"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"go-gym-classes/config"
	"go-gym-classes/logger"
	"go-gym-classes/middleware"
	"go-gym-classes/services"
	"go-gym-classes/views"
	"go-gym-classes/websocket"
)

var (
	ApplicationURL string
	WebsocketURL   string

	settings = &config.Config{
		Location:           time.Local,
		BusinessBeginsHour: 7,
		BusinessEndsHour:   22,
		DayViewMaxWidth:    768,
	}

	classService  services.ClassListingService
	authenticator services.Authenticator
	metrics       services.MetricsPublisher = services.NoopMetrics{}
	messenger     websocket.Messenger       = websocket.DefaultMessenger

	now = time.Now
)

const qrCodeSize = 300

// SetConfig sets the global settings and the application and WebSocket URLs.
func SetConfig(cfg *config.Config) {
	settings = cfg
	ApplicationURL = cfg.ApplicationURL
	WebsocketURL = cfg.WebsocketURL
	logger.Info.Printf("SetConfig: Global config updated: ApplicationURL=%s, WebsocketURL=%s", ApplicationURL, WebsocketURL)
}

// SetServices wires the class collaborator and the notification sinks.
// A nil metrics or messenger keeps the current one.
func SetServices(svc services.ClassListingService, auth services.Authenticator, m services.MetricsPublisher, msg websocket.Messenger) {
	classService = svc
	authenticator = auth
	if m != nil {
		metrics = m
	}
	if msg != nil {
		messenger = msg
	}
}

func viewOptions() []views.Option {
	return []views.Option{views.WithClock(viewerClock), views.WithMetrics(metrics)}
}

// viewerClock is now in the configured zone, which also sets the week boundaries.
func viewerClock() time.Time {
	t := now()
	if settings.Location == nil {
		return t
	}
	return t.In(settings.Location)
}

func widgetConfig() websocket.WidgetConfig {
	return websocket.WidgetConfig{
		BusinessBeginsHour: settings.BusinessBeginsHour,
		BusinessEndsHour:   settings.BusinessEndsHour,
		Location:           settings.Location,
	}
}

// Health answers the load balancer check.
func Health(c *gin.Context) {
	logger.Debug.Println("Health: Health check requested")
	c.String(http.StatusOK, "OK")
}

// Index sends visitors to the timetable.
func Index(c *gin.Context) {
	c.Redirect(http.StatusFound, "/timetable")
}

// NotFound renders the not-found page for unknown routes.
func NotFound(c *gin.Context) {
	logger.Info.Printf("NotFound: No route for %s", c.Request.URL.Path)
	c.HTML(http.StatusNotFound, "not_found.html", gin.H{
		"Path":          c.Request.URL.Path,
		"Authenticated": middleware.CurrentUser(c).IsAuthenticated(),
	})
}

// GetQRCode returns a PNG QR code that opens the class page.
func GetQRCode(c *gin.Context) {
	id := c.Param("id")
	logger.Info.Printf("GetQRCode: Generating QR code for class %s", id)

	qrBytes, err := services.GenerateQRCode(ApplicationURL+"/class/"+id, qrCodeSize, nil)
	if err != nil {
		logger.Error.Printf("GetQRCode: Error generating QR code: %v", err)
		c.String(http.StatusInternalServerError, "QR generation failed")
		return
	}

	c.Header("Content-Disposition", "inline; filename=\"class-"+id+".png\"")
	c.Data(http.StatusOK, "image/png", qrBytes)
}

// addFlash queues a one-off message for the next rendered page.
func addFlash(c *gin.Context, message string) {
	session := sessions.Default(c)
	session.AddFlash(message)
	if err := session.Save(); err != nil {
		logger.Error.Printf("addFlash: Error saving session: %v", err)
	}
}

// popFlash returns the first queued message, if any, and clears the queue.
func popFlash(c *gin.Context) string {
	session := sessions.Default(c)
	flashes := session.Flashes()
	if len(flashes) == 0 {
		return ""
	}
	if err := session.Save(); err != nil {
		logger.Error.Printf("popFlash: Error saving session: %v", err)
	}
	message, _ := flashes[0].(string)
	return message
}
