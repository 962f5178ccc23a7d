// main.go
package main

import (
	"errors"
	"log"
	"net/http"
	"path/filepath"
	"runtime"
	"time"

	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/cloudwatch"
	"github.com/aws/aws-xray-sdk-go/xray"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"go-gym-classes/config"
	"go-gym-classes/controllers"
	"go-gym-classes/logger"
	"go-gym-classes/middleware"
	"go-gym-classes/services"
	"go-gym-classes/websocket"
)

const serviceName = "go-gym-classes"

// classCollaborator is what the controllers need from the class backend.
type classCollaborator interface {
	services.ClassListingService
	services.Authenticator
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}
	logger.SetLogLevel(cfg.Environment)

	if cfg.IsProduction() {
		// Set Gin to release mode for production
		gin.SetMode(gin.ReleaseMode)
	}

	classes, err := newClassCollaborator(cfg)
	if err != nil {
		log.Fatalf("Failed to set up class service: %v", err)
	}

	controllers.SetConfig(cfg)
	controllers.SetServices(classes, classes, newMetrics(cfg), websocket.DefaultMessenger)
	websocket.SetAllowedOrigins(cfg.ApplicationURL)

	router := setupRouter(cfg, templatesGlob())

	// Start the WebSocket handler
	go websocket.HandleMessages()

	var handler http.Handler = router
	if cfg.TracingEnabled {
		handler = xray.Handler(xray.NewFixedSegmentNamer(serviceName), router)
	}

	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
	logger.Info.Printf("Listening on %s (environment=%s)", cfg.ListenAddr, cfg.Environment)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("Failed to run server: %v", err)
	}
}

// newClassCollaborator talks to API_URL when set, otherwise serves the seed file from memory.
func newClassCollaborator(cfg *config.Config) (classCollaborator, error) {
	if cfg.APIURL != "" {
		client := &http.Client{Timeout: cfg.APITimeout}
		if cfg.TracingEnabled {
			client = xray.Client(client)
		}
		logger.Info.Printf("Using class API at %s", cfg.APIURL)
		return services.NewHTTPClassService(cfg.APIURL, client, cfg.Location), nil
	}

	logger.Info.Printf("Using in-memory classes seeded from %s", cfg.SeedFile)
	store, err := services.LoadClassStore(cfg.SeedFile, cfg.Location, time.Now())
	if err != nil {
		return nil, err
	}
	return store, nil
}

func newMetrics(cfg *config.Config) services.MetricsPublisher {
	if !cfg.MetricsEnabled {
		return services.NoopMetrics{}
	}
	cwClient := cloudwatch.New(session.Must(session.NewSession()))
	return services.NewCloudWatchMetrics(cwClient, cfg.MetricsNamespace)
}

// templatesGlob is the absolute pattern of the HTML templates next to this file.
func templatesGlob() string {
	_, b, _, _ := runtime.Caller(0)
	return filepath.Join(filepath.Dir(b), "templates", "*.html")
}

// setupRouter registers middleware and every route on a new engine.
func setupRouter(cfg *config.Config, templates string) *gin.Engine {
	router := gin.Default()
	router.Use(middleware.SecurityHeaders("SAMEORIGIN"))

	// Initialize session store
	store := cookie.NewStore([]byte(cfg.SessionSecret))
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 7, // 7 days
		HttpOnly: true,
		Secure:   cfg.IsProduction(),
		SameSite: http.SameSiteLaxMode,
	})
	router.Use(sessions.Sessions("gymsession", store))

	logger.Debug.Println("Templates Path:", templates)
	router.LoadHTMLGlob(templates)

	// Serve static files under /static
	router.Static("/static", "./static")

	// Add this route for health checks
	router.GET("/health", controllers.Health)

	// Public routes
	router.GET("/", controllers.Index)
	router.GET("/login", controllers.ShowLoginPage)
	router.POST("/login", controllers.PerformLogin)
	router.GET("/logout", controllers.Logout)

	router.GET("/timetable", controllers.ShowTimetable)
	router.GET("/timetable/updates", controllers.TimetableUpdates)
	router.GET("/api/classes", controllers.ClassesAPI)
	router.GET("/class/:id", controllers.ShowClass)
	router.GET("/class/:id/qrcode", controllers.GetQRCode)
	router.POST("/class/:id/signup", controllers.SignUp)

	// Protected routes
	protected := router.Group("/", middleware.AuthRequired)
	{
		protected.GET("/timetable/mine.ics", controllers.ExportMyClasses)
	}

	router.NoRoute(controllers.NotFound)
	return router
}
