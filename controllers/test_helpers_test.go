// file: controllers/test_helpers_test.go
package controllers

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"go-gym-classes/middleware"
	"go-gym-classes/models"
	"go-gym-classes/services"
	"golang.org/x/crypto/bcrypt"
)

// setupTestRouter creates a new Gin engine with session middleware and fake HTML templates.
// It also wires svc as both the class collaborator and the authenticator.
func setupTestRouter(t *testing.T, svc *services.MockClassService) (*gin.Engine, *recordingMessenger) {
	gin.SetMode(gin.TestMode)
	router := gin.Default()

	// Set up sessions with cookie store.
	store := cookie.NewStore([]byte("test-secret"))
	router.Use(sessions.Sessions("testsession", store))

	// Create minimal templates to avoid panics during testing.
	tmpDir := t.TempDir()
	if err := createDummyTemplates(tmpDir); err != nil {
		t.Fatalf("Failed to create dummy templates: %v", err)
	}

	// Use filepath.Join for cross-platform compatibility.
	router.LoadHTMLGlob(filepath.Join(tmpDir, "*.html"))
	router.NoRoute(NotFound)

	msg := &recordingMessenger{}
	SetServices(svc, svc, services.NoopMetrics{}, msg)
	return router, msg
}

// createDummyTemplates writes a set of minimal HTML templates to the provided directory.
func createDummyTemplates(dir string) error {
	templates := map[string]string{
		"login.html":         `<html><body>next={{.Next}} error={{.Error}}</body></html>`,
		"timetable.html":     `<html><body>state={{.State}} auth={{.Authenticated}} count={{.WeeklyCount}} flash={{.Flash}} events={{len .Widget.Events}}</body></html>`,
		"class_details.html": `<html><body>state={{.State}} title={{.Class.Title}} time={{.TimeRange}} signup={{.CanSignUp}} enrolled={{.Enrolled}} notice={{.Notice}}</body></html>`,
		"not_found.html":     `<html><body>not found: {{.Path}}</body></html>`,
	}

	for name, content := range templates {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			return err
		}
	}
	return nil
}

// SetSession sets the given key/value pairs in the session using a helper route
// and returns the session cookie that can be attached to subsequent test requests.
func SetSession(router *gin.Engine, route string, data map[string]interface{}) *http.Cookie {
	// Create a helper route for setting session values.
	router.GET(route, func(c *gin.Context) {
		session := sessions.Default(c)
		for key, value := range data {
			session.Set(key, value)
		}
		if err := session.Save(); err != nil {
			c.String(http.StatusInternalServerError, "session save failed")
			return
		}
		c.String(http.StatusOK, "session set")
	})

	// Call the helper route.
	req, _ := http.NewRequest("GET", route, nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	return sessionCookie(w)
}

// loginAs stores a signed-in member in the session.
func loginAs(router *gin.Engine, id, token string) *http.Cookie {
	return SetSession(router, "/test-login", map[string]interface{}{
		middleware.SessionUserKey:  id,
		middleware.SessionTokenKey: token,
	})
}

func sessionCookie(w *httptest.ResponseRecorder) *http.Cookie {
	for _, cookie := range w.Result().Cookies() {
		if cookie.Name == "testsession" {
			return cookie
		}
	}
	return nil
}

// serve sends a request with the optional cookie and returns the recorder.
func serve(router *gin.Engine, req *http.Request, cookie *http.Cookie) *httptest.ResponseRecorder {
	if cookie != nil {
		req.AddCookie(cookie)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

// upcomingClasses returns two classes in the future; member u-1 attends the first.
func upcomingClasses() []models.ClassRecord {
	start := time.Now().Add(48 * time.Hour).Truncate(time.Hour)
	return []models.ClassRecord{
		{
			ID: "1", Title: "Yoga", Description: "Relaxing yoga session", Trainer: "John Doe",
			Start: start, End: start.Add(time.Hour),
			ParticipantList: []string{"u-1"},
		},
		{
			ID: "2", Title: "Pilates", Description: "Pilates for beginners", Trainer: "Jane Smith",
			Start: start.Add(2 * time.Hour), End: start.Add(3 * time.Hour),
		},
	}
}

type recordingMessenger struct {
	mu    sync.Mutex
	calls int
}

func (m *recordingMessenger) BroadcastRefresh() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
}

func (m *recordingMessenger) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// hashPassword hashes the given password using bcrypt.
// This helper function is used by tests to prepare seeded members.
func hashPassword(password string) string {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		panic("failed to hash password: " + err.Error())
	}
	return string(hashed)
}
