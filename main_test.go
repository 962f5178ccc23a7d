// main_test.go
package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go-gym-classes/config"
	"go-gym-classes/controllers"
	"go-gym-classes/services"
	"go-gym-classes/websocket"
)

// setupTestApp wires the real router, templates and seeded in-memory store.
// Given: the default seed file and the templates shipped with the app.
func setupTestApp(t *testing.T) (*gin.Engine, *services.ClassStore) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	websocket.InitTest()

	cfg, err := config.FromEnv(func(string) string { return "" })
	require.NoError(t, err)
	cfg.Location = time.UTC

	store, err := services.LoadClassStore(filepath.Join("data", "classes.yaml"), cfg.Location, time.Now())
	require.NoError(t, err)

	controllers.SetConfig(cfg)
	controllers.SetServices(store, store, services.NoopMetrics{}, websocket.NoopMessenger{})
	return setupRouter(cfg, filepath.Join("templates", "*.html")), store
}

func cookieFrom(resp *httptest.ResponseRecorder) *http.Cookie {
	for _, c := range resp.Result().Cookies() {
		if c.Name == "gymsession" {
			return c
		}
	}
	return nil
}

// TestHealthEndpoint tests the /health endpoint.
// Given: The full router.
// When: A GET request is made to /health.
// Then: It should return HTTP 200 and the expected content.
func TestHealthEndpoint(t *testing.T) {
	router, _ := setupTestApp(t)

	req, _ := http.NewRequest("GET", "/health", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, "OK", resp.Body.String())
	assert.Equal(t, "SAMEORIGIN", resp.Header().Get("X-Frame-Options"))
}

// TestTimetablePage renders the real template with the seeded classes.
func TestTimetablePage(t *testing.T) {
	router, _ := setupTestApp(t)

	req, _ := http.NewRequest("GET", "/timetable", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	require.Equal(t, http.StatusOK, resp.Code)
	body := resp.Body.String()
	assert.Contains(t, body, "Class Timetable")
	assert.Contains(t, body, "What to bring to class")
	assert.NotContains(t, body, "class(es) this week")
}

// TestProtectedRouteRedirect tests that the calendar export requires a login.
// Given: No session.
// When: A request is made to /timetable/mine.ics.
// Then: The user should be redirected (HTTP 302) to the login page.
func TestProtectedRouteRedirect(t *testing.T) {
	router, _ := setupTestApp(t)

	req, _ := http.NewRequest("GET", "/timetable/mine.ics", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusFound, resp.Code)
	assert.Equal(t, "/login?next=%2Ftimetable%2Fmine.ics", resp.Header().Get("Location"))
}

// TestLoginAndSignupFlow logs a seeded member in and signs them up for a class.
func TestLoginAndSignupFlow(t *testing.T) {
	router, store := setupTestApp(t)

	records, err := store.ListClasses(context.Background())
	require.NoError(t, err)
	var target string
	for _, r := range records {
		if r.Start.After(time.Now().Add(time.Hour)) && !r.HasParticipant("u-1001") {
			target = r.ID
			break
		}
	}
	require.NotEmpty(t, target, "seed should contain an upcoming class")

	form := url.Values{"username": {"alex"}, "password": {"gymrat123"}, "next": {"/class/" + target}}
	req, _ := http.NewRequest("POST", "/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	require.Equal(t, http.StatusFound, resp.Code)
	assert.Equal(t, "/class/"+target, resp.Header().Get("Location"))
	session := cookieFrom(resp)
	require.NotNil(t, session)

	req, _ = http.NewRequest("GET", "/class/"+target, nil)
	req.AddCookie(session)
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), "Sign up")

	req, _ = http.NewRequest("POST", "/class/"+target+"/signup", nil)
	req.AddCookie(session)
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	assert.Equal(t, http.StatusFound, resp.Code)
	assert.Equal(t, "/timetable", resp.Header().Get("Location"))

	record, err := store.GetClass(context.Background(), target)
	require.NoError(t, err)
	assert.True(t, record.HasParticipant("u-1001"))
}

// TestUnknownClass renders the not-found page.
func TestUnknownClass(t *testing.T) {
	router, _ := setupTestApp(t)

	req, _ := http.NewRequest("GET", "/class/does-not-exist", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusNotFound, resp.Code)
}

func TestMain(m *testing.M) {
	go websocket.HandleMessages() // start only once
	os.Exit(m.Run())
}
