// file: controllers/class_controller_test.go
package controllers

import (
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go-gym-classes/models"
	"go-gym-classes/services"
)

func TestShowClass(t *testing.T) {
	svc := new(services.MockClassService)
	svc.On("GetClass", mock.Anything, "1").Return(upcomingClasses()[0], nil)
	router, _ := setupTestRouter(t, svc)
	router.GET("/class/:id", ShowClass)
	cookie := loginAs(router, "u-1", "tok")

	req, _ := http.NewRequest("GET", "/class/1", nil)
	w := serve(router, req, cookie)

	assert.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "state=ready title=Yoga")
	assert.Contains(t, body, "signup=true enrolled=true")
}

func TestShowClass_BritishLocale(t *testing.T) {
	record := models.ClassRecord{
		ID: "1", Title: "Yoga",
		Start: time.Date(2099, 8, 5, 12, 0, 0, 0, time.UTC),
		End:   time.Date(2099, 8, 5, 13, 0, 0, 0, time.UTC),
	}
	svc := new(services.MockClassService)
	svc.On("GetClass", mock.Anything, "1").Return(record, nil)
	router, _ := setupTestRouter(t, svc)
	router.GET("/class/:id", ShowClass)

	req, _ := http.NewRequest("GET", "/class/1", nil)
	req.Header.Set("Accept-Language", "en-GB,en;q=0.8")
	w := serve(router, req, nil)

	assert.Contains(t, w.Body.String(), "time=Wednesday, 5 August, 12:00 - 13:00")
}

func TestShowClass_NotFound(t *testing.T) {
	svc := new(services.MockClassService)
	svc.On("GetClass", mock.Anything, "99").Return(nil, services.ErrNotFound)
	router, _ := setupTestRouter(t, svc)
	router.GET("/class/:id", ShowClass)

	req, _ := http.NewRequest("GET", "/class/99", nil)
	w := serve(router, req, nil)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "not found: /class/99")
}

func TestShowClass_Unavailable(t *testing.T) {
	svc := new(services.MockClassService)
	svc.On("GetClass", mock.Anything, "1").Return(nil, services.ErrUnavailable)
	router, _ := setupTestRouter(t, svc)
	router.GET("/class/:id", ShowClass)

	req, _ := http.NewRequest("GET", "/class/1", nil)
	w := serve(router, req, nil)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), "state=empty")
}

func TestSignUp_AnonymousRedirectsToLogin(t *testing.T) {
	svc := new(services.MockClassService)
	svc.On("GetClass", mock.Anything, "1").Return(upcomingClasses()[1], nil)
	router, msg := setupTestRouter(t, svc)
	router.POST("/class/:id/signup", SignUp)

	req, _ := http.NewRequest("POST", "/class/1/signup", nil)
	w := serve(router, req, nil)

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/login?next=%2Fclass%2F1", w.Header().Get("Location"))
	svc.AssertNotCalled(t, "SignUp", mock.Anything, mock.Anything, mock.Anything)
	assert.Zero(t, msg.count())
}

func TestSignUp_Success(t *testing.T) {
	svc := new(services.MockClassService)
	svc.On("GetClass", mock.Anything, "2").Return(upcomingClasses()[1], nil)
	svc.On("SignUp", mock.Anything, "2", "tok").Return(nil).Once()
	svc.On("ListClasses", mock.Anything).Return(upcomingClasses(), nil)
	router, msg := setupTestRouter(t, svc)
	router.POST("/class/:id/signup", SignUp)
	router.GET("/timetable", ShowTimetable)
	cookie := loginAs(router, "u-1", "tok")

	req, _ := http.NewRequest("POST", "/class/2/signup", nil)
	w := serve(router, req, cookie)

	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/timetable", w.Header().Get("Location"))
	assert.Equal(t, 1, msg.count())
	svc.AssertCalled(t, "SignUp", mock.Anything, "2", "tok")

	// The confirmation is shown once on the next page.
	flashCookie := sessionCookie(w)
	require.NotNil(t, flashCookie)
	req, _ = http.NewRequest("GET", "/timetable", nil)
	w = serve(router, req, flashCookie)
	assert.Contains(t, w.Body.String(), "flash=You&#39;re signed up for Pilates.")
}

func TestSignUp_Failure(t *testing.T) {
	svc := new(services.MockClassService)
	svc.On("GetClass", mock.Anything, "2").Return(upcomingClasses()[1], nil)
	svc.On("SignUp", mock.Anything, "2", "tok").Return(errors.New("upstream 500")).Once()
	router, msg := setupTestRouter(t, svc)
	router.POST("/class/:id/signup", SignUp)
	cookie := loginAs(router, "u-1", "tok")

	req, _ := http.NewRequest("POST", "/class/2/signup", nil)
	w := serve(router, req, cookie)

	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.Contains(t, w.Body.String(), "title=Pilates")
	assert.Contains(t, w.Body.String(), "notice=Sorry, we couldn&#39;t sign you up.")
	assert.Zero(t, msg.count())
	svc.AssertNumberOfCalls(t, "SignUp", 1)
}

func TestSignUp_AfterClassStarted(t *testing.T) {
	started := models.ClassRecord{
		ID: "3", Title: "Boxing",
		Start: time.Now().Add(-time.Hour),
		End:   time.Now().Add(time.Hour),
	}
	svc := new(services.MockClassService)
	svc.On("GetClass", mock.Anything, "3").Return(started, nil)
	router, _ := setupTestRouter(t, svc)
	router.POST("/class/:id/signup", SignUp)
	cookie := loginAs(router, "u-1", "tok")

	req, _ := http.NewRequest("POST", "/class/3/signup", nil)
	w := serve(router, req, cookie)

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "signup=false")
	assert.Contains(t, w.Body.String(), "notice=Signups for this class have closed.")
	svc.AssertNotCalled(t, "SignUp", mock.Anything, mock.Anything, mock.Anything)
}

func TestSignUp_UnknownClass(t *testing.T) {
	svc := new(services.MockClassService)
	svc.On("GetClass", mock.Anything, "99").Return(nil, services.ErrNotFound)
	router, _ := setupTestRouter(t, svc)
	router.POST("/class/:id/signup", SignUp)
	cookie := loginAs(router, "u-1", "tok")

	req, _ := http.NewRequest("POST", "/class/99/signup", nil)
	w := serve(router, req, cookie)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSignUp_ClassUnavailable(t *testing.T) {
	svc := new(services.MockClassService)
	svc.On("GetClass", mock.Anything, "1").Return(nil, services.ErrUnavailable)
	router, msg := setupTestRouter(t, svc)
	router.POST("/class/:id/signup", SignUp)
	cookie := loginAs(router, "u-1", "tok")

	req, _ := http.NewRequest("POST", "/class/1/signup", nil)
	w := serve(router, req, cookie)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), "state=empty")
	svc.AssertNotCalled(t, "SignUp", mock.Anything, mock.Anything, mock.Anything)
	assert.Zero(t, msg.count())
}
