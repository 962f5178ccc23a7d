// Package middleware provides request filters and security checks for the application.
// File: middleware/auth.go
package middleware

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"go-gym-classes/logger"
	"go-gym-classes/models"
)

// Session keys written at login.
const (
	SessionUserKey  = "user"
	SessionTokenKey = "token"
)

const defaultNext = "/timetable"

// -------------- authentication middleware --------------

// AuthRequired is a middleware that ensures the member is logged in.
// How it works:
// - Reads the "user" and "token" session variables.
// - If either is missing, redirects to "/login?next=<path>" and aborts.
// - Otherwise, the request proceeds.
// Usage:
//
//	router.GET("/timetable/mine.ics", AuthRequired, handler)
func AuthRequired(c *gin.Context) {
	if !CurrentUser(c).IsAuthenticated() {
		logger.Warn.Printf("AuthRequired: No member in session for %s", c.Request.URL.Path)
		c.Redirect(http.StatusFound, LoginPath(c.Request.URL.Path))
		c.Abort() // 🔴 prevents further execution
		return
	}

	logger.Debug.Println("[AuthRequired] Member authenticated - proceeding with request")
	c.Next()
}

// CurrentUser returns the member stored in the request's session.
func CurrentUser(c *gin.Context) models.CurrentUser {
	return NewSessionStore(c).CurrentUser()
}

// LoginPath is the login page that returns to next afterwards.
func LoginPath(next string) string {
	return "/login?next=" + url.QueryEscape(SafeNext(next))
}

// SafeNext keeps next only when it is a local absolute path.
func SafeNext(next string) string {
	if !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.HasPrefix(next, "/\\") {
		return defaultNext
	}
	return next
}

// SessionStore reads the signed-in member from the cookie session of one request.
// It must not outlive the request.
type SessionStore struct {
	session sessions.Session
}

// NewSessionStore wraps the session attached by the sessions middleware.
func NewSessionStore(c *gin.Context) SessionStore {
	return SessionStore{session: sessions.Default(c)}
}

// CurrentUser returns the member, or models.Anonymous when only part of it is stored.
func (s SessionStore) CurrentUser() models.CurrentUser {
	id, _ := s.session.Get(SessionUserKey).(string)
	token, _ := s.session.Get(SessionTokenKey).(string)
	return models.CurrentUser{ID: id, Token: token}.Normalize()
}
