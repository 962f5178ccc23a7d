// Package controllers handles member authentication and session management.
// File: controllers/loginHandler.go
package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"go-gym-classes/logger"
	"go-gym-classes/middleware"
	"go-gym-classes/services"
)

// ------------------ login handling ------------------

// PerformLogin authenticates the member and stores the issued token in the session.
// If successful, it redirects to the `next` form value (default /timetable).
// If authentication fails, it re-renders the form with an error message.
func PerformLogin(c *gin.Context) {
	session := sessions.Default(c)
	next := middleware.SafeNext(c.PostForm("next"))

	// Extract username and password from the POST form.
	username := c.PostForm("username")
	password := c.PostForm("password")

	if username == "" || password == "" {
		logger.Warn.Println("PerformLogin: Missing username or password")
		c.HTML(http.StatusBadRequest, "login.html", gin.H{
			"Next":  next,
			"Error": "Please fill in all fields.",
		})
		return
	}

	user, err := authenticator.Authenticate(c.Request.Context(), username, password)
	switch {
	case errors.Is(err, services.ErrInvalidCredentials):
		logger.Warn.Printf("PerformLogin: Invalid login attempt for user %s", username)
		c.HTML(http.StatusUnauthorized, "login.html", gin.H{
			"Next":     next,
			"Username": username,
			"Error":    "Invalid username or password.",
		})
		return
	case err != nil:
		logger.Error.Printf("PerformLogin: Authentication unavailable: %v", err)
		c.HTML(http.StatusServiceUnavailable, "login.html", gin.H{
			"Next":     next,
			"Username": username,
			"Error":    "Login is unavailable, please try again later.",
		})
		return
	}

	session.Set(middleware.SessionUserKey, user.ID)
	session.Set(middleware.SessionTokenKey, user.Token)
	if err := session.Save(); err != nil {
		logger.Error.Println("PerformLogin: Failed to save session:", err)
		c.HTML(http.StatusInternalServerError, "login.html", gin.H{
			"Next":  next,
			"Error": "Internal error, please try again.",
		})
		return
	}

	logger.Info.Printf("PerformLogin: Member %s logged in, redirecting to %s", user.ID, next)
	c.Redirect(http.StatusFound, next)
}
