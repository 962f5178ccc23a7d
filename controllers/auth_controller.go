// Package controllers controllers/auth_controller.go
package controllers

import (
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"go-gym-classes/logger"
	"go-gym-classes/middleware"
)

// tokenRevoker is implemented by collaborators that can invalidate a login token.
type tokenRevoker interface {
	Revoke(token string)
}

// ShowLoginPage renders the login form. `next` is where the member goes afterwards.
func ShowLoginPage(c *gin.Context) {
	c.HTML(http.StatusOK, "login.html", gin.H{
		"Next": middleware.SafeNext(c.Query("next")),
	})
}

// Logout clears the session and revokes the token where the collaborator supports it.
func Logout(c *gin.Context) {
	session := sessions.Default(c)
	user := middleware.CurrentUser(c)

	if user.IsAuthenticated() {
		logger.Info.Printf("Logout: Logging out member %s", user.ID)
		if r, ok := authenticator.(tokenRevoker); ok {
			r.Revoke(user.Token)
		}
	}

	session.Clear()
	if err := session.Save(); err != nil {
		logger.Error.Printf("Logout: Error saving session during logout: %v", err)
	} else {
		logger.Info.Println("Logout: Session cleared successfully")
	}

	c.Redirect(http.StatusFound, "/timetable")
}
