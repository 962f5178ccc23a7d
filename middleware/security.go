// File: middleware/security.go
package middleware

import "github.com/gin-gonic/gin"

// SecurityHeaders sets the framing and sniffing headers on every response.
// frameOptions is sent as X-Frame-Options, e.g. "SAMEORIGIN".
func SecurityHeaders(frameOptions string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("X-Frame-Options", frameOptions)
		c.Writer.Header().Set("X-Content-Type-Options", "nosniff")
		c.Writer.Header().Set("Referrer-Policy", "same-origin")
		c.Next()
	}
}
