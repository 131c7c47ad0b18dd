package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
)

// AdminPasswordKey is where AdminPasswordMiddleware leaves the submitted password.
const AdminPasswordKey = "adminPassword"

// AdminPasswordMiddleware lifts the admin password from the X-Admin-Password header or
// the password query parameter. Verification happens in the services, which also accept
// the password in the request body.
func AdminPasswordMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		password := strings.TrimSpace(c.GetHeader("X-Admin-Password"))
		if password == "" {
			password = c.Query("password")
		}
		if password != "" {
			c.Set(AdminPasswordKey, password)
		}
		c.Next()
	}
}

// AdminPassword returns the password captured by AdminPasswordMiddleware, if any.
func AdminPassword(c *gin.Context) string {
	return c.GetString(AdminPasswordKey)
}
