package middleware

import (
	"github.com/gin-gonic/gin"
)

// getClientIP keys the rate limiter. Forwarding headers only count when the peer is one of
// the engine's trusted proxies (TRUSTED_PROXIES); otherwise the peer address is used.
func getClientIP(c *gin.Context) string {
	if ip := c.ClientIP(); ip != "" {
		return ip
	}
	return c.RemoteIP()
}
