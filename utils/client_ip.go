package utils

import (
	"github.com/gin-gonic/gin"
)

// ClientIP returns the caller address used to key public rate limits.
// Forwarding headers count only when the direct peer is a trusted proxy,
// see gin.Engine.SetTrustedProxies.
func ClientIP(c *gin.Context) string {
	if ip := c.ClientIP(); ip != "" {
		return ip
	}
	return "unknown"
}
