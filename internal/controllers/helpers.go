package controllers

import (
	"net"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"shortkey/internal/middleware"
)

// requireCaller returns the authenticated user id or writes a 401 and reports
// failure.
func requireCaller(c *gin.Context) (int64, bool) {
	id, ok := middleware.CallerID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
	}
	return id, ok
}

// clientIP returns the first X-Forwarded-For token when present, else the peer
// address without its port.
func clientIP(c *gin.Context) string {
	if xff := c.GetHeader("X-Forwarded-For"); xff != "" {
		return strings.TrimSpace(strings.Split(xff, ",")[0])
	}
	if host, _, err := net.SplitHostPort(c.Request.RemoteAddr); err == nil {
		return host
	}
	return c.Request.RemoteAddr
}
