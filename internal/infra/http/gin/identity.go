package ginserver

import (
	"net/http"
	"strings"

	gin "github.com/gin-gonic/gin"
)

// Identity management is out of scope for this service; the caller is
// established upstream and forwarded in X-User-ID.
const userIDHeader = "X-User-ID"

func requireUser(c *gin.Context) (string, bool) {
	id := strings.TrimSpace(c.GetHeader(userIDHeader))
	if id == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing " + userIDHeader + " header"})
		return "", false
	}
	return id, true
}
