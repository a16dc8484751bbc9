package middleware

import (
	"net/http"

	"github.com/blaaiz/blaaiz-go/tasks"
	u "github.com/blaaiz/blaaiz-go/utils"
	"github.com/gin-gonic/gin"
)

// APIReadinessMiddleware gates a route until the latest Blaaiz API
// connectivity probe has succeeded
func APIReadinessMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		probed, connected, _ := tasks.APIConnectionStatus()
		if probed && connected {
			c.Next()
			return
		}

		message := "Blaaiz API is unreachable"
		if !probed {
			message = "Service warming up, please retry shortly"
		}
		u.APIResponse(c, http.StatusServiceUnavailable, "error", message, map[string]interface{}{
			"ready": false,
		})
		c.Abort()
	}
}
