package middleware

import (
	"net/http"
	"time"

	ratelimit "github.com/JGLTechnologies/gin-rate-limit"
	u "github.com/blaaiz/blaaiz-go/utils"
	"github.com/blaaiz/blaaiz-go/utils/logger"
	"github.com/gin-gonic/gin"
)

// RateLimitMiddleware limits each client IP to limit requests per second
func RateLimitMiddleware(limit int) gin.HandlerFunc {
	if limit <= 0 {
		return func(c *gin.Context) { c.Next() }
	}

	store := ratelimit.InMemoryStore(&ratelimit.InMemoryOptions{
		Rate:  time.Second,
		Limit: uint(limit),
	})
	return ratelimit.RateLimiter(store, &ratelimit.Options{
		ErrorHandler: func(c *gin.Context, info ratelimit.Info) {
			logger.Warnf("Rate limit exceeded", logger.Fields{
				"IP":   c.ClientIP(),
				"Path": c.Request.URL.Path,
			})
			u.APIResponse(
				c,
				http.StatusTooManyRequests,
				"error",
				"Too many requests from this IP address",
				map[string]interface{}{
					"retry_after": time.Until(info.ResetTime).Seconds(),
					"limit":       info.Limit,
				},
			)
			c.Abort()
		},
		KeyFunc: func(c *gin.Context) string {
			return "ip:" + c.ClientIP()
		},
	})
}
