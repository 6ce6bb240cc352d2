package middleware

import (
	"fmt"
	"forum-core/environment"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// RateLimitMiddleware counts every request against the caller's address.
// Limited is a normal outcome, answered with 429 and no further processing;
// a store failure answers 503 so the client knows a retry makes sense.
func RateLimitMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {

		decision, err := environment.Env.RateLimit.Admit(c.ClientIP())
		if err != nil {
			// ToDo: log Error
			fmt.Println(err)
			c.AbortWithStatus(http.StatusServiceUnavailable)
			return
		}

		if !decision.Allowed {
			c.Header("Retry-After", strconv.FormatInt(int64(decision.RetryAfter.Seconds()), 10))
			c.AbortWithStatus(http.StatusTooManyRequests)
			return
		}

		c.Next()
	}
}
