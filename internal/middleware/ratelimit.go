package middleware

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ulule/limiter/v3"
)

// RateLimit throttles requests per client IP against the supplied limiter.
// A request over the limit is aborted with 429 before reaching the handler.
func RateLimit(limiterInstance *limiter.Limiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := c.ClientIP()

		lctx, err := limiterInstance.Get(c.Request.Context(), ip)
		if err != nil {
			GetLoggerFromContext(c).Error("rate limit lookup failed",
				slog.String("ip", ip),
				slog.String("error", err.Error()))
			c.AbortWithStatusJSON(http.StatusInternalServerError,
				gin.H{"error": "Internal server error during rate limit check"})
			return
		}

		if lctx.Reached {
			GetLoggerFromContext(c).Warn("rate limit exceeded",
				slog.String("ip", ip),
				slog.Int64("limit", lctx.Limit),
				slog.Int64("remaining", lctx.Remaining))
			c.AbortWithStatusJSON(http.StatusTooManyRequests,
				gin.H{"error": "Too many requests. Please try again later."})
			return
		}

		c.Next()
	}
}
