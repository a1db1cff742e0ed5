package middleware

import (
	"time"

	"speckeeper/services"

	"github.com/gin-gonic/gin"
)

/**
 * HTTP request accounting middleware
 * @description
 * - Counts every request the HTTP server receives
 * - Records handling duration
 * - Separates failed (status >= 400) requests
 * - Feeds the health check endpoint's request figures
 */
func MetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		duration := time.Since(start).Seconds()
		statusCode := c.Writer.Status()

		handler := c.FullPath()
		if handler == "" {
			handler = "unknown"
		}

		services.IncrementRequestCount(handler)
		services.RecordRequestDuration(handler, duration)

		if statusCode >= 400 {
			services.IncrementErrorCount(handler)
		}
	}
}

/**
 * Get total request count
 * @returns {int64} Requests seen since startup
 */
func GetTotalRequests() int64 {
	return services.GetTotalRequestCount()
}

/**
 * Get error request count
 * @returns {int64} Requests answered with status >= 400 since startup
 */
func GetErrorRequests() int64 {
	return services.GetTotalErrorCount()
}
