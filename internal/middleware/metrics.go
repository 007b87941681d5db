package middleware

import (
	"time"

	"toolkit-keeper/internal/logger"
	"toolkit-keeper/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const RequestIDHeader = "X-Request-ID"

/**
 * Request accounting for the control API
 * @description
 * - Labels series with method and route template, e.g. "POST /toolkit/api/v1/services/:contract/enable"
 * - Echoes or assigns X-Request-ID so CLI errors can be matched to daemon logs
 * - Requests answered with status >= 400 count as errors and are logged at debug level
 */
func MetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		requestID := c.GetHeader(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Header(RequestIDHeader, requestID)

		c.Next()

		route := c.FullPath()
		if route == "" {
			// 未匹配路由统一归类
			route = "unmatched"
		}
		label := c.Request.Method + " " + route
		services.IncrementRequestCount(label)
		services.RecordRequestDuration(label, time.Since(start).Seconds())

		if status := c.Writer.Status(); status >= 400 {
			services.IncrementErrorCount(label)
			logger.Debugf("[%s] %s -> %d (%s)", requestID, label, status, c.Request.URL.Path)
		}
	}
}
