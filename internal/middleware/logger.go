package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/clinicasys/clinica-api/pkg/logger"
)

// RequestLogger logs one line per request with method, path, status and
// latency.
func RequestLogger(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		if raw := c.Request.URL.RawQuery; raw != "" {
			path = path + "?" + raw
		}

		c.Next()

		fields := []interface{}{
			"method", c.Request.Method,
			"path", path,
			"status", c.Writer.Status(),
			"latency_ms", time.Since(start).Milliseconds(),
			"client_ip", c.ClientIP(),
			"request_id", GetRequestID(c),
		}

		if len(c.Errors) > 0 {
			log.Error(c.Errors.Last().Err, "request failed", fields...)
			return
		}
		log.Info("request completed", fields...)
	}
}
