package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Logger logs every request with the fields call dashboards filter on: the
// call identifier when the route carries one, the query string, and whether
// the response came out of the Redis cache. Server errors log at Error,
// client errors at Warn.
func Logger(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery

		c.Next()

		status := c.Writer.Status()
		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", path),
			zap.Int("status", status),
			zap.Duration("latency", time.Since(start)),
			zap.String("ip", c.ClientIP()),
		}
		if query != "" {
			fields = append(fields, zap.String("query", query))
		}
		if callID := requestCallID(c); callID != "" {
			fields = append(fields, zap.String("call_id", callID))
		}
		if c.Writer.Header().Get("x-sla-cache") == "hit" {
			fields = append(fields, zap.Bool("cache_hit", true))
		}
		if len(c.Errors) > 0 {
			fields = append(fields, zap.String("errors", c.Errors.String()))
		}

		switch {
		case status >= 500:
			log.Error("request", fields...)
		case status >= 400:
			log.Warn("request", fields...)
		default:
			log.Info("request", fields...)
		}
	}
}

// requestCallID returns the call identifier from the route parameters. The
// REST routes bind it as :id, the websocket route as :call_id.
func requestCallID(c *gin.Context) string {
	if id := c.Param("call_id"); id != "" {
		return id
	}
	return c.Param("id")
}
