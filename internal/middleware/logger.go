package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/guttosm/canteenpulse/internal/logger"
)

// RequestLogger writes one structured access log entry per request.
//
// Fields: request_id (when RequestID runs first), method, path, route
// (matched template, empty for 404s), status, latency_ms, client_ip.
// 5xx responses log at error level and 4xx at warn; everything else at info.
//
// Example log output:
//
//	{"level":"info","service":"canteenpulse","request_id":"...","method":"GET","path":"/api/v1/weekly-report","route":"/api/v1/weekly-report","status":200,"latency_ms":4,"message":"http_request"}
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		method := c.Request.Method
		path := c.Request.URL.Path

		c.Next()

		status := c.Writer.Status()
		latency := time.Since(start)

		var ev *zerolog.Event
		switch {
		case status >= 500:
			ev = logger.L().Error()
		case status >= 400:
			ev = logger.L().Warn()
		default:
			ev = logger.L().Info()
		}
		if len(c.Errors) > 0 {
			ev = ev.Str("errors", c.Errors.String())
		}

		ev.Str("request_id", GetRequestID(c)).
			Str("method", method).
			Str("path", path).
			Str("route", c.FullPath()).
			Int("status", status).
			Int64("latency_ms", latency.Milliseconds()).
			Str("client_ip", c.ClientIP()).
			Msg("http_request")
	}
}
