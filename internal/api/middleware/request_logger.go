package middleware

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/hirelytics/hirelytics/internal/guard"
)

const CtxRequestID = "request_id"

// RequestLogger writes one entry per request, leveled by status class.
// Page requests also record what the guard decided.
func RequestLogger(l *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		reqID := c.GetHeader("X-Request-Id")
		if reqID == "" {
			reqID = uuid.NewString()
		}
		c.Header("X-Request-Id", reqID)
		c.Set(CtxRequestID, reqID)

		c.Next()

		status := c.Writer.Status()
		entry := l.WithFields(requestFields(c, reqID, time.Since(start)))

		switch {
		case status >= 500:
			entry.Error("request")
		case status >= 400:
			entry.Warn("request")
		default:
			entry.Info("request")
		}
	}
}

func requestFields(c *gin.Context, reqID string, lat time.Duration) logrus.Fields {
	route := c.FullPath()
	if route == "" {
		route = c.Request.URL.Path
	}
	f := logrus.Fields{
		"request_id": reqID,
		"method":     c.Request.Method,
		"path":       route,
		"status":     c.Writer.Status(),
		"latency_ms": lat.Milliseconds(),
		"ip":         c.ClientIP(),
		"user_id":    UserID(c),
	}
	if role, ok := c.Get(CtxRole); ok {
		f["role"] = fmt.Sprint(role)
	}
	if v, ok := c.Get(CtxDecision); ok {
		if d, ok := v.(guard.Decision); ok {
			f["guard"] = string(d.Action)
			if d.Location != "" {
				f["redirect"] = d.Location
			}
		}
	}
	if len(c.Errors) > 0 {
		f["errors"] = c.Errors.String()
	}
	return f
}
