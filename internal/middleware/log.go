package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// RequestLogger logs every request with method, path, status, latency and
// the owning user when one is signed in.
func RequestLogger(log *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		fields := logrus.Fields{
			"method":  c.Request.Method,
			"path":    c.Request.URL.Path,
			"status":  c.Writer.Status(),
			"latency": time.Since(start).String(),
			"ip":      c.ClientIP(),
		}
		if user := CurrentUser(c); user != nil {
			fields["user"] = user.ID
		}

		entry := log.WithFields(fields)
		if c.Writer.Status() >= 500 {
			entry.Error("request")
		} else {
			entry.Info("request")
		}
	}
}
