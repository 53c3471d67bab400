package utils

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// Logger logs every request once it has been served
func Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		startTime := time.Now()

		c.Next()

		entry := logrus.WithFields(logrus.Fields{
			"status":  c.Writer.Status(),
			"latency": time.Since(startTime),
			"method":  c.Request.Method,
			"path":    c.FullPath(),
			"ip":      c.ClientIP(),
		})
		if caller := c.GetString("userId"); caller != "" {
			entry = entry.WithField("user_id", caller)
		}
		switch {
		case c.Writer.Status() >= http.StatusInternalServerError:
			entry.Error("[HTTP] request failed")
		case c.Writer.Status() >= http.StatusBadRequest:
			entry.Info("[HTTP] request rejected")
		default:
			entry.Debug("[HTTP] request served")
		}
	}
}

// ErrorHandler answers with a generic 500 when a handler recorded an error in
// c.Errors without writing a response
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}
		logrus.WithField("path", c.FullPath()).WithError(c.Errors.Last()).Error("[HTTP] unhandled error")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error", "code": "INTERNAL"})
	}
}
