package middleware

import (
	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/google/uuid"     // Request ID generation
	"github.com/sirupsen/logrus" // Logging library
)

// RequestIDHeader carries the request ID in and out
const RequestIDHeader = "X-Request-ID"

// requestIDKey is the gin context key holding the request ID
const requestIDKey = "request_id"

// RequestIDMiddleware reuses the caller's X-Request-ID or generates one
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString() // Missing or malformed, issue a fresh one
		}
		c.Set(requestIDKey, id)
		c.Header(RequestIDHeader, id)
		c.Next()
	}
}

// Logger returns a log entry tagged with the request ID
func Logger(c *gin.Context) *logrus.Entry {
	return logrus.WithField("request_id", c.GetString(requestIDKey))
}
