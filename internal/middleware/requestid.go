package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	// RequestIDKey is the gin context key for the request ID.
	RequestIDKey = "request_id"

	// RequestIDHeader is the HTTP header used to propagate the request ID.
	RequestIDHeader = "X-Request-ID"

	clientRequestIDKey = "client_request_id"
)

// RequestID assigns every request a fresh server-side UUID. A caller-supplied
// X-Request-ID is kept under "client_request_id" for log correlation only.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := uuid.New().String()

		if clientID := c.GetHeader(RequestIDHeader); clientID != "" && len(clientID) <= 128 {
			c.Set(clientRequestIDKey, clientID)
		}

		c.Set(RequestIDKey, id)
		c.Header(RequestIDHeader, id)
		c.Next()
	}
}

// ClientRequestID returns the caller-supplied request ID, if any.
func ClientRequestID(c *gin.Context) string {
	return c.GetString(clientRequestIDKey)
}
