package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const (
	// RequestIDKey is the gin context key for the request ID.
	RequestIDKey = "request_id"

	// RequestIDHeader is the HTTP header used to propagate the request ID.
	RequestIDHeader = "X-Request-ID"

	clientRequestIDKey = "client_request_id"
)

// RequestID assigns every request a fresh server-side UUID. A client
// X-Request-ID (kiosk apps send one per scan attempt) is kept alongside as
// client_request_id for log correlation but never replaces the server ID.
func RequestID(log *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := uuid.NewString()

		if clientID := c.GetHeader(RequestIDHeader); clientID != "" {
			if len(clientID) > 128 {
				clientID = clientID[:128]
			}
			c.Set(clientRequestIDKey, clientID)

			log.WithFields(logrus.Fields{
				"request_id":        id,
				"client_request_id": clientID,
			}).Debug("client request id mapped")
		}

		c.Set(RequestIDKey, id)
		c.Header(RequestIDHeader, id)
		c.Next()
	}
}
