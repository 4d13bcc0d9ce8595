package api

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/maidbook/maidbook/internal/middleware"
)

func ginLogger(log *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		fields := logrus.Fields{
			"method":   c.Request.Method,
			"path":     c.Request.URL.Path,
			"status":   c.Writer.Status(),
			"duration": time.Since(start).String(),
			"client":   c.ClientIP(),
		}
		if rid, exists := c.Get(middleware.RequestIDKey); exists {
			fields["request_id"] = rid
		}
		if crid := middleware.ClientRequestID(c); crid != "" {
			fields["client_request_id"] = crid
		}
		if p := middleware.GetPrincipal(c); p != nil {
			fields["user_id"] = p.UserID
			fields["company_id"] = p.CompanyID
		}
		log.WithFields(fields).Info("request")
	}
}
