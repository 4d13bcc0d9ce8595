package middleware

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/maidbook/maidbook/internal/models"
)

// PrincipalKey is the gin context key holding the authenticated *models.Principal.
const PrincipalKey = "principal"

// authTimingFloor is the minimum response time for auth failures so valid
// and invalid API keys cannot be told apart by latency.
const authTimingFloor = 50 * time.Millisecond

// PrincipalLookup resolves an API key to the user it was issued to.
type PrincipalLookup interface {
	GetPrincipalByAPIKey(ctx context.Context, apiKey string) (*models.Principal, error)
}

// truncateKey returns at most the first 4 characters of key followed by "...".
func truncateKey(key string) string {
	if len(key) > 4 {
		return key[:4] + "..."
	}
	return key
}

// enforceTimingFloor sleeps if needed so the response takes at least authTimingFloor.
func enforceTimingFloor(start time.Time) {
	if elapsed := time.Since(start); elapsed < authTimingFloor {
		time.Sleep(authTimingFloor - elapsed)
	}
}

// AuthMiddleware returns Gin middleware that authenticates requests via Bearer token
// and stores the resolved principal under PrincipalKey.
func AuthMiddleware(lookup PrincipalLookup, log *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		defer func() {
			if c.Writer.Status() == http.StatusUnauthorized {
				enforceTimingFloor(start)
			}
		}()

		apiKey := ExtractBearerToken(c)
		if apiKey == "" {
			respondError(c, http.StatusUnauthorized, "unauthorized", "missing or invalid authorization header")
			return
		}

		principal, err := lookup.GetPrincipalByAPIKey(c.Request.Context(), apiKey)
		if err != nil {
			logAuthFailure(log, c, apiKey)
			respondError(c, http.StatusUnauthorized, "unauthorized", "invalid api key")
			return
		}

		c.Set(PrincipalKey, principal)
		c.Set("company_id", principal.CompanyID)
		c.Next()
	}
}

// RequireRole rejects authenticated callers whose role is not listed.
// It must run after AuthMiddleware.
func RequireRole(log *logrus.Logger, roles ...models.Role) gin.HandlerFunc {
	allowed := make(map[models.Role]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}

	return func(c *gin.Context) {
		p := GetPrincipal(c)
		if p == nil {
			respondError(c, http.StatusUnauthorized, "unauthorized", "not authenticated")
			return
		}

		if !allowed[p.Role] {
			log.WithFields(logrus.Fields{
				"user_id":    p.UserID,
				"role":       p.Role,
				"path":       c.Request.URL.Path,
				"request_id": c.GetString(RequestIDKey),
			}).Warn("authorization failed: insufficient role")
			respondError(c, http.StatusForbidden, "forbidden", "insufficient role")
			return
		}

		c.Next()
	}
}

// GetPrincipal returns the authenticated principal, or nil.
func GetPrincipal(c *gin.Context) *models.Principal {
	v, ok := c.Get(PrincipalKey)
	if !ok {
		return nil
	}

	p, _ := v.(*models.Principal)

	return p
}

// ExtractBearerToken extracts the API key from the Authorization header.
func ExtractBearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if header == "" || !strings.HasPrefix(header, "Bearer ") {
		return ""
	}
	return strings.TrimPrefix(header, "Bearer ")
}

// logAuthFailure logs a failed authentication attempt.
func logAuthFailure(log *logrus.Logger, c *gin.Context, apiKey string) {
	log.WithFields(logrus.Fields{
		"client_ip":  c.ClientIP(),
		"method":     c.Request.Method,
		"path":       c.Request.URL.Path,
		"user_agent": c.Request.UserAgent(),
		"request_id": c.GetString(RequestIDKey),
		"key_prefix": truncateKey(apiKey),
	}).Warn("authentication failed: invalid api key")
}
