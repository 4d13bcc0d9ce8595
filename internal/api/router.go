package api

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/maidbook/maidbook/internal/domain"
	"github.com/maidbook/maidbook/internal/middleware"
	"github.com/maidbook/maidbook/internal/models"
)

// RouterDeps holds all dependencies needed by the router.
type RouterDeps struct {
	Log           *logrus.Logger
	DB            HealthChecker
	Restore       domain.RestoreService
	Principals    middleware.PrincipalLookup
	Targets       TargetSource
	BookingsPath  string
	CustomersPath string
	CORSOrigins   []string
	Version       string
}

// maxBodySize bounds request bodies; the largest is an inline target list.
const maxBodySize = 1 << 20

// setupMiddleware configures all middleware on the Gin engine.
func setupMiddleware(r *gin.Engine, deps *RouterDeps) {
	r.SetTrustedProxies(nil) //nolint:errcheck // nil always succeeds.
	r.Use(middleware.RequestID())
	r.Use(ginLogger(deps.Log))
	r.Use(gin.Recovery())
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.MaxBodySize(maxBodySize))
	r.Use(cors.New(cors.Config{
		AllowOrigins:     deps.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Content-Type", "Authorization"},
		MaxAge:           1 * time.Hour,
		AllowCredentials: false,
	}))
	r.Use(middleware.PrometheusMiddleware())

	// Metrics endpoint (unauthenticated, like health).
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
}

// registerRoutes sets up all API route handlers on the given router group.
func registerRoutes(api *gin.RouterGroup, deps *RouterDeps) {
	log := deps.Log

	health := NewHealthHandler(deps.DB, log, deps.Version)
	restore := NewRestoreHandler(deps.Restore, deps.Targets, deps.BookingsPath, deps.CustomersPath, log)

	// Health and readiness are unauthenticated.
	api.GET("/health", health.Liveness)
	api.GET("/ready", health.Readiness)

	admin := api.Group("/admin",
		middleware.AuthMiddleware(deps.Principals, log),
		middleware.RequireRole(log, models.RoleOwner, models.RoleAdmin),
	)
	admin.GET("/restore", restore.Preflight)
	admin.POST("/restore", restore.Run)
}

// NewRouter creates and configures the Gin engine with all middleware and routes.
func NewRouter(deps *RouterDeps) http.Handler {
	r := gin.New()
	setupMiddleware(r, deps)
	registerRoutes(r.Group("/api/v1"), deps)

	return r
}
