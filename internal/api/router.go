package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/reymarksuan121298-max/kiosk-mapping/internal/dbpool"
	"github.com/reymarksuan121298-max/kiosk-mapping/internal/middleware"
	"github.com/reymarksuan121298-max/kiosk-mapping/internal/ws"
)

// RouterDeps holds all dependencies needed by the router.
type RouterDeps struct {
	Log         *logrus.Logger
	Pool        *dbpool.Pool
	Hub         *ws.Hub
	Attendance  AttendanceService
	Monitoring  MonitoringService
	Employees   EmployeeService
	Audit       AuditService
	Verifier    middleware.TokenVerifier
	LookupGuard middleware.GuardConfig
	CORSOrigins []string
	Version     string
	HSTS        bool
}

// Router-level limits.
const (
	maxBodySize = 1 << 20 // 1 MB
	rateLimit   = 100     // requests per second per IP
	rateBurst   = 200     // token bucket burst size

	// Public kiosk endpoints are unauthenticated, so they get a tighter bucket.
	publicRateLimit = 2
	publicRateBurst = 10

	userRateLimit = 20
	userRateBurst = 40
)

// setupMiddleware configures all middleware on the Gin engine.
func setupMiddleware(ctx context.Context, r *gin.Engine, deps *RouterDeps) {
	r.SetTrustedProxies(nil) //nolint:errcheck // nil always succeeds.
	r.Use(middleware.RequestID(deps.Log))
	r.Use(ginLogger(deps.Log))
	r.Use(gin.Recovery())
	r.Use(middleware.SecurityHeaders(deps.HSTS))
	r.Use(middleware.MaxBodySize(maxBodySize))
	r.Use(cors.New(cors.Config{
		AllowOrigins:     deps.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Content-Type", "Authorization", "X-Request-ID"},
		MaxAge:           1 * time.Hour,
		AllowCredentials: false,
	}))
	r.Use(middleware.NewRateLimiter(ctx, rateLimit, rateBurst, middleware.ByClientIP).Handler())
	r.Use(middleware.PrometheusMiddleware())
}

// registerRoutes sets up all API route handlers on the given router group.
func registerRoutes(ctx context.Context, api *gin.RouterGroup, deps *RouterDeps) {
	log := deps.Log

	health := NewHealthHandler(deps.Pool, deps.Hub, log, deps.Version)
	attendance := NewAttendanceHandler(deps.Attendance, deps.Monitoring, log)
	monitoring := NewMonitoringHandler(deps.Attendance, deps.Monitoring, log)
	employees := NewEmployeeHandler(deps.Employees, log)
	audit := NewAuditHandler(deps.Audit, log)

	// Health and readiness are unauthenticated.
	api.GET("/health", health.Liveness)
	api.GET("/ready", health.Readiness)

	// Public kiosk endpoints.
	lookupGuard := middleware.NewBruteForceGuard(ctx, deps.LookupGuard, log)
	public := api.Group("/attendance",
		middleware.NewRateLimiter(ctx, publicRateLimit, publicRateBurst, middleware.ByClientIP).Handler(),
		middleware.LookupGuard(lookupGuard),
	)
	public.POST("/clock-in", attendance.ClockIn)
	public.GET("/last/:employeeId", attendance.Last)

	// Everything else requires a dashboard token.
	authGuard := middleware.NewBruteForceGuard(ctx, middleware.GuardConfig{}, log)
	authed := api.Group("",
		middleware.BruteForceMiddleware(authGuard),
		middleware.AuthMiddleware(deps.Verifier, log, authGuard),
		middleware.NewRateLimiter(ctx, userRateLimit, userRateBurst, middleware.ByUser).Handler(),
	)
	admin := middleware.RequireRole(middleware.RoleAdmin)

	// Monitoring.
	authed.POST("/monitoring/scan", monitoring.Scan)
	authed.GET("/monitoring/on-duty", monitoring.OnDuty)
	authed.GET("/monitoring/daily-map", monitoring.DailyMap)
	authed.GET("/monitoring/history", monitoring.History)

	// Employee registry.
	authed.GET("/employees", employees.List)
	authed.GET("/employees/stats/summary", employees.Stats)
	authed.GET("/employees/:id", employees.Get)
	authed.POST("/employees", admin, employees.Create)
	authed.PUT("/employees/:id", admin, employees.Update)
	authed.DELETE("/employees/:id", admin, employees.Delete)

	// Audit.
	authed.GET("/audit", audit.Query)
	authed.GET("/audit/:id", audit.Get)
	authed.DELETE("/audit", admin, audit.Clear)
	authed.DELETE("/audit/expired", admin, audit.Purge)

	// WebSocket endpoint. Browsers cannot set headers on the upgrade request,
	// so the token may also arrive as ?token=.
	api.GET("/ws",
		tokenFromQuery(),
		middleware.BruteForceMiddleware(authGuard),
		middleware.AuthMiddleware(deps.Verifier, log, authGuard),
		wsHandler(ctx, log, deps.Hub, deps.CORSOrigins, deps.Verifier),
	)
}

// NewRouter creates and configures the Gin engine with all middleware and routes.
func NewRouter(ctx context.Context, deps *RouterDeps) http.Handler {
	r := gin.New()
	setupMiddleware(ctx, r, deps)
	registerRoutes(ctx, r.Group("/api"), deps)

	return r
}
