// Package httpapi wires the HTTP transport (Gin) to application services,
// middleware, and route handlers. It centralizes cross-cutting concerns such
// as tracing, correlation IDs, logging/redaction, panic recovery, metrics,
// CORS, security headers, identity resolution, idempotency, and rate
// limiting.
//
// Design goals:
//   - Put observability first (OTel + Prometheus)
//   - Safe-by-default middleware ordering (RequestID → logging → recovery)
//   - Deterministic, minimal router setup; all dependencies injected
//   - Production-ready CORS and security header posture
package httpapi

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"gorm.io/gorm"

	"github.com/opsvarejo/go-chamados-backend/api"
	"github.com/opsvarejo/go-chamados-backend/internal/auth"
	"github.com/opsvarejo/go-chamados-backend/internal/config"
	"github.com/opsvarejo/go-chamados-backend/internal/events"
	"github.com/opsvarejo/go-chamados-backend/internal/http/handlers"
	"github.com/opsvarejo/go-chamados-backend/internal/http/middleware"
	"github.com/opsvarejo/go-chamados-backend/internal/repo"
	"github.com/opsvarejo/go-chamados-backend/internal/services"
	"github.com/opsvarejo/go-chamados-backend/internal/workspace"
)

// RegisterRoutes attaches all middleware and HTTP endpoints to the given Gin
// engine. It configures observability (tracing, metrics), CORS and security
// headers, identity resolution against the permission table, idempotency and
// rate limiting, health/metrics/swagger endpoints, and then mounts the
// versioned public API under /api/v*.
//
// Middleware order matters:
//  1. OpenTelemetry: trace everything
//  2. RequestID: generate/propagate correlation id
//  3. RedactingLogger: structured logs with PII scrubbing
//  4. Recovery: capture panics after logger
//  5. Body size limiter
//  6. Metrics
//  7. CORS and Security headers (before identity so preflights never 403)
//  8. gzip response compression
//  9. Identity: resolve role from trusted headers (health/metrics/swagger
//     are registered earlier and stay open)
//  10. Idempotency validator (needs the resolved identity; before the rate
//     limiter to allow bypass on replay)
//  11. Rate limiter (per user/IP, bypass on replay)
func RegisterRoutes(r *gin.Engine, db *gorm.DB, producer events.TicketEventProducer, cfg config.Config) {
	r.HandleMethodNotAllowed = true

	// 1) Trace all HTTP requests
	r.Use(otelgin.Middleware(cfg.OTEL.ServiceName))

	// 2) Correlate requests and logs
	r.Use(middleware.RequestID())

	// 3) Structured logging with redaction
	r.Use(middleware.RedactingLogger(middleware.RedactOptions{
		MaskHeaders: []string{
			"X-Workspace-Token", // never log the integration secret
		},
	}))

	// 4) Panic recovery to JSON 500 (with request id)
	r.Use(middleware.Recovery())

	// 5) Global body size limit (1 MiB)
	r.Use(limitBody(1 << 20))

	// 6) Prometheus metrics and /metrics endpoint
	r.Use(middleware.Metrics())
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// 7) CORS posture (safe defaults: allow all if none configured)
	if len(cfg.CORS.AllowedOrigins) == 0 {
		// Force ACAO: * even for requests without an Origin header (helps tests and simple health checks).
		r.Use(func(c *gin.Context) {
			c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
			c.Next()
		})
		r.Use(cors.New(cors.Config{
			AllowAllOrigins:  true,
			AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", auth.HeaderUserEmail, auth.HeaderUserName, middleware.HeaderIdempotencyKey},
			ExposeHeaders:    []string{"X-Request-ID", "Content-Length", "ETag"},
			AllowCredentials: false, // must remain false with AllowAllOrigins
			MaxAge:           12 * time.Hour,
		}))
	} else {
		// Echo ACAO with the request Origin when it is in the allowlist (in addition to gin-contrib/cors).
		allowed := make(map[string]struct{}, len(cfg.CORS.AllowedOrigins))
		for _, o := range cfg.CORS.AllowedOrigins {
			allowed[o] = struct{}{}
		}
		r.Use(func(c *gin.Context) {
			if origin := c.GetHeader("Origin"); origin != "" {
				if _, ok := allowed[origin]; ok {
					h := c.Writer.Header()
					h.Set("Access-Control-Allow-Origin", origin)
					h.Add("Vary", "Origin")
				}
			}
			c.Next()
		})
		r.Use(cors.New(cors.Config{
			AllowOrigins:     cfg.CORS.AllowedOrigins,
			AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", auth.HeaderUserEmail, auth.HeaderUserName, middleware.HeaderIdempotencyKey},
			ExposeHeaders:    []string{"X-Request-ID", "Content-Length", "ETag"},
			AllowCredentials: false,
			MaxAge:           12 * time.Hour,
		}))
	}

	// Security headers (HSTS only when enabled and request is HTTPS)
	r.Use(middleware.SecurityHeaders(middleware.SecurityOptions{
		EnableHSTS:   cfg.Security.EnableHSTS,
		HSTSMaxAge:   cfg.Security.HSTSMaxAge,
		NoStore:      false,
		EnablePolicy: true,
	}))

	// 8) Compress responses (ticket listings shrink well)
	r.Use(gzip.Gzip(gzip.DefaultCompression))

	// Fallbacks
	r.NoRoute(func(c *gin.Context) {
		handlers.Fail(c, http.StatusNotFound, handlers.ErrCodeNotFound, "route not found")
	})
	r.NoMethod(func(c *gin.Context) {
		handlers.Fail(c, http.StatusMethodNotAllowed, handlers.ErrCodeMethodNotAllowed, "method not allowed")
	})

	// Liveness/health
	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })

	// API documentation (embedded OpenAPI document + Swagger UI)
	if cfg.SwaggerEnabled {
		r.GET("/swagger", func(c *gin.Context) {
			c.Redirect(http.StatusMovedPermanently, "/swagger/index.html")
		})
		r.GET("/swagger/*any", func(c *gin.Context) {
			if strings.TrimPrefix(c.Param("any"), "/") == "openapi.json" {
				c.Data(http.StatusOK, "application/json", api.OpenAPISpec)
				return
			}
			ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/openapi.json"))(c)
		})
	}

	// Dependency injection: services ← repo/db/source client
	client := workspace.NewClient(cfg.Workspace.APIURL, cfg.Workspace.Token, cfg.Workspace.Version)
	syncSvc := &services.SyncService{
		DB:         db,
		Source:     client,
		DatabaseID: cfg.Workspace.TicketsDB,
		Events:     producer,
	}
	projSvc := &services.ProjectService{
		Source:     client,
		DatabaseID: cfg.Workspace.ProjectsDB,
	}
	permSvc := &services.PermissionService{DB: db}
	h := handlers.New(db, syncSvc, projSvc, permSvc).WithIdempotencyTTL(cfg.IdempotencyTTL)

	// 9) Identity resolution: static allow-list first, permission table second.
	// Registered after health/metrics/swagger so infrastructure endpoints
	// stay reachable on closed instances.
	r.Use(auth.Identity(&auth.Resolver{
		Static: auth.ParseStaticRoles(cfg.StaticRoles),
		Lookup: permSvc.RoleFor,
	}))

	// 10) Idempotency validation (before rate limiting)
	r.Use(middleware.IdempotencyValidator(
		middleware.IdempotencyOptions{
			MaxLen: 200,
		},
		func(ctx context.Context, userEmail, scope, key string, now time.Time) (bool, error) {
			rec, err := repo.GetIdempotency(ctx, db, userEmail, scope, key, now)
			if err != nil || rec == nil {
				return false, nil
			}
			return true, nil
		},
	))

	// 11) Token-bucket rate limiter per user/IP
	rl := middleware.NewRateLimiter(cfg.RateRPS, cfg.RateBurst, middleware.KeyByUserOrIP())
	r.Use(rl.Handler())

	// Public API
	apiBase := cfg.APIBasePath // e.g. "/api/v1"
	v1 := groupWithPrefix(r, apiBase)
	{
		// Sync pipeline
		v1.POST("/sync", h.TriggerSync)
		v1.GET("/sync/runs", h.ListSyncRuns)

		// Tickets
		v1.GET("/tickets", h.ListTickets)
		v1.GET("/tickets/stats", h.TicketStats)
		v1.GET("/tickets/search", h.SearchTickets)

		// Projects
		v1.GET("/projects", h.ListProjects)

		// Permissions
		v1.GET("/permissions", h.ListPermissions)
		v1.POST("/permissions", h.UpsertPermission)
		v1.DELETE("/permissions", h.DeletePermission)

		// Caller identity
		v1.GET("/me", h.Me)
	}
}

// limitBody returns a Gin middleware that caps the request body size for all
// endpoints to maxBytes using http.MaxBytesReader. Requests exceeding the cap
// will cause downstream body reads to error.
func limitBody(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}

// groupWithPrefix mounts a group at prefix, treating "/" (or empty) as root.
func groupWithPrefix(r *gin.Engine, prefix string) *gin.RouterGroup {
	if prefix == "" || prefix == "/" {
		return r.Group("")
	}
	return r.Group(prefix)
}
