// Package httpapi wires the HTTP transport (Gin) to application services,
// middleware, and route handlers. It centralizes cross-cutting concerns such
// as tracing, correlation IDs, logging/redaction, panic recovery, metrics,
// CORS, security headers, and rate limiting.
//
// Design goals:
//   - Put observability first (OTel + Prometheus)
//   - Safe-by-default middleware ordering (RequestID → logging → recovery)
//   - Deterministic, minimal router setup; all dependencies injected
//   - Production-ready CORS and security header posture
package httpapi

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"gorm.io/gorm"

	"github.com/Abroon25/ideax/internal/config"
	"github.com/Abroon25/ideax/internal/email"
	"github.com/Abroon25/ideax/internal/http/handlers"
	"github.com/Abroon25/ideax/internal/http/middleware"
	"github.com/Abroon25/ideax/internal/payments"
	"github.com/Abroon25/ideax/internal/services"
	"github.com/Abroon25/ideax/internal/storage"
)

// maxBodyBytes is the global request body cap. Multipart attachment
// uploads need headroom above the JSON endpoints.
const maxBodyBytes = int64(1<<30 + 1<<20)

// RegisterRoutes attaches all middleware and HTTP endpoints to the given Gin
// engine. It configures observability (tracing, metrics), rate limiting,
// CORS and security headers, health and metrics endpoints, and then mounts
// the versioned public API under /api/v*.
//
// Middleware order matters:
//  1. OpenTelemetry: trace everything
//  2. RequestID: generate/propagate correlation id
//  3. RedactingLogger: structured logs with PII scrubbing
//  4. Recovery: capture panics after logger
//  5. Body size limiter
//  6. Gzip compression
//  7. Metrics
//  8. Rate limiter (per user/IP)
//  9. CORS and Security headers
func RegisterRoutes(r *gin.Engine, db *gorm.DB, cfg config.Config) {
	r.HandleMethodNotAllowed = true

	// 1) Trace all HTTP requests
	r.Use(otelgin.Middleware(cfg.OTEL.ServiceName))

	// 2) Correlate requests and logs
	r.Use(middleware.RequestID())

	// 3) Structured logging with redaction
	r.Use(middleware.RedactingLogger(middleware.RedactOptions{
		MaskHeaders: []string{
			"Authorization",
			"X-API-Key",
		},
	}))

	// 4) Panic recovery to JSON 500 (with request id)
	r.Use(middleware.Recovery())

	// 5) Global body size limit
	r.Use(limitBody(maxBodyBytes))

	// 6) Compress JSON responses
	r.Use(gzip.Gzip(gzip.DefaultCompression))

	// 7) Prometheus metrics and /metrics endpoint
	r.Use(middleware.Metrics())
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// 8) Token-bucket rate limiter per user/IP
	rl := middleware.NewRateLimiter(cfg.RateRPS, cfg.RateBurst, middleware.KeyByUserOrIP())
	r.Use(rl.Handler())

	// 9) CORS posture (safe defaults: allow all if none configured)
	if len(cfg.CORS.AllowedOrigins) == 0 {
		r.Use(func(c *gin.Context) {
			c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
			c.Next()
		})
		r.Use(cors.New(cors.Config{
			AllowAllOrigins:  true,
			AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
			ExposeHeaders:    []string{"X-Request-ID", "Content-Length"},
			AllowCredentials: false, // must remain false with AllowAllOrigins
			MaxAge:           12 * time.Hour,
		}))
	} else {
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
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
			ExposeHeaders:    []string{"X-Request-ID", "Content-Length"},
			AllowCredentials: true,
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

	// Fallbacks
	r.NoRoute(func(c *gin.Context) {
		handlers.Fail(c, http.StatusNotFound, handlers.ErrCodeNotFound, "route not found")
	})
	r.NoMethod(func(c *gin.Context) {
		handlers.Fail(c, http.StatusMethodNotAllowed, handlers.ErrCodeMethodNotAllowed, "method not allowed")
	})

	// Liveness/health
	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })

	// API docs
	if cfg.SwaggerEnabled {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	// External collaborators
	var uploader storage.Uploader = storage.Disabled{}
	if up := storage.NewHTTPUploader(cfg.Storage.BaseURL, cfg.Storage.APIKey); up != nil {
		uploader = up
	}
	sender := email.NewSender(cfg.Email.BaseURL, cfg.Email.APIKey, cfg.Email.From)
	var gateway payments.Gateway
	if gw := payments.NewGateway(cfg.Payment.BaseURL, cfg.Payment.KeyID, cfg.Payment.KeySecret); gw != nil {
		gateway = gw
	}

	// Dependency injection: services ← repo/db/collaborators
	secret := []byte(cfg.Auth.JWTSecret)
	tierSvc := services.NewTierService(db, sender)
	h := &handlers.Handlers{
		Auth:          services.NewAuthService(db, sender, tierSvc, secret, cfg.Auth.AccessTTL, cfg.Auth.RefreshTTL),
		Users:         services.NewUserService(db, uploader),
		Genres:        services.NewGenreService(db),
		Ideas:         services.NewIdeaService(db, uploader),
		Interests:     services.NewInterestService(db),
		Tiers:         tierSvc,
		Payments:      services.NewPaymentService(db, gateway, cfg.Payment.KeySecret, tierSvc),
		Analytics:     services.NewAnalyticsService(db),
		Notifications: services.NewNotificationService(db),
		Conversations: services.NewConversationService(db),
	}

	authOpts := middleware.AuthOptions{Secret: secret, DB: db, Tiers: tierSvc}
	requireAuth := middleware.RequireAuth(authOpts)
	optionalAuth := middleware.OptionalAuth(authOpts)

	// Public API
	api := groupWithPrefix(r, cfg.APIBasePath)
	{
		// Auth
		authG := api.Group("/auth")
		authG.POST("/signup", h.Signup)
		authG.POST("/login", h.Login)
		authG.POST("/refresh", h.Refresh)
		authG.POST("/forgot-password", h.ForgotPassword)
		authG.POST("/reset-password", h.ResetPassword)
		authG.POST("/logout", requireAuth, h.Logout)
		authG.GET("/me", requireAuth, h.Me)

		// Ideas
		api.POST("/ideas", requireAuth, h.CreateIdea)
		api.GET("/ideas/feed", optionalAuth, h.Feed)
		api.GET("/ideas/search", optionalAuth, h.SearchIdeas)
		api.GET("/ideas/:id", optionalAuth, h.GetIdea)
		api.PUT("/ideas/:id", requireAuth, h.UpdateIdea)
		api.DELETE("/ideas/:id", requireAuth, h.DeleteIdea)
		api.POST("/ideas/:id/like", requireAuth, h.ToggleLike)
		api.POST("/ideas/:id/bookmark", requireAuth, h.ToggleBookmark)
		api.POST("/ideas/:id/comments", requireAuth, h.PostComment)
		api.GET("/ideas/:id/comments", h.ListComments)
		api.POST("/ideas/:id/interest", requireAuth, h.ExpressInterest)
		api.GET("/ideas/:id/interests", requireAuth, h.ListInterests)

		// Users
		api.GET("/users/search", optionalAuth, h.SearchUsers)
		api.GET("/users/:username", optionalAuth, h.GetProfile)
		api.GET("/users/:username/ideas", optionalAuth, h.UserIdeas)
		api.POST("/users/:username/follow", requireAuth, h.ToggleFollow)

		// Self
		api.PUT("/me/profile", requireAuth, h.UpdateProfile)
		api.POST("/me/password", requireAuth, h.ChangePassword)
		api.POST("/me/tour-complete", requireAuth, h.CompleteTour)
		api.GET("/me/bookmarks", requireAuth, h.Bookmarks)

		// Genres
		api.GET("/genres", h.ListGenres)
		api.POST("/genres/select", requireAuth, h.SelectGenres)
		api.GET("/genres/mine", requireAuth, h.MyGenres)

		// Tiers and payments
		api.GET("/tiers", h.ListTiers)
		api.POST("/payments/create-order", requireAuth, h.CreateOrder)
		api.POST("/payments/verify", requireAuth, h.VerifyPayment)
		api.GET("/payments/transactions", requireAuth, h.ListTransactions)

		// Business
		api.POST("/business/ndas/generate", requireAuth, h.GenerateNDA)
		api.POST("/business/disputes", requireAuth, h.RaiseDispute)
		api.GET("/business/analytics", requireAuth, h.CreatorAnalytics)
		api.GET("/business/admin/stats", requireAuth, h.AdminStats)

		// Notifications
		api.GET("/notifications", requireAuth, h.ListNotifications)
		api.POST("/notifications/read", requireAuth, h.MarkNotificationsRead)

		// Conversations
		api.POST("/conversations", requireAuth, h.StartConversation)
		api.GET("/conversations", requireAuth, h.ListConversations)
		api.POST("/conversations/:id/messages", requireAuth, h.SendMessage)
		api.GET("/conversations/:id/messages", requireAuth, h.MessageHistory)
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
