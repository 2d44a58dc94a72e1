package api

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/guttosm/canteenpulse/internal/metrics"
	"github.com/guttosm/canteenpulse/internal/middleware"
)

const defaultRequestTimeout = 10 * time.Second

// RouterOptions tunes the middleware chain.
type RouterOptions struct {
	RateLimitPerMinute int           // <= 0 disables rate limiting
	RequestTimeout     time.Duration // <= 0 uses 10s
	Metrics            *metrics.Manager
}

// NewRouter creates a Gin engine with routes configured.
//
// Responsibilities:
//   - Registers global middlewares (RequestID, Logger, Recovery, ErrorHandler, metrics, RateLimiter).
//   - Bounds every request context with RequestTimeout.
//   - Mounts Swagger docs (/swagger/*any), /metrics and /ping.
//   - Configures API v1 routes (/api/v1).
//
// Health and readiness endpoints are registered by app.InitializeApp.
func NewRouter(handler *Handler, opts RouterOptions) *gin.Engine {
	router := gin.New()

	router.Use(
		middleware.RequestID(),
		middleware.RequestLogger(),
		middleware.RecoveryMiddleware(),
		middleware.ErrorHandler,
		middleware.HTTPMetrics(opts.Metrics),
		middleware.RateLimiter(opts.RateLimitPerMinute),
	)

	timeout := opts.RequestTimeout
	if timeout <= 0 {
		timeout = defaultRequestTimeout
	}
	router.Use(func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), timeout)
		defer cancel()
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	})

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	router.GET("/metrics", gin.WrapH(opts.Metrics.Handler()))
	router.GET("/ping", handler.Ping)

	v1 := router.Group("/api/v1")
	{
		v1.POST("/ratings", handler.CreateRating)
		v1.GET("/ratings", handler.ListRatings)

		v1.GET("/weekly-report", handler.GetWeeklyReport)
		v1.GET("/weekly-report/materialized", handler.GetMaterializedReport)
		v1.POST("/weekly-report/recompute", handler.RecomputeWeeklyReport)
	}

	return router
}
