package app

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/guttosm/canteenpulse/config"
	"github.com/guttosm/canteenpulse/internal/api"
	"github.com/guttosm/canteenpulse/internal/logger"
	"github.com/guttosm/canteenpulse/internal/metrics"
	"github.com/guttosm/canteenpulse/internal/service"
)

// storeOpener is an indirection used by InitializeApp; overridden in tests.
var storeOpener = OpenStore

// InitializeApp sets up all application dependencies and returns
// a fully configured Gin router, a cleanup function for graceful shutdown,
// and any error encountered during initialization.
//
// Responsibilities:
//   - Opens the store selected by STORE_DRIVER (postgres or mongo).
//   - Builds the metrics manager when METRICS_ENABLED is set.
//   - Wires the report and rating services, the HTTP handler and router.
//   - Registers health and readiness probes backed by the store ping.
//   - Provides a cleanup function that closes the store.
func InitializeApp() (*gin.Engine, func(), error) {
	cfg := config.AppConfig
	ctx := context.Background()

	store, err := storeOpener(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}

	var m *metrics.Manager
	if cfg.Metrics.Enabled {
		m = metrics.NewManager()
	}

	reports := service.NewReportService(store, m)
	ratings := service.NewRatingService(store, m)
	handler := api.NewHandler(reports, ratings)

	router := api.NewRouter(handler, api.RouterOptions{
		RateLimitPerMinute: cfg.Server.RateLimitPerMinute,
		RequestTimeout:     time.Duration(cfg.Server.RequestTimeoutSecs) * time.Second,
		Metrics:            m,
	})

	api.NewHealthHandler(store.Ping).Register(router)

	cleanup := func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := store.Close(closeCtx); err != nil {
			logger.L().Warn().Err(err).Msg("store close failed")
		}
	}

	return router, cleanup, nil
}
