package main

//
//  @title           canteenpulse API
//  @version         1.0
//  @description     Canteen meal ratings and weekly report service.
//  @termsOfService  https://github.com/guttosm/canteenpulse
//  @contact.name    API Support
//  @contact.url     https://github.com/guttosm/canteenpulse
//  @contact.email   support@example.com
//  @license.name    MIT
//  @license.url     https://opensource.org/licenses/MIT
//  @host            localhost:8080
//  @BasePath        /
//  @schemes         http
//
//  @tag.name        reports
//  @tag.description Weekly report computation and materialization
//
//  @tag.name        ratings
//  @tag.description Meal rating submission and listing
//
//  @tag.name        health
//  @tag.description Liveness and readiness probes

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/guttosm/canteenpulse/config"
	_ "github.com/guttosm/canteenpulse/docs" // swagger docs
	"github.com/guttosm/canteenpulse/internal/app"
	"github.com/guttosm/canteenpulse/internal/ingestion"
	"github.com/guttosm/canteenpulse/internal/logger"
	"github.com/guttosm/canteenpulse/internal/service"
	"github.com/guttosm/canteenpulse/internal/storage"
)

// storeOpener is overridden in tests.
var storeOpener = app.OpenStore

// startServer initializes and starts the HTTP server in a separate goroutine.
//
// Parameters:
//   - router (http.Handler): The HTTP router (Gin Engine) configured with all routes.
//   - port (string): The port where the server will listen for incoming requests.
//
// Returns:
//   - *http.Server: The initialized HTTP server instance.
func startServer(router http.Handler, port string) *http.Server {
	server := &http.Server{
		Addr:              ":" + port,
		Handler:           router,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		logger.L().Info().Str("port", port).Msg("server starting")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.L().Fatal().Err(err).Msg("server failed to start")
		}
	}()

	return server
}

// gracefulShutdown waits for SIGINT or SIGTERM, drains the HTTP server
// and then runs cleanup to release the store.
func gracefulShutdown(ctx context.Context, server *http.Server, cleanup func()) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(quit)

	<-quit
	logger.L().Info().Msg("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.L().Error().Err(err).Msg("server forced to shutdown")
	}

	cleanup()
	logger.L().Info().Msg("server exited gracefully")
}

// splitCanteens turns "a, b,,c" into [a b c].
func splitCanteens(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// runRecompute materializes the report of every canteen for week.
func runRecompute(ctx context.Context, store storage.Store, canteens []string, week string, parallel int) error {
	reports := service.NewReportService(store, nil)
	if err := reports.RecomputeAll(ctx, canteens, week, parallel); err != nil {
		return fmt.Errorf("recompute: %w", err)
	}
	logger.L().Info().Strs("canteens", canteens).Str("week", week).Msg("recompute completed")
	return nil
}

// runImport loads every ratings CSV of dir into the store.
func runImport(ctx context.Context, store storage.Store, dir string, parallel int, force bool) error {
	n, err := ingestion.ProcessDirectory(ctx, dir, store, ingestion.Options{Parallel: parallel, Force: force})
	if err != nil {
		return fmt.Errorf("import: %w", err)
	}
	logger.L().Info().Int("rows", n).Str("dir", dir).Msg("import completed")
	return nil
}

func runIndexes(ctx context.Context, store storage.Store) error {
	if err := store.EnsureIndexes(ctx); err != nil {
		return fmt.Errorf("ensure indexes: %w", err)
	}
	logger.L().Info().Msg("indexes ensured")
	return nil
}

// runBatch opens the store, runs one batch mode and closes the store.
func runBatch(ctx context.Context, cfg config.Config, job func(context.Context, storage.Store) error) error {
	store, err := storeOpener(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := store.Close(closeCtx); err != nil {
			logger.L().Warn().Err(err).Msg("store close failed")
		}
	}()
	return job(ctx, store)
}

// main is the entry point of the canteenpulse application.
//
// Modes (selected via --mode flag):
//   - api:       Starts the REST API.
//   - recompute: Materializes the weekly report of each --canteens entry.
//   - import:    Loads every ratings .csv file from --dir.
//   - indexes:   Creates the store's indexes.
func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	config.LoadConfig()
	logger.Init(logger.Options{Level: config.AppConfig.Log.Level, Pretty: config.AppConfig.Log.Pretty})

	mode := flag.String("mode", "api", "Mode: api, recompute, import or indexes")
	port := flag.String("port", config.AppConfig.Server.Port, "Port for API mode")
	canteens := flag.String("canteens", "", "Comma separated canteen ids (recompute)")
	week := flag.String("week", "", "Monday of the week, YYYY-MM-DD; empty means the current week (recompute)")
	dir := flag.String("dir", "./data/ratings", "Directory with ratings .csv files (import)")
	parallel := flag.Int("parallel", 0, "Concurrent jobs (recompute, import); 0 = auto")
	force := flag.Bool("force", false, "Re-import files already present in the import log")
	flag.Parse()

	var err error
	switch *mode {
	case "api":
		logger.L().Info().Msg("starting API server")
		router, cleanup, initErr := app.InitializeApp()
		if initErr != nil {
			logger.L().Fatal().Err(initErr).Msg("app init error")
		}
		server := startServer(router, *port)
		gracefulShutdown(context.Background(), server, cleanup)
		return

	case "recompute":
		ids := splitCanteens(*canteens)
		err = runBatch(ctx, config.AppConfig, func(ctx context.Context, s storage.Store) error {
			return runRecompute(ctx, s, ids, *week, *parallel)
		})

	case "import":
		err = runBatch(ctx, config.AppConfig, func(ctx context.Context, s storage.Store) error {
			return runImport(ctx, s, *dir, *parallel, *force)
		})

	case "indexes":
		err = runBatch(ctx, config.AppConfig, runIndexes)

	default:
		logger.L().Fatal().Str("mode", *mode).Msg("unknown mode")
	}

	if err != nil {
		logger.L().Fatal().Err(err).Str("mode", *mode).Msg("run failed")
	}
}
