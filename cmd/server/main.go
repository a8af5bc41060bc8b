package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpapi "handsaround/internal/api/http"
	"handsaround/internal/backend"
	"handsaround/internal/config"
	"handsaround/internal/domain"
	"handsaround/internal/jobs"
	"handsaround/internal/logger"
	"handsaround/internal/mapview"
	"handsaround/internal/scheduler"
	"handsaround/internal/security"
	"handsaround/internal/service"
	"handsaround/internal/storage"

	"github.com/joho/godotenv"
)

func main() {
	// Parse command-line flags
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	runOnce := flag.Bool("run-jobs", false, "Run the scheduled jobs once and exit")
	flag.Parse()

	// Optional .env; real environment variables win
	_ = godotenv.Load()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting HandsAround front...", "log_level", cfg.Log.Level, "log_format", cfg.Log.Format)
	logger.Info("Server configuration", "address", cfg.GetServerAddress(), "development", cfg.Server.Development)
	logger.Info("Backend configuration", "base_url", cfg.Backend.BaseURL, "timeout", cfg.BackendTimeout())

	ctx := context.Background()

	// Initialize local storage
	logger.Debug("Opening local storage...", "driver", cfg.Storage.Driver)
	store, err := storage.Open(ctx, cfg.Storage.Driver, cfg.Storage.DSN)
	if err != nil {
		logger.Error("Failed to open local storage", "error", err)
		log.Fatalf("Failed to open local storage: %v", err)
	}
	defer store.Close()
	logger.Info("Local storage ready", "driver", cfg.Storage.Driver)

	photos, err := storage.NewFilePhotoStore(cfg.Photos.BaseURL, cfg.Photos.UploadDir, cfg.MaxPhotoBytes(), cfg.Photos.AllowedTypes)
	if err != nil {
		logger.Error("Failed to initialize photo storage", "error", err)
		log.Fatalf("Failed to initialize photo storage: %v", err)
	}

	// Initialize application state
	client := backend.NewHTTPClient(cfg.Backend.BaseURL, backend.WithTimeout(cfg.BackendTimeout()))
	state := service.NewAppState(client, store, security.NewTokenInspector(30*time.Second))
	state.Start(ctx)

	jobRunner := jobs.NewJobRunner(state, cfg)
	if *runOnce {
		jobRunner.RunAll()
		return
	}

	sched, err := scheduler.NewScheduler(jobRunner)
	if err != nil {
		logger.Error("Failed to create scheduler", "error", err)
		log.Fatalf("Failed to create scheduler: %v", err)
	}
	sched.Start()
	defer sched.Stop()

	// Map renderers share one device locator
	locator := mapview.NewReportedLocator(time.Minute)
	grid := mapview.NewGridRenderer(mapview.GridOptions{
		Default: domain.Coordinates{Lat: cfg.Map.DefaultLat, Lng: cfg.Map.DefaultLng},
		Scale:   cfg.Map.ProjectionScale,
		Jitter:  cfg.Map.JitterDegrees,
		MaxPins: cfg.Map.MaxPins,
		Timeout: cfg.GeolocationTimeout(),
	}, locator)
	tiles := mapview.NewTileRenderer(mapview.TileOptions{
		Region:      domain.Coordinates{Lat: cfg.Map.RegionLat, Lng: cfg.Map.RegionLng},
		RegionZoom:  cfg.Map.RegionZoom,
		LocatedZoom: cfg.Map.LocatedZoom,
		TileURL:     cfg.Map.TileURL,
		Attribution: cfg.Map.Attribution,
		Timeout:     cfg.GeolocationTimeout(),
	}, locator)

	router, err := httpapi.NewRouter(httpapi.Deps{
		State:    state,
		Photos:   photos,
		Grid:     grid,
		Tiles:    tiles,
		Reporter: locator,
		Store:    store,
	}, httpapi.Options{
		Development:   cfg.Server.Development,
		AuthRateLimit: cfg.Security.AuthRateLimit,
	})
	if err != nil {
		logger.Error("Failed to build router", "error", err)
		log.Fatalf("Failed to build router: %v", err)
	}

	srv := &http.Server{
		Addr:              cfg.GetServerAddress(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Start server in a goroutine for graceful shutdown
	go func() {
		logger.Info("HTTP server listening", "address", cfg.GetServerAddress())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("HTTP server error", "error", err)
			log.Fatalf("HTTP server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", "error", err)
	}
}
