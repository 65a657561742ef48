package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"stayguide/internal/api"
	"stayguide/pkg/config"
	"stayguide/pkg/geodata"
	"stayguide/pkg/logging"
	"stayguide/pkg/request"
	"stayguide/pkg/resolver"
	"stayguide/pkg/tracker"
	"stayguide/pkg/version"
)

var initConfig = flag.Bool("init-config", false, "Generate default config file and exit")

func main() {
	flag.Parse()

	// Handle --init-config flag
	if *initConfig {
		if err := config.Save("configs/stayguide.yaml", config.DefaultConfig()); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to generate config: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("Config file generated: configs/stayguide.yaml")
		return
	}

	if err := run(context.Background(), "configs/stayguide.yaml"); err != nil {
		fmt.Fprintf(os.Stderr, "CRITICAL ERROR: Application failed: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, configPath string) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Environment overrides may live in a local .env file.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		fmt.Fprintf(os.Stderr, "Warning: failed to load .env: %v\n", err)
	}

	appCfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	cleanupLogs, err := logging.Init(&appCfg.Log)
	if err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}
	defer cleanupLogs()

	slog.Info("Stayguide Started", "version", version.Version, "data_url", appCfg.Data.BaseURL)

	tr := tracker.New()
	fetcher := request.New(
		request.WithTimeout(time.Duration(appCfg.Request.Timeout)),
		request.WithRetries(appCfg.Request.Retries),
		request.WithBackoff(time.Duration(appCfg.Request.Backoff.BaseDelay)),
	)

	store := geodata.New(fetcher, geodata.Options{
		BaseURL:        appCfg.Data.BaseURL,
		TTL:            time.Duration(appCfg.Data.TTL),
		CitiesPath:     appCfg.Data.Cities,
		ZonesPath:      appCfg.Data.Zones,
		PartnersPath:   appCfg.Data.Partners,
		ApartmentsPath: appCfg.Data.Apartments,
	}, tr)

	// Warm the datasets up front so the first request doesn't pay for the
	// load. A failure here is not fatal, every resolve retries it.
	if err := store.Initialize(ctx); err != nil {
		slog.Warn("Initial dataset load failed", "error", err)
	}

	res := resolver.New(store)
	return runServer(ctx, appCfg, store, res)
}

func runServer(ctx context.Context, cfg *config.Config, store *geodata.Store, res *resolver.Resolver) error {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	shutdownFunc := func() { quit <- syscall.SIGTERM }

	srv := api.NewServer(cfg.Server.Address,
		api.NewLocationHandler(res),
		api.NewPartnersHandler(store, res),
		api.NewStatsHandler(store),
		shutdownFunc,
	)

	return runServerLifecycle(ctx, srv, quit)
}

func runServerLifecycle(ctx context.Context, srv *http.Server, quit chan os.Signal) error {
	slog.Info("Starting server", "addr", srv.Addr)
	serverErrors := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrors <- err
		}
	}()

	select {
	case <-quit:
		slog.Info("Shutting down server...")
	case <-ctx.Done():
		slog.Info("Context cancelled, shutting down...")
	case err := <-serverErrors:
		return fmt.Errorf("server failed: %w", err)
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
