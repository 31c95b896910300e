package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/lysyi3m/foaf-comb/app/api"
	"github.com/lysyi3m/foaf-comb/app/cache"
	"github.com/lysyi3m/foaf-comb/app/cfg"
	"github.com/lysyi3m/foaf-comb/app/database"
	"github.com/lysyi3m/foaf-comb/app/feed"
	"github.com/lysyi3m/foaf-comb/app/linkeddata"
	"github.com/lysyi3m/foaf-comb/app/parser"
	"github.com/lysyi3m/foaf-comb/app/profile"
	"github.com/lysyi3m/foaf-comb/app/tasks"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	appCfg, err := cfg.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if appCfg == nil {
		// Help was shown
		return
	}

	level := slog.LevelInfo
	if appCfg.Debug {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level})))

	slog.Info("Starting FOAF Comb server", "version", appCfg.Version)

	db, err := database.NewConnection(appCfg.DBPath)
	if err != nil {
		slog.Error("Failed to connect to database", "path", appCfg.DBPath, "error", err)
		os.Exit(1)
	}
	defer db.Close()

	version, dirty, err := database.RunMigrations(db)
	if err != nil {
		slog.Error("Failed to run migrations", "error", err)
		os.Exit(1)
	}
	slog.Info("Database ready", "path", appCfg.DBPath, "schema_version", version, "dirty", dirty)

	profileRepo := database.NewProfileRepository(db)
	cacheRepo := database.NewCacheRepository(db)

	store, err := cache.NewSQLStore(cacheRepo)
	if err != nil {
		slog.Error("Failed to create cache store", "error", err)
		os.Exit(1)
	}
	defer store.Close()

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics, err := linkeddata.NewMetrics(registry)
	if err != nil {
		slog.Error("Failed to register metrics", "error", err)
		os.Exit(1)
	}

	fetcher := parser.NewFetcher(&http.Client{}, appCfg.UserAgent, appCfg.MaxContentSize)

	baseOptions := linkeddata.DefaultOptions()
	baseOptions.RequestTimeout = time.Duration(appCfg.RequestTimeout) * time.Second
	baseOptions.ResourceMaxAge = time.Duration(appCfg.ResourceCacheTTL) * time.Second

	sessions := profile.NewSessionFactory(baseOptions, linkeddata.Dependencies{
		Parser:    parser.NewRDFParser(fetcher),
		Feeds:     feed.NewParser(fetcher),
		Cache:     store,
		Extractor: feed.NewContentExtractor(fetcher),
		Metrics:   metrics,
	})

	configCache := profile.NewConfigCache(appCfg.ProfilesDir)
	if err := configCache.Run(); err != nil {
		slog.Error("Failed to load profile configurations", "dir", appCfg.ProfilesDir, "error", err)
		os.Exit(1)
	}
	slog.Info("Profile configurations loaded", "dir", appCfg.ProfilesDir, "count", configCache.GetConfigCount())

	scheduler := tasks.NewScheduler(configCache, profileRepo, cacheRepo, sessions)
	scheduler.Start()
	defer scheduler.Stop()

	handler := api.NewHandler(configCache, profileRepo, sessions, feed.NewFilterer(), scheduler)
	server := api.NewServer(handler, appCfg.APIAccessKey, promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

	httpServer := &http.Server{
		Addr:         ":" + appCfg.Port,
		Handler:      server,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	serverErrChan := make(chan error, 1)
	go func() {
		slog.Info("HTTP server listening", "port", appCfg.Port)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErrChan <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		slog.Info("Received signal", "signal", sig.String())
	case err := <-serverErrChan:
		slog.Error("Server error", "error", err)
	}

	slog.Info("Shutting down server gracefully")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("HTTP server shutdown error", "error", err)
	} else {
		slog.Info("HTTP server stopped")
	}
}
