package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/healthbridge/healthbridge/internal/api"
	"github.com/healthbridge/healthbridge/internal/config"
	"github.com/healthbridge/healthbridge/internal/platform/logger"
	"github.com/healthbridge/healthbridge/internal/store"
	"github.com/healthbridge/healthbridge/internal/store/postgres"
	"github.com/healthbridge/healthbridge/internal/store/sqlite"
)

func main() {
	log := logger.New("healthbridge")

	cfg, err := config.New()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	log.Info().
		Str("db_driver", cfg.DBDriver).
		Int("http_port", cfg.HTTPPort).
		Int("platform_version", cfg.PlatformVersion).
		Msg("Health bridge starting…")

	// -------- Record store --------------
	var st store.Store
	switch cfg.DBDriver {
	case "postgres":
		st, err = postgres.New(cfg.PostgresDSN)
	default:
		st, err = sqlite.New(cfg.SQLitePath)
	}
	if err != nil {
		log.Fatal().Err(err).Msg("Record store unavailable")
	}
	defer func() { _ = st.Close() }()

	// -------- Router & Server --------------
	router := api.NewRouter(cfg, st, log)
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Int("port", cfg.HTTPPort).Msg("HTTP server starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("HTTP server failed")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server…")
	ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctxShutdown); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}
	log.Info().Msg("Server exited")
}
