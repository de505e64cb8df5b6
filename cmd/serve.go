package cmd

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mmbazm/device-api/internal/core"
	"github.com/mmbazm/device-api/internal/infrastructure"
)

// setupDatabase ensures the database and event table exist and returns a
// pooled connection. Shared by both serve commands and the migrate command.
func setupDatabase() (*infrastructure.Database, error) {
	if err := infrastructure.EnsureDatabase(cfg.Database, logger); err != nil {
		return nil, fmt.Errorf("database initialization failed: %w", err)
	}

	db, err := infrastructure.NewDatabase(cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}

	if err := db.Migrate(&core.DeviceEvent{}); err != nil {
		db.Close()
		return nil, fmt.Errorf("table migration failed: %w", err)
	}

	return db, nil
}

// serveHTTP runs the router on the given port until SIGINT/SIGTERM, then
// shuts down gracefully.
func serveHTTP(name string, port int, router *gin.Engine) error {
	serverAddr := fmt.Sprintf(":%d", port)
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  120 * time.Second,
	}

	shutdownChan := make(chan os.Signal, 1)
	signal.Notify(shutdownChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Infof("%s listening on %s", name, serverAddr)

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("Server failed to start: %v", err)
		}
	}()

	<-shutdownChan

	logger.Warn("Shutdown signal received, initiating graceful shutdown...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Errorf("Server shutdown failed: %v", err)
	} else {
		logger.Info("Server stopped gracefully")
	}

	return nil
}
