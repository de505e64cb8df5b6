package cmd

import (
	"github.com/gin-gonic/gin"
	"github.com/mmbazm/device-api/internal/api"
	"github.com/mmbazm/device-api/internal/client"
	"github.com/mmbazm/device-api/internal/core"
	"github.com/mmbazm/device-api/internal/infrastructure"
	"github.com/spf13/cobra"
)

var statisticsCmd = &cobra.Command{
	Use:   "statistics",
	Short: "Starts the statistics API server",
	Long:  `Launches the HTTP server that forwards login events to the registration service and answers device-type count queries.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runStatisticsServer()
	},
}

func init() {
	rootCmd.AddCommand(statisticsCmd)
}

func runStatisticsServer() error {
	logger.Info("Initializing Statistics Service...")

	// --- Infrastructure Setup ---
	logger.Info("Connecting to database...")
	db, err := setupDatabase()
	if err != nil {
		return err
	}
	defer db.Close()

	logger.Info("Connecting to cache...")
	cache, err := infrastructure.NewCache(cfg.Redis)
	if err != nil {
		logger.Warn("Cache unavailable, continuing without it")
		cache = nil
	} else {
		defer cache.Close()
	}

	registration := client.New(cfg.Statistics.RegistrationURL, client.Options{
		Timeout:            cfg.Statistics.RequestTimeout,
		MaxRetries:         cfg.Statistics.MaxRetries,
		InsecureSkipVerify: cfg.Statistics.InsecureSkipVerify,
	}, logger)

	// --- Service Layer Setup ---
	store := core.NewEventStore(db.DB)
	service := core.NewStatisticsService(store, cache, registration,
		cfg.Statistics.RegisterEndpoint, cfg.Statistics.CacheTTL, logger)
	verifier := core.NewTokenVerifier(cfg.Statistics.UserKey)

	// --- API Layer Setup ---
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()

	handlers := api.NewStatisticsHandlers(service, logger)
	api.SetupStatisticsRoutes(router, handlers, verifier, logger)

	return serveHTTP("Statistics API", cfg.Statistics.Port, router)
}
