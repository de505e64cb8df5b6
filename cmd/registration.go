package cmd

import (
	"github.com/gin-gonic/gin"
	"github.com/mmbazm/device-api/internal/api"
	"github.com/mmbazm/device-api/internal/core"
	"github.com/mmbazm/device-api/internal/infrastructure"
	"github.com/spf13/cobra"
)

var registrationCmd = &cobra.Command{
	Use:   "registration",
	Short: "Starts the device registration API server",
	Long:  `Launches the HTTP server that authenticates callers and persists device login events.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runRegistrationServer()
	},
}

func init() {
	rootCmd.AddCommand(registrationCmd)
}

func runRegistrationServer() error {
	logger.Info("Initializing Device Registration Service...")

	// --- Infrastructure Setup ---
	logger.Info("Connecting to database...")
	db, err := setupDatabase()
	if err != nil {
		return err
	}
	defer db.Close()

	var messaging *infrastructure.Messaging
	if cfg.ServiceBus.ConnectionString != "" {
		logger.Info("Connecting to messaging service...")
		messaging, err = infrastructure.NewMessaging(cfg.ServiceBus)
		if err != nil {
			logger.Warn("Messaging service unavailable, continuing without it")
			messaging = nil
		} else {
			defer messaging.Close()
		}
	}

	// --- Service Layer Setup ---
	store := core.NewEventStore(db.DB)
	service := core.NewRegistrationService(store, messaging, logger)
	verifier := core.NewTokenVerifier(cfg.Registration.UserKey)

	// --- API Layer Setup ---
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()

	handlers := api.NewRegistrationHandlers(service, logger)
	api.SetupRegistrationRoutes(router, handlers, verifier, logger)

	return serveHTTP("Device Registration API", cfg.Registration.Port, router)
}
