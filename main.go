package main

import (
	"context"

	"psymap-go/internal/assessment"
	"psymap-go/internal/config"
	"psymap-go/internal/database"
	logger "psymap-go/internal/logging"
	"psymap-go/internal/metrics"
	"psymap-go/internal/models"
	"psymap-go/internal/repository"
	"psymap-go/internal/router"
	"psymap-go/internal/scoring"
	"psymap-go/internal/services"

	"go.uber.org/zap"
)

func main() {
	// Initialize Logger
	log, err := logger.Init(".")
	if err != nil {
		panic("failed to initialize logger: " + err.Error())
	}
	defer log.Sync()

	// Initialize Configuration
	if err := config.Init(".", log); err != nil {
		log.Fatal("Failed to load configuration", zap.Error(err))
	}

	// Initialize Database
	database.Init(log)

	ctx := context.Background()

	// Load the test catalog and sync it into the database
	catalogFile, err := models.LoadCatalog(config.Conf.Assessment.CatalogPath)
	if err != nil {
		log.Fatal("Failed to load test catalog", zap.Error(err))
	}
	if err := repository.SeedCatalog(ctx, database.DB, catalogFile); err != nil {
		log.Fatal("Failed to seed test catalog", zap.Error(err))
	}
	log.Info("Test catalog loaded",
		zap.Int("testTypes", len(catalogFile.TestTypes)),
		zap.Int("configurations", len(catalogFile.Configurations)))

	// Wire up stores, scoring and the orchestrator
	catalogStore := repository.NewGormCatalogStore(database.DB)
	userStore := repository.NewGormUserStore(database.DB)
	persistent := repository.Stores{
		Sessions:  repository.NewGormSessionStore(database.DB),
		Responses: repository.NewGormResponseStore(database.DB),
		Results:   repository.NewGormResultStore(database.DB),
	}
	demo := repository.NewMemoryStores()

	reporter := metrics.New()
	orchestrator := assessment.NewOrchestrator(log, catalogStore, persistent, demo, scoring.DefaultRegistry(), reporter)

	// Background maintenance: abandon/expire idle sessions, send reminders
	emailService := services.NewEmailService(log)
	scheduler := services.NewScheduler(log, persistent.Sessions, userStore, emailService)
	scheduler.Start(ctx)

	// Setup router, passing the logger to it
	r := router.Setup(log, orchestrator, catalogStore, userStore)

	// Start the Gin server
	port := ":" + config.Conf.Server.Port
	log.Info("Server listening on http://localhost" + port)
	if err := r.Run(port); err != nil {
		log.Fatal("Failed to run Gin server", zap.Error(err))
	}
}
