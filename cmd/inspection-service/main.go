package main

import (
	"context"
	"fmt"
	"os"

	"inspection-service/internal/auth"
	"inspection-service/internal/catalog"
	"inspection-service/internal/config"
	"inspection-service/internal/db"
	httphandler "inspection-service/internal/http"
	"inspection-service/internal/http/middleware"
	"inspection-service/internal/logger"
	"inspection-service/internal/repository"
	"inspection-service/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.Environment)

	database, err := db.New(cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}

	roadRepo := repository.NewRoadRepository(database)
	photoRepo := repository.NewPhotoRepository(database)
	reportRepo := repository.NewReportRepository(database)
	catalogRepo := repository.NewCatalogRepository(database)
	userRepo := repository.NewUserRepository(database)

	seeder := catalog.NewSeeder(catalogRepo, log)
	if cfg.Catalog.DefectSeedFile != "" {
		if err := seeder.SeedDefectTypes(context.Background(), cfg.Catalog.DefectSeedFile); err != nil {
			log.Fatal().Err(err).Msg("failed to seed defect catalog")
		}
	}
	if cfg.Catalog.OccurrenceSeedFile != "" {
		if err := seeder.SeedOccurrences(context.Background(), cfg.Catalog.OccurrenceSeedFile); err != nil {
			log.Fatal().Err(err).Msg("failed to seed occurrence catalog")
		}
	}

	issuer := auth.NewIssuer(cfg.Auth.AccessSecret, cfg.Auth.AccessTTL)
	tokenParser := auth.NewParser(cfg.Auth.AccessSecret)

	authService := service.NewAuthService(userRepo, issuer)
	reportService := service.NewReportService(reportRepo, photoRepo, roadRepo)
	photoService := service.NewPhotoService(photoRepo, roadRepo, catalogRepo)
	consolidationService := service.NewConsolidationService(reportRepo, roadRepo)
	heatmapService := service.NewHeatmapService(roadRepo)
	catalogService := service.NewCatalogService(catalogRepo)
	roadService := service.NewRoadService(roadRepo)

	healthCheck := func(ctx context.Context) error {
		return db.HealthCheck(ctx, database)
	}

	handler := httphandler.NewHandler(
		authService,
		reportService,
		photoService,
		consolidationService,
		heatmapService,
		catalogService,
		roadService,
		healthCheck,
		log,
	)
	router := httphandler.NewRouter(handler, middleware.Auth(tokenParser), cfg.Environment)

	addr := fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port)
	log.Info().Str("addr", addr).Msg("starting inspection service")

	if err := router.Run(addr); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}
