package main

import (
	"log"

	"chronolog/internal/config"
	"chronolog/internal/db"
	"chronolog/internal/handler"
	"chronolog/internal/repository"
	"chronolog/internal/router"
	"chronolog/internal/service"
)

func main() {
	cfg := config.Load()

	database, err := db.OpenSQLite(cfg.DBPath)
	if err != nil {
		log.Fatalf("open database: %v", err)
	}
	defer database.Close()

	if err := db.RunMigrations(database, cfg.MigrationsDir); err != nil {
		log.Fatalf("run migrations: %v", err)
	}

	userRepo := repository.NewUserRepository(database)
	stopwatchRepo := repository.NewStopwatchRepository(database)
	groupRepo := repository.NewGroupRepository(database)

	authService := service.NewAuthService(userRepo, cfg.JWTSecret, cfg.TokenTTL)
	stopwatchService := service.NewStopwatchService(stopwatchRepo)
	groupService := service.NewGroupService(groupRepo, stopwatchService)

	authHandler := handler.NewAuthHandler(authService)
	stopwatchHandler := handler.NewStopwatchHandler(stopwatchService)
	groupHandler := handler.NewGroupHandler(groupService)

	engine := router.New(authService, authHandler, stopwatchHandler, groupHandler, cfg.CORSOrigins)
	log.Printf("chronolog listening on :%s", cfg.Port)
	if err := engine.Run(":" + cfg.Port); err != nil {
		log.Fatalf("run server: %v", err)
	}
}
