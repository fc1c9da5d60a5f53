package main

import (
	"cowork/config"
	"cowork/di"
	"cowork/helper"
	"cowork/shared/logger"

	"github.com/rs/zerolog/log"
)

// @title Cowork Booking API
// @version 1.0
// @description Workspace catalog, bookings without overlaps and availability queries.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg := config.Get()

	logger.InitLogger()

	logger.SetLogLevel(cfg)

	if cfg.DB.Postgres.AutoMigrate {
		if err := helper.Up(cfg); err != nil {
			log.Fatal().Err(err).Msg("Failed to run database migrations")
		}
	}

	http := di.InitializeService()
	http.Serve()
}
