// Package main is the entry point for the fipe-service application.
//
// @title           FIPE Service API
// @version         1.0.0
// @description     Caching proxy over the FIPE vehicle price table with search, favorites, history and uploads.
//
//	Lookups are public. Favorites, history and uploads require a bearer token.
//
// @contact.name   API Support
// @contact.email  support@example.com
// @contact.url    https://github.com/guttosm/fipe-service
//
// @license.name  MIT
// @license.url   https://opensource.org/licenses/MIT
//
// @host      localhost:8080
// @BasePath  /
//
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
// @description                 "Bearer" followed by the access token.
//
// @securityDefinitions.apikey  ApiKeyAuth
// @in                          header
// @name                        X-API-Key
// @description                 API key for /metrics.
//
// @tag.name        FIPE
// @tag.description Reference tables, brands, models, prices and search
//
// @tag.name        Auth
// @tag.description Registration, login and token lifecycle
//
// @tag.name        Favorites
// @tag.description Saved vehicles
//
// @tag.name        History
// @tag.description Consultation history
//
// @tag.name        Upload
// @tag.description File uploads
//
// @tag.name        Admin
// @tag.description Cache administration and logs
//
// @tag.name        Health
// @tag.description Health check endpoints
package main

import (
	"context"

	"github.com/rs/zerolog/log"

	_ "github.com/guttosm/fipe-service/docs" // swagger docs

	"github.com/guttosm/fipe-service/config"
	"github.com/guttosm/fipe-service/internal/app"
)

func main() {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}

	application, err := app.InitializeApp(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize application")
	}

	server := app.NewServer(application.Router, cfg.Server)
	runErr := server.Run(context.Background())
	application.Close()

	if runErr != nil {
		log.Fatal().Err(runErr).Msg("Server error")
	}
}
