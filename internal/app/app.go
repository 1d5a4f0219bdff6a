// Package app wires configuration, storage, services and the HTTP router.
package app

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/guttosm/fipe-service/config"
)

const closeTimeout = 10 * time.Second

// App is the initialized application.
type App struct {
	Router *gin.Engine

	storage    *StorageComponents
	services   *ServiceComponents
	stopRouter func()
}

// InitializeApp creates and wires all application dependencies.
func InitializeApp(cfg config.Config) (*App, error) {
	InitializeLogger()

	storage, err := InitializeStorage(cfg)
	if err != nil {
		return nil, err
	}

	services, err := InitializeServices(cfg, storage)
	if err != nil {
		storage.Close(context.Background())
		return nil, err
	}

	router, stopRouter := InitializeRouter(cfg, services, storage)

	log.Info().
		Str("env", cfg.Server.Env).
		Bool("mongodb", cfg.Database.Enabled).
		Bool("redis", cfg.Redis.Enabled).
		Str("upstream", cfg.Fipe.BaseURL).
		Msg("Application initialized")

	return &App{
		Router:     router,
		storage:    storage,
		services:   services,
		stopRouter: stopRouter,
	}, nil
}

// Close stops background workers, flushes pending writes and releases connections.
// Call it after the HTTP server has stopped accepting requests.
func (a *App) Close() {
	a.stopRouter()
	a.services.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), closeTimeout)
	defer cancel()
	a.storage.Close(ctx)
}
