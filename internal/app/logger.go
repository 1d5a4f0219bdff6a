package app

import (
	"os"

	"github.com/guttosm/fipe-service/internal/logger"
)

// InitializeLogger configures the global logger from LOG_LEVEL and LOG_PRETTY.
func InitializeLogger() {
	logLevel := os.Getenv("LOG_LEVEL")
	if logLevel == "" {
		logLevel = "info"
	}
	logger.Init(logLevel, os.Getenv("LOG_PRETTY") == "true")
}
