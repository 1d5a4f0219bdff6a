package app

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/guttosm/fipe-service/config"
	"github.com/guttosm/fipe-service/internal/service"
)

const adminSeedTimeout = 5 * time.Second

// ensureAdmin seeds the administrator account. A failure is logged and
// startup continues.
func ensureAdmin(ctx context.Context, auth service.AuthService, cfg config.AuthConfig) {
	if cfg.AdminEmail == "" || cfg.AdminPassword == "" {
		log.Warn().Msg("ADMIN_EMAIL or ADMIN_PASSWORD empty - skipping admin seed")
		return
	}

	ctx, cancel := context.WithTimeout(ctx, adminSeedTimeout)
	defer cancel()

	if err := auth.EnsureAdmin(ctx, cfg.AdminName, cfg.AdminEmail, cfg.AdminPassword); err != nil {
		log.Warn().Err(err).Str("email", cfg.AdminEmail).Msg("Failed to ensure admin user")
		return
	}
	log.Info().Str("email", cfg.AdminEmail).Msg("Admin user ready")
}
