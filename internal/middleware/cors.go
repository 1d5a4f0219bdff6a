package middleware

import (
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// CORS returns a middleware allowing the configured browser origins.
// An origin of "*", or no usable origin at all, allows every origin without credentials.
func CORS(origins []string) gin.HandlerFunc {
	cfg := cors.Config{
		AllowMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders: []string{
			"Origin", "Content-Type", "Content-Length", "Accept", "Accept-Encoding", "Accept-Language",
			"Authorization", "X-Requested-With", "X-API-Key", "X-Refresh-Token", "Idempotency-Key", RequestIDHeader,
		},
		ExposeHeaders: []string{RequestIDHeader, "Content-Disposition", "X-RateLimit-Limit", "X-RateLimit-Remaining"},
		MaxAge:        24 * time.Hour,
	}

	allowed := make([]string, 0, len(origins))
	for _, o := range origins {
		if o == "*" {
			cfg.AllowAllOrigins = true
			return cors.New(cfg)
		}
		if strings.HasPrefix(o, "http://") || strings.HasPrefix(o, "https://") {
			allowed = append(allowed, strings.TrimSuffix(o, "/"))
		}
	}
	if len(allowed) == 0 {
		cfg.AllowAllOrigins = true
		return cors.New(cfg)
	}
	cfg.AllowOrigins = allowed
	cfg.AllowCredentials = true
	return cors.New(cfg)
}
