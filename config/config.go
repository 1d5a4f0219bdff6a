// Package config provides configuration management for the FIPE service.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds the complete application configuration.
type Config struct {
	Server   ServerConfig
	Fipe     FipeConfig
	Cache    CacheConfig
	Auth     AuthConfig
	Database DatabaseConfig
	Redis    RedisConfig
	App      AppConfig
	Upload   UploadConfig
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port           string
	Env            string
	RateLimit      int
	RateWindow     time.Duration
	RequestTimeout time.Duration
	CORSOrigins    []string
	SwaggerUser    string
	SwaggerPass    string
}

// IsProduction reports whether diagnostic details must be hidden from clients.
func (s ServerConfig) IsProduction() bool {
	return strings.EqualFold(s.Env, "production")
}

// FipeConfig holds the upstream pricing service configuration.
type FipeConfig struct {
	BaseURL           string
	Timeout           time.Duration
	MaxRetries        int
	RetryBackoff      time.Duration
	SearchConcurrency int
	MaxSearchResults  int
	UserAgent         string

	CircuitBreakerFailureThreshold int
	CircuitBreakerSuccessThreshold int
	CircuitBreakerTimeout          time.Duration
}

// CacheConfig holds lookup cache configuration.
type CacheConfig struct {
	Size       int
	Shards     int
	CatalogTTL time.Duration
	PriceTTL   time.Duration
}

// AuthConfig holds authentication configuration.
type AuthConfig struct {
	APIKeys          map[string]bool
	JWTSecretKey     string
	JWTRefreshSecret string
	AccessTokenTTL   time.Duration
	RefreshTokenTTL  time.Duration
	AdminEmail       string
	AdminPassword    string
	AdminName        string
}

// DatabaseConfig holds MongoDB configuration.
type DatabaseConfig struct {
	URI          string
	DatabaseName string
	LogsTTL      time.Duration
	Enabled      bool
	// CircuitBreaker configuration
	CircuitBreakerFailureThreshold int
	CircuitBreakerSuccessThreshold int
	CircuitBreakerTimeout          time.Duration
}

// RedisConfig holds the token store configuration.
type RedisConfig struct {
	Enabled  bool
	Addr     string
	Password string
	DB       int
}

// AppConfig holds per-user limits of the favorites and history features.
type AppConfig struct {
	MaxFavorites    int
	MaxHistoryItems int
	MaxComparisons  int
	PageSize        int
	MaxPageSize     int
}

// UploadConfig holds file upload configuration.
type UploadConfig struct {
	Dir      string
	MaxSize  int64
	MaxFiles int
}

const (
	defaultJWTSecret        = "your-secret-key-change-in-production"
	defaultJWTRefreshSecret = "your-refresh-secret-key-change-in-production"
)

// Validate rejects settings the service cannot run with. Production additionally
// requires real JWT secrets.
func (c Config) Validate() error {
	var errs []error
	if c.Server.IsProduction() {
		if c.Auth.JWTSecretKey == defaultJWTSecret || c.Auth.JWTRefreshSecret == defaultJWTRefreshSecret {
			errs = append(errs, errors.New("JWT_SECRET_KEY and JWT_REFRESH_SECRET_KEY must be set in production"))
		}
	}
	if c.Auth.JWTSecretKey == c.Auth.JWTRefreshSecret {
		errs = append(errs, errors.New("access and refresh token secrets must differ"))
	}
	if c.Auth.RefreshTokenTTL <= c.Auth.AccessTokenTTL {
		errs = append(errs, fmt.Errorf("JWT_REFRESH_TOKEN_TTL (%s) must exceed JWT_ACCESS_TOKEN_TTL (%s)",
			c.Auth.RefreshTokenTTL, c.Auth.AccessTokenTTL))
	}
	if c.Cache.Size <= 0 || c.Cache.Shards <= 0 {
		errs = append(errs, errors.New("CACHE_SIZE and CACHE_SHARDS must be positive"))
	}
	if c.Fipe.Timeout <= 0 {
		errs = append(errs, errors.New("FIPE_REQUEST_TIMEOUT must be positive"))
	}
	if c.Upload.MaxSize <= 0 || c.Upload.MaxFiles <= 0 {
		errs = append(errs, errors.New("UPLOAD_MAX_SIZE and UPLOAD_MAX_FILES must be positive"))
	}
	return errors.Join(errs...)
}

// Load creates a Config from environment variables.
func Load() Config {
	return Config{
		Server: ServerConfig{
			Port:           getEnv("PORT", "8080"),
			Env:            getEnv("APP_ENV", "development"),
			RateLimit:      getEnvInt("RATE_LIMIT", 100),
			RateWindow:     getEnvDuration("RATE_WINDOW", 15*time.Minute),
			RequestTimeout: getEnvDuration("REQUEST_TIMEOUT", 60*time.Second),
			CORSOrigins:    parseCORSOrigins(os.Getenv("CORS_ORIGINS")),
			SwaggerUser:    getEnv("SWAGGER_USER", ""),
			SwaggerPass:    getEnv("SWAGGER_PASS", ""),
		},
		Fipe: FipeConfig{
			BaseURL:                        getEnv("FIPE_BASE_URL", "https://brasilapi.com.br/api/fipe"),
			Timeout:                        getEnvDuration("FIPE_REQUEST_TIMEOUT", 10*time.Second),
			MaxRetries:                     getEnvInt("FIPE_MAX_RETRIES", 3),
			RetryBackoff:                   getEnvDuration("FIPE_RETRY_BACKOFF", 500*time.Millisecond),
			SearchConcurrency:              getEnvInt("FIPE_SEARCH_CONCURRENCY", 8),
			MaxSearchResults:               getEnvInt("FIPE_MAX_SEARCH_RESULTS", 100),
			UserAgent:                      getEnv("FIPE_USER_AGENT", "fipe-service/1.0"),
			CircuitBreakerFailureThreshold: getEnvInt("FIPE_CIRCUIT_BREAKER_FAILURE_THRESHOLD", 5),
			CircuitBreakerSuccessThreshold: getEnvInt("FIPE_CIRCUIT_BREAKER_SUCCESS_THRESHOLD", 2),
			CircuitBreakerTimeout:          getEnvDuration("FIPE_CIRCUIT_BREAKER_TIMEOUT", 30*time.Second),
		},
		Cache: CacheConfig{
			Size:       getEnvInt("CACHE_SIZE", 1000),
			Shards:     getEnvInt("CACHE_SHARDS", 16),
			CatalogTTL: getEnvDuration("CACHE_CATALOG_TTL", time.Hour),
			PriceTTL:   getEnvDuration("CACHE_PRICE_TTL", 30*time.Minute),
		},
		Auth: AuthConfig{
			APIKeys:          parseAPIKeys(os.Getenv("API_KEYS")),
			JWTSecretKey:     getEnv("JWT_SECRET_KEY", defaultJWTSecret),
			JWTRefreshSecret: getEnv("JWT_REFRESH_SECRET_KEY", defaultJWTRefreshSecret),
			AccessTokenTTL:   getEnvDuration("JWT_ACCESS_TOKEN_TTL", 24*time.Hour),
			RefreshTokenTTL:  getEnvDuration("JWT_REFRESH_TOKEN_TTL", 7*24*time.Hour),
			AdminEmail:       getEnv("ADMIN_EMAIL", "admin@example.com"),
			AdminPassword:    getEnv("ADMIN_PASSWORD", "Admin123"),
			AdminName:        getEnv("ADMIN_NAME", "Administrator"),
		},
		Database: DatabaseConfig{
			URI:                            getEnv("MONGODB_URI", "mongodb://localhost:27017"),
			DatabaseName:                   getEnv("MONGODB_DATABASE", "fipe_service"),
			LogsTTL:                        getEnvDuration("MONGODB_LOGS_TTL", 30*24*time.Hour),
			Enabled:                        getEnvBool("MONGODB_ENABLED", false),
			CircuitBreakerFailureThreshold: getEnvInt("CIRCUIT_BREAKER_FAILURE_THRESHOLD", 5),
			CircuitBreakerSuccessThreshold: getEnvInt("CIRCUIT_BREAKER_SUCCESS_THRESHOLD", 2),
			CircuitBreakerTimeout:          getEnvDuration("CIRCUIT_BREAKER_TIMEOUT", 30*time.Second),
		},
		Redis: RedisConfig{
			Enabled:  getEnvBool("REDIS_ENABLED", false),
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
		},
		App: AppConfig{
			MaxFavorites:    getEnvInt("MAX_FAVORITES", 100),
			MaxHistoryItems: getEnvInt("MAX_HISTORY_ITEMS", 1000),
			MaxComparisons:  getEnvInt("MAX_COMPARISONS", 5),
			PageSize:        getEnvInt("PAGE_SIZE", 20),
			MaxPageSize:     getEnvInt("MAX_PAGE_SIZE", 100),
		},
		Upload: UploadConfig{
			Dir:      getEnv("UPLOAD_DIR", "uploads"),
			MaxSize:  int64(getEnvInt("UPLOAD_MAX_SIZE", 5*1024*1024)),
			MaxFiles: getEnvInt("UPLOAD_MAX_FILES", 5),
		},
	}
}

func getEnv(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return defaultValue
}

func parseAPIKeys(s string) map[string]bool {
	if s == "" {
		return nil
	}
	keys := strings.Split(s, ",")
	result := make(map[string]bool, len(keys))
	for _, k := range keys {
		if k = strings.TrimSpace(k); k != "" {
			result[k] = true
		}
	}
	return result
}

func parseCORSOrigins(s string) []string {
	// Default origins for local development
	defaults := []string{
		"http://localhost:3000",
		"http://127.0.0.1:3000",
	}
	if s == "" {
		return defaults
	}
	parts := strings.Split(s, ",")
	result := make([]string, 0, len(parts)+len(defaults))
	result = append(result, defaults...)
	for _, p := range parts {
		if origin := strings.TrimSpace(p); origin != "" {
			result = append(result, origin)
		}
	}
	return result
}
