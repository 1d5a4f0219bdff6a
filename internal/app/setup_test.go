package app

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/guttosm/fipe-service/config"
	"github.com/guttosm/fipe-service/internal/fipe"
)

const (
	testAdminEmail    = "admin@fipe.test"
	testAdminPassword = "Admin123"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// newUpstream serves a minimal pricing API.
func newUpstream(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/tabelas/v1", func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode([]fipe.ReferenceTable{{Codigo: 308, Mes: "março/2024"}})
	})
	mux.HandleFunc("/preco/v1/", func(w http.ResponseWriter, r *http.Request) {
		code := strings.TrimPrefix(r.URL.Path, "/preco/v1/")
		_ = json.NewEncoder(w).Encode([]fipe.PriceRecord{{
			Valor:       "R$ 26.000,00",
			Marca:       "Fiat",
			Modelo:      "Palio 1.0",
			AnoModelo:   2014,
			Combustivel: "Gasolina",
			CodigoFipe:  code,
		}})
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

// testConfig returns an in-memory configuration talking to upstreamURL.
func testConfig(t *testing.T, upstreamURL string) config.Config {
	t.Helper()
	return config.Config{
		Server: config.ServerConfig{
			Port:           "0",
			Env:            "test",
			RateWindow:     time.Minute,
			RequestTimeout: 5 * time.Second,
		},
		Fipe: config.FipeConfig{
			BaseURL:                        upstreamURL,
			Timeout:                        2 * time.Second,
			MaxRetries:                     1,
			SearchConcurrency:              2,
			MaxSearchResults:               10,
			UserAgent:                      "fipe-service-test",
			CircuitBreakerFailureThreshold: 5,
			CircuitBreakerSuccessThreshold: 1,
			CircuitBreakerTimeout:          time.Second,
		},
		Cache: config.CacheConfig{
			Size:       100,
			Shards:     4,
			CatalogTTL: time.Minute,
			PriceTTL:   time.Minute,
		},
		Auth: config.AuthConfig{
			JWTSecretKey:     "test-secret",
			JWTRefreshSecret: "test-refresh-secret",
			AccessTokenTTL:   time.Hour,
			RefreshTokenTTL:  24 * time.Hour,
			AdminEmail:       testAdminEmail,
			AdminPassword:    testAdminPassword,
			AdminName:        "Admin",
		},
		App: config.AppConfig{
			MaxFavorites:    10,
			MaxHistoryItems: 100,
			MaxComparisons:  3,
			PageSize:        20,
			MaxPageSize:     100,
		},
		Upload: config.UploadConfig{
			Dir:      t.TempDir(),
			MaxSize:  1 << 20,
			MaxFiles: 2,
		},
	}
}

func serve(router http.Handler, method, path, body, token string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

// login returns an access token for the given credentials.
func login(t *testing.T, router http.Handler, email, password string) string {
	t.Helper()
	w := serve(router, http.MethodPost, "/api/auth/login", `{"email":"`+email+`","password":"`+password+`"}`, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		Data struct {
			Token string `json:"token"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Data.Token)
	return resp.Data.Token
}
