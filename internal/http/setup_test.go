package http

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/guttosm/fipe-service/internal/domain/dto"
	"github.com/guttosm/fipe-service/internal/domain/model"
	"github.com/guttosm/fipe-service/internal/fipe"
	"github.com/guttosm/fipe-service/internal/mocks"
	"github.com/guttosm/fipe-service/internal/service"
	"github.com/guttosm/fipe-service/internal/service/cache"
)

const (
	userToken  = "user-token"
	otherToken = "other-token"
	adminToken = "admin-token"
)

var (
	testUserID  = primitive.NewObjectID()
	otherUserID = primitive.NewObjectID()
	testAdminID = primitive.NewObjectID()
)

func init() {
	gin.SetMode(gin.TestMode)
}

// newAuthMock returns an auth service accepting userToken, otherToken and adminToken.
func newAuthMock() *mocks.MockAuthService {
	auth := new(mocks.MockAuthService)
	auth.On("ValidateToken", mock.Anything, userToken).Return(&dto.Claims{
		UserID: testUserID, Email: "user@example.com", Name: "User", Role: model.RoleUser,
	}, nil).Maybe()
	auth.On("ValidateToken", mock.Anything, otherToken).Return(&dto.Claims{
		UserID: otherUserID, Email: "other@example.com", Name: "Other", Role: model.RoleUser,
	}, nil).Maybe()
	auth.On("ValidateToken", mock.Anything, adminToken).Return(&dto.Claims{
		UserID: testAdminID, Email: "admin@example.com", Name: "Admin", Role: model.RoleAdmin,
	}, nil).Maybe()
	auth.On("ValidateToken", mock.Anything, mock.Anything).Return(nil, service.ErrInvalidToken).Maybe()
	return auth
}

// newLookupService builds a real lookup pipeline over a mocked upstream.
func newLookupService(t *testing.T, upstream fipe.UpstreamClient) *fipe.Service {
	t.Helper()
	c := cache.NewShardedCache(100, 4, cache.WithSweepInterval(0))
	t.Cleanup(c.Stop)
	enricher := &fipe.Enricher{Now: func() time.Time {
		return time.Date(2024, time.March, 9, 12, 0, 0, 0, time.UTC)
	}}
	return fipe.NewService(upstream, c, enricher, fipe.Config{
		CatalogTTL:        time.Hour,
		PriceTTL:          30 * time.Minute,
		SearchConcurrency: 4,
		MaxSearchResults:  100,
	})
}

// newTestRouter builds the full router without rate limiting.
func newTestRouter(t *testing.T, cfg RouterConfig) *gin.Engine {
	t.Helper()
	if cfg.RateWindow == 0 {
		cfg.RateWindow = time.Minute
	}
	router, stop := NewRouter(NewHealthHandler(), cfg)
	t.Cleanup(stop)
	return router
}

type request struct {
	method  string
	path    string
	body    string
	token   string
	headers map[string]string
}

func (r request) do(t *testing.T, router http.Handler) *httptest.ResponseRecorder {
	t.Helper()
	var body io.Reader
	if r.body != "" {
		body = bytes.NewBufferString(r.body)
	}
	req := httptest.NewRequest(r.method, r.path, body)
	if r.body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if r.token != "" {
		req.Header.Set("Authorization", "Bearer "+r.token)
	}
	for k, v := range r.headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

// envelope is the decoded form of dto.SuccessResponse with raw data.
type envelope struct {
	Success   bool            `json:"success"`
	Data      json.RawMessage `json:"data"`
	Cached    *bool           `json:"cached"`
	Message   string          `json:"message"`
	Meta      json.RawMessage `json:"meta"`
	RequestID string          `json:"request_id"`
}

func decodeSuccess(t *testing.T, w *httptest.ResponseRecorder, data any) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	require.True(t, env.Success, w.Body.String())
	if data != nil {
		require.NoError(t, json.Unmarshal(env.Data, data))
	}
	return env
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) dto.ErrorResponse {
	t.Helper()
	var resp dto.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp), w.Body.String())
	require.False(t, resp.Success)
	return resp
}
