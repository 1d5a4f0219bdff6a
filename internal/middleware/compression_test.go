//go:build !integration

package middleware

import (
	"compress/gzip"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompression(t *testing.T) {
	payload := strings.Repeat("Palio Weekend 1.6 ", 200)

	tests := []struct {
		name           string
		path           string
		acceptEncoding string
		wantGzip       bool
	}{
		{name: "gzip accepted", path: "/api/fipe/tabelas", acceptEncoding: "gzip", wantGzip: true},
		{name: "gzip not accepted", path: "/api/fipe/tabelas"},
		{name: "file downloads excluded", path: "/api/upload/download/file.txt", acceptEncoding: "gzip"},
		{name: "inline files excluded", path: "/api/upload/files/file.txt", acceptEncoding: "gzip"},
		{name: "metrics excluded", path: "/metrics", acceptEncoding: "gzip"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gin.SetMode(gin.TestMode)
			router := gin.New()
			router.Use(Compression())
			router.NoRoute(func(c *gin.Context) { c.String(http.StatusOK, payload) })

			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if tt.acceptEncoding != "" {
				req.Header.Set("Accept-Encoding", tt.acceptEncoding)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			if !tt.wantGzip {
				assert.Empty(t, w.Header().Get("Content-Encoding"))
				assert.Equal(t, payload, w.Body.String())
				return
			}

			assert.Equal(t, "gzip", w.Header().Get("Content-Encoding"))
			reader, err := gzip.NewReader(w.Body)
			require.NoError(t, err)
			body, err := io.ReadAll(reader)
			require.NoError(t, err)
			assert.Equal(t, payload, string(body))
		})
	}
}
