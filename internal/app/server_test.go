//go:build !integration

package app

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/guttosm/fipe-service/config"
)

var okHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
})

func TestNewServer(t *testing.T) {
	tests := []struct {
		name         string
		cfg          config.ServerConfig
		wantAddr     string
		wantDeadline time.Duration
	}{
		{
			name:         "write timeout follows request timeout",
			cfg:          config.ServerConfig{Port: "8080", RequestTimeout: 60 * time.Second},
			wantAddr:     ":8080",
			wantDeadline: 65 * time.Second,
		},
		{
			name:         "default write timeout",
			cfg:          config.ServerConfig{Port: "9090"},
			wantAddr:     ":9090",
			wantDeadline: defaultWriteTimeout,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := NewServer(okHandler, tt.cfg)

			assert.Equal(t, tt.wantAddr, server.httpServer.Addr)
			assert.Equal(t, tt.wantDeadline, server.httpServer.WriteTimeout)
			assert.Equal(t, 5*time.Second, server.httpServer.ReadHeaderTimeout)
			assert.Equal(t, 10*time.Second, server.shutdownTimeout)
		})
	}
}

func TestServer_RunStopsWhenContextDone(t *testing.T) {
	server := NewServer(okHandler, config.ServerConfig{Port: "0"})

	ctx, cancel := context.WithCancel(context.Background())
	errChan := make(chan error, 1)
	go func() {
		errChan <- server.Run(ctx)
	}()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-errChan:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		require.Fail(t, "server did not shut down")
	}
}

func TestServer_RunReportsListenError(t *testing.T) {
	server := NewServer(okHandler, config.ServerConfig{Port: "invalid-port"})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	assert.Error(t, server.Run(ctx))
}
