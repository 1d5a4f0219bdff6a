package middleware

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/guttosm/fipe-service/internal/service/cache"
)

const (
	// IdempotencyKeyHeader is the header a client sets to make a mutation replayable.
	IdempotencyKeyHeader = "Idempotency-Key"
	// IdempotencyReplayedHeader marks a response served from the idempotency cache.
	IdempotencyReplayedHeader = "X-Idempotency-Replayed"
	// IdempotencyKeyTTL is how long a stored response is replayed.
	IdempotencyKeyTTL = 5 * time.Minute

	maxIdempotencyBody = 1 << 20
)

type cachedResponse struct {
	StatusCode  int
	ContentType string
	Body        []byte
}

// IdempotencyConfig configures the Idempotency middleware.
type IdempotencyConfig struct {
	Cache cache.Cache
	TTL   time.Duration
}

// NewIdempotencyCache creates the response store used by Idempotency.
func NewIdempotencyCache(capacity int) *cache.ShardedCache {
	return cache.NewShardedCache(capacity, defaultNumShards, cache.WithName("idempotency"))
}

// Idempotency replays the stored 2xx response of a POST, PUT or PATCH sent
// again with the same Idempotency-Key, method, path, user and body.
func Idempotency(cfg IdempotencyConfig) gin.HandlerFunc {
	if cfg.Cache == nil {
		return func(c *gin.Context) { c.Next() }
	}
	if cfg.TTL <= 0 {
		cfg.TTL = IdempotencyKeyTTL
	}

	return func(c *gin.Context) {
		switch c.Request.Method {
		case http.MethodPost, http.MethodPut, http.MethodPatch:
		default:
			c.Next()
			return
		}

		key := c.GetHeader(IdempotencyKeyHeader)
		if key == "" {
			c.Next()
			return
		}

		cacheKey, ok := idempotencyCacheKey(c, key)
		if !ok {
			c.Next()
			return
		}

		if v, found := cfg.Cache.Get(cacheKey); found {
			if resp, ok := v.(*cachedResponse); ok {
				c.Header(IdempotencyReplayedHeader, "true")
				c.Data(resp.StatusCode, resp.ContentType, resp.Body)
				c.Abort()
				return
			}
		}

		writer := &capturingWriter{ResponseWriter: c.Writer, body: &bytes.Buffer{}}
		c.Writer = writer

		c.Next()

		status := writer.Status()
		if status >= 200 && status < 300 {
			cfg.Cache.Set(cacheKey, &cachedResponse{
				StatusCode:  status,
				ContentType: writer.Header().Get("Content-Type"),
				Body:        writer.body.Bytes(),
			}, cfg.TTL)
		}
	}
}

// idempotencyCacheKey hashes the request identity. Multipart uploads and
// bodies above maxIdempotencyBody are not replayable.
func idempotencyCacheKey(c *gin.Context, key string) (string, bool) {
	if c.Request.ContentLength > maxIdempotencyBody {
		return "", false
	}
	if ct := c.ContentType(); ct == gin.MIMEMultipartPOSTForm {
		return "", false
	}

	hasher := sha256.New()
	hasher.Write([]byte(key))
	hasher.Write([]byte{0})
	hasher.Write([]byte(c.Request.Method))
	hasher.Write([]byte(c.Request.URL.Path))
	if id, ok := GetUserID(c); ok {
		hasher.Write([]byte(id.Hex()))
	}

	if c.Request.Body != nil {
		body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxIdempotencyBody+1))
		if err != nil || len(body) > maxIdempotencyBody {
			return "", false
		}
		c.Request.Body = io.NopCloser(bytes.NewReader(body))
		hasher.Write(body)
	}

	return "idem:" + hex.EncodeToString(hasher.Sum(nil)), true
}

type capturingWriter struct {
	gin.ResponseWriter
	body *bytes.Buffer
}

func (w *capturingWriter) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

func (w *capturingWriter) WriteString(s string) (int, error) {
	w.body.WriteString(s)
	return w.ResponseWriter.WriteString(s)
}
