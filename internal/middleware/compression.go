package middleware

import (
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
)

// Compression returns a middleware that gzips responses for clients accepting it.
// File downloads and metrics are served uncompressed.
func Compression() gin.HandlerFunc {
	return gzip.Gzip(gzip.DefaultCompression,
		gzip.WithExcludedPathsRegexs([]string{`^/api/upload/(files|download)/`}),
		gzip.WithExcludedPaths([]string{"/metrics"}),
	)
}
