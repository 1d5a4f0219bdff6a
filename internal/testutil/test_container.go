//go:build integration

package testutil

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"
	"testing"
	"time"
)

var (
	sharedMongo     *MongoDBContainer
	sharedMongoErr  error
	sharedMongoOnce sync.Once
	sharedMongoMu   sync.RWMutex
)

// GetSharedMongoDB returns the MongoDB container shared by every test of a
// package, starting it on first use.
func GetSharedMongoDB(ctx context.Context) (*MongoDBContainer, error) {
	sharedMongoOnce.Do(func() {
		sharedMongoMu.Lock()
		defer sharedMongoMu.Unlock()
		sharedMongo, sharedMongoErr = SetupMongoDB(ctx)
	})

	sharedMongoMu.RLock()
	defer sharedMongoMu.RUnlock()
	if sharedMongoErr != nil {
		return nil, sharedMongoErr
	}
	return sharedMongo, nil
}

// CleanupSharedMongoDB terminates the shared MongoDB container.
func CleanupSharedMongoDB(ctx context.Context) error {
	sharedMongoMu.Lock()
	defer sharedMongoMu.Unlock()
	if sharedMongo != nil {
		return sharedMongo.Cleanup(ctx)
	}
	return nil
}

// SetupTestMainWithMongoDB runs m against a shared MongoDB container:
//
//	func TestMain(m *testing.M) {
//		os.Exit(testutil.SetupTestMainWithMongoDB(context.Background(), m))
//	}
func SetupTestMainWithMongoDB(ctx context.Context, m *testing.M) int {
	if _, err := GetSharedMongoDB(ctx); err != nil {
		panic(err)
	}

	code := m.Run()

	if err := CleanupSharedMongoDB(ctx); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "warning: cleanup shared mongodb container: %v\n", err)
	}
	return code
}

// GetSharedContainerURI returns the URI of the shared MongoDB container.
func GetSharedContainerURI() string {
	sharedMongoMu.RLock()
	defer sharedMongoMu.RUnlock()
	if sharedMongo == nil {
		panic("shared mongodb container not initialized, call GetSharedMongoDB first")
	}
	return sharedMongo.URI
}

// SanitizeDBName turns a test name into a unique, valid MongoDB database name.
func SanitizeDBName(testName string) string {
	sanitized := strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', '.', ' ', '"', '$':
			return '_'
		}
		return r
	}, testName)
	if len(sanitized) > 50 {
		sanitized = sanitized[:50]
	}
	return fmt.Sprintf("%s_%d", sanitized, time.Now().UnixNano()%1000000)
}
