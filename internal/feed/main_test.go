package feed

import (
	"fmt"
	"log"
	"os"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"

	"github.com/yatube/yatube/internal/cache"
	"github.com/yatube/yatube/internal/db"
	"github.com/yatube/yatube/pkg/config"
)

var testDB *db.DB

func TestMain(m *testing.M) {
	url := os.Getenv("YATUBE_TEST_DATABASE_URL")
	if url == "" {
		log.Printf("Feed tests skipped: set YATUBE_TEST_DATABASE_URL to run against Postgres")
		os.Exit(0)
	}

	var err error
	testDB, err = db.New(&config.DatabaseConfig{URL: url}, "ERROR")
	if err != nil {
		log.Printf("Feed tests skipped: test database unavailable: %v", err)
		os.Exit(0)
	}

	if err := testDB.Migrate(); err != nil {
		log.Printf("Feed tests skipped: migration failed: %v", err)
		os.Exit(0)
	}

	code := m.Run()

	testDB.Close()
	os.Exit(code)
}

var nameSeq int64

func uniqueName(prefix string) string {
	return fmt.Sprintf("%s_%d_%d", prefix, time.Now().UnixNano(), atomic.AddInt64(&nameSeq, 1))
}

// testBuilder builds uncached pages so assertions see writes immediately
func testBuilder(pageSize int) *Builder {
	return NewBuilder(testDB, nil, &config.FeedConfig{
		PostsPerPage:  pageSize,
		IndexCacheTTL: 20 * time.Second,
	})
}

// cachedBuilder backs the builder with an in-process redis so snapshot
// behavior is observable
func cachedBuilder(t *testing.T, pageSize int, ttl time.Duration) (*Builder, *cache.Cache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	redisCache, err := cache.New(&config.RedisConfig{
		URL:     "redis://" + mr.Addr(),
		Enabled: true,
	})
	if err != nil {
		t.Fatalf("failed to connect to test redis: %v", err)
	}
	builder := NewBuilder(testDB, redisCache, &config.FeedConfig{
		PostsPerPage:  pageSize,
		IndexCacheTTL: ttl,
	})
	return builder, redisCache, mr
}
