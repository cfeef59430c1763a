package redis

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"

	"github.com/pagesmith/pagesmith-backend/internal/logger"
	"github.com/pagesmith/pagesmith-backend/internal/utils"
)

// TreeCache caches the rendered revision tree per page. Tree building is a
// pure recomputation over already-fetched rows, so the cache is strictly an
// optimization: every caller must work identically with a nil TreeCache.
type TreeCache interface {
	Get(ctx context.Context, pageID uuid.UUID) ([]byte, bool)
	Set(ctx context.Context, pageID uuid.UUID, payload []byte)
	Invalidate(ctx context.Context, pageID uuid.UUID)
	Close() error
}

type treeCache struct {
	log *logger.Logger
	rdb *goredis.Client
	ttl time.Duration
}

func NewTreeCache(log *logger.Logger) (TreeCache, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}

	addr := strings.TrimSpace(os.Getenv("REDIS_ADDR"))
	if addr == "" {
		return nil, fmt.Errorf("missing REDIS_ADDR")
	}

	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		DialTimeout: 5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	ttlMinutes := utils.GetEnvAsInt("REDIS_TREE_CACHE_TTL_MINUTES", 5, log)
	if ttlMinutes < 1 {
		ttlMinutes = 5
	}

	return &treeCache{
		log: log.With("service", "RedisTreeCache"),
		rdb: rdb,
		ttl: time.Duration(ttlMinutes) * time.Minute,
	}, nil
}

func treeKey(pageID uuid.UUID) string {
	return "pagesmith:revtree:" + pageID.String()
}

func (c *treeCache) Get(ctx context.Context, pageID uuid.UUID) ([]byte, bool) {
	if c == nil || c.rdb == nil {
		return nil, false
	}
	raw, err := c.rdb.Get(ctx, treeKey(pageID)).Bytes()
	if err != nil {
		if err != goredis.Nil {
			c.log.Warn("tree cache get failed", "error", err, "page_id", pageID)
		}
		return nil, false
	}
	return raw, true
}

func (c *treeCache) Set(ctx context.Context, pageID uuid.UUID, payload []byte) {
	if c == nil || c.rdb == nil {
		return
	}
	if err := c.rdb.Set(ctx, treeKey(pageID), payload, c.ttl).Err(); err != nil {
		c.log.Warn("tree cache set failed", "error", err, "page_id", pageID)
	}
}

func (c *treeCache) Invalidate(ctx context.Context, pageID uuid.UUID) {
	if c == nil || c.rdb == nil {
		return
	}
	if err := c.rdb.Del(ctx, treeKey(pageID)).Err(); err != nil {
		c.log.Warn("tree cache invalidate failed", "error", err, "page_id", pageID)
	}
}

func (c *treeCache) Close() error {
	if c == nil || c.rdb == nil {
		return nil
	}
	return c.rdb.Close()
}
