package purefn

import (
	ristretto "github.com/dgraph-io/ristretto/v2"
	"github.com/on-the-ground/toolkit_go/pure"
	"github.com/on-the-ground/toolkit_go/shared/log"
	"go.uber.org/zap"
)

type Config struct {
	// NumCounters is the number of keys to track frequency of.
	NumCounters int64
	// MaxCost is the maximum number of cached entries; every entry costs 1.
	MaxCost int64
	// BufferItems is the number of keys per Get buffer.
	BufferItems int64
	Logger      *zap.Logger
}

func (c Config) withDefaults() Config {
	if c.NumCounters <= 0 {
		c.NumCounters = 1e5
	}
	if c.MaxCost <= 0 {
		c.MaxCost = 1e4
	}
	if c.BufferItems <= 0 {
		c.BufferItems = 64
	}
	return c
}

// Cache maps canonical keys to previously computed results.
type Cache struct {
	cache  *ristretto.Cache[string, any]
	logger *zap.Logger
}

func NewCache(cfg Config) (*Cache, error) {
	cfg = cfg.withDefaults()
	cache, err := ristretto.NewCache(&ristretto.Config[string, any]{
		NumCounters:        cfg.NumCounters,
		MaxCost:            cfg.MaxCost,
		BufferItems:        cfg.BufferItems,
		IgnoreInternalCost: true,
		Metrics:            true,
	})
	if err != nil {
		return nil, err
	}
	return &Cache{cache: cache, logger: log.OrNop(cfg.Logger)}, nil
}

func (c *Cache) Get(key pure.Key) (any, bool) {
	return c.cache.Get(string(key))
}

// Set stores value under key. Writes are buffered; call Wait to make them
// visible to Get immediately.
func (c *Cache) Set(key pure.Key, value any) bool {
	return c.cache.Set(string(key), value, 1)
}

func (c *Cache) Del(key pure.Key) {
	c.cache.Del(string(key))
}

func (c *Cache) Wait() {
	c.cache.Wait()
}

func (c *Cache) Clear() {
	c.cache.Clear()
}

func (c *Cache) Close() {
	c.cache.Close()
}

// Stats reports the hit and miss counters.
func (c *Cache) Stats() (hits, misses uint64) {
	return c.cache.Metrics.Hits(), c.cache.Metrics.Misses()
}
