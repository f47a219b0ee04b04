package lang

import (
	"context"
	"log/slog"
	"strconv"
	"sync"

	"github.com/zeebo/xxh3"
)

// MaxCachedPrograms bounds the number of programs held by the parse cache.
// The oldest entry is evicted first.
const MaxCachedPrograms = 256

// programCache stores parsed programs keyed by the base-36 xxh3 hash of
// their source text.
var programCache = cache{entries: make(map[string]*state)}

// cache is a fixed-capacity map evicting in insertion order.
type cache struct {
	mu      sync.Mutex
	entries map[string]*state
	order   []string
}

// loadOrStore returns the entry for key, adding a new one if absent.
func (c *cache) loadOrStore(key string) (entry *state, hit bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if entry, ok := c.entries[key]; ok {
		return entry, true
	}

	if len(c.order) >= MaxCachedPrograms {
		delete(c.entries, c.order[0])
		c.order = c.order[1:]
	}

	entry = new(state)
	c.entries[key] = entry
	c.order = append(c.order, key)

	return entry, false
}

func (c *cache) size() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return len(c.entries)
}

func (c *cache) reset() {
	c.mu.Lock()
	defer c.mu.Unlock()

	clear(c.entries)
	c.order = nil
}

// state tracks the one-time parse of a single source.
type state struct {
	once sync.Once
	prog *Program
	err  error
}

// parseStringCached parses source at most once per distinct text.
// Concurrent callers with the same source wait for the first parse.
func parseStringCached(
	ctx context.Context,
	source string,
	cfg parseConfig,
) (*Program, error) {
	hash := xxh3.HashString(source)
	key := strconv.FormatUint(hash, 36)

	entry, hit := programCache.loadOrStore(key)

	cfg.logger.TraceContext(
		ctx,
		"cache lookup",
		slog.String("source_hash", strconv.FormatUint(hash, 16)),
		slog.Bool("cache_hit", hit),
	)

	entry.once.Do(func() {
		entry.prog, entry.err = parse(ctx, source, cfg)
	})

	return entry.prog, entry.err
}

// ClearCache removes all cached programs.
// This is primarily useful for testing or when memory needs to be reclaimed.
func ClearCache() {
	programCache.reset()
}
