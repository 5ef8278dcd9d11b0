package nasa

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/couchcryptid/impact-sim-service/internal/domain"
	"github.com/couchcryptid/impact-sim-service/internal/observability"
)

// Cache stores encoded NeoWs responses. Get reports a miss with ok=false and
// a nil error.
type Cache interface {
	Get(ctx context.Context, key string) (value []byte, ok bool, err error)
	Put(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// FeedKey names the cache entry for a feed window.
func FeedKey(start, end time.Time) string {
	return fmt.Sprintf("feed_%s_%s", start.Format(DateLayout), end.Format(DateLayout))
}

// LookupKey names the cache entry for a single object.
func LookupKey(id string) string {
	return "asteroid_" + id
}

// CachedSource wraps a NEOSource with a response cache. Cache failures are
// logged and fall through to the wrapped source.
type CachedSource struct {
	inner   domain.NEOSource
	cache   Cache
	ttl     time.Duration
	metrics *observability.Metrics
	logger  *slog.Logger
}

// NewCachedSource creates a cache decorator around a NEO source.
func NewCachedSource(inner domain.NEOSource, cache Cache, ttl time.Duration, metrics *observability.Metrics, logger *slog.Logger) *CachedSource {
	return &CachedSource{
		inner:   inner,
		cache:   cache,
		ttl:     ttl,
		metrics: metrics,
		logger:  logger,
	}
}

func (c *CachedSource) Feed(ctx context.Context, start, end time.Time) ([]domain.NearEarthObject, error) {
	key := FeedKey(start, end)
	var neos []domain.NearEarthObject
	if c.lookupCache(ctx, methodFeed, key, &neos) {
		return neos, nil
	}
	neos, err := c.inner.Feed(ctx, start, end)
	if err != nil {
		return nil, err
	}
	c.store(ctx, key, neos)
	return neos, nil
}

func (c *CachedSource) Lookup(ctx context.Context, id string) (domain.NearEarthObject, error) {
	key := LookupKey(id)
	var neo domain.NearEarthObject
	if c.lookupCache(ctx, methodLookup, key, &neo) {
		return neo, nil
	}
	neo, err := c.inner.Lookup(ctx, id)
	if err != nil {
		// Not-found is not cached so that newly catalogued objects appear.
		return neo, err
	}
	c.store(ctx, key, neo)
	return neo, nil
}

func (c *CachedSource) lookupCache(ctx context.Context, method, key string, out any) bool {
	data, ok, err := c.cache.Get(ctx, key)
	if err == nil && ok {
		err = json.Unmarshal(data, out)
	}
	switch {
	case err != nil:
		c.metrics.NEOCache.WithLabelValues(method, "error").Inc()
		c.logger.Warn("neo cache read failed", "key", key, "error", err)
		return false
	case !ok:
		c.metrics.NEOCache.WithLabelValues(method, "miss").Inc()
		return false
	default:
		c.metrics.NEOCache.WithLabelValues(method, "hit").Inc()
		return true
	}
}

func (c *CachedSource) store(ctx context.Context, key string, v any) {
	data, err := json.Marshal(v)
	if err == nil {
		err = c.cache.Put(ctx, key, data, c.ttl)
	}
	if err != nil {
		c.metrics.NEOCache.WithLabelValues(methodForKey(key), "error").Inc()
		c.logger.Warn("neo cache write failed", "key", key, "error", err)
	}
}

func methodForKey(key string) string {
	if strings.HasPrefix(key, "feed_") {
		return methodFeed
	}
	return methodLookup
}

// ErrNoCapacity is returned by Put on a MemoryCache built with a
// non-positive size.
var ErrNoCapacity = errors.New("nasa: cache has no capacity")

// MemoryCache is a thread-safe LRU cache whose entries expire after their
// TTL.
type MemoryCache struct {
	maxEntries int
	clock      clockwork.Clock
	mu         sync.Mutex
	entries    map[string]*entry
	head       *entry // most recently used
	tail       *entry // least recently used
}

type entry struct {
	key       string
	value     []byte
	expiresAt time.Time
	prev      *entry
	next      *entry
}

// NewMemoryCache creates an LRU cache holding at most maxEntries. A nil clock
// selects the real clock.
func NewMemoryCache(maxEntries int, clock clockwork.Clock) *MemoryCache {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &MemoryCache{
		maxEntries: maxEntries,
		clock:      clock,
		entries:    make(map[string]*entry),
	}
}

func (c *MemoryCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return nil, false, nil
	}
	if !c.clock.Now().Before(e.expiresAt) {
		delete(c.entries, key)
		c.remove(e)
		return nil, false, nil
	}
	c.moveToFront(e)
	return e.value, true, nil
}

func (c *MemoryCache) Put(_ context.Context, key string, value []byte, ttl time.Duration) error {
	if c.maxEntries <= 0 {
		return ErrNoCapacity
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	expiresAt := c.clock.Now().Add(ttl)
	if e, ok := c.entries[key]; ok {
		e.value = value
		e.expiresAt = expiresAt
		c.moveToFront(e)
		return nil
	}

	e := &entry{key: key, value: value, expiresAt: expiresAt}
	c.entries[key] = e
	c.addToFront(e)

	if len(c.entries) > c.maxEntries {
		c.evictTail()
	}
	return nil
}

// Len reports the number of stored entries, expired ones included.
func (c *MemoryCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

func (c *MemoryCache) moveToFront(e *entry) {
	if e == c.head {
		return
	}
	c.remove(e)
	c.addToFront(e)
}

func (c *MemoryCache) addToFront(e *entry) {
	e.next = c.head
	e.prev = nil
	if c.head != nil {
		c.head.prev = e
	}
	c.head = e
	if c.tail == nil {
		c.tail = e
	}
}

func (c *MemoryCache) remove(e *entry) {
	if e.prev != nil {
		e.prev.next = e.next
	} else {
		c.head = e.next
	}
	if e.next != nil {
		e.next.prev = e.prev
	} else {
		c.tail = e.prev
	}
}

func (c *MemoryCache) evictTail() {
	if c.tail == nil {
		return
	}
	delete(c.entries, c.tail.key)
	c.remove(c.tail)
}
