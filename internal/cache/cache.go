// Package cache keeps recently fetched pages in memory so a person linked
// from several position tables is downloaded once per run.
package cache

import (
	"container/list"
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/tr-officials/atlas/pkg/models"
)

// Cache is the page-cache contract used by the fetcher.
type Cache interface {
	// Get retrieves a cached page by URL.
	Get(url string) (*models.Page, bool)

	// Set stores a page with the specified TTL, evicting older entries when
	// the byte cap is exceeded.
	Set(url string, page *models.Page, ttl time.Duration) error

	// Delete removes a cached page. Unknown URLs are not an error.
	Delete(url string) error

	// Clear removes all cached pages.
	Clear() error

	// Close stops background maintenance.
	Close()
}

type cacheEntry struct {
	Page      *models.Page
	ExpiresAt time.Time
	URL       string
}

// MemoryCache implements in-memory page caching with LRU eviction bounded by
// total HTML bytes.
type MemoryCache struct {
	store   map[string]*list.Element
	lruList *list.List
	mu      sync.RWMutex
	maxSize int64
	size    int64
	ctx     context.Context
	cancel  context.CancelFunc
	hits    uint64
	misses  uint64
}

// NewMemoryCache creates a page cache capped at maxSizeBytes.
func NewMemoryCache(maxSizeBytes int64) *MemoryCache {
	if maxSizeBytes <= 0 {
		maxSizeBytes = 64 * 1024 * 1024
	}

	ctx, cancel := context.WithCancel(context.Background())

	mc := &MemoryCache{
		store:   make(map[string]*list.Element),
		lruList: list.New(),
		maxSize: maxSizeBytes,
		ctx:     ctx,
		cancel:  cancel,
	}

	go mc.cleanupExpired()

	return mc
}

func entrySize(p *models.Page) int64 {
	// Struct, map and pointer overhead approximated at 1KB.
	return int64(len(p.HTML)+len(p.URL)) + 1024
}

// Get retrieves a cached page and marks it most recently used.
func (mc *MemoryCache) Get(url string) (*models.Page, bool) {
	mc.mu.Lock()
	element, exists := mc.store[url]
	if !exists {
		mc.misses++
		mc.mu.Unlock()
		return nil, false
	}

	entry := element.Value.(*cacheEntry)
	if time.Now().After(entry.ExpiresAt) {
		mc.misses++
		mc.mu.Unlock()
		go mc.Delete(url)
		return nil, false
	}

	mc.lruList.MoveToFront(element)
	mc.hits++
	mc.mu.Unlock()

	log.Debug().Str("url", url).Msg("Page cache hit")
	return entry.Page, true
}

// Set stores a page, updating an existing entry in place.
func (mc *MemoryCache) Set(url string, page *models.Page, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}

	mc.mu.Lock()
	defer mc.mu.Unlock()

	size := entrySize(page)

	if element, exists := mc.store[url]; exists {
		oldEntry := element.Value.(*cacheEntry)
		mc.size -= entrySize(oldEntry.Page)

		element.Value = &cacheEntry{Page: page, ExpiresAt: time.Now().Add(ttl), URL: url}
		mc.lruList.MoveToFront(element)
		mc.size += size
		return nil
	}

	for mc.size+size > mc.maxSize && mc.lruList.Len() > 0 {
		mc.evictLRU()
	}

	entry := &cacheEntry{Page: page, ExpiresAt: time.Now().Add(ttl), URL: url}
	mc.store[url] = mc.lruList.PushFront(entry)
	mc.size += size

	log.Debug().
		Str("url", url).
		Dur("ttl", ttl).
		Int64("size_bytes", size).
		Msg("Cached page")

	return nil
}

// Delete removes a cached page.
func (mc *MemoryCache) Delete(url string) error {
	mc.mu.Lock()
	defer mc.mu.Unlock()

	if element, exists := mc.store[url]; exists {
		entry := element.Value.(*cacheEntry)
		mc.lruList.Remove(element)
		delete(mc.store, url)
		mc.size -= entrySize(entry.Page)
	}
	return nil
}

// Clear removes all cached pages.
func (mc *MemoryCache) Clear() error {
	mc.mu.Lock()
	defer mc.mu.Unlock()

	mc.store = make(map[string]*list.Element)
	mc.lruList = list.New()
	mc.size = 0
	mc.hits = 0
	mc.misses = 0
	return nil
}

// Close stops the background cleanup goroutine.
func (mc *MemoryCache) Close() {
	mc.cancel()
}

// evictLRU removes the least recently used entry. Caller holds the lock.
func (mc *MemoryCache) evictLRU() {
	element := mc.lruList.Back()
	if element == nil {
		return
	}
	entry := element.Value.(*cacheEntry)
	mc.lruList.Remove(element)
	delete(mc.store, entry.URL)
	mc.size -= entrySize(entry.Page)

	log.Debug().Str("url", entry.URL).Msg("Evicted page from cache")
}

// cleanupExpired periodically removes expired entries.
func (mc *MemoryCache) cleanupExpired() {
	ticker := time.NewTicker(1 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			mc.mu.Lock()
			now := time.Now()
			var next *list.Element
			for element := mc.lruList.Front(); element != nil; element = next {
				next = element.Next()
				entry := element.Value.(*cacheEntry)
				if now.After(entry.ExpiresAt) {
					mc.lruList.Remove(element)
					delete(mc.store, entry.URL)
					mc.size -= entrySize(entry.Page)
				}
			}
			mc.mu.Unlock()
		case <-mc.ctx.Done():
			return
		}
	}
}

// Stats reports entry count, byte usage and hit rate for debug logging.
func (mc *MemoryCache) Stats() (entries int, sizeBytes int64, hitRate float64) {
	mc.mu.RLock()
	defer mc.mu.RUnlock()

	total := mc.hits + mc.misses
	if total > 0 {
		hitRate = float64(mc.hits) / float64(total) * 100
	}
	return mc.lruList.Len(), mc.size, hitRate
}
