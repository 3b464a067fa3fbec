// Package cache keeps recent summarization results so the same article is
// not summarized twice within the cache duration.
package cache

import (
	"context"
	"crypto/md5"
	"errors"
	"fmt"
	"sync"
	"time"
)

// Cache interface defines cache operations
type Cache interface {
	Get(ctx context.Context, key string) (*Entry, error)
	Set(ctx context.Context, key string, entry *Entry) error
	Delete(ctx context.Context, key string) error
	Clear(ctx context.Context) error
	Sweep(ctx context.Context) (int, error)
	GetStats(ctx context.Context) (*Stats, error)
}

// Entry is a cached summary.
type Entry struct {
	Key         string    `json:"key"`
	Title       string    `json:"title"`
	Summary     string    `json:"summary"`
	CreatedAt   time.Time `json:"created_at"`
	ExpiresAt   time.Time `json:"expires_at"`
	AccessedAt  time.Time `json:"accessed_at"`
	AccessCount int       `json:"access_count"`
}

// Stats represents cache statistics
type Stats struct {
	TotalEntries   int       `json:"total_entries"`
	HitCount       int64     `json:"hit_count"`
	MissCount      int64     `json:"miss_count"`
	HitRate        float64   `json:"hit_rate"`
	MemoryUsage    int64     `json:"memory_usage_bytes"`
	OldestEntry    time.Time `json:"oldest_entry"`
	ExpiredEntries int       `json:"expired_entries"`
}

var (
	ErrCacheMiss       = errors.New("cache miss")
	ErrUnsupportedType = errors.New("unsupported cache type")
)

// MemoryCache implements in-memory cache. Expired entries are dropped on
// read and by Sweep.
type MemoryCache struct {
	entries   map[string]*Entry
	mutex     sync.RWMutex
	duration  time.Duration
	hitCount  int64
	missCount int64
	now       func() time.Time
}

// NewMemoryCache creates a new in-memory cache
func NewMemoryCache(duration time.Duration) *MemoryCache {
	return &MemoryCache{
		entries:  make(map[string]*Entry),
		duration: duration,
		now:      time.Now,
	}
}

// Get retrieves an entry from cache
func (c *MemoryCache) Get(ctx context.Context, key string) (*Entry, error) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	entry, exists := c.entries[key]
	if !exists {
		c.missCount++
		return nil, ErrCacheMiss
	}

	now := c.now()
	if now.After(entry.ExpiresAt) {
		delete(c.entries, key)
		c.missCount++
		return nil, ErrCacheMiss
	}

	entry.AccessedAt = now
	entry.AccessCount++
	c.hitCount++

	copied := *entry
	return &copied, nil
}

// Set stores an entry in cache
func (c *MemoryCache) Set(ctx context.Context, key string, entry *Entry) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	now := c.now()
	stored := *entry
	stored.Key = key
	stored.CreatedAt = now
	stored.ExpiresAt = now.Add(c.duration)
	stored.AccessedAt = now
	stored.AccessCount = 0

	c.entries[key] = &stored
	return nil
}

// Delete removes an entry from cache
func (c *MemoryCache) Delete(ctx context.Context, key string) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	delete(c.entries, key)
	return nil
}

// Clear removes all entries from cache
func (c *MemoryCache) Clear(ctx context.Context) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.entries = make(map[string]*Entry)
	c.hitCount = 0
	c.missCount = 0
	return nil
}

// Sweep removes expired entries and returns how many were dropped.
func (c *MemoryCache) Sweep(ctx context.Context) (int, error) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	now := c.now()
	removed := 0
	for key, entry := range c.entries {
		if now.After(entry.ExpiresAt) {
			delete(c.entries, key)
			removed++
		}
	}
	return removed, nil
}

// GetStats returns cache statistics
func (c *MemoryCache) GetStats(ctx context.Context) (*Stats, error) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	stats := &Stats{
		TotalEntries: len(c.entries),
		HitCount:     c.hitCount,
		MissCount:    c.missCount,
	}

	if c.hitCount+c.missCount > 0 {
		stats.HitRate = float64(c.hitCount) / float64(c.hitCount+c.missCount)
	}

	now := c.now()
	for _, entry := range c.entries {
		stats.MemoryUsage += int64(len(entry.Key) + len(entry.Title) + len(entry.Summary))
		if stats.OldestEntry.IsZero() || entry.CreatedAt.Before(stats.OldestEntry) {
			stats.OldestEntry = entry.CreatedAt
		}
		if now.After(entry.ExpiresAt) {
			stats.ExpiredEntries++
		}
	}

	return stats, nil
}

// Manager handles cache operations with convenience methods
type Manager struct {
	cache Cache
}

// NewManager creates a cache manager for cacheType "memory". "none" returns
// a nil manager, whose methods behave as an always-empty cache.
func NewManager(cacheType string, duration time.Duration) (*Manager, error) {
	switch cacheType {
	case "memory":
		return &Manager{cache: NewMemoryCache(duration)}, nil
	case "none", "":
		return nil, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedType, cacheType)
	}
}

// NewManagerWith wraps an existing cache.
func NewManagerWith(c Cache) *Manager {
	return &Manager{cache: c}
}

// GetSummary retrieves the cached title and summary for an article text.
func (m *Manager) GetSummary(ctx context.Context, text string) (*Entry, error) {
	if m == nil {
		return nil, ErrCacheMiss
	}
	return m.cache.Get(ctx, GenerateKey(text))
}

// SetSummary caches a title and summary for an article text.
func (m *Manager) SetSummary(ctx context.Context, text, title, summary string) error {
	if m == nil {
		return nil
	}
	return m.cache.Set(ctx, GenerateKey(text), &Entry{Title: title, Summary: summary})
}

// Sweep drops expired entries.
func (m *Manager) Sweep(ctx context.Context) (int, error) {
	if m == nil {
		return 0, nil
	}
	return m.cache.Sweep(ctx)
}

// GetStats returns cache statistics
func (m *Manager) GetStats(ctx context.Context) (*Stats, error) {
	if m == nil {
		return &Stats{}, nil
	}
	return m.cache.GetStats(ctx)
}

// Clear clears all cached entries
func (m *Manager) Clear(ctx context.Context) error {
	if m == nil {
		return nil
	}
	return m.cache.Clear(ctx)
}

// GenerateKey generates a cache key for a normalized article text.
func GenerateKey(text string) string {
	hash := md5.Sum([]byte(text))
	return fmt.Sprintf("summary:%x", hash)
}
