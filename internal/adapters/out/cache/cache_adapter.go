package cache

import (
	"context"
	"fmt"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/suchimauz/hospital-booking-service/internal/config"
	"github.com/suchimauz/hospital-booking-service/internal/core/json_types"
	"github.com/suchimauz/hospital-booking-service/internal/core/ports/out"
)

type slotsCacheEntry struct {
	Slots    []json_types.TimeOfDay
	StoredAt time.Time
}

// CacheAdapter — процессный кэш слотов с окном свежести
// Записи идемпотентно пересчитываемы, поэтому конкурентная перезапись
// одного ключа безопасна (last-write-wins под мьютексом)
type CacheAdapter struct {
	cache  *lru.Cache[string, *slotsCacheEntry]
	ttl    time.Duration
	mu     sync.RWMutex
	logger out.LoggerPort

	// Подменяемо в тестах
	now func() time.Time
}

func NewCacheAdapter(cfg *config.Config, logger out.LoggerPort) (*CacheAdapter, error) {
	if !cfg.Cache.Enabled {
		logger.Info("cache.disabled", out.LogFields{
			"message": "Cache is disabled",
		})
		return nil, nil
	}

	lruCache, err := lru.New[string, *slotsCacheEntry](cfg.Cache.Size)
	if err != nil {
		logger.Error("cache.init.failed", out.LogFields{
			"error": err.Error(),
			"size":  cfg.Cache.Size,
		})
		return nil, err
	}

	return &CacheAdapter{
		cache:  lruCache,
		ttl:    cfg.Cache.TTL,
		logger: logger.WithModule("CacheAdapter"),
		now:    time.Now,
	}, nil
}

func cacheKey(doctorID string, date json_types.Date) string {
	return fmt.Sprintf("%s|%s", doctorID, date.String())
}

func (c *CacheAdapter) GetSlots(ctx context.Context, doctorID string, date json_types.Date) ([]json_types.TimeOfDay, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	key := cacheKey(doctorID, date)
	entry, exists := c.cache.Get(key)
	if !exists {
		c.logger.Debug("cache.get.miss", out.LogFields{
			"key": key,
		})
		return nil, false
	}

	// Просроченную запись не отдаем, удалит Sweep или перезапись
	if c.now().Sub(entry.StoredAt) > c.ttl {
		c.logger.Debug("cache.get.stale", out.LogFields{
			"key": key,
			"age": c.now().Sub(entry.StoredAt).String(),
		})
		return nil, false
	}

	c.logger.Debug("cache.get.hit", out.LogFields{
		"key":        key,
		"slotsCount": len(entry.Slots),
	})
	return entry.Slots, true
}

func (c *CacheAdapter) StoreSlots(ctx context.Context, doctorID string, date json_types.Date, slots []json_types.TimeOfDay) {
	c.mu.Lock()
	defer c.mu.Unlock()

	key := cacheKey(doctorID, date)
	c.logger.Debug("cache.store", out.LogFields{
		"key":        key,
		"slotsCount": len(slots),
	})

	c.cache.Add(key, &slotsCacheEntry{
		Slots:    slots,
		StoredAt: c.now(),
	})
}

func (c *CacheAdapter) Invalidate(ctx context.Context, doctorID string, date json_types.Date) {
	c.mu.Lock()
	defer c.mu.Unlock()

	key := cacheKey(doctorID, date)
	c.logger.Debug("cache.invalidate", out.LogFields{
		"key": key,
	})

	c.cache.Remove(key)
}

// Sweep лениво выметает просроченные записи, запускается по расписанию
func (c *CacheAdapter) Sweep(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()

	removed := 0
	for _, key := range c.cache.Keys() {
		entry, exists := c.cache.Peek(key)
		if !exists {
			continue
		}
		if c.now().Sub(entry.StoredAt) > c.ttl {
			c.cache.Remove(key)
			removed++
		}
	}

	if removed > 0 {
		c.logger.Debug("cache.sweep.done", out.LogFields{
			"removed": removed,
		})
	}
}
