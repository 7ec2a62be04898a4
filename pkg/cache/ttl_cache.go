// Package cache, generic in-memory TTL cache.
//
// Web katmanı oturum sahibini (viewer) access token'a göre burada tutar;
// böylece her sayfa isteğinde /api/users/me çağrılmaz.
//
// Süresi dolan entry Get'te görünmez; map'ten fiziksel silme periyodik yapılır.
package cache

import (
	"sync"
	"time"
)

type entry[V any] struct {
	value     V
	expiresAt time.Time
}

// TTLCache, thread-safe generic TTL cache.
//
//	c := cache.New[string, *models.User](30*time.Second, time.Minute)
//	defer c.Close()
//	c.Set(token, user)
//	u, ok := c.Get(token)
type TTLCache[K comparable, V any] struct {
	mu      sync.RWMutex
	entries map[K]entry[V]
	ttl     time.Duration
	now     func() time.Time

	closeOnce   sync.Once
	stopCleanup chan struct{}
}

// New, cache oluşturur ve temizleme goroutine'ini başlatır.
// cleanupInterval, ttl'den küçük veya eşit olmalı.
func New[K comparable, V any](ttl, cleanupInterval time.Duration) *TTLCache[K, V] {
	c := &TTLCache[K, V]{
		entries:     make(map[K]entry[V]),
		ttl:         ttl,
		now:         time.Now,
		stopCleanup: make(chan struct{}),
	}

	go func() {
		ticker := time.NewTicker(cleanupInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				c.evictExpired()
			case <-c.stopCleanup:
				return
			}
		}
	}()

	return c
}

// Get, (value, true) döner; key yoksa veya süresi dolmuşsa (zero, false).
func (c *TTLCache[K, V]) Get(key K) (V, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	e, ok := c.entries[key]
	if !ok || c.now().After(e.expiresAt) {
		var zero V
		return zero, false
	}
	return e.value, true
}

// Set, varsayılan TTL ile yazar.
func (c *TTLCache[K, V]) Set(key K, value V) {
	c.SetUntil(key, value, time.Time{})
}

// SetUntil, entry'yi varsayılan TTL ile deadline'dan hangisi önceyse o ana kadar tutar.
// Zero deadline → sadece TTL. Access token'ın exp'inden sonra viewer'ın
// cache'ten okunmaması için kullanılır.
func (c *TTLCache[K, V]) SetUntil(key K, value V, deadline time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()

	expiresAt := c.now().Add(c.ttl)
	if !deadline.IsZero() && deadline.Before(expiresAt) {
		expiresAt = deadline
	}
	c.entries[key] = entry[V]{value: value, expiresAt: expiresAt}
}

// Delete, tek bir key'i siler (ör. logout'ta token'ın viewer kaydı).
func (c *TTLCache[K, V]) Delete(key K) {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.entries, key)
}

// DeleteFunc, predicate'i sağlayan tüm key'leri siler.
func (c *TTLCache[K, V]) DeleteFunc(predicate func(key K, value V) bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for key, e := range c.entries {
		if predicate(key, e.value) {
			delete(c.entries, key)
		}
	}
}

// Clear, tüm cache'i boşaltır.
func (c *TTLCache[K, V]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[K]entry[V])
}

// Len, toplam entry sayısı (süresi dolmuşlar dahil).
func (c *TTLCache[K, V]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return len(c.entries)
}

// Close, temizleme goroutine'ini durdurur. Birden fazla çağrı güvenlidir.
func (c *TTLCache[K, V]) Close() {
	c.closeOnce.Do(func() { close(c.stopCleanup) })
}

func (c *TTLCache[K, V]) evictExpired() {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	for key, e := range c.entries {
		if now.After(e.expiresAt) {
			delete(c.entries, key)
		}
	}
}
