package ratelimit

import (
	"sync"
	"time"
)

// postBucket, bir kullanıcının yazı sayacı ve ceza süresi.
// cooldownUntil zero value → ceza yok.
type postBucket struct {
	count         int
	windowStart   time.Time
	cooldownUntil time.Time
}

// PostRateLimiter, kullanıcı bazlı yazı spam koruması.
//
// LoginRateLimiter'dan farkı: limit aşıldığında pencerenin bitmesi değil,
// ayrı bir ceza süresi (cooldown) beklenir. Ör: 30 saniyede 3 yazı,
// 4. denemede 60 saniye boyunca hepsi reddedilir.
type PostRateLimiter struct {
	mu          sync.Mutex
	buckets     map[string]*postBucket
	maxPosts    int
	window      time.Duration
	cooldown    time.Duration
	now         func() time.Time
	stopOnce    sync.Once
	stopCleanup chan struct{}
}

// NewPostRateLimiter, yeni limiter oluşturur ve temizleme goroutine'ini başlatır.
func NewPostRateLimiter(maxPosts int, window, cooldown time.Duration) *PostRateLimiter {
	rl := &PostRateLimiter{
		buckets:     make(map[string]*postBucket),
		maxPosts:    maxPosts,
		window:      window,
		cooldown:    cooldown,
		now:         time.Now,
		stopCleanup: make(chan struct{}),
	}

	go cleanupLoop(30*time.Second, rl.stopCleanup, rl.cleanup)

	return rl
}

// Allow, kullanıcının bir yazı daha açıp açamayacağını döner.
//
// 1. Cooldown'daysa → reddet.
// 2. Cooldown yeni bittiyse veya pencere dolduysa → yeni pencere.
// 3. Pencere içindeyse → say; limit aşıldıysa cooldown başlat.
func (rl *PostRateLimiter) Allow(userID string) bool {
	now := rl.now()

	rl.mu.Lock()
	defer rl.mu.Unlock()

	b, exists := rl.buckets[userID]
	if !exists {
		rl.buckets[userID] = &postBucket{count: 1, windowStart: now}
		return true
	}

	if !b.cooldownUntil.IsZero() {
		if now.Before(b.cooldownUntil) {
			return false
		}
		b.count = 1
		b.windowStart = now
		b.cooldownUntil = time.Time{}
		return true
	}

	if now.Sub(b.windowStart) > rl.window {
		b.count = 1
		b.windowStart = now
		return true
	}

	b.count++
	if b.count > rl.maxPosts {
		b.cooldownUntil = now.Add(rl.cooldown)
		return false
	}

	return true
}

// CooldownSeconds, kalan ceza süresi (saniye). Ceza yoksa 0.
func (rl *PostRateLimiter) CooldownSeconds(userID string) int {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	b, exists := rl.buckets[userID]
	if !exists || b.cooldownUntil.IsZero() {
		return 0
	}

	remaining := b.cooldownUntil.Sub(rl.now())
	if remaining <= 0 {
		return 0
	}
	return int(remaining.Seconds()) + 1
}

// Stop, temizleme goroutine'ini durdurur. Birden fazla çağrı güvenlidir.
func (rl *PostRateLimiter) Stop() {
	rl.stopOnce.Do(func() { close(rl.stopCleanup) })
}

// cleanup, hem penceresi hem cezası bitmiş bucket'ları siler.
func (rl *PostRateLimiter) cleanup() {
	now := rl.now()

	rl.mu.Lock()
	defer rl.mu.Unlock()

	for userID, b := range rl.buckets {
		windowExpired := now.Sub(b.windowStart) > rl.window
		cooldownExpired := b.cooldownUntil.IsZero() || now.After(b.cooldownUntil)
		if windowExpired && cooldownExpired {
			delete(rl.buckets, userID)
		}
	}
}
