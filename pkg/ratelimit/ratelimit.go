// Package ratelimit, in-memory rate limiter'ları barındırır.
//
//   - LoginRateLimiter: IP bazlı login brute-force koruması (sabit pencere).
//   - PostRateLimiter: kullanıcı bazlı yazı spam koruması (pencere + ceza süresi).
//
// Tek instance deploy için in-memory yeterli; her biri arka planda süresi
// dolmuş bucket'ları temizleyen bir goroutine çalıştırır — Stop() ile durdurulur.
//
// pkg/ratelimit hiçbir proje içi pakete bağımlı değildir (leaf dependency).
package ratelimit

import (
	"fmt"
	"sync"
	"time"
)

// bucket, bir IP adresi için istek sayacı ve pencere başlangıcı.
type bucket struct {
	count       int
	windowStart time.Time
}

// LoginRateLimiter, IP bazlı login rate limiting.
//
//	limiter := NewLoginRateLimiter(5, 2*time.Minute)
//	if !limiter.Allow(ip) { return 429 }
//	// başarılı login:
//	limiter.Reset(ip)
type LoginRateLimiter struct {
	mu          sync.Mutex
	buckets     map[string]*bucket
	maxAttempts int
	window      time.Duration
	now         func() time.Time
	stopOnce    sync.Once
	stopCleanup chan struct{}
}

// NewLoginRateLimiter, window süresi içinde en fazla maxAttempts denemeye izin verir.
func NewLoginRateLimiter(maxAttempts int, window time.Duration) *LoginRateLimiter {
	rl := &LoginRateLimiter{
		buckets:     make(map[string]*bucket),
		maxAttempts: maxAttempts,
		window:      window,
		now:         time.Now,
		stopCleanup: make(chan struct{}),
	}

	go cleanupLoop(time.Minute, rl.stopCleanup, rl.cleanup)

	return rl
}

// Allow, IP'nin bir deneme daha yapıp yapamayacağını döner.
// Her çağrı sayacı artırır (deneme başarılı olsun olmasın).
func (rl *LoginRateLimiter) Allow(ip string) bool {
	now := rl.now()

	rl.mu.Lock()
	defer rl.mu.Unlock()

	b, exists := rl.buckets[ip]
	if !exists {
		rl.buckets[ip] = &bucket{count: 1, windowStart: now}
		return true
	}

	if now.Sub(b.windowStart) > rl.window {
		b.count = 1
		b.windowStart = now
		return true
	}

	b.count++
	return b.count <= rl.maxAttempts
}

// Reset, başarılı login sonrası IP sayacını sıfırlar.
// Aksi halde doğru şifreyi giren kullanıcı sonraki girişlerinde bloke olabilir.
func (rl *LoginRateLimiter) Reset(ip string) {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	delete(rl.buckets, ip)
}

// RetryAfterSeconds, pencerenin bitmesine kalan süre (Retry-After header değeri).
func (rl *LoginRateLimiter) RetryAfterSeconds(ip string) int {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	b, exists := rl.buckets[ip]
	if !exists {
		return 0
	}

	remaining := rl.window - rl.now().Sub(b.windowStart)
	if remaining < 0 {
		return 0
	}
	return int(remaining.Seconds()) + 1 // +1: client tam süreyi beklesin
}

// Stop, temizleme goroutine'ini durdurur. Birden fazla çağrı güvenlidir.
func (rl *LoginRateLimiter) Stop() {
	rl.stopOnce.Do(func() { close(rl.stopCleanup) })
}

func (rl *LoginRateLimiter) cleanup() {
	now := rl.now()

	rl.mu.Lock()
	defer rl.mu.Unlock()

	for ip, b := range rl.buckets {
		if now.Sub(b.windowStart) > rl.window {
			delete(rl.buckets, ip)
		}
	}
}

// cleanupLoop, interval'da bir fn'i çağırır; stop kapanınca döner.
func cleanupLoop(interval time.Duration, stop <-chan struct{}, fn func()) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			fn()
		case <-stop:
			return
		}
	}
}

// FormatRetryMessage, kalan süreyi okunabilir formata çevirir.
// Örn: 120 → "2 minute(s)", 45 → "45 second(s)"
func FormatRetryMessage(seconds int) string {
	if seconds >= 60 {
		return fmt.Sprintf("%d minute(s)", seconds/60)
	}
	return fmt.Sprintf("%d second(s)", seconds)
}
