// Package services — SessionJanitor, süresi dolmuş oturumları periyodik olarak siler.
//
// Refresh sırasında süresi dolmuş oturum zaten silinir; janitor hiç geri
// dönmeyen kullanıcıların satırlarını toplar.
//
// Goroutine pattern: time.NewTicker + select + stopCh (pkg/cache/ttl_cache.go ile aynı).
package services

import (
	"context"
	"log"
	"sync"
	"time"
)

// SessionJanitor, arka plan temizlik döngüsü.
type SessionJanitor interface {
	// Start, temizlik goroutine'ini başlatır. İkinci çağrı etkisizdir.
	Start()

	// Stop, goroutine'i durdurur ve çıkmasını bekler.
	Stop()
}

type sessionJanitor struct {
	authService AuthService
	interval    time.Duration

	mu      sync.Mutex
	started bool
	stopCh  chan struct{}
	done    chan struct{}
}

// NewSessionJanitor, constructor. interval production'da 1 saat.
func NewSessionJanitor(authService AuthService, interval time.Duration) SessionJanitor {
	return &sessionJanitor{
		authService: authService,
		interval:    interval,
		stopCh:      make(chan struct{}),
		done:        make(chan struct{}),
	}
}

func (j *sessionJanitor) Start() {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.started {
		return
	}
	j.started = true

	log.Printf("[sessions] janitor starting (interval=%s)", j.interval)

	go func() {
		defer close(j.done)

		j.sweep()

		ticker := time.NewTicker(j.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				j.sweep()
			case <-j.stopCh:
				return
			}
		}
	}()
}

func (j *sessionJanitor) Stop() {
	j.mu.Lock()
	defer j.mu.Unlock()
	if !j.started {
		return
	}
	select {
	case <-j.stopCh:
		return
	default:
		close(j.stopCh)
	}
	<-j.done
	log.Println("[sessions] janitor stopped")
}

func (j *sessionJanitor) sweep() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	n, err := j.authService.CleanupExpiredSessions(ctx)
	if err != nil {
		log.Printf("[sessions] cleanup failed: %v", err)
		return
	}
	if n > 0 {
		log.Printf("[sessions] removed %d expired sessions", n)
	}
}
