// Package main — Service katmanı başlatma.
//
// initServices, tüm service implementasyonlarını oluşturur.
// Her service, ihtiyaç duyduğu repository interface'lerini constructor injection ile alır.
package main

import (
	"database/sql"
	"time"

	"github.com/akinalp/pano/config"
	"github.com/akinalp/pano/pkg/ratelimit"
	"github.com/akinalp/pano/services"
)

// Services, tüm service instance'larını tutan container struct.
type Services struct {
	Auth     services.AuthService
	User     services.UserService
	Category services.CategoryService
	Board    services.BoardService
	Post     services.PostService
	Admin    services.AdminService
}

// RateLimiters, handler'lara verilen limiter'lar. Shutdown'da durdurulur.
type RateLimiters struct {
	Login    *ratelimit.LoginRateLimiter
	Post     *ratelimit.PostRateLimiter
	ClientIP *ratelimit.IPResolver
}

// Stop, limiter cleanup goroutine'lerini durdurur.
func (l *RateLimiters) Stop() {
	l.Login.Stop()
	l.Post.Stop()
}

const sessionCleanupInterval = time.Hour

// initServices, tüm service'leri, rate limiter'ları ve oturum temizleyicisini oluşturur.
func initServices(db *sql.DB, repos *Repositories, cfg *config.Config) (*Services, *RateLimiters, services.SessionJanitor) {
	authService := services.NewAuthService(
		db, repos.User, repos.Session,
		cfg.JWT.Secret, cfg.JWT.AccessTokenExpiry, cfg.JWT.RefreshTokenExpiry,
	)

	svcs := &Services{
		Auth:     authService,
		User:     services.NewUserService(repos.User),
		Category: services.NewCategoryService(repos.Category),
		Board:    services.NewBoardService(repos.Board, repos.Category),
		Post:     services.NewPostService(repos.Post, repos.Board),
		Admin:    services.NewAdminService(repos.User, repos.Session, repos.Stats),
	}

	// ─── Rate Limiters ───
	limiters := &RateLimiters{
		Login:    ratelimit.NewLoginRateLimiter(5, 2*time.Minute),
		Post:     ratelimit.NewPostRateLimiter(3, 30*time.Second, time.Minute),
		ClientIP: ratelimit.NewIPResolver(cfg.Server.TrustedProxies),
	}

	janitor := services.NewSessionJanitor(authService, sessionCleanupInterval)

	return svcs, limiters, janitor
}
