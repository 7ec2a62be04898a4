// Package handlers, Board API'nin HTTP handler'larını barındırır.
//
// Handler incedir: body'yi parse eder, service'i çağırır, sonucu
// pkg.JSON / pkg.Error ile yazar. İş kuralı ve DB erişimi içermez.
package handlers

import (
	"net/http"
	"strconv"

	"github.com/akinalp/pano/models"
	"github.com/akinalp/pano/pkg"
	"github.com/akinalp/pano/pkg/ratelimit"
	"github.com/akinalp/pano/services"
)

// AuthHandler, /api/auth endpoint'leri.
type AuthHandler struct {
	authService  services.AuthService
	loginLimiter *ratelimit.LoginRateLimiter
	clientIP     *ratelimit.IPResolver
}

// NewAuthHandler, constructor. loginLimiter nil ise rate limiting kapalıdır.
// clientIP nil ise forwarded başlıklarına hiç güvenilmez.
func NewAuthHandler(authService services.AuthService, loginLimiter *ratelimit.LoginRateLimiter, clientIP *ratelimit.IPResolver) *AuthHandler {
	return &AuthHandler{
		authService:  authService,
		loginLimiter: loginLimiter,
		clientIP:     clientIP,
	}
}

// Register godoc
// POST /api/auth/register
// İlk kayıt olan kullanıcı ADMIN olur.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req models.CreateUserRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	tokens, err := h.authService.Register(r.Context(), &req)
	if err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusCreated, tokens)
}

// Login godoc
// POST /api/auth/login
//
// IP bazlı brute-force koruması: limit aşılınca 429 + Retry-After.
// Başarılı login sayacı sıfırlar.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	ip := h.clientIP.ClientIP(r)
	if h.loginLimiter != nil && !h.loginLimiter.Allow(ip) {
		retryAfter := h.loginLimiter.RetryAfterSeconds(ip)
		w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
		pkg.ErrorWithMessage(w, http.StatusTooManyRequests,
			"too many login attempts, please try again in "+ratelimit.FormatRetryMessage(retryAfter))
		return
	}

	var req models.LoginRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	tokens, err := h.authService.Login(r.Context(), &req)
	if err != nil {
		pkg.Error(w, err)
		return
	}

	if h.loginLimiter != nil {
		h.loginLimiter.Reset(ip)
	}

	pkg.JSON(w, http.StatusOK, tokens)
}

// Refresh godoc
// POST /api/auth/refresh
// Body: { "refresh_token": "..." }
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	var req models.RefreshRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if req.RefreshToken == "" {
		pkg.ErrorWithMessage(w, http.StatusBadRequest, "refresh_token is required")
		return
	}

	tokens, err := h.authService.RefreshToken(r.Context(), req.RefreshToken)
	if err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusOK, tokens)
}

// Logout godoc
// POST /api/auth/logout
// Body: { "refresh_token": "..." }
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	var req models.RefreshRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if err := h.authService.Logout(r.Context(), req.RefreshToken); err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusOK, map[string]string{"message": "logged out"})
}
