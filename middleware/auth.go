// Package middleware, HTTP request pipeline'ına eklenen ara katmanları barındırır.
//
// Her middleware func(next http.Handler) http.Handler şeklindedir: kendi işini
// yapar, sonra next'i çağırır. Hata varsa next çağrılmaz, istek burada biter.
package middleware

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/akinalp/pano/handlers"
	"github.com/akinalp/pano/pkg"
	"github.com/akinalp/pano/repository"
	"github.com/akinalp/pano/services"
)

// AuthMiddleware, "Authorization: Bearer <jwt>" doğrulaması.
type AuthMiddleware struct {
	authService services.AuthService
	userRepo    repository.UserRepository
}

func NewAuthMiddleware(authService services.AuthService, userRepo repository.UserRepository) *AuthMiddleware {
	return &AuthMiddleware{
		authService: authService,
		userRepo:    userRepo,
	}
}

// Require, geçerli token zorunlu. Yoksa 401.
//
// Token'daki role claim'ine güvenilmez: kullanıcı her istekte DB'den okunur,
// böylece rol değişikliği ve silme anında etkili olur.
func (m *AuthMiddleware) Require(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tokenString, err := bearerToken(r)
		if err != nil {
			pkg.Error(w, err)
			return
		}

		ctx, err := m.authenticate(r.Context(), tokenString)
		if err != nil {
			pkg.Error(w, err)
			return
		}

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (m *AuthMiddleware) authenticate(ctx context.Context, tokenString string) (context.Context, error) {
	claims, err := m.authService.ValidateAccessToken(tokenString)
	if err != nil {
		return nil, err
	}

	// Token geçerli ama kullanıcı silinmiş olabilir.
	user, err := m.userRepo.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, pkg.ErrNotFound) {
			return nil, fmt.Errorf("%w: user not found", pkg.ErrUnauthorized)
		}
		return nil, err
	}
	user.PasswordHash = ""

	return context.WithValue(ctx, handlers.UserContextKey, user), nil
}

func bearerToken(r *http.Request) (string, error) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return "", fmt.Errorf("%w: authorization header required", pkg.ErrUnauthorized)
	}

	tokenString, ok := strings.CutPrefix(authHeader, "Bearer ")
	if !ok || tokenString == "" {
		return "", fmt.Errorf("%w: invalid authorization format, use: Bearer <token>", pkg.ErrUnauthorized)
	}
	return tokenString, nil
}
