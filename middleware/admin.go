package middleware

import (
	"net/http"

	"github.com/akinalp/pano/handlers"
	"github.com/akinalp/pano/models"
	"github.com/akinalp/pano/pkg"
)

// AdminMiddleware, ADMIN rolü zorunlu kılar. AuthMiddleware.Require'dan SONRA çalışır.
//
//	authMw.Require(adminMw.Require(http.HandlerFunc(adminHandler.ListUsers)))
type AdminMiddleware struct{}

func NewAdminMiddleware() *AdminMiddleware {
	return &AdminMiddleware{}
}

func (m *AdminMiddleware) Require(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := r.Context().Value(handlers.UserContextKey).(*models.User)
		if !ok {
			pkg.ErrorWithMessage(w, http.StatusUnauthorized, "user not found in context")
			return
		}

		if !models.IsAdmin(user) {
			pkg.ErrorWithMessage(w, http.StatusForbidden, "admin access required")
			return
		}

		next.ServeHTTP(w, r)
	})
}
