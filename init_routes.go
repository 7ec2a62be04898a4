// Package main — HTTP route registration.
//
// initRoutes, tüm API endpoint'lerini mux'a bağlar.
// Middleware chain helper'ları burada tanımlıdır:
//   - auth: JWT token doğrulaması
//   - admin: auth + ADMIN rolü
package main

import (
	"net/http"

	"github.com/akinalp/pano/middleware"
	"github.com/akinalp/pano/repository"
	"github.com/akinalp/pano/services"
)

// initRoutes, middleware chain'i kurar ve tüm endpoint'leri mux'a bağlar.
//
// Route sıralama: ServeMux en spesifik pattern'i seçer, bu yüzden
// "/api/posts/recent" ile "/api/posts/{id}" çakışmaz.
func initRoutes(
	mux *http.ServeMux,
	h *Handlers,
	authService services.AuthService,
	userRepo repository.UserRepository,
) {
	// ─── Middleware ───
	authMw := middleware.NewAuthMiddleware(authService, userRepo)
	adminMw := middleware.NewAdminMiddleware()

	// ─── Middleware Chain Helpers ───
	auth := func(handler http.HandlerFunc) http.Handler {
		return authMw.Require(handler)
	}
	admin := func(handler http.HandlerFunc) http.Handler {
		return authMw.Require(adminMw.Require(handler))
	}

	// Ops
	mux.HandleFunc("GET /api/health", h.Stats.Health)
	mux.HandleFunc("GET /api/stats", h.Stats.GetPublicStats)

	// Auth
	mux.HandleFunc("POST /api/auth/register", h.Auth.Register)
	mux.HandleFunc("POST /api/auth/login", h.Auth.Login)
	mux.HandleFunc("POST /api/auth/refresh", h.Auth.Refresh)
	mux.HandleFunc("POST /api/auth/logout", h.Auth.Logout)

	// User
	mux.Handle("GET /api/users/me", auth(h.User.Me))
	mux.Handle("PATCH /api/users/me", auth(h.User.UpdateMe))
	mux.Handle("POST /api/users/me/password", auth(h.User.ChangePassword))

	// Categories — liste herkese açık, CUD için ADMIN
	mux.HandleFunc("GET /api/categories", h.Category.List)
	mux.Handle("POST /api/categories", admin(h.Category.Create))
	mux.Handle("PATCH /api/categories/{id}", admin(h.Category.Update))
	mux.Handle("DELETE /api/categories/{id}", admin(h.Category.Delete))

	// Boards — {id} hem id hem slug kabul eder
	mux.HandleFunc("GET /api/boards", h.Board.List)
	mux.HandleFunc("GET /api/boards/{id}", h.Board.Get)
	mux.Handle("POST /api/boards", admin(h.Board.Create))
	mux.Handle("PATCH /api/boards/{id}", admin(h.Board.Update))
	mux.Handle("DELETE /api/boards/{id}", admin(h.Board.Delete))

	// Posts — okuma herkese açık; yazma yetkisi service'te (CanCreatePost / CanModifyPost)
	mux.HandleFunc("GET /api/boards/{id}/posts", h.Post.ListByBoard)
	mux.Handle("POST /api/boards/{id}/posts", auth(h.Post.Create))
	mux.HandleFunc("GET /api/posts/recent", h.Post.Recent)
	mux.HandleFunc("GET /api/posts/{id}", h.Post.Get)
	mux.Handle("PATCH /api/posts/{id}", auth(h.Post.Update))
	mux.Handle("DELETE /api/posts/{id}", auth(h.Post.Delete))

	// Admin
	mux.Handle("GET /api/admin/users", admin(h.Admin.ListUsers))
	mux.Handle("PATCH /api/admin/users/{id}/role", admin(h.Admin.UpdateUserRole))
	mux.Handle("DELETE /api/admin/users/{id}", admin(h.Admin.DeleteUser))
	mux.Handle("GET /api/admin/stats", admin(h.Admin.Stats))
}
