// Package main — Handler katmanı başlatma.
//
// initHandlers, tüm HTTP handler'larını oluşturur.
// Handler'lar "thin" dir — sadece HTTP parse + service call + response write.
package main

import (
	"database/sql"

	"github.com/akinalp/pano/handlers"
)

// Handlers, tüm handler instance'larını tutan container struct.
type Handlers struct {
	Auth     *handlers.AuthHandler
	User     *handlers.UserHandler
	Category *handlers.CategoryHandler
	Board    *handlers.BoardHandler
	Post     *handlers.PostHandler
	Admin    *handlers.AdminHandler
	Stats    *handlers.StatsHandler
}

// initHandlers, tüm handler'ları service ve rate limiter dependency'leri ile oluşturur.
func initHandlers(svcs *Services, limiters *RateLimiters, db *sql.DB) *Handlers {
	return &Handlers{
		Auth:     handlers.NewAuthHandler(svcs.Auth, limiters.Login, limiters.ClientIP),
		User:     handlers.NewUserHandler(svcs.User, svcs.Auth),
		Category: handlers.NewCategoryHandler(svcs.Category),
		Board:    handlers.NewBoardHandler(svcs.Board),
		Post:     handlers.NewPostHandler(svcs.Post, limiters.Post),
		Admin:    handlers.NewAdminHandler(svcs.Admin),
		Stats:    handlers.NewStatsHandler(svcs.Admin, db),
	}
}
