// Package main — Repository katmanı başlatma.
//
// initRepositories, tüm repository implementasyonlarını oluşturur.
// Her repository aynı *sql.DB bağlantısını alır ve interface döner.
package main

import (
	"database/sql"

	"github.com/akinalp/pano/repository"
)

// Repositories, tüm repository instance'larını tutan container struct.
type Repositories struct {
	User     repository.UserRepository
	Session  repository.SessionRepository
	Category repository.CategoryRepository
	Board    repository.BoardRepository
	Post     repository.PostRepository
	Stats    repository.StatsRepository
}

// initRepositories, veritabanı bağlantısından tüm repository'leri oluşturur.
//
// Go'nun sql.DB'si thread-safe connection pool'dur, paylaşılması güvenlidir.
func initRepositories(conn *sql.DB) *Repositories {
	return &Repositories{
		User:     repository.NewSQLiteUserRepo(conn),
		Session:  repository.NewSQLiteSessionRepo(conn),
		Category: repository.NewSQLiteCategoryRepo(conn),
		Board:    repository.NewSQLiteBoardRepo(conn),
		Post:     repository.NewSQLitePostRepo(conn),
		Stats:    repository.NewSQLiteStatsRepo(conn),
	}
}
