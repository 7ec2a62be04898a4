// Package repository, veritabanı erişim katmanını tanımlar.
//
// Service katmanı doğrudan SQL yazmaz — repository interface'i üzerinden çalışır.
// Her entity için bir interface dosyası (xxx_repository.go) ve bir SQLite
// implementasyonu (sqlite_xxx.go) vardır.
package repository

import (
	"context"

	"github.com/akinalp/pano/models"
)

// UserRepository, kullanıcı veritabanı işlemleri için interface.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	// List, admin paneli için sayfalanmış kullanıcı listesi ve toplam sayıyı döner.
	List(ctx context.Context, req models.PageRequest) ([]models.User, int, error)
	Count(ctx context.Context) (int, error)
	UpdateProfile(ctx context.Context, user *models.User) error
	UpdateRole(ctx context.Context, userID string, role models.Role) error
	UpdatePassword(ctx context.Context, userID string, newPasswordHash string) error
	// Delete, kullanıcıyı siler. FK cascade ile sessions ve posts da silinir.
	Delete(ctx context.Context, id string) error
}
