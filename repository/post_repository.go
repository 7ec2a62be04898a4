package repository

import (
	"context"

	"github.com/akinalp/pano/models"
)

// PostRepository, yazı veritabanı işlemleri için interface.
type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	// GetByID, yazıyı yazar adı ve pano slug'ı ile birlikte döner.
	GetByID(ctx context.Context, id string) (*models.Post, error)
	// ListByBoard, panodaki yazıları sayfalar; req.Query başlık/içerikte arar.
	ListByBoard(ctx context.Context, boardID string, req models.PageRequest) ([]models.Post, int, error)
	// ListRecent, tüm panolardan en yeni yazılar (ana sayfa).
	ListRecent(ctx context.Context, limit int) ([]models.Post, error)
	// Update, başlık ve içeriği günceller, updated_at'i yeniler.
	Update(ctx context.Context, post *models.Post) error
	Delete(ctx context.Context, id string) error
	IncrementViewCount(ctx context.Context, id string) error
}
