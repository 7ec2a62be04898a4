package repository

import (
	"context"

	"github.com/akinalp/pano/models"
)

// CategoryRepository, kategori veritabanı işlemleri için interface.
type CategoryRepository interface {
	Create(ctx context.Context, category *models.Category) error
	GetByID(ctx context.Context, id string) (*models.Category, error)
	// GetAll, kategorileri position sırasına göre döner.
	GetAll(ctx context.Context) ([]models.Category, error)
	Update(ctx context.Context, category *models.Category) error
	// Delete, kategoriyi siler ve kategorisiz kalan pano sayısını döner.
	Delete(ctx context.Context, id string) (int64, error)
	GetMaxPosition(ctx context.Context) (int, error)
}
