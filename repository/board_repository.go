package repository

import (
	"context"

	"github.com/akinalp/pano/models"
)

// BoardRepository, pano veritabanı işlemleri için interface.
type BoardRepository interface {
	Create(ctx context.Context, board *models.Board) error
	GetByID(ctx context.Context, id string) (*models.Board, error)
	GetBySlug(ctx context.Context, slug string) (*models.Board, error)
	// GetAll, tüm panoları position sırasına göre, yazı sayılarıyla döner.
	GetAll(ctx context.Context) ([]models.Board, error)
	Update(ctx context.Context, board *models.Board) error
	// Delete, panoyu siler. FK cascade ile yazıları da silinir.
	Delete(ctx context.Context, id string) error
	GetMaxPosition(ctx context.Context) (int, error)
}
