package services

import (
	"context"
	"fmt"
	"log"

	"github.com/akinalp/pano/models"
	"github.com/akinalp/pano/pkg"
	"github.com/akinalp/pano/repository"
)

// CategoryService, kategori iş mantığı. Yazma işlemleri handler'da ADMIN ile korunur.
type CategoryService interface {
	GetAll(ctx context.Context) ([]models.Category, error)
	Create(ctx context.Context, req *models.CreateCategoryRequest) (*models.Category, error)
	Update(ctx context.Context, id string, req *models.UpdateCategoryRequest) (*models.Category, error)
	Delete(ctx context.Context, id string) (int64, error)
}

type categoryService struct {
	categoryRepo repository.CategoryRepository
}

func NewCategoryService(categoryRepo repository.CategoryRepository) CategoryService {
	return &categoryService{categoryRepo: categoryRepo}
}

func (s *categoryService) GetAll(ctx context.Context) ([]models.Category, error) {
	return s.categoryRepo.GetAll(ctx)
}

// Create, yeni kategoriyi listenin sonuna ekler.
func (s *categoryService) Create(ctx context.Context, req *models.CreateCategoryRequest) (*models.Category, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s", pkg.ErrBadRequest, err.Error())
	}

	maxPos, err := s.categoryRepo.GetMaxPosition(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get max position: %w", err)
	}

	category := &models.Category{
		Name:     req.Name,
		Position: maxPos + 1,
	}

	if err := s.categoryRepo.Create(ctx, category); err != nil {
		return nil, fmt.Errorf("failed to create category: %w", err)
	}

	return category, nil
}

func (s *categoryService) Update(ctx context.Context, id string, req *models.UpdateCategoryRequest) (*models.Category, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s", pkg.ErrBadRequest, err.Error())
	}

	category, err := s.categoryRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		category.Name = *req.Name
	}
	if req.Position != nil {
		category.Position = *req.Position
	}

	if err := s.categoryRepo.Update(ctx, category); err != nil {
		return nil, err
	}

	return category, nil
}

// Delete, kategoriyi siler. Panoları silinmez, kategorisiz kalır; dönen değer
// ayrılan pano sayısıdır.
func (s *categoryService) Delete(ctx context.Context, id string) (int64, error) {
	detached, err := s.categoryRepo.Delete(ctx, id)
	if err != nil {
		return 0, err
	}
	if detached > 0 {
		log.Printf("[categories] deleted %s, %d boards are now uncategorized", id, detached)
	}
	return detached, nil
}
