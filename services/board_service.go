package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/akinalp/pano/models"
	"github.com/akinalp/pano/pkg"
	"github.com/akinalp/pano/repository"
)

// BoardService, pano iş mantığı.
//
// Panolar hem id hem slug ile adreslenebilir (ref): API istemcileri id,
// web URL'leri slug kullanır.
type BoardService interface {
	GetAll(ctx context.Context, categoryID string) ([]models.Board, error)
	// GetGrouped, ana sayfa için kategorileri panolarıyla birlikte döner.
	// Kategorisiz panolar sona, boş Category ile eklenir.
	GetGrouped(ctx context.Context) ([]models.CategoryWithBoards, error)
	Get(ctx context.Context, ref string) (*models.Board, error)
	Create(ctx context.Context, req *models.CreateBoardRequest) (*models.Board, error)
	Update(ctx context.Context, ref string, req *models.UpdateBoardRequest) (*models.Board, error)
	Delete(ctx context.Context, ref string) error
}

type boardService struct {
	boardRepo    repository.BoardRepository
	categoryRepo repository.CategoryRepository
}

func NewBoardService(boardRepo repository.BoardRepository, categoryRepo repository.CategoryRepository) BoardService {
	return &boardService{
		boardRepo:    boardRepo,
		categoryRepo: categoryRepo,
	}
}

// GetAll, tüm panoları döner. categoryID verilirse sadece o kategorininkileri.
func (s *boardService) GetAll(ctx context.Context, categoryID string) ([]models.Board, error) {
	boards, err := s.boardRepo.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	if categoryID == "" {
		return boards, nil
	}

	filtered := make([]models.Board, 0, len(boards))
	for _, b := range boards {
		if b.CategoryID != nil && *b.CategoryID == categoryID {
			filtered = append(filtered, b)
		}
	}
	return filtered, nil
}

func (s *boardService) GetGrouped(ctx context.Context) ([]models.CategoryWithBoards, error) {
	categories, err := s.categoryRepo.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	boards, err := s.boardRepo.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	byCategory := make(map[string][]models.Board, len(categories))
	var uncategorized []models.Board
	for _, b := range boards {
		if b.CategoryID == nil {
			uncategorized = append(uncategorized, b)
			continue
		}
		byCategory[*b.CategoryID] = append(byCategory[*b.CategoryID], b)
	}

	result := make([]models.CategoryWithBoards, 0, len(categories)+1)
	for _, c := range categories {
		list := byCategory[c.ID]
		if list == nil {
			list = []models.Board{}
		}
		result = append(result, models.CategoryWithBoards{Category: c, Boards: list})
	}
	if len(uncategorized) > 0 {
		result = append(result, models.CategoryWithBoards{Boards: uncategorized})
	}

	return result, nil
}

func (s *boardService) Get(ctx context.Context, ref string) (*models.Board, error) {
	return resolveBoard(ctx, s.boardRepo, ref)
}

func (s *boardService) Create(ctx context.Context, req *models.CreateBoardRequest) (*models.Board, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s", pkg.ErrBadRequest, err.Error())
	}

	if err := s.checkCategory(ctx, req.CategoryID); err != nil {
		return nil, err
	}

	maxPos, err := s.boardRepo.GetMaxPosition(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get max position: %w", err)
	}

	board := &models.Board{
		Slug:        req.Slug,
		Name:        req.Name,
		Description: req.Description,
		CategoryID:  optionalString(req.CategoryID),
		WriteRole:   req.WriteRole,
		Position:    maxPos + 1,
	}

	if err := s.boardRepo.Create(ctx, board); err != nil {
		return nil, err
	}

	return board, nil
}

func (s *boardService) Update(ctx context.Context, ref string, req *models.UpdateBoardRequest) (*models.Board, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s", pkg.ErrBadRequest, err.Error())
	}

	board, err := resolveBoard(ctx, s.boardRepo, ref)
	if err != nil {
		return nil, err
	}

	if req.Slug != nil {
		board.Slug = *req.Slug
	}
	if req.Name != nil {
		board.Name = *req.Name
	}
	if req.Description != nil {
		board.Description = *req.Description
	}
	if req.CategoryID != nil {
		if err := s.checkCategory(ctx, *req.CategoryID); err != nil {
			return nil, err
		}
		board.CategoryID = optionalString(*req.CategoryID)
	}
	if req.WriteRole != nil {
		board.WriteRole = *req.WriteRole
	}
	if req.Position != nil {
		board.Position = *req.Position
	}

	if err := s.boardRepo.Update(ctx, board); err != nil {
		return nil, err
	}

	return board, nil
}

// Delete, panoyu ve (CASCADE ile) tüm yazılarını siler.
func (s *boardService) Delete(ctx context.Context, ref string) error {
	board, err := resolveBoard(ctx, s.boardRepo, ref)
	if err != nil {
		return err
	}
	return s.boardRepo.Delete(ctx, board.ID)
}

// checkCategory, boş olmayan kategori id'sinin var olduğunu doğrular.
func (s *boardService) checkCategory(ctx context.Context, categoryID string) error {
	if categoryID == "" {
		return nil
	}
	if _, err := s.categoryRepo.GetByID(ctx, categoryID); err != nil {
		if errors.Is(err, pkg.ErrNotFound) {
			return fmt.Errorf("%w: category does not exist", pkg.ErrBadRequest)
		}
		return err
	}
	return nil
}

// resolveBoard, ref'i önce id, sonra slug olarak arar.
func resolveBoard(ctx context.Context, repo repository.BoardRepository, ref string) (*models.Board, error) {
	if ref == "" {
		return nil, fmt.Errorf("%w: board not found", pkg.ErrNotFound)
	}

	board, err := repo.GetByID(ctx, ref)
	if err == nil {
		return board, nil
	}
	if !errors.Is(err, pkg.ErrNotFound) {
		return nil, err
	}

	board, err = repo.GetBySlug(ctx, ref)
	if err != nil {
		if errors.Is(err, pkg.ErrNotFound) {
			return nil, fmt.Errorf("%w: board not found", pkg.ErrNotFound)
		}
		return nil, err
	}
	return board, nil
}
