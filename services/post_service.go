package services

import (
	"context"
	"fmt"
	"log"

	"github.com/akinalp/pano/models"
	"github.com/akinalp/pano/pkg"
	"github.com/akinalp/pano/repository"
)

const (
	defaultRecentLimit = 10
	maxRecentLimit     = 50
)

// PostService, yazı iş mantığı.
//
// Yetki kuralları models.CanCreatePost / models.CanModifyPost ile zorlanır;
// web arayüzü butonları gösterirken aynı fonksiyonları kullanır.
type PostService interface {
	ListByBoard(ctx context.Context, boardRef string, req models.PageRequest) (*models.Page[models.Post], error)
	GetRecent(ctx context.Context, limit int) ([]models.Post, error)
	Get(ctx context.Context, id string) (*models.Post, error)
	// View, yazıyı döner ve görüntülenme sayısını artırır.
	View(ctx context.Context, id string) (*models.Post, error)
	Create(ctx context.Context, viewer *models.User, boardRef string, req *models.CreatePostRequest) (*models.Post, error)
	Update(ctx context.Context, viewer *models.User, id string, req *models.UpdatePostRequest) (*models.Post, error)
	Delete(ctx context.Context, viewer *models.User, id string) error
}

type postService struct {
	postRepo  repository.PostRepository
	boardRepo repository.BoardRepository
}

func NewPostService(postRepo repository.PostRepository, boardRepo repository.BoardRepository) PostService {
	return &postService{
		postRepo:  postRepo,
		boardRepo: boardRepo,
	}
}

func (s *postService) ListByBoard(ctx context.Context, boardRef string, req models.PageRequest) (*models.Page[models.Post], error) {
	board, err := resolveBoard(ctx, s.boardRepo, boardRef)
	if err != nil {
		return nil, err
	}

	posts, total, err := s.postRepo.ListByBoard(ctx, board.ID, req)
	if err != nil {
		return nil, err
	}

	page := models.NewPage(posts, req, total)
	return &page, nil
}

// GetRecent, tüm panolardaki en yeni yazılar. limit <= 0 → 10, en fazla 50.
func (s *postService) GetRecent(ctx context.Context, limit int) ([]models.Post, error) {
	if limit <= 0 {
		limit = defaultRecentLimit
	}
	limit = min(limit, maxRecentLimit)
	return s.postRepo.ListRecent(ctx, limit)
}

func (s *postService) Get(ctx context.Context, id string) (*models.Post, error) {
	return s.postRepo.GetByID(ctx, id)
}

func (s *postService) View(ctx context.Context, id string) (*models.Post, error) {
	if err := s.postRepo.IncrementViewCount(ctx, id); err != nil {
		return nil, err
	}
	return s.postRepo.GetByID(ctx, id)
}

func (s *postService) Create(ctx context.Context, viewer *models.User, boardRef string, req *models.CreatePostRequest) (*models.Post, error) {
	board, err := resolveBoard(ctx, s.boardRepo, boardRef)
	if err != nil {
		return nil, err
	}

	if !models.CanCreatePost(viewer, board) {
		return nil, fmt.Errorf("%w: %s role required to post on this board", pkg.ErrForbidden, board.EffectiveWriteRole())
	}

	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s", pkg.ErrBadRequest, err.Error())
	}

	post := &models.Post{
		BoardID:        board.ID,
		BoardSlug:      board.Slug,
		AuthorID:       viewer.ID,
		AuthorUsername: viewer.Username,
		Title:          req.Title,
		Content:        req.Content,
	}

	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, err
	}

	return post, nil
}

func (s *postService) Update(ctx context.Context, viewer *models.User, id string, req *models.UpdatePostRequest) (*models.Post, error) {
	post, err := s.postRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !models.CanModifyPost(viewer, post) {
		return nil, fmt.Errorf("%w: you can only edit your own posts", pkg.ErrForbidden)
	}

	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s", pkg.ErrBadRequest, err.Error())
	}

	if req.Title != nil {
		post.Title = *req.Title
	}
	if req.Content != nil {
		post.Content = *req.Content
	}

	if err := s.postRepo.Update(ctx, post); err != nil {
		return nil, err
	}

	// updated_at DB'de atanır; güncel değeri okumak için tekrar çek.
	return s.postRepo.GetByID(ctx, id)
}

func (s *postService) Delete(ctx context.Context, viewer *models.User, id string) error {
	post, err := s.postRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if !models.CanModifyPost(viewer, post) {
		return fmt.Errorf("%w: you can only delete your own posts", pkg.ErrForbidden)
	}

	if err := s.postRepo.Delete(ctx, id); err != nil {
		return err
	}

	if viewer.ID != post.AuthorID {
		log.Printf("[posts] admin %s deleted post %s by %s", viewer.Username, post.ID, post.AuthorUsername)
	}
	return nil
}
