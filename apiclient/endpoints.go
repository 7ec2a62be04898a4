package apiclient

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/akinalp/pano/models"
)

// ─── Auth ───

func (c *Client) Register(ctx context.Context, req models.CreateUserRequest) (*models.AuthTokens, error) {
	var tokens models.AuthTokens
	if err := c.do(ctx, http.MethodPost, "/api/auth/register", "", req, &tokens); err != nil {
		return nil, err
	}
	return &tokens, nil
}

func (c *Client) Login(ctx context.Context, req models.LoginRequest) (*models.AuthTokens, error) {
	var tokens models.AuthTokens
	if err := c.do(ctx, http.MethodPost, "/api/auth/login", "", req, &tokens); err != nil {
		return nil, err
	}
	return &tokens, nil
}

// Refresh, refresh token'ı yeni token çiftiyle değiştirir. Eski token artık geçersizdir.
func (c *Client) Refresh(ctx context.Context, refreshToken string) (*models.AuthTokens, error) {
	var tokens models.AuthTokens
	if err := c.do(ctx, http.MethodPost, "/api/auth/refresh", "", models.RefreshRequest{RefreshToken: refreshToken}, &tokens); err != nil {
		return nil, err
	}
	return &tokens, nil
}

func (c *Client) Logout(ctx context.Context, refreshToken string) error {
	return c.do(ctx, http.MethodPost, "/api/auth/logout", "", models.RefreshRequest{RefreshToken: refreshToken}, nil)
}

// ─── Users ───

func (c *Client) Me(ctx context.Context, token string) (*models.User, error) {
	var user models.User
	if err := c.do(ctx, http.MethodGet, "/api/users/me", token, nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (c *Client) UpdateMe(ctx context.Context, token string, req models.UpdateProfileRequest) (*models.User, error) {
	var user models.User
	if err := c.do(ctx, http.MethodPatch, "/api/users/me", token, req, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (c *Client) ChangePassword(ctx context.Context, token string, req models.ChangePasswordRequest) error {
	return c.do(ctx, http.MethodPost, "/api/users/me/password", token, req, nil)
}

// ─── Categories ───

func (c *Client) Categories(ctx context.Context) ([]models.Category, error) {
	var categories []models.Category
	if err := c.do(ctx, http.MethodGet, "/api/categories", "", nil, &categories); err != nil {
		return nil, err
	}
	return categories, nil
}

func (c *Client) CreateCategory(ctx context.Context, token string, req models.CreateCategoryRequest) (*models.Category, error) {
	var category models.Category
	if err := c.do(ctx, http.MethodPost, "/api/categories", token, req, &category); err != nil {
		return nil, err
	}
	return &category, nil
}

func (c *Client) UpdateCategory(ctx context.Context, token, id string, req models.UpdateCategoryRequest) (*models.Category, error) {
	var category models.Category
	if err := c.do(ctx, http.MethodPatch, pathf("/api/categories/%s", id), token, req, &category); err != nil {
		return nil, err
	}
	return &category, nil
}

// DeleteCategory, kategorisiz kalan pano sayısını döner.
func (c *Client) DeleteCategory(ctx context.Context, token, id string) (int64, error) {
	var result models.DeleteCategoryResult
	if err := c.do(ctx, http.MethodDelete, pathf("/api/categories/%s", id), token, nil, &result); err != nil {
		return 0, err
	}
	return result.DetachedBoards, nil
}

// ─── Boards ───

// Boards, panoları döner. categoryID boşsa hepsi.
func (c *Client) Boards(ctx context.Context, categoryID string) ([]models.Board, error) {
	q := url.Values{}
	if categoryID != "" {
		q.Set("category_id", categoryID)
	}

	var boards []models.Board
	if err := c.do(ctx, http.MethodGet, withQuery("/api/boards", q), "", nil, &boards); err != nil {
		return nil, err
	}
	return boards, nil
}

// BoardsGrouped, kategorilere göre gruplanmış panolar (ana sayfa).
func (c *Client) BoardsGrouped(ctx context.Context) ([]models.CategoryWithBoards, error) {
	var grouped []models.CategoryWithBoards
	if err := c.do(ctx, http.MethodGet, "/api/boards?grouped=true", "", nil, &grouped); err != nil {
		return nil, err
	}
	return grouped, nil
}

// Board, panoyu id veya slug ile getirir.
func (c *Client) Board(ctx context.Context, ref string) (*models.Board, error) {
	var board models.Board
	if err := c.do(ctx, http.MethodGet, pathf("/api/boards/%s", ref), "", nil, &board); err != nil {
		return nil, err
	}
	return &board, nil
}

func (c *Client) CreateBoard(ctx context.Context, token string, req models.CreateBoardRequest) (*models.Board, error) {
	var board models.Board
	if err := c.do(ctx, http.MethodPost, "/api/boards", token, req, &board); err != nil {
		return nil, err
	}
	return &board, nil
}

func (c *Client) UpdateBoard(ctx context.Context, token, ref string, req models.UpdateBoardRequest) (*models.Board, error) {
	var board models.Board
	if err := c.do(ctx, http.MethodPatch, pathf("/api/boards/%s", ref), token, req, &board); err != nil {
		return nil, err
	}
	return &board, nil
}

func (c *Client) DeleteBoard(ctx context.Context, token, ref string) error {
	return c.do(ctx, http.MethodDelete, pathf("/api/boards/%s", ref), token, nil, nil)
}

// ─── Posts ───

// Posts, panonun yazılarını sayfalı döner. req.Values() olduğu gibi iletilir.
func (c *Client) Posts(ctx context.Context, boardRef string, req models.PageRequest) (*models.Page[models.Post], error) {
	var page models.Page[models.Post]
	path := withQuery(pathf("/api/boards/%s/posts", boardRef), req.Values())
	if err := c.do(ctx, http.MethodGet, path, "", nil, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

func (c *Client) RecentPosts(ctx context.Context, limit int) ([]models.Post, error) {
	q := url.Values{}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}

	var posts []models.Post
	if err := c.do(ctx, http.MethodGet, withQuery("/api/posts/recent", q), "", nil, &posts); err != nil {
		return nil, err
	}
	return posts, nil
}

// Post, yazıyı getirir. countView true ise API view_count'u artırır;
// düzenleme formu gibi okuma sayılmaması gereken yerlerde false verilir.
func (c *Client) Post(ctx context.Context, id string, countView bool) (*models.Post, error) {
	path := pathf("/api/posts/%s", id)
	if !countView {
		path += "?view=false"
	}

	var post models.Post
	if err := c.do(ctx, http.MethodGet, path, "", nil, &post); err != nil {
		return nil, err
	}
	return &post, nil
}

func (c *Client) CreatePost(ctx context.Context, token, boardRef string, req models.CreatePostRequest) (*models.Post, error) {
	var post models.Post
	if err := c.do(ctx, http.MethodPost, pathf("/api/boards/%s/posts", boardRef), token, req, &post); err != nil {
		return nil, err
	}
	return &post, nil
}

func (c *Client) UpdatePost(ctx context.Context, token, id string, req models.UpdatePostRequest) (*models.Post, error) {
	var post models.Post
	if err := c.do(ctx, http.MethodPatch, pathf("/api/posts/%s", id), token, req, &post); err != nil {
		return nil, err
	}
	return &post, nil
}

func (c *Client) DeletePost(ctx context.Context, token, id string) error {
	return c.do(ctx, http.MethodDelete, pathf("/api/posts/%s", id), token, nil, nil)
}

// ─── Admin ───

func (c *Client) AdminUsers(ctx context.Context, token string, req models.PageRequest) (*models.Page[models.User], error) {
	var page models.Page[models.User]
	if err := c.do(ctx, http.MethodGet, withQuery("/api/admin/users", req.Values()), token, nil, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

func (c *Client) UpdateUserRole(ctx context.Context, token, id string, role models.Role) (*models.User, error) {
	var user models.User
	if err := c.do(ctx, http.MethodPatch, pathf("/api/admin/users/%s/role", id), token, models.UpdateRoleRequest{Role: role}, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (c *Client) DeleteUser(ctx context.Context, token, id string) error {
	return c.do(ctx, http.MethodDelete, pathf("/api/admin/users/%s", id), token, nil, nil)
}

func (c *Client) AdminStats(ctx context.Context, token string) (*models.AdminStats, error) {
	var stats models.AdminStats
	if err := c.do(ctx, http.MethodGet, "/api/admin/stats", token, nil, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

func (c *Client) PublicStats(ctx context.Context) (*models.PublicStats, error) {
	var stats models.PublicStats
	if err := c.do(ctx, http.MethodGet, "/api/stats", "", nil, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}
