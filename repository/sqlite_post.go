package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/akinalp/pano/database"
	"github.com/akinalp/pano/models"
	"github.com/akinalp/pano/pkg"
)

// sqlitePostRepo, PostRepository interface'inin SQLite implementasyonu.
type sqlitePostRepo struct {
	db database.TxQuerier
}

// NewSQLitePostRepo, constructor — interface döner.
func NewSQLitePostRepo(db database.TxQuerier) PostRepository {
	return &sqlitePostRepo{db: db}
}

const postSelect = `
	SELECT p.id, p.board_id, b.slug, p.author_id, u.username, p.title, p.content,
	       p.view_count, p.created_at, p.updated_at
	FROM posts p
	JOIN users u ON u.id = p.author_id
	JOIN boards b ON b.id = p.board_id`

// postSortColumns, sort anahtarı → SQL ifadesi (models.PostSortFields ile aynı anahtarlar).
var postSortColumns = map[string]string{
	"created_at": "p.created_at",
	"view_count": "p.view_count",
	"title":      "p.title COLLATE NOCASE",
}

func scanPost(row rowScanner, p *models.Post) error {
	return row.Scan(&p.ID, &p.BoardID, &p.BoardSlug, &p.AuthorID, &p.AuthorUsername,
		&p.Title, &p.Content, &p.ViewCount, &p.CreatedAt, &p.UpdatedAt)
}

func (r *sqlitePostRepo) Create(ctx context.Context, post *models.Post) error {
	query := `
		INSERT INTO posts (id, board_id, author_id, title, content)
		VALUES (lower(hex(randomblob(8))), ?, ?, ?, ?)
		RETURNING id, view_count, created_at, updated_at`

	err := r.db.QueryRowContext(ctx, query,
		post.BoardID,
		post.AuthorID,
		post.Title,
		post.Content,
	).Scan(&post.ID, &post.ViewCount, &post.CreatedAt, &post.UpdatedAt)

	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("%w: board or author does not exist", pkg.ErrBadRequest)
		}
		return fmt.Errorf("failed to create post: %w", err)
	}

	return nil
}

func (r *sqlitePostRepo) GetByID(ctx context.Context, id string) (*models.Post, error) {
	post := &models.Post{}
	err := scanPost(r.db.QueryRowContext(ctx, postSelect+` WHERE p.id = ?`, id), post)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, pkg.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get post by id: %w", err)
	}

	return post, nil
}

func (r *sqlitePostRepo) ListByBoard(ctx context.Context, boardID string, req models.PageRequest) ([]models.Post, int, error) {
	where := `WHERE p.board_id = ?`
	args := []any{boardID}
	if req.Query != "" {
		where += ` AND (p.title LIKE ? ESCAPE '\' OR p.content LIKE ? ESCAPE '\')`
		pattern := likePattern(req.Query)
		args = append(args, pattern, pattern)
	}

	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM posts p `+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count posts: %w", err)
	}

	query := postSelect + ` ` + where + ` ` +
		orderBy(req, postSortColumns, "created_at", "p.id") + ` LIMIT ? OFFSET ?`

	posts, err := r.queryPosts(ctx, query, append(args, req.Size, req.Offset())...)
	if err != nil {
		return nil, 0, err
	}
	return posts, total, nil
}

func (r *sqlitePostRepo) ListRecent(ctx context.Context, limit int) ([]models.Post, error) {
	return r.queryPosts(ctx, postSelect+` ORDER BY p.created_at DESC, p.id DESC LIMIT ?`, limit)
}

func (r *sqlitePostRepo) queryPosts(ctx context.Context, query string, args ...any) ([]models.Post, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}
	defer rows.Close()

	posts := []models.Post{}
	for rows.Next() {
		var p models.Post
		if err := scanPost(rows, &p); err != nil {
			return nil, fmt.Errorf("failed to scan post row: %w", err)
		}
		posts = append(posts, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating post rows: %w", err)
	}

	return posts, nil
}

func (r *sqlitePostRepo) Update(ctx context.Context, post *models.Post) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE posts SET title = ?, content = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		post.Title, post.Content, post.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update post: %w", err)
	}
	return expectOneRow(result)
}

func (r *sqlitePostRepo) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM posts WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete post: %w", err)
	}
	return expectOneRow(result)
}

func (r *sqlitePostRepo) IncrementViewCount(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `UPDATE posts SET view_count = view_count + 1 WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to increment view count: %w", err)
	}
	return expectOneRow(result)
}
