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

// sqliteBoardRepo, BoardRepository interface'inin SQLite implementasyonu.
type sqliteBoardRepo struct {
	db database.TxQuerier
}

// NewSQLiteBoardRepo, constructor — interface döner.
func NewSQLiteBoardRepo(db database.TxQuerier) BoardRepository {
	return &sqliteBoardRepo{db: db}
}

// boardSelect, post_count'u correlated subquery ile hesaplar —
// pano sayısı az olduğu için ayrı sayaç kolonu tutmaya gerek yok.
const boardSelect = `
	SELECT b.id, b.slug, b.name, b.description, b.category_id, b.write_role, b.position,
	       (SELECT COUNT(*) FROM posts p WHERE p.board_id = b.id) AS post_count,
	       b.created_at
	FROM boards b`

func scanBoard(row rowScanner, b *models.Board) error {
	return row.Scan(&b.ID, &b.Slug, &b.Name, &b.Description, &b.CategoryID,
		&b.WriteRole, &b.Position, &b.PostCount, &b.CreatedAt)
}

func (r *sqliteBoardRepo) Create(ctx context.Context, board *models.Board) error {
	query := `
		INSERT INTO boards (id, slug, name, description, category_id, write_role, position)
		VALUES (lower(hex(randomblob(8))), ?, ?, ?, ?, ?, ?)
		RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query,
		board.Slug,
		board.Name,
		board.Description,
		board.CategoryID,
		board.WriteRole,
		board.Position,
	).Scan(&board.ID, &board.CreatedAt)

	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: slug already in use", pkg.ErrAlreadyExists)
		}
		if isForeignKeyViolation(err) {
			return fmt.Errorf("%w: category does not exist", pkg.ErrBadRequest)
		}
		return fmt.Errorf("failed to create board: %w", err)
	}

	return nil
}

func (r *sqliteBoardRepo) GetByID(ctx context.Context, id string) (*models.Board, error) {
	return r.getOne(ctx, `WHERE b.id = ?`, id)
}

func (r *sqliteBoardRepo) GetBySlug(ctx context.Context, slug string) (*models.Board, error) {
	return r.getOne(ctx, `WHERE b.slug = ?`, slug)
}

func (r *sqliteBoardRepo) getOne(ctx context.Context, where string, arg any) (*models.Board, error) {
	board := &models.Board{}
	err := scanBoard(r.db.QueryRowContext(ctx, boardSelect+" "+where, arg), board)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, pkg.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get board: %w", err)
	}

	return board, nil
}

func (r *sqliteBoardRepo) GetAll(ctx context.Context) ([]models.Board, error) {
	rows, err := r.db.QueryContext(ctx, boardSelect+` ORDER BY b.position ASC, b.created_at ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to get boards: %w", err)
	}
	defer rows.Close()

	boards := []models.Board{}
	for rows.Next() {
		var b models.Board
		if err := scanBoard(rows, &b); err != nil {
			return nil, fmt.Errorf("failed to scan board row: %w", err)
		}
		boards = append(boards, b)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating board rows: %w", err)
	}

	return boards, nil
}

func (r *sqliteBoardRepo) Update(ctx context.Context, board *models.Board) error {
	result, err := r.db.ExecContext(ctx, `
		UPDATE boards
		SET slug = ?, name = ?, description = ?, category_id = ?, write_role = ?, position = ?
		WHERE id = ?`,
		board.Slug, board.Name, board.Description, board.CategoryID,
		board.WriteRole, board.Position, board.ID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: slug already in use", pkg.ErrAlreadyExists)
		}
		if isForeignKeyViolation(err) {
			return fmt.Errorf("%w: category does not exist", pkg.ErrBadRequest)
		}
		return fmt.Errorf("failed to update board: %w", err)
	}
	return expectOneRow(result)
}

func (r *sqliteBoardRepo) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM boards WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete board: %w", err)
	}
	return expectOneRow(result)
}

func (r *sqliteBoardRepo) GetMaxPosition(ctx context.Context) (int, error) {
	var maxPos int
	if err := r.db.QueryRowContext(ctx,
		`SELECT COALESCE(MAX(position), -1) FROM boards`,
	).Scan(&maxPos); err != nil {
		return 0, fmt.Errorf("failed to get max board position: %w", err)
	}
	return maxPos, nil
}
