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

// sqliteCategoryRepo, CategoryRepository interface'inin SQLite implementasyonu.
type sqliteCategoryRepo struct {
	db database.TxQuerier
}

// NewSQLiteCategoryRepo, constructor — interface döner.
func NewSQLiteCategoryRepo(db database.TxQuerier) CategoryRepository {
	return &sqliteCategoryRepo{db: db}
}

func (r *sqliteCategoryRepo) Create(ctx context.Context, category *models.Category) error {
	query := `
		INSERT INTO categories (id, name, position)
		VALUES (lower(hex(randomblob(8))), ?, ?)
		RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query, category.Name, category.Position).
		Scan(&category.ID, &category.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create category: %w", err)
	}

	return nil
}

func (r *sqliteCategoryRepo) GetByID(ctx context.Context, id string) (*models.Category, error) {
	cat := &models.Category{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, position, created_at FROM categories WHERE id = ?`, id,
	).Scan(&cat.ID, &cat.Name, &cat.Position, &cat.CreatedAt)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, pkg.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get category by id: %w", err)
	}

	return cat, nil
}

func (r *sqliteCategoryRepo) GetAll(ctx context.Context) ([]models.Category, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, position, created_at FROM categories ORDER BY position ASC, created_at ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to get categories: %w", err)
	}
	defer rows.Close()

	categories := []models.Category{}
	for rows.Next() {
		var cat models.Category
		if err := rows.Scan(&cat.ID, &cat.Name, &cat.Position, &cat.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan category row: %w", err)
		}
		categories = append(categories, cat)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating category rows: %w", err)
	}

	return categories, nil
}

func (r *sqliteCategoryRepo) Update(ctx context.Context, category *models.Category) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE categories SET name = ?, position = ? WHERE id = ?`,
		category.Name, category.Position, category.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update category: %w", err)
	}
	return expectOneRow(result)
}

// Delete, panoları ayırma ve silmeyi tek transaction'da yapar.
// Repo zaten bir *sql.Tx ile kurulduysa o transaction kullanılır.
func (r *sqliteCategoryRepo) Delete(ctx context.Context, id string) (int64, error) {
	conn, ok := r.db.(*sql.DB)
	if !ok {
		return deleteCategory(ctx, r.db, id)
	}

	var detached int64
	err := database.WithTx(ctx, conn, func(tx *sql.Tx) error {
		n, err := deleteCategory(ctx, tx, id)
		detached = n
		return err
	})
	if err != nil {
		return 0, err
	}
	return detached, nil
}

func deleteCategory(ctx context.Context, q database.TxQuerier, id string) (int64, error) {
	result, err := q.ExecContext(ctx, `UPDATE boards SET category_id = NULL WHERE category_id = ?`, id)
	if err != nil {
		return 0, fmt.Errorf("failed to detach boards: %w", err)
	}
	detached, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to detach boards: %w", err)
	}

	result, err = q.ExecContext(ctx, `DELETE FROM categories WHERE id = ?`, id)
	if err != nil {
		return 0, fmt.Errorf("failed to delete category: %w", err)
	}
	if err := expectOneRow(result); err != nil {
		return 0, err
	}
	return detached, nil
}

// GetMaxPosition, en yüksek kategori position değerini döner (kategori yoksa -1).
func (r *sqliteCategoryRepo) GetMaxPosition(ctx context.Context) (int, error) {
	var maxPos int
	if err := r.db.QueryRowContext(ctx,
		`SELECT COALESCE(MAX(position), -1) FROM categories`,
	).Scan(&maxPos); err != nil {
		return 0, fmt.Errorf("failed to get max category position: %w", err)
	}
	return maxPos, nil
}
