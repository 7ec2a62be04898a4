package repository

import (
	"context"
	"fmt"

	"github.com/akinalp/pano/database"
	"github.com/akinalp/pano/models"
)

type sqliteStatsRepo struct {
	db database.TxQuerier
}

// NewSQLiteStatsRepo, constructor — interface döner.
func NewSQLiteStatsRepo(db database.TxQuerier) StatsRepository {
	return &sqliteStatsRepo{db: db}
}

func (r *sqliteStatsRepo) AdminStats(ctx context.Context) (*models.AdminStats, error) {
	query := `
		SELECT
			(SELECT COUNT(*) FROM users),
			(SELECT COUNT(*) FROM users WHERE role = 'ADMIN'),
			(SELECT COUNT(*) FROM categories),
			(SELECT COUNT(*) FROM boards),
			(SELECT COUNT(*) FROM posts)`

	s := &models.AdminStats{}
	if err := r.db.QueryRowContext(ctx, query).Scan(
		&s.UserCount, &s.AdminCount, &s.CategoryCount, &s.BoardCount, &s.PostCount,
	); err != nil {
		return nil, fmt.Errorf("failed to get admin stats: %w", err)
	}
	return s, nil
}

func (r *sqliteStatsRepo) PublicStats(ctx context.Context) (*models.PublicStats, error) {
	s := &models.PublicStats{}
	if err := r.db.QueryRowContext(ctx,
		`SELECT (SELECT COUNT(*) FROM users), (SELECT COUNT(*) FROM posts)`,
	).Scan(&s.TotalUsers, &s.TotalPosts); err != nil {
		return nil, fmt.Errorf("failed to get public stats: %w", err)
	}
	return s, nil
}
