package repository

import (
	"context"

	"github.com/akinalp/pano/models"
)

// StatsRepository, özet sayılar için salt-okunur sorgular.
type StatsRepository interface {
	AdminStats(ctx context.Context) (*models.AdminStats, error)
	PublicStats(ctx context.Context) (*models.PublicStats, error)
}
