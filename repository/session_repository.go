package repository

import (
	"context"
	"time"

	"github.com/akinalp/pano/models"
)

// SessionRepository, refresh token oturumları için interface.
type SessionRepository interface {
	Create(ctx context.Context, session *models.Session) error
	GetByRefreshToken(ctx context.Context, token string) (*models.Session, error)
	DeleteByID(ctx context.Context, id string) error
	// DeleteByUserID, kullanıcının tüm oturumlarını iptal eder (şifre değişimi).
	DeleteByUserID(ctx context.Context, userID string) error
	// DeleteExpired, süresi dolmuş oturumları siler ve silinen sayıyı döner.
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}
