// Package services, business logic katmanını barındırır.
//
// Handler (HTTP) ile Repository (DB) arasında oturur; tüm iş kuralları burada:
// şifre hash'leme, token üretimi, erişim kontrolleri (models.Can*).
//
// Service http.Request bilmez, SQL çalıştırmaz — sadece domain modelleri ve
// repository interface'leri ile konuşur.
package services

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/akinalp/pano/database"
	"github.com/akinalp/pano/models"
	"github.com/akinalp/pano/pkg"
	"github.com/akinalp/pano/repository"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// bcryptCost, şifre hash maliyeti.
const bcryptCost = 12

// tokenIssuer, access JWT'lerin "iss" claim'i.
const tokenIssuer = "pano"

// AuthService, kayıt/giriş/oturum işlemleri.
type AuthService interface {
	Register(ctx context.Context, req *models.CreateUserRequest) (*models.AuthTokens, error)
	Login(ctx context.Context, req *models.LoginRequest) (*models.AuthTokens, error)
	RefreshToken(ctx context.Context, refreshToken string) (*models.AuthTokens, error)
	Logout(ctx context.Context, refreshToken string) error
	ValidateAccessToken(tokenString string) (*models.TokenClaims, error)
	// ChangePassword, şifreyi değiştirir ve kullanıcının TÜM oturumlarını kapatır.
	ChangePassword(ctx context.Context, userID string, req *models.ChangePasswordRequest) error
	// CleanupExpiredSessions, süresi dolmuş refresh token'ları siler.
	CleanupExpiredSessions(ctx context.Context) (int64, error)
}

type authService struct {
	db          *sql.DB // Register'da ilk kullanıcı kontrolü + INSERT tek transaction'da
	userRepo    repository.UserRepository
	sessionRepo repository.SessionRepository
	jwtSecret   []byte
	accessExp   time.Duration
	refreshExp  time.Duration
	now         func() time.Time
}

// NewAuthService, constructor.
func NewAuthService(
	db *sql.DB,
	userRepo repository.UserRepository,
	sessionRepo repository.SessionRepository,
	jwtSecret string,
	accessExpMinutes int,
	refreshExpDays int,
) AuthService {
	return &authService{
		db:          db,
		userRepo:    userRepo,
		sessionRepo: sessionRepo,
		jwtSecret:   []byte(jwtSecret),
		accessExp:   time.Duration(accessExpMinutes) * time.Minute,
		refreshExp:  time.Duration(refreshExpDays) * 24 * time.Hour,
		now:         time.Now,
	}
}

// Register, yeni kullanıcı oluşturur ve oturum açar.
//
// Sistemdeki ilk kullanıcı ADMIN olur; böylece kurulumdan sonra arayüzden
// yönetim yapılabilir. Sayım ve INSERT aynı transaction'da çalışır.
func (s *authService) Register(ctx context.Context, req *models.CreateUserRequest) (*models.AuthTokens, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s", pkg.ErrBadRequest, err.Error())
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Username:     req.Username,
		DisplayName:  optionalString(req.DisplayName),
		Email:        optionalString(req.Email),
		PasswordHash: string(hash),
		Role:         models.RoleUser,
	}

	err = database.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		txUserRepo := repository.NewSQLiteUserRepo(tx)

		count, err := txUserRepo.Count(ctx)
		if err != nil {
			return err
		}
		if count == 0 {
			user.Role = models.RoleAdmin
		}

		return txUserRepo.Create(ctx, user)
	})
	if err != nil {
		return nil, err // ErrAlreadyExists olabilir
	}

	if user.Role == models.RoleAdmin {
		log.Printf("[auth] first user %q registered as ADMIN", user.Username)
	}

	return s.generateTokens(ctx, user)
}

// Login, kullanıcı adı + şifre ile giriş.
// Kullanıcı yok ve şifre yanlış aynı mesajı döner — kullanıcı adı tahmini zorlaşır.
func (s *authService) Login(ctx context.Context, req *models.LoginRequest) (*models.AuthTokens, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s", pkg.ErrBadRequest, err.Error())
	}

	user, err := s.userRepo.GetByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, pkg.ErrNotFound) {
			return nil, fmt.Errorf("%w: invalid username or password", pkg.ErrUnauthorized)
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, fmt.Errorf("%w: invalid username or password", pkg.ErrUnauthorized)
	}

	return s.generateTokens(ctx, user)
}

// RefreshToken, refresh token'ı yeni bir token çiftiyle değiştirir (rotation).
// Eski oturum her durumda silinir; aynı refresh token ikinci kez kullanılamaz.
func (s *authService) RefreshToken(ctx context.Context, refreshToken string) (*models.AuthTokens, error) {
	if refreshToken == "" {
		return nil, fmt.Errorf("%w: refresh token required", pkg.ErrUnauthorized)
	}

	session, err := s.sessionRepo.GetByRefreshToken(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, pkg.ErrNotFound) {
			return nil, fmt.Errorf("%w: invalid refresh token", pkg.ErrUnauthorized)
		}
		return nil, err
	}

	if err := s.sessionRepo.DeleteByID(ctx, session.ID); err != nil && !errors.Is(err, pkg.ErrNotFound) {
		return nil, fmt.Errorf("failed to delete old session: %w", err)
	}

	if s.now().After(session.ExpiresAt) {
		return nil, fmt.Errorf("%w: refresh token expired", pkg.ErrUnauthorized)
	}

	user, err := s.userRepo.GetByID(ctx, session.UserID)
	if err != nil {
		if errors.Is(err, pkg.ErrNotFound) {
			return nil, fmt.Errorf("%w: user no longer exists", pkg.ErrUnauthorized)
		}
		return nil, err
	}

	return s.generateTokens(ctx, user)
}

// Logout, refresh token'ın oturumunu siler. Bilinmeyen token hata değildir.
func (s *authService) Logout(ctx context.Context, refreshToken string) error {
	if refreshToken == "" {
		return nil
	}

	session, err := s.sessionRepo.GetByRefreshToken(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, pkg.ErrNotFound) {
			return nil
		}
		return err
	}

	if err := s.sessionRepo.DeleteByID(ctx, session.ID); err != nil && !errors.Is(err, pkg.ErrNotFound) {
		return err
	}
	return nil
}

// ValidateAccessToken, JWT imzasını ve süresini doğrular.
func (s *authService) ValidateAccessToken(tokenString string) (*models.TokenClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &models.TokenClaims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.jwtSecret, nil
	},
		jwt.WithIssuer(tokenIssuer),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid token", pkg.ErrUnauthorized)
	}

	claims, ok := token.Claims.(*models.TokenClaims)
	if !ok || !token.Valid || claims.UserID == "" {
		return nil, fmt.Errorf("%w: invalid token claims", pkg.ErrUnauthorized)
	}

	return claims, nil
}

func (s *authService) ChangePassword(ctx context.Context, userID string, req *models.ChangePasswordRequest) error {
	if err := req.Validate(); err != nil {
		return fmt.Errorf("%w: %s", pkg.ErrBadRequest, err.Error())
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.CurrentPassword)); err != nil {
		return fmt.Errorf("%w: current password is incorrect", pkg.ErrBadRequest)
	}

	newHash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcryptCost)
	if err != nil {
		return fmt.Errorf("failed to hash new password: %w", err)
	}

	if err := s.userRepo.UpdatePassword(ctx, userID, string(newHash)); err != nil {
		return err
	}

	// Çalınmış olabilecek refresh token'lar da geçersiz olsun.
	if err := s.sessionRepo.DeleteByUserID(ctx, userID); err != nil {
		return fmt.Errorf("failed to revoke sessions: %w", err)
	}
	return nil
}

func (s *authService) CleanupExpiredSessions(ctx context.Context) (int64, error) {
	return s.sessionRepo.DeleteExpired(ctx, s.now())
}

// ─── Private Helpers ───

func (s *authService) generateTokens(ctx context.Context, user *models.User) (*models.AuthTokens, error) {
	now := s.now()
	accessClaims := &models.TokenClaims{
		UserID:   user.ID,
		Username: user.Username,
		Role:     user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			ExpiresAt: jwt.NewNumericDate(now.Add(s.accessExp)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    tokenIssuer,
		},
	}

	accessString, err := jwt.NewWithClaims(jwt.SigningMethodHS256, accessClaims).SignedString(s.jwtSecret)
	if err != nil {
		return nil, fmt.Errorf("failed to sign access token: %w", err)
	}

	refreshString, err := randomToken(32)
	if err != nil {
		return nil, fmt.Errorf("failed to generate refresh token: %w", err)
	}

	session := &models.Session{
		UserID:       user.ID,
		RefreshToken: refreshString,
		ExpiresAt:    now.Add(s.refreshExp),
	}
	if err := s.sessionRepo.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	user.PasswordHash = ""

	return &models.AuthTokens{
		AccessToken:  accessString,
		RefreshToken: refreshString,
		User:         *user,
	}, nil
}

// randomToken, n byte'lık kriptografik rastgele değeri hex olarak döner.
func randomToken(n int) (string, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// optionalString, boş string'i NULL'a çevirir.
func optionalString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
