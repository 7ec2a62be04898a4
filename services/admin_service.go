package services

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/akinalp/pano/models"
	"github.com/akinalp/pano/pkg"
	"github.com/akinalp/pano/repository"
)

// AdminService, back-office kullanıcı yönetimi ve istatistikler.
//
// Rol değişikliği ve silme models.CanManageUser ile korunur: admin kendini
// veya başka bir admin'i değiştiremez. Bu kuralın tek istisnası sunucu
// konsolundan çalışan SetRoleByUsername'dir (pano user promote/demote).
type AdminService interface {
	ListUsers(ctx context.Context, req models.PageRequest) (*models.Page[models.User], error)
	UpdateUserRole(ctx context.Context, actor *models.User, targetID string, req *models.UpdateRoleRequest) (*models.User, error)
	DeleteUser(ctx context.Context, actor *models.User, targetID string) error
	GetStats(ctx context.Context) (*models.AdminStats, error)
	GetPublicStats(ctx context.Context) (*models.PublicStats, error)
	SetRoleByUsername(ctx context.Context, username string, role models.Role) (*models.User, error)
}

type adminService struct {
	userRepo    repository.UserRepository
	sessionRepo repository.SessionRepository
	statsRepo   repository.StatsRepository
}

func NewAdminService(
	userRepo repository.UserRepository,
	sessionRepo repository.SessionRepository,
	statsRepo repository.StatsRepository,
) AdminService {
	return &adminService{
		userRepo:    userRepo,
		sessionRepo: sessionRepo,
		statsRepo:   statsRepo,
	}
}

func (s *adminService) ListUsers(ctx context.Context, req models.PageRequest) (*models.Page[models.User], error) {
	users, total, err := s.userRepo.List(ctx, req)
	if err != nil {
		return nil, err
	}
	for i := range users {
		users[i].PasswordHash = ""
	}

	page := models.NewPage(users, req, total)
	return &page, nil
}

func (s *adminService) UpdateUserRole(ctx context.Context, actor *models.User, targetID string, req *models.UpdateRoleRequest) (*models.User, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s", pkg.ErrBadRequest, err.Error())
	}

	target, err := s.userRepo.GetByID(ctx, targetID)
	if err != nil {
		return nil, err
	}

	if !models.CanAssignRole(actor, target, req.Role) {
		return nil, fmt.Errorf("%w: you cannot change this user's role", pkg.ErrForbidden)
	}

	if target.Role == req.Role {
		target.PasswordHash = ""
		return target, nil
	}

	if err := s.userRepo.UpdateRole(ctx, target.ID, req.Role); err != nil {
		return nil, err
	}

	log.Printf("[admin] %s changed role of %s: %s -> %s", actor.Username, target.Username, target.Role, req.Role)

	target.Role = req.Role
	target.PasswordHash = ""
	return target, nil
}

// DeleteUser, kullanıcıyı siler. Yazıları ve oturumları CASCADE ile gider.
func (s *adminService) DeleteUser(ctx context.Context, actor *models.User, targetID string) error {
	target, err := s.userRepo.GetByID(ctx, targetID)
	if err != nil {
		return err
	}

	if !models.CanManageUser(actor, target) {
		return fmt.Errorf("%w: you cannot delete this user", pkg.ErrForbidden)
	}

	if err := s.userRepo.Delete(ctx, target.ID); err != nil {
		return err
	}

	log.Printf("[admin] %s deleted user %s", actor.Username, target.Username)
	return nil
}

func (s *adminService) GetStats(ctx context.Context) (*models.AdminStats, error) {
	return s.statsRepo.AdminStats(ctx)
}

func (s *adminService) GetPublicStats(ctx context.Context) (*models.PublicStats, error) {
	return s.statsRepo.PublicStats(ctx)
}

// SetRoleByUsername, yetki kontrolü yapmadan rol atar. Sadece CLI kullanır.
// Rol düşürülürse kullanıcının oturumları kapatılır.
func (s *adminService) SetRoleByUsername(ctx context.Context, username string, role models.Role) (*models.User, error) {
	if !role.Valid() {
		return nil, fmt.Errorf("%w: unknown role %q", pkg.ErrBadRequest, role)
	}

	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, pkg.ErrNotFound) {
			return nil, fmt.Errorf("%w: user %q", pkg.ErrNotFound, username)
		}
		return nil, err
	}

	if err := s.userRepo.UpdateRole(ctx, user.ID, role); err != nil {
		return nil, err
	}

	if models.IsRoleHigherThan(user.Role, role) {
		if err := s.sessionRepo.DeleteByUserID(ctx, user.ID); err != nil {
			return nil, fmt.Errorf("failed to revoke sessions: %w", err)
		}
	}

	user.Role = role
	user.PasswordHash = ""
	return user, nil
}
