package handlers

import (
	"net/http"

	"github.com/akinalp/pano/models"
	"github.com/akinalp/pano/pkg"
	"github.com/akinalp/pano/services"
)

// UserHandler, /api/users/me endpoint'leri. Hepsi auth gerektirir.
type UserHandler struct {
	userService services.UserService
	authService services.AuthService
}

func NewUserHandler(userService services.UserService, authService services.AuthService) *UserHandler {
	return &UserHandler{
		userService: userService,
		authService: authService,
	}
}

// Me godoc
// GET /api/users/me
func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(w, r)
	if !ok {
		return
	}

	pkg.JSON(w, http.StatusOK, user)
}

// UpdateMe godoc
// PATCH /api/users/me
// Body: { "display_name"?: "...", "email"?: "..." }
func (h *UserHandler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(w, r)
	if !ok {
		return
	}

	var req models.UpdateProfileRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	updated, err := h.userService.UpdateProfile(r.Context(), user.ID, &req)
	if err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusOK, updated)
}

// ChangePassword godoc
// POST /api/users/me/password
// Body: { "current_password": "...", "new_password": "..." }
// Başarılı olursa tüm oturumlar kapanır; istemci yeniden giriş yapmalıdır.
func (h *UserHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(w, r)
	if !ok {
		return
	}

	var req models.ChangePasswordRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if err := h.authService.ChangePassword(r.Context(), user.ID, &req); err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusOK, map[string]string{"message": "password changed"})
}
