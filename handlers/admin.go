package handlers

import (
	"net/http"

	"github.com/akinalp/pano/models"
	"github.com/akinalp/pano/pkg"
	"github.com/akinalp/pano/services"
)

// AdminHandler, /api/admin endpoint'leri. Route'lar AdminMiddleware arkasındadır.
type AdminHandler struct {
	adminService services.AdminService
}

func NewAdminHandler(adminService services.AdminService) *AdminHandler {
	return &AdminHandler{adminService: adminService}
}

// ListUsers godoc
// GET /api/admin/users?page=&size=&sort=&order=&q=
func (h *AdminHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	req := models.ParsePageRequest(r.URL.Query(), models.UserPageOptions)

	page, err := h.adminService.ListUsers(r.Context(), req)
	if err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusOK, page)
}

// UpdateUserRole godoc
// PATCH /api/admin/users/{id}/role
// Body: { "role": "ADMIN" }
func (h *AdminHandler) UpdateUserRole(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireUser(w, r)
	if !ok {
		return
	}

	var req models.UpdateRoleRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	user, err := h.adminService.UpdateUserRole(r.Context(), actor, r.PathValue("id"), &req)
	if err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusOK, user)
}

// DeleteUser godoc
// DELETE /api/admin/users/{id}
func (h *AdminHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireUser(w, r)
	if !ok {
		return
	}

	if err := h.adminService.DeleteUser(r.Context(), actor, r.PathValue("id")); err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusOK, map[string]string{"message": "user deleted"})
}

// Stats godoc
// GET /api/admin/stats
func (h *AdminHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.adminService.GetStats(r.Context())
	if err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusOK, stats)
}
