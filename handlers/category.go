package handlers

import (
	"net/http"

	"github.com/akinalp/pano/models"
	"github.com/akinalp/pano/pkg"
	"github.com/akinalp/pano/services"
)

// CategoryHandler, kategori endpoint'leri. Yazma route'ları ADMIN ister.
type CategoryHandler struct {
	categoryService services.CategoryService
}

func NewCategoryHandler(categoryService services.CategoryService) *CategoryHandler {
	return &CategoryHandler{categoryService: categoryService}
}

// List godoc
// GET /api/categories
func (h *CategoryHandler) List(w http.ResponseWriter, r *http.Request) {
	categories, err := h.categoryService.GetAll(r.Context())
	if err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusOK, categories)
}

// Create godoc
// POST /api/categories
func (h *CategoryHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.CreateCategoryRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	category, err := h.categoryService.Create(r.Context(), &req)
	if err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusCreated, category)
}

// Update godoc
// PATCH /api/categories/{id}
func (h *CategoryHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req models.UpdateCategoryRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	category, err := h.categoryService.Update(r.Context(), r.PathValue("id"), &req)
	if err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusOK, category)
}

// Delete godoc
// DELETE /api/categories/{id}
// Panolar silinmez; yanıt kategorisiz kalan pano sayısını taşır.
func (h *CategoryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	detached, err := h.categoryService.Delete(r.Context(), r.PathValue("id"))
	if err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusOK, models.DeleteCategoryResult{DetachedBoards: detached})
}
