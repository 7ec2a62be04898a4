package handlers

import (
	"net/http"

	"github.com/akinalp/pano/models"
	"github.com/akinalp/pano/pkg"
	"github.com/akinalp/pano/services"
)

// BoardHandler, pano endpoint'leri. {id} hem id hem slug kabul eder.
type BoardHandler struct {
	boardService services.BoardService
}

func NewBoardHandler(boardService services.BoardService) *BoardHandler {
	return &BoardHandler{boardService: boardService}
}

// List godoc
// GET /api/boards?category_id=
// ?grouped=true → kategorilere göre gruplanmış liste (ana sayfa).
func (h *BoardHandler) List(w http.ResponseWriter, r *http.Request) {
	if r.URL.Query().Get("grouped") == "true" {
		grouped, err := h.boardService.GetGrouped(r.Context())
		if err != nil {
			pkg.Error(w, err)
			return
		}
		pkg.JSON(w, http.StatusOK, grouped)
		return
	}

	boards, err := h.boardService.GetAll(r.Context(), r.URL.Query().Get("category_id"))
	if err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusOK, boards)
}

// Get godoc
// GET /api/boards/{id}
func (h *BoardHandler) Get(w http.ResponseWriter, r *http.Request) {
	board, err := h.boardService.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusOK, board)
}

// Create godoc
// POST /api/boards
func (h *BoardHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.CreateBoardRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	board, err := h.boardService.Create(r.Context(), &req)
	if err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusCreated, board)
}

// Update godoc
// PATCH /api/boards/{id}
func (h *BoardHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req models.UpdateBoardRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	board, err := h.boardService.Update(r.Context(), r.PathValue("id"), &req)
	if err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusOK, board)
}

// Delete godoc
// DELETE /api/boards/{id}
func (h *BoardHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.boardService.Delete(r.Context(), r.PathValue("id")); err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusOK, map[string]string{"message": "board deleted"})
}
