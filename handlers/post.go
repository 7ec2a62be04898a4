package handlers

import (
	"net/http"
	"strconv"

	"github.com/akinalp/pano/models"
	"github.com/akinalp/pano/pkg"
	"github.com/akinalp/pano/pkg/ratelimit"
	"github.com/akinalp/pano/services"
)

// PostHandler, yazı endpoint'leri.
type PostHandler struct {
	postService services.PostService
	postLimiter *ratelimit.PostRateLimiter
}

// NewPostHandler, constructor. postLimiter nil ise yazı rate limit'i kapalıdır.
func NewPostHandler(postService services.PostService, postLimiter *ratelimit.PostRateLimiter) *PostHandler {
	return &PostHandler{
		postService: postService,
		postLimiter: postLimiter,
	}
}

// ListByBoard godoc
// GET /api/boards/{id}/posts?page=&size=&sort=&order=&q=
func (h *PostHandler) ListByBoard(w http.ResponseWriter, r *http.Request) {
	req := models.ParsePageRequest(r.URL.Query(), models.PostPageOptions)

	page, err := h.postService.ListByBoard(r.Context(), r.PathValue("id"), req)
	if err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusOK, page)
}

// Create godoc
// POST /api/boards/{id}/posts
// Panonun write_role'ü viewer'ın rolünden yüksekse 403.
func (h *PostHandler) Create(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(w, r)
	if !ok {
		return
	}

	if h.postLimiter != nil && !h.postLimiter.Allow(user.ID) {
		cooldown := h.postLimiter.CooldownSeconds(user.ID)
		w.Header().Set("Retry-After", strconv.Itoa(cooldown))
		pkg.ErrorWithMessage(w, http.StatusTooManyRequests,
			"you are posting too fast, please wait "+ratelimit.FormatRetryMessage(cooldown))
		return
	}

	var req models.CreatePostRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	post, err := h.postService.Create(r.Context(), user, r.PathValue("id"), &req)
	if err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusCreated, post)
}

// Recent godoc
// GET /api/posts/recent?limit=
func (h *PostHandler) Recent(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	posts, err := h.postService.GetRecent(r.Context(), limit)
	if err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusOK, posts)
}

// Get godoc
// GET /api/posts/{id}?view=false
// Her çağrı view_count'u bir artırır; view=false sayılmayan okuma yapar.
func (h *PostHandler) Get(w http.ResponseWriter, r *http.Request) {
	get := h.postService.View
	if r.URL.Query().Get("view") == "false" {
		get = h.postService.Get
	}

	post, err := get(r.Context(), r.PathValue("id"))
	if err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusOK, post)
}

// Update godoc
// PATCH /api/posts/{id}
func (h *PostHandler) Update(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(w, r)
	if !ok {
		return
	}

	var req models.UpdatePostRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	post, err := h.postService.Update(r.Context(), user, r.PathValue("id"), &req)
	if err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusOK, post)
}

// Delete godoc
// DELETE /api/posts/{id}
func (h *PostHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(w, r)
	if !ok {
		return
	}

	if err := h.postService.Delete(r.Context(), user, r.PathValue("id")); err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusOK, map[string]string{"message": "post deleted"})
}
