package web

import (
	"errors"
	"net/http"

	"github.com/akinalp/pano/models"
	"github.com/akinalp/pano/pkg"
)

const homeRecentLimit = 10

type homePage struct {
	Categories []models.CategoryWithBoards
	Recent     []models.Post
}

// home: kategoriler + panolar + son yazılar.
func (s *Server) home(w http.ResponseWriter, r *http.Request) {
	grouped, err := s.api.BoardsGrouped(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}

	recent, err := s.api.RecentPosts(r.Context(), homeRecentLimit)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	s.render(w, r, http.StatusOK, "home", "home.title", homePage{Categories: grouped, Recent: recent})
}

type boardPage struct {
	Board   *models.Board
	Posts   *models.Page[models.Post]
	Request models.PageRequest
}

// board: sayfalı, sıralanabilir, aranabilir yazı listesi.
func (s *Server) board(w http.ResponseWriter, r *http.Request) {
	board, err := s.api.Board(r.Context(), r.PathValue("slug"))
	if err != nil {
		s.fail(w, r, err)
		return
	}

	req := models.ParsePageRequest(r.URL.Query(), models.PostPageOptions)
	posts, err := s.api.Posts(r.Context(), board.ID, req)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	d := s.pageData(r, "", boardPage{Board: board, Posts: posts, Request: req})
	d.Title = board.Name
	s.renderer.Render(w, http.StatusOK, "board", d)
}

// post: yazı detayı. Düzenle/Sil butonları CanModifyPost ile gösterilir.
func (s *Server) post(w http.ResponseWriter, r *http.Request) {
	post, err := s.api.Post(r.Context(), r.PathValue("id"), true)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	d := s.pageData(r, "", post)
	d.Title = post.Title
	s.renderer.Render(w, http.StatusOK, "post", d)
}

// postForm, yeni yazı ve düzenleme formunun ortak verisi.
type postForm struct {
	Board  *models.Board
	Post   *models.Post // Düzenlemede dolu
	Title  string
	Body   string
	Action string
}

func (s *Server) newPostForm(w http.ResponseWriter, r *http.Request) {
	board, ok := s.writableBoard(w, r)
	if !ok {
		return
	}
	s.render(w, r, http.StatusOK, "post_form", "post.newTitle", postForm{
		Board:  board,
		Action: "/boards/" + board.Slug + "/new",
	})
}

func (s *Server) createPost(w http.ResponseWriter, r *http.Request) {
	board, ok := s.writableBoard(w, r)
	if !ok {
		return
	}

	session := SessionFromContext(r.Context())
	req := models.CreatePostRequest{
		Title:   r.PostFormValue("title"),
		Content: r.PostFormValue("content"),
	}

	post, err := s.api.CreatePost(r.Context(), session.AccessToken, board.ID, req)
	if err != nil {
		if isFormError(err) {
			s.renderForm(w, r, "post_form", "post.newTitle", postForm{
				Board:  board,
				Title:  req.Title,
				Body:   req.Content,
				Action: "/boards/" + board.Slug + "/new",
			}, err)
			return
		}
		s.fail(w, r, err)
		return
	}

	http.Redirect(w, r, "/posts/"+post.ID, http.StatusSeeOther)
}

// writableBoard, panoyu getirir ve viewer'ın yazı açma yetkisini kontrol eder.
// Yetki yoksa 403 sayfası; API de aynı kuralla reddederdi.
func (s *Server) writableBoard(w http.ResponseWriter, r *http.Request) (*models.Board, bool) {
	board, err := s.api.Board(r.Context(), r.PathValue("slug"))
	if err != nil {
		s.fail(w, r, err)
		return nil, false
	}
	if !models.CanCreatePost(SessionFromContext(r.Context()).Viewer, board) {
		s.renderStatus(w, r, http.StatusForbidden)
		return nil, false
	}
	return board, true
}

// editablePost, yazıyı (görüntülenme saymadan) getirir ve CanModifyPost kontrol eder.
func (s *Server) editablePost(w http.ResponseWriter, r *http.Request) (*models.Post, bool) {
	post, err := s.api.Post(r.Context(), r.PathValue("id"), false)
	if err != nil {
		s.fail(w, r, err)
		return nil, false
	}
	if !models.CanModifyPost(SessionFromContext(r.Context()).Viewer, post) {
		s.renderStatus(w, r, http.StatusForbidden)
		return nil, false
	}
	return post, true
}

func (s *Server) editPostForm(w http.ResponseWriter, r *http.Request) {
	post, ok := s.editablePost(w, r)
	if !ok {
		return
	}
	s.render(w, r, http.StatusOK, "post_form", "post.editTitle", postForm{
		Post:   post,
		Title:  post.Title,
		Body:   post.Content,
		Action: "/posts/" + post.ID + "/edit",
	})
}

func (s *Server) updatePost(w http.ResponseWriter, r *http.Request) {
	post, ok := s.editablePost(w, r)
	if !ok {
		return
	}

	title := r.PostFormValue("title")
	content := r.PostFormValue("content")
	req := models.UpdatePostRequest{Title: &title, Content: &content}

	if _, err := s.api.UpdatePost(r.Context(), SessionFromContext(r.Context()).AccessToken, post.ID, req); err != nil {
		if isFormError(err) {
			s.renderForm(w, r, "post_form", "post.editTitle", postForm{
				Post:   post,
				Title:  title,
				Body:   content,
				Action: "/posts/" + post.ID + "/edit",
			}, err)
			return
		}
		s.fail(w, r, err)
		return
	}

	http.Redirect(w, r, "/posts/"+post.ID+"?notice=postSaved", http.StatusSeeOther)
}

func (s *Server) deletePost(w http.ResponseWriter, r *http.Request) {
	post, ok := s.editablePost(w, r)
	if !ok {
		return
	}

	if err := s.api.DeletePost(r.Context(), SessionFromContext(r.Context()).AccessToken, post.ID); err != nil {
		s.fail(w, r, err)
		return
	}

	http.Redirect(w, r, "/boards/"+post.BoardSlug+"?notice=postDeleted", http.StatusSeeOther)
}

// isFormError: formu hata mesajıyla tekrar göstermek gereken durumlar.
func isFormError(err error) bool {
	return errors.Is(err, pkg.ErrBadRequest) ||
		errors.Is(err, pkg.ErrAlreadyExists) ||
		errors.Is(err, pkg.ErrTooManyRequests)
}
