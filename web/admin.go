package web

import (
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/akinalp/pano/models"
)

type adminUsersPage struct {
	Users   *models.Page[models.User]
	Request models.PageRequest
	Return  string // İşlem sonrası dönülecek liste adresi (sayfa/sıralama korunur)
}

type adminBoardsPage struct {
	Boards     []models.Board
	Categories []models.Category
	Form       boardForm
}

// boardForm, pano oluşturma/düzenleme formunun değerleri.
type boardForm struct {
	ID          string
	Slug        string
	Name        string
	Description string
	CategoryID  string
	WriteRole   models.Role
	Position    int
}

type adminBoardEditPage struct {
	Categories []models.Category
	Form       boardForm
}

func (s *Server) adminDashboard(w http.ResponseWriter, r *http.Request) {
	stats, err := s.api.AdminStats(r.Context(), SessionFromContext(r.Context()).AccessToken)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.render(w, r, http.StatusOK, "admin/dashboard", "admin.title", stats)
}

// ─── Users ───

func (s *Server) adminUsers(w http.ResponseWriter, r *http.Request) {
	req := models.ParsePageRequest(r.URL.Query(), models.UserPageOptions)

	users, err := s.api.AdminUsers(r.Context(), SessionFromContext(r.Context()).AccessToken, req)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	s.render(w, r, http.StatusOK, "admin/users", "admin.usersTitle", adminUsersPage{
		Users:   users,
		Request: req,
		Return:  r.URL.RequestURI(),
	})
}

func (s *Server) adminUpdateRole(w http.ResponseWriter, r *http.Request) {
	role, err := models.ParseRole(r.PostFormValue("role"))
	if err != nil {
		s.renderStatus(w, r, http.StatusBadRequest)
		return
	}

	id := r.PathValue("id")
	if _, err := s.api.UpdateUserRole(r.Context(), SessionFromContext(r.Context()).AccessToken, id, role); err != nil {
		s.fail(w, r, err)
		return
	}

	s.sessions.ForgetUser(id)
	http.Redirect(w, r, withNotice(returnTo(r, "/admin/users"), "roleUpdated"), http.StatusSeeOther)
}

func (s *Server) adminDeleteUser(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := s.api.DeleteUser(r.Context(), SessionFromContext(r.Context()).AccessToken, id); err != nil {
		s.fail(w, r, err)
		return
	}

	s.sessions.ForgetUser(id)
	http.Redirect(w, r, withNotice(returnTo(r, "/admin/users"), "userDeleted"), http.StatusSeeOther)
}

// ─── Boards ───

func (s *Server) adminBoards(w http.ResponseWriter, r *http.Request) {
	s.renderAdminBoards(w, r, boardForm{WriteRole: models.RoleUser}, nil)
}

func (s *Server) renderAdminBoards(w http.ResponseWriter, r *http.Request, form boardForm, formErr error) {
	boards, err := s.api.Boards(r.Context(), "")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	categories, err := s.api.Categories(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}

	data := adminBoardsPage{Boards: boards, Categories: categories, Form: form}
	if formErr != nil {
		s.renderForm(w, r, "admin/boards", "admin.boardsTitle", data, formErr)
		return
	}
	s.render(w, r, http.StatusOK, "admin/boards", "admin.boardsTitle", data)
}

func (s *Server) adminCreateBoard(w http.ResponseWriter, r *http.Request) {
	form := readBoardForm(r)

	_, err := s.api.CreateBoard(r.Context(), SessionFromContext(r.Context()).AccessToken, models.CreateBoardRequest{
		Slug:        form.Slug,
		Name:        form.Name,
		Description: form.Description,
		CategoryID:  form.CategoryID,
		WriteRole:   form.WriteRole,
	})
	if err != nil {
		if isFormError(err) {
			s.renderAdminBoards(w, r, form, err)
			return
		}
		s.fail(w, r, err)
		return
	}

	http.Redirect(w, r, "/admin/boards?notice=boardCreated", http.StatusSeeOther)
}

func (s *Server) adminEditBoardForm(w http.ResponseWriter, r *http.Request) {
	board, err := s.api.Board(r.Context(), r.PathValue("id"))
	if err != nil {
		s.fail(w, r, err)
		return
	}

	form := boardForm{
		ID:          board.ID,
		Slug:        board.Slug,
		Name:        board.Name,
		Description: board.Description,
		WriteRole:   board.EffectiveWriteRole(),
		Position:    board.Position,
	}
	if board.CategoryID != nil {
		form.CategoryID = *board.CategoryID
	}

	s.renderBoardEdit(w, r, form, nil)
}

func (s *Server) renderBoardEdit(w http.ResponseWriter, r *http.Request, form boardForm, formErr error) {
	categories, err := s.api.Categories(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}

	data := adminBoardEditPage{Categories: categories, Form: form}
	if formErr != nil {
		s.renderForm(w, r, "admin/board_edit", "admin.editBoardTitle", data, formErr)
		return
	}
	s.render(w, r, http.StatusOK, "admin/board_edit", "admin.editBoardTitle", data)
}

func (s *Server) adminUpdateBoard(w http.ResponseWriter, r *http.Request) {
	form := readBoardForm(r)
	form.ID = r.PathValue("id")

	_, err := s.api.UpdateBoard(r.Context(), SessionFromContext(r.Context()).AccessToken, form.ID, models.UpdateBoardRequest{
		Slug:        &form.Slug,
		Name:        &form.Name,
		Description: &form.Description,
		CategoryID:  &form.CategoryID,
		WriteRole:   &form.WriteRole,
		Position:    &form.Position,
	})
	if err != nil {
		if isFormError(err) {
			s.renderBoardEdit(w, r, form, err)
			return
		}
		s.fail(w, r, err)
		return
	}

	http.Redirect(w, r, "/admin/boards?notice=boardSaved", http.StatusSeeOther)
}

func (s *Server) adminDeleteBoard(w http.ResponseWriter, r *http.Request) {
	if err := s.api.DeleteBoard(r.Context(), SessionFromContext(r.Context()).AccessToken, r.PathValue("id")); err != nil {
		s.fail(w, r, err)
		return
	}
	http.Redirect(w, r, "/admin/boards?notice=boardDeleted", http.StatusSeeOther)
}

func readBoardForm(r *http.Request) boardForm {
	position, _ := strconv.Atoi(r.PostFormValue("position"))
	return boardForm{
		Slug:        strings.TrimSpace(r.PostFormValue("slug")),
		Name:        strings.TrimSpace(r.PostFormValue("name")),
		Description: strings.TrimSpace(r.PostFormValue("description")),
		CategoryID:  r.PostFormValue("category_id"),
		WriteRole:   models.Role(r.PostFormValue("write_role")),
		Position:    position,
	}
}

// ─── Categories ───

type adminCategoriesPage struct {
	Categories []models.Category
	Name       string
}

func (s *Server) adminCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := s.api.Categories(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.render(w, r, http.StatusOK, "admin/categories", "admin.categoriesTitle", adminCategoriesPage{Categories: categories})
}

func (s *Server) adminCreateCategory(w http.ResponseWriter, r *http.Request) {
	name := r.PostFormValue("name")
	_, err := s.api.CreateCategory(r.Context(), SessionFromContext(r.Context()).AccessToken, models.CreateCategoryRequest{Name: name})
	if err != nil {
		if isFormError(err) {
			s.categoryFormError(w, r, name, err)
			return
		}
		s.fail(w, r, err)
		return
	}
	http.Redirect(w, r, "/admin/categories?notice=categoryCreated", http.StatusSeeOther)
}

func (s *Server) adminRenameCategory(w http.ResponseWriter, r *http.Request) {
	name := r.PostFormValue("name")
	req := models.UpdateCategoryRequest{Name: &name}
	if raw := r.PostFormValue("position"); raw != "" {
		position, err := strconv.Atoi(raw)
		if err != nil {
			s.renderStatus(w, r, http.StatusBadRequest)
			return
		}
		req.Position = &position
	}

	_, err := s.api.UpdateCategory(r.Context(), SessionFromContext(r.Context()).AccessToken, r.PathValue("id"), req)
	if err != nil {
		if isFormError(err) {
			s.categoryFormError(w, r, "", err)
			return
		}
		s.fail(w, r, err)
		return
	}
	http.Redirect(w, r, "/admin/categories?notice=categorySaved", http.StatusSeeOther)
}

func (s *Server) adminDeleteCategory(w http.ResponseWriter, r *http.Request) {
	detached, err := s.api.DeleteCategory(r.Context(), SessionFromContext(r.Context()).AccessToken, r.PathValue("id"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	notice := "categoryDeleted"
	if detached > 0 {
		notice = "categoryDeletedDetached"
	}
	http.Redirect(w, r, "/admin/categories?notice="+notice, http.StatusSeeOther)
}

func (s *Server) categoryFormError(w http.ResponseWriter, r *http.Request, name string, formErr error) {
	categories, err := s.api.Categories(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.renderForm(w, r, "admin/categories", "admin.categoriesTitle", adminCategoriesPage{Categories: categories, Name: name}, formErr)
}

// returnTo, formdaki "return" alanını yerel path olarak okur.
func returnTo(r *http.Request, fallback string) string {
	if ret := r.PostFormValue("return"); ret != "" {
		return SafeNext(ret)
	}
	return fallback
}

// withNotice, adresin notice parametresini değiştirir.
func withNotice(path, notice string) string {
	u, err := url.Parse(path)
	if err != nil {
		return path
	}
	q := u.Query()
	q.Set("notice", notice)
	u.RawQuery = q.Encode()
	return u.String()
}
