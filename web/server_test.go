package web

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/akinalp/pano/apiclient"
	"github.com/akinalp/pano/models"
	"github.com/akinalp/pano/pkg"
	"github.com/akinalp/pano/pkg/i18n"
)

func newTestRenderer(t *testing.T) *Renderer {
	t.Helper()
	require.NoError(t, i18n.LoadEmbedded())
	rd, err := NewRenderer(false)
	require.NoError(t, err)
	return rd
}

func withSession(r *http.Request, viewer *models.User) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), sessionKey{}, &Session{Viewer: viewer, AccessToken: "tok"}))
}

func TestRenderer_ParsesEveryPage(t *testing.T) {
	rd := newTestRenderer(t)

	for _, name := range []string{
		"home", "board", "post", "post_form", "login", "signup", "profile", "error",
		"admin/dashboard", "admin/users", "admin/boards", "admin/board_edit", "admin/categories",
	} {
		assert.Contains(t, rd.pages, name)
	}
}

func TestRenderer_ErrorPage(t *testing.T) {
	rd := newTestRenderer(t)

	for _, pretty := range []bool{false, true} {
		rd.pretty = pretty
		rec := httptest.NewRecorder()
		rd.Render(rec, http.StatusNotFound, "error", &PageData{
			Title: "Not found",
			Loc:   i18n.NewLocalizer("tr"),
			Data:  errorPage{Status: http.StatusNotFound, Message: "Sayfa bulunamadı"},
		})

		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))
		assert.Equal(t, "no-store", rec.Header().Get("Cache-Control"))
		body := rec.Body.String()
		assert.Contains(t, body, `lang="tr"`)
		assert.Contains(t, body, "404")
	}
}

func TestRenderer_UnknownPage(t *testing.T) {
	rd := newTestRenderer(t)
	rec := httptest.NewRecorder()
	rd.Render(rec, http.StatusOK, "nope", &PageData{Loc: i18n.NewLocalizer("en")})
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestPageData_TF(t *testing.T) {
	require.NoError(t, i18n.LoadEmbedded())
	d := &PageData{Loc: i18n.NewLocalizer("en")}
	assert.Equal(t, "7 posts", d.TF("board.postCount", "count", "7"))
	assert.Equal(t, "en", d.Lang())
}

func TestSafeNext(t *testing.T) {
	tests := map[string]string{
		"":                    "/",
		"/boards/free?page=2": "/boards/free?page=2",
		"https://evil.com":    "/",
		"//evil.com":          "/",
		"/\\evil.com":         "/",
		"/ok\r\nSet-Cookie:":  "/",
		"boards/free":         "/",
		"/\t/evil.example":    "/",
		"/\n/evil.example":    "/",
		"/ok\x7f":             "/",
		"/boards/free#top":    "/boards/free#top",
	}
	for in, want := range tests {
		assert.Equal(t, want, SafeNext(in), "SafeNext(%q)", in)
	}
}

func TestSameOrigin(t *testing.T) {
	h := sameOrigin(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	tests := []struct {
		name   string
		method string
		origin string
		want   int
	}{
		{"get from anywhere", http.MethodGet, "https://evil.com", http.StatusNoContent},
		{"post without origin", http.MethodPost, "", http.StatusNoContent},
		{"post same origin", http.MethodPost, "http://example.com", http.StatusNoContent},
		{"post cross origin", http.MethodPost, "https://evil.com", http.StatusForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, "http://example.com/logout", nil)
			if tt.origin != "" {
				req.Header.Set("Origin", tt.origin)
			}
			rec := httptest.NewRecorder()
			h(rec, req)
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

func TestFormError(t *testing.T) {
	require.NoError(t, i18n.LoadEmbedded())
	loc := i18n.NewLocalizer("en")

	assert.Equal(t, "slug already in use",
		formError(loc, &apiclient.Error{Status: http.StatusConflict, Message: "slug already in use"}))
	assert.Equal(t, "bad request: title is required",
		formError(loc, &apiclient.Error{Status: http.StatusBadRequest, Message: "bad request: title is required"}))
	assert.Equal(t, loc.T("error.tooManyRequests"), formError(loc, &apiclient.Error{Status: http.StatusTooManyRequests}))
	assert.Equal(t, loc.T("error.invalidCredentials"), formError(loc, &apiclient.Error{Status: http.StatusUnauthorized}))
	assert.Equal(t, loc.T("error.forbidden"), formError(loc, pkg.ErrForbidden))
	assert.Equal(t, loc.T("error.internal"), formError(loc, errors.New("connection refused")))
}

func TestWithNotice(t *testing.T) {
	got := withNotice("/admin/users?page=2&notice=old", "roleUpdated")
	u, err := url.Parse(got)
	require.NoError(t, err)
	assert.Equal(t, "/admin/users", u.Path)
	assert.Equal(t, "2", u.Query().Get("page"))
	assert.Equal(t, "roleUpdated", u.Query().Get("notice"))
}

func TestIsNoticeKey(t *testing.T) {
	assert.True(t, isNoticeKey("postDeleted"))
	assert.False(t, isNoticeKey("<b>hi</b>"))
	assert.False(t, isNoticeKey("a.b"))
	assert.False(t, isNoticeKey(strings.Repeat("a", 33)))
}

func TestRequireUserAndAdmin(t *testing.T) {
	s := NewServer(nil, nil, newTestRenderer(t), nil)
	ok := func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusNoContent) }

	t.Run("anonymous is sent to login", func(t *testing.T) {
		rec := httptest.NewRecorder()
		s.RequireUser(ok)(rec, withSession(httptest.NewRequest(http.MethodGet, "/me?tab=1", nil), nil))
		assert.Equal(t, http.StatusSeeOther, rec.Code)
		assert.Equal(t, "/login?next=%2Fme%3Ftab%3D1", rec.Header().Get("Location"))
	})

	t.Run("anonymous post returns to form origin", func(t *testing.T) {
		form := url.Values{"return": {"/boards/free"}}
		req := httptest.NewRequest(http.MethodPost, "/posts/p1/delete", strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		rec := httptest.NewRecorder()
		s.RequireUser(ok)(rec, withSession(req, nil))
		assert.Equal(t, "/login?next=%2Fboards%2Ffree", rec.Header().Get("Location"))
	})

	t.Run("user passes", func(t *testing.T) {
		rec := httptest.NewRecorder()
		s.RequireUser(ok)(rec, withSession(httptest.NewRequest(http.MethodGet, "/me", nil), &alice))
		assert.Equal(t, http.StatusNoContent, rec.Code)
	})

	t.Run("user is not admin", func(t *testing.T) {
		rec := httptest.NewRecorder()
		s.RequireAdmin(ok)(rec, withSession(httptest.NewRequest(http.MethodGet, "/admin", nil), &alice))
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("admin passes", func(t *testing.T) {
		admin := &models.User{ID: "a1", Username: "root", Role: models.RoleAdmin}
		rec := httptest.NewRecorder()
		s.RequireAdmin(ok)(rec, withSession(httptest.NewRequest(http.MethodGet, "/admin", nil), admin))
		assert.Equal(t, http.StatusNoContent, rec.Code)
	})
}
