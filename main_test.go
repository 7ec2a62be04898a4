package main

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/akinalp/pano/config"
	"github.com/akinalp/pano/database"
	"github.com/akinalp/pano/pkg"
)

type testStack struct {
	repos  *Repositories
	apiURL string
	webURL string
}

// newTestStack, API ve web arayüzünü ayrı httptest sunucularında ayağa kaldırır.
func newTestStack(t *testing.T) *testStack {
	t.Helper()

	db, err := database.New(filepath.Join(t.TempDir(), "pano.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	loopback, err := config.ParseTrustedProxies("127.0.0.0/8,::1")
	require.NoError(t, err)

	cfg := &config.Config{
		Server: config.ServerConfig{TrustedProxies: loopback},
		JWT:    config.JWTConfig{Secret: "test-secret-test-secret-test-secret", AccessTokenExpiry: 15, RefreshTokenExpiry: 7},
		API:    config.APIConfig{Enabled: true},
		Web:    config.WebConfig{Enabled: true},
	}

	repos := initRepositories(db.Conn)
	svcs, limiters, _ := initServices(db.Conn, repos, cfg)
	t.Cleanup(limiters.Stop)

	apiMux := http.NewServeMux()
	initRoutes(apiMux, initHandlers(svcs, limiters, db.Conn), svcs.Auth, repos.User)
	apiSrv := httptest.NewServer(apiMux)
	t.Cleanup(apiSrv.Close)

	cfg.Web.APIURL = apiSrv.URL
	webServer, sessions, err := initWeb(cfg)
	require.NoError(t, err)
	t.Cleanup(sessions.Close)

	webSrv := httptest.NewServer(webServer.Routes())
	t.Cleanup(webSrv.Close)

	return &testStack{repos: repos, apiURL: apiSrv.URL, webURL: webSrv.URL}
}

// browser, cookie saklayan ve redirect takip etmeyen istemci.
type browser struct {
	t      *testing.T
	base   string
	client *http.Client
}

func (s *testStack) browser(t *testing.T) *browser {
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &browser{
		t:    t,
		base: s.webURL,
		client: &http.Client{
			Jar: jar,
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
	}
}

func (b *browser) get(path string) (int, string, string) {
	b.t.Helper()
	resp, err := b.client.Get(b.base + path)
	require.NoError(b.t, err)
	return readResponse(b.t, resp)
}

func (b *browser) post(path string, form url.Values) (int, string, string) {
	b.t.Helper()
	resp, err := b.client.PostForm(b.base+path, form)
	require.NoError(b.t, err)
	return readResponse(b.t, resp)
}

func readResponse(t *testing.T, resp *http.Response) (int, string, string) {
	t.Helper()
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, resp.Header.Get("Location"), string(body)
}

func (b *browser) signup(username string) {
	b.t.Helper()
	status, location, _ := b.post("/signup", url.Values{
		"username":         {username},
		"password":         {"password123"},
		"password_confirm": {"password123"},
	})
	require.Equal(b.t, http.StatusSeeOther, status)
	require.Equal(b.t, "/?notice=welcome", location)
}

func TestWeb_AnonymousBrowsing(t *testing.T) {
	stack := newTestStack(t)
	anon := stack.browser(t)

	status, _, body := anon.get("/")
	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, body, "Free board")
	assert.Contains(t, body, "Notice")

	status, _, body = anon.get("/boards/free?sort=title&order=asc")
	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, body, "/login")

	status, _, _ = anon.get("/boards/missing")
	assert.Equal(t, http.StatusNotFound, status)

	status, _, _ = anon.get("/posts/missing")
	assert.Equal(t, http.StatusNotFound, status)

	status, _, _ = anon.get("/no/such/page")
	assert.Equal(t, http.StatusNotFound, status)

	status, location, _ := anon.get("/boards/free/new")
	assert.Equal(t, http.StatusSeeOther, status)
	assert.Equal(t, "/login?next=%2Fboards%2Ffree%2Fnew", location)

	status, _, _ = anon.get("/static/pano.css")
	assert.Equal(t, http.StatusOK, status)

	// Tab içeren hedef tarayıcıda "//evil.example" olurdu.
	for _, next := range []string{"/%09/evil.example", "//evil.example", "/%0a/evil.example"} {
		status, location, _ = anon.get("/lang/tr?next=" + next)
		assert.Equal(t, http.StatusSeeOther, status, next)
		assert.Equal(t, "/", location, next)
	}
}

func TestWeb_PostingRespectsBoardRoles(t *testing.T) {
	stack := newTestStack(t)

	root := stack.browser(t)
	root.signup("root")

	bob := stack.browser(t)
	bob.signup("bob")

	// İlk kullanıcı admin: duyuru panosuna yazabilir.
	status, location, _ := root.post("/boards/notice/new", url.Values{"title": {"Welcome"}, "content": {"Hello all"}})
	require.Equal(t, http.StatusSeeOther, status)
	require.True(t, strings.HasPrefix(location, "/posts/"))
	noticePost := location

	status, _, body := bob.get(noticePost)
	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, body, "Welcome")
	assert.NotContains(t, body, noticePost+"/edit", "bob cannot modify root's post")

	status, _, _ = bob.get("/boards/notice/new")
	assert.Equal(t, http.StatusForbidden, status)
	status, _, _ = bob.post("/boards/notice/new", url.Values{"title": {"x"}, "content": {"y"}})
	assert.Equal(t, http.StatusForbidden, status)

	status, _, _ = bob.get(noticePost + "/edit")
	assert.Equal(t, http.StatusForbidden, status)
	status, _, _ = bob.post(noticePost+"/delete", nil)
	assert.Equal(t, http.StatusForbidden, status)

	status, location, _ = bob.post("/boards/free/new", url.Values{"title": {"Bob here"}, "content": {"First!"}})
	require.Equal(t, http.StatusSeeOther, status)
	bobPost := location

	status, _, body = bob.get(bobPost)
	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, body, bobPost+"/edit")

	status, _, body = bob.post("/boards/free/new", url.Values{"title": {" "}, "content": {"no title"}})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, body, "no title", "form keeps the submitted content")

	status, location, _ = bob.post(bobPost+"/edit", url.Values{"title": {"Bob edited"}, "content": {"First!"}})
	assert.Equal(t, http.StatusSeeOther, status)
	assert.Equal(t, bobPost+"?notice=postSaved", location)

	// Admin herkesin yazısını silebilir.
	status, location, _ = root.post(bobPost+"/delete", nil)
	assert.Equal(t, http.StatusSeeOther, status)
	assert.Equal(t, "/boards/free?notice=postDeleted", location)

	status, _, _ = bob.get(bobPost)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestWeb_AdminBackOffice(t *testing.T) {
	stack := newTestStack(t)

	root := stack.browser(t)
	root.signup("root")
	bob := stack.browser(t)
	bob.signup("bob")

	status, _, _ := bob.get("/admin")
	assert.Equal(t, http.StatusForbidden, status)

	for _, path := range []string{"/admin", "/admin/users?sort=username&order=asc", "/admin/boards", "/admin/categories"} {
		status, _, body := root.get(path)
		assert.Equal(t, http.StatusOK, status, path)
		assert.NotContains(t, body, "internal error", path)
	}

	bobUser, err := stack.repos.User.GetByUsername(context.Background(), "bob")
	require.NoError(t, err)

	status, location, _ := root.post("/admin/users/"+bobUser.ID+"/role", url.Values{
		"role":   {"ADMIN"},
		"return": {"/admin/users?page=1"},
	})
	assert.Equal(t, http.StatusSeeOther, status)
	assert.Contains(t, location, "notice=roleUpdated")

	// Rol değişikliği bob'un bir sonraki isteğinde geçerli.
	status, _, _ = bob.get("/admin")
	assert.Equal(t, http.StatusOK, status)

	// Admin diğer admin'i yönetemez.
	status, _, _ = root.post("/admin/users/"+bobUser.ID+"/delete", nil)
	assert.Equal(t, http.StatusForbidden, status)

	status, location, _ = root.post("/admin/categories", url.Values{"name": {"Hobbies"}})
	assert.Equal(t, http.StatusSeeOther, status)
	assert.Equal(t, "/admin/categories?notice=categoryCreated", location)

	status, location, _ = root.post("/admin/boards", url.Values{"slug": {"dev"}, "name": {"Development"}, "write_role": {"USER"}})
	assert.Equal(t, http.StatusSeeOther, status)
	assert.Equal(t, "/admin/boards?notice=boardCreated", location)

	status, _, body := root.post("/admin/boards", url.Values{"slug": {"dev"}, "name": {"Again"}, "write_role": {"USER"}})
	assert.Equal(t, http.StatusConflict, status)
	assert.Contains(t, body, "slug already in use")

	status, _, body = root.get("/")
	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, body, "Development")

	// Seed kategorisi silinince iki pano kategorisiz kalır.
	status, location, _ = root.post("/admin/categories/general/delete", nil)
	assert.Equal(t, http.StatusSeeOther, status)
	assert.Equal(t, "/admin/categories?notice=categoryDeletedDetached", location)

	status, _, body = root.get(location)
	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, body, "uncategorized")

	status, _, body = root.get("/")
	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, body, "Free board")
}

func TestWeb_AccountFlows(t *testing.T) {
	stack := newTestStack(t)
	alice := stack.browser(t)

	status, _, _ := alice.post("/signup", url.Values{
		"username":         {"alice"},
		"password":         {"password123"},
		"password_confirm": {"different1"},
	})
	assert.Equal(t, http.StatusBadRequest, status)

	alice.signup("alice")

	status, location, _ := alice.get("/login?next=/boards/free")
	assert.Equal(t, http.StatusSeeOther, status, "logged in users skip the login form")
	assert.Equal(t, "/boards/free", location)

	status, location, _ = alice.post("/me", url.Values{"display_name": {"Alice A."}, "email": {"alice@example.com"}})
	assert.Equal(t, http.StatusSeeOther, status)
	assert.Equal(t, "/me?notice=profileSaved", location)

	status, _, body := alice.get("/me")
	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, body, "Alice A.")

	status, location, _ = alice.post("/logout", nil)
	assert.Equal(t, http.StatusSeeOther, status)
	assert.Equal(t, "/", location)

	status, _, _ = alice.get("/me")
	assert.Equal(t, http.StatusSeeOther, status)

	status, _, body = alice.post("/login", url.Values{"username": {"alice"}, "password": {"wrong-password"}, "next": {"/me"}})
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Contains(t, body, "alice")

	status, location, _ = alice.post("/login", url.Values{"username": {"alice"}, "password": {"password123"}, "next": {"//evil.com"}})
	assert.Equal(t, http.StatusSeeOther, status)
	assert.Equal(t, "/", location)
}

func TestWeb_RejectsCrossOriginPost(t *testing.T) {
	stack := newTestStack(t)
	b := stack.browser(t)

	req, err := http.NewRequest(http.MethodPost, stack.webURL+"/logout", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "https://evil.example")
	resp, err := b.client.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestAPI_HealthAndLoginRateLimit(t *testing.T) {
	stack := newTestStack(t)

	resp, err := http.Get(stack.apiURL + "/api/health")
	require.NoError(t, err)
	var env pkg.APIResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, env.Success)

	var last *http.Response
	for range 6 {
		last, err = http.Post(stack.apiURL+"/api/auth/login", "application/json",
			strings.NewReader(`{"username":"nobody","password":"password123"}`))
		require.NoError(t, err)
		last.Body.Close()
	}
	assert.Equal(t, http.StatusTooManyRequests, last.StatusCode)
	assert.NotEmpty(t, last.Header.Get("Retry-After"))

	resp, err = http.Get(stack.apiURL + "/api/admin/stats")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}
