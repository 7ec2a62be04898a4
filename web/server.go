// Package web, server-rendered HTML arayüzü.
//
// Sayfalar veritabanını bilmez: her veri apiclient üzerinden Board API'den gelir.
// Butonların ve formların görünürlüğü models.Can* predicate'leriyle belirlenir;
// API aynı fonksiyonlarla zorlar.
package web

import (
	"errors"
	"log"
	"net/http"
	"net/url"
	"strings"

	"github.com/akinalp/pano/apiclient"
	"github.com/akinalp/pano/models"
	"github.com/akinalp/pano/pkg"
	"github.com/akinalp/pano/pkg/i18n"
	"github.com/akinalp/pano/pkg/ratelimit"
)

// Server, web sayfalarının handler'ları.
type Server struct {
	api      *apiclient.Client
	sessions *SessionManager
	renderer *Renderer
	clientIP *ratelimit.IPResolver
}

// NewServer, constructor. clientIP, web katmanının önündeki proxy'lere göre
// API'ye iletilecek son kullanıcı IP'sini bulur.
func NewServer(api *apiclient.Client, sessions *SessionManager, renderer *Renderer, clientIP *ratelimit.IPResolver) *Server {
	return &Server{
		api:      api,
		sessions: sessions,
		renderer: renderer,
		clientIP: clientIP,
	}
}

// Routes, tüm web route'larını kaydeder. Static dosyalar oturum middleware'ına girmez;
// aksi halde her CSS isteği refresh tetikleyebilirdi.
func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()
	page := func(pattern string, h http.HandlerFunc) {
		mux.Handle(pattern, s.sessions.Middleware(sameOrigin(h)))
	}
	user := func(pattern string, h http.HandlerFunc) {
		page(pattern, s.RequireUser(h))
	}
	admin := func(pattern string, h http.HandlerFunc) {
		page(pattern, s.RequireAdmin(h))
	}

	mux.Handle("GET /static/", StaticHandler())
	mux.HandleFunc("GET /lang/{code}", s.setLanguage)

	page("GET /{$}", s.home)
	page("GET /boards/{slug}", s.board)
	page("GET /posts/{id}", s.post)

	page("GET /login", s.loginForm)
	page("POST /login", s.login)
	page("GET /signup", s.signupForm)
	page("POST /signup", s.signup)
	page("POST /logout", s.logout)

	user("GET /boards/{slug}/new", s.newPostForm)
	user("POST /boards/{slug}/new", s.createPost)
	user("GET /posts/{id}/edit", s.editPostForm)
	user("POST /posts/{id}/edit", s.updatePost)
	user("POST /posts/{id}/delete", s.deletePost)

	user("GET /me", s.profile)
	user("POST /me", s.updateProfile)
	user("POST /me/password", s.changePassword)

	admin("GET /admin", s.adminDashboard)
	admin("GET /admin/users", s.adminUsers)
	admin("POST /admin/users/{id}/role", s.adminUpdateRole)
	admin("POST /admin/users/{id}/delete", s.adminDeleteUser)
	admin("GET /admin/boards", s.adminBoards)
	admin("POST /admin/boards", s.adminCreateBoard)
	admin("GET /admin/boards/{id}/edit", s.adminEditBoardForm)
	admin("POST /admin/boards/{id}/edit", s.adminUpdateBoard)
	admin("POST /admin/boards/{id}/delete", s.adminDeleteBoard)
	admin("GET /admin/categories", s.adminCategories)
	admin("POST /admin/categories", s.adminCreateCategory)
	admin("POST /admin/categories/{id}", s.adminRenameCategory)
	admin("POST /admin/categories/{id}/delete", s.adminDeleteCategory)

	page("/", s.notFound)

	return mux
}

// RequireUser, anonim ziyaretçiyi /login?next=<istek> adresine yönlendirir.
func (s *Server) RequireUser(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if SessionFromContext(r.Context()).Viewer == nil {
			http.Redirect(w, r, loginURL(r), http.StatusSeeOther)
			return
		}
		next(w, r)
	}
}

// RequireAdmin, RequireUser + ADMIN değilse 403 sayfası.
func (s *Server) RequireAdmin(next http.HandlerFunc) http.HandlerFunc {
	return s.RequireUser(func(w http.ResponseWriter, r *http.Request) {
		if !models.IsAdmin(SessionFromContext(r.Context()).Viewer) {
			s.renderStatus(w, r, http.StatusForbidden)
			return
		}
		next(w, r)
	})
}

// sameOrigin, başka origin'den gelen POST'ları reddeder. Cookie'ler SameSite=Lax
// olduğu için tarayıcı zaten göndermez; Origin kontrolü ikinci katmandır.
func sameOrigin(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			if origin := r.Header.Get("Origin"); origin != "" {
				u, err := url.Parse(origin)
				if err != nil || u.Host != r.Host {
					http.Error(w, "cross-origin request rejected", http.StatusForbidden)
					return
				}
			}
		}
		next(w, r)
	}
}

// pageData, ortak alanları doldurulmuş PageData oluşturur.
func (s *Server) pageData(r *http.Request, titleKey string, data any) *PageData {
	loc := localizer(r)
	d := &PageData{
		Viewer: SessionFromContext(r.Context()).Viewer,
		Loc:    loc,
		Path:   r.URL.RequestURI(),
		Data:   data,
	}
	if titleKey != "" {
		d.Title = loc.T(titleKey)
	}
	if notice := r.URL.Query().Get("notice"); notice != "" && isNoticeKey(notice) {
		d.Notice = "notice." + notice
	}
	return d
}

// isNoticeKey: notice parametresi çeviri anahtarına dönüşür, serbest metin kabul edilmez.
func isNoticeKey(key string) bool {
	for _, ch := range key {
		if !((ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z')) {
			return false
		}
	}
	return len(key) <= 32
}

func (s *Server) render(w http.ResponseWriter, r *http.Request, status int, page, titleKey string, data any) {
	s.renderer.Render(w, status, page, s.pageData(r, titleKey, data))
}

// renderForm, formu hata mesajıyla tekrar gösterir.
func (s *Server) renderForm(w http.ResponseWriter, r *http.Request, page, titleKey string, data any, err error) {
	d := s.pageData(r, titleKey, data)
	d.Error = formError(d.Loc, err)
	s.renderer.Render(w, pkg.StatusFor(err), page, d)
}

// errorPage, hata sayfasının verisi.
type errorPage struct {
	Status  int
	Message string
}

func (s *Server) renderStatus(w http.ResponseWriter, r *http.Request, status int) {
	loc := localizer(r)
	d := s.pageData(r, "", errorPage{Status: status, Message: loc.T(statusKey(status))})
	d.Title = loc.T(statusKey(status))
	s.renderer.Render(w, status, "error", d)
}

// fail, API hatasını uygun sayfaya çevirir:
// 401 → login'e yönlendir, 403/404 → hata sayfası, diğerleri → 500 (loglanır).
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, pkg.ErrUnauthorized):
		s.sessions.Clear(w, r)
		http.Redirect(w, r, loginURL(r), http.StatusSeeOther)
	case errors.Is(err, pkg.ErrForbidden):
		s.renderStatus(w, r, http.StatusForbidden)
	case errors.Is(err, pkg.ErrNotFound):
		s.renderStatus(w, r, http.StatusNotFound)
	case errors.Is(err, pkg.ErrBadRequest):
		s.renderStatus(w, r, http.StatusBadRequest)
	default:
		log.Printf("[web] %s %s: %v", r.Method, r.URL.Path, err)
		s.renderStatus(w, r, http.StatusInternalServerError)
	}
}

func (s *Server) notFound(w http.ResponseWriter, r *http.Request) {
	s.renderStatus(w, r, http.StatusNotFound)
}

// setLanguage, dil cookie'sini yazar ve geldiği sayfaya döner.
// GET /lang/tr?next=/boards/free
func (s *Server) setLanguage(w http.ResponseWriter, r *http.Request) {
	code := r.PathValue("code")
	if i18n.IsSupported(code) {
		http.SetCookie(w, &http.Cookie{
			Name:     i18n.LangCookie,
			Value:    code,
			Path:     "/",
			MaxAge:   365 * 24 * 60 * 60,
			HttpOnly: true,
			Secure:   s.sessions.secure,
			SameSite: http.SameSiteLaxMode,
		})
	}
	http.Redirect(w, r, SafeNext(r.URL.Query().Get("next")), http.StatusSeeOther)
}

// ─── Helpers ───

func localizer(r *http.Request) *i18n.Localizer {
	return i18n.NewLocalizer(i18n.ResolveLanguage(cookieValue(r, i18n.LangCookie), r.Header.Get("Accept-Language")))
}

// SafeNext, redirect hedefini yerel path ile sınırlar. "//evil.com" ve
// "/\evil.com" gibi protocol-relative adresler reddedilir. Tarayıcılar tab ve
// satır sonlarını URL'den sildiği için kontrol karakteri içeren hedef de reddedilir.
func SafeNext(next string) string {
	if next == "" || !strings.HasPrefix(next, "/") ||
		strings.HasPrefix(next, "//") || strings.HasPrefix(next, "/\\") {
		return "/"
	}
	for i := 0; i < len(next); i++ {
		if next[i] < 0x20 || next[i] == 0x7f {
			return "/"
		}
	}
	u, err := url.Parse(next)
	if err != nil || u.Scheme != "" || u.Host != "" {
		return "/"
	}
	return next
}

func loginURL(r *http.Request) string {
	next := r.URL.RequestURI()
	if r.Method != http.MethodGet {
		// POST sonrası dönülecek sayfa formun kendisi değil, geldiği yer.
		next = SafeNext(r.FormValue("return"))
	}
	return "/login?" + url.Values{"next": {next}}.Encode()
}

// formError, hatayı kullanıcıya gösterilecek metne çevirir.
// 400/409 mesajları API'den olduğu gibi gelir (alan bazlı doğrulama metni).
func formError(loc *i18n.Localizer, err error) string {
	var apiErr *apiclient.Error
	switch {
	case errors.Is(err, pkg.ErrTooManyRequests):
		return loc.T("error.tooManyRequests")
	case errors.Is(err, pkg.ErrUnauthorized):
		return loc.T("error.invalidCredentials")
	case errors.As(err, &apiErr) && (apiErr.Status == http.StatusBadRequest || apiErr.Status == http.StatusConflict):
		return apiErr.Message
	case errors.Is(err, pkg.ErrForbidden):
		return loc.T("error.forbidden")
	default:
		return loc.T("error.internal")
	}
}

func statusKey(status int) string {
	switch status {
	case http.StatusNotFound:
		return "error.notFound"
	case http.StatusForbidden:
		return "error.forbidden"
	case http.StatusBadRequest:
		return "error.badRequest"
	default:
		return "error.internal"
	}
}

// clientContext, API çağrılarına son kullanıcı IP'sini ekler.
func (s *Server) clientContext(r *http.Request) *http.Request {
	return r.WithContext(apiclient.WithClientIP(r.Context(), s.clientIP.ClientIP(r)))
}
