package web

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/akinalp/pano/models"
	"github.com/akinalp/pano/pkg/i18n"
	"github.com/yosssi/gohtml"
)

//go:embed templates
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

// PageData, her template'e verilen ortak veri. Sayfaya özel veri Data'dadır.
type PageData struct {
	Title  string
	Viewer *models.User
	Loc    *i18n.Localizer
	Path   string // Mevcut istek URI'si (login "next" parametresi için)
	Notice string // i18n anahtarı; redirect sonrası bilgi mesajı
	Error  string // Form hatası (çevrilmiş veya API mesajı)
	Data   any
}

// T, çeviri kısayolu: {{.T "nav.login"}}
func (d *PageData) T(key string) string {
	return d.Loc.T(key)
}

// TF, parametreli çeviri: {{.TF "board.postCount" "count" "12"}}
func (d *PageData) TF(key string, kv ...string) string {
	params := make(map[string]string, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		params[kv[i]] = kv[i+1]
	}
	return d.Loc.TWithParams(key, params)
}

// Lang, <html lang> değeri.
func (d *PageData) Lang() string {
	return d.Loc.Lang()
}

// templateFuncs: erişim predicate'leri template'e aynen açılır, böylece
// gösterilen butonlar API'nin kabul ettikleriyle aynı kuraldan gelir.
var templateFuncs = template.FuncMap{
	"canCreatePost": models.CanCreatePost,
	"canModifyPost": models.CanModifyPost,
	"canManageUser": func(actor *models.User, target models.User) bool {
		return models.CanManageUser(actor, &target)
	},
	"canAssignRole": func(actor *models.User, target models.User, role models.Role) bool {
		return models.CanAssignRole(actor, &target, role)
	},
	"isAdmin":          models.IsAdmin,
	"isRoleHigherThan": models.IsRoleHigherThan,
	"roles":            models.AllRoles,
	"formatTime": func(t time.Time) string {
		return t.Local().Format("2006-01-02 15:04")
	},
	"isoTime": func(t time.Time) string {
		return t.UTC().Format(time.RFC3339)
	},
	"deref": func(s *string) string {
		if s == nil {
			return ""
		}
		return *s
	},
	"add":  func(a, b int) int { return a + b },
	"list": func(v ...any) []any { return v },
	"excerpt": func(s string, n int) string {
		r := []rune(strings.TrimSpace(s))
		if len(r) <= n {
			return string(r)
		}
		return strings.TrimSpace(string(r[:n])) + "…"
	},
}

// Renderer, sayfa template'lerini tutar. Her sayfa layout ve partial'larla
// birlikte ayrı parse edilir; "content" bloğu sayfalar arasında çakışmaz.
type Renderer struct {
	pages  map[string]*template.Template
	pretty bool
}

// NewRenderer, gömülü template'leri parse eder. pretty, HTML çıktısını gohtml ile formatlar.
func NewRenderer(pretty bool) (*Renderer, error) {
	pages, err := fs.Glob(templateFS, "templates/pages/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to list templates: %w", err)
	}
	adminPages, err := fs.Glob(templateFS, "templates/pages/admin/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to list admin templates: %w", err)
	}

	rd := &Renderer{pages: make(map[string]*template.Template), pretty: pretty}
	for _, page := range append(pages, adminPages...) {
		tmpl, err := template.New("").Funcs(templateFuncs).ParseFS(templateFS,
			"templates/layout.html",
			"templates/partials/*.html",
			page,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to parse template %s: %w", page, err)
		}

		name := strings.TrimSuffix(strings.TrimPrefix(page, "templates/pages/"), ".html")
		rd.pages[name] = tmpl
	}

	return rd, nil
}

// Render, sayfayı önce buffer'a yazar; template hatası yarım HTML göndermez.
func (rd *Renderer) Render(w http.ResponseWriter, status int, page string, data *PageData) {
	tmpl, ok := rd.pages[page]
	if !ok {
		log.Printf("[web] unknown template %q", page)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "layout", data); err != nil {
		log.Printf("[web] render %s failed: %v", page, err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	out := buf.Bytes()
	if rd.pretty {
		out = gohtml.FormatBytes(out)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	_, _ = w.Write(out)
}

// StaticHandler, gömülü /static/ dosyalarını sunar.
func StaticHandler() http.Handler {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err) // embed dizini derleme zamanında sabit
	}
	return http.StripPrefix("/static/", http.FileServerFS(sub))
}
