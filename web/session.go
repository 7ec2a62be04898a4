package web

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/akinalp/pano/apiclient"
	"github.com/akinalp/pano/models"
	"github.com/akinalp/pano/pkg"
	"github.com/akinalp/pano/pkg/cache"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/sync/singleflight"
)

const (
	AccessCookie  = "pano_access"
	RefreshCookie = "pano_refresh"

	// refreshSkew: exp'e bu süreden az kalan access token süresi dolmuş sayılır.
	// Token'ın sayfa render edilirken API'ye giderken ölmesini önler.
	refreshSkew = 30 * time.Second

	// rotatedTTL: aynı refresh token ile gelen eşzamanlı istekler (iki sekme)
	// bu süre boyunca ilk rotasyonun sonucunu paylaşır.
	rotatedTTL = 30 * time.Second
)

// Session, isteğin oturum bilgisi. Anonim istekte Viewer nil, AccessToken boştur.
type Session struct {
	Viewer      *models.User
	AccessToken string
}

type sessionKey struct{}

// SessionFromContext, middleware'in koyduğu oturumu döner. Hiçbir zaman nil değildir.
func SessionFromContext(ctx context.Context) *Session {
	if s, ok := ctx.Value(sessionKey{}).(*Session); ok {
		return s
	}
	return &Session{}
}

// SessionManager, cookie tabanlı web oturumu.
//
// Web katmanı JWT secret'ını bilmez: access token'ın exp'i imza doğrulamadan
// okunur, sadece "yenilemek gerekiyor mu" kararı için. Asıl doğrulamayı API yapar.
type SessionManager struct {
	api        *apiclient.Client
	viewers    *cache.TTLCache[string, *models.User]       // access token → viewer
	rotated    *cache.TTLCache[string, *models.AuthTokens] // eski refresh token → yeni çift
	group      singleflight.Group
	secure     bool
	refreshTTL time.Duration
	now        func() time.Time
}

// NewSessionManager, constructor. viewerTTL, /api/users/me sonucunun cache süresi.
func NewSessionManager(api *apiclient.Client, secure bool, refreshTTL, viewerTTL time.Duration) *SessionManager {
	return &SessionManager{
		api:        api,
		viewers:    cache.New[string, *models.User](viewerTTL, time.Minute),
		rotated:    cache.New[string, *models.AuthTokens](rotatedTTL, time.Minute),
		secure:     secure,
		refreshTTL: refreshTTL,
		now:        time.Now,
	}
}

// Close, cache temizleme goroutine'lerini durdurur.
func (m *SessionManager) Close() {
	m.viewers.Close()
	m.rotated.Close()
}

// Middleware, her istekte oturumu çözer ve context'e koyar:
//
//  1. Access token geçerliyse (exp - skew > now) olduğu gibi kullanılır.
//  2. Değilse refresh token ile yeni çift alınır ve cookie'ler yeniden yazılır.
//  3. Viewer /api/users/me'den okunur (kısa süreli cache). API 401 derse
//     bir kez daha refresh denenir, o da olmazsa cookie'ler silinir.
//
// API'ye ulaşılamıyorsa cookie'ler silinmez; istek anonim devam eder.
func (m *SessionManager) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		session := m.resolve(w, r)
		ctx := context.WithValue(r.Context(), sessionKey{}, session)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (m *SessionManager) resolve(w http.ResponseWriter, r *http.Request) *Session {
	ctx := r.Context()
	access := cookieValue(r, AccessCookie)
	refresh := cookieValue(r, RefreshCookie)

	if access == "" && refresh == "" {
		return &Session{}
	}

	refreshed := false
	var viewer *models.User

	if !m.accessUsable(access) {
		if refresh == "" {
			m.clearCookies(w)
			return &Session{}
		}
		tokens, err := m.refresh(ctx, refresh)
		if err != nil {
			m.dropOnAuthError(w, err)
			return &Session{}
		}
		m.SetTokens(w, tokens)
		access, refresh, refreshed = tokens.AccessToken, tokens.RefreshToken, true
		viewer = &tokens.User
		m.cacheViewer(access, viewer)
	}

	if viewer == nil {
		var err error
		viewer, err = m.loadViewer(ctx, access)
		if errors.Is(err, pkg.ErrUnauthorized) && !refreshed && refresh != "" {
			// Token süresi dolmamış ama API reddetti (ör. kullanıcı şifre değiştirdi).
			var tokens *models.AuthTokens
			tokens, err = m.refresh(ctx, refresh)
			if err == nil {
				m.SetTokens(w, tokens)
				access = tokens.AccessToken
				viewer = &tokens.User
				m.cacheViewer(access, viewer)
			}
		}
		if err != nil {
			m.dropOnAuthError(w, err)
			return &Session{}
		}
	}

	return &Session{Viewer: viewer, AccessToken: access}
}

// accessUsable, token'ın exp'i skew'den daha ileride mi? İmza kontrol edilmez.
func (m *SessionManager) accessUsable(token string) bool {
	if token == "" {
		return false
	}
	exp, ok := accessExpiry(token)
	if !ok {
		return false
	}
	return exp.After(m.now().Add(refreshSkew))
}

// accessExpiry, JWT'nin exp claim'ini imza doğrulamadan okur.
func accessExpiry(token string) (time.Time, bool) {
	claims := &models.TokenClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}, false
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, false
	}
	return claims.ExpiresAt.Time, true
}

// refresh, aynı refresh token için eşzamanlı çağrıları tek API isteğine indirir.
// Rotasyon eski token'ı geçersiz kıldığı için ikinci bir istek 401 alırdı.
func (m *SessionManager) refresh(ctx context.Context, refreshToken string) (*models.AuthTokens, error) {
	if tokens, ok := m.rotated.Get(refreshToken); ok {
		return tokens, nil
	}

	v, err, _ := m.group.Do(refreshToken, func() (any, error) {
		// Önceki Do bu arada bitmiş olabilir.
		if tokens, ok := m.rotated.Get(refreshToken); ok {
			return tokens, nil
		}
		tokens, err := m.api.Refresh(ctx, refreshToken)
		if err != nil {
			return nil, err
		}
		m.rotated.Set(refreshToken, tokens)
		return tokens, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*models.AuthTokens), nil
}

func (m *SessionManager) loadViewer(ctx context.Context, access string) (*models.User, error) {
	if viewer, ok := m.viewers.Get(access); ok {
		return viewer, nil
	}

	viewer, err := m.api.Me(ctx, access)
	if err != nil {
		return nil, err
	}
	m.cacheViewer(access, viewer)
	return viewer, nil
}

// cacheViewer, viewer'ı access token süresini aşmayacak şekilde cache'ler.
func (m *SessionManager) cacheViewer(access string, viewer *models.User) {
	deadline, _ := accessExpiry(access)
	m.viewers.SetUntil(access, viewer, deadline)
}

// ForgetViewer, profil/rol değişikliğinden sonra cache'teki viewer'ı düşürür.
func (m *SessionManager) ForgetViewer(access string) {
	if access != "" {
		m.viewers.Delete(access)
	}
}

// ForgetUser, bir kullanıcının tüm cache kayıtlarını düşürür (admin rol değişikliği).
func (m *SessionManager) ForgetUser(userID string) {
	m.viewers.DeleteFunc(func(_ string, u *models.User) bool {
		return u.ID == userID
	})
}

// dropOnAuthError: API oturumu reddettiyse cookie'leri siler; geçici hatada dokunmaz.
func (m *SessionManager) dropOnAuthError(w http.ResponseWriter, err error) {
	if errors.Is(err, pkg.ErrUnauthorized) {
		m.clearCookies(w)
		return
	}
	log.Printf("[web] session resolve failed: %v", err)
}

// SetTokens, login/signup/refresh sonrası iki cookie'yi yazar.
func (m *SessionManager) SetTokens(w http.ResponseWriter, tokens *models.AuthTokens) {
	accessMaxAge := 0
	if exp, ok := accessExpiry(tokens.AccessToken); ok {
		accessMaxAge = int(exp.Sub(m.now()).Seconds())
	}
	if accessMaxAge <= 0 {
		accessMaxAge = -1
	}

	http.SetCookie(w, m.cookie(AccessCookie, tokens.AccessToken, accessMaxAge))
	http.SetCookie(w, m.cookie(RefreshCookie, tokens.RefreshToken, int(m.refreshTTL.Seconds())))
}

// Logout, API'de oturumu kapatır ve cookie'leri siler. API hatası logout'u engellemez.
func (m *SessionManager) Logout(w http.ResponseWriter, r *http.Request) {
	if refresh := cookieValue(r, RefreshCookie); refresh != "" {
		if err := m.api.Logout(r.Context(), refresh); err != nil {
			log.Printf("[web] api logout failed: %v", err)
		}
	}
	m.ForgetViewer(SessionFromContext(r.Context()).AccessToken)
	m.clearCookies(w)
}

// Clear, cookie'leri siler (şifre değişikliği gibi API'nin oturumu zaten kapattığı durumlar).
func (m *SessionManager) Clear(w http.ResponseWriter, r *http.Request) {
	m.ForgetViewer(SessionFromContext(r.Context()).AccessToken)
	m.clearCookies(w)
}

func (m *SessionManager) clearCookies(w http.ResponseWriter) {
	http.SetCookie(w, m.cookie(AccessCookie, "", -1))
	http.SetCookie(w, m.cookie(RefreshCookie, "", -1))
}

func (m *SessionManager) cookie(name, value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	}
}

func cookieValue(r *http.Request, name string) string {
	c, err := r.Cookie(name)
	if err != nil {
		return ""
	}
	return c.Value
}
