// Package main — Web arayüzü başlatma.
//
// Web katmanı veritabanına dokunmaz; apiclient ile WEB_API_URL'deki
// Board API'ye konuşur. Aynı process'te API de açıksa bu loopback adrestir.
package main

import (
	"fmt"
	"time"

	"github.com/akinalp/pano/apiclient"
	"github.com/akinalp/pano/config"
	"github.com/akinalp/pano/middleware"
	"github.com/akinalp/pano/pkg/i18n"
	"github.com/akinalp/pano/pkg/ratelimit"
	"github.com/akinalp/pano/web"
)

// viewerCacheTTL, /api/users/me sonucunun access token başına tutulma süresi.
const viewerCacheTTL = 30 * time.Second

// initWeb, web server'ını ve oturum yöneticisini oluşturur.
// Dönen SessionManager shutdown'da kapatılmalı (cache goroutine'leri).
func initWeb(cfg *config.Config) (*web.Server, *web.SessionManager, error) {
	if err := i18n.LoadEmbedded(); err != nil {
		return nil, nil, fmt.Errorf("failed to load translations: %w", err)
	}

	renderer, err := web.NewRenderer(cfg.Web.PrettyHTML)
	if err != nil {
		return nil, nil, err
	}

	api := apiclient.New(cfg.Web.APIURL, nil)
	api.RequestID = middleware.RequestIDFromContext

	refreshTTL := time.Duration(cfg.JWT.RefreshTokenExpiry) * 24 * time.Hour
	sessions := web.NewSessionManager(api, cfg.Web.CookieSecure, refreshTTL, viewerCacheTTL)

	return web.NewServer(api, sessions, renderer, ratelimit.NewIPResolver(cfg.Server.TrustedProxies)), sessions, nil
}
