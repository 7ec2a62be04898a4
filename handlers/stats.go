package handlers

import (
	"context"
	"log"
	"net/http"

	"github.com/akinalp/pano/pkg"
	"github.com/akinalp/pano/services"
)

// Pinger, health check için DB bağlantısı (*sql.DB karşılar).
type Pinger interface {
	PingContext(ctx context.Context) error
}

// StatsHandler, auth gerektirmeyen public endpoint'ler.
type StatsHandler struct {
	adminService services.AdminService
	db           Pinger
}

func NewStatsHandler(adminService services.AdminService, db Pinger) *StatsHandler {
	return &StatsHandler{adminService: adminService, db: db}
}

// GetPublicStats godoc
// GET /api/stats
// Response: { "success": true, "data": { "total_users": 42, "total_posts": 310 } }
func (h *StatsHandler) GetPublicStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.adminService.GetPublicStats(r.Context())
	if err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusOK, stats)
}

// Health godoc
// GET /api/health
// DB'ye ulaşılamıyorsa 503.
func (h *StatsHandler) Health(w http.ResponseWriter, r *http.Request) {
	if err := h.db.PingContext(r.Context()); err != nil {
		log.Printf("[api] health check failed: %v", err)
		pkg.ErrorWithMessage(w, http.StatusServiceUnavailable, "database unavailable")
		return
	}
	pkg.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
