package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/akinalp/pano/models"
	"github.com/akinalp/pano/pkg"
)

// contextKey, context.Value çakışmalarını önleyen özel tip.
type contextKey string

// UserContextKey, AuthMiddleware'in context'e koyduğu *models.User'ın key'i.
const UserContextKey contextKey = "user"

// maxBodyBytes, JSON body üst sınırı. En büyük istek 20000 karakterlik yazı içeriği.
const maxBodyBytes = 1 << 20

// userFromContext, auth middleware'in eklediği kullanıcıyı döner.
// Auth middleware'ından geçmemiş istekte nil döner.
func userFromContext(r *http.Request) *models.User {
	user, _ := r.Context().Value(UserContextKey).(*models.User)
	return user
}

// requireUser, kullanıcı yoksa 401 yazar ve false döner.
func requireUser(w http.ResponseWriter, r *http.Request) (*models.User, bool) {
	user := userFromContext(r)
	if user == nil {
		pkg.ErrorWithMessage(w, http.StatusUnauthorized, "user not found in context")
		return nil, false
	}
	return user, true
}

// decodeJSON, body'yi dst'ye parse eder. Hata durumunda 400/413 yazar ve false döner.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			pkg.ErrorWithMessage(w, http.StatusRequestEntityTooLarge, "request body too large")
			return false
		}
		pkg.ErrorWithMessage(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}
