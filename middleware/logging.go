package middleware

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"
)

// RequestIDHeader, istek kimliğinin taşındığı header. Web katmanı API'ye
// yaptığı çağrılarda aynı değeri iletir; iki tarafın logları eşleşir.
const RequestIDHeader = "X-Request-ID"

type requestIDKey struct{}

// RequestIDFromContext, istek kimliğini döner (yoksa "").
func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

// statusRecorder, handler'ın yazdığı status code'u yakalar.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (r *statusRecorder) Unwrap() http.ResponseWriter {
	return r.ResponseWriter
}

// RequestLogger, her isteğe bir kimlik atar ve bitişte tek satır log yazar:
//
//	[http] 3f1c... GET /boards/free 200 4.2ms
//
// Gelen istekte geçerli bir X-Request-ID varsa o kullanılır.
func RequestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(RequestIDHeader)
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
		}
		w.Header().Set(RequestIDHeader, id)

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()

		next.ServeHTTP(rec, r.WithContext(context.WithValue(r.Context(), requestIDKey{}, id)))

		log.Printf("[http] %s %s %s %d %s", id, r.Method, r.URL.Path, rec.status, time.Since(start).Round(100*time.Microsecond))
	})
}
