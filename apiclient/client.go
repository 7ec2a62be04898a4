// Package apiclient, Board API için typed HTTP istemcisi.
//
// Web arayüzü veritabanına hiç dokunmaz; tüm okuma ve yazmalar buradan geçer.
// API'nin {success, data, error} zarfı açılır, hata yanıtları *Error olur ve
// errors.Is ile pkg sentinel'lerine eşlenir:
//
//	post, err := client.Post(ctx, id)
//	if errors.Is(err, pkg.ErrNotFound) { ... }
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/akinalp/pano/pkg"
)

// maxResponseBytes, tek bir API yanıtı için okuma sınırı.
const maxResponseBytes = 4 << 20

// Error, API'nin döndüğü başarısız yanıt.
type Error struct {
	Status  int
	Message string
	// RetryAfter, 429 yanıtlarında Retry-After header'ı (saniye).
	RetryAfter string
}

func (e *Error) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api error: status %d", e.Status)
	}
	return e.Message
}

// Unwrap, status code'u pkg sentinel'ine çevirir; errors.Is bu sayede çalışır.
func (e *Error) Unwrap() error {
	switch e.Status {
	case http.StatusNotFound:
		return pkg.ErrNotFound
	case http.StatusUnauthorized:
		return pkg.ErrUnauthorized
	case http.StatusForbidden:
		return pkg.ErrForbidden
	case http.StatusConflict:
		return pkg.ErrAlreadyExists
	case http.StatusBadRequest, http.StatusRequestEntityTooLarge:
		return pkg.ErrBadRequest
	case http.StatusTooManyRequests:
		return pkg.ErrTooManyRequests
	default:
		return pkg.ErrInternal
	}
}

// envelope, pkg.APIResponse'un okuma tarafı. Data tipine göre sonradan decode edilir.
type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
}

// Client, Board API istemcisi. Eşzamanlı kullanım için güvenlidir.
type Client struct {
	baseURL    string
	httpClient *http.Client

	// RequestID, giden isteğe X-Request-ID olarak eklenecek değeri context'ten okur.
	// nil olabilir.
	RequestID func(ctx context.Context) string
}

// New, baseURL'e ("http://127.0.0.1:9090") bağlanan istemci oluşturur.
// httpClient nil ise 10 saniye timeout'lu bir istemci kullanılır.
func New(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
	}
}

type clientIPKey struct{}

// WithClientIP, API'ye X-Forwarded-For olarak iletilecek son kullanıcı IP'sini ekler.
// Login rate limit'i web sunucusunun değil tarayıcının IP'sini saymalı.
func WithClientIP(ctx context.Context, ip string) context.Context {
	return context.WithValue(ctx, clientIPKey{}, ip)
}

// do, isteği gönderir ve zarfı açar. out nil ise data yok sayılır.
// token boş değilse Authorization: Bearer header'ı eklenir.
func (c *Client) do(ctx context.Context, method, path, token string, body, out any) error {
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if c.RequestID != nil {
		if id := c.RequestID(ctx); id != "" {
			req.Header.Set("X-Request-ID", id)
		}
	}
	if ip, _ := ctx.Value(clientIPKey{}).(string); ip != "" {
		req.Header.Set("X-Forwarded-For", ip)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: api request %s %s failed: %v", pkg.ErrInternal, method, path, err)
	}
	defer resp.Body.Close()

	var env envelope
	decodeErr := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBytes)).Decode(&env)

	if resp.StatusCode >= 400 || (decodeErr == nil && !env.Success) {
		apiErr := &Error{Status: resp.StatusCode, Message: env.Error}
		if apiErr.Status < 400 {
			apiErr.Status = http.StatusInternalServerError
		}
		if apiErr.Status == http.StatusTooManyRequests {
			apiErr.RetryAfter = resp.Header.Get("Retry-After")
		}
		return apiErr
	}

	if decodeErr != nil {
		return fmt.Errorf("%w: invalid api response for %s %s: %v", pkg.ErrInternal, method, path, decodeErr)
	}

	if out == nil || len(env.Data) == 0 {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("%w: failed to decode api data for %s %s: %v", pkg.ErrInternal, method, path, err)
	}
	return nil
}

// pathf, path parametrelerini escape ederek path oluşturur.
//
//	pathf("/api/boards/%s/posts", slug)
func pathf(format string, params ...string) string {
	escaped := make([]any, len(params))
	for i, p := range params {
		escaped[i] = url.PathEscape(p)
	}
	return fmt.Sprintf(format, escaped...)
}

// withQuery, boş olmayan query'yi path'e ekler.
func withQuery(path string, q url.Values) string {
	if len(q) == 0 {
		return path
	}
	return path + "?" + q.Encode()
}
