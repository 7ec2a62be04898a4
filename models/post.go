package models

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

// Post, bir panodaki yazı.
// AuthorUsername ve BoardSlug JOIN ile doldurulur — listede ayrı sorgu gerekmez.
type Post struct {
	ID             string    `json:"id"`
	BoardID        string    `json:"board_id"`
	BoardSlug      string    `json:"board_slug"`
	AuthorID       string    `json:"author_id"`
	AuthorUsername string    `json:"author_username"`
	Title          string    `json:"title"`
	Content        string    `json:"content"`
	ViewCount      int       `json:"view_count"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// Edited, yazı oluşturulduktan sonra düzenlendi mi?
func (p *Post) Edited() bool {
	return p.UpdatedAt.After(p.CreatedAt.Add(time.Second))
}

const (
	maxPostTitleLength   = 200
	maxPostContentLength = 20000
)

// PostSortFields, yazı listesinde izin verilen sıralama alanları.
// İlk eleman varsayılandır. Değerler doğrudan SQL ORDER BY'a girer —
// bu yüzden whitelist dışında hiçbir şey kabul edilmez.
var PostSortFields = []string{"created_at", "view_count", "title"}

// CreatePostRequest, yeni yazı isteği.
type CreatePostRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// Validate, başlık ve içeriği kontrol eder.
func (r *CreatePostRequest) Validate() error {
	r.Title = strings.TrimSpace(r.Title)
	if err := validatePostTitle(r.Title); err != nil {
		return err
	}
	r.Content = strings.TrimSpace(r.Content)
	return validatePostContent(r.Content)
}

// UpdatePostRequest, yazı düzenleme isteği. nil → değişmez.
type UpdatePostRequest struct {
	Title   *string `json:"title"`
	Content *string `json:"content"`
}

// Validate, güncelleme isteğini kontrol eder.
func (r *UpdatePostRequest) Validate() error {
	if r.Title == nil && r.Content == nil {
		return fmt.Errorf("nothing to update")
	}
	if r.Title != nil {
		t := strings.TrimSpace(*r.Title)
		if err := validatePostTitle(t); err != nil {
			return err
		}
		r.Title = &t
	}
	if r.Content != nil {
		c := strings.TrimSpace(*r.Content)
		if err := validatePostContent(c); err != nil {
			return err
		}
		r.Content = &c
	}
	return nil
}

func validatePostTitle(title string) error {
	n := utf8.RuneCountInString(title)
	if n < 1 || n > maxPostTitleLength {
		return fmt.Errorf("title must be between 1 and %d characters", maxPostTitleLength)
	}
	return nil
}

func validatePostContent(content string) error {
	n := utf8.RuneCountInString(content)
	if n < 1 || n > maxPostContentLength {
		return fmt.Errorf("content must be between 1 and %d characters", maxPostContentLength)
	}
	return nil
}
