package models

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

// Category, panoları gruplayan başlık (ör: "General", "Support").
type Category struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Position  int       `json:"position"`
	CreatedAt time.Time `json:"created_at"`
}

// CategoryWithBoards, ana sayfada bir kategori ve altındaki panolar.
type CategoryWithBoards struct {
	Category Category `json:"category"`
	Boards   []Board  `json:"boards"`
}

// CreateCategoryRequest, yeni kategori oluşturma isteği.
type CreateCategoryRequest struct {
	Name string `json:"name"`
}

// Validate, kategori adını kontrol eder (1-50 karakter).
func (r *CreateCategoryRequest) Validate() error {
	r.Name = strings.TrimSpace(r.Name)
	return validateCategoryName(r.Name)
}

// DeleteCategoryResult, kategori silme yanıtı.
type DeleteCategoryResult struct {
	DetachedBoards int64 `json:"detached_boards"`
}

// UpdateCategoryRequest, kategori güncelleme isteği.
// Pointer alanlar: nil → değişmez.
type UpdateCategoryRequest struct {
	Name     *string `json:"name"`
	Position *int    `json:"position"`
}

// Validate, güncelleme isteğini kontrol eder.
func (r *UpdateCategoryRequest) Validate() error {
	if r.Name != nil {
		trimmed := strings.TrimSpace(*r.Name)
		if err := validateCategoryName(trimmed); err != nil {
			return err
		}
		r.Name = &trimmed
	}
	if r.Position != nil && *r.Position < 0 {
		return fmt.Errorf("position must not be negative")
	}
	return nil
}

func validateCategoryName(name string) error {
	n := utf8.RuneCountInString(name)
	if n < 1 || n > 50 {
		return fmt.Errorf("category name must be between 1 and 50 characters")
	}
	return nil
}
