package models

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

// Board, yazıların açıldığı pano.
//
// WriteRole, panoya yazı açabilecek en düşük roldür. "Duyurular" gibi
// panolar ADMIN ile kilitlenir; okuma herkese açıktır.
type Board struct {
	ID          string    `json:"id"`
	Slug        string    `json:"slug"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CategoryID  *string   `json:"category_id"` // Nullable — kategorisiz pano olabilir
	WriteRole   Role      `json:"write_role"`
	Position    int       `json:"position"`
	PostCount   int       `json:"post_count"`
	CreatedAt   time.Time `json:"created_at"`
}

// EffectiveWriteRole, boş write_role'ü USER olarak yorumlar.
func (b *Board) EffectiveWriteRole() Role {
	if b.WriteRole == "" {
		return RoleUser
	}
	return b.WriteRole
}

// CreateBoardRequest, yeni pano oluşturma isteği.
type CreateBoardRequest struct {
	Slug        string `json:"slug"`
	Name        string `json:"name"`
	Description string `json:"description"`
	CategoryID  string `json:"category_id"` // Boş → kategorisiz
	WriteRole   Role   `json:"write_role"`  // Boş → USER
}

// Validate, pano oluşturma isteğini doğrular ve normalize eder.
func (r *CreateBoardRequest) Validate() error {
	r.Slug = strings.ToLower(strings.TrimSpace(r.Slug))
	if err := validateSlug(r.Slug); err != nil {
		return err
	}

	r.Name = strings.TrimSpace(r.Name)
	if err := validateBoardName(r.Name); err != nil {
		return err
	}

	r.Description = strings.TrimSpace(r.Description)
	if utf8.RuneCountInString(r.Description) > 500 {
		return fmt.Errorf("description must be at most 500 characters")
	}

	r.CategoryID = strings.TrimSpace(r.CategoryID)

	if r.WriteRole == "" {
		r.WriteRole = RoleUser
	}
	role, err := ParseRole(string(r.WriteRole))
	if err != nil {
		return fmt.Errorf("write_role must be USER or ADMIN")
	}
	r.WriteRole = role

	return nil
}

// UpdateBoardRequest, pano güncelleme isteği.
// nil → değişmez. CategoryID için boş string → kategoriden çıkar.
type UpdateBoardRequest struct {
	Slug        *string `json:"slug"`
	Name        *string `json:"name"`
	Description *string `json:"description"`
	CategoryID  *string `json:"category_id"`
	WriteRole   *Role   `json:"write_role"`
	Position    *int    `json:"position"`
}

// Validate, güncelleme isteğini doğrular ve normalize eder.
func (r *UpdateBoardRequest) Validate() error {
	if r.Slug != nil {
		slug := strings.ToLower(strings.TrimSpace(*r.Slug))
		if err := validateSlug(slug); err != nil {
			return err
		}
		r.Slug = &slug
	}
	if r.Name != nil {
		name := strings.TrimSpace(*r.Name)
		if err := validateBoardName(name); err != nil {
			return err
		}
		r.Name = &name
	}
	if r.Description != nil {
		desc := strings.TrimSpace(*r.Description)
		if utf8.RuneCountInString(desc) > 500 {
			return fmt.Errorf("description must be at most 500 characters")
		}
		r.Description = &desc
	}
	if r.CategoryID != nil {
		id := strings.TrimSpace(*r.CategoryID)
		r.CategoryID = &id
	}
	if r.WriteRole != nil {
		role, err := ParseRole(string(*r.WriteRole))
		if err != nil {
			return fmt.Errorf("write_role must be USER or ADMIN")
		}
		r.WriteRole = &role
	}
	if r.Position != nil && *r.Position < 0 {
		return fmt.Errorf("position must not be negative")
	}
	return nil
}

// validateSlug: 2-40 karakter, sadece küçük harf, rakam ve tire; tire ile başlayıp bitemez.
func validateSlug(slug string) error {
	if len(slug) < 2 || len(slug) > 40 {
		return fmt.Errorf("slug must be between 2 and 40 characters")
	}
	for _, ch := range slug {
		if !((ch >= 'a' && ch <= 'z') || (ch >= '0' && ch <= '9') || ch == '-') {
			return fmt.Errorf("slug can only contain lowercase letters, numbers, and dashes")
		}
	}
	if strings.HasPrefix(slug, "-") || strings.HasSuffix(slug, "-") {
		return fmt.Errorf("slug must not start or end with a dash")
	}
	return nil
}

func validateBoardName(name string) error {
	n := utf8.RuneCountInString(name)
	if n < 1 || n > 100 {
		return fmt.Errorf("board name must be between 1 and 100 characters")
	}
	return nil
}
