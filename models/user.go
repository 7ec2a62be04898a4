// Package models, uygulamanın domain modellerini (veri yapıları) tanımlar.
//
// Modeller hem API katmanında (JSON request/response) hem de web katmanında
// (template verisi) aynen kullanılır — web arayüzü API'den gelen JSON'u
// bu struct'lara decode eder.
package models

import (
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"
)

// User, bir kullanıcıyı temsil eder.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	DisplayName  *string   `json:"display_name"` // *string = nullable
	Email        *string   `json:"email"`
	PasswordHash string    `json:"-"` // json:"-" → API response'a DAHİL ETME (güvenlik!)
	Role         Role      `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
}

// Name, arayüzde gösterilecek adı döner: display name varsa o, yoksa username.
func (u *User) Name() string {
	if u.DisplayName != nil && *u.DisplayName != "" {
		return *u.DisplayName
	}
	return u.Username
}

// emailRegex, basit format kontrolü — tam RFC 5322 değil, yaygın hataları yakalar.
var emailRegex = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// CreateUserRequest, kayıt olurken gelen veri.
// PasswordHash yerine Password alırız — hash'leme service katmanında yapılır.
type CreateUserRequest struct {
	Username    string `json:"username"`
	Password    string `json:"password"`
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
}

// Validate, CreateUserRequest'in geçerli olup olmadığını kontrol eder.
//   - Username: 3-32 karakter, alfanumerik + alt çizgi
//   - Password: minimum 8 karakter
//   - Email: opsiyonel, geçerli format
//   - DisplayName: opsiyonel, max 32 karakter
func (r *CreateUserRequest) Validate() error {
	r.Username = strings.TrimSpace(r.Username)
	usernameLen := utf8.RuneCountInString(r.Username)
	if usernameLen < 3 || usernameLen > 32 {
		return fmt.Errorf("username must be between 3 and 32 characters")
	}

	for _, ch := range r.Username {
		if !isValidUsernameChar(ch) {
			return fmt.Errorf("username can only contain letters, numbers, and underscores")
		}
	}

	if utf8.RuneCountInString(r.Password) < 8 {
		return fmt.Errorf("password must be at least 8 characters")
	}

	r.Email = strings.TrimSpace(r.Email)
	if r.Email != "" && !emailRegex.MatchString(r.Email) {
		return fmt.Errorf("invalid email format")
	}

	r.DisplayName = strings.TrimSpace(r.DisplayName)
	if utf8.RuneCountInString(r.DisplayName) > 32 {
		return fmt.Errorf("display name must be at most 32 characters")
	}

	return nil
}

// LoginRequest, giriş yaparken gelen veri.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Validate, LoginRequest'in geçerli olup olmadığını kontrol eder.
func (r *LoginRequest) Validate() error {
	r.Username = strings.TrimSpace(r.Username)
	if r.Username == "" {
		return fmt.Errorf("username is required")
	}
	if r.Password == "" {
		return fmt.Errorf("password is required")
	}
	return nil
}

// UpdateProfileRequest, kullanıcının kendi profilini güncellemesi için.
// nil alan → değişmez. Boş string → alanı temizle.
type UpdateProfileRequest struct {
	DisplayName *string `json:"display_name"`
	Email       *string `json:"email"`
}

// Validate, profil güncelleme isteğini doğrular ve alanları normalize eder.
func (r *UpdateProfileRequest) Validate() error {
	if r.DisplayName != nil {
		trimmed := strings.TrimSpace(*r.DisplayName)
		if utf8.RuneCountInString(trimmed) > 32 {
			return fmt.Errorf("display name must be at most 32 characters")
		}
		r.DisplayName = &trimmed
	}
	if r.Email != nil {
		trimmed := strings.TrimSpace(*r.Email)
		if trimmed != "" && !emailRegex.MatchString(trimmed) {
			return fmt.Errorf("invalid email format")
		}
		r.Email = &trimmed
	}
	return nil
}

// ChangePasswordRequest, şifre değiştirme isteği.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

// Validate, şifre değiştirme isteğini doğrular.
func (r *ChangePasswordRequest) Validate() error {
	if r.CurrentPassword == "" || r.NewPassword == "" {
		return fmt.Errorf("current_password and new_password are required")
	}
	if utf8.RuneCountInString(r.NewPassword) < 8 {
		return fmt.Errorf("password must be at least 8 characters")
	}
	if r.CurrentPassword == r.NewPassword {
		return fmt.Errorf("new password must be different from current password")
	}
	return nil
}

// isValidUsernameChar, username'de izin verilen karakterleri kontrol eder.
func isValidUsernameChar(ch rune) bool {
	return (ch >= 'a' && ch <= 'z') ||
		(ch >= 'A' && ch <= 'Z') ||
		(ch >= '0' && ch <= '9') ||
		ch == '_'
}
