package models

import "time"

// Session, refresh token oturumunu temsil eder.
//
// Access token kısa ömürlü (15dk), refresh token uzun ömürlü (7 gün).
// Refresh token'ları DB'de tutarak logout'ta veya şifre değişiminde
// oturumları iptal edebiliriz.
type Session struct {
	ID           string    `json:"id"`
	UserID       string    `json:"user_id"`
	RefreshToken string    `json:"-"` // API'ye gönderilmez
	ExpiresAt    time.Time `json:"expires_at"`
	CreatedAt    time.Time `json:"created_at"`
}
