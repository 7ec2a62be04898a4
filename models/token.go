package models

import "github.com/golang-jwt/jwt/v5"

// TokenClaims, access JWT'nin payload'ı.
//
// Role claim'i sadece bilgi amaçlıdır — API her istekte kullanıcıyı DB'den
// yeniden okur, böylece rol değişikliği token süresini beklemeden etkili olur.
type TokenClaims struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	Role     Role   `json:"role"`
	jwt.RegisteredClaims
}

// AuthTokens, login/register/refresh sonrası dönen token çifti.
type AuthTokens struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	User         User   `json:"user"`
}

// RefreshRequest, refresh ve logout endpoint'lerinin body'si.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}
