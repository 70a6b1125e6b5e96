package utils

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// GenerateAdminToken выпускает access-токен для админки (HS256).
func GenerateAdminToken(secret, subject string, duration time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":        subject,
		"role":       "admin",
		"token_type": "access",
		"exp":        now.Add(duration).Unix(),
		"iat":        now.Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}
