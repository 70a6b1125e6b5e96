package middleware

import (
	"net/http"
	"strings"

	"cryptofunds/internal/logger"
	"cryptofunds/internal/reqctx"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

const AdminCookie = "admin_token"

// JWTAuth проверяет токен из cookie admin_token или заголовка Authorization: Bearer.
func JWTAuth(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}

			log := logger.WithCtx(r.Context())

			if strings.TrimSpace(secret) == "" {
				log.Warn("JWTAuth: JWT_SECRET не задан, доступ закрыт")
				http.Error(w, "Доступ запрещён", http.StatusUnauthorized)
				return
			}

			tokenString := extractToken(r)
			if tokenString == "" {
				log.Warn("JWTAuth: отсутствует access token")
				http.Error(w, "Отсутствует access token", http.StatusUnauthorized)
				return
			}

			claims := jwt.MapClaims{}
			token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
				return []byte(secret), nil
			}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))

			if err != nil || !token.Valid {
				log.Warn("JWTAuth: неверный или просроченный токен", zap.Error(err))
				http.Error(w, "Неверный или просроченный токен", http.StatusUnauthorized)
				return
			}

			subject, _ := claims["sub"].(string)
			role, ok := claims["role"].(string)
			if !ok {
				log.Warn("JWTAuth: недопустимый payload", zap.Any("claims", claims))
				http.Error(w, "Недопустимый payload", http.StatusUnauthorized)
				return
			}

			ctx := reqctx.WithRole(r.Context(), role)
			if subject != "" {
				ctx = reqctx.WithAdmin(ctx, subject)
			}

			logger.WithCtx(ctx).Debug("JWTAuth: токен валиден", zap.String("role", role))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// AdminAuth: JWTAuth плюс обязательная роль admin.
func AdminAuth(secret string) func(http.Handler) http.Handler {
	auth := JWTAuth(secret)
	onlyAdmin := OnlyRole("admin")
	return func(next http.Handler) http.Handler {
		return auth(onlyAdmin(next))
	}
}

func extractToken(r *http.Request) string {
	if c, err := r.Cookie(AdminCookie); err == nil && strings.TrimSpace(c.Value) != "" {
		return strings.TrimSpace(c.Value)
	}
	authHeader := r.Header.Get("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
	}
	return ""
}
