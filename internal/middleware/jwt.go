package middleware

import (
	"net/http"
	"strings"
	"tikkit/internal/logger"
	"tikkit/internal/reqctx"
	"tikkit/internal/utils"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

// JWTAuth проверяет bearer-токен и кладёт user_id в контекст.
// Любая проблема с токеном — один и тот же 401, до вызова хендлера.
func JWTAuth(jwtSecret string) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}

			authHeader := r.Header.Get("Authorization")
			if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
				logger.WithCtx(r.Context()).Warn("JWTAuth: отсутствует bearer-токен")
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}

			tokenString := strings.TrimPrefix(authHeader, "Bearer ")

			userID, err := utils.ParseToken(jwtSecret, tokenString)
			if err != nil {
				logger.WithCtx(r.Context()).Warn("JWTAuth: неверный или просроченный токен", zap.Error(err))
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}

			ctx := reqctx.WithUserID(r.Context(), userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
