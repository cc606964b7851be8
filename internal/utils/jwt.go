package utils

import (
	"errors"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken — единый результат для любой проблемы с токеном:
// подпись, срок, отсутствующий sub, мусор вместо токена.
// Детали не раскрываем, чтобы не подсказывать причину отказа.
var ErrInvalidToken = errors.New("invalid token")

// GenerateToken создаёт bearer-токен: sub — строковый id пользователя,
// exp — абсолютный срок истечения.
func GenerateToken(secret string, userID int, duration time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"sub": strconv.Itoa(userID),
		"exp": time.Now().Add(duration).Unix(),
		"iat": time.Now().Unix(), // issued at — доп. уникальность
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// ParseToken проверяет подпись и срок, возвращает id пользователя из sub.
func ParseToken(secret string, tokenString string) (int, error) {
	claims := jwt.MapClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		return 0, ErrInvalidToken
	}

	sub, ok := claims["sub"].(string)
	if !ok {
		return 0, ErrInvalidToken
	}
	userID, err := strconv.Atoi(sub)
	if err != nil {
		return 0, ErrInvalidToken
	}

	return userID, nil
}
