package services

import (
	"context"
	"errors"
	"tikkit/internal/logger"

	"go.uber.org/zap"
	"google.golang.org/api/idtoken"
)

var (
	ErrGoogleNotConfigured = errors.New("вход через Google не настроен")
	// ErrInvalidGoogleToken — любой провал проверки assertion:
	// подпись, срок, audience, мусор. Причину наружу не отдаём.
	ErrInvalidGoogleToken = errors.New("недействительный Google-токен")
)

type GoogleAuthService struct {
	clientID string
}

func NewGoogleAuthService(clientID string) *GoogleAuthService {
	return &GoogleAuthService{clientID: clientID}
}

func (s *GoogleAuthService) Configured() bool {
	return s.clientID != ""
}

func (s *GoogleAuthService) ClientID() string {
	return s.clientID
}

// Verify проверяет ID-токен Google против нашего client id
// и возвращает подтверждённый email.
func (s *GoogleAuthService) Verify(ctx context.Context, credential string) (string, error) {
	if !s.Configured() {
		return "", ErrGoogleNotConfigured
	}

	payload, err := idtoken.Validate(ctx, credential, s.clientID)
	if err != nil {
		logger.WithCtx(ctx).Warn("Проверка Google-токена не прошла", zap.Error(err))
		return "", ErrInvalidGoogleToken
	}

	email, ok := payload.Claims["email"].(string)
	if !ok || email == "" {
		logger.WithCtx(ctx).Warn("В Google-токене нет email")
		return "", ErrInvalidGoogleToken
	}

	return email, nil
}
