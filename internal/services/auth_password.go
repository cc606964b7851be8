package services

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"time"
	"unicode/utf8"

	"tikkit/internal/logger"
	"tikkit/internal/models"
	"tikkit/internal/utils"

	"go.uber.org/zap"
)

var (
	ErrResetTokenInvalid = errors.New("invalid or expired token")
	ErrWeakPassword      = errors.New("password must be at least 8 characters")
)

type PasswordService struct {
	repo        PasswordResetRepo
	emailSender EmailSender
	appURL      string // базовый URL приложения, ссылка вида /?token=...
	tokenTTL    time.Duration
}

type PasswordResetRepo interface {
	Create(ctx context.Context, token string, userID int, expiresAt time.Time) error
	GetByToken(ctx context.Context, token string) (*models.PasswordResetToken, error)
	ConsumeAndSetPassword(ctx context.Context, token string, userID int, passwordHash string) error
	FindUserIDByEmail(ctx context.Context, email string) (int, error)
}

type EmailSender interface {
	SendPasswordReset(ctx context.Context, to, resetLink string) error
}

func NewPasswordService(repo PasswordResetRepo, emailSender EmailSender, appURL string, tokenTTL time.Duration) *PasswordService {
	return &PasswordService{
		repo:        repo,
		emailSender: emailSender,
		appURL:      appURL,
		tokenTTL:    tokenTTL,
	}
}

// RequestReset генерирует одноразовый токен и отправляет письмо со ссылкой.
// Возвращает nil всегда (не раскрываем, существует ли такой e-mail).
func (s *PasswordService) RequestReset(ctx context.Context, email string) error {
	logger.WithCtx(ctx).Info("Запрос на сброс пароля")

	userID, err := s.repo.FindUserIDByEmail(ctx, email)
	if err != nil {
		// Не раскрываем наличие почты пользователю, но логируем для нас:
		logger.WithCtx(ctx).Warn("Не удалось найти пользователя по email при запросе сброса", zap.Error(err))
		return nil
	}

	// Криптостойкий токен: 32 байта = 256 бит энтропии
	raw := make([]byte, 32)
	if _, err := rand.Read(raw); err != nil {
		logger.WithCtx(ctx).Error("Ошибка генерации токена для сброса", zap.Error(err), zap.Int("user_id", userID))
		return nil
	}
	token := base64.RawURLEncoding.EncodeToString(raw)

	expires := time.Now().Add(s.tokenTTL)
	if err := s.repo.Create(ctx, token, userID, expires); err != nil {
		logger.WithCtx(ctx).Error("Ошибка сохранения токена сброса пароля",
			zap.Int("user_id", userID),
			zap.Error(err),
		)
		return nil
	}

	resetLink := fmt.Sprintf("%s/?token=%s", s.appURL, token)
	if err := s.emailSender.SendPasswordReset(ctx, email, resetLink); err != nil {
		logger.WithCtx(ctx).Error("Ошибка постановки письма сброса в очередь",
			zap.Int("user_id", userID),
			zap.Error(err),
		)
		// Не фейлим намеренно — чтобы нельзя было брутить наличие e-mail
	}

	logger.WithCtx(ctx).Info("Письмо со ссылкой на сброс пароля поставлено на отправку",
		zap.Int("user_id", userID),
		zap.Time("expires_at", expires),
	)
	return nil
}

// ResetPassword подтверждает токен и устанавливает новый пароль.
// Гашение токена и смена пароля коммитятся одной транзакцией.
func (s *PasswordService) ResetPassword(ctx context.Context, token, newPassword string) error {
	logger.WithCtx(ctx).Info("Попытка сброса пароля по токену")

	// Считаем символы, а не байты: кириллический пароль из 7 букв — короткий
	if utf8.RuneCountInString(newPassword) < 8 {
		logger.WithCtx(ctx).Warn("Слишком короткий новый пароль")
		return ErrWeakPassword
	}

	rec, err := s.repo.GetByToken(ctx, token)
	if err != nil {
		logger.WithCtx(ctx).Warn("Токен сброса не найден", zap.Error(err))
		return ErrResetTokenInvalid
	}

	// Срок проверяем на момент гашения, не выдачи
	if rec.Used || time.Now().After(rec.ExpiresAt) {
		logger.WithCtx(ctx).Warn("Токен сброса просрочен или уже использован", zap.Int("user_id", rec.UserID))
		return ErrResetTokenInvalid
	}

	pwHash, err := utils.HashPassword(newPassword)
	if err != nil {
		logger.WithCtx(ctx).Error("Ошибка генерации хеша пароля", zap.Error(err), zap.Int("user_id", rec.UserID))
		return err
	}

	if err := s.repo.ConsumeAndSetPassword(ctx, token, rec.UserID, pwHash); err != nil {
		logger.WithCtx(ctx).Warn("Не удалось погасить токен сброса", zap.Error(err), zap.Int("user_id", rec.UserID))
		return ErrResetTokenInvalid
	}

	logger.WithCtx(ctx).Info("Пароль успешно сброшен", zap.Int("user_id", rec.UserID))
	return nil
}
