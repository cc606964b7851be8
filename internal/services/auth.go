package services

import (
	"context"
	"errors"
	"time"
	"tikkit/internal/logger"
	"tikkit/internal/models"
	"tikkit/internal/repository"
	"tikkit/internal/utils"

	"go.uber.org/zap"
)

var (
	ErrEmailTaken = errors.New("email уже зарегистрирован")
	// ErrInvalidCredentials — один ответ и для неизвестного email, и для
	// неверного пароля, чтобы не было оракула перебора аккаунтов.
	ErrInvalidCredentials = errors.New("неверный email или пароль")
)

type AuthService struct {
	repo UserRepo
}

func NewAuthService(repo UserRepo) *AuthService {
	return &AuthService{repo: repo}
}

type UserRepo interface {
	CreateUser(ctx context.Context, email string, passwordHash *string) (int, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	UpdatePasswordHash(ctx context.Context, userID int, hash string) error
	GetOrCreateByEmail(ctx context.Context, email string) (int, error)
}

// SignupUser регистрирует пользователя и сразу выдаёт bearer-токен.
func (s *AuthService) SignupUser(ctx context.Context, email, password, jwtSecret string, tokenTTL time.Duration) (string, error) {
	logger.WithCtx(ctx).Info("Регистрация пользователя (service)", zap.String("email", email))

	hashed, err := utils.HashPassword(password)
	if err != nil {
		logger.WithCtx(ctx).Error("Ошибка хеширования пароля", zap.Error(err))
		return "", err
	}

	userID, err := s.repo.CreateUser(ctx, email, &hashed)
	if err != nil {
		if errors.Is(err, repository.ErrEmailTaken) {
			logger.WithCtx(ctx).Warn("Email уже занят (service)", zap.String("email", email))
			return "", ErrEmailTaken
		}
		logger.WithCtx(ctx).Error("Ошибка создания пользователя (service)", zap.Error(err))
		return "", err
	}

	token, err := utils.GenerateToken(jwtSecret, userID, tokenTTL)
	if err != nil {
		logger.WithCtx(ctx).Error("Ошибка генерации токена", zap.Error(err))
		return "", err
	}

	logger.WithCtx(ctx).Info("Пользователь зарегистрирован (service)", zap.Int("user_id", userID))
	return token, nil
}

// LoginUser проверяет пароль и выдаёт bearer-токен.
func (s *AuthService) LoginUser(ctx context.Context, email, password, jwtSecret string, tokenTTL time.Duration) (string, error) {
	logger.WithCtx(ctx).Info("Попытка входа (service)", zap.String("email", email))

	user, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		logger.WithCtx(ctx).Warn("Пользователь не найден (service)", zap.String("email", email))
		return "", ErrInvalidCredentials
	}

	// У google-аккаунтов PasswordHash == nil — вход по паролю для них закрыт.
	if user.PasswordHash == nil || !utils.CheckPasswordHash(password, *user.PasswordHash) {
		logger.WithCtx(ctx).Warn("Неверный пароль (service)", zap.String("email", email))
		return "", ErrInvalidCredentials
	}

	token, err := utils.GenerateToken(jwtSecret, user.ID, tokenTTL)
	if err != nil {
		logger.WithCtx(ctx).Error("Ошибка генерации токена", zap.Error(err))
		return "", err
	}

	logger.WithCtx(ctx).Info("Вход выполнен (service)", zap.Int("user_id", user.ID))
	return token, nil
}

// LoginWithEmail выдаёт токен по подтверждённому внешним провайдером email.
// Аккаунт заводится при первом входе, без пароля.
func (s *AuthService) LoginWithEmail(ctx context.Context, email, jwtSecret string, tokenTTL time.Duration) (string, error) {
	userID, err := s.repo.GetOrCreateByEmail(ctx, email)
	if err != nil {
		logger.WithCtx(ctx).Error("Ошибка lookup-or-create по email (service)", zap.Error(err))
		return "", err
	}

	token, err := utils.GenerateToken(jwtSecret, userID, tokenTTL)
	if err != nil {
		logger.WithCtx(ctx).Error("Ошибка генерации токена", zap.Error(err))
		return "", err
	}

	logger.WithCtx(ctx).Info("Вход через внешнего провайдера (service)", zap.Int("user_id", userID))
	return token, nil
}
