package repository

import (
	"context"
	"errors"
	"tikkit/internal/logger"
	"tikkit/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

var (
	// ErrEmailTaken — уникальный индекс по email сработал.
	// Гонки при одновременной регистрации разруливает сама БД.
	ErrEmailTaken   = errors.New("email уже зарегистрирован")
	ErrUserNotFound = errors.New("пользователь не найден")
)

const uniqueViolation = "23505"

type UserRepository struct {
	db *pgxpool.Pool
}

func NewUserRepository(db *pgxpool.Pool) *UserRepository {
	return &UserRepository{db: db}
}

// CreateUser вставляет пользователя и возвращает id.
// passwordHash == nil для аккаунтов, заведённых через Google.
func (r *UserRepository) CreateUser(ctx context.Context, email string, passwordHash *string) (int, error) {
	logger.WithCtx(ctx).Info("Создание пользователя (repo)", zap.String("email", email))
	query := `INSERT INTO users (email, password_hash) VALUES ($1, $2) RETURNING id`

	var id int
	err := r.db.QueryRow(ctx, query, email, passwordHash).Scan(&id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return 0, ErrEmailTaken
		}
		logger.WithCtx(ctx).Error("Ошибка создания пользователя (repo)", zap.Error(err))
		return 0, err
	}
	return id, nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	logger.WithCtx(ctx).Debug("Получение пользователя по email (repo)", zap.String("email", email))
	query := `SELECT id, email, password_hash, created_at FROM users WHERE email = $1`

	var user models.User
	err := r.db.QueryRow(ctx, query, email).Scan(
		&user.ID,
		&user.Email,
		&user.PasswordHash,
		&user.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		logger.WithCtx(ctx).Error("Ошибка получения пользователя по email (repo)", zap.Error(err))
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) UpdatePasswordHash(ctx context.Context, userID int, hash string) error {
	logger.WithCtx(ctx).Info("Обновление пароля (repo)", zap.Int("user_id", userID))
	query := `UPDATE users SET password_hash = $1 WHERE id = $2`
	_, err := r.db.Exec(ctx, query, hash, userID)
	if err != nil {
		logger.WithCtx(ctx).Error("Ошибка обновления пароля (repo)", zap.Error(err), zap.Int("user_id", userID))
	}
	return err
}

// GetOrCreateByEmail находит пользователя по email или заводит нового без пароля.
// При одновременном первом входе дубликат невозможен: на конфликт уникальности
// делаем повторную выборку.
func (r *UserRepository) GetOrCreateByEmail(ctx context.Context, email string) (int, error) {
	user, err := r.GetByEmail(ctx, email)
	if err == nil {
		return user.ID, nil
	}
	if !errors.Is(err, ErrUserNotFound) {
		return 0, err
	}

	id, err := r.CreateUser(ctx, email, nil)
	if errors.Is(err, ErrEmailTaken) {
		user, err = r.GetByEmail(ctx, email)
		if err != nil {
			return 0, err
		}
		return user.ID, nil
	}
	return id, err
}
