package repository

import (
	"context"
	"errors"
	"time"
	"tikkit/internal/logger"
	"tikkit/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// ErrResetTokenSpent — токен уже погашен конкурентным запросом
// между выборкой и транзакцией.
var ErrResetTokenSpent = errors.New("токен сброса уже использован")

type PasswordResetRepository struct {
	db *pgxpool.Pool
}

func NewPasswordResetRepository(db *pgxpool.Pool) *PasswordResetRepository {
	return &PasswordResetRepository{db: db}
}

func (r *PasswordResetRepository) Create(ctx context.Context, token string, userID int, expiresAt time.Time) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO password_reset_tokens (token, user_id, expires_at) VALUES ($1,$2,$3)`,
		token, userID, expiresAt,
	)
	if err != nil {
		logger.WithCtx(ctx).Error("Ошибка сохранения токена сброса (repo)", zap.Error(err), zap.Int("user_id", userID))
	}
	return err
}

func (r *PasswordResetRepository) GetByToken(ctx context.Context, token string) (*models.PasswordResetToken, error) {
	row := r.db.QueryRow(ctx, `
		SELECT token, user_id, expires_at, used
		FROM password_reset_tokens
		WHERE token = $1
	`, token)

	var t models.PasswordResetToken
	if err := row.Scan(&t.Token, &t.UserID, &t.ExpiresAt, &t.Used); err != nil {
		return nil, err
	}
	return &t, nil
}

// ConsumeAndSetPassword гасит токен и ставит новый пароль в одной транзакции:
// либо происходит и то и другое, либо ничего.
func (r *PasswordResetRepository) ConsumeAndSetPassword(ctx context.Context, token string, userID int, passwordHash string) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx,
		`UPDATE password_reset_tokens SET used = TRUE WHERE token = $1 AND used = FALSE AND expires_at > now()`,
		token,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrResetTokenSpent
	}

	if _, err := tx.Exec(ctx,
		`UPDATE users SET password_hash = $1 WHERE id = $2`,
		passwordHash, userID,
	); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

// FindUserIDByEmail — точное совпадение email, без нормализации регистра.
func (r *PasswordResetRepository) FindUserIDByEmail(ctx context.Context, email string) (int, error) {
	var userID int
	err := r.db.QueryRow(ctx, `SELECT id FROM users WHERE email = $1`, email).Scan(&userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, ErrUserNotFound
		}
		return 0, err
	}
	return userID, nil
}
