package repository

import (
	"context"
	"errors"
	"tikkit/internal/logger"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// DefaultTasksJSON — документ нового пользователя, пока он ничего не сохранял.
const DefaultTasksJSON = `{"tasks":[]}`

type TaskDataRepository struct {
	db *pgxpool.Pool
}

func NewTaskDataRepository(db *pgxpool.Pool) *TaskDataRepository {
	return &TaskDataRepository{db: db}
}

// Get возвращает документ пользователя или дефолт, если строки ещё нет.
func (r *TaskDataRepository) Get(ctx context.Context, userID int) (string, error) {
	logger.WithCtx(ctx).Debug("Чтение документа (repo)", zap.Int("user_id", userID))
	query := `SELECT tasks_json FROM user_data WHERE user_id = $1`

	var tasksJSON string
	err := r.db.QueryRow(ctx, query, userID).Scan(&tasksJSON)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return DefaultTasksJSON, nil
		}
		logger.WithCtx(ctx).Error("Ошибка чтения документа (repo)", zap.Error(err), zap.Int("user_id", userID))
		return "", err
	}
	return tasksJSON, nil
}

// Put — атомарный upsert: вставка или полная перезапись документа.
// Побеждает последний коммит, слияний нет.
func (r *TaskDataRepository) Put(ctx context.Context, userID int, tasksJSON string) error {
	logger.WithCtx(ctx).Debug("Запись документа (repo)", zap.Int("user_id", userID))
	query := `
		INSERT INTO user_data (user_id, tasks_json) VALUES ($1, $2)
		ON CONFLICT (user_id) DO UPDATE SET tasks_json = EXCLUDED.tasks_json`

	_, err := r.db.Exec(ctx, query, userID, tasksJSON)
	if err != nil {
		logger.WithCtx(ctx).Error("Ошибка записи документа (repo)", zap.Error(err), zap.Int("user_id", userID))
	}
	return err
}
