package services

import (
	"context"
	"encoding/json"
	"errors"
	"tikkit/internal/logger"

	"go.uber.org/zap"
)

var (
	ErrInvalidJSON  = errors.New("тело запроса не является валидным JSON")
	ErrCorruptedDoc = errors.New("сохранённый документ повреждён")
)

// TaskDataService хранит ровно один JSON-документ на пользователя.
// Содержимое — непрозрачный blob: никакой схемы, запись всегда целиком.
type TaskDataService struct {
	repo TaskDataRepo
}

type TaskDataRepo interface {
	Get(ctx context.Context, userID int) (string, error)
	Put(ctx context.Context, userID int, tasksJSON string) error
}

func NewTaskDataService(repo TaskDataRepo) *TaskDataService {
	return &TaskDataService{repo: repo}
}

// Get возвращает документ пользователя (или дефолтный пустой список задач).
// Перед отдачей прогоняем через JSON-парсер: защита от ранее испорченных строк.
func (s *TaskDataService) Get(ctx context.Context, userID int) (string, error) {
	raw, err := s.repo.Get(ctx, userID)
	if err != nil {
		return "", err
	}

	if !json.Valid([]byte(raw)) {
		logger.WithCtx(ctx).Error("Документ в базе не парсится как JSON", zap.Int("user_id", userID))
		return "", ErrCorruptedDoc
	}
	return raw, nil
}

// Save полностью заменяет документ пользователя.
func (s *TaskDataService) Save(ctx context.Context, userID int, raw string) error {
	if !json.Valid([]byte(raw)) {
		return ErrInvalidJSON
	}
	return s.repo.Put(ctx, userID, raw)
}
