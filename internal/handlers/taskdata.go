package handlers

import (
	"errors"
	"io"
	"net/http"
	"tikkit/internal/logger"
	"tikkit/internal/reqctx"
	"tikkit/internal/services"
	helpers "tikkit/internal/utils/helpers"

	"go.uber.org/zap"
)

const maxDocumentSize = 1 << 20 // 1MB на документ достаточно для списка задач

type TaskDataHandler struct {
	service *services.TaskDataService
}

func NewTaskDataHandler(service *services.TaskDataService) *TaskDataHandler {
	return &TaskDataHandler{service: service}
}

// GetData godoc
// @Summary Документ с задачами текущего пользователя
// @Tags data
// @Security ApiKeyAuth
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 401 {string} string "unauthorized"
// @Router /data [get]
func (h *TaskDataHandler) GetData(w http.ResponseWriter, r *http.Request) {
	log := logger.WithCtx(r.Context())

	userID, ok := reqctx.GetUserID(r.Context())
	if !ok {
		log.Warn("GetData: отсутствует user_id в контексте")
		helpers.Error(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	doc, err := h.service.Get(r.Context(), userID)
	if err != nil {
		log.Error("Ошибка чтения документа", zap.Error(err), zap.Int("user_id", userID))
		helpers.Error(w, http.StatusInternalServerError, "internal server error")
		return
	}

	helpers.RawJSON(w, http.StatusOK, []byte(doc))
}

// SaveData godoc
// @Summary Полная перезапись документа с задачами
// @Tags data
// @Security ApiKeyAuth
// @Accept json
// @Success 204 {string} string "no content"
// @Failure 400 {object} map[string]string "Невалидный JSON"
// @Failure 401 {string} string "unauthorized"
// @Router /data [post]
func (h *TaskDataHandler) SaveData(w http.ResponseWriter, r *http.Request) {
	log := logger.WithCtx(r.Context())

	userID, ok := reqctx.GetUserID(r.Context())
	if !ok {
		log.Warn("SaveData: отсутствует user_id в контексте")
		helpers.Error(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, maxDocumentSize))
	if err != nil {
		log.Warn("SaveData: не удалось прочитать тело", zap.Error(err))
		helpers.Error(w, http.StatusBadRequest, "invalid payload")
		return
	}

	if err := h.service.Save(r.Context(), userID, string(body)); err != nil {
		if errors.Is(err, services.ErrInvalidJSON) {
			helpers.Error(w, http.StatusBadRequest, "invalid JSON")
			return
		}
		log.Error("Ошибка записи документа", zap.Error(err), zap.Int("user_id", userID))
		helpers.Error(w, http.StatusInternalServerError, "internal server error")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
