package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"
	"tikkit/internal/logger"
	"tikkit/internal/services"
	helpers "tikkit/internal/utils/helpers"

	"go.uber.org/zap"
)

type AuthHandler struct {
	authService   *services.AuthService
	googleService *services.GoogleAuthService
	jwtSecret     string
	tokenTTL      time.Duration
}

func NewAuthHandler(authService *services.AuthService, googleService *services.GoogleAuthService, jwtSecret string, tokenTTL time.Duration) *AuthHandler {
	return &AuthHandler{
		authService:   authService,
		googleService: googleService,
		jwtSecret:     jwtSecret,
		tokenTTL:      tokenTTL,
	}
}

type authRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type googleAuthRequest struct {
	Credential string `json:"credential"`
}

type tokenResponse struct {
	Token string `json:"token"`
}

// Signup godoc
// @Summary Регистрация нового пользователя
// @Tags auth
// @Accept json
// @Produce json
// @Param input body authRequest true "Email и пароль"
// @Success 200 {object} tokenResponse
// @Failure 409 {object} map[string]string "Email уже зарегистрирован"
// @Router /auth/signup [post]
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	log := logger.WithCtx(r.Context())

	var req authRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || strings.TrimSpace(req.Email) == "" || req.Password == "" {
		log.Warn("Невалидный payload в Signup")
		helpers.Error(w, http.StatusBadRequest, "invalid payload")
		return
	}

	token, err := h.authService.SignupUser(r.Context(), req.Email, req.Password, h.jwtSecret, h.tokenTTL)
	if err != nil {
		if errors.Is(err, services.ErrEmailTaken) {
			helpers.Error(w, http.StatusConflict, "Email already registered")
			return
		}
		log.Error("Ошибка регистрации", zap.Error(err))
		helpers.Error(w, http.StatusInternalServerError, "internal server error")
		return
	}

	helpers.JSON(w, http.StatusOK, tokenResponse{Token: token})
}

// Login godoc
// @Summary Вход по email и паролю
// @Tags auth
// @Accept json
// @Produce json
// @Param input body authRequest true "Email и пароль"
// @Success 200 {object} tokenResponse
// @Failure 401 {object} map[string]string "Неверные учётные данные"
// @Router /auth/login [post]
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	log := logger.WithCtx(r.Context())

	var req authRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Warn("Невалидный payload в Login")
		helpers.Error(w, http.StatusBadRequest, "invalid payload")
		return
	}

	token, err := h.authService.LoginUser(r.Context(), req.Email, req.Password, h.jwtSecret, h.tokenTTL)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			helpers.Error(w, http.StatusUnauthorized, "Invalid credentials")
			return
		}
		log.Error("Ошибка входа", zap.Error(err))
		helpers.Error(w, http.StatusInternalServerError, "internal server error")
		return
	}

	helpers.JSON(w, http.StatusOK, tokenResponse{Token: token})
}

// GoogleAuth godoc
// @Summary Вход через Google ID-токен
// @Tags auth
// @Accept json
// @Produce json
// @Param input body googleAuthRequest true "ID-токен Google"
// @Success 200 {object} tokenResponse
// @Failure 401 {object} map[string]string "Недействительный токен"
// @Failure 501 {object} map[string]string "Google-вход не настроен"
// @Router /auth/google [post]
func (h *AuthHandler) GoogleAuth(w http.ResponseWriter, r *http.Request) {
	log := logger.WithCtx(r.Context())

	var req googleAuthRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Credential == "" {
		log.Warn("Невалидный payload в GoogleAuth")
		helpers.Error(w, http.StatusBadRequest, "invalid payload")
		return
	}

	email, err := h.googleService.Verify(r.Context(), req.Credential)
	if err != nil {
		if errors.Is(err, services.ErrGoogleNotConfigured) {
			helpers.Error(w, http.StatusNotImplemented, "Google auth not configured")
			return
		}
		helpers.Error(w, http.StatusUnauthorized, "Invalid Google token")
		return
	}

	token, err := h.authService.LoginWithEmail(r.Context(), email, h.jwtSecret, h.tokenTTL)
	if err != nil {
		log.Error("Ошибка входа через Google", zap.Error(err))
		helpers.Error(w, http.StatusInternalServerError, "internal server error")
		return
	}

	helpers.JSON(w, http.StatusOK, tokenResponse{Token: token})
}

// GoogleClientID godoc
// @Summary Публичный client id для Google-виджета
// @Tags auth
// @Produce json
// @Success 200 {object} map[string]string
// @Router /auth/google/client-id [get]
func (h *AuthHandler) GoogleClientID(w http.ResponseWriter, r *http.Request) {
	helpers.JSON(w, http.StatusOK, map[string]string{"client_id": h.googleService.ClientID()})
}
