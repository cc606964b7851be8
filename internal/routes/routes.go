package routes

import (
	"net/http"
	"tikkit/internal/handlers"
	"tikkit/internal/middleware"
	helpers "tikkit/internal/utils/helpers"

	"github.com/gorilla/mux"
)

func InitRoutes(
	router *mux.Router,
	jwtSecret string,
	authHandler *handlers.AuthHandler,
	passwordHandler *handlers.PasswordHandler,
	dataHandler *handlers.TaskDataHandler,
) {
	router.Use(middleware.RequestID)
	router.Use(middleware.Logging)
	router.Use(middleware.Recoverer)

	router.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		helpers.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods("GET")

	// --- Публичные маршруты ---
	auth := router.PathPrefix("/auth").Subrouter()
	auth.HandleFunc("/signup", authHandler.Signup).Methods("POST")
	auth.HandleFunc("/login", authHandler.Login).Methods("POST")
	auth.HandleFunc("/google", authHandler.GoogleAuth).Methods("POST")
	auth.HandleFunc("/google/client-id", authHandler.GoogleClientID).Methods("GET")
	auth.HandleFunc("/forgot-password", passwordHandler.Forgot).Methods("POST")
	auth.HandleFunc("/reset-password", passwordHandler.Reset).Methods("POST")

	// --- Защищённые JWT ---
	protected := router.PathPrefix("/data").Subrouter()
	protected.Use(middleware.JWTAuth(jwtSecret))
	protected.HandleFunc("", dataHandler.GetData).Methods("GET")
	protected.HandleFunc("", dataHandler.SaveData).Methods("POST")
}
