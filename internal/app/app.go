package app

import (
	"context"
	"strconv"
	"time"
	"tikkit/internal/config"
	"tikkit/internal/db"
	"tikkit/internal/handlers"
	"tikkit/internal/repository"
	"tikkit/internal/routes"
	"tikkit/internal/services"

	"github.com/gorilla/mux"
)

func InitApp(ctx context.Context, cfg *config.Config) (*mux.Router, error) {
	if err := db.RunMigrations(ctx, cfg); err != nil {
		return nil, err
	}

	conn, err := db.NewPostgresConnection(ctx, cfg)
	if err != nil {
		return nil, err
	}

	tokenTTL, err := time.ParseDuration(cfg.TokenTTL)
	if err != nil {
		tokenTTL = 30 * 24 * time.Hour
	}
	resetTTLMin, err := strconv.Atoi(cfg.ResetTokenTTLMin)
	if err != nil {
		resetTTLMin = 60
	}

	// Репозитории
	userRepo := repository.NewUserRepository(conn)
	dataRepo := repository.NewTaskDataRepository(conn)
	resetRepo := repository.NewPasswordResetRepository(conn)

	// Сервисы
	authService := services.NewAuthService(userRepo)
	dataService := services.NewTaskDataService(dataRepo)
	emailService := services.NewEmailService(cfg)
	googleService := services.NewGoogleAuthService(cfg.GoogleClientID)
	passwordService := services.NewPasswordService(resetRepo, emailService, cfg.AppURL, time.Duration(resetTTLMin)*time.Minute)

	// Хендлеры
	authHandler := handlers.NewAuthHandler(authService, googleService, cfg.JWTSecret, tokenTTL)
	passwordHandler := handlers.NewPasswordHandler(passwordService)
	dataHandler := handlers.NewTaskDataHandler(dataService)

	// Воркеры отправки писем
	for i := 0; i < 3; i++ {
		services.StartEmailWorker(emailService)
	}

	// Маршруты
	router := mux.NewRouter()
	routes.InitRoutes(router, cfg.JWTSecret, authHandler, passwordHandler, dataHandler)

	return router, nil
}
