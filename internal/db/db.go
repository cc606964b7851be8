package db

import (
	"context"
	"database/sql"
	"time"
	"tikkit/internal/config"
	"tikkit/internal/logger"
	"tikkit/internal/migrations"

	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"go.uber.org/zap"
)

const maxConnectAttempts = 10

// baseRetryDelay выведена в переменную, чтобы тесты не ждали реальные секунды.
var baseRetryDelay = time.Second

// withBackoff гоняет op с экспоненциальной паузой между попытками.
// База может подниматься дольше приложения, поэтому ждём, а не падаем сразу.
func withBackoff(ctx context.Context, what string, op func() error) error {
	delay := baseRetryDelay
	var err error
	for attempt := 1; ; attempt++ {
		if err = op(); err == nil {
			return nil
		}
		if attempt == maxConnectAttempts {
			return err
		}

		logger.Log.Warn("БД недоступна, повтор",
			zap.String("op", what),
			zap.Int("attempt", attempt),
			zap.Duration("delay", delay),
			zap.Error(err),
		)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
		delay *= 2
	}
}

// NewPostgresConnection открывает пул соединений с ретраями.
func NewPostgresConnection(ctx context.Context, cfg *config.Config) (*pgxpool.Pool, error) {
	dsn := cfg.GetDSN()

	var pool *pgxpool.Pool
	err := withBackoff(ctx, "connect "+cfg.GetDSNSafe(), func() error {
		p, err := pgxpool.New(ctx, dsn)
		if err != nil {
			return err
		}
		if err := p.Ping(ctx); err != nil {
			p.Close()
			return err
		}
		pool = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return pool, nil
}

// RunMigrations накатывает встроенные goose-миграции через stdlib-драйвер pgx.
// Накат тоже под ретраями: миграции идут первым обращением к базе на старте.
func RunMigrations(ctx context.Context, cfg *config.Config) error {
	sqlDB, err := sql.Open("pgx", cfg.GetDSN())
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("postgres"); err != nil {
		return err
	}

	return withBackoff(ctx, "migrate "+cfg.GetDSNSafe(), func() error {
		return goose.UpContext(ctx, sqlDB, ".")
	})
}
