package app

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/barber_bot/internal/config"
	"github.com/Freeeeeet/barber_bot/internal/repository"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// NewSurveyStore выбирает хранилище опросов: Postgres если задан DSN, иначе файл.
// Возвращаемая функция закрывает ресурсы хранилища.
func NewSurveyStore(ctx context.Context, cfg *config.Config, logger *zap.Logger) (repository.SurveyStore, func(), error) {
	if cfg.SurveyStoreDSN == "" {
		store, err := repository.NewFileSurveyStore(cfg.SurveyStorePath)
		if err != nil {
			return nil, nil, err
		}
		logger.Info("Using file survey store", zap.String("path", cfg.SurveyStorePath))
		return store, func() {}, nil
	}

	pool, err := pgxpool.New(ctx, cfg.SurveyStoreDSN)
	if err != nil {
		return nil, nil, fmt.Errorf("create pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, nil, fmt.Errorf("ping database: %w", err)
	}

	migrator, err := NewMigrator(pool, cfg.MigrationsPath, logger)
	if err != nil {
		pool.Close()
		return nil, nil, err
	}
	defer migrator.Close()

	if err := migrator.Run(ctx); err != nil {
		pool.Close()
		return nil, nil, err
	}

	logger.Info("Using postgres survey store")
	return repository.NewPostgresSurveyStore(pool), pool.Close, nil
}
