// Package repository opens the favorites store selected by FAVORITES_DRIVER.
package repository

import (
	"context"
	"fmt"
	"strconv"

	"moviefav/dynamodb"
	"moviefav/filestore"
	"moviefav/movie"
	"moviefav/pkg/config"
	"moviefav/postgres"

	"go.uber.org/zap"
)

// Open returns the configured repository and a func releasing its resources.
func Open(ctx context.Context, cfg *config.Config, log *zap.SugaredLogger) (movie.FavoriteRepository, func() error, error) {
	noop := func() error { return nil }

	switch cfg.Favorites.Driver {
	case config.DriverPostgres:
		db, err := postgres.NewConnection(postgres.Options{
			DBName:   cfg.DB.Name,
			DBUser:   cfg.DB.User,
			Password: cfg.DB.Pass,
			Host:     cfg.DB.Host,
			Port:     strconv.Itoa(cfg.DB.Port),
			SSLMode:  cfg.DB.EnableSSL,
		})
		if err != nil {
			return nil, noop, fmt.Errorf("open postgres connection: %w", err)
		}
		sqlDB, err := db.DB()
		if err != nil {
			return nil, noop, fmt.Errorf("get postgres instance: %w", err)
		}
		log.Infow("using postgres favorites store", "host", cfg.DB.Host, "db", cfg.DB.Name)
		return postgres.NewFavoriteRepository(db), sqlDB.Close, nil

	case config.DriverDynamoDB:
		client, err := dynamodb.NewClient(ctx, dynamodb.Options{
			Region:       cfg.DynamoDB.Region,
			Endpoint:     cfg.DynamoDB.Endpoint,
			AccessKey:    cfg.DynamoDB.AccessKey,
			SecretKey:    cfg.DynamoDB.SecretKey,
			SessionToken: cfg.DynamoDB.SessionToken,
		})
		if err != nil {
			return nil, noop, err
		}
		repo := dynamodb.NewFavoriteRepository(client, cfg.DynamoDB.FavoritesTable)
		if err := repo.EnsureTable(ctx); err != nil {
			return nil, noop, err
		}
		log.Infow("using dynamodb favorites store", "table", cfg.DynamoDB.FavoritesTable)
		return repo, noop, nil

	default:
		store, err := filestore.Open(filestore.Options{Dir: cfg.Favorites.DataDir, Logger: log})
		if err != nil {
			return nil, noop, err
		}
		log.Infow("using file favorites store", "path", store.Path())
		return store, noop, nil
	}
}
