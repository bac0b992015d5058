package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/kaoden/goidc-authorize/internal/storage"
	"github.com/kaoden/goidc-authorize/internal/storage/mongodb"
	"github.com/kaoden/goidc-authorize/internal/storage/redisstore"
	"github.com/kaoden/goidc-authorize/internal/storage/sqlstore"
	"github.com/kaoden/goidc-authorize/pkg/goidc"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type clientStorage interface {
	goidc.ClientManager
	Save(ctx context.Context, client *goidc.Client) error
}

type storages struct {
	clients  clientStorage
	grants   goidc.GrantManager
	consents goidc.ConsentManager
	// close releases the connections opened for the storages.
	close func(ctx context.Context) error
}

func openStorages(ctx context.Context, cfg config, logger *slog.Logger) (storages, error) {
	st, err := openPrimaryStorages(ctx, cfg)
	if err != nil {
		return storages{}, err
	}

	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			_ = st.close(ctx)
			return storages{}, fmt.Errorf("parse redis url: %w", err)
		}

		client := redis.NewClient(opts)
		if err := client.Ping(ctx).Err(); err != nil {
			_ = client.Close()
			_ = st.close(ctx)
			return storages{}, fmt.Errorf("ping redis: %w", err)
		}

		st.grants = redisstore.NewGrantManager(client)
		closePrimary := st.close
		st.close = func(ctx context.Context) error {
			_ = client.Close()
			return closePrimary(ctx)
		}
		logger.Info("credentials are stored in redis")
	}

	logger.Info("storages opened", slog.String("storage", cfg.Storage))
	return st, nil
}

func openPrimaryStorages(ctx context.Context, cfg config) (storages, error) {
	switch cfg.Storage {
	case storageSQLite:
		db, err := sqlstore.Open(ctx, cfg.SQLiteDSN)
		if err != nil {
			return storages{}, err
		}
		return storages{
			clients:  sqlstore.NewClientManager(db),
			grants:   sqlstore.NewGrantManager(db),
			consents: sqlstore.NewConsentManager(db),
			close:    func(context.Context) error { return db.Close() },
		}, nil
	case storageMongoDB:
		client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoDBURI))
		if err != nil {
			return storages{}, fmt.Errorf("connect to mongodb: %w", err)
		}
		database := client.Database(cfg.MongoDatabase)
		if err := mongodb.EnsureIndexes(ctx, database); err != nil {
			_ = client.Disconnect(ctx)
			return storages{}, err
		}
		return storages{
			clients:  mongodb.NewClientManager(database),
			grants:   mongodb.NewGrantManager(database),
			consents: mongodb.NewConsentManager(database),
			close:    client.Disconnect,
		}, nil
	default:
		return storages{
			clients:  storage.NewClientManager(),
			grants:   storage.NewGrantManager(),
			consents: storage.NewConsentManager(),
			close:    func(context.Context) error { return nil },
		}, nil
	}
}
