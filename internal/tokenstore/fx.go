package tokenstore

import (
	"context"

	"github.com/orghub/orghub/internal/config"
	redis "github.com/redis/go-redis/v9"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("tokenstore",
	fx.Provide(
		NewRedisClient,
		fx.Annotate(NewRedisStore, fx.As(new(Store))),
	),
)

// NewRedisClient connects to redis and verifies the connection on startup.
func NewRedisClient(lc fx.Lifecycle, cfg config.Config, log *zap.Logger) *redis.Client {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if err := client.Ping(ctx).Err(); err != nil {
				return err
			}
			log.Info("redis connected", zap.String("addr", cfg.RedisAddr))
			return nil
		},
		OnStop: func(ctx context.Context) error {
			_ = ctx
			return client.Close()
		},
	})

	return client
}
