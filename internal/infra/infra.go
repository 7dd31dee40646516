package infra

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/Ltancreti7/SwapRunn-Bolt/internal/config"
)

type Infra struct {
	PG    *pgxpool.Pool
	Redis *redis.Client
	AMQP  *amqp.Connection
}

func New(ctx context.Context, cfg config.Config, logger *zap.Logger) (*Infra, error) {
	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	// Self-bootstrap schema: core tables must exist before serving requests.
	if err := EnsureCoreSchema(ctx, pool); err != nil {
		pool.Close()
		return nil, err
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		pool.Close()
		return nil, err
	}

	var conn *amqp.Connection
	if cfg.AMQPURL != "" {
		conn, err = amqp.Dial(cfg.AMQPURL)
		if err != nil {
			// Notifications are best-effort; the API serves without a broker.
			logger.Warn("amqp dial failed, notifications disabled", zap.Error(err))
			conn = nil
		}
	}

	logger.Info("infra ready")
	return &Infra{PG: pool, Redis: rdb, AMQP: conn}, nil
}

func (i *Infra) Close() {
	if i == nil {
		return
	}
	if i.PG != nil {
		i.PG.Close()
	}
	if i.Redis != nil {
		_ = i.Redis.Close()
	}
	if i.AMQP != nil {
		_ = i.AMQP.Close()
	}
}
