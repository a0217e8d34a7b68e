package db

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"restaurant-console/internal/pkg/config"
	"restaurant-console/internal/pkg/errs"

	"github.com/go-redis/redis/v8"
	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const dialTimeout = 10 * time.Second

// Connections opens each backend on first use. Only what was opened is
// closed by Close.
type Connections struct {
	cfg    config.Config
	logger *slog.Logger

	mu          sync.Mutex
	pool        *pgxpool.Pool
	poolCleanup func()
	mongo       *mongo.Client
	redis       *redis.Client
	tasks       *asynq.Client
}

func NewConnections(cfg config.Config, logger *slog.Logger) *Connections {
	return &Connections{cfg: cfg, logger: logger}
}

func (c *Connections) Postgres() (*pgxpool.Pool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.pool != nil {
		return c.pool, nil
	}
	pool, cleanup, err := Connect(c.cfg.DB)
	if err != nil {
		return nil, err
	}
	c.pool, c.poolCleanup = pool, cleanup
	c.logger.Info("postgres connected", slog.String("host", c.cfg.DB.Host), slog.String("database", c.cfg.DB.DBName))
	return c.pool, nil
}

func (c *Connections) Mongo(ctx context.Context) (*mongo.Database, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.mongo == nil {
		ctx, cancel := context.WithTimeout(ctx, dialTimeout)
		defer cancel()

		client, err := mongo.Connect(ctx, options.Client().ApplyURI(c.cfg.Mongo.URI))
		if err != nil {
			return nil, errs.Wrap(err, "failed to connect to mongo")
		}
		if err := client.Ping(ctx, nil); err != nil {
			_ = client.Disconnect(context.Background())
			return nil, errs.Wrap(err, "failed to ping mongo")
		}
		c.mongo = client
		c.logger.Info("mongo connected", slog.String("database", c.cfg.Mongo.Database))
	}
	return c.mongo.Database(c.cfg.Mongo.Database), nil
}

func (c *Connections) Redis(ctx context.Context) (*redis.Client, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.redis != nil {
		return c.redis, nil
	}
	client := redis.NewClient(&redis.Options{
		Addr:     c.cfg.Redis.Addr,
		Password: c.cfg.Redis.Password,
		DB:       c.cfg.Redis.DB,
	})

	ctx, cancel := context.WithTimeout(ctx, dialTimeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, errs.Wrap(err, "failed to ping redis")
	}
	c.redis = client
	c.logger.Info("redis connected", slog.String("addr", c.cfg.Redis.Addr))
	return c.redis, nil
}

// Tasks returns an asynq client on the configured redis. asynq dials on
// first enqueue, so this never fails.
func (c *Connections) Tasks() *asynq.Client {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.tasks == nil {
		c.tasks = asynq.NewClient(asynq.RedisClientOpt{
			Addr:     c.cfg.Redis.Addr,
			Password: c.cfg.Redis.Password,
			DB:       c.cfg.Redis.DB,
		})
	}
	return c.tasks
}

func (c *Connections) Close(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	var firstErr error
	if c.tasks != nil {
		if err := c.tasks.Close(); err != nil {
			firstErr = errs.Wrap(err, "failed to close task client")
		}
		c.tasks = nil
	}
	if c.redis != nil {
		if err := c.redis.Close(); err != nil && firstErr == nil {
			firstErr = errs.Wrap(err, "failed to close redis")
		}
		c.redis = nil
	}
	if c.mongo != nil {
		if err := c.mongo.Disconnect(ctx); err != nil && firstErr == nil {
			firstErr = errs.Wrap(err, "failed to disconnect mongo")
		}
		c.mongo = nil
	}
	if c.poolCleanup != nil {
		c.poolCleanup()
		c.pool, c.poolCleanup = nil, nil
	}
	return firstErr
}
