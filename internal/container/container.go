package container

import (
	"context"
	"fmt"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/campus-connect/config"
	"github.com/oksasatya/campus-connect/internal/application"
	pginfra "github.com/oksasatya/campus-connect/internal/infrastructure/postgres"
	"github.com/oksasatya/campus-connect/internal/infrastructure/storage"
	"github.com/oksasatya/campus-connect/pkg/helpers"
)

// Container holds the process-wide clients. It is built once in main and
// passed explicitly to the router; Close releases everything it opened.
type Container struct {
	Config *config.Config
	Logger *logrus.Logger
	PG     *pgxpool.Pool
	Redis  *redis.Client
	Store  application.ObjectStore
	JWT    *helpers.JWTManager
	Rabbit *helpers.RabbitPublisher // nil when mail sending is disabled
	ES     *elasticsearch.Client    // nil when no address is configured

	closers []func()
}

// Build connects every dependency. Postgres and the object store are
// required; Redis, RabbitMQ and Elasticsearch degrade to disabled.
func Build(ctx context.Context, cfg *config.Config, logger *logrus.Logger) (*Container, error) {
	c := &Container{Config: cfg, Logger: logger}

	pool, err := pginfra.NewPool(ctx, cfg.PostgresDSN(), cfg.DBMaxConns, cfg.DBMinConns, cfg.DBMaxConnLife)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	c.PG = pool
	c.onClose(pool.Close)

	c.Redis = helpers.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	c.onClose(func() { _ = c.Redis.Close() })
	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	if err := c.Redis.Ping(pingCtx).Err(); err != nil {
		logger.WithError(err).Warn("redis unreachable; rate limits and caches are bypassed until it recovers")
	}
	cancel()

	store, err := c.buildStore(ctx)
	if err != nil {
		c.Close()
		return nil, err
	}
	c.Store = store

	c.JWT = helpers.NewJWTManager(cfg.JWTSecret, cfg.TokenTTL)

	if cfg.MailSendEnabled {
		pub, err := helpers.NewRabbitPublisher(cfg.RabbitMQURL, cfg.RabbitMQEmailQueue)
		if err != nil {
			logger.WithError(err).Warn("rabbitmq unavailable; welcome emails disabled")
		} else {
			c.Rabbit = pub
			c.onClose(pub.Close)
		}
	}

	es, err := helpers.NewESClient(cfg.ESAddrs(), cfg.ElasticsearchUser, cfg.ElasticsearchPass)
	if err != nil {
		logger.WithError(err).Warn("elasticsearch client init failed; profile indexing disabled")
	}
	c.ES = es

	return c, nil
}

func (c *Container) buildStore(ctx context.Context) (application.ObjectStore, error) {
	switch c.Config.StorageDriver {
	case "gcs":
		client, err := helpers.NewGCSClient(ctx, c.Config.GCSCredentialsJSONPath)
		if err != nil {
			return nil, fmt.Errorf("init gcs client: %w", err)
		}
		c.onClose(func() { _ = client.Close() })
		return storage.NewGCSStore(client, c.Config.GCSBucket), nil
	case "s3", "":
		client, err := helpers.NewS3Client(ctx, c.Config.S3Region, c.Config.S3AccessKeyID, c.Config.S3SecretAccessKey, c.Config.S3Endpoint)
		if err != nil {
			return nil, fmt.Errorf("init s3 client: %w", err)
		}
		return storage.NewS3Store(client, c.Config.S3Bucket, c.Config.S3Region), nil
	default:
		return nil, fmt.Errorf("unknown STORAGE_DRIVER %q", c.Config.StorageDriver)
	}
}

// Cache returns Redis as an interface value, nil when Redis is not configured.
func (c *Container) Cache() redis.Cmdable {
	if c.Redis == nil {
		return nil
	}
	return c.Redis
}

func (c *Container) onClose(fn func()) {
	c.closers = append(c.closers, fn)
}

// Close releases clients in reverse order of construction. It is safe to
// call more than once.
func (c *Container) Close() {
	for i := len(c.closers) - 1; i >= 0; i-- {
		c.closers[i]()
	}
	c.closers = nil
}
