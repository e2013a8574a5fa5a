package redis_client

import (
	"context"
	"fmt"
	"time"

	"github.com/adjust/rmq/v5"
	"github.com/bustrackingsystem05-gif/bustracker/pkg/config"
	"github.com/cenkalti/backoff/v4"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const queueConnectionTag = "bustracker"

const maxConnectAttempts = 5

// newConnectBackOff builds the delay policy between ping attempts
var newConnectBackOff = func() backoff.BackOff {
	retryBackoff := backoff.NewExponentialBackOff()
	retryBackoff.MaxElapsedTime = 30 * time.Second

	return retryBackoff
}

type Connection struct {
	Client          *redis.Client
	QueueConnection rmq.Connection
}

// Connect opens a redis client and an rmq connection on top of it.
// The initial ping is retried with an exponential backoff so the service can start alongside redis.
func Connect(ctx context.Context, redisConfig config.RedisConfig) (*Connection, error) {
	options := &redis.Options{
		Addr: redisConfig.Address,
		DB:   redisConfig.Database,
	}
	if redisConfig.Password != "" {
		options.Password = redisConfig.Password
	}

	client := redis.NewClient(options)

	attempt := 0
	err := backoff.Retry(func() error {
		attempt++

		err := client.Ping(ctx).Err()
		if err != nil {
			log.Warn().Err(err).Int("attempt", attempt).Str("address", redisConfig.Address).Msg("Redis ping failed")
		}
		return err
	}, backoff.WithContext(backoff.WithMaxRetries(newConnectBackOff(), maxConnectAttempts-1), ctx))
	if err != nil {
		client.Close()
		return nil, fmt.Errorf("connect to redis at %s: %w", redisConfig.Address, err)
	}

	queueConnection, err := rmq.OpenConnectionWithRedisClient(queueConnectionTag, client, nil)
	if err != nil {
		client.Close()
		return nil, fmt.Errorf("open queue connection: %w", err)
	}

	log.Info().Str("address", redisConfig.Address).Int("database", redisConfig.Database).Msg("Redis client setup")

	return &Connection{
		Client:          client,
		QueueConnection: queueConnection,
	}, nil
}

// Close waits for any consumers to finish and then closes the redis client
func (c *Connection) Close() error {
	<-c.QueueConnection.StopAllConsuming()

	return c.Client.Close()
}
