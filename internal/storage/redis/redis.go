// Package redis provides a storage.Storage backend over a Redis server,
// so credentials survive console restarts and can be shared across replicas.
package redis

import (
	"context"
	"errors"
	"time"

	"github.com/gofiber/storage"
	"github.com/redis/go-redis/v9"
)

const defaultTimeout = 5 * time.Second

// Config holds the Redis connection settings.
type Config struct {
	// Addr is the host:port of the Redis server.
	Addr string
	// Password is the optional AUTH password.
	Password string
	// DB is the logical database index.
	DB int
	// KeyPrefix is prepended to every key, isolating consoles sharing a server.
	KeyPrefix string
}

// Storage implements storage.Storage on a go-redis client.
type Storage struct {
	client *redis.Client
	prefix string
}

var _ storage.Storage = (*Storage)(nil)

// New connects to Redis and verifies the connection with a ping.
func New(cfg Config) (*Storage, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return &Storage{client: client, prefix: cfg.KeyPrefix}, nil
}

// Get returns the value for key, or (nil, nil) when missing.
func (s *Storage) Get(key string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	val, err := s.client.Get(ctx, s.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}

	if err != nil {
		return nil, err
	}

	return val, nil
}

// Set stores val under key with the given expiry; zero means no expiry.
func (s *Storage) Set(key string, val []byte, exp time.Duration) error {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	return s.client.Set(ctx, s.prefix+key, val, exp).Err()
}

// Delete removes key. Deleting a missing key is not an error.
func (s *Storage) Delete(key string) error {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	return s.client.Del(ctx, s.prefix+key).Err()
}

// Reset flushes the logical database the console is connected to.
func (s *Storage) Reset() error {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	return s.client.FlushDB(ctx).Err()
}

// Close releases the underlying client.
func (s *Storage) Close() error {
	return s.client.Close()
}
