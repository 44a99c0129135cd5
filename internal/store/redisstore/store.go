package redisstore

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

type Options struct {
	Addr     string
	Password string
	DB       int
}

// Store wraps a redis client for the keys this service owns.
type Store struct {
	client *redis.Client
	prefix string
}

// New connects and pings; it fails fast when redis is unreachable.
func New(opts Options, prefix string) (*Store, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	return NewWithClient(client, prefix), nil
}

func NewWithClient(client *redis.Client, prefix string) *Store {
	if prefix == "" {
		prefix = "godchat"
	}
	return &Store{client: client, prefix: prefix}
}

func (s *Store) Close() error {
	return s.client.Close()
}
