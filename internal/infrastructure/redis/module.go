package redis

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"
)

// Client — обёртка над redis.Client одного backend'а.
type Client struct {
	*redis.Client
	name     string
	endpoint Endpoint
}

// New создаёт пул соединений к backend'у по endpoint и общим настройкам пула.
// Соединения открываются лениво, при первой команде; ошибки сети проявятся тогда же.
func New(name string, ep Endpoint, pool PoolConfig, log *slog.Logger) (*Client, error) {
	if err := ep.Validate(); err != nil {
		return nil, fmt.Errorf("redis %s: %w", name, err)
	}
	if log == nil {
		log = slog.Default()
	}

	cli := redis.NewClient(options(ep, pool))
	cli.AddHook(newCommandHook(name, log))
	return &Client{Client: cli, name: name, endpoint: ep}, nil
}

func options(ep Endpoint, pool PoolConfig) *redis.Options {
	return &redis.Options{
		Addr:         ep.Addr(),
		Password:     ep.Password,
		DB:           ep.DB,
		ReadTimeout:  ep.CommandTimeout(),
		WriteTimeout: ep.CommandTimeout(),
		PoolSize:     pool.MaxActive,
		PoolTimeout:  pool.MaxWaitDuration(),
		MaxIdleConns: pool.MaxIdle,
		MinIdleConns: pool.MinIdle,
	}
}

// Name возвращает имя backend'а.
func (c *Client) Name() string {
	return c.name
}

// Endpoint возвращает endpoint, с которым создан клиент.
func (c *Client) Endpoint() Endpoint {
	return c.endpoint
}

// Close закрывает пул.
func (c *Client) Close() error {
	return c.Client.Close()
}

// Ping проверяет соединение (для readiness).
func (c *Client) Ping(ctx context.Context) error {
	return c.Client.Ping(ctx).Err()
}
