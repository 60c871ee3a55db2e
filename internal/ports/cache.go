package ports

import (
	"context"
	"time"
)

// ICache — типизированные операции над одним backend'ом кэша (common или order).
// Значения произвольные: пишутся и читаются через сериализатор backend'а.
// found == false означает, что ключа (поля, элемента) нет.
type ICache interface {
	Name() string

	HasKey(ctx context.Context, key string) (bool, error)
	Delete(ctx context.Context, key string) (bool, error)
	DeleteKeys(ctx context.Context, keys ...string) (int64, error)
	Expire(ctx context.Context, key string, ttl time.Duration) (bool, error)
	ExpireAt(ctx context.Context, key string, at time.Time) (bool, error)
	GetExpire(ctx context.Context, key string) (time.Duration, error)
	Persist(ctx context.Context, key string) (bool, error)

	Set(ctx context.Context, key string, value any) (bool, error)
	SetEx(ctx context.Context, key string, value any, ttl time.Duration) (bool, error)
	Get(ctx context.Context, key string) (value any, found bool, err error)
	GetAndDelete(ctx context.Context, key string) (value any, found bool, err error)
	Incr(ctx context.Context, key string, delta int64) (int64, error)
	Decr(ctx context.Context, key string, delta int64) (int64, error)

	HGet(ctx context.Context, key, field string) (value any, found bool, err error)
	HSet(ctx context.Context, key, field string, value any) error
	HMGet(ctx context.Context, key string) (map[string]any, error)
	HMSet(ctx context.Context, key string, fields map[string]any) error
	HDelete(ctx context.Context, key string, fields ...string) (int64, error)
	HHasKey(ctx context.Context, key, field string) (bool, error)

	SHasKey(ctx context.Context, key string, member any) (bool, error)
	SSet(ctx context.Context, key string, members ...any) (int64, error)
	SGet(ctx context.Context, key string) ([]any, error)

	LPush(ctx context.Context, key string, value any) (int64, error)
	RPush(ctx context.Context, key string, value any) (int64, error)
	LSize(ctx context.Context, key string) (int64, error)
	LRange(ctx context.Context, key string, start, stop int64) ([]any, error)
	LGetAll(ctx context.Context, key string) ([]any, error)
	LIndex(ctx context.Context, key string, index int64) (value any, found bool, err error)
}
