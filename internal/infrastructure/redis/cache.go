package redis

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
	"hyCache/internal/domain"
	"hyCache/internal/ports"
)

var _ ports.ICache = (*Cache)(nil)

// Cache реализует ports.ICache поверх Template одного backend'а.
// Своего состояния нет, безопасен для конкурентного использования: всё держит пул клиента.
type Cache struct {
	tpl    *Template
	policy SetPolicy
	log    *slog.Logger
}

// NewCache возвращает фасад над шаблоном. Пустая policy — SetBestEffort.
func NewCache(tpl *Template, policy SetPolicy, log *slog.Logger) *Cache {
	if policy == "" {
		policy = SetBestEffort
	}
	if log == nil {
		log = slog.Default()
	}
	return &Cache{tpl: tpl, policy: policy, log: log}
}

func (c *Cache) cmd() *redis.Client {
	return c.tpl.cli.Client
}

// Name возвращает имя backend'а.
func (c *Cache) Name() string {
	return c.tpl.Name()
}

// Template возвращает шаблон backend'а.
func (c *Cache) Template() *Template {
	return c.tpl
}

// Ping проверяет соединение с backend'ом.
func (c *Cache) Ping(ctx context.Context) error {
	return c.tpl.cli.Ping(ctx)
}

// Close закрывает пул соединений backend'а.
func (c *Cache) Close() error {
	return c.tpl.cli.Close()
}

// HasKey проверяет, существует ли ключ.
func (c *Cache) HasKey(ctx context.Context, key string) (bool, error) {
	n, err := c.cmd().Exists(ctx, key).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// Delete удаляет ключ. true — ключ был.
func (c *Cache) Delete(ctx context.Context, key string) (bool, error) {
	n, err := c.cmd().Del(ctx, key).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// DeleteKeys удаляет ключи (повторы схлопываются) и возвращает, сколько реально удалено.
func (c *Cache) DeleteKeys(ctx context.Context, keys ...string) (int64, error) {
	uniq := make([]string, 0, len(keys))
	seen := make(map[string]struct{}, len(keys))
	for _, k := range keys {
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		uniq = append(uniq, k)
	}
	if len(uniq) == 0 {
		return 0, nil
	}
	return c.cmd().Del(ctx, uniq...).Result()
}

// Expire задаёт время жизни ключа (точность — секунды). false — ключа нет.
func (c *Cache) Expire(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	return c.cmd().Expire(ctx, key, ttl).Result()
}

// ExpireAt задаёт момент истечения ключа.
func (c *Cache) ExpireAt(ctx context.Context, key string, at time.Time) (bool, error) {
	return c.cmd().ExpireAt(ctx, key, at).Result()
}

// GetExpire возвращает оставшееся время жизни ключа. 0 — ключ бессрочный (или его нет).
func (c *Cache) GetExpire(ctx context.Context, key string) (time.Duration, error) {
	d, err := c.cmd().TTL(ctx, key).Result()
	if err != nil {
		return 0, err
	}
	// -1: нет expire, -2: нет ключа
	if d < 0 {
		return 0, nil
	}
	return d, nil
}

// Persist снимает expire с ключа. false — ключа нет или expire не было.
func (c *Cache) Persist(ctx context.Context, key string) (bool, error) {
	return c.cmd().Persist(ctx, key).Result()
}

// Set сохраняет значение без срока жизни. Ошибки обрабатываются по SetPolicy.
func (c *Cache) Set(ctx context.Context, key string, value any) (bool, error) {
	return c.set(ctx, key, value, 0)
}

// SetEx сохраняет значение со сроком жизни ttl. Ошибки Redis и сериализации обрабатываются по SetPolicy;
// ttl <= 0 — ошибка ErrInvalidTTL при любой политике, в Redis ничего не уходит.
func (c *Cache) SetEx(ctx context.Context, key string, value any, ttl time.Duration) (bool, error) {
	if ttl <= 0 {
		return false, fmt.Errorf("cache set %q with ttl %s: %w", key, ttl, domain.ErrInvalidTTL)
	}
	return c.set(ctx, key, value, ttl)
}

func (c *Cache) set(ctx context.Context, key string, value any, ttl time.Duration) (bool, error) {
	data, err := c.tpl.encode(value)
	if err == nil {
		err = c.cmd().Set(ctx, key, data, ttl).Err()
	}
	if err == nil {
		return true, nil
	}
	if c.policy == SetStrict {
		return false, fmt.Errorf("cache set %q: %w", key, err)
	}
	c.log.Warn("cache set failed", "backend", c.Name(), "key", key, "kind", ErrorKind(err), "error", err)
	return false, nil
}

// Get возвращает значение по ключу. Если ключа нет — found == false.
func (c *Cache) Get(ctx context.Context, key string) (any, bool, error) {
	s, err := c.cmd().Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, err
	}
	v, err := c.tpl.decode(s)
	if err != nil {
		c.log.Debug("cache decode failed", "backend", c.Name(), "key", key, "error", err)
		return nil, false, fmt.Errorf("cache get %q: %w", key, err)
	}
	return v, true, nil
}

// GetAndDelete читает значение и затем удаляет ключ.
// Две отдельные команды: между ними конкурентный писатель может изменить ключ.
func (c *Cache) GetAndDelete(ctx context.Context, key string) (any, bool, error) {
	v, found, err := c.Get(ctx, key)
	if err != nil {
		return nil, false, err
	}
	if _, err := c.Delete(ctx, key); err != nil {
		return v, found, err
	}
	return v, found, nil
}

// Incr атомарно увеличивает число по ключу на delta (> 0) и возвращает новое значение.
func (c *Cache) Incr(ctx context.Context, key string, delta int64) (int64, error) {
	if delta <= 0 {
		return 0, fmt.Errorf("incr %q by %d: %w", key, delta, domain.ErrInvalidDelta)
	}
	return c.cmd().IncrBy(ctx, key, delta).Result()
}

// Decr атомарно уменьшает число по ключу на delta (> 0) и возвращает новое значение.
func (c *Cache) Decr(ctx context.Context, key string, delta int64) (int64, error) {
	if delta <= 0 {
		return 0, fmt.Errorf("decr %q by %d: %w", key, delta, domain.ErrInvalidDelta)
	}
	return c.cmd().DecrBy(ctx, key, delta).Result()
}

// HGet возвращает значение поля hash.
func (c *Cache) HGet(ctx context.Context, key, field string) (any, bool, error) {
	s, err := c.cmd().HGet(ctx, key, field).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, err
	}
	v, err := c.tpl.decode(s)
	if err != nil {
		return nil, false, fmt.Errorf("cache hget %q %q: %w", key, field, err)
	}
	return v, true, nil
}

// HSet пишет поле hash; hash создаётся, если его не было.
func (c *Cache) HSet(ctx context.Context, key, field string, value any) error {
	data, err := c.tpl.encode(value)
	if err != nil {
		return fmt.Errorf("cache hset %q %q: %w", key, field, err)
	}
	return c.cmd().HSet(ctx, key, field, data).Err()
}

// HMGet возвращает все поля hash. Пустой hash или нет ключа — пустая map.
func (c *Cache) HMGet(ctx context.Context, key string) (map[string]any, error) {
	raw, err := c.cmd().HGetAll(ctx, key).Result()
	if err != nil {
		return nil, err
	}
	out := make(map[string]any, len(raw))
	for field, s := range raw {
		v, err := c.tpl.decode(s)
		if err != nil {
			return nil, fmt.Errorf("cache hmget %q %q: %w", key, field, err)
		}
		out[field] = v
	}
	return out, nil
}

// HMSet пишет несколько полей hash за одну команду.
func (c *Cache) HMSet(ctx context.Context, key string, fields map[string]any) error {
	if len(fields) == 0 {
		return nil
	}
	args := make([]any, 0, len(fields)*2)
	for field, value := range fields {
		data, err := c.tpl.encode(value)
		if err != nil {
			return fmt.Errorf("cache hmset %q %q: %w", key, field, err)
		}
		args = append(args, field, data)
	}
	return c.cmd().HSet(ctx, key, args...).Err()
}

// HDelete удаляет поля hash и возвращает, сколько удалено.
func (c *Cache) HDelete(ctx context.Context, key string, fields ...string) (int64, error) {
	if len(fields) == 0 {
		return 0, nil
	}
	return c.cmd().HDel(ctx, key, fields...).Result()
}

// HHasKey проверяет, есть ли поле в hash.
func (c *Cache) HHasKey(ctx context.Context, key, field string) (bool, error) {
	return c.cmd().HExists(ctx, key, field).Result()
}

// SHasKey проверяет, входит ли значение в set.
func (c *Cache) SHasKey(ctx context.Context, key string, member any) (bool, error) {
	data, err := c.tpl.encode(member)
	if err != nil {
		return false, fmt.Errorf("cache sismember %q: %w", key, err)
	}
	return c.cmd().SIsMember(ctx, key, data).Result()
}

// SSet добавляет значения в set и возвращает число новых элементов.
func (c *Cache) SSet(ctx context.Context, key string, members ...any) (int64, error) {
	if len(members) == 0 {
		return 0, nil
	}
	args, err := c.tpl.encodeAll(members)
	if err != nil {
		return 0, fmt.Errorf("cache sadd %q: %w", key, err)
	}
	return c.cmd().SAdd(ctx, key, args...).Result()
}

// SGet возвращает все элементы set (порядок не определён).
func (c *Cache) SGet(ctx context.Context, key string) ([]any, error) {
	raw, err := c.cmd().SMembers(ctx, key).Result()
	if err != nil {
		return nil, err
	}
	out, err := c.tpl.decodeAll(raw)
	if err != nil {
		return nil, fmt.Errorf("cache smembers %q: %w", key, err)
	}
	return out, nil
}

// LPush кладёт значение в начало list и возвращает новую длину.
func (c *Cache) LPush(ctx context.Context, key string, value any) (int64, error) {
	data, err := c.tpl.encode(value)
	if err != nil {
		return 0, fmt.Errorf("cache lpush %q: %w", key, err)
	}
	return c.cmd().LPush(ctx, key, data).Result()
}

// RPush кладёт значение в конец list и возвращает новую длину.
func (c *Cache) RPush(ctx context.Context, key string, value any) (int64, error) {
	data, err := c.tpl.encode(value)
	if err != nil {
		return 0, fmt.Errorf("cache rpush %q: %w", key, err)
	}
	return c.cmd().RPush(ctx, key, data).Result()
}

// LSize возвращает длину list.
func (c *Cache) LSize(ctx context.Context, key string) (int64, error) {
	return c.cmd().LLen(ctx, key).Result()
}

// LRange возвращает элементы list с start по stop включительно; (0, -1) — весь list.
func (c *Cache) LRange(ctx context.Context, key string, start, stop int64) ([]any, error) {
	raw, err := c.cmd().LRange(ctx, key, start, stop).Result()
	if err != nil {
		return nil, err
	}
	out, err := c.tpl.decodeAll(raw)
	if err != nil {
		return nil, fmt.Errorf("cache lrange %q: %w", key, err)
	}
	return out, nil
}

// LGetAll возвращает весь list. Для больших list лучше читать частями через LRange.
func (c *Cache) LGetAll(ctx context.Context, key string) ([]any, error) {
	return c.LRange(ctx, key, 0, -1)
}

// LIndex возвращает элемент list по индексу: 0 — первый, -1 — последний.
func (c *Cache) LIndex(ctx context.Context, key string, index int64) (any, bool, error) {
	s, err := c.cmd().LIndex(ctx, key, index).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, err
	}
	v, err := c.tpl.decode(s)
	if err != nil {
		return nil, false, fmt.Errorf("cache lindex %q %d: %w", key, index, err)
	}
	return v, true, nil
}
