package redis

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
	"hyCache/internal/domain"
	"hyCache/internal/pkg/codec"
)

// Build собирает полную цепочку одного backend'а: пул → шаблон → фасад.
func Build(name string, ep Endpoint, pool PoolConfig, policy SetPolicy, log *slog.Logger) (*Cache, error) {
	if log == nil {
		log = slog.Default()
	}
	if err := policy.Validate(); err != nil {
		return nil, fmt.Errorf("redis %s: %w", name, err)
	}
	cli, err := New(name, ep, pool, log)
	if err != nil {
		return nil, err
	}
	tpl := NewTemplate(cli, codec.NewJSON(nil))
	return NewCache(tpl, policy, log), nil
}

// Registry — именованные фасады backend'ов. Создаётся один раз при старте, не меняется.
type Registry struct {
	caches  map[string]*Cache
	names   []string
	primary string
}

// NewRegistry создаёт реестр. primary — backend по умолчанию.
func NewRegistry(primary *Cache, others ...*Cache) (*Registry, error) {
	r := &Registry{caches: make(map[string]*Cache, 1+len(others)), primary: primary.Name()}
	for _, c := range append([]*Cache{primary}, others...) {
		if _, ok := r.caches[c.Name()]; ok {
			return nil, fmt.Errorf("redis registry: duplicate backend %q", c.Name())
		}
		r.caches[c.Name()] = c
		r.names = append(r.names, c.Name())
	}
	return r, nil
}

// Open собирает backend'ы common (primary) и order по конфигу.
func Open(cfg Config, log *slog.Logger) (*Registry, error) {
	if log == nil {
		log = slog.Default()
	}
	common, err := Build(domain.BackendCommon, cfg.Common, cfg.Pool, cfg.SetPolicy, log)
	if err != nil {
		return nil, err
	}
	order, err := Build(domain.BackendOrder, cfg.Order, cfg.Pool, cfg.SetPolicy, log)
	if err != nil {
		_ = common.Close()
		return nil, err
	}
	r, err := NewRegistry(common, order)
	if err != nil {
		_ = common.Close()
		_ = order.Close()
		return nil, err
	}
	for _, name := range r.names {
		ep := r.caches[name].Template().Client().Endpoint()
		log.Info("cache backend configured",
			"backend", name,
			"addr", ep.Addr(),
			"db", ep.DB,
			"primary", name == r.primary,
		)
	}
	return r, nil
}

// Get возвращает фасад по имени backend'а.
func (r *Registry) Get(name string) (*Cache, error) {
	c, ok := r.caches[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownBackend, name)
	}
	return c, nil
}

// Primary возвращает backend по умолчанию.
func (r *Registry) Primary() *Cache {
	return r.caches[r.primary]
}

// Common возвращает backend common (nil, если не зарегистрирован).
func (r *Registry) Common() *Cache {
	return r.caches[domain.BackendCommon]
}

// Order возвращает backend order (nil, если не зарегистрирован).
func (r *Registry) Order() *Cache {
	return r.caches[domain.BackendOrder]
}

// Names возвращает имена backend'ов в порядке регистрации, primary первым.
func (r *Registry) Names() []string {
	return append([]string(nil), r.names...)
}

// Ping проверяет все backend'ы (для readiness). Ошибки собираются вместе.
func (r *Registry) Ping(ctx context.Context) error {
	var errs []error
	for _, name := range r.names {
		if err := r.caches[name].Ping(ctx); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", name, err))
		}
	}
	return errors.Join(errs...)
}

// Close закрывает пулы всех backend'ов.
func (r *Registry) Close() error {
	var errs []error
	for _, name := range r.names {
		if err := r.caches[name].Close(); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", name, err))
		}
	}
	return errors.Join(errs...)
}

// Collector возвращает prometheus-коллектор статистики пулов.
func (r *Registry) Collector() prometheus.Collector {
	return &poolCollector{reg: r}
}
