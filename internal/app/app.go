package app

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	apihttp "hyCache/internal/api/http"
	"hyCache/internal/api/http/controllers/system"
	"hyCache/internal/api/http/middlewares"
	"hyCache/internal/infrastructure/redis"
	"hyCache/internal/pkg/logger"
)

// App — приложение, хранит конфиг и (после Open) реестр backend'ов кэша.
type App struct {
	cfg   Config
	log   *slog.Logger
	cache *redis.Registry
}

// New создаёт приложение с конфигом (пулы создаются в Open/Run).
func New(cfg Config) *App {
	return &App{cfg: cfg}
}

// Open настраивает логгер и собирает оба backend'а (common, order). Повторный вызов ничего не делает.
func (a *App) Open() (*redis.Registry, error) {
	if a.cache != nil {
		return a.cache, nil
	}
	a.log = logger.NewWithLevel(a.cfg.LogLevel, a.cfg.LogFile)
	slog.SetDefault(a.log)

	reg, err := redis.Open(a.cfg.Redis, a.log)
	if err != nil {
		return nil, fmt.Errorf("redis: %w", err)
	}
	a.cache = reg
	return reg, nil
}

// Cache возвращает реестр backend'ов (nil до Open).
func (a *App) Cache() *redis.Registry {
	return a.cache
}

// Close закрывает пулы всех backend'ов.
func (a *App) Close() error {
	if a.cache == nil {
		return nil
	}
	return a.cache.Close()
}

// Run собирает backend'ы, проверяет их пингом и запускает служебный HTTP-сервер (блокирующий вызов).
// Недоступный при старте backend не валит процесс: readiness покажет проблему, пул переподключится сам.
func (a *App) Run() error {
	reg, err := a.Open()
	if err != nil {
		return err
	}
	defer func() {
		if err := a.Close(); err != nil {
			a.log.Warn("cache close failed", "error", err)
		}
	}()

	pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	for _, name := range reg.Names() {
		c, _ := reg.Get(name)
		if err := c.Ping(pingCtx); err != nil {
			a.log.Warn("cache backend unreachable", "backend", name, "kind", redis.ErrorKind(err), "error", err)
		}
	}
	cancel()

	if err := prometheus.Register(reg.Collector()); err != nil {
		a.log.Warn("pool metrics not registered", "error", err)
	}

	srv := apihttp.NewServer(a.cfg.Server)
	srv.Use(middlewares.Metrics(prometheus.DefaultRegisterer), middlewares.RequestLogger(a.log))
	srv.AddController(system.New(reg, prometheus.DefaultGatherer, a.log))

	a.log.Info("application started", "http", a.cfg.Server.Addr(), "backends", reg.Names())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return srv.Start(ctx)
}
