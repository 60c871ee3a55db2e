package redis

import (
	"fmt"
	"strings"
	"time"

	"hyCache/internal/domain"
)

// PoolConfig — параметры пула соединений, общие для всех backend'ов.
// Переменные: HY_REDIS_POOL_MAX_ACTIVE, _MAX_WAIT (мс), _MAX_IDLE, _MIN_IDLE.
// Значения не проверяются и передаются в пул как есть.
type PoolConfig struct {
	MaxActive int `envconfig:"MAX_ACTIVE" default:"100"`
	// MaxWait — сколько ждать свободного соединения, прежде чем вернуть ошибку pool timeout.
	MaxWait int `envconfig:"MAX_WAIT" default:"60000"`
	MaxIdle int `envconfig:"MAX_IDLE" default:"10"`
	MinIdle int `envconfig:"MIN_IDLE" default:"0"`
}

// DefaultPoolConfig возвращает значения по умолчанию (как в тегах default).
func DefaultPoolConfig() PoolConfig {
	return PoolConfig{MaxActive: 100, MaxWait: 60000, MaxIdle: 10, MinIdle: 0}
}

// MaxWaitDuration — MaxWait как time.Duration.
func (p PoolConfig) MaxWaitDuration() time.Duration {
	return time.Duration(p.MaxWait) * time.Millisecond
}

// Endpoint — адрес и доступ к одному backend'у. Переменные: HY_REDIS_<COMMON|ORDER>_HOST, PORT, PASSWORD, TIMEOUT (мс), DB.
type Endpoint struct {
	Host     string `envconfig:"HOST" default:"localhost"`
	Port     int    `envconfig:"PORT" default:"6379"`
	Password string `envconfig:"PASSWORD" default:""`
	Timeout  int    `envconfig:"TIMEOUT" default:"30000"`
	DB       int    `envconfig:"DB" default:"0"`
}

// DefaultEndpoint возвращает endpoint по умолчанию: localhost:6379, таймаут 30с.
func DefaultEndpoint() Endpoint {
	return Endpoint{Host: "localhost", Port: 6379, Timeout: 30000}
}

// Addr возвращает адрес "host:port".
func (e Endpoint) Addr() string {
	return fmt.Sprintf("%s:%d", e.Host, e.Port)
}

// CommandTimeout — таймаут команды (чтение и запись).
func (e Endpoint) CommandTimeout() time.Duration {
	return time.Duration(e.Timeout) * time.Millisecond
}

// Validate проверяет host и port. Сеть не трогает.
func (e Endpoint) Validate() error {
	host := strings.TrimSpace(e.Host)
	if host == "" || host != e.Host || strings.ContainsAny(host, " /") {
		return fmt.Errorf("%w: host %q", domain.ErrInvalidEndpoint, e.Host)
	}
	if e.Port < 1 || e.Port > 65535 {
		return fmt.Errorf("%w: port %d", domain.ErrInvalidEndpoint, e.Port)
	}
	if e.DB < 0 {
		return fmt.Errorf("%w: db %d", domain.ErrInvalidEndpoint, e.DB)
	}
	return nil
}

// SetPolicy — что делает Set при ошибке.
type SetPolicy string

const (
	// SetBestEffort — ошибка логируется, Set возвращает (false, nil).
	SetBestEffort SetPolicy = "best-effort"
	// SetStrict — ошибка возвращается вызывающему.
	SetStrict SetPolicy = "strict"
)

// Validate проверяет, что политика известна.
func (p SetPolicy) Validate() error {
	switch p {
	case SetBestEffort, SetStrict:
		return nil
	}
	return fmt.Errorf("%w: %q", domain.ErrUnknownSetPolicy, string(p))
}

// Config — настройки обоих backend'ов. Префикс в app: HY_REDIS.
type Config struct {
	Pool      PoolConfig `envconfig:"POOL"`
	Common    Endpoint   `envconfig:"COMMON"`
	Order     Endpoint   `envconfig:"ORDER"`
	SetPolicy SetPolicy  `envconfig:"SET_POLICY" default:"best-effort"`
}
