package redis

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"time"

	"github.com/redis/go-redis/v9"
)

var _ redis.Hook = commandHook{}

// commandHook логирует неуспешные команды и пишет метрики по каждой команде backend'а.
type commandHook struct {
	backend string
	log     *slog.Logger
}

func newCommandHook(backend string, log *slog.Logger) commandHook {
	return commandHook{backend: backend, log: log}
}

func (h commandHook) DialHook(next redis.DialHook) redis.DialHook {
	return func(ctx context.Context, network, addr string) (net.Conn, error) {
		conn, err := next(ctx, network, addr)
		if err != nil {
			h.log.Warn("redis dial failed", "backend", h.backend, "addr", addr, "error", err)
		}
		return conn, err
	}
}

func (h commandHook) ProcessHook(next redis.ProcessHook) redis.ProcessHook {
	return func(ctx context.Context, cmd redis.Cmder) error {
		start := time.Now()
		err := next(ctx, cmd)
		h.observe(cmd.Name(), time.Since(start), err)
		return err
	}
}

func (h commandHook) ProcessPipelineHook(next redis.ProcessPipelineHook) redis.ProcessPipelineHook {
	return func(ctx context.Context, cmds []redis.Cmder) error {
		start := time.Now()
		err := next(ctx, cmds)
		h.observe("pipeline", time.Since(start), err)
		return err
	}
}

func (h commandHook) observe(command string, latency time.Duration, err error) {
	status := "ok"
	switch {
	case errors.Is(err, redis.Nil):
		status = "nil"
	case err != nil:
		status = "error"
		h.log.Debug("redis command failed",
			"backend", h.backend,
			"command", command,
			"kind", ErrorKind(err),
			"latency_ms", latency.Milliseconds(),
			"error", err,
		)
	}
	commandsTotal.WithLabelValues(h.backend, command, status).Inc()
	commandDuration.WithLabelValues(h.backend, command).Observe(latency.Seconds())
}
