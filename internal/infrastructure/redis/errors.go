package redis

import (
	"context"
	"errors"
	"net"
	"strings"

	"github.com/redis/go-redis/v9"
	"hyCache/internal/domain"
	"hyCache/internal/pkg/codec"
)

// Виды ошибок для логов и вызывающих, которым важно отличать сбой сети от ошибки данных.
const (
	KindValidation    = "validation"
	KindSerialization = "serialization"
	KindPoolTimeout   = "pool_timeout"
	KindTimeout       = "timeout"
	KindCanceled      = "canceled"
	KindNetwork       = "network"
	KindClosed        = "closed"
	KindBackend       = "backend"
	KindUnknown       = "unknown"
)

// ErrorKind классифицирует ошибку операции кэша. Для nil возвращает "".
func ErrorKind(err error) string {
	var netErr net.Error
	var redisErr redis.Error
	switch {
	case err == nil:
		return ""
	case errors.Is(err, domain.ErrInvalidDelta), errors.Is(err, domain.ErrInvalidTTL),
		errors.Is(err, domain.ErrInvalidEndpoint):
		return KindValidation
	case errors.Is(err, codec.ErrEncode), errors.Is(err, codec.ErrDecode):
		return KindSerialization
	case isPoolTimeout(err):
		return KindPoolTimeout
	case errors.Is(err, redis.ErrClosed):
		return KindClosed
	case errors.Is(err, context.DeadlineExceeded):
		return KindTimeout
	case errors.Is(err, context.Canceled):
		return KindCanceled
	case errors.As(err, &netErr):
		if netErr.Timeout() {
			return KindTimeout
		}
		return KindNetwork
	case errors.As(err, &redisErr):
		return KindBackend
	default:
		return KindUnknown
	}
}

// пул go-redis не экспортирует свою ошибку ожидания соединения, сравниваем по тексту.
func isPoolTimeout(err error) bool {
	return strings.Contains(err.Error(), "connection pool timeout")
}
