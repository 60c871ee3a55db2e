package ports

//go:generate mockgen -source=health.go -destination=../mocks/health_mock.go -package=mocks

import "context"

// IHealthChecker — проверка доступности всех backend'ов (для readiness).
type IHealthChecker interface {
	Ping(ctx context.Context) error
}
