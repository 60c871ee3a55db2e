package domain

import "errors"

// Имена backend'ов. Common — основной (primary), order — выбирается явно по имени.
const (
	BackendCommon = "common"
	BackendOrder  = "order"
)

var (
	// ErrInvalidDelta — шаг incr/decr должен быть строго больше нуля. Проверяется до обращения к Redis.
	ErrInvalidDelta = errors.New("delta must be greater than zero")
	// ErrInvalidTTL — срок жизни для SetEx должен быть строго больше нуля.
	ErrInvalidTTL = errors.New("ttl must be greater than zero")
	// ErrInvalidEndpoint — host/port backend'а не проходят проверку.
	ErrInvalidEndpoint = errors.New("invalid redis endpoint")
	// ErrUnknownBackend — в реестре нет backend'а с таким именем.
	ErrUnknownBackend = errors.New("unknown cache backend")
	// ErrUnknownSetPolicy — неизвестное значение политики Set.
	ErrUnknownSetPolicy = errors.New("unknown set policy")
)
