// Package codec — сериализация значений кэша: JSON с метаданными типа.
//
// string, bool и знаковые целые пишутся как есть, чтобы INCRBY работал по значениям из Set;
// такие целые читаются обратно как int64. Остальное (в том числе float, беззнаковые и []byte)
// заворачивается в конверт {"@type": "...", "@value": ...}; по имени типа из Registry
// значение декодируется обратно в тот же Go-тип.
//
// Внимание при миграциях: конверт завязан на раскладку полей. Переименование или смена типа поля
// у сохранённого типа ломает декодирование ранее записанных значений.
// Сериализуются только экспортируемые поля (так работает encoding/json).
package codec

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
)

var (
	// ErrEncode — значение не удалось сериализовать.
	ErrEncode = errors.New("codec: encode")
	// ErrDecode — данные не удалось десериализовать.
	ErrDecode = errors.New("codec: decode")
)

// Serializer — сериализатор значений (и значений полей hash).
type Serializer interface {
	Marshal(v any) ([]byte, error)
	Unmarshal(data []byte) (any, error)
}

type envelope struct {
	Type  string          `json:"@type"`
	Value json.RawMessage `json:"@value"`
}

var _ Serializer = (*JSON)(nil)

// JSON — типизированный JSON-сериализатор поверх Registry.
type JSON struct {
	reg *Registry
}

// NewJSON возвращает сериализатор. reg == nil — используется DefaultRegistry.
func NewJSON(reg *Registry) *JSON {
	if reg == nil {
		reg = DefaultRegistry
	}
	return &JSON{reg: reg}
}

// Marshal кодирует значение.
func (j *JSON) Marshal(v any) ([]byte, error) {
	if v == nil || isScalar(v) {
		b, err := json.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrEncode, err)
		}
		return b, nil
	}

	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("%w: %T: %v", ErrEncode, v, err)
	}
	b, err := json.Marshal(envelope{Type: j.reg.nameOf(reflect.TypeOf(v)), Value: raw})
	if err != nil {
		return nil, fmt.Errorf("%w: %T: %v", ErrEncode, v, err)
	}
	return b, nil
}

// Unmarshal декодирует значение. Зарегистрированный "@type" даёт исходный Go-тип,
// незарегистрированный — map[string]any / []any. Голые целые числа — int64, дробные — float64.
func (j *JSON) Unmarshal(data []byte) (any, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("%w: empty payload", ErrDecode)
	}
	if trimmed[0] == '{' {
		var env envelope
		if err := json.Unmarshal(trimmed, &env); err == nil && env.Type != "" && env.Value != nil {
			return j.unwrap(env)
		}
	}
	return decodeGeneric(trimmed)
}

func (j *JSON) unwrap(env envelope) (any, error) {
	t, ok := j.reg.typeOf(env.Type)
	if !ok {
		return decodeGeneric(env.Value)
	}
	if t.Kind() == reflect.Pointer {
		p := reflect.New(t.Elem())
		if err := json.Unmarshal(env.Value, p.Interface()); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrDecode, env.Type, err)
		}
		return p.Interface(), nil
	}
	p := reflect.New(t)
	if err := json.Unmarshal(env.Value, p.Interface()); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrDecode, env.Type, err)
	}
	return p.Elem().Interface(), nil
}

func decodeGeneric(data []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	return normalize(v), nil
}

// normalize заменяет json.Number на int64/float64 рекурсивно.
func normalize(v any) any {
	switch x := v.(type) {
	case json.Number:
		if i, err := x.Int64(); err == nil {
			return i
		}
		f, _ := x.Float64()
		return f
	case map[string]any:
		for k, e := range x {
			x[k] = normalize(e)
		}
		return x
	case []any:
		for i, e := range x {
			x[i] = normalize(e)
		}
		return x
	default:
		return v
	}
}

func isScalar(v any) bool {
	switch v.(type) {
	case string, bool, int, int8, int16, int32, int64:
		return true
	}
	return false
}

var defaultJSON = NewJSON(DefaultRegistry)

// Typed — поле с полиморфным значением внутри структуры. Значение пишется с "@type",
// поэтому вложенные интерфейсные поля тоже восстанавливаются.
// Имена вложенных типов всегда берутся из DefaultRegistry, даже если внешнее значение
// кодирует JSON с собственным реестром: типы для Typed регистрируются в DefaultRegistry.
type Typed struct {
	V any
}

// MarshalJSON реализует json.Marshaler.
func (t Typed) MarshalJSON() ([]byte, error) {
	return defaultJSON.Marshal(t.V)
}

// UnmarshalJSON реализует json.Unmarshaler.
func (t *Typed) UnmarshalJSON(data []byte) error {
	v, err := defaultJSON.Unmarshal(data)
	if err != nil {
		return err
	}
	t.V = v
	return nil
}
