package codec

import (
	"fmt"
	"reflect"
	"sync"
	"time"
)

// Registry сопоставляет имя типа (значение "@type") и Go-тип.
// Безопасен для конкурентного использования.
type Registry struct {
	mu     sync.RWMutex
	byName map[string]reflect.Type
	byType map[reflect.Type]string
}

// NewRegistry возвращает реестр с предрегистрированными стандартными типами.
func NewRegistry() *Registry {
	r := &Registry{
		byName: make(map[string]reflect.Type),
		byType: make(map[reflect.Type]string),
	}
	r.MustRegister("float64", float64(0))
	r.MustRegister("float32", float32(0))
	r.MustRegister("uint", uint(0))
	r.MustRegister("uint8", uint8(0))
	r.MustRegister("uint16", uint16(0))
	r.MustRegister("uint32", uint32(0))
	r.MustRegister("uint64", uint64(0))
	r.MustRegister("[]byte", []byte(nil))
	r.MustRegister("[]string", []string(nil))
	r.MustRegister("[]int64", []int64(nil))
	r.MustRegister("map[string]string", map[string]string(nil))
	r.MustRegister("time.Time", time.Time{})
	return r
}

// DefaultRegistry используется сериализатором по умолчанию и codec.Typed.
var DefaultRegistry = NewRegistry()

// Register связывает name с типом sample. Если sample — указатель, декодирование вернёт указатель.
// Повторная регистрация того же типа под тем же именем допустима.
func (r *Registry) Register(name string, sample any) error {
	if name == "" {
		return fmt.Errorf("codec: empty type name")
	}
	if sample == nil {
		return fmt.Errorf("codec: nil sample for %q", name)
	}
	t := reflect.TypeOf(sample)

	r.mu.Lock()
	defer r.mu.Unlock()
	if prev, ok := r.byName[name]; ok && prev != t {
		return fmt.Errorf("codec: name %q already registered for %s", name, prev)
	}
	if prev, ok := r.byType[t]; ok && prev != name {
		return fmt.Errorf("codec: type %s already registered as %q", t, prev)
	}
	r.byName[name] = t
	r.byType[t] = name
	return nil
}

// MustRegister как Register, но паникует при ошибке. Для init().
func (r *Registry) MustRegister(name string, sample any) {
	if err := r.Register(name, sample); err != nil {
		panic(err)
	}
}

// Register регистрирует тип в DefaultRegistry.
func Register(name string, sample any) error {
	return DefaultRegistry.Register(name, sample)
}

// nameOf возвращает имя типа для "@type": зарегистрированное, иначе reflect-имя.
// Для указателя на зарегистрированный тип значения (и наоборот) берётся имя базового типа.
func (r *Registry) nameOf(t reflect.Type) string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if name, ok := r.byType[t]; ok {
		return name
	}
	if t.Kind() == reflect.Pointer {
		if name, ok := r.byType[t.Elem()]; ok {
			return name
		}
	} else if name, ok := r.byType[reflect.PointerTo(t)]; ok {
		return name
	}
	return t.String()
}

func (r *Registry) typeOf(name string) (reflect.Type, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.byName[name]
	return t, ok
}
