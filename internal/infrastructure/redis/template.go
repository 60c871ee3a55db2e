package redis

import (
	"hyCache/internal/pkg/codec"
)

// Template связывает клиент backend'а и сериализатор значений.
// Ключи и имена полей hash — обычные строки, значения — через сериализатор.
type Template struct {
	cli    *Client
	values codec.Serializer
}

// NewTemplate создаёт шаблон. values == nil — типизированный JSON поверх codec.DefaultRegistry.
// Собственный реестр в codec.NewJSON действует только на внешнее значение: поля codec.Typed
// всегда разрешаются через codec.DefaultRegistry.
func NewTemplate(cli *Client, values codec.Serializer) *Template {
	if values == nil {
		values = codec.NewJSON(nil)
	}
	return &Template{cli: cli, values: values}
}

// Client возвращает клиент backend'а.
func (t *Template) Client() *Client {
	return t.cli
}

// Name возвращает имя backend'а.
func (t *Template) Name() string {
	return t.cli.Name()
}

func (t *Template) encode(v any) (string, error) {
	b, err := t.values.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func (t *Template) encodeAll(vs []any) ([]any, error) {
	out := make([]any, len(vs))
	for i, v := range vs {
		s, err := t.encode(v)
		if err != nil {
			return nil, err
		}
		out[i] = s
	}
	return out, nil
}

func (t *Template) decode(s string) (any, error) {
	return t.values.Unmarshal([]byte(s))
}

func (t *Template) decodeAll(ss []string) ([]any, error) {
	out := make([]any, len(ss))
	for i, s := range ss {
		v, err := t.decode(s)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}
