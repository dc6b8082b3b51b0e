package config

import (
	"strings"

	"github.com/pkg/errors"
)

var ErrNotFound = errors.New("field not found")

type Option func(options *options)

type options struct {
	withDefault  bool
	defaultValue interface{}
}

func getOptions(opts ...Option) *options {
	out := &options{}
	for _, opt := range opts {
		opt(out)
	}
	return out
}

// WithDefault makes a getter return value instead of ErrNotFound when the field is missing.
// The value has to be of the type the getter returns.
func WithDefault(value interface{}) Option {
	return func(options *options) {
		options.withDefault = true
		options.defaultValue = value
	}
}

// GetInterface gets the value under a dot separated path, descending into nested maps.
func GetInterface(config map[string]interface{}, field string, opts ...Option) (interface{}, error) {
	options := getOptions(opts...)
	path := strings.Split(field, ".")
	current := config
	for i, key := range path {
		element, ok := current[key]
		if !ok {
			if options.withDefault {
				return options.defaultValue, nil
			}
			return nil, errors.Wrap(ErrNotFound, strings.Join(path[:i+1], "."))
		}
		if i == len(path)-1 {
			return element, nil
		}
		submap, ok := element.(map[string]interface{})
		if !ok {
			return nil, errors.Errorf("%s should be a map, got %T", strings.Join(path[:i+1], "."), element)
		}
		current = submap
	}
	panic("unreachable")
}

// get reads a field of type T. Null values read as the zero value of T.
func get[T any](config map[string]interface{}, field string, opts []Option) (T, error) {
	var zero T
	options := getOptions(opts...)
	out, err := GetInterface(config, field)
	if err != nil {
		if options.withDefault && errors.Cause(err) == ErrNotFound {
			return options.defaultValue.(T), nil
		}
		return zero, err
	}
	if out == nil {
		return zero, nil
	}
	typed, ok := out.(T)
	if !ok {
		return zero, errors.Errorf("%s should be %T, got %T", field, zero, out)
	}
	return typed, nil
}

func GetInterfaceList(config map[string]interface{}, field string, opts ...Option) ([]interface{}, error) {
	return get[[]interface{}](config, field, opts)
}

func GetMap(config map[string]interface{}, field string, opts ...Option) (map[string]interface{}, error) {
	return get[map[string]interface{}](config, field, opts)
}

func GetString(config map[string]interface{}, field string, opts ...Option) (string, error) {
	return get[string](config, field, opts)
}

func GetInt(config map[string]interface{}, field string, opts ...Option) (int, error) {
	return get[int](config, field, opts)
}

func GetBool(config map[string]interface{}, field string, opts ...Option) (bool, error) {
	return get[bool](config, field, opts)
}

// GetStringList gets a list whose every element is a string. An empty list reads as nil.
func GetStringList(config map[string]interface{}, field string, opts ...Option) ([]string, error) {
	options := getOptions(opts...)
	list, err := GetInterfaceList(config, field)
	if err != nil {
		if options.withDefault && errors.Cause(err) == ErrNotFound {
			return options.defaultValue.([]string), nil
		}
		return nil, err
	}
	if len(list) == 0 {
		return nil, nil
	}

	out := make([]string, len(list))
	for i := range list {
		s, ok := list[i].(string)
		if !ok {
			return nil, errors.Errorf("%s[%d] should be string, got %T", field, i, list[i])
		}
		out[i] = s
	}
	return out, nil
}
