package enum

import (
	"fmt"
	"reflect"
)

// registry maps an enum type to its declared members, keyed by their
// string form.
var registry = map[reflect.Type]any{}

type members[T comparable] map[string]T

// New registers a value as a member of its enum type and returns it
// unchanged, so it can be used directly in a var declaration.
func New[T comparable](value T) T {
	v := reflect.ValueOf(value)
	if _, ok := registry[v.Type()]; !ok {
		registry[v.Type()] = members[T]{}
	}

	registry[v.Type()].(members[T])[v.String()] = value
	return value
}

// ToEnum converts a string to a registered member of enum type T.
func ToEnum[T comparable](s string) (T, error) {
	var zero T
	m, ok := registry[reflect.TypeOf(zero)]
	if !ok {
		return zero, fmt.Errorf("unknown enum type %T", zero)
	}

	value, ok := m.(members[T])[s]
	if !ok {
		return zero, fmt.Errorf("%q is not a value of %T", s, zero)
	}

	return value, nil
}
