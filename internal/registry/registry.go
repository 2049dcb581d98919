package registry

import (
	"errors"
	"fmt"
)

// ErrAlreadyRegistered is returned when registering a key that is present.
var ErrAlreadyRegistered = errors.New("key already registered")

// Registry maps keys to values and remembers registration order.
// A Registry is not safe for concurrent use.
type Registry[K comparable, V any] struct {
	entries map[K]V
	order   []K
}

// New creates an empty Registry.
func New[K comparable, V any]() *Registry[K, V] {
	return &Registry[K, V]{entries: make(map[K]V)}
}

// Lookup returns the value registered under k.
func (r *Registry[K, V]) Lookup(k K) (V, bool) {
	v, ok := r.entries[k]
	return v, ok
}

// Register stores v under k. It fails if k is already registered.
func (r *Registry[K, V]) Register(k K, v V) error {
	if _, exists := r.entries[k]; exists {
		return fmt.Errorf("%w: %v", ErrAlreadyRegistered, k)
	}
	r.entries[k] = v
	r.order = append(r.order, k)
	return nil
}

// Forget removes k and reports whether it was registered.
func (r *Registry[K, V]) Forget(k K) bool {
	if _, exists := r.entries[k]; !exists {
		return false
	}
	delete(r.entries, k)
	for i, key := range r.order {
		if key == k {
			r.order = append(r.order[:i:i], r.order[i+1:]...)
			break
		}
	}
	return true
}

// Keys returns the registered keys in registration order.
func (r *Registry[K, V]) Keys() []K {
	return append([]K(nil), r.order...)
}

// All returns the registered values in registration order.
func (r *Registry[K, V]) All() []V {
	values := make([]V, 0, len(r.order))
	for _, k := range r.order {
		values = append(values, r.entries[k])
	}
	return values
}

// Len returns the number of registered entries.
func (r *Registry[K, V]) Len() int {
	return len(r.entries)
}
