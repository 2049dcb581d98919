package observable

import (
	"fmt"

	"github.com/vk/recalcgo/internal/event"
)

// MapMutation describes one change to a Map.
//
// Before the mutation, every pair in Removed was present in the map.
// After the mutation, every pair in Added is present in the map.
type MapMutation[K comparable, V any] struct {
	Removed map[K]V
	Added   map[K]V
}

// String implements fmt.Stringer.
func (m MapMutation[K, V]) String() string {
	return fmt.Sprintf("removed %v, added %v", m.Removed, m.Added)
}

// Entry is a key/value pair, used where insertion order matters.
type Entry[K comparable, V any] struct {
	Key   K
	Value V
}

// Map is a mapping that remembers insertion order and reports every
// mutation to its listeners. A Map is not safe for concurrent use.
type Map[K comparable, V any] struct {
	data      map[K]V
	order     []K
	listeners event.Channel[MapMutation[K, V]]
}

// NewMap returns an empty map.
func NewMap[K comparable, V any]() *Map[K, V] {
	return &Map[K, V]{data: make(map[K]V)}
}

// Listen registers fn to receive every subsequent mutation.
func (m *Map[K, V]) Listen(fn func(MapMutation[K, V])) (cancel func()) {
	return m.listeners.Subscribe(fn)
}

// Len returns the number of entries.
func (m *Map[K, V]) Len() int {
	return len(m.data)
}

// Get returns the value stored under k.
func (m *Map[K, V]) Get(k K) (V, bool) {
	v, ok := m.data[k]
	return v, ok
}

// Keys returns the keys in insertion order.
func (m *Map[K, V]) Keys() []K {
	return append([]K(nil), m.order...)
}

// Entries returns the entries in insertion order.
func (m *Map[K, V]) Entries() []Entry[K, V] {
	entries := make([]Entry[K, V], 0, len(m.order))
	for _, k := range m.order {
		entries = append(entries, Entry[K, V]{Key: k, Value: m.data[k]})
	}
	return entries
}

// Set stores v under k. Overwriting an existing key keeps its position and
// reports the previous value as removed.
func (m *Map[K, V]) Set(k K, v V) {
	removed := map[K]V{}
	if old, ok := m.data[k]; ok {
		removed[k] = old
	} else {
		m.order = append(m.order, k)
	}
	m.data[k] = v
	m.listeners.Publish(MapMutation[K, V]{Removed: removed, Added: map[K]V{k: v}})
}

// Update stores every entry in order, one mutation per entry.
func (m *Map[K, V]) Update(entries ...Entry[K, V]) {
	for _, e := range entries {
		m.Set(e.Key, e.Value)
	}
}

// Delete removes k and reports whether it was present.
func (m *Map[K, V]) Delete(k K) bool {
	old, ok := m.data[k]
	if !ok {
		return false
	}
	delete(m.data, k)
	for i, key := range m.order {
		if key == k {
			m.order = append(m.order[:i:i], m.order[i+1:]...)
			break
		}
	}
	m.listeners.Publish(MapMutation[K, V]{Removed: map[K]V{k: old}, Added: map[K]V{}})
	return true
}

// Clear removes every entry in insertion order, one mutation per entry.
func (m *Map[K, V]) Clear() {
	for _, k := range m.Keys() {
		m.Delete(k)
	}
}
