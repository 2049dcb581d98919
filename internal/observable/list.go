package observable

import (
	"fmt"

	"github.com/vk/recalcgo/internal/event"
)

// ListMutation describes one change to a List.
//
// Before the mutation, Removed equals list[Index:Index+len(Removed)].
// After the mutation, Added equals list[Index:Index+len(Added)].
type ListMutation[T any] struct {
	Index   int
	Removed []T
	Added   []T
}

// String implements fmt.Stringer.
func (m ListMutation[T]) String() string {
	return fmt.Sprintf("index %d: removed %v, added %v", m.Index, m.Removed, m.Added)
}

// List is an ordered sequence that reports every mutation to its listeners.
// A List is not safe for concurrent use.
type List[T any] struct {
	data      []T
	listeners event.Channel[ListMutation[T]]
}

// NewList returns a list holding a copy of items. No mutation is reported for
// the initial contents.
func NewList[T any](items ...T) *List[T] {
	return &List[T]{data: append([]T(nil), items...)}
}

// Listen registers fn to receive every subsequent mutation.
func (l *List[T]) Listen(fn func(ListMutation[T])) (cancel func()) {
	return l.listeners.Subscribe(fn)
}

// Len returns the number of elements.
func (l *List[T]) Len() int {
	return len(l.data)
}

// At returns the element at index i; negative indices count from the end.
func (l *List[T]) At(i int) (T, error) {
	var zero T
	i, err := normalizeIndex(i, len(l.data))
	if err != nil {
		return zero, err
	}
	return l.data[i], nil
}

// Items returns a copy of the elements.
func (l *List[T]) Items() []T {
	return append([]T(nil), l.data...)
}

// Set replaces the element at index i.
func (l *List[T]) Set(i int, v T) error {
	i, err := normalizeIndex(i, len(l.data))
	if err != nil {
		return err
	}
	old := l.data[i]
	l.data[i] = v
	l.notify(i, []T{old}, []T{v})
	return nil
}

// Insert inserts v before index i. Like Python's list.insert, an index past
// either end is clamped rather than rejected.
func (l *List[T]) Insert(i int, v T) {
	n := len(l.data)
	if i < 0 {
		i += n
		if i < 0 {
			i = 0
		}
	} else if i > n {
		i = n
	}
	l.splice(i, i, []T{v})
}

// Append adds vs to the end of the list as a single mutation.
func (l *List[T]) Append(vs ...T) {
	if len(vs) == 0 {
		return
	}
	n := len(l.data)
	l.splice(n, n, vs)
}

// Delete removes the element at index i.
func (l *List[T]) Delete(i int) error {
	i, err := normalizeIndex(i, len(l.data))
	if err != nil {
		return err
	}
	l.splice(i, i+1, nil)
	return nil
}

// Clear removes every element as a single mutation.
func (l *List[T]) Clear() {
	if len(l.data) == 0 {
		return
	}
	l.splice(0, len(l.data), nil)
}

// Replace clears the list and then appends vs, so every removal is reported
// before any addition.
func (l *List[T]) Replace(vs ...T) {
	l.Clear()
	l.Append(vs...)
}

// SetSlice assigns vs to the elements selected by s.
//
// A simple slice (step 1) is replaced wholesale and may change the length of
// the list; it is reported as one mutation. An extended slice must select
// exactly len(vs) indices and is reported as one mutation per index.
func (l *List[T]) SetSlice(s Slice, vs []T) error {
	if !s.extended() {
		start, stop, _, err := s.bounds(len(l.data))
		if err != nil {
			return err
		}
		if stop < start {
			stop = start
		}
		l.splice(start, stop, vs)
		return nil
	}

	indices, err := Indices(s, len(l.data))
	if err != nil {
		return err
	}
	if len(indices) != len(vs) {
		return fmt.Errorf("%w: cannot assign %d elements to extended slice %s with %d indices",
			ErrSliceLength, len(vs), s, len(indices))
	}
	for k, i := range indices {
		if err := l.Set(i, vs[k]); err != nil {
			return err
		}
	}
	return nil
}

// DeleteSlice removes the elements selected by s. Extended slices are
// deleted one index at a time in descending order, so that no index still to
// be processed is shifted by an earlier deletion.
func (l *List[T]) DeleteSlice(s Slice) error {
	if !s.extended() {
		return l.SetSlice(s, nil)
	}

	indices, err := Indices(s, len(l.data))
	if err != nil {
		return err
	}
	if *s.Step > 0 {
		for a, b := 0, len(indices)-1; a < b; a, b = a+1, b-1 {
			indices[a], indices[b] = indices[b], indices[a]
		}
	}
	for _, i := range indices {
		l.splice(i, i+1, nil)
	}
	return nil
}

// splice replaces data[start:stop] with added and reports the mutation.
func (l *List[T]) splice(start, stop int, added []T) {
	removed := append([]T(nil), l.data[start:stop]...)
	added = append([]T(nil), added...)
	if len(removed) == 0 && len(added) == 0 {
		return
	}

	tail := append([]T(nil), l.data[stop:]...)
	l.data = append(append(l.data[:start], added...), tail...)
	l.notify(start, removed, added)
}

func (l *List[T]) notify(index int, removed, added []T) {
	l.listeners.Publish(ListMutation[T]{Index: index, Removed: removed, Added: added})
}
