// Package callstack implements the evaluation stack used to detect cycles.
//
// A Stack holds the values currently being evaluated, in evaluation order,
// plus a set for constant-time membership checks. A value may appear at most
// once: pushing a value that is already on the stack means the evaluation
// has looped back to itself, and the stack from that value to the top is the
// loop.
package callstack

import (
	"errors"
	"fmt"
)

var (
	// ErrAlreadyOnStack is returned by Push for a value already present.
	ErrAlreadyOnStack = errors.New("value is already on the stack")
	// ErrEmpty is returned by Pop on an empty stack.
	ErrEmpty = errors.New("stack is empty")
	// ErrNotOnTop is returned by Pop when the value is not the top of the stack.
	ErrNotOnTop = errors.New("value is not on top of the stack")
)

// Stack is an evaluation stack of distinct values. The zero value is an
// empty stack. A Stack is not safe for concurrent use.
type Stack[T comparable] struct {
	items []T
	index map[T]int
}

// Push places v on top of the stack.
func (s *Stack[T]) Push(v T) error {
	if _, ok := s.index[v]; ok {
		return fmt.Errorf("%w: %v", ErrAlreadyOnStack, v)
	}
	if s.index == nil {
		s.index = make(map[T]int)
	}
	s.index[v] = len(s.items)
	s.items = append(s.items, v)
	return nil
}

// Pop removes v, which must be the top of the stack.
func (s *Stack[T]) Pop(v T) error {
	if len(s.items) == 0 {
		return fmt.Errorf("%w: cannot pop %v", ErrEmpty, v)
	}
	top := s.items[len(s.items)-1]
	if top != v {
		return fmt.Errorf("%w: popping %v, top is %v", ErrNotOnTop, v, top)
	}
	var zero T
	s.items[len(s.items)-1] = zero
	s.items = s.items[:len(s.items)-1]
	delete(s.index, v)
	return nil
}

// Contains reports whether v is on the stack.
func (s *Stack[T]) Contains(v T) bool {
	_, ok := s.index[v]
	return ok
}

// IndexOf returns the position of v counted from the bottom, or -1.
func (s *Stack[T]) IndexOf(v T) int {
	if i, ok := s.index[v]; ok {
		return i
	}
	return -1
}

// Top returns the most recently pushed value.
func (s *Stack[T]) Top() (T, bool) {
	if len(s.items) == 0 {
		var zero T
		return zero, false
	}
	return s.items[len(s.items)-1], true
}

// Items returns a copy of the stack, bottom first.
func (s *Stack[T]) Items() []T {
	return append([]T(nil), s.items...)
}

// From returns a copy of the stack from position i to the top.
func (s *Stack[T]) From(i int) []T {
	if i < 0 || i >= len(s.items) {
		return nil
	}
	return append([]T(nil), s.items[i:]...)
}

// Len returns the depth of the stack.
func (s *Stack[T]) Len() int {
	return len(s.items)
}
