// Package stack provides the slice-backed LIFO used by the parser in place of
// call-stack recursion.
package stack

// Stack is a growable LIFO. The top is the last element of the backing slice.
// There is no capacity ceiling; callers that need one enforce it themselves.
type Stack[T any] struct {
	items []T
}

// New returns a stack with room for capacity elements before it grows.
func New[T any](capacity int) *Stack[T] {
	return &Stack[T]{items: make([]T, 0, capacity)}
}

func (s *Stack[T]) Push(v T) {
	s.items = append(s.items, v)
}

// Pop removes and returns the top element. ok is false on an empty stack.
func (s *Stack[T]) Pop() (v T, ok bool) {
	n := len(s.items)
	if n == 0 {
		return v, false
	}
	v = s.items[n-1]
	var zero T
	s.items[n-1] = zero
	s.items = s.items[:n-1]
	return v, true
}

// Peek returns the top element without removing it.
func (s *Stack[T]) Peek() (v T, ok bool) {
	if len(s.items) == 0 {
		return v, false
	}
	return s.items[len(s.items)-1], true
}

// Top returns a pointer to the top element so it can be updated in place.
// It returns nil on an empty stack. The pointer is invalidated by the next Push.
func (s *Stack[T]) Top() *T {
	if len(s.items) == 0 {
		return nil
	}
	return &s.items[len(s.items)-1]
}

// At returns the element i positions below the top; At(0) is the top.
func (s *Stack[T]) At(i int) (v T, ok bool) {
	idx := len(s.items) - 1 - i
	if i < 0 || idx < 0 {
		return v, false
	}
	return s.items[idx], true
}

func (s *Stack[T]) Len() int {
	return len(s.items)
}

func (s *Stack[T]) Empty() bool {
	return len(s.items) == 0
}

// Truncate drops elements until at most n remain.
func (s *Stack[T]) Truncate(n int) {
	if n < 0 {
		n = 0
	}
	if n >= len(s.items) {
		return
	}
	clear(s.items[n:])
	s.items = s.items[:n]
}

// Reset empties the stack, keeping its backing array unless it grew past
// maxRetain elements.
func (s *Stack[T]) Reset(maxRetain int) {
	if cap(s.items) > maxRetain {
		s.items = make([]T, 0, maxRetain)
		return
	}
	clear(s.items)
	s.items = s.items[:0]
}
