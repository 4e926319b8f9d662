// Package ordered provides insertion-ordered, deduplicating collections.
//
// Result sets produced by lenient queries must keep the order in which values
// were first seen while ignoring later duplicates. The zero value of each
// collection is ready to use. Collections are not safe for concurrent use.
package ordered

// Set is an insertion-ordered set of comparable values.
type Set[T comparable] struct {
	index map[T]struct{}
	items []T
}

// NewSet returns a set containing items in order, duplicates dropped.
func NewSet[T comparable](items ...T) *Set[T] {
	s := &Set[T]{}
	s.AddAll(items...)
	return s
}

// Add inserts v and reports whether it was not already present.
func (s *Set[T]) Add(v T) bool {
	if s.index == nil {
		s.index = make(map[T]struct{})
	}
	if _, ok := s.index[v]; ok {
		return false
	}
	s.index[v] = struct{}{}
	s.items = append(s.items, v)
	return true
}

// AddAll inserts every value in order.
func (s *Set[T]) AddAll(vs ...T) {
	for _, v := range vs {
		s.Add(v)
	}
}

// Contains reports whether v is in the set.
func (s *Set[T]) Contains(v T) bool {
	_, ok := s.index[v]
	return ok
}

// Len returns the number of values in the set.
func (s *Set[T]) Len() int {
	return len(s.items)
}

// Items returns a copy of the values in insertion order.
func (s *Set[T]) Items() []T {
	out := make([]T, len(s.items))
	copy(out, s.items)
	return out
}

// Map is an insertion-ordered map in which the first value stored under a key wins.
type Map[K comparable, V any] struct {
	index  map[K]int
	keys   []K
	values []V
}

// PutIfAbsent stores v under k unless k is already present.
// It reports whether v was stored.
func (m *Map[K, V]) PutIfAbsent(k K, v V) bool {
	if m.index == nil {
		m.index = make(map[K]int)
	}
	if _, ok := m.index[k]; ok {
		return false
	}
	m.index[k] = len(m.values)
	m.keys = append(m.keys, k)
	m.values = append(m.values, v)
	return true
}

// Get returns the value stored under k.
func (m *Map[K, V]) Get(k K) (V, bool) {
	i, ok := m.index[k]
	if !ok {
		var zero V
		return zero, false
	}
	return m.values[i], true
}

// Len returns the number of entries.
func (m *Map[K, V]) Len() int {
	return len(m.values)
}

// Keys returns a copy of the keys in insertion order.
func (m *Map[K, V]) Keys() []K {
	out := make([]K, len(m.keys))
	copy(out, m.keys)
	return out
}

// Values returns a copy of the values in insertion order.
func (m *Map[K, V]) Values() []V {
	out := make([]V, len(m.values))
	copy(out, m.values)
	return out
}
