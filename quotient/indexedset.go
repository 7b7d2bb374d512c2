package quotient

// indexedSet assigns dense insertion-ordered indices to values. Inserting
// a value already present reuses its existing index.
type indexedSet[T comparable] struct {
	index  map[T]int
	values []T
}

func newIndexedSet[T comparable]() *indexedSet[T] {
	return &indexedSet[T]{index: map[T]int{}}
}

// Insert returns the index of v and whether it was newly inserted.
func (s *indexedSet[T]) Insert(v T) (int, bool) {
	if i, ok := s.index[v]; ok {
		return i, false
	}
	i := len(s.values)
	s.index[v] = i
	s.values = append(s.values, v)
	return i, true
}

// At returns the value stored at index i.
func (s *indexedSet[T]) At(i int) (T, bool) {
	if i < 0 || i >= len(s.values) {
		var zero T
		return zero, false
	}
	return s.values[i], true
}

func (s *indexedSet[T]) Len() int {
	return len(s.values)
}
