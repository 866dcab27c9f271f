package cache

import "fmt"

// GetTyped returns the value cached under key asserted to T. The boolean
// reports whether a completed value exists. A stored value of a
// different type returns an error instead of panicking.
func GetTyped[T any](s *Store, key string) (T, bool, error) {
	var zero T

	e, ok := s.Get(key)
	if !ok {
		return zero, false, nil
	}
	data, ok := e.Data.(T)
	if !ok {
		return zero, false, ErrTypeMismatch(key, fmt.Sprintf("%T", zero), fmt.Sprintf("%T", e.Data))
	}
	return data, true, nil
}
