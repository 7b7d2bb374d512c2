package perm

import "errors"

var (
	// ErrFormat indicates malformed permutation text.
	ErrFormat = errors.New("bad permutation format")
)
