package wasi

import (
	"math"
	"strings"
)

// DefaultStringArrayLimit is the preview1 limit on the element count and on
// the cumulative NUL-terminated size of args and environ.
const DefaultStringArrayLimit = math.MaxUint32

// StringArray accumulates strings destined for args_get or environ_get.
// The zero value uses DefaultStringArrayLimit.
type StringArray struct {
	elems []string
	size  uint64
	limit uint64
}

// NewStringArray returns an array bounded by limit. A zero limit means
// DefaultStringArrayLimit.
func NewStringArray(limit uint64) *StringArray {
	return &StringArray{limit: limit}
}

// StringArrayError is returned by Push.
type StringArrayError uint8

const (
	// ErrStringArrayTooLarge means the element count or cumulative size
	// would exceed the limit.
	ErrStringArrayTooLarge StringArrayError = iota + 1
	// ErrStringArrayNul means the string contains a NUL byte.
	ErrStringArrayNul
)

func (e StringArrayError) Error() string {
	switch e {
	case ErrStringArrayTooLarge:
		return "string array too large"
	case ErrStringArrayNul:
		return "string contains NUL"
	}
	return "string array error"
}

// Check reports whether s could be pushed without modifying the array.
func (a *StringArray) Check(s ...string) error {
	_, err := a.grow(s)
	return err
}

// Push appends s, leaving the array unchanged on error.
func (a *StringArray) Push(s ...string) error {
	size, err := a.grow(s)
	if err != nil {
		return err
	}
	a.elems = append(a.elems, s...)
	a.size = size
	return nil
}

func (a *StringArray) grow(s []string) (uint64, error) {
	limit := a.limit
	if limit == 0 {
		limit = DefaultStringArrayLimit
	}
	if uint64(len(a.elems))+uint64(len(s)) > limit {
		return 0, ErrStringArrayTooLarge
	}
	size := a.size
	for _, e := range s {
		if strings.IndexByte(e, 0) >= 0 {
			return 0, ErrStringArrayNul
		}
		size += uint64(len(e)) + 1
		if size > limit {
			return 0, ErrStringArrayTooLarge
		}
	}
	return size, nil
}

// Len returns the number of elements.
func (a *StringArray) Len() int { return len(a.elems) }

// Size returns the cumulative size including one NUL terminator per element.
func (a *StringArray) Size() uint64 { return a.size }

// Elems returns a copy of the elements in insertion order.
func (a *StringArray) Elems() []string {
	out := make([]string, len(a.elems))
	copy(out, a.elems)
	return out
}
