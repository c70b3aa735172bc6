package utils

import "strings"

func Ptr[T any](v T) *T {
	return &v
}

// OrZero dereferences v, giving the zero value for nil.
func OrZero[T any](v *T) T {
	if v == nil {
		var zero T
		return zero
	}
	return *v
}

// NilIfZero is the inverse of OrZero.
func NilIfZero[T comparable](v T) *T {
	var zero T
	if v == zero {
		return nil
	}
	return &v
}

// StringOrNil trims s and returns nil when nothing is left. Optional
// person fields are stored as NULL this way.
func StringOrNil(s string) *string {
	return NilIfZero(strings.TrimSpace(s))
}
