package helper

import (
	"fmt"
)

// TypedValue converts a value read back from an untyped cache to T.
// A nil value is T's zero value, so memoized nil results survive the trip.
func TypedValue[T any](raw any) (T, error) {
	var zero T
	if raw == nil {
		return zero, nil
	}
	val, ok := raw.(T)
	if !ok {
		return zero, fmt.Errorf("unexpected type: %T, want %T", raw, zero)
	}
	return val, nil
}

// GetTypedValueOf runs getFn and converts its result to T.
// Returns an error if getFn fails or the type assertion fails.
func GetTypedValueOf[T any](getFn func() (any, error)) (T, error) {
	var zero T

	res, err := getFn()
	if err != nil {
		return zero, err
	}
	return TypedValue[T](res)
}

// MustGetTypedValue is the panic-on-failure variant of GetTypedValueOf.
// Use when the value is known to have been stored as T.
func MustGetTypedValue[T any](getFn func() (any, error)) T {
	res, err := GetTypedValueOf[T](getFn)
	if err != nil {
		panic(err)
	}
	return res
}
