package memo

import "github.com/on-the-ground/memowise/shared/helper"

// Call is the typed form of Owner.GetOrCompute.
func Call[T any](o *Owner, method string, args Args, compute func() (T, error)) (T, error) {
	return helper.GetTypedValueOf[T](func() (any, error) {
		return o.GetOrCompute(method, args, func() (any, error) {
			return compute()
		})
	})
}

// Set is the typed form of Owner.Preset.
func Set[T any](o *Owner, method string, args Args, result T) error {
	return o.Preset(method, args, func() any { return result })
}
