// Package memo memoizes methods per call signature.
//
// A method is registered once on a Registry for its owner type. Registration
// classifies the parameter list into a Shape, and every later call dispatches
// on that tag alone:
//
//	None                  no arguments         one slot per method
//	OnePositional         f(a)                 map keyed by a
//	OneKeyword            f(a:)                map keyed by a
//	MultipleRequired      f(a, b:)             hashed table
//	Splat                 f(a, b = 1, *rest)   hashed table
//	DoubleSplat           f(a: 1, **opts)      hashed table
//	SplatAndDoubleSplat   f(*rest, **opts)     hashed table
//
// The hashed table is shared by all multi-argument methods of an owner. An
// xxhash of the method name and arguments picks a bucket, and a hit is only
// reported after comparing every argument, so hash collisions never return a
// wrong result.
//
// Each owner instance gets its own cache state from Registry.NewOwner:
//
//	type UserDirectory struct {
//	    memo *memo.Owner
//	}
//
//	func (d *UserDirectory) ByID(id string) (*User, error) {
//	    return memo.Call(d.memo, "ByID", memo.Pos(id), func() (*User, error) {
//	        return d.load(id)
//	    })
//	}
//
// Reset, Preset and ResetAll invalidate or seed entries using the same key
// derivation as lookups. Misuse (unknown methods, arguments that do not fit
// the parameters, a preset without a result) is reported as an error wrapping
// ErrUsage.
//
// The cache is not a single-flight coordinator: concurrent first calls may
// each compute, and the first stored result becomes the memoized one.
package memo
