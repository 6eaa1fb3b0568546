// Package purefn provides typed memoization for pure functions.
//
// Tableize is not just a utility to add memoization.
// Tableize is a tool that *forces the developer to ask*:
//
//	→ "Is this function really pure?"
//	→ "Can this computation be treated as a lazy table?"
//
// Each TableizeIxOy call wraps a function of x arguments and y results in a
// table backed by its own memo.Owner. Arguments are keyed the way memo keys
// a method of the same arity: one argument is used directly, several are
// combined into a collision-checked hashed key.
//
// Features:
//   - TableizeI1O1 to TableizeI3O1, TableizeI1O2 and TableizeI2O2.
//   - Reset and Preset per argument tuple, Clear for the whole table.
//   - Non-comparable arguments are keyed by their String() when they
//     implement fmt.Stringer; anything else panics.
//
// Example:
//
//	var fib *purefn.TableI1O1[int, int]
//	fib = purefn.TableizeI1O1(func(n int) int {
//	    if n <= 1 {
//	        return n
//	    }
//	    return fib.Call(n-1) + fib.Call(n-2)
//	})
//
// WARNING: Do not use Tableize on impure functions (e.g., those depending on time, I/O, etc).
package purefn
