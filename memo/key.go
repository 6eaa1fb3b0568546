package memo

import (
	"fmt"
	"maps"
	"math"
	"reflect"
	"slices"
)

// Args are the arguments of one call of a memoized method.
type Args struct {
	Positional []any
	Keyword    map[string]any
}

// Pos builds Args from positional values.
func Pos(vals ...any) Args {
	return Args{Positional: vals}
}

// Kw builds Args from a keyword mapping.
func Kw(kw map[string]any) Args {
	return Args{Keyword: kw}
}

// With returns a copy of a with one more keyword argument.
func (a Args) With(name string, val any) Args {
	kw := make(map[string]any, len(a.Keyword)+1)
	maps.Copy(kw, a.Keyword)
	kw[name] = val
	return Args{Positional: a.Positional, Keyword: kw}
}

// Empty reports whether a carries no arguments at all.
func (a Args) Empty() bool {
	return len(a.Positional) == 0 && len(a.Keyword) == 0
}

func (a Args) clone() Args {
	return Args{Positional: slices.Clone(a.Positional), Keyword: maps.Clone(a.Keyword)}
}

// key is an encoded cache key. Which fields are meaningful depends on the
// method's shape: single-argument shapes use scalar, hashed shapes use hash
// and components, and None uses neither.
type key struct {
	scalar     any
	hash       uint64
	components []any
}

// stringerKey stands in for a non-comparable argument that implements
// fmt.Stringer. The type is part of the key so that a Stringer never equals a
// plain string with the same text.
type stringerKey struct {
	typ reflect.Type
	s   string
}

// nanKey stands in for a NaN argument, which would otherwise never equal
// itself and so never hit.
type nanKey struct {
	kind reflect.Kind
}

// tableKey normalizes one argument into a value usable with ==.
func tableKey(v any) (any, error) {
	switch f := v.(type) {
	case float64:
		if math.IsNaN(f) {
			return nanKey{kind: reflect.Float64}, nil
		}
		return v, nil
	case float32:
		if f != f {
			return nanKey{kind: reflect.Float32}, nil
		}
		return v, nil
	case nil, string, bool, int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64:
		return v, nil
	}
	if reflect.ValueOf(v).Comparable() {
		return v, nil
	}
	if s, ok := v.(fmt.Stringer); ok {
		return stringerKey{typ: reflect.TypeOf(v), s: s.String()}, nil
	}
	return nil, fmt.Errorf("%w: %T", ErrUnhashableArgument, v)
}

// encode derives the cache key of one call. args must already be bound to d.
func encode(d *Descriptor, args Args, hasher Hasher) (key, error) {
	switch d.shape {
	case None:
		return key{scalar: d.name}, nil
	case OnePositional:
		k, err := tableKey(args.Positional[0])
		return key{scalar: k}, err
	case OneKeyword:
		k, err := tableKey(args.Keyword[d.params[0].Name])
		return key{scalar: k}, err
	}

	components, err := d.components(args)
	if err != nil {
		return key{}, err
	}
	return key{hash: hasher(d.name, components), components: components}, nil
}

// components flattens the arguments of a hashed-shape call into an ordered
// list of normalized values.
func (d *Descriptor) components(args Args) ([]any, error) {
	var raw []any
	switch d.shape {
	case MultipleRequired:
		raw = make([]any, 0, len(d.params))
		next := 0
		for _, p := range d.params {
			if p.Kind == Required {
				raw = append(raw, args.Positional[next])
				next++
			} else {
				raw = append(raw, args.Keyword[p.Name])
			}
		}
	case Splat:
		raw = args.Positional
	case DoubleSplat:
		raw = keywordPairs(args.Keyword, nil)
	default:
		// the positional count separates Pos("a", 1) from Kw({"a": 1})
		raw = make([]any, 0, 1+len(args.Positional)+2*len(args.Keyword))
		raw = append(raw, len(args.Positional))
		raw = append(raw, args.Positional...)
		raw = keywordPairs(args.Keyword, raw)
	}

	out := make([]any, len(raw))
	for i, v := range raw {
		k, err := tableKey(v)
		if err != nil {
			return nil, err
		}
		out[i] = k
	}
	return out, nil
}

// keywordPairs appends name, value pairs to dst in name order.
func keywordPairs(kw map[string]any, dst []any) []any {
	names := slices.Sorted(maps.Keys(kw))
	for _, name := range names {
		dst = append(dst, name, kw[name])
	}
	return dst
}

// storable reports whether k equals itself. A NaN nested in a struct, array
// or complex number makes a key that no later lookup can match, so such
// results are returned but never cached.
func (k key) storable() bool {
	if k.components == nil {
		return k.scalar == k.scalar
	}
	for _, c := range k.components {
		if c != c {
			return false
		}
	}
	return true
}

func sameComponents(a, b []any) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
