package memo

import (
	"encoding/binary"
	"math"
	"reflect"

	"github.com/cespare/xxhash/v2"
)

// Hasher maps a method name and its normalized argument components to a
// bucket index in the owner's hashed table.
type Hasher func(method string, components []any) uint64

// type tags keep 1 and "1" apart in the hash input
const (
	tagNil byte = iota
	tagString
	tagInt
	tagUint
	tagFloat
	tagComplex
	tagBool
	tagPointer
	tagStringer
	tagNaN
	tagOther
)

// hashComponents hashes each component by the same identity == compares:
// addresses for pointers and channels, field by field for structs and
// arrays. Two == components always land in the same bucket.
func hashComponents(method string, components []any) uint64 {
	h := hasher{d: xxhash.New()}
	_, _ = h.d.WriteString(method)
	for _, c := range components {
		h.component(c)
	}
	return h.d.Sum64()
}

type hasher struct {
	d   *xxhash.Digest
	buf [9]byte
}

func (h *hasher) word(tag byte, w uint64) {
	h.buf[0] = tag
	binary.LittleEndian.PutUint64(h.buf[1:], w)
	_, _ = h.d.Write(h.buf[:])
}

func (h *hasher) str(tag byte, s string) {
	h.word(tag, uint64(len(s)))
	_, _ = h.d.WriteString(s)
}

func (h *hasher) float(f float64) {
	if f == 0 {
		f = 0 // -0 == 0
	}
	h.word(tagFloat, math.Float64bits(f))
}

func (h *hasher) component(c any) {
	switch v := c.(type) {
	case nil:
		h.word(tagNil, 0)
	case string:
		h.str(tagString, v)
	case int:
		h.word(tagInt, uint64(v))
	case int64:
		h.word(tagInt, uint64(v))
	case int32:
		h.word(tagInt, uint64(v))
	case uint:
		h.word(tagUint, uint64(v))
	case uint64:
		h.word(tagUint, v)
	case float64:
		h.float(v)
	case stringerKey:
		h.str(tagStringer, v.s)
	case nanKey:
		h.word(tagNaN, uint64(v.kind))
	default:
		h.value(reflect.ValueOf(v))
	}
}

func (h *hasher) value(rv reflect.Value) {
	switch rv.Kind() {
	case reflect.Invalid:
		h.word(tagNil, 0)
	case reflect.String:
		h.str(tagString, rv.String())
	case reflect.Bool:
		var b uint64
		if rv.Bool() {
			b = 1
		}
		h.word(tagBool, b)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		h.word(tagInt, uint64(rv.Int()))
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		h.word(tagUint, rv.Uint())
	case reflect.Float32, reflect.Float64:
		h.float(rv.Float())
	case reflect.Complex64, reflect.Complex128:
		c := rv.Complex()
		h.word(tagComplex, 0)
		h.float(real(c))
		h.float(imag(c))
	case reflect.Pointer, reflect.Chan, reflect.UnsafePointer:
		h.word(tagPointer, uint64(rv.Pointer()))
	case reflect.Interface:
		if rv.IsNil() {
			h.word(tagNil, 0)
			return
		}
		h.value(rv.Elem())
	case reflect.Array:
		for i := range rv.Len() {
			h.value(rv.Index(i))
		}
	case reflect.Struct:
		for i := range rv.NumField() {
			h.value(rv.Field(i))
		}
	default:
		// not comparable, so it never reaches a bucket lookup by ==
		h.word(tagOther, 0)
	}
}
