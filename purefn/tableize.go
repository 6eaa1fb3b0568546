package purefn

import (
	"fmt"

	"github.com/on-the-ground/memowise/memo"
)

// callMethod is the name every table registers its function under.
const callMethod = "Call"

// table is the memo state shared by all Tableize variants. Each table owns a
// private registry, so tables never see each other's entries.
type table struct {
	owner *memo.Owner
}

func newTable(kind string, params []memo.Param, opts []memo.Option) table {
	reg := memo.NewRegistry(kind, opts...)
	reg.MustRegister(callMethod, params, memo.Public)
	return table{owner: reg.NewOwner()}
}

// lookup panics on usage errors. With a fixed arity the only one left is an
// argument that is neither comparable nor a fmt.Stringer.
func lookup[O any](t table, args memo.Args, pureFn func() O) O {
	v, err := memo.Call(t.owner, callMethod, args, func() (O, error) {
		return pureFn(), nil
	})
	if err != nil {
		panic(fmt.Sprintf("purefn: %v", err))
	}
	return v
}

func (t table) reset(args memo.Args) {
	if err := t.owner.Reset(callMethod, args); err != nil {
		panic(fmt.Sprintf("purefn: %v", err))
	}
}

func (t table) preset(args memo.Args, v any) {
	if err := t.owner.Preset(callMethod, args, func() any { return v }); err != nil {
		panic(fmt.Sprintf("purefn: %v", err))
	}
}

// Clear forgets every memoized result of the table.
func (t table) Clear() { t.owner.Clear() }

// Len returns the number of memoized results.
func (t table) Len() int { return t.owner.Len() }

// TableI1O1 memoizes a pure func(I1) O1.
type TableI1O1[I1, O1 any] struct {
	table
	pureFn func(I1) O1
}

// TableizeI1O1 wraps pureFn so each distinct argument is computed once.
func TableizeI1O1[I1, O1 any](pureFn func(I1) O1, opts ...memo.Option) *TableI1O1[I1, O1] {
	return &TableI1O1[I1, O1]{
		table:  newTable("TableizeI1O1", []memo.Param{memo.Req("i1")}, opts),
		pureFn: pureFn,
	}
}

func (t *TableI1O1[I1, O1]) Call(i1 I1) O1 {
	return lookup(t.table, memo.Pos(i1), func() O1 { return t.pureFn(i1) })
}

// Func returns Call as a plain function value.
func (t *TableI1O1[I1, O1]) Func() func(I1) O1 { return t.Call }

func (t *TableI1O1[I1, O1]) Reset(i1 I1)         { t.reset(memo.Pos(i1)) }
func (t *TableI1O1[I1, O1]) Preset(i1 I1, o1 O1) { t.preset(memo.Pos(i1), o1) }

// TableI2O1 memoizes a pure func(I1, I2) O1.
type TableI2O1[I1, I2, O1 any] struct {
	table
	pureFn func(I1, I2) O1
}

func TableizeI2O1[I1, I2, O1 any](pureFn func(I1, I2) O1, opts ...memo.Option) *TableI2O1[I1, I2, O1] {
	return &TableI2O1[I1, I2, O1]{
		table:  newTable("TableizeI2O1", []memo.Param{memo.Req("i1"), memo.Req("i2")}, opts),
		pureFn: pureFn,
	}
}

func (t *TableI2O1[I1, I2, O1]) Call(i1 I1, i2 I2) O1 {
	return lookup(t.table, memo.Pos(i1, i2), func() O1 { return t.pureFn(i1, i2) })
}

func (t *TableI2O1[I1, I2, O1]) Func() func(I1, I2) O1 { return t.Call }

func (t *TableI2O1[I1, I2, O1]) Reset(i1 I1, i2 I2)         { t.reset(memo.Pos(i1, i2)) }
func (t *TableI2O1[I1, I2, O1]) Preset(i1 I1, i2 I2, o1 O1) { t.preset(memo.Pos(i1, i2), o1) }

// TableI3O1 memoizes a pure func(I1, I2, I3) O1.
type TableI3O1[I1, I2, I3, O1 any] struct {
	table
	pureFn func(I1, I2, I3) O1
}

func TableizeI3O1[I1, I2, I3, O1 any](pureFn func(I1, I2, I3) O1, opts ...memo.Option) *TableI3O1[I1, I2, I3, O1] {
	return &TableI3O1[I1, I2, I3, O1]{
		table:  newTable("TableizeI3O1", []memo.Param{memo.Req("i1"), memo.Req("i2"), memo.Req("i3")}, opts),
		pureFn: pureFn,
	}
}

func (t *TableI3O1[I1, I2, I3, O1]) Call(i1 I1, i2 I2, i3 I3) O1 {
	return lookup(t.table, memo.Pos(i1, i2, i3), func() O1 { return t.pureFn(i1, i2, i3) })
}

func (t *TableI3O1[I1, I2, I3, O1]) Func() func(I1, I2, I3) O1 { return t.Call }

func (t *TableI3O1[I1, I2, I3, O1]) Reset(i1 I1, i2 I2, i3 I3) { t.reset(memo.Pos(i1, i2, i3)) }
func (t *TableI3O1[I1, I2, I3, O1]) Preset(i1 I1, i2 I2, i3 I3, o1 O1) {
	t.preset(memo.Pos(i1, i2, i3), o1)
}
