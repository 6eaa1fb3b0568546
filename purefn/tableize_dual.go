package purefn

import "github.com/on-the-ground/memowise/memo"

type result[O1 any, O2 any] struct {
	O1 O1
	O2 O2
}

// TableI1O2 memoizes a pure func(I1) (O1, O2).
type TableI1O2[I1, O1, O2 any] struct {
	table
	pureFn func(I1) (O1, O2)
}

func TableizeI1O2[I1, O1, O2 any](pureFn func(I1) (O1, O2), opts ...memo.Option) *TableI1O2[I1, O1, O2] {
	return &TableI1O2[I1, O1, O2]{
		table:  newTable("TableizeI1O2", []memo.Param{memo.Req("i1")}, opts),
		pureFn: pureFn,
	}
}

func (t *TableI1O2[I1, O1, O2]) Call(i1 I1) (O1, O2) {
	res := lookup(t.table, memo.Pos(i1), func() result[O1, O2] {
		v1, v2 := t.pureFn(i1)
		return result[O1, O2]{O1: v1, O2: v2}
	})
	return res.O1, res.O2
}

func (t *TableI1O2[I1, O1, O2]) Func() func(I1) (O1, O2) { return t.Call }

func (t *TableI1O2[I1, O1, O2]) Reset(i1 I1) { t.reset(memo.Pos(i1)) }
func (t *TableI1O2[I1, O1, O2]) Preset(i1 I1, o1 O1, o2 O2) {
	t.preset(memo.Pos(i1), result[O1, O2]{O1: o1, O2: o2})
}

// TableI2O2 memoizes a pure func(I1, I2) (O1, O2).
type TableI2O2[I1, I2, O1, O2 any] struct {
	table
	pureFn func(I1, I2) (O1, O2)
}

func TableizeI2O2[I1, I2, O1, O2 any](pureFn func(I1, I2) (O1, O2), opts ...memo.Option) *TableI2O2[I1, I2, O1, O2] {
	return &TableI2O2[I1, I2, O1, O2]{
		table:  newTable("TableizeI2O2", []memo.Param{memo.Req("i1"), memo.Req("i2")}, opts),
		pureFn: pureFn,
	}
}

func (t *TableI2O2[I1, I2, O1, O2]) Call(i1 I1, i2 I2) (O1, O2) {
	res := lookup(t.table, memo.Pos(i1, i2), func() result[O1, O2] {
		v1, v2 := t.pureFn(i1, i2)
		return result[O1, O2]{O1: v1, O2: v2}
	})
	return res.O1, res.O2
}

func (t *TableI2O2[I1, I2, O1, O2]) Func() func(I1, I2) (O1, O2) { return t.Call }

func (t *TableI2O2[I1, I2, O1, O2]) Reset(i1 I1, i2 I2) { t.reset(memo.Pos(i1, i2)) }
func (t *TableI2O2[I1, I2, O1, O2]) Preset(i1 I1, i2 I2, o1 O1, o2 O2) {
	t.preset(memo.Pos(i1, i2), result[O1, O2]{O1: o1, O2: o2})
}
