package memo_test

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/on-the-ground/memowise/memo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// calculator registers one method per shape.
func calculator(t *testing.T, opts ...memo.Option) *memo.Registry {
	t.Helper()
	reg := memo.NewRegistry("Calculator", opts...)
	methods := map[string][]memo.Param{
		"Zero":      nil,
		"Double":    {memo.Req("n")},
		"Triple":    {memo.KeyReq("n")},
		"Add":       {memo.Req("a"), memo.Req("b")},
		"Scale":     {memo.Req("n"), memo.KeyReq("by")},
		"Sum":       {memo.RestOf("ns")},
		"Describe":  {memo.KeyOpt("unit"), memo.KeyRestOf("opts")},
		"Format":    {memo.RestOf("ns"), memo.KeyRestOf("opts")},
		"IsEven":    {memo.Req("n")},
		"Nothing":   nil,
		"Fallible":  {memo.Req("n")},
		"Panicking": nil,
	}
	for name, params := range methods {
		_, err := reg.Register(name, params, memo.Public)
		require.NoError(t, err)
	}
	return reg
}

type counter struct {
	n atomic.Int64
}

func (c *counter) fn(v any) func() (any, error) {
	return func() (any, error) {
		c.n.Add(1)
		return v, nil
	}
}

func (c *counter) count() int64 { return c.n.Load() }

func TestGetOrCompute_Idempotent(t *testing.T) {
	owner := calculator(t).NewOwner()
	var c counter

	for range 5 {
		v, err := owner.GetOrCompute("Double", memo.Pos(21), c.fn(42))
		require.NoError(t, err)
		assert.Equal(t, 42, v)
	}
	assert.EqualValues(t, 1, c.count())
}

func TestGetOrCompute_EveryShape(t *testing.T) {
	owner := calculator(t).NewOwner()

	calls := []struct {
		method string
		same   memo.Args
		other  memo.Args
	}{
		{"Zero", memo.Args{}, memo.Args{}},
		{"Double", memo.Pos(1), memo.Pos(2)},
		{"Triple", memo.Kw(map[string]any{"n": 1}), memo.Kw(map[string]any{"n": 2})},
		{"Add", memo.Pos(1, 2), memo.Pos(1, 3)},
		{"Scale", memo.Pos(2).With("by", 3), memo.Pos(2).With("by", 4)},
		{"Sum", memo.Pos(1, 2, 3), memo.Pos(3, 2, 1)},
		{"Describe", memo.Kw(map[string]any{"unit": "m", "round": true}), memo.Kw(map[string]any{"unit": "cm"})},
		{"Format", memo.Pos(1).With("sep", ","), memo.Pos(1, ",")},
	}
	for _, call := range calls {
		t.Run(call.method, func(t *testing.T) {
			var c counter
			for range 4 {
				v, err := owner.GetOrCompute(call.method, call.same, c.fn(call.method))
				require.NoError(t, err)
				assert.Equal(t, call.method, v)
			}
			assert.EqualValues(t, 1, c.count())

			if call.method == "Zero" {
				return
			}
			for range 4 {
				_, err := owner.GetOrCompute(call.method, call.other, c.fn("other"))
				require.NoError(t, err)
			}
			assert.EqualValues(t, 2, c.count())
		})
	}
}

func TestGetOrCompute_KeywordOrderDoesNotMatter(t *testing.T) {
	owner := calculator(t).NewOwner()
	var c counter

	a := memo.Kw(map[string]any{"unit": "m"}).With("round", true).With("digits", 2)
	b := memo.Kw(map[string]any{"digits": 2, "round": true, "unit": "m"})
	_, err := owner.GetOrCompute("Describe", a, c.fn("x"))
	require.NoError(t, err)
	_, err = owner.GetOrCompute("Describe", b, c.fn("x"))
	require.NoError(t, err)
	assert.EqualValues(t, 1, c.count())
}

func TestGetOrCompute_FalsyValuesAreMemoized(t *testing.T) {
	owner := calculator(t).NewOwner()

	for _, v := range []any{false, nil, 0, "", []int(nil)} {
		t.Run(fmt.Sprintf("%#v", v), func(t *testing.T) {
			require.NoError(t, owner.Reset("", memo.Args{}))
			var even, nothing counter
			for range 4 {
				got, err := owner.GetOrCompute("IsEven", memo.Pos(3), even.fn(v))
				require.NoError(t, err)
				assert.Equal(t, v, got)

				got, err = owner.GetOrCompute("Nothing", memo.Args{}, nothing.fn(v))
				require.NoError(t, err)
				assert.Equal(t, v, got)
			}
			assert.EqualValues(t, 1, even.count())
			assert.EqualValues(t, 1, nothing.count())
		})
	}
}

func TestGetOrCompute_OwnersAreIsolated(t *testing.T) {
	reg := calculator(t)
	first, second := reg.NewOwner(), reg.NewOwner()
	var c counter

	_, err := first.GetOrCompute("Add", memo.Pos(1, 2), c.fn(3))
	require.NoError(t, err)
	_, ok, err := second.Peek("Add", memo.Pos(1, 2))
	require.NoError(t, err)
	assert.False(t, ok)

	v, err := second.GetOrCompute("Add", memo.Pos(1, 2), c.fn(30))
	require.NoError(t, err)
	assert.Equal(t, 30, v)
	assert.EqualValues(t, 2, c.count())

	require.NoError(t, first.ResetAll())
	v, ok, err = second.Peek("Add", memo.Pos(1, 2))
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 30, v)
	assert.NotEqual(t, first.ID(), second.ID())
}

func TestGetOrCompute_ErrorIsNotCached(t *testing.T) {
	owner := calculator(t).NewOwner()
	boom := errors.New("boom")
	calls := 0

	_, err := owner.GetOrCompute("Fallible", memo.Pos(1), func() (any, error) {
		calls++
		return nil, boom
	})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 0, owner.Len())

	v, err := owner.GetOrCompute("Fallible", memo.Pos(1), func() (any, error) {
		calls++
		return "ok", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "ok", v)
	assert.Equal(t, 2, calls)
}

func TestGetOrCompute_PanicIsNotCached(t *testing.T) {
	owner := calculator(t).NewOwner()

	assert.PanicsWithValue(t, "kaboom", func() {
		_, _ = owner.GetOrCompute("Panicking", memo.Args{}, func() (any, error) {
			panic("kaboom")
		})
	})
	_, ok, err := owner.Peek("Panicking", memo.Args{})
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestGetOrCompute_ArgumentMismatch(t *testing.T) {
	owner := calculator(t).NewOwner()
	never := func() (any, error) {
		t.Fatal("compute must not run")
		return nil, nil
	}

	bad := []struct {
		method string
		args   memo.Args
	}{
		{"Zero", memo.Pos(1)},
		{"Double", memo.Args{}},
		{"Double", memo.Pos(1, 2)},
		{"Add", memo.Pos(1)},
		{"Triple", memo.Kw(map[string]any{"m": 1})},
		{"Scale", memo.Pos(1)},
		{"Sum", memo.Kw(map[string]any{"x": 1})},
		{"Describe", memo.Pos(1)},
	}
	for _, b := range bad {
		_, err := owner.GetOrCompute(b.method, b.args, never)
		assert.ErrorIs(t, err, memo.ErrArgumentMismatch, b.method)
		assert.ErrorIs(t, err, memo.ErrUsage, b.method)
	}
}

func TestGetOrCompute_NonComparableArguments(t *testing.T) {
	owner := calculator(t).NewOwner()
	var c counter

	_, err := owner.GetOrCompute("Double", memo.Pos([]int{1}), c.fn(1))
	assert.ErrorIs(t, err, memo.ErrUnhashableArgument)

	_, err = owner.GetOrCompute("Sum", memo.Pos(point{1, 2}, 3), c.fn(6))
	require.NoError(t, err)
	_, err = owner.GetOrCompute("Sum", memo.Pos(point{1, 2}, 3), c.fn(6))
	require.NoError(t, err)
	_, err = owner.GetOrCompute("Sum", memo.Pos(point{2, 1}, 3), c.fn(6))
	require.NoError(t, err)
	assert.EqualValues(t, 2, c.count())

	// a Stringer never aliases the plain string it prints as
	_, err = owner.GetOrCompute("Double", memo.Pos(point{1, 2}), c.fn("point"))
	require.NoError(t, err)
	v, err := owner.GetOrCompute("Double", memo.Pos("(1, 2)"), c.fn("string"))
	require.NoError(t, err)
	assert.Equal(t, "string", v)
}

type point []int

func (p point) String() string { return fmt.Sprintf("(%d, %d)", p[0], p[1]) }

func TestScenario_ResetOneEntryOfTwoArgumentMethod(t *testing.T) {
	owner := calculator(t).NewOwner()
	var c counter
	f := func(a, b int) any {
		v, err := owner.GetOrCompute("Add", memo.Pos(a, b), func() (any, error) {
			c.n.Add(1)
			return a + b, nil
		})
		require.NoError(t, err)
		return v
	}

	for range 4 {
		f(1, 2)
	}
	for range 4 {
		f(1, 3)
	}
	assert.EqualValues(t, 2, c.count())

	require.NoError(t, owner.Reset("Add", memo.Pos(1, 2)))
	assert.Equal(t, 3, f(1, 2))
	assert.EqualValues(t, 3, c.count())
	assert.Equal(t, 4, f(1, 3))
	assert.EqualValues(t, 3, c.count())
}

func TestReset_SingleEntryEveryShape(t *testing.T) {
	owner := calculator(t).NewOwner()
	cases := []struct {
		method      string
		first, next memo.Args
	}{
		{"Double", memo.Pos(1), memo.Pos(2)},
		{"Triple", memo.Kw(map[string]any{"n": 1}), memo.Kw(map[string]any{"n": 2})},
		{"Scale", memo.Pos(1).With("by", 2), memo.Pos(1).With("by", 3)},
		{"Sum", memo.Pos(1, 2), memo.Pos(1)},
		{"Describe", memo.Kw(map[string]any{"unit": "m"}), memo.Kw(map[string]any{"unit": "cm"})},
		{"Format", memo.Pos(1).With("sep", ","), memo.Pos(1)},
	}
	for _, tc := range cases {
		t.Run(tc.method, func(t *testing.T) {
			var c counter
			call := func(args memo.Args) {
				_, err := owner.GetOrCompute(tc.method, args, c.fn(true))
				require.NoError(t, err)
			}
			call(tc.first)
			call(tc.next)
			require.NoError(t, owner.Reset(tc.method, tc.first))
			call(tc.first)
			call(tc.next)
			assert.EqualValues(t, 3, c.count())
		})
	}
}

func TestReset_UnknownEntryIsNoop(t *testing.T) {
	owner := calculator(t).NewOwner()
	assert.NoError(t, owner.Reset("Add", memo.Pos(9, 9)))
	assert.NoError(t, owner.Reset("Double", memo.Pos(9)))
}

func TestReset_WholeMethod(t *testing.T) {
	owner := calculator(t).NewOwner()
	var add, sum, double counter

	for i := range 3 {
		_, err := owner.GetOrCompute("Add", memo.Pos(i, i), add.fn(i))
		require.NoError(t, err)
		_, err = owner.GetOrCompute("Sum", memo.Pos(i, i), sum.fn(i))
		require.NoError(t, err)
		_, err = owner.GetOrCompute("Double", memo.Pos(i), double.fn(i))
		require.NoError(t, err)
	}
	assert.Equal(t, 9, owner.Len())

	require.NoError(t, owner.Reset("Add", memo.Args{}))
	require.NoError(t, owner.Reset("Double", memo.Args{}))
	assert.Equal(t, 3, owner.Len())

	for i := range 3 {
		_, err := owner.GetOrCompute("Add", memo.Pos(i, i), add.fn(i))
		require.NoError(t, err)
		_, err = owner.GetOrCompute("Sum", memo.Pos(i, i), sum.fn(i))
		require.NoError(t, err)
		_, err = owner.GetOrCompute("Double", memo.Pos(i), double.fn(i))
		require.NoError(t, err)
	}
	assert.EqualValues(t, 6, add.count())
	assert.EqualValues(t, 3, sum.count())
	assert.EqualValues(t, 6, double.count())
}

func TestReset_AllMethods(t *testing.T) {
	owner := calculator(t).NewOwner()
	var c counter

	_, err := owner.GetOrCompute("Zero", memo.Args{}, c.fn(0))
	require.NoError(t, err)
	_, err = owner.GetOrCompute("Double", memo.Pos(2), c.fn(4))
	require.NoError(t, err)
	_, err = owner.GetOrCompute("Format", memo.Pos(1).With("sep", ","), c.fn("1"))
	require.NoError(t, err)

	require.NoError(t, owner.Reset("", memo.Args{}))
	assert.Equal(t, 0, owner.Len())

	_, err = owner.GetOrCompute("Zero", memo.Args{}, c.fn(0))
	require.NoError(t, err)
	_, err = owner.GetOrCompute("Double", memo.Pos(2), c.fn(4))
	require.NoError(t, err)
	assert.EqualValues(t, 5, c.count())

	owner.Clear()
	assert.Equal(t, 0, owner.Len())
}

func TestReset_UsageErrors(t *testing.T) {
	owner := calculator(t).NewOwner()

	assert.ErrorIs(t, owner.Reset("Missing", memo.Args{}), memo.ErrUnregisteredMethod)
	assert.ErrorIs(t, owner.Reset("Missing", memo.Pos(1)), memo.ErrUnregisteredMethod)
	assert.ErrorIs(t, owner.Reset("", memo.Pos(1)), memo.ErrArgsWithoutMethod)
	assert.ErrorIs(t, owner.Reset("not valid", memo.Args{}), memo.ErrInvalidMethodName)
	assert.ErrorIs(t, owner.Reset("Add", memo.Pos(1)), memo.ErrArgumentMismatch)
}

func TestPreset_SkipsComputation(t *testing.T) {
	owner := calculator(t).NewOwner()
	var c counter

	require.NoError(t, owner.Preset("Add", memo.Pos(1, 2), func() any { return 99 }))
	v, err := owner.GetOrCompute("Add", memo.Pos(1, 2), c.fn(3))
	require.NoError(t, err)
	assert.Equal(t, 99, v)
	assert.EqualValues(t, 0, c.count())

	_, err = owner.GetOrCompute("Double", memo.Pos(1), c.fn(2))
	require.NoError(t, err)
	require.NoError(t, memo.Set(owner, "Double", memo.Pos(1), 7))
	v, err = owner.GetOrCompute("Double", memo.Pos(1), c.fn(2))
	require.NoError(t, err)
	assert.Equal(t, 7, v)
	assert.EqualValues(t, 1, c.count())

	require.NoError(t, memo.Set(owner, "Nothing", memo.Args{}, false))
	v, err = owner.GetOrCompute("Nothing", memo.Args{}, c.fn(true))
	require.NoError(t, err)
	assert.Equal(t, false, v)
	assert.EqualValues(t, 1, c.count())
}

func TestPreset_UsageErrors(t *testing.T) {
	owner := calculator(t).NewOwner()

	assert.ErrorIs(t, owner.Preset("Add", memo.Pos(1, 2), nil), memo.ErrMissingResult)
	assert.ErrorIs(t, owner.Preset("Missing", memo.Pos(1), func() any { return 1 }), memo.ErrUnregisteredMethod)
	assert.ErrorIs(t, owner.Preset("9lives", memo.Pos(1), func() any { return 1 }), memo.ErrInvalidMethodName)
	assert.Equal(t, 0, owner.Len())
}

func TestDetachedOwner(t *testing.T) {
	var owner memo.Owner

	_, err := owner.GetOrCompute("Add", memo.Pos(1, 2), func() (any, error) { return 3, nil })
	assert.ErrorIs(t, err, memo.ErrDetachedOwner)
	assert.ErrorIs(t, owner.Reset("Add", memo.Args{}), memo.ErrDetachedOwner)
	assert.ErrorIs(t, owner.Reset("", memo.Args{}), memo.ErrDetachedOwner)
	assert.ErrorIs(t, owner.Preset("Add", memo.Pos(1, 2), func() any { return 3 }), memo.ErrDetachedOwner)
	assert.NotPanics(t, owner.Clear)
	assert.Equal(t, 0, owner.Len())
}

func TestCall_Typed(t *testing.T) {
	owner := calculator(t).NewOwner()
	calls := 0
	double := func(n int) (int, error) {
		return memo.Call(owner, "Double", memo.Pos(n), func() (int, error) {
			calls++
			return n * 2, nil
		})
	}

	v, err := double(4)
	require.NoError(t, err)
	assert.Equal(t, 8, v)
	v, err = double(4)
	require.NoError(t, err)
	assert.Equal(t, 8, v)
	assert.Equal(t, 1, calls)

	require.NoError(t, memo.Set(owner, "Double", memo.Pos(5), "ten"))
	_, err = double(5)
	assert.Error(t, err)
}

func TestGetOrCompute_ConcurrentFirstWriteWins(t *testing.T) {
	reg := calculator(t)
	for _, method := range []string{"Zero", "Double", "Add"} {
		t.Run(method, func(t *testing.T) {
			owner := reg.NewOwner()
			args := map[string]memo.Args{
				"Zero":   {},
				"Double": memo.Pos(1),
				"Add":    memo.Pos(1, 2),
			}[method]

			const workers = 32
			var (
				wg      sync.WaitGroup
				start   = make(chan struct{})
				results = make([]any, workers)
				seq     atomic.Int64
			)
			for i := range workers {
				wg.Add(1)
				go func() {
					defer wg.Done()
					<-start
					v, err := owner.GetOrCompute(method, args, func() (any, error) {
						return seq.Add(1), nil
					})
					assert.NoError(t, err)
					results[i] = v
				}()
			}
			close(start)
			wg.Wait()

			stored, ok, err := owner.Peek(method, args)
			require.NoError(t, err)
			require.True(t, ok)
			for _, r := range results {
				assert.Equal(t, stored, r)
			}
		})
	}
}
