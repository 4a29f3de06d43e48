package component_test

import (
	"errors"
	"testing"

	"github.com/delaneyj/viewcore/component"
	"github.com/delaneyj/viewcore/dep"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func counterOptions(evaluations *int) *component.Options {
	return &component.Options{
		Data: dataOf(map[string]any{"count": 1}),
		Computed: map[string]component.ComputedDef{
			"double": {
				Get: func(vm *component.Instance) (any, error) {
					*evaluations++
					return vm.Get("count").(int) * 2, nil
				},
				Set: func(vm *component.Instance, v any) error {
					return vm.Set("count", v.(int)/2)
				},
			},
		},
	}
}

func TestComputedIsLazyAndCached(t *testing.T) {
	evaluations := 0
	vm, err := component.New(component.NewBase(nil), counterOptions(&evaluations))
	require.NoError(t, err)
	assert.Zero(t, evaluations)

	assert.Equal(t, 2, vm.Get("double"))
	assert.Equal(t, 2, vm.Get("double"))
	assert.Equal(t, 1, evaluations)

	require.NoError(t, vm.Set("count", 5))
	assert.Equal(t, 1, evaluations)
	assert.Equal(t, 10, vm.Get("double"))
	assert.Equal(t, 2, evaluations)
}

func TestComputedSetter(t *testing.T) {
	evaluations := 0
	vm, err := component.New(component.NewBase(nil), counterOptions(&evaluations))
	require.NoError(t, err)

	require.NoError(t, vm.Set("double", 8))
	assert.Equal(t, 4, vm.Get("count"))
	assert.Equal(t, 8, vm.Get("double"))
}

func TestComputedWithoutSetter(t *testing.T) {
	w := captureWarnings(t)
	vm, err := component.New(component.NewBase(nil), &component.Options{
		Computed: map[string]component.ComputedDef{
			"answer": {Get: func(*component.Instance) (any, error) { return 42, nil }},
		},
	})
	require.NoError(t, err)

	assert.Error(t, vm.Set("answer", 1))
	require.Len(t, w.msgs, 1)
	assert.Contains(t, w.msgs[0], "no setter")
	assert.Error(t, vm.Set("unknown", 1))
}

func TestComputedErrorIsReported(t *testing.T) {
	errs := captureErrors(t)
	boom := errors.New("boom")
	vm, err := component.New(component.NewBase(nil), &component.Options{
		Computed: map[string]component.ComputedDef{
			"broken": {Get: func(*component.Instance) (any, error) { return nil, boom }},
		},
	})
	require.NoError(t, err)

	assert.Nil(t, vm.Get("broken"))
	require.Len(t, *errs, 1)
	assert.ErrorIs(t, (*errs)[0].err, boom)
	assert.Equal(t, `computed "broken"`, (*errs)[0].info)
}

func TestWatchOption(t *testing.T) {
	type change struct{ newV, oldV any }
	var changes []change
	evaluations := 0
	opts := counterOptions(&evaluations)
	opts.Watch = map[string][]component.WatchHandler{
		"double": {{
			Handler: func(_ *component.Instance, newV, oldV any) error {
				changes = append(changes, change{newV, oldV})
				return nil
			},
		}},
	}

	vm, err := component.New(component.NewBase(nil), opts)
	require.NoError(t, err)
	assert.Empty(t, changes)

	require.NoError(t, vm.Set("count", 2))
	require.NoError(t, vm.Set("count", 2))
	require.NoError(t, vm.Set("count", 3))
	assert.Equal(t, []change{{4, 2}, {6, 4}}, changes)
}

func TestWatchImmediateAndUnwatch(t *testing.T) {
	var seen []any
	vm, err := component.New(component.NewBase(nil), &component.Options{
		Data: dataOf(map[string]any{"user": map[string]any{"name": "ann"}}),
	})
	require.NoError(t, err)

	unwatch := vm.Watch("user.name", component.WatchHandler{
		Immediate: true,
		Handler: func(_ *component.Instance, newV, _ any) error {
			seen = append(seen, newV)
			return nil
		},
	})
	assert.Equal(t, []any{"ann"}, seen)

	require.NoError(t, vm.Set("user", map[string]any{"name": "bob"}))
	assert.Equal(t, []any{"ann", "bob"}, seen)

	unwatch()
	require.NoError(t, vm.Set("user", map[string]any{"name": "cid"}))
	assert.Equal(t, []any{"ann", "bob"}, seen)
}

func TestWatchUsesScheduler(t *testing.T) {
	var queue []*dep.Watcher
	var seen []any
	vm, err := component.New(component.NewBase(nil), &component.Options{
		Data: dataOf(map[string]any{"n": 0}),
	}, component.WithScheduler(func(w *dep.Watcher) {
		queue = append(queue, w)
	}))
	require.NoError(t, err)

	record := func(_ *component.Instance, newV, _ any) error {
		seen = append(seen, newV)
		return nil
	}
	vm.Watch("n", component.WatchHandler{Handler: record})
	vm.Watch("n", component.WatchHandler{Handler: record, Sync: true})

	require.NoError(t, vm.Set("n", 1))
	assert.Equal(t, []any{1}, seen)
	require.Len(t, queue, 1)

	queue[0].Run()
	assert.Equal(t, []any{1, 1}, seen)
}

func TestWatchFuncHandlerError(t *testing.T) {
	errs := captureErrors(t)
	boom := errors.New("boom")
	vm, err := component.New(component.NewBase(nil), &component.Options{
		Data: dataOf(map[string]any{"n": 0}),
	})
	require.NoError(t, err)

	vm.WatchFunc("n doubled", func(vm *component.Instance) (any, error) {
		return vm.Get("n").(int) * 2, nil
	}, component.WatchHandler{Handler: func(*component.Instance, any, any) error {
		return boom
	}})

	require.NoError(t, vm.Set("n", 1))
	require.Len(t, *errs, 1)
	assert.ErrorIs(t, (*errs)[0].err, boom)
	assert.Equal(t, "callback for n doubled", (*errs)[0].info)
}

func TestCallMethod(t *testing.T) {
	vm, err := component.New(component.NewBase(nil), &component.Options{
		Data: dataOf(map[string]any{"greeting": "hello"}),
		Methods: map[string]component.Method{
			"greet": func(vm *component.Instance, args ...any) (any, error) {
				return vm.Get("greeting").(string) + " " + args[0].(string), nil
			},
		},
	})
	require.NoError(t, err)

	got, err := vm.Call("greet", "world")
	require.NoError(t, err)
	assert.Equal(t, "hello world", got)

	_, err = vm.Call("missing")
	assert.Error(t, err)
}

func TestGetWarnsOnUnknownKey(t *testing.T) {
	w := captureWarnings(t)
	vm, err := component.New(component.NewBase(nil), nil)
	require.NoError(t, err)

	assert.Nil(t, vm.Get("nope"))
	require.Len(t, w.msgs, 1)
	assert.Contains(t, w.msgs[0], `"nope"`)
}

func TestSetPropWarns(t *testing.T) {
	w := captureWarnings(t)
	vm, err := component.New(component.NewBase(nil), &component.Options{
		Props: map[string]component.PropOptions{"title": {}},
	})
	require.NoError(t, err)

	require.NoError(t, vm.Set("title", "changed"))
	assert.Equal(t, "changed", vm.Get("title"))
	require.Len(t, w.msgs, 1)
	assert.Contains(t, w.msgs[0], "avoid mutating prop")
}
