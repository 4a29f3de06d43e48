package component_test

import (
	"errors"
	"testing"

	"github.com/delaneyj/viewcore/component"
	"github.com/delaneyj/viewcore/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func failingCreated(err error) *component.Options {
	return &component.Options{
		Name: "faulty",
		Hooks: hooks(component.Created, component.NewCallback(func(*component.Instance) error {
			return err
		})),
	}
}

func TestErrorCapturedStopsPropagation(t *testing.T) {
	errs := captureErrors(t)
	boom := errors.New("boom")

	var captured []string
	parent := newRoot(t, &component.Options{
		ErrorCaptured: []*component.ErrorCapture{{
			Fn: func(err error, vm *component.Instance, info string) bool {
				captured = append(captured, vm.Name()+" "+info)
				return false
			},
		}},
	})

	opts := failingCreated(boom)
	opts.Parent = parent
	_, err := component.New(component.NewBase(nil), opts)
	require.NoError(t, err)

	assert.Equal(t, []string{"<Faulty> created hook"}, captured)
	assert.Empty(t, *errs)
}

func TestErrorCapturedPropagatesToGlobalHandler(t *testing.T) {
	errs := captureErrors(t)
	boom := errors.New("boom")

	calls := 0
	root := newRoot(t, &component.Options{
		ErrorCaptured: []*component.ErrorCapture{{
			Fn: func(error, *component.Instance, string) bool {
				calls++
				return true
			},
		}},
	})
	middle, err := component.New(component.NewBase(nil), &component.Options{
		Parent: root,
		ErrorCaptured: []*component.ErrorCapture{{
			Fn: func(error, *component.Instance, string) bool {
				calls++
				return true
			},
		}},
	})
	require.NoError(t, err)

	opts := failingCreated(boom)
	opts.Parent = middle
	child, err := component.New(component.NewBase(nil), opts)
	require.NoError(t, err)

	assert.Equal(t, 2, calls)
	require.Len(t, *errs, 1)
	assert.Same(t, child, (*errs)[0].vm)

	var cerr *component.Error
	require.ErrorAs(t, (*errs)[0].err, &cerr)
	assert.Equal(t, "<Faulty>", cerr.Component)
	assert.Equal(t, "created hook", cerr.Info)
	assert.ErrorIs(t, cerr, boom)
}

func TestPanicsBecomeErrors(t *testing.T) {
	errs := captureErrors(t)
	_, err := component.New(component.NewBase(nil), &component.Options{
		Hooks: hooks(component.BeforeCreate, component.NewCallback(func(*component.Instance) error {
			panic("kaboom")
		})),
	})
	require.NoError(t, err)

	require.Len(t, *errs, 1)
	var perr *component.PanicError
	require.ErrorAs(t, (*errs)[0].err, &perr)
	assert.Equal(t, "kaboom", perr.Value)
	assert.NotEmpty(t, perr.StackTrace)
}

func TestWarnIsSilentInProduction(t *testing.T) {
	w := captureWarnings(t)
	component.Warn("visible", nil)
	require.Len(t, w.msgs, 1)

	cfg := config.Shared()
	cfg.Production = true
	component.Warn("hidden", nil)
	assert.Len(t, w.msgs, 1)
}
