package component_test

import (
	"testing"

	"github.com/delaneyj/viewcore/component"
	"github.com/delaneyj/viewcore/config"
)

func hooks(h component.Hook, cbs ...*component.Callback) component.Hooks {
	var hs component.Hooks
	hs[h] = cbs
	return hs
}

func noop() *component.Callback {
	return component.NewCallback(func(*component.Instance) error { return nil })
}

type warnings struct {
	msgs []string
}

// captureWarnings routes warnings into the returned recorder for the
// duration of the test.
func captureWarnings(t *testing.T) *warnings {
	t.Helper()
	cfg := config.Shared()
	prevHandler, prevProd := cfg.WarnHandler, cfg.Production
	w := &warnings{}
	cfg.Production = false
	cfg.WarnHandler = func(msg string, _ any, _ string) {
		w.msgs = append(w.msgs, msg)
	}
	t.Cleanup(func() {
		cfg.WarnHandler = prevHandler
		cfg.Production = prevProd
	})
	return w
}

type capturedError struct {
	err  error
	vm   any
	info string
}

func captureErrors(t *testing.T) *[]capturedError {
	t.Helper()
	cfg := config.Shared()
	prev := cfg.ErrorHandler
	var errs []capturedError
	cfg.ErrorHandler = func(err error, vm any, info string) {
		errs = append(errs, capturedError{err: err, vm: vm, info: info})
	}
	t.Cleanup(func() {
		cfg.ErrorHandler = prev
	})
	return &errs
}

func dataOf(m map[string]any) component.DataFunc {
	return func(*component.Instance) (map[string]any, error) {
		out := make(map[string]any, len(m))
		for k, v := range m {
			out[k] = v
		}
		return out, nil
	}
}
