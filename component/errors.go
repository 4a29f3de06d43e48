package component

import (
	"errors"
	"fmt"
	"runtime/debug"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/delaneyj/viewcore/config"
)

// ErrDestroyed is returned when mounting an instance that was destroyed.
var ErrDestroyed = errors.New("component: instance destroyed")

// Error wraps a failure raised by user code running inside an instance:
// hooks, data factories, computed getters, watchers, event handlers and
// render functions.
type Error struct {
	// Component is the formatted name of the instance, e.g. "<TodoItem>".
	Component string
	// Info says where the failure happened, e.g. `created hook`.
	Info string
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s in %s: %v", e.Info, e.Component, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// PanicError is the error recovered from a panicking callback.
type PanicError struct {
	Value      any
	StackTrace string
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("panic: %v", e.Value)
}

// invoke runs fn and turns a panic into a *PanicError.
func invoke(fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &PanicError{Value: r, StackTrace: string(debug.Stack())}
		}
	}()
	return fn()
}

// handleError offers err to the ErrorCaptured hooks of every ancestor of vm,
// nearest first, then to the global error handler.
func (vm *Instance) handleError(err error, info string) {
	for cur := vm.parent; cur != nil; cur = cur.parent {
		for _, capture := range cur.options.ErrorCaptured {
			propagate := true
			cerr := invoke(func() error {
				propagate = capture.Fn(err, vm, info)
				return nil
			})
			if cerr != nil {
				globalHandleError(cur, cerr, "errorCaptured hook")
				continue
			}
			if !propagate {
				return
			}
		}
	}
	globalHandleError(vm, err, info)
}

func globalHandleError(vm *Instance, err error, info string) {
	cfg := config.Shared()
	wrapped := &Error{
		Component: formatComponentName(vm),
		Info:      info,
		Err:       err,
	}
	if cfg.ErrorHandler != nil {
		herr := invoke(func() error {
			cfg.ErrorHandler(wrapped, vmOrNil(vm), info)
			return nil
		})
		if herr == nil {
			return
		}
		logError(vm, herr, "config.ErrorHandler")
	}
	logError(vm, wrapped, info)
}

func logError(vm *Instance, err error, info string) {
	config.Shared().Log().WithFields(logrus.Fields{
		"component": formatComponentName(vm),
		"info":      info,
	}).WithError(err).Error("component error")
}

// Warn reports a non-fatal problem. It is silent in production mode and
// when the shared config is Silent.
func Warn(msg string, vm *Instance) {
	warn(msg, vm)
}

func warn(msg string, vm *Instance) {
	cfg := config.Shared()
	if cfg.Production {
		return
	}
	trace := ""
	if vm != nil {
		trace = componentTrace(vm)
	}
	if cfg.WarnHandler != nil {
		cfg.WarnHandler(msg, vmOrNil(vm), trace)
		return
	}
	if cfg.Silent {
		return
	}
	entry := cfg.Log().WithField("component", formatComponentName(vm))
	if trace != "" {
		entry = entry.WithField("trace", trace)
	}
	entry.Warn(msg)
}

// vmOrNil keeps a nil *Instance from becoming a non-nil interface value.
func vmOrNil(vm *Instance) any {
	if vm == nil {
		return nil
	}
	return vm
}

func formatComponentName(vm *Instance) string {
	if vm == nil {
		return "<Anonymous>"
	}
	if vm.root == vm && vm.parent == nil {
		return "<Root>"
	}
	name := vm.options.Name
	if name == "" {
		name = vm.options.ComponentTag
	}
	if name == "" {
		return "<Anonymous>"
	}
	return "<" + classify(name) + ">"
}

func componentTrace(vm *Instance) string {
	var names []string
	for cur := vm; cur != nil; cur = cur.parent {
		names = append(names, formatComponentName(cur))
	}
	return strings.Join(names, " < ")
}

func classify(name string) string {
	parts := strings.FieldsFunc(name, func(r rune) bool {
		return r == '-' || r == '_'
	})
	for i, p := range parts {
		parts[i] = capitalize(p)
	}
	return strings.Join(parts, "")
}
