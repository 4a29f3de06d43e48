package component

import (
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/delaneyj/viewcore/dep"
)

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// initState sets up props, methods, data, computed values and watchers, in
// that order. Later kinds may not shadow earlier ones.
func (vm *Instance) initState() {
	vm.watchers = nil
	vm.initProps()
	vm.initMethods()
	vm.initData()
	vm.initComputed()
	vm.initWatch()
}

func (vm *Instance) initProps() {
	vm.props = map[string]*dep.Slot[any]{}
	for _, key := range sortedKeys(vm.options.Props) {
		value := vm.validateProp(key, vm.options.Props[key])
		vm.props[key] = dep.NewSlot(vm.tracker, value)
	}
}

// validateProp picks the value for prop key from PropsData or its default
// and warns when it fails the declared checks. Absent boolean props are
// false.
func (vm *Instance) validateProp(key string, prop PropOptions) any {
	value, present := vm.options.PropsData[key]
	if !present {
		switch {
		case prop.DefaultFunc != nil:
			_ = vm.tracker.Untracked(func() error {
				value = prop.DefaultFunc(vm)
				return nil
			})
		case prop.Default != nil:
			value = prop.Default
		case prop.Type != nil && prop.Type.Kind() == reflect.Bool:
			value = false
		}
		if prop.Required {
			warn(fmt.Sprintf("missing required prop: %q", key), vm)
			return value
		}
	}
	if value == nil {
		return nil
	}

	if prop.Type != nil && !reflect.TypeOf(value).AssignableTo(prop.Type) {
		warn(fmt.Sprintf("invalid prop: type check failed for prop %q. Expected %s, got %T", key, prop.Type, value), vm)
		return value
	}
	if prop.Validator != nil && !prop.Validator(value) {
		warn(fmt.Sprintf("invalid prop: custom validator check failed for prop %q", key), vm)
	}
	return value
}

func (vm *Instance) initMethods() {
	vm.methods = map[string]Method{}
	for _, key := range sortedKeys(vm.options.Methods) {
		m := vm.options.Methods[key]
		if m == nil {
			warn(fmt.Sprintf("method %q is nil in the component definition", key), vm)
			continue
		}
		if _, ok := vm.props[key]; ok {
			warn(fmt.Sprintf("method %q has already been defined as a prop", key), vm)
		}
		vm.methods[key] = m
	}
}

func isReserved(key string) bool {
	return strings.HasPrefix(key, "_") || strings.HasPrefix(key, "$")
}

// initData runs the data factory without dependency recording and turns
// each top level field into a slot.
func (vm *Instance) initData() {
	vm.data = map[string]*dep.Slot[any]{}
	if vm.options.Data == nil {
		return
	}

	var data map[string]any
	err := vm.tracker.Untracked(func() error {
		return invoke(func() (err error) {
			data, err = vm.options.Data(vm)
			return err
		})
	})
	if err != nil {
		vm.handleError(err, "data()")
		return
	}

	for _, key := range sortedKeys(data) {
		if _, ok := vm.methods[key]; ok {
			warn(fmt.Sprintf("method %q has already been defined as a data property", key), vm)
		}
		if _, ok := vm.props[key]; ok {
			warn(fmt.Sprintf("the data property %q is already declared as a prop, use prop default value instead", key), vm)
			continue
		}
		if isReserved(key) {
			continue
		}
		vm.data[key] = dep.NewSlot(vm.tracker, data[key])
	}
}

func (vm *Instance) initComputed() {
	vm.computed = map[string]*dep.Watcher{}
	for _, key := range sortedKeys(vm.options.Computed) {
		def := vm.options.Computed[key]
		if def.Get == nil {
			warn(fmt.Sprintf("getter is missing for computed property %q", key), vm)
			continue
		}
		if _, ok := vm.data[key]; ok {
			warn(fmt.Sprintf("the computed property %q is already defined in data", key), vm)
			continue
		}
		if _, ok := vm.props[key]; ok {
			warn(fmt.Sprintf("the computed property %q is already defined as a prop", key), vm)
			continue
		}

		info := fmt.Sprintf("computed %q", key)
		get := def.Get
		vm.computed[key] = dep.NewWatcher(vm.tracker, func() (v any, err error) {
			err = invoke(func() (err error) {
				v, err = get(vm)
				return err
			})
			return v, err
		}, nil, dep.WatcherOptions{
			Lazy: true,
			OnError: func(_ *dep.Watcher, err error) {
				vm.handleError(err, info)
			},
		})
	}
}

// computedValue re-evaluates w if needed and lets the current reader
// depend on everything w read.
func (vm *Instance) computedValue(w *dep.Watcher) any {
	if w.Dirty() {
		w.Evaluate()
	}
	if vm.tracker.Target() != nil {
		w.Depend()
	}
	return w.Value()
}

func (vm *Instance) initWatch() {
	for _, key := range sortedKeys(vm.options.Watch) {
		for _, h := range vm.options.Watch[key] {
			vm.Watch(key, h)
		}
	}
}

// Watch calls h.Handler whenever the value at path changes. The returned
// function stops watching.
func (vm *Instance) Watch(path string, h WatchHandler) func() {
	return vm.WatchFunc(fmt.Sprintf("watcher %q", path), func(vm *Instance) (any, error) {
		v, _ := vm.GetPath(path)
		return v, nil
	}, h)
}

// WatchFunc is Watch for an arbitrary getter. name is used in error
// reports.
func (vm *Instance) WatchFunc(name string, fn func(vm *Instance) (any, error), h WatchHandler) func() {
	if h.Handler == nil {
		warn(fmt.Sprintf("%s has no handler", name), vm)
		return func() {}
	}

	w := dep.NewWatcher(vm.tracker, func() (v any, err error) {
		err = invoke(func() (err error) {
			v, err = fn(vm)
			return err
		})
		return v, err
	}, func(newValue, oldValue any) error {
		return invoke(func() error {
			return h.Handler(vm, newValue, oldValue)
		})
	}, dep.WatcherOptions{
		Sync:      h.Sync,
		Scheduler: vm.scheduler,
		OnError: func(_ *dep.Watcher, err error) {
			vm.handleError(err, "callback for "+name)
		},
	})
	vm.watchers = append(vm.watchers, w)

	if h.Immediate {
		if err := invoke(func() error { return h.Handler(vm, w.Value(), nil) }); err != nil {
			vm.handleError(err, "callback for immediate "+name)
		}
	}
	return w.Teardown
}
