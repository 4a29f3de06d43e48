package component

import (
	"fmt"
	"sort"

	"github.com/delaneyj/viewcore/dep"
)

// initInjections resolves every declared injection against the values
// provided by ancestors, nearest first.
func (vm *Instance) initInjections() {
	vm.injected = map[string]*dep.Slot[any]{}
	if len(vm.options.Inject) == 0 {
		return
	}

	keys := make([]string, 0, len(vm.options.Inject))
	for key := range vm.options.Inject {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		inj := vm.options.Inject[key]
		from := inj.From
		if from.IsZero() {
			from = NewKey(key)
		}

		value, found := vm.resolveInject(from)
		if !found {
			switch {
			case inj.DefaultFunc != nil:
				_ = vm.tracker.Untracked(func() error {
					value = inj.DefaultFunc(vm)
					return nil
				})
			case inj.hasDefault():
				value = inj.Default
			default:
				warn(fmt.Sprintf("injection %q not found", key), vm)
			}
		}
		vm.injected[key] = dep.NewSlot(vm.tracker, value)
	}
}

func (vm *Instance) resolveInject(k Key) (any, bool) {
	for src := vm; src != nil; src = src.parent {
		if v, ok := src.provided[k]; ok {
			return v, true
		}
	}
	return nil, false
}

// initProvide publishes this instance's provided values. It runs after
// state so Provide can read data and computed values.
func (vm *Instance) initProvide() {
	vm.provided = map[Key]any{}
	if vm.options.Provide == nil {
		return
	}
	var provided map[Key]any
	err := vm.tracker.Untracked(func() error {
		return invoke(func() (err error) {
			provided, err = vm.options.Provide(vm)
			return err
		})
	})
	if err != nil {
		vm.handleError(err, "provide()")
		return
	}
	for k, v := range provided {
		vm.provided[k] = v
	}
}
