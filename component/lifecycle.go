package component

import (
	"slices"

	"github.com/delaneyj/viewcore/dep"
)

// callHook runs every callback for h with dependency recording off, so a
// hook that reads reactive state never subscribes whatever is currently
// being evaluated.
func (vm *Instance) callHook(h Hook) {
	vm.tracker.Push(nil)
	defer vm.tracker.Pop()

	for _, cb := range vm.options.Hooks[h] {
		if err := invoke(func() error { return cb.Fn(vm) }); err != nil {
			vm.handleError(err, h.String()+" hook")
		}
	}
	if vm.hasHookEvent {
		vm.Emit("hook:" + h.String())
	}
}

// Mount renders the instance for the first time and keeps it rendered: a
// render watcher re-runs the render function whenever something it read
// changes.
func (vm *Instance) Mount(el string) error {
	if vm.isDestroyed {
		return ErrDestroyed
	}
	vm.el = el
	if vm.options.Render == nil {
		warn("failed to mount component: render function not defined", vm)
	}

	vm.callHook(BeforeMount)
	vm.renderWatcher = dep.NewWatcher(vm.tracker, func() (any, error) {
		vm.update()
		return vm.vnode, nil
	}, nil, dep.WatcherOptions{
		Scheduler: vm.scheduler,
		OnError: func(_ *dep.Watcher, err error) {
			vm.handleError(err, "render watcher")
		},
	})
	vm.isMounted = true
	vm.callHook(Mounted)
	return nil
}

func (vm *Instance) update() {
	mounted := vm.isMounted && !vm.isDestroyed
	if mounted {
		vm.callHook(BeforeUpdate)
	}
	vm.vnode = vm.render()
	if mounted {
		vm.callHook(Updated)
	}
}

// ForceUpdate re-renders even though no dependency changed.
func (vm *Instance) ForceUpdate() {
	if vm.renderWatcher != nil {
		vm.renderWatcher.Update()
	}
}

// Activate and Deactivate toggle a kept-alive instance and its subtree.
func (vm *Instance) Activate() {
	if !vm.inactive {
		return
	}
	vm.inactive = false
	for _, child := range vm.children {
		child.Activate()
	}
	vm.callHook(Activated)
}

func (vm *Instance) Deactivate() {
	if vm.inactive {
		return
	}
	vm.inactive = true
	for _, child := range vm.children {
		child.Deactivate()
	}
	vm.callHook(Deactivated)
}

func (vm *Instance) Inactive() bool {
	return vm.inactive
}

// Destroy tears the instance down: children first, then its watchers and
// subscriptions, and finally its own listeners.
func (vm *Instance) Destroy() {
	if vm.isBeingDestroyed {
		return
	}
	vm.callHook(BeforeDestroy)
	vm.isBeingDestroyed = true

	if parent := vm.parent; parent != nil && !parent.isBeingDestroyed && !vm.options.Abstract {
		if i := slices.Index(parent.children, vm); i >= 0 {
			parent.children = slices.Delete(slices.Clone(parent.children), i, i+1)
		}
	}

	children := slices.Clone(vm.children)
	for i := len(children) - 1; i >= 0; i-- {
		children[i].Destroy()
	}

	if vm.renderWatcher != nil {
		vm.renderWatcher.Teardown()
	}
	for _, w := range vm.watchers {
		w.Teardown()
	}
	for _, w := range vm.computed {
		w.Teardown()
	}

	vm.isDestroyed = true
	vm.vnode = nil
	vm.callHook(Destroyed)
	vm.Off("", nil)
}
