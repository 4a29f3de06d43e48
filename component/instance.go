package component

import (
	"fmt"
	"strings"

	"github.com/delaneyj/viewcore/dep"
)

// Instance is one live component.
type Instance struct {
	uid     uint64
	typ     *Type
	options *Options

	tracker   *dep.Tracker
	scheduler dep.Scheduler

	parent   *Instance
	root     *Instance
	children []*Instance

	inactive         bool
	isMounted        bool
	isDestroyed      bool
	isBeingDestroyed bool

	events       map[string][]*Listener
	hasHookEvent bool

	vnode     *VNode
	el        string
	slots     map[string][]*VNode
	attrs     *dep.Slot[map[string]any]
	listeners *dep.Slot[map[string][]*Listener]

	renderWatcher *dep.Watcher
	watchers      []*dep.Watcher

	props    map[string]*dep.Slot[any]
	data     map[string]*dep.Slot[any]
	computed map[string]*dep.Watcher
	methods  map[string]Method
	injected map[string]*dep.Slot[any]
	provided map[Key]any
}

type Option func(vm *Instance)

// WithTracker sets the tracker. Without it a root instance gets a fresh
// one and children share their parent's.
func WithTracker(t *dep.Tracker) Option {
	return func(vm *Instance) {
		vm.tracker = t
	}
}

// WithScheduler queues render and non-sync watchers instead of running
// them on notification.
func WithScheduler(s dep.Scheduler) Option {
	return func(vm *Instance) {
		vm.scheduler = s
	}
}

func (vm *Instance) UID() uint64 { return vm.uid }
func (vm *Instance) Type() *Type { return vm.typ }
func (vm *Instance) Options() *Options { return vm.options }
func (vm *Instance) Tracker() *dep.Tracker { return vm.tracker }
func (vm *Instance) Parent() *Instance { return vm.parent }
func (vm *Instance) Root() *Instance { return vm.root }
func (vm *Instance) VNode() *VNode { return vm.vnode }
func (vm *Instance) El() string { return vm.el }
func (vm *Instance) IsMounted() bool { return vm.isMounted }
func (vm *Instance) IsDestroyed() bool { return vm.isDestroyed }
func (vm *Instance) Slots() map[string][]*VNode { return vm.slots }

func (vm *Instance) Children() []*Instance {
	out := make([]*Instance, len(vm.children))
	copy(out, vm.children)
	return out
}

// Name is the formatted component name used in diagnostics.
func (vm *Instance) Name() string {
	return formatComponentName(vm)
}

func (vm *Instance) Attrs() map[string]any {
	return vm.attrs.Get()
}

func (vm *Instance) Listeners() map[string][]*Listener {
	return vm.listeners.Get()
}

// Provided returns a value this instance provides to its descendants.
func (vm *Instance) Provided(k Key) (any, bool) {
	v, ok := vm.provided[k]
	return v, ok
}

// Lookup reads a prop, data field, computed value or injection, in that
// order. The read is tracked.
func (vm *Instance) Lookup(key string) (any, bool) {
	if s, ok := vm.props[key]; ok {
		return s.Get(), true
	}
	if s, ok := vm.data[key]; ok {
		return s.Get(), true
	}
	if w, ok := vm.computed[key]; ok {
		return vm.computedValue(w), true
	}
	if s, ok := vm.injected[key]; ok {
		return s.Get(), true
	}
	return nil, false
}

// Get is Lookup with a warning for unknown keys.
func (vm *Instance) Get(key string) any {
	v, ok := vm.Lookup(key)
	if !ok {
		warn(fmt.Sprintf("property %q is not defined on the instance but referenced", key), vm)
	}
	return v
}

// GetPath reads a dot separated path such as "user.name", descending into
// map[string]any values after the first segment.
func (vm *Instance) GetPath(path string) (any, bool) {
	segments := strings.Split(path, ".")
	v, ok := vm.Lookup(segments[0])
	for _, seg := range segments[1:] {
		if !ok {
			return nil, false
		}
		m, isMap := v.(map[string]any)
		if !isMap {
			return nil, false
		}
		v, ok = m[seg]
	}
	return v, ok
}

// Set writes a data field, a prop or a computed setter.
func (vm *Instance) Set(key string, value any) error {
	if s, ok := vm.data[key]; ok {
		s.Set(value)
		return nil
	}
	if s, ok := vm.props[key]; ok {
		warn(fmt.Sprintf("avoid mutating prop %q directly since the value will be overwritten whenever the parent re-renders", key), vm)
		s.Set(value)
		return nil
	}
	if _, ok := vm.computed[key]; ok {
		def := vm.options.Computed[key]
		if def.Set == nil {
			warn(fmt.Sprintf("computed property %q was assigned to but it has no setter", key), vm)
			return fmt.Errorf("computed %q has no setter", key)
		}
		return def.Set(vm, value)
	}
	return fmt.Errorf("no data, prop or computed named %q", key)
}

// Call invokes a method declared in Methods.
func (vm *Instance) Call(name string, args ...any) (any, error) {
	m, ok := vm.methods[name]
	if !ok {
		return nil, fmt.Errorf("no method named %q", name)
	}
	return m(vm, args...)
}
