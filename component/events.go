package component

import (
	"fmt"
	"strings"
)

// Listener is an event handler. Handlers are compared by pointer when
// removed with Off.
type Listener struct {
	Fn func(args ...any) error

	orig *Listener
}

func NewListener(fn func(args ...any) error) *Listener {
	return &Listener{Fn: fn}
}

// initEvents registers the listeners the parent attached to this instance.
// A leading "~" on the event name registers a one-shot listener.
func (vm *Instance) initEvents() {
	vm.events = map[string][]*Listener{}
	for event, ls := range vm.options.ParentListeners {
		for _, l := range ls {
			if name, ok := strings.CutPrefix(event, "~"); ok {
				vm.Once(name, l)
				continue
			}
			vm.On(event, l)
		}
	}
}

func (vm *Instance) On(event string, l *Listener) {
	vm.events[event] = append(vm.events[event], l)
	if strings.HasPrefix(event, "hook:") {
		vm.hasHookEvent = true
	}
}

func (vm *Instance) Once(event string, l *Listener) {
	var once *Listener
	once = &Listener{
		orig: l,
		Fn: func(args ...any) error {
			vm.Off(event, once)
			return l.Fn(args...)
		},
	}
	vm.On(event, once)
}

// Off removes listeners. An empty event removes everything, a nil l removes
// every listener of event.
func (vm *Instance) Off(event string, l *Listener) {
	if event == "" {
		vm.events = map[string][]*Listener{}
		return
	}
	ls, ok := vm.events[event]
	if !ok {
		return
	}
	if l == nil {
		delete(vm.events, event)
		return
	}
	for i := len(ls) - 1; i >= 0; i-- {
		if ls[i] == l || ls[i].orig == l {
			vm.events[event] = append(ls[:i:i], ls[i+1:]...)
			return
		}
	}
}

// Emit calls every listener of event in registration order. Handler errors
// go through error handling and do not stop the remaining handlers.
func (vm *Instance) Emit(event string, args ...any) {
	ls := vm.events[event]
	if len(ls) == 0 {
		return
	}
	snapshot := make([]*Listener, len(ls))
	copy(snapshot, ls)
	for _, l := range snapshot {
		if err := invoke(func() error { return l.Fn(args...) }); err != nil {
			vm.handleError(err, fmt.Sprintf("event handler for %q", event))
		}
	}
}
