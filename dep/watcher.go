package dep

import (
	"reflect"
	"sync/atomic"

	mapset "github.com/deckarep/golang-set/v2"
)

var watcherUID uint64

type (
	Getter    func() (any, error)
	Callback  func(newValue, oldValue any) error
	Scheduler func(w *Watcher)
)

type WatcherOptions struct {
	// Lazy watchers only mark themselves dirty on update and re-evaluate
	// on the next Evaluate. Computed values use this.
	Lazy bool
	// Sync watchers run on update instead of going through the Scheduler.
	Sync bool
	// Scheduler queues non-sync watchers. When nil they run immediately.
	Scheduler Scheduler
	// OnError receives getter and callback failures. When nil the first
	// failure is kept and returned by Err.
	OnError func(w *Watcher, err error)
}

// Watcher evaluates a getter, records every Dep touched while doing so and
// re-runs when one of them notifies.
type Watcher struct {
	id      uint64
	tracker *Tracker
	getter  Getter
	cb      Callback

	lazy      bool
	sync      bool
	scheduler Scheduler
	onError   func(w *Watcher, err error)

	active bool
	dirty  bool
	value  any
	err    error

	deps      []*Dep
	newDeps   []*Dep
	depIDs    mapset.Set[uint64]
	newDepIDs mapset.Set[uint64]
}

func NewWatcher(t *Tracker, getter Getter, cb Callback, opts WatcherOptions) *Watcher {
	w := &Watcher{
		id:        atomic.AddUint64(&watcherUID, 1),
		tracker:   t,
		getter:    getter,
		cb:        cb,
		lazy:      opts.Lazy,
		sync:      opts.Sync,
		scheduler: opts.Scheduler,
		onError:   opts.OnError,
		active:    true,
		dirty:     opts.Lazy,
		depIDs:    mapset.NewThreadUnsafeSet[uint64](),
		newDepIDs: mapset.NewThreadUnsafeSet[uint64](),
	}
	if !w.lazy {
		w.value = w.Get()
	}
	return w
}

func (w *Watcher) ID() uint64 {
	return w.id
}

func (w *Watcher) Value() any {
	return w.value
}

func (w *Watcher) Dirty() bool {
	return w.dirty
}

func (w *Watcher) Active() bool {
	return w.active
}

// Err returns the last failure when no OnError handler was given.
func (w *Watcher) Err() error {
	return w.err
}

// Deps returns the deps recorded by the last evaluation.
func (w *Watcher) Deps() []*Dep {
	deps := make([]*Dep, len(w.deps))
	copy(deps, w.deps)
	return deps
}

// Get evaluates the getter with w as the current reader and re-collects
// dependencies.
func (w *Watcher) Get() any {
	var value any
	err := w.tracker.Track(w, func() (err error) {
		defer w.cleanupDeps()
		value, err = w.getter()
		return err
	})
	if err != nil {
		w.fail(err)
		return w.value
	}
	return value
}

// AddDep records d for the current pass. It subscribes to d only the first
// time d is seen across passes.
func (w *Watcher) AddDep(d *Dep) {
	id := d.ID()
	if w.newDepIDs.Contains(id) {
		return
	}
	w.newDepIDs.Add(id)
	w.newDeps = append(w.newDeps, d)
	if !w.depIDs.Contains(id) {
		d.AddSub(w)
	}
}

func (w *Watcher) cleanupDeps() {
	for _, d := range w.deps {
		if !w.newDepIDs.Contains(d.ID()) {
			d.RemoveSub(w)
		}
	}
	w.depIDs, w.newDepIDs = w.newDepIDs, w.depIDs
	w.newDepIDs.Clear()

	for i := range w.deps {
		w.deps[i] = nil
	}
	w.deps, w.newDeps = w.newDeps, w.deps[:0]
}

// Update is called by a Dep when one of the watcher's dependencies changes.
func (w *Watcher) Update() {
	switch {
	case w.lazy:
		w.dirty = true
	case w.sync || w.scheduler == nil:
		w.Run()
	default:
		w.scheduler(w)
	}
}

// Run re-evaluates and calls the callback when the value changed. Map,
// slice and struct values always count as changed since they may have been
// mutated in place.
func (w *Watcher) Run() {
	if !w.active {
		return
	}
	value := w.Get()
	if sameValue(value, w.value) && !isObject(value) {
		return
	}
	old := w.value
	w.value = value
	if w.cb == nil {
		return
	}
	if err := w.cb(value, old); err != nil {
		w.fail(err)
	}
}

// Evaluate is used by lazy watchers.
func (w *Watcher) Evaluate() any {
	w.value = w.Get()
	w.dirty = false
	return w.value
}

// Depend registers every dep of w with the tracker's current reader. A
// reader that reads a computed value depends on what the computed read.
func (w *Watcher) Depend() {
	for _, d := range w.deps {
		d.Depend()
	}
}

// Teardown unsubscribes w from all of its deps.
func (w *Watcher) Teardown() {
	if !w.active {
		return
	}
	for _, d := range w.deps {
		d.RemoveSub(w)
	}
	w.active = false
}

func (w *Watcher) fail(err error) {
	if w.onError != nil {
		w.onError(w, err)
		return
	}
	if w.err == nil {
		w.err = err
	}
}

func sameValue(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	ta := reflect.TypeOf(a)
	if ta != reflect.TypeOf(b) || !ta.Comparable() {
		return false
	}
	return a == b
}

func isObject(v any) bool {
	if v == nil {
		return false
	}
	switch reflect.TypeOf(v).Kind() {
	case reflect.Map, reflect.Slice, reflect.Struct:
		return true
	}
	return false
}
