package dep

import "sync/atomic"

var uid uint64

// Subscriber is anything a Dep can notify. Watchers are the usual
// implementation.
type Subscriber interface {
	AddDep(d *Dep)
	Update()
}

// Dep is an observable that can have multiple subscribers.
type Dep struct {
	id      uint64
	tracker *Tracker
	subs    []Subscriber
}

func New(t *Tracker) *Dep {
	return &Dep{
		id:      atomic.AddUint64(&uid, 1),
		tracker: t,
	}
}

func (d *Dep) ID() uint64 {
	return d.id
}

func (d *Dep) Tracker() *Tracker {
	return d.tracker
}

func (d *Dep) AddSub(s Subscriber) {
	d.subs = append(d.subs, s)
}

func (d *Dep) RemoveSub(s Subscriber) {
	for i, sub := range d.subs {
		if sub == s {
			d.subs = append(d.subs[:i], d.subs[i+1:]...)
			return
		}
	}
}

// Depend records d on the reader currently being evaluated. Reads outside of
// any tracked evaluation are silently ignored.
func (d *Dep) Depend() {
	if d.tracker == nil {
		return
	}
	if target := d.tracker.Target(); target != nil {
		target.AddDep(d)
	}
}

// Notify calls Update on every subscriber. The list is copied first so
// subscribers that (un)subscribe while updating don't disturb this pass.
func (d *Dep) Notify() {
	subs := make([]Subscriber, len(d.subs))
	copy(subs, d.subs)
	if d.tracker != nil && d.tracker.onNotify != nil {
		d.tracker.onNotify(len(subs))
	}
	for _, sub := range subs {
		sub.Update()
	}
}

// Subs returns a copy of the current subscribers.
func (d *Dep) Subs() []Subscriber {
	subs := make([]Subscriber, len(d.subs))
	copy(subs, d.subs)
	return subs
}
