package dep

// Tracker holds the reader currently being evaluated for one logical thread
// of evaluation. It is not safe for concurrent use; give each goroutine that
// evaluates watchers its own Tracker.
type Tracker struct {
	target Subscriber
	stack  []Subscriber

	onNotify func(fanout int)
}

type TrackerOption func(*Tracker)

// WithNotifyHook is called by every Dep bound to the tracker before it fans
// out, with the number of subscribers about to be updated.
func WithNotifyHook(fn func(fanout int)) TrackerOption {
	return func(t *Tracker) {
		t.onNotify = fn
	}
}

func NewTracker(opts ...TrackerOption) *Tracker {
	t := &Tracker{}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

func (t *Tracker) Target() Subscriber {
	return t.target
}

// Depth is the number of saved outer readers.
func (t *Tracker) Depth() int {
	return len(t.stack)
}

// Push makes s the current reader and saves the previous one, nil included.
// A nil s turns off dependency recording until the matching Pop.
func (t *Tracker) Push(s Subscriber) {
	t.stack = append(t.stack, t.target)
	t.target = s
}

// Pop restores the reader that was current before the matching Push.
func (t *Tracker) Pop() {
	last := len(t.stack) - 1
	if last < 0 {
		t.target = nil
		return
	}
	t.target = t.stack[last]
	t.stack[last] = nil
	t.stack = t.stack[:last]
}

// Track runs fn with s as the current reader. The previous reader is
// restored even if fn panics.
func (t *Tracker) Track(s Subscriber, fn func() error) error {
	t.Push(s)
	defer t.Pop()
	return fn()
}

// Untracked runs fn with dependency recording switched off.
func (t *Tracker) Untracked(fn func() error) error {
	return t.Track(nil, fn)
}
