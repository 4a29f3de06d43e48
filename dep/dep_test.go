package dep_test

import (
	"testing"

	"github.com/delaneyj/viewcore/dep"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	name     string
	calls    *[]string
	onUpdate func()
	deps     []*dep.Dep
}

func (r *recorder) AddDep(d *dep.Dep) {
	r.deps = append(r.deps, d)
	d.AddSub(r)
}

func (r *recorder) Update() {
	*r.calls = append(*r.calls, r.name)
	if r.onUpdate != nil {
		r.onUpdate()
	}
}

func TestNotifyCallsEverySubscriberOnceInOrder(t *testing.T) {
	var calls []string
	s := dep.New(dep.NewTracker())
	for _, name := range []string{"a", "b", "c"} {
		s.AddSub(&recorder{name: name, calls: &calls})
	}

	s.Notify()
	assert.Equal(t, []string{"a", "b", "c"}, calls)
}

func TestNotifyIteratesSnapshot(t *testing.T) {
	var calls []string
	s := dep.New(dep.NewTracker())

	d := &recorder{name: "d", calls: &calls}
	added := false
	a := &recorder{name: "a", calls: &calls, onUpdate: func() {
		if !added {
			added = true
			s.AddSub(d)
		}
	}}
	s.AddSub(a)
	s.AddSub(&recorder{name: "b", calls: &calls})
	s.AddSub(&recorder{name: "c", calls: &calls})

	s.Notify()
	assert.Equal(t, []string{"a", "b", "c"}, calls)

	calls = calls[:0]
	s.Notify()
	assert.Equal(t, []string{"a", "b", "c", "d"}, calls)
}

func TestNotifySurvivesRemovalDuringIteration(t *testing.T) {
	var calls []string
	s := dep.New(dep.NewTracker())
	b := &recorder{name: "b", calls: &calls}
	a := &recorder{name: "a", calls: &calls, onUpdate: func() {
		s.RemoveSub(b)
	}}
	s.AddSub(a)
	s.AddSub(b)

	s.Notify()
	assert.Equal(t, []string{"a", "b"}, calls)
	assert.Len(t, s.Subs(), 1)
}

func TestRemoveSub(t *testing.T) {
	var calls []string
	s := dep.New(dep.NewTracker())
	a := &recorder{name: "a", calls: &calls}
	b := &recorder{name: "b", calls: &calls}

	s.AddSub(a)
	s.AddSub(b)
	s.AddSub(a)

	s.RemoveSub(a)
	subs := s.Subs()
	require.Len(t, subs, 2)
	assert.Same(t, b, subs[0])
	assert.Same(t, a, subs[1])

	missing := &recorder{name: "missing", calls: &calls}
	assert.NotPanics(t, func() { s.RemoveSub(missing) })
	assert.Len(t, s.Subs(), 2)
}

func TestDependWithoutReaderIsNoop(t *testing.T) {
	tr := dep.NewTracker()
	s := dep.New(tr)

	assert.NotPanics(t, s.Depend)
	assert.Empty(t, s.Subs())

	var calls []string
	r := &recorder{name: "r", calls: &calls}
	tr.Push(r)
	tr.Push(nil)
	s.Depend()
	tr.Pop()
	assert.Empty(t, s.Subs())

	s.Depend()
	tr.Pop()
	assert.Len(t, s.Subs(), 1)
	assert.Len(t, r.deps, 1)
}

func TestDepIDsIncrease(t *testing.T) {
	tr := dep.NewTracker()
	a, b := dep.New(tr), dep.New(tr)
	assert.Less(t, a.ID(), b.ID())
}

func TestNotifyHook(t *testing.T) {
	fanouts := []int{}
	tr := dep.NewTracker(dep.WithNotifyHook(func(n int) {
		fanouts = append(fanouts, n)
	}))
	var calls []string
	s := dep.New(tr)
	s.AddSub(&recorder{name: "a", calls: &calls})
	s.AddSub(&recorder{name: "b", calls: &calls})
	s.Notify()
	assert.Equal(t, []int{2}, fanouts)
}
