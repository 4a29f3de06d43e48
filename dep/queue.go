package dep

import (
	"fmt"
	"sort"

	mapset "github.com/deckarep/golang-set/v2"
)

// MaxUpdateCount bounds how often one watcher may run within a single
// flush before the flush is aborted as an infinite update loop.
const MaxUpdateCount = 100

// ErrInfiniteUpdate is returned by Flush when a watcher keeps re-queuing
// itself.
type ErrInfiniteUpdate struct {
	WatcherID uint64
}

func (e *ErrInfiniteUpdate) Error() string {
	return fmt.Sprintf("you may have an infinite update loop in watcher %d", e.WatcherID)
}

// Queue collects scheduled watchers and runs each of them once per flush,
// in creation order. Use q.Schedule as a WatcherOptions.Scheduler.
//
// Watchers queued while a flush is running are run in the same flush.
type Queue struct {
	pending  []*Watcher
	has      mapset.Set[uint64]
	circular map[uint64]int
	flushing bool
	index    int

	batchDepth int
	ticks      []func()
}

func NewQueue() *Queue {
	return &Queue{
		has:      mapset.NewThreadUnsafeSet[uint64](),
		circular: map[uint64]int{},
	}
}

// Schedule queues w unless it is already queued.
func (q *Queue) Schedule(w *Watcher) {
	if q.has.Contains(w.ID()) {
		return
	}
	q.has.Add(w.ID())
	if !q.flushing {
		q.pending = append(q.pending, w)
		return
	}

	// Keep the remaining part of the queue ordered by id.
	i := len(q.pending) - 1
	for i > q.index && q.pending[i].ID() > w.ID() {
		i--
	}
	q.pending = append(q.pending, nil)
	copy(q.pending[i+2:], q.pending[i+1:])
	q.pending[i+1] = w
}

// Len is the number of watchers waiting for the next flush.
func (q *Queue) Len() int {
	if q.flushing {
		return len(q.pending) - q.index
	}
	return len(q.pending)
}

// NextTick registers fn to run after the next flush.
func (q *Queue) NextTick(fn func()) {
	q.ticks = append(q.ticks, fn)
}

// Batch defers flushing until the outermost Batch returns.
func (q *Queue) Batch(fn func()) error {
	q.batchDepth++
	defer func() {
		q.batchDepth--
	}()
	fn()
	if q.batchDepth > 1 {
		return nil
	}
	return q.Flush()
}

// Flush runs every queued watcher, then the NextTick callbacks.
func (q *Queue) Flush() error {
	if q.flushing {
		return nil
	}
	q.flushing = true
	defer q.reset()

	sort.Slice(q.pending, func(i, j int) bool {
		return q.pending[i].ID() < q.pending[j].ID()
	})

	for q.index = 0; q.index < len(q.pending); q.index++ {
		w := q.pending[q.index]
		q.has.Remove(w.ID())
		w.Run()

		q.circular[w.ID()]++
		if q.circular[w.ID()] > MaxUpdateCount {
			return &ErrInfiniteUpdate{WatcherID: w.ID()}
		}
	}

	ticks := q.ticks
	q.ticks = nil
	for _, fn := range ticks {
		fn()
	}
	return nil
}

func (q *Queue) reset() {
	for i := range q.pending {
		q.pending[i] = nil
	}
	q.pending = q.pending[:0]
	q.has.Clear()
	clear(q.circular)
	q.index = 0
	q.flushing = false
}
