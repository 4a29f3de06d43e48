// Package dep implements dependency tracking.
//
// A Dep is a broadcaster for one reactive value. A Tracker names the
// subscriber currently being evaluated and keeps the outer ones on a stack
// so evaluations can nest. A Watcher is the standard subscriber: it pushes
// itself on the tracker, runs its getter, and every Dep read during that
// run records it. When a Dep notifies, the Watcher re-runs.
//
//	t := dep.NewTracker()
//	count := dep.NewSlot(t, 1)
//	dep.NewWatcher(t, func() (any, error) {
//		return count.Get() * 2, nil
//	}, func(newValue, oldValue any) error {
//		log.Printf("%v -> %v", oldValue, newValue)
//		return nil
//	}, dep.WatcherOptions{Sync: true})
//	count.Set(2) // prints 2 -> 4
package dep
