package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/jamiealquiza/tachymeter"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/urfave/cli/v3"

	"github.com/delaneyj/viewcore/config"
	"github.com/delaneyj/viewcore/dep"
)

var (
	ww = []int{1, 10, 100, 1_000}
	hh = []int{1, 10, 100, 1_000}
)

// computed is a lazy watcher read the way an instance reads its computed
// properties.
type computed struct {
	t *dep.Tracker
	w *dep.Watcher
}

func newComputed(t *dep.Tracker, fn func() int) *computed {
	return &computed{
		t: t,
		w: dep.NewWatcher(t, func() (any, error) {
			return fn(), nil
		}, nil, dep.WatcherOptions{Lazy: true}),
	}
}

func (c *computed) Get() int {
	if c.w.Dirty() {
		c.w.Evaluate()
	}
	if c.t.Target() != nil {
		c.w.Depend()
	}
	return c.w.Value().(int)
}

func propagate(ctx context.Context, cmd *cli.Command) error {
	stop, err := setup(cmd)
	if err != nil {
		return err
	}
	defer stop()

	iters, err := iterations(cmd)
	if err != nil {
		return err
	}
	log := config.Shared().Log()
	log.WithField("iters", iters).Info("propagate benchmark started")

	tbl := table.NewWriter()
	tbl.SetTitle("Dep propagation")
	tbl.SetOutputMirror(os.Stdout)
	tbl.AppendHeader(table.Row{"benchmark", "avg", "min", "p75", "p99", "max"})

	for _, w := range ww {
		for _, h := range hh {
			if err := ctx.Err(); err != nil {
				return err
			}

			tach := tachymeter.New(&tachymeter.Config{Size: iters})
			t := dep.NewTracker()
			src := dep.NewSlot(t, 1)

			for i := 0; i < w; i++ {
				read := src.Get
				for j := 0; j < h; j++ {
					prev := read
					read = newComputed(t, func() int {
						return prev() + 1
					}).Get
				}
				last := read
				dep.NewWatcher(t, func() (any, error) {
					return last(), nil
				}, nil, dep.WatcherOptions{Sync: true})
			}

			for i := 0; i < iters; i++ {
				start := time.Now()
				src.Set(src.Peek() + 1)
				tach.AddTime(time.Since(start))
			}

			calc := tach.Calc()
			tbl.AppendRows([]table.Row{
				{
					fmt.Sprintf("propagate: %d * %d", w, h),
					calc.Time.Avg,
					calc.Time.Min,
					calc.Time.P75,
					calc.Time.P99,
					calc.Time.Max,
				},
			})
		}
	}

	if !cmd.Bool(quietKey) {
		tbl.Render()
	}
	return nil
}
