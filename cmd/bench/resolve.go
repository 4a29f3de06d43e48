package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli/v3"

	"github.com/delaneyj/viewcore/component"
	"github.com/delaneyj/viewcore/config"
	"github.com/delaneyj/viewcore/global"
)

var depths = []int{1, 10, 100}

type resolveResult struct {
	cached   time.Duration
	remerged time.Duration
	hooks    int
}

// chain derives depth types from g's root, one below the other, each
// adding a created hook.
func chain(g *global.Global, depth int) *component.Type {
	t := g.Root
	for i := 0; i < depth; i++ {
		opts := &component.Options{Name: fmt.Sprintf("level-%d", i)}
		opts.Hooks[component.Created] = []*component.Callback{
			component.NewCallback(func(*component.Instance) error { return nil }),
		}
		t = t.Extend(opts)
	}
	return t
}

func measureResolve(depth, iters int) resolveResult {
	g := global.New()
	leaf := chain(g, depth)
	component.Resolve(leaf)

	var res resolveResult
	start := time.Now()
	for i := 0; i < iters; i++ {
		component.Resolve(leaf)
	}
	res.cached = time.Since(start)

	for i := 0; i < iters; i++ {
		g.Mixin(&component.Options{})
		start := time.Now()
		component.Resolve(leaf)
		res.remerged += time.Since(start)
	}
	res.hooks = len(component.Resolve(leaf).Hooks[component.Created])
	return res
}

func perSecond(iters int, d time.Duration) int64 {
	if d <= 0 {
		return 0
	}
	return int64(float64(iters) / d.Seconds())
}

func resolve(ctx context.Context, cmd *cli.Command) error {
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
	log.WithField("iters", iters).Info("resolve benchmark started")
	defer log.Info("resolve benchmark finished")

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{
		"depth", "hooks", "nTimes",
		"cached", "cached/s",
		"remerged", "remerged/s",
	})

	for _, depth := range depths {
		if err := ctx.Err(); err != nil {
			return err
		}
		log.Infof("resolving chain of depth %d", depth)
		res := measureResolve(depth, iters)

		table.Append([]string{
			fmt.Sprint(depth),
			fmt.Sprint(res.hooks),
			humanize.Comma(int64(iters)),
			fmt.Sprint(res.cached / time.Duration(iters)),
			humanize.Comma(perSecond(iters, res.cached)),
			fmt.Sprint(res.remerged / time.Duration(iters)),
			humanize.Comma(perSecond(iters, res.remerged)),
		})
	}

	if !cmd.Bool(quietKey) {
		table.Render()
	}
	return nil
}
