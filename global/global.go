// Package global wires up the process-wide root component type: its asset
// registries, the built-in components and the shared configuration.
package global

import (
	"fmt"
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/delaneyj/viewcore/component"
	"github.com/delaneyj/viewcore/config"
	"github.com/delaneyj/viewcore/dep"
	"github.com/delaneyj/viewcore/internal/metrics"
)

const Version = "0.1.0"

// Util is a grab bag of internals. Not part of the stable API.
type Util struct {
	Warn           func(msg string, vm *component.Instance)
	Extend         func(to, from map[string]any) map[string]any
	MergeOptions   func(parent, child *component.Options, vm *component.Instance) *component.Options
	DefineReactive func(t *dep.Tracker, value any) *dep.Slot[any]
}

// Plugin extends a Global. Install runs at most once per plugin value, so
// plugin values must be comparable; pointer types always are.
type Plugin interface {
	Install(g *Global, args ...any) error
}

// PluginFunc adapts a function to Plugin. Function values are not
// comparable, so wrap it in a pointer to get Use's once-only behaviour.
type PluginFunc func(g *Global, args ...any) error

func (f *PluginFunc) Install(g *Global, args ...any) error {
	return (*f)(g, args...)
}

type Global struct {
	Root *component.Type
	Util Util

	tracker   *dep.Tracker
	queue     *dep.Queue
	installed []Plugin
	named     map[namedOptions]*component.Options
}

// namedOptions keys the named copies Component makes of unnamed options.
type namedOptions struct {
	opts *component.Options
	name string
}

var (
	instance *Global
	once     sync.Once
)

// Bootstrap returns the process-wide Global, creating it on first use.
func Bootstrap() *Global {
	once.Do(func() {
		instance = New()
	})
	return instance
}

// New creates an independent Global. Most callers want Bootstrap.
func New() *Global {
	components := component.NewRegistry[*component.Type](nil)
	directives := component.NewRegistry[*component.Directive](nil)
	for _, d := range builtInDirectives() {
		directives.Set(d.Name, d)
	}

	root := component.NewBase(&component.Options{
		Components: components,
		Directives: directives,
		Filters:    component.NewRegistry[component.Filter](nil),
	})
	for name, t := range builtInComponents(root) {
		components.Set(name, t)
	}

	return &Global{
		Root:    root,
		tracker: dep.NewTracker(dep.WithNotifyHook(metrics.Default.ObserveFanout)),
		queue:   dep.NewQueue(),
		Util: Util{
			Warn:           component.Warn,
			Extend:         extend,
			MergeOptions:   component.Merge,
			DefineReactive: component.DefineReactive,
		},
	}
}

func extend(to, from map[string]any) map[string]any {
	if to == nil {
		to = map[string]any{}
	}
	for k, v := range from {
		to[k] = v
	}
	return to
}

// Config returns the shared configuration. Change it field by field.
func (g *Global) Config() *config.Config {
	return config.Shared()
}

// ReplaceConfig never replaces the shared configuration. Outside production
// it warns so the caller knows the assignment had no effect.
func (g *Global) ReplaceConfig(*config.Config) {
	if config.Shared().Production {
		return
	}
	component.Warn("do not replace the config object, set individual fields instead", nil)
}

// Options returns the root type's current options.
func (g *Global) Options() *component.Options {
	return component.Resolve(g.Root)
}

func (g *Global) Extend(opts *component.Options) *component.Type {
	return g.Root.Extend(opts)
}

// Mixin merges opts into the root options. Every type derived from the
// root picks the change up on its next resolution.
func (g *Global) Mixin(opts *component.Options) *Global {
	g.Root.Mixin(opts)
	return g
}

// Tracker is the current-reader context shared by every instance the
// Global creates.
func (g *Global) Tracker() *dep.Tracker {
	return g.tracker
}

// Reactive wraps value in a slot bound to the Global's tracker, so
// instances created by New depend on it when they read it.
func (g *Global) Reactive(value any) *dep.Slot[any] {
	return g.Util.DefineReactive(g.tracker, value)
}

// New creates a root instance. Instances share the Global's tracker and
// scheduler queue unless with overrides them.
func (g *Global) New(t *component.Type, opts *component.Options, with ...component.Option) (*component.Instance, error) {
	if t == nil {
		t = g.Root
	}
	with = append([]component.Option{
		component.WithTracker(g.tracker),
		component.WithScheduler(g.queue.Schedule),
	}, with...)
	return component.New(t, opts, with...)
}

// NextTick runs fn after pending watchers were flushed. Call Flush to
// drain the queue.
func (g *Global) NextTick(fn func()) {
	g.queue.NextTick(fn)
}

// Flush runs every queued watcher and then the NextTick callbacks.
func (g *Global) Flush() error {
	return g.queue.Flush()
}

// Batch runs fn and flushes once afterwards.
func (g *Global) Batch(fn func()) error {
	return g.queue.Batch(fn)
}

// Component registers a global component. A nil opts looks the name up
// instead. Options without a Name get name.
func (g *Global) Component(name string, opts *component.Options) (*component.Type, bool) {
	if opts == nil {
		return g.Root.Options().Components.Get(name)
	}
	if opts.Name == "" {
		key := namedOptions{opts, name}
		named, ok := g.named[key]
		if !ok {
			copied := *opts
			copied.Name = name
			named = &copied
			if g.named == nil {
				g.named = map[namedOptions]*component.Options{}
			}
			g.named[key] = named
		}
		opts = named
	}
	t := g.Root.Extend(opts)
	g.Root.Options().Components.Set(name, t)
	return t, true
}

// Directive registers or, with a nil d, looks up a global directive.
func (g *Global) Directive(name string, d *component.Directive) (*component.Directive, bool) {
	if d == nil {
		return g.Root.Options().Directives.Get(name)
	}
	g.Root.Options().Directives.Set(name, d)
	return d, true
}

// Filter registers or, with a nil f, looks up a global filter.
func (g *Global) Filter(name string, f component.Filter) (component.Filter, bool) {
	if f == nil {
		return g.Root.Options().Filters.Get(name)
	}
	g.Root.Options().Filters.Set(name, f)
	return f, true
}

// Use installs p unless it was installed before.
func (g *Global) Use(p Plugin, args ...any) error {
	for _, installed := range g.installed {
		if installed == p {
			return nil
		}
	}
	if err := p.Install(g, args...); err != nil {
		return fmt.Errorf("installing plugin %T: %w", p, err)
	}
	g.installed = append(g.installed, p)
	return nil
}

// RegisterMetrics registers the core's prometheus collectors with reg.
func (g *Global) RegisterMetrics(reg prometheus.Registerer) error {
	return metrics.Default.Register(reg)
}
