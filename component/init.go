package component

import (
	"sync/atomic"
	"time"

	"github.com/delaneyj/viewcore/config"
	"github.com/delaneyj/viewcore/dep"
	"github.com/delaneyj/viewcore/internal/metrics"
)

var instanceSeq uint64

// InternalOptions is what a parent hands over when it creates a child
// component while rendering.
type InternalOptions struct {
	Parent          *Instance
	ParentVnode     *VNode
	Render          RenderFunc
	StaticRenderFns []RenderFunc
}

// New creates an instance of t. opts are merged over t's resolved options.
// If opts.El is set the instance is mounted before New returns.
func New(t *Type, opts *Options, with ...Option) (*Instance, error) {
	vm := newInstance(with)
	vm.typ = t
	start := time.Now()
	vm.options = Merge(Resolve(t), opts, vm)
	return vm, vm.init(start)
}

// NewInternal creates a child instance for a component vnode. The options
// are copied straight from io over t's current options without merging.
func NewInternal(t *Type, io InternalOptions, with ...Option) (*Instance, error) {
	vm := newInstance(with)
	vm.typ = t
	start := time.Now()
	vm.options = internalOptions(t, io)
	return vm, vm.init(start)
}

func newInstance(with []Option) *Instance {
	vm := &Instance{
		uid: atomic.AddUint64(&instanceSeq, 1),
	}
	for _, opt := range with {
		opt(vm)
	}
	return vm
}

func internalOptions(t *Type, io InternalOptions) *Options {
	opts := t.options.clone()
	opts.version = nextVersion()

	opts.Parent = io.Parent
	opts.ParentVnode = io.ParentVnode
	if vnode := io.ParentVnode; vnode != nil && vnode.ComponentOptions != nil {
		vco := vnode.ComponentOptions
		opts.PropsData = vco.PropsData
		opts.ParentListeners = vco.Listeners
		opts.RenderChildren = vco.Children
		opts.ComponentTag = vco.Tag
	}
	if io.Render != nil {
		opts.Render = io.Render
		opts.StaticRenderFns = io.StaticRenderFns
	}
	return opts
}

// init runs the setup phases in order. Injections are resolved before state
// so data and computed can use them; provide runs after state so provided
// values can be derived from it.
func (vm *Instance) init(start time.Time) error {
	vm.initLifecycle()
	vm.initEvents()
	vm.initRender()
	vm.callHook(BeforeCreate)
	vm.initInjections()
	vm.initState()
	vm.initProvide()
	vm.callHook(Created)

	if cfg := config.Shared(); cfg.Performance && !cfg.Production {
		metrics.Default.ObserveInit(vm.Name(), time.Since(start))
	}

	if vm.options.El != "" {
		return vm.Mount(vm.options.El)
	}
	return nil
}

func (vm *Instance) initLifecycle() {
	parent := vm.options.Parent
	if parent != nil && !vm.options.Abstract {
		for parent.options.Abstract && parent.parent != nil {
			parent = parent.parent
		}
		parent.children = append(parent.children, vm)
	}

	vm.parent = parent
	vm.root = vm
	if parent != nil {
		vm.root = parent.root
		if vm.tracker == nil {
			vm.tracker = parent.tracker
		}
		if vm.scheduler == nil {
			vm.scheduler = parent.scheduler
		}
	}
	if vm.tracker == nil {
		vm.tracker = dep.NewTracker(dep.WithNotifyHook(metrics.Default.ObserveFanout))
	}
}
