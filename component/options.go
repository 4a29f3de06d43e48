package component

import (
	"reflect"
	"slices"
	"sync/atomic"

	"github.com/delaneyj/viewcore/dep"
)

// Hook names a lifecycle extension point.
type Hook int

const (
	BeforeCreate Hook = iota
	Created
	BeforeMount
	Mounted
	BeforeUpdate
	Updated
	Activated
	Deactivated
	BeforeDestroy
	Destroyed
	numHooks
)

var hookNames = [numHooks]string{
	"beforeCreate",
	"created",
	"beforeMount",
	"mounted",
	"beforeUpdate",
	"updated",
	"activated",
	"deactivated",
	"beforeDestroy",
	"destroyed",
}

func (h Hook) String() string {
	if h < 0 || h >= numHooks {
		return "unknown"
	}
	return hookNames[h]
}

// Callback is one lifecycle handler. Callbacks are compared by pointer, so
// the same *Callback merged in twice is recognised as the same handler.
type Callback struct {
	Fn func(vm *Instance) error
}

func NewCallback(fn func(vm *Instance) error) *Callback {
	return &Callback{Fn: fn}
}

// Hooks holds one ordered callback list per Hook.
type Hooks [numHooks][]*Callback

// ErrorCapture is called with errors raised by descendants. Returning false
// stops propagation.
type ErrorCapture struct {
	Fn func(err error, vm *Instance, info string) bool
}

type (
	DataFunc    func(vm *Instance) (map[string]any, error)
	ProvideFunc func(vm *Instance) (map[Key]any, error)
	RenderFunc  func(vm *Instance) (*VNode, error)
	Method      func(vm *Instance, args ...any) (any, error)
	Filter      func(value any, args ...any) any
)

type PropOptions struct {
	Type        reflect.Type
	Required    bool
	Default     any
	DefaultFunc func(vm *Instance) any
	Validator   func(value any) bool
}

type ComputedDef struct {
	Get func(vm *Instance) (any, error)
	Set func(vm *Instance, value any) error
}

type WatchHandler struct {
	Handler   func(vm *Instance, newValue, oldValue any) error
	Immediate bool
	Sync      bool
}

type InjectOptions struct {
	// From defaults to NewKey of the inject name.
	From    Key
	Default any
	// HasDefault marks Default as declared even when it is nil.
	HasDefault  bool
	DefaultFunc func(vm *Instance) any
}

func (o InjectOptions) hasDefault() bool {
	return o.HasDefault || o.Default != nil || o.DefaultFunc != nil
}

type Directive struct {
	Name   string
	Bind   func(el any, value any, vnode *VNode)
	Update func(el any, value any, vnode *VNode)
	Unbind func(el any, vnode *VNode)
}

// Options is the declarative description of a component type or instance.
//
// Values built by hand are normalised the first time they pass through
// Merge, Extend or NewBase. Normalised values carry a version (identity of
// the whole object) and a stamp per field, which is how resolution tells
// whether an ancestor or a field changed.
type Options struct {
	Name          string
	Hooks         Hooks
	ErrorCaptured []*ErrorCapture

	Components *Registry[*Type]
	Directives *Registry[*Directive]
	Filters    *Registry[Filter]

	Data     DataFunc
	Props    map[string]PropOptions
	Computed map[string]ComputedDef
	Methods  map[string]Method
	Watch    map[string][]WatchHandler
	Inject   map[string]InjectOptions
	Provide  ProvideFunc

	Render          RenderFunc
	StaticRenderFns []RenderFunc
	El              string
	Abstract        bool

	Extends *Options
	Mixins  []*Options

	// Base is the root type every type derives from.
	Base *Type

	// Only meaningful when creating an instance.
	Parent          *Instance
	PropsData       map[string]any
	ParentVnode     *VNode
	ParentListeners map[string][]*Listener
	RenderChildren  []*VNode
	ComponentTag    string

	version uint64
	stamps  [numFields]uint64
}

type field int

const (
	fName field = iota
	fComponents
	fDirectives
	fFilters
	fData
	fProps
	fComputed
	fMethods
	fWatch
	fInject
	fProvide
	fRender
	fStaticRenderFns
	fEl
	fAbstract
	fBase
	fParent
	fPropsData
	fParentVnode
	fParentListeners
	fRenderChildren
	fComponentTag
	numFields
)

var versionSeq uint64

func nextVersion() uint64 {
	return atomic.AddUint64(&versionSeq, 1)
}

// Version identifies this options object. Resolution compares versions
// instead of contents.
func (o *Options) Version() uint64 {
	return o.version
}

func (o *Options) normalized() bool {
	return o.version != 0
}

func (o *Options) isSet(f field) bool {
	switch f {
	case fName:
		return o.Name != ""
	case fComponents:
		return o.Components != nil
	case fDirectives:
		return o.Directives != nil
	case fFilters:
		return o.Filters != nil
	case fData:
		return o.Data != nil
	case fProps:
		return o.Props != nil
	case fComputed:
		return o.Computed != nil
	case fMethods:
		return o.Methods != nil
	case fWatch:
		return o.Watch != nil
	case fInject:
		return o.Inject != nil
	case fProvide:
		return o.Provide != nil
	case fRender:
		return o.Render != nil
	case fStaticRenderFns:
		return o.StaticRenderFns != nil
	case fEl:
		return o.El != ""
	case fAbstract:
		return o.Abstract
	case fBase:
		return o.Base != nil
	case fParent:
		return o.Parent != nil
	case fPropsData:
		return o.PropsData != nil
	case fParentVnode:
		return o.ParentVnode != nil
	case fParentListeners:
		return o.ParentListeners != nil
	case fRenderChildren:
		return o.RenderChildren != nil
	case fComponentTag:
		return o.ComponentTag != ""
	}
	return false
}

// copyField copies field f, value and stamp, from src into o.
func (o *Options) copyField(src *Options, f field) {
	switch f {
	case fName:
		o.Name = src.Name
	case fComponents:
		o.Components = src.Components
	case fDirectives:
		o.Directives = src.Directives
	case fFilters:
		o.Filters = src.Filters
	case fData:
		o.Data = src.Data
	case fProps:
		o.Props = src.Props
	case fComputed:
		o.Computed = src.Computed
	case fMethods:
		o.Methods = src.Methods
	case fWatch:
		o.Watch = src.Watch
	case fInject:
		o.Inject = src.Inject
	case fProvide:
		o.Provide = src.Provide
	case fRender:
		o.Render = src.Render
	case fStaticRenderFns:
		o.StaticRenderFns = src.StaticRenderFns
	case fEl:
		o.El = src.El
	case fAbstract:
		o.Abstract = src.Abstract
	case fBase:
		o.Base = src.Base
	case fParent:
		o.Parent = src.Parent
	case fPropsData:
		o.PropsData = src.PropsData
	case fParentVnode:
		o.ParentVnode = src.ParentVnode
	case fParentListeners:
		o.ParentListeners = src.ParentListeners
	case fRenderChildren:
		o.RenderChildren = src.RenderChildren
	case fComponentTag:
		o.ComponentTag = src.ComponentTag
	}
	o.stamps[f] = src.stamps[f]
}

// normalize returns a stamped copy of o, or o itself if it already is.
func normalize(o *Options) *Options {
	if o == nil {
		o = &Options{}
	}
	if o.normalized() {
		return o
	}
	out := o.clone()
	out.version = nextVersion()
	for f := field(0); f < numFields; f++ {
		if out.isSet(f) {
			out.stamps[f] = nextVersion()
		}
	}
	return out
}

// clone is a shallow copy that keeps version and stamps. Callback lists are
// copied so appending to one copy never shows up in the other.
func (o *Options) clone() *Options {
	out := *o
	for h := range out.Hooks {
		out.Hooks[h] = slices.Clone(o.Hooks[h])
	}
	out.ErrorCaptured = slices.Clone(o.ErrorCaptured)
	out.Mixins = slices.Clone(o.Mixins)
	return &out
}

// touch gives field f a fresh stamp after an in-place change.
func (o *Options) touch(f field) {
	o.stamps[f] = nextVersion()
}

// DefineReactive wraps value in a tracked slot bound to t.
func DefineReactive(t *dep.Tracker, value any) *dep.Slot[any] {
	return dep.NewSlot[any](t, value)
}
