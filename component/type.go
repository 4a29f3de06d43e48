package component

import (
	"fmt"
	"regexp"
	"slices"
	"sync/atomic"

	mapset "github.com/deckarep/golang-set/v2"

	"github.com/delaneyj/viewcore/internal/metrics"
)

var cidSeq uint64

// Type is a component constructor. Derived types keep a reference to their
// ancestor and resolve their options against it lazily.
type Type struct {
	cid      uint64
	ancestor *Type

	// options is the resolved options, possibly modified in place since the
	// last resolution.
	options *Options
	// extendOptions is what Extend was called with, plus modifications
	// carried over by earlier resolutions.
	extendOptions *Options
	// sealedOptions is a copy of options taken right after the last merge.
	sealedOptions *Options
	// superVersion is the version of the ancestor options options was
	// merged from.
	superVersion uint64

	derived map[*Options]*Type
}

// NewBase creates a root type. Its options are used as given; Base points
// at the type itself.
func NewBase(opts *Options) *Type {
	t := &Type{
		cid:     atomic.AddUint64(&cidSeq, 1),
		derived: map[*Options]*Type{},
	}
	o := normalize(opts).clone()
	o.Base = t
	o.touch(fBase)
	if o.Components == nil {
		o.Components = NewRegistry[*Type](nil)
	}
	if o.Directives == nil {
		o.Directives = NewRegistry[*Directive](nil)
	}
	if o.Filters == nil {
		o.Filters = NewRegistry[Filter](nil)
	}
	t.options = o
	return t
}

func (t *Type) CID() uint64 {
	return t.cid
}

func (t *Type) Ancestor() *Type {
	return t.ancestor
}

// Options returns the current options without resolving them.
func (t *Type) Options() *Options {
	return t.options
}

func (t *Type) Name() string {
	return t.options.Name
}

var validName = regexp.MustCompile(`^[a-zA-Z][\w-]*$`)

// Extend derives a new type from t. Calling Extend again with the same
// *Options returns the same derived type.
func (t *Type) Extend(opts *Options) *Type {
	if opts == nil {
		opts = &Options{}
	}
	if sub, ok := t.derived[opts]; ok {
		return sub
	}

	name := opts.Name
	if name == "" {
		name = t.options.Name
	}
	if name != "" {
		validateName(name)
	}

	super := Resolve(t)
	sub := &Type{
		cid:           atomic.AddUint64(&cidSeq, 1),
		ancestor:      t,
		extendOptions: normalize(opts).clone(),
		superVersion:  super.version,
		derived:       map[*Options]*Type{},
	}
	sub.options = Merge(super, sub.extendOptions, nil)
	if name != "" {
		sub.options.Components.Set(name, sub)
	}
	sub.seal()

	t.derived[opts] = sub
	return sub
}

func validateName(name string) {
	if !validName.MatchString(name) {
		warn(fmt.Sprintf(`invalid component name %q: component names should start with a letter and contain only alphanumerics, "-" and "_"`, name), nil)
		return
	}
	switch name {
	case "slot", "component":
		warn(fmt.Sprintf("do not use built-in or reserved elements as component id: %s", name), nil)
	}
}

// Mixin merges opts into t's options. The result is a new options object,
// so types derived from t pick it up on their next resolution.
func (t *Type) Mixin(opts *Options) *Type {
	t.options = Merge(t.options, opts, nil)
	return t
}

// AddHook appends cb to t's current options in place. Derived types do not
// see this until t's options are replaced; t keeps it across its own
// re-resolutions.
func (t *Type) AddHook(h Hook, cb *Callback) {
	t.options.Hooks[h] = append(slices.Clone(t.options.Hooks[h]), cb)
}

// SetRender swaps the render function of t's current options in place.
func (t *Type) SetRender(fn RenderFunc) {
	t.options.Render = fn
	t.options.touch(fRender)
}

func (t *Type) seal() {
	t.sealedOptions = t.options.clone()
}

// Resolve returns the effective options of t.
//
// A root type returns its own options. A derived type re-merges only when
// its ancestor's resolved options are a different object than the last
// time; otherwise the previous result is returned as is. Before
// re-merging, anything changed on t's options since they were sealed is
// folded into the extend options so it survives.
func Resolve(t *Type) *Options {
	if t.ancestor == nil {
		metrics.Default.ObserveResolve(metrics.ResolveRoot)
		return t.options
	}

	super := Resolve(t.ancestor)
	if super.version == t.superVersion {
		metrics.Default.ObserveResolve(metrics.ResolveCached)
		return t.options
	}
	metrics.Default.ObserveResolve(metrics.ResolveRemerged)

	t.superVersion = super.version
	t.carryModified()
	t.options = Merge(super, t.extendOptions, nil)
	if t.options.Name != "" {
		t.options.Components.Set(t.options.Name, t)
	}
	t.seal()
	return t.options
}

// carryModified copies every field of options that differs from the sealed
// snapshot into extendOptions.
func (t *Type) carryModified() {
	latest, sealed, ext := t.options, t.sealedOptions, t.extendOptions

	for f := field(0); f < numFields; f++ {
		if latest.stamps[f] == sealed.stamps[f] {
			continue
		}
		switch f {
		case fComponents:
			ext.Components = latest.Components.flattenUntil(sealed.Components.Parent())
			ext.stamps[f] = latest.stamps[f]
		case fDirectives:
			ext.Directives = latest.Directives.flattenUntil(sealed.Directives.Parent())
			ext.stamps[f] = latest.stamps[f]
		case fFilters:
			ext.Filters = latest.Filters.flattenUntil(sealed.Filters.Parent())
			ext.stamps[f] = latest.stamps[f]
		default:
			ext.copyField(latest, f)
		}
	}

	for h := range latest.Hooks {
		if !slices.Equal(latest.Hooks[h], sealed.Hooks[h]) {
			ext.Hooks[h] = dedupe(latest.Hooks[h], ext.Hooks[h], sealed.Hooks[h])
		}
	}
	if !slices.Equal(latest.ErrorCaptured, sealed.ErrorCaptured) {
		ext.ErrorCaptured = dedupe(latest.ErrorCaptured, ext.ErrorCaptured, sealed.ErrorCaptured)
	}
}

// dedupe keeps an entry of latest if it was declared in extended or was not
// part of the sealed list. Entries that only came in through the previous
// merge with the ancestor are dropped so the next merge does not add them
// twice.
func dedupe[T comparable](latest, extended, sealed []T) []T {
	ext := mapset.NewThreadUnsafeSet(extended...)
	prev := mapset.NewThreadUnsafeSet(sealed...)
	res := make([]T, 0, len(latest))
	for _, v := range latest {
		if ext.Contains(v) || !prev.Contains(v) {
			res = append(res, v)
		}
	}
	return res
}
