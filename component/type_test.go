package component_test

import (
	"testing"

	"github.com/delaneyj/viewcore/component"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveRootReturnsOwnOptions(t *testing.T) {
	base := component.NewBase(&component.Options{Name: "root"})
	assert.Same(t, base.Options(), component.Resolve(base))
	assert.Same(t, base, base.Options().Base)
}

func TestResolveIsCachedWhileAncestorUnchanged(t *testing.T) {
	base := component.NewBase(nil)
	a := base.Extend(&component.Options{Name: "a"})
	b := a.Extend(&component.Options{Name: "b"})

	first := component.Resolve(b)
	second := component.Resolve(b)
	assert.Same(t, first, second)
	assert.Equal(t, first.Version(), second.Version())
}

func TestExtendCachesPerOptions(t *testing.T) {
	base := component.NewBase(nil)
	opts := &component.Options{Name: "item"}

	first := base.Extend(opts)
	assert.Same(t, first, base.Extend(opts))
	assert.NotSame(t, first, base.Extend(&component.Options{Name: "item"}))
	assert.Same(t, base, first.Ancestor())
	assert.NotEqual(t, base.CID(), first.CID())
}

func TestExtendRegistersItselfByName(t *testing.T) {
	base := component.NewBase(nil)
	item := base.Extend(&component.Options{Name: "todo-item"})

	got, ok := item.Options().Components.Get("todo-item")
	require.True(t, ok)
	assert.Same(t, item, got)
	got, ok = item.Options().Components.Get("TodoItem")
	require.True(t, ok)
	assert.Same(t, item, got)

	_, ok = base.Options().Components.Get("todo-item")
	assert.False(t, ok)
}

func TestExtendInheritsAncestorName(t *testing.T) {
	base := component.NewBase(nil)
	a := base.Extend(&component.Options{Name: "a"})
	b := a.Extend(&component.Options{})

	assert.Equal(t, "a", b.Name())
	got, ok := b.Options().Components.Get("a")
	require.True(t, ok)
	assert.Same(t, b, got)
}

func TestExtendWarnsOnInvalidNames(t *testing.T) {
	w := captureWarnings(t)
	base := component.NewBase(nil)

	base.Extend(&component.Options{Name: "1abc"})
	base.Extend(&component.Options{Name: "slot"})
	base.Extend(&component.Options{Name: "fine-name"})
	require.Len(t, w.msgs, 2)
	assert.Contains(t, w.msgs[0], "invalid component name")
	assert.Contains(t, w.msgs[1], "reserved")
}

func TestResolvePicksUpAncestorMixin(t *testing.T) {
	h1, h2, h3 := noop(), noop(), noop()
	base := component.NewBase(nil)
	a := base.Extend(&component.Options{Hooks: hooks(component.Created, h1)})
	b := a.Extend(&component.Options{Hooks: hooks(component.Created, h2)})
	assert.Equal(t, []*component.Callback{h1, h2}, component.Resolve(b).Hooks[component.Created])

	before := component.Resolve(b)
	a.Mixin(&component.Options{Hooks: hooks(component.Created, h3)})

	after := component.Resolve(b)
	assert.NotSame(t, before, after)
	assert.Equal(t, []*component.Callback{h1, h3, h2}, after.Hooks[component.Created])
	assert.Same(t, after, component.Resolve(b))
}

func TestResolveKeepsLocalHooksWithoutDuplicates(t *testing.T) {
	h1, h2, h3, h4 := noop(), noop(), noop(), noop()
	base := component.NewBase(nil)
	a := base.Extend(&component.Options{Hooks: hooks(component.Created, h1)})
	b := a.Extend(&component.Options{Hooks: hooks(component.Created, h2)})
	component.Resolve(b)

	b.AddHook(component.Created, h4)
	a.Mixin(&component.Options{Hooks: hooks(component.Created, h3)})

	got := component.Resolve(b).Hooks[component.Created]
	assert.Equal(t, []*component.Callback{h1, h3, h2, h4}, got)

	// A second ancestor change must not duplicate h4.
	h5 := noop()
	base.Mixin(&component.Options{Hooks: hooks(component.Created, h5)})
	got = component.Resolve(b).Hooks[component.Created]
	assert.Equal(t, []*component.Callback{h5, h1, h3, h2, h4}, got)
}

func TestResolveKeepsLocallyModifiedFields(t *testing.T) {
	base := component.NewBase(nil)
	a := base.Extend(&component.Options{Name: "a"})
	b := a.Extend(&component.Options{Name: "b"})

	render := func(*component.Instance) (*component.VNode, error) {
		return &component.VNode{Text: "patched"}, nil
	}
	b.SetRender(render)
	a.Mixin(&component.Options{Methods: map[string]component.Method{
		"hello": func(*component.Instance, ...any) (any, error) { return "hi", nil },
	}})

	opts := component.Resolve(b)
	require.NotNil(t, opts.Render)
	vnode, err := opts.Render(nil)
	require.NoError(t, err)
	assert.Equal(t, "patched", vnode.Text)
	assert.Contains(t, opts.Methods, "hello")
	assert.Equal(t, "b", opts.Name)
}

func TestResolveKeepsLocallyRegisteredComponents(t *testing.T) {
	base := component.NewBase(nil)
	child := base.Extend(&component.Options{Name: "child"})
	a := base.Extend(&component.Options{Name: "a"})
	b := a.Extend(&component.Options{Name: "b"})

	b.Mixin(&component.Options{Components: func() *component.Registry[*component.Type] {
		r := component.NewRegistry[*component.Type](nil)
		r.Set("local", child)
		return r
	}()})
	a.Mixin(&component.Options{})

	comps := component.Resolve(b).Components
	for _, name := range []string{"local", "b", "a"} {
		_, ok := comps.Get(name)
		assert.True(t, ok, name)
	}
}

func TestMixinOnBaseReachesDeepDescendants(t *testing.T) {
	base := component.NewBase(nil)
	leaf := base.Extend(nil).Extend(nil).Extend(nil)
	component.Resolve(leaf)

	created := noop()
	base.Mixin(&component.Options{Hooks: hooks(component.Created, created)})
	assert.Equal(t, []*component.Callback{created}, component.Resolve(leaf).Hooks[component.Created])
}
