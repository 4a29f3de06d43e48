package global

import (
	"reflect"
	"slices"
	"strconv"
	"strings"

	"github.com/delaneyj/viewcore/component"
)

// KeepAliveName is the registered name of the built-in caching component.
const KeepAliveName = "keep-alive"

// builtInComponents are registered in PascalCase so both "KeepAlive" and
// "keep-alive" resolve.
func builtInComponents(root *component.Type) map[string]*component.Type {
	return map[string]*component.Type{
		"KeepAlive": root.Extend(keepAliveOptions()),
	}
}

// keepAliveCache remembers the last vnode rendered for each child
// component, evicting the least recently used one beyond max.
type keepAliveCache struct {
	vnodes map[string]*component.VNode
	keys   []string
}

func (c *keepAliveCache) put(key string, vnode *component.VNode, limit int) {
	if _, ok := c.vnodes[key]; ok {
		c.touch(key)
		c.vnodes[key] = vnode
		return
	}
	c.vnodes[key] = vnode
	c.keys = append(c.keys, key)
	if limit > 0 && len(c.keys) > limit {
		oldest := c.vnodes[c.keys[0]]
		if oldest != nil && oldest.ComponentInstance != nil && oldest.ComponentInstance != vnode.ComponentInstance {
			oldest.ComponentInstance.Destroy()
		}
		c.remove(c.keys[0])
	}
}

func (c *keepAliveCache) remove(key string) {
	delete(c.vnodes, key)
	if i := slices.Index(c.keys, key); i >= 0 {
		c.keys = slices.Delete(c.keys, i, i+1)
	}
}

func (c *keepAliveCache) touch(key string) {
	if i := slices.Index(c.keys, key); i >= 0 {
		c.keys = append(slices.Delete(c.keys, i, i+1), key)
	}
}

func keepAliveOptions() *component.Options {
	patternType := reflect.TypeOf((*any)(nil)).Elem()
	var hooks component.Hooks
	hooks[component.Destroyed] = []*component.Callback{component.NewCallback(func(vm *component.Instance) error {
		if c := cacheOf(vm); c != nil {
			pruneCache(c, nil, func(string) bool { return false })
		}
		return nil
	})}
	return &component.Options{
		Name:     KeepAliveName,
		Abstract: true,
		Props: map[string]component.PropOptions{
			"include": {Type: patternType},
			"exclude": {Type: patternType},
			"max":     {Type: reflect.TypeOf(0)},
		},
		Data: func(*component.Instance) (map[string]any, error) {
			return map[string]any{
				"cache": &keepAliveCache{vnodes: map[string]*component.VNode{}},
			}, nil
		},
		Watch: map[string][]component.WatchHandler{
			"include": {{Handler: func(vm *component.Instance, v, _ any) error {
				if c := cacheOf(vm); c != nil && v != nil {
					pruneCache(c, vm.VNode(), func(name string) bool { return matches(v, name) })
				}
				return nil
			}}},
			"exclude": {{Handler: func(vm *component.Instance, v, _ any) error {
				if c := cacheOf(vm); c != nil && v != nil {
					pruneCache(c, vm.VNode(), func(name string) bool { return !matches(v, name) })
				}
				return nil
			}}},
		},
		Hooks:  hooks,
		Render: renderKeepAlive,
	}
}

func cacheOf(vm *component.Instance) *keepAliveCache {
	cache, _ := vm.Lookup("cache")
	c, _ := cache.(*keepAliveCache)
	return c
}

func componentName(co *component.VNodeComponentOptions) string {
	if co.Type != nil && co.Type.Name() != "" {
		return co.Type.Name()
	}
	return co.Tag
}

// pruneCache drops every entry whose component name fails keep, destroying
// its instance unless it belongs to current.
func pruneCache(c *keepAliveCache, current *component.VNode, keep func(name string) bool) {
	for _, key := range slices.Clone(c.keys) {
		cached := c.vnodes[key]
		if cached == nil || cached.ComponentOptions == nil || keep(componentName(cached.ComponentOptions)) {
			continue
		}
		if inst := cached.ComponentInstance; inst != nil && (current == nil || current.ComponentInstance != inst) {
			inst.Destroy()
		}
		c.remove(key)
	}
}

// renderKeepAlive renders the first component child of the default slot.
// Children matching include and not matching exclude are cached by
// component id and tag; a cached child keeps its component instance.
func renderKeepAlive(vm *component.Instance) (*component.VNode, error) {
	vnode := firstComponentChild(vm.Slots()["default"])
	if vnode == nil {
		return nil, nil
	}
	co := vnode.ComponentOptions
	name := componentName(co)

	include, _ := vm.Lookup("include")
	exclude, _ := vm.Lookup("exclude")
	if (include != nil && !matches(include, name)) || (exclude != nil && matches(exclude, name)) {
		return vnode, nil
	}

	c := cacheOf(vm)
	if c == nil {
		return vnode, nil
	}
	maxProp, _ := vm.Lookup("max")
	limit, _ := maxProp.(int)

	key := co.Tag
	if co.Type != nil {
		key = strconv.FormatUint(co.Type.CID(), 10) + "::" + co.Tag
	}
	if cached, ok := c.vnodes[key]; ok && vnode.ComponentInstance == nil {
		vnode.ComponentInstance = cached.ComponentInstance
	}
	c.put(key, vnode, limit)
	return vnode, nil
}

func firstComponentChild(children []*component.VNode) *component.VNode {
	for _, c := range children {
		if c != nil && c.ComponentOptions != nil {
			return c
		}
	}
	return nil
}

// matches accepts a comma separated string or a []string of names.
func matches(pattern any, name string) bool {
	switch p := pattern.(type) {
	case string:
		for _, part := range strings.Split(p, ",") {
			if strings.TrimSpace(part) == name {
				return true
			}
		}
	case []string:
		return slices.Contains(p, name)
	}
	return false
}

// Visibility is implemented by elements the show directive can toggle.
type Visibility interface {
	SetVisible(visible bool)
}

// ValueSetter is implemented by elements the model directive can write.
type ValueSetter interface {
	SetValue(value any)
}

func builtInDirectives() []*component.Directive {
	show := func(el any, value any, _ *component.VNode) {
		if v, ok := el.(Visibility); ok {
			v.SetVisible(truthy(value))
		}
	}
	model := func(el any, value any, _ *component.VNode) {
		if v, ok := el.(ValueSetter); ok {
			v.SetValue(value)
		}
	}
	return []*component.Directive{
		{Name: "show", Bind: show, Update: show},
		{Name: "model", Bind: model, Update: model},
	}
}

func truthy(v any) bool {
	if v == nil {
		return false
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Bool:
		return rv.Bool()
	case reflect.String:
		return rv.Len() > 0
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int() != 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return rv.Uint() != 0
	case reflect.Float32, reflect.Float64:
		return rv.Float() != 0
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice:
		return !rv.IsNil()
	}
	return true
}
