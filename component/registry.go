package component

import (
	"sort"
	"strings"
	"unicode"
)

// Registry is a named asset table that falls back to its parent. Merging
// options creates a new Registry per level so a child can shadow entries
// without touching its ancestors.
type Registry[T any] struct {
	parent *Registry[T]
	own    map[string]T
}

func NewRegistry[T any](parent *Registry[T]) *Registry[T] {
	return &Registry[T]{
		parent: parent,
		own:    map[string]T{},
	}
}

func (r *Registry[T]) Parent() *Registry[T] {
	return r.parent
}

func (r *Registry[T]) Set(name string, v T) {
	r.own[name] = v
}

// Get looks name up as given, camelized and capitalized, first in r then in
// each ancestor.
func (r *Registry[T]) Get(name string) (v T, ok bool) {
	camel := camelize(name)
	pascal := capitalize(camel)
	for cur := r; cur != nil; cur = cur.parent {
		for _, key := range [...]string{name, camel, pascal} {
			if v, ok = cur.own[key]; ok {
				return v, true
			}
		}
	}
	return v, false
}

// HasOwn reports whether name is registered on r itself.
func (r *Registry[T]) HasOwn(name string) bool {
	_, ok := r.own[name]
	return ok
}

// Names lists own names, sorted.
func (r *Registry[T]) Names() []string {
	names := make([]string, 0, len(r.own))
	for name := range r.own {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (r *Registry[T]) extend(from *Registry[T]) {
	if from == nil {
		return
	}
	for name, v := range from.own {
		r.own[name] = v
	}
}

// flattenUntil collapses the levels of r above stop into one level. Entries
// closer to r win. If stop is not an ancestor of r only r's own entries are
// kept.
func (r *Registry[T]) flattenUntil(stop *Registry[T]) *Registry[T] {
	var levels []*Registry[T]
	cur := r
	for ; cur != nil && cur != stop; cur = cur.parent {
		levels = append(levels, cur)
	}
	if cur != stop {
		levels = levels[:1]
	}
	res := NewRegistry[T](nil)
	for i := len(levels) - 1; i >= 0; i-- {
		res.extend(levels[i])
	}
	return res
}

func mergeRegistry[T any](parent, child *Registry[T]) *Registry[T] {
	res := NewRegistry(parent)
	res.extend(child)
	return res
}

func camelize(s string) string {
	if !strings.Contains(s, "-") {
		return s
	}
	var sb strings.Builder
	upper := false
	for _, r := range s {
		if r == '-' {
			upper = true
			continue
		}
		if upper {
			r = unicode.ToUpper(r)
			upper = false
		}
		sb.WriteRune(r)
	}
	return sb.String()
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
