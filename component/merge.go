package component

// Merge combines parent and child options into a new options object. vm is
// the instance being created, or nil when deriving a type.
//
// Strategies per field:
//   - hook and error-capture lists concatenate, parent first
//   - registries chain: a new level holding the child's own entries on top
//     of the parent registry
//   - Data and Provide become one factory, child keys winning
//   - Watch concatenates per key
//   - Props, Methods, Inject and Computed extend the parent map
//   - everything else takes the child value when set
func Merge(parent, child *Options, vm *Instance) *Options {
	parent = normalize(parent)
	child = normalize(child)

	if child.Extends != nil {
		parent = Merge(parent, child.Extends, vm)
	}
	for _, mixin := range child.Mixins {
		parent = Merge(parent, mixin, vm)
	}

	if vm == nil {
		if child.El != "" {
			warn(`option "el" can only be used during instance creation`, nil)
		}
		if child.PropsData != nil {
			warn(`option "propsData" can only be used during instance creation`, nil)
		}
	}

	out := &Options{version: nextVersion()}
	for h := range out.Hooks {
		out.Hooks[h] = concat(parent.Hooks[h], child.Hooks[h])
	}
	out.ErrorCaptured = concat(parent.ErrorCaptured, child.ErrorCaptured)

	out.Components = mergeRegistry(parent.Components, child.Components)
	out.Directives = mergeRegistry(parent.Directives, child.Directives)
	out.Filters = mergeRegistry(parent.Filters, child.Filters)
	out.touch(fComponents)
	out.touch(fDirectives)
	out.touch(fFilters)

	for f := field(0); f < numFields; f++ {
		switch f {
		case fComponents, fDirectives, fFilters:
			continue
		}
		if !child.isSet(f) {
			if parent.isSet(f) {
				out.copyField(parent, f)
			}
			continue
		}
		switch f {
		case fData:
			out.Data = mergeData(parent.Data, child.Data)
		case fProvide:
			out.Provide = mergeProvide(parent.Provide, child.Provide)
		case fWatch:
			out.Watch = mergeWatch(parent.Watch, child.Watch)
		case fProps:
			out.Props = extendMap(parent.Props, child.Props)
		case fMethods:
			out.Methods = extendMap(parent.Methods, child.Methods)
		case fInject:
			out.Inject = extendMap(parent.Inject, child.Inject)
		case fComputed:
			out.Computed = extendMap(parent.Computed, child.Computed)
		default:
			out.copyField(child, f)
		}
		out.touch(f)
	}
	return out
}

func concat[T any](parent, child []T) []T {
	if len(child) == 0 {
		return parent
	}
	res := make([]T, 0, len(parent)+len(child))
	res = append(res, parent...)
	return append(res, child...)
}

func extendMap[V any](parent, child map[string]V) map[string]V {
	res := make(map[string]V, len(parent)+len(child))
	for k, v := range parent {
		res[k] = v
	}
	for k, v := range child {
		res[k] = v
	}
	return res
}

func mergeWatch(parent, child map[string][]WatchHandler) map[string][]WatchHandler {
	res := make(map[string][]WatchHandler, len(parent)+len(child))
	for k, v := range parent {
		res[k] = v
	}
	for k, v := range child {
		res[k] = concat(res[k], v)
	}
	return res
}

func mergeData(parent, child DataFunc) DataFunc {
	if parent == nil {
		return child
	}
	return func(vm *Instance) (map[string]any, error) {
		to, err := child(vm)
		if err != nil {
			return nil, err
		}
		from, err := parent(vm)
		if err != nil {
			return nil, err
		}
		return mergeDataMaps(to, from), nil
	}
}

// mergeDataMaps copies keys of from that to lacks, recursing into nested
// maps present on both sides.
func mergeDataMaps(to, from map[string]any) map[string]any {
	if to == nil {
		to = map[string]any{}
	}
	for k, fromVal := range from {
		toVal, ok := to[k]
		if !ok {
			to[k] = fromVal
			continue
		}
		toMap, toOK := toVal.(map[string]any)
		fromMap, fromOK := fromVal.(map[string]any)
		if toOK && fromOK {
			mergeDataMaps(toMap, fromMap)
		}
	}
	return to
}

func mergeProvide(parent, child ProvideFunc) ProvideFunc {
	if parent == nil {
		return child
	}
	return func(vm *Instance) (map[Key]any, error) {
		to, err := child(vm)
		if err != nil {
			return nil, err
		}
		from, err := parent(vm)
		if err != nil {
			return nil, err
		}
		if to == nil {
			to = map[Key]any{}
		}
		for k, v := range from {
			if _, ok := to[k]; !ok {
				to[k] = v
			}
		}
		return to, nil
	}
}
