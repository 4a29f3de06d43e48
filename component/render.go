package component

import (
	"reflect"

	"github.com/delaneyj/viewcore/dep"
)

const defaultSlot = "default"

// initRender prepares slot content and the attrs/listeners passed down by
// the parent vnode. Nothing is rendered yet.
func (vm *Instance) initRender() {
	vm.vnode = nil
	vm.slots = resolveSlots(vm.options.RenderChildren, vm.options.Parent)

	var attrs map[string]any
	if pv := vm.options.ParentVnode; pv != nil && pv.Data != nil {
		attrs = pv.Data.Attrs
	}
	vm.attrs = dep.NewSlotFunc(vm.tracker, attrs, sameAttrs)
	vm.listeners = dep.NewSlot(vm.tracker, vm.options.ParentListeners)
}

// resolveSlots groups children by their slot name. Named slots only count
// when the child was rendered by the parent that owns this instance;
// anything else goes to the default slot. A default slot holding only
// whitespace is dropped.
func resolveSlots(children []*VNode, context *Instance) map[string][]*VNode {
	slots := map[string][]*VNode{}
	for _, child := range children {
		if child == nil {
			continue
		}
		if child.Data != nil && child.Data.Slot != "" && child.Context == context {
			name := child.Data.Slot
			if child.Tag == "template" {
				slots[name] = append(slots[name], child.Children...)
			} else {
				slots[name] = append(slots[name], child)
			}
			continue
		}
		slots[defaultSlot] = append(slots[defaultSlot], child)
	}

	if def, ok := slots[defaultSlot]; ok {
		allWhitespace := true
		for _, n := range def {
			if !n.isWhitespace() {
				allWhitespace = false
				break
			}
		}
		if allWhitespace {
			delete(slots, defaultSlot)
		}
	}
	return slots
}

func sameAttrs(a, b map[string]any) bool {
	return reflect.DeepEqual(a, b)
}

// render runs the render function. On failure the previous vnode is kept.
func (vm *Instance) render() *VNode {
	fn := vm.options.Render
	if fn == nil {
		return vm.vnode
	}
	var vnode *VNode
	err := invoke(func() (err error) {
		vnode, err = fn(vm)
		return err
	})
	if err != nil {
		vm.handleError(err, "render")
		return vm.vnode
	}
	if vnode != nil && vnode.Context == nil {
		vnode.Context = vm
	}
	return vnode
}
