package component

// VNode is the minimal render-tree node the core needs to know about:
// enough to carry slot content and the options of a child component.
type VNode struct {
	Tag      string
	Text     string
	Data     *VNodeData
	Children []*VNode

	// Context is the instance whose render produced this node.
	Context *Instance

	ComponentOptions *VNodeComponentOptions
	// ComponentInstance is the child instance created for this node, if any.
	// KeepAlive carries it over from the cached node on re-render.
	ComponentInstance *Instance
}

type VNodeData struct {
	Slot  string
	Attrs map[string]any
}

// VNodeComponentOptions is what a parent render hands to a child component.
type VNodeComponentOptions struct {
	Type      *Type
	PropsData map[string]any
	Listeners map[string][]*Listener
	Children  []*VNode
	Tag       string
}

func (v *VNode) isWhitespace() bool {
	if v.Tag != "" || v.ComponentOptions != nil {
		return false
	}
	for _, r := range v.Text {
		switch r {
		case ' ', '\t', '\n', '\r':
		default:
			return false
		}
	}
	return true
}
