package vdom

// voidElements are elements that cannot have children.
var voidElements = map[string]bool{
	"area":  true,
	"br":    true,
	"hr":    true,
	"img":   true,
	"input": true,
	"link":  true,
	"meta":  true,
	"wbr":   true,
}

// IsVoidElement returns true if the tag is a void element.
func IsVoidElement(tag string) bool {
	return voidElements[tag]
}

// El creates an element. Arguments can be: nil, Attr, []Attr, *VNode,
// []*VNode, Component or string (text child).
func El(tag string, args ...any) *VNode {
	node := &VNode{
		Kind:     KindElement,
		Tag:      tag,
		Props:    make(Props),
		Children: make([]*VNode, 0),
	}

	for _, arg := range args {
		switch v := arg.(type) {
		case nil:
			continue
		case Attr:
			node.setAttr(v)
		case []Attr:
			for _, a := range v {
				node.setAttr(a)
			}
		default:
			node.Children = appendChild(node.Children, arg)
		}
	}

	return node
}

func (v *VNode) setAttr(a Attr) {
	if a.IsEmpty() {
		return
	}
	if a.Key == "key" {
		if s, ok := a.Value.(string); ok {
			v.Key = s
		}
		return
	}
	v.Props[a.Key] = a.Value
}

// appendChild normalizes one child argument into nodes.
func appendChild(children []*VNode, child any) []*VNode {
	switch v := child.(type) {
	case *VNode:
		if v != nil {
			children = append(children, v)
		}
	case []*VNode:
		for _, c := range v {
			if c != nil {
				children = append(children, c)
			}
		}
	case string:
		children = append(children, Text(v))
	case Component:
		if v != nil {
			children = append(children, &VNode{Kind: KindComponent, Comp: v})
		}
	}
	return children
}

func Div(args ...any) *VNode      { return El("div", args...) }
func Span(args ...any) *VNode     { return El("span", args...) }
func Section(args ...any) *VNode  { return El("section", args...) }
func P(args ...any) *VNode        { return El("p", args...) }
func H2(args ...any) *VNode       { return El("h2", args...) }
func Button(args ...any) *VNode   { return El("button", args...) }
func Template(args ...any) *VNode { return El("template", args...) }
