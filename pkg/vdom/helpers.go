package vdom

import "fmt"

// Text creates a text node.
func Text(content string) *VNode {
	return &VNode{
		Kind: KindText,
		Text: content,
	}
}

// Textf creates a formatted text node.
func Textf(format string, args ...any) *VNode {
	return Text(fmt.Sprintf(format, args...))
}

// Raw creates an unescaped HTML node.
// Use with caution - can lead to XSS if content is user-provided.
func Raw(html string) *VNode {
	return &VNode{
		Kind: KindRaw,
		Text: html,
	}
}

// Fragment groups children without a wrapper element.
func Fragment(children ...any) *VNode {
	node := &VNode{
		Kind:     KindFragment,
		Children: make([]*VNode, 0),
	}
	for _, child := range children {
		node.Children = appendChild(node.Children, child)
	}
	return node
}

// Keyed wraps node in a fragment carrying key.
func Keyed(key string, node *VNode) *VNode {
	f := Fragment(node)
	f.Key = key
	return f
}

// If returns node when condition is true, nil otherwise.
func If(condition bool, node *VNode) *VNode {
	if condition {
		return node
	}
	return nil
}

// Range maps items to nodes.
func Range[T any](items []T, fn func(item T, index int) *VNode) []*VNode {
	nodes := make([]*VNode, 0, len(items))
	for i, item := range items {
		if n := fn(item, i); n != nil {
			nodes = append(nodes, n)
		}
	}
	return nodes
}

// Walk visits node and its descendants depth-first. Components are expanded
// by calling Render. Returning false from fn skips the node's children.
func Walk(node *VNode, fn func(*VNode) bool) {
	if node == nil {
		return
	}
	if !fn(node) {
		return
	}
	if node.Kind == KindComponent && node.Comp != nil {
		Walk(node.Comp.Render(), fn)
		return
	}
	for _, c := range node.Children {
		Walk(c, fn)
	}
}

// FindAll returns every descendant element whose prop key equals value.
func FindAll(root *VNode, key string, value any) []*VNode {
	var out []*VNode
	Walk(root, func(n *VNode) bool {
		if v, ok := n.Attr(key); ok && v == value {
			out = append(out, n)
		}
		return true
	})
	return out
}

// TextContent concatenates the text of node and its descendants.
func TextContent(node *VNode) string {
	var s string
	Walk(node, func(n *VNode) bool {
		if n.Kind == KindText {
			s += n.Text
		}
		return true
	})
	return s
}
