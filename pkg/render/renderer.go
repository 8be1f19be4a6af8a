package render

import (
	"bytes"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/vango-dev/ovan/pkg/vdom"
)

// booleanAttrs render as a bare attribute name when true and are omitted when false.
var booleanAttrs = map[string]bool{
	"hidden":   true,
	"disabled": true,
	"inert":    true,
	"open":     true,
}

// RendererConfig configures the HTML renderer.
type RendererConfig struct {
	// KeyAttr emits data-key="..." on elements and on the first element
	// child of keyed fragments.
	KeyAttr bool
}

// Renderer handles rendering of VNode trees to HTML.
type Renderer struct {
	config RendererConfig
}

// NewRenderer creates a new Renderer with the given configuration.
func NewRenderer(config RendererConfig) *Renderer {
	return &Renderer{config: config}
}

// RenderToString renders a VNode tree to an HTML string.
func (r *Renderer) RenderToString(node *vdom.VNode) (string, error) {
	var buf bytes.Buffer
	if err := r.RenderToWriter(&buf, node); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// RenderToWriter streams a VNode tree to the given writer.
func (r *Renderer) RenderToWriter(w io.Writer, node *vdom.VNode) error {
	return r.renderNode(w, node, "")
}

// String renders node with the default configuration, returning "" on error.
func String(node *vdom.VNode) string {
	s, err := NewRenderer(RendererConfig{}).RenderToString(node)
	if err != nil {
		return ""
	}
	return s
}

// renderNode dispatches rendering based on node kind. inheritedKey is the
// key of an enclosing keyed fragment not yet written out.
func (r *Renderer) renderNode(w io.Writer, node *vdom.VNode, inheritedKey string) error {
	if node == nil {
		return nil
	}

	switch node.Kind {
	case vdom.KindElement:
		key := node.Key
		if key == "" {
			key = inheritedKey
		}
		return r.renderElement(w, node, key)
	case vdom.KindText:
		_, err := io.WriteString(w, escapeHTML(node.Text))
		return err
	case vdom.KindFragment:
		key := node.Key
		if key == "" {
			key = inheritedKey
		}
		for i, child := range node.Children {
			k := ""
			if i == 0 {
				k = key
			}
			if err := r.renderNode(w, child, k); err != nil {
				return err
			}
		}
		return nil
	case vdom.KindComponent:
		if node.Comp == nil {
			return nil
		}
		return r.renderNode(w, node.Comp.Render(), inheritedKey)
	case vdom.KindRaw:
		_, err := io.WriteString(w, node.Text)
		return err
	default:
		return fmt.Errorf("unknown node kind: %d", node.Kind)
	}
}

// renderElement renders an HTML element with its attributes and children.
func (r *Renderer) renderElement(w io.Writer, node *vdom.VNode, key string) error {
	if node.Tag == "" {
		return fmt.Errorf("element without tag")
	}

	if _, err := fmt.Fprintf(w, "<%s", node.Tag); err != nil {
		return err
	}
	if r.config.KeyAttr && key != "" {
		if _, err := fmt.Fprintf(w, ` data-key="%s"`, escapeAttr(key)); err != nil {
			return err
		}
	}
	if err := r.renderAttributes(w, node); err != nil {
		return err
	}
	if _, err := io.WriteString(w, ">"); err != nil {
		return err
	}

	if vdom.IsVoidElement(node.Tag) {
		return nil
	}

	for _, child := range node.Children {
		if err := r.renderNode(w, child, ""); err != nil {
			return err
		}
	}

	_, err := fmt.Fprintf(w, "</%s>", node.Tag)
	return err
}

// renderAttributes renders all attributes for an element in sorted order.
func (r *Renderer) renderAttributes(w io.Writer, node *vdom.VNode) error {
	if len(node.Props) == 0 {
		return nil
	}

	keys := make([]string, 0, len(node.Props))
	for key := range node.Props {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		if strings.HasPrefix(key, "_") {
			continue
		}
		value := node.Props[key]

		if booleanAttrs[key] {
			if b, ok := value.(bool); ok {
				if b {
					if _, err := fmt.Fprintf(w, " %s", key); err != nil {
						return err
					}
				}
				continue
			}
		}

		s := attrToString(value)
		if s == "" {
			continue
		}
		if _, err := fmt.Fprintf(w, ` %s="%s"`, key, escapeAttr(s)); err != nil {
			return err
		}
	}
	return nil
}

func attrToString(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case bool:
		if v {
			return "true"
		}
		return "false"
	case int:
		return fmt.Sprintf("%d", v)
	case int64:
		return fmt.Sprintf("%d", v)
	case float64:
		return fmt.Sprintf("%g", v)
	default:
		return fmt.Sprintf("%v", v)
	}
}
