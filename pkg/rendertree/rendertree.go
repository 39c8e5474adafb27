// Package rendertree builds the render tree: the DOM filtered down to
// visible boxes, with computed style propagated (cascaded value or, for the
// inherited subset of properties, the nearest ancestor's resolved value).
//
// This is the bridge between the out-of-scope HTML/CSS parsers
// (pkg/html, pkg/css) and the in-scope layout stage: it owns display:none
// filtering, whitespace normalization and the text-node style/parentage
// rules.
package rendertree

import (
	"strings"

	"tessera/pkg/css"
	"tessera/pkg/html"
	"tessera/pkg/style"
)

// NodeID addresses one render node within a Tree. It is monotonic and
// scoped to the Tree that created it.
type NodeID int

// Kind distinguishes the two render-node shapes the pipeline cares about.
type Kind int

const (
	KindElement Kind = iota
	KindText
)

// Node is one entry in the render tree: a DOM node (element or text) paired
// with its resolved style.
type Node struct {
	ID    NodeID
	Kind  Kind
	DOM   *html.Node // back-reference to the originating DOM node
	Tag   string     // lowercased tag name, empty for text nodes
	Text  string      // normalized text content, only set for KindText
	Raw   *css.Style  // cascade + inheritance applied, still string-keyed
	Style *style.Computed

	Parent   NodeID // -1 for a tree root
	Children []NodeID
}

// Tree is the arena owning every render node produced by one Build call.
type Tree struct {
	nodes []*Node
	roots []NodeID

	domIndex map[*html.Node]NodeID
	doc      *html.Document
}

const NoNode NodeID = -1

// Node returns the node for id, or nil if id is out of range.
func (t *Tree) Node(id NodeID) *Node {
	if id < 0 || int(id) >= len(t.nodes) {
		return nil
	}
	return t.nodes[id]
}

// Roots returns the top-level render nodes, in DOM order.
func (t *Tree) Roots() []NodeID { return t.roots }

// Len returns the number of render nodes in the tree.
func (t *Tree) Len() int { return len(t.nodes) }

// NodeFor returns the render node id for a DOM node, if that DOM node
// survived filtering.
func (t *Tree) NodeFor(dom *html.Node) (NodeID, bool) {
	id, ok := t.domIndex[dom]
	return id, ok
}

// Walk visits every render node depth-first, in document order.
func (t *Tree) Walk(fn func(*Node)) {
	var visit func(id NodeID)
	visit = func(id NodeID) {
		n := t.Node(id)
		if n == nil {
			return
		}
		fn(n)
		for _, c := range n.Children {
			visit(c)
		}
	}
	for _, r := range t.roots {
		visit(r)
	}
}

type builder struct {
	tree            *Tree
	stylesheets     []*css.Stylesheet
	viewportW       float64
	viewportH       float64
}

// Build walks doc depth-first and produces the filtered, style-propagated
// render tree. The stylesheets have already been parsed by the out-of-scope
// CSS parser; viewportW/H feed media-query evaluation in the cascade.
func Build(doc *html.Document, stylesheets []*css.Stylesheet, viewportW, viewportH float64) *Tree {
	t := &Tree{
		domIndex: make(map[*html.Node]NodeID),
		doc:      doc,
	}
	b := &builder{tree: t, stylesheets: stylesheets, viewportW: viewportW, viewportH: viewportH}

	if doc == nil || doc.Root == nil {
		return t
	}
	for _, child := range doc.Root.Children {
		if id, ok := b.visit(child, NoNode, nil, false); ok {
			t.roots = append(t.roots, id)
		}
	}
	return t
}

// alloc appends a new node to the arena and returns its id.
func (t *Tree) alloc(n *Node) NodeID {
	id := NodeID(len(t.nodes))
	n.ID = id
	t.nodes = append(t.nodes, n)
	return id
}

// visit processes one DOM node (and recursively its children), returning
// the render node id it produced, or ok=false if the node is not visible.
// parentRaw is the parent's fully-resolved (cascaded+inherited) style, used
// to propagate inheritance; preserveWhitespace is true inside <pre>-like
// contexts.
func (b *builder) visit(n *html.Node, parentID NodeID, parentRaw *css.Style, preserveWhitespace bool) (NodeID, bool) {
	switch n.Type {
	case html.ElementNode:
		raw := css.ComputeStyle(n, b.stylesheets, b.viewportW, b.viewportH)
		style.Inherit(raw, parentRaw)
		computed := style.Resolve(raw)
		if computed.Display == style.DisplayNone {
			return NoNode, false
		}

		node := &Node{
			Kind:   KindElement,
			DOM:    n,
			Tag:    strings.ToLower(n.TagName),
			Raw:    raw,
			Style:  computed,
			Parent: parentID,
		}
		id := b.tree.alloc(node)
		b.tree.domIndex[n] = id

		preserve := preserveWhitespace || preservesWhitespace(node.Tag, raw)
		for _, child := range n.Children {
			if cid, ok := b.visit(child, id, raw, preserve); ok {
				node.Children = append(node.Children, cid)
			}
		}
		return id, true

	case html.TextNode:
		text := n.Text
		if !preserveWhitespace {
			text = collapseWhitespace(text)
			if strings.TrimSpace(text) == "" {
				return NoNode, false
			}
		}
		node := &Node{
			Kind:   KindText,
			DOM:    n,
			Text:   text,
			Raw:    parentRaw,
			Style:  style.Resolve(parentRaw),
			Parent: parentID,
		}
		id := b.tree.alloc(node)
		b.tree.domIndex[n] = id
		return id, true

	default:
		// Document/DocType/Comment nodes are never visible.
		return NoNode, false
	}
}

// preservesWhitespace reports whether text inside an element with this tag
// and style should keep its whitespace verbatim rather than being
// collapsed (CSS `white-space: pre`/`pre-wrap`, and <pre>/<textarea>).
func preservesWhitespace(tag string, raw *css.Style) bool {
	if tag == "pre" || tag == "textarea" {
		return true
	}
	if ws, ok := raw.Get("white-space"); ok {
		switch ws {
		case "pre", "pre-wrap", "pre-line":
			return true
		}
	}
	return false
}

// collapseWhitespace collapses runs of whitespace (including newlines) to a
// single space, matching CSS's normal text-processing behavior outside
// whitespace-preserving contexts.
func collapseWhitespace(s string) string {
	var sb strings.Builder
	inSpace := false
	for _, r := range s {
		if r == ' ' || r == '\t' || r == '\n' || r == '\r' || r == '\f' {
			if !inSpace {
				sb.WriteByte(' ')
				inSpace = true
			}
			continue
		}
		inSpace = false
		sb.WriteRune(r)
	}
	return sb.String()
}
