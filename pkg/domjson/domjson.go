// Package domjson implements the development-only JSON DOM fallback loader
// a nested `{tag, attributes, styles{...}, children:[...]}` form
// that lets a test or a dev tool hand the pipeline a document without going
// through the HTML tokenizer/parser. Style keys are the same kebab-case CSS
// property names the rest of the pipeline already understands — they are
// serialized into a synthetic `style` attribute and picked up by the
// existing inline-style cascade path (pkg/css.ParseInlineStyle), so nothing
// downstream of pkg/html needs to know documents can arrive this way.
package domjson

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"tessera/pkg/html"
)

// jsonNode mirrors the wire shape. A node is exactly one of:
// an element (Tag set), a text node (Text non-nil), or a comment (Comment
// non-nil) — Load rejects a node that matches more than one of these, since
// the format has no other way to disambiguate.
type jsonNode struct {
	Tag        string            `json:"tag,omitempty"`
	Attributes map[string]string `json:"attributes,omitempty"`
	Styles     map[string]string `json:"styles,omitempty"`
	Children   []jsonNode        `json:"children,omitempty"`
	Text       *string           `json:"text,omitempty"`
	Comment    *string           `json:"comment,omitempty"`
}

// Load parses a JSON DOM document and returns it in the same *html.Document
// shape the HTML parser produces, so it can be handed to browser.New or
// rendertree.Build without any special-casing downstream.
func Load(data []byte) (*html.Document, error) {
	var root jsonNode
	if err := json.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("domjson: %w", err)
	}

	doc := html.NewDocument()
	node, err := build(root)
	if err != nil {
		return nil, err
	}
	doc.Root.AddChild(node)
	return doc, nil
}

// build converts one jsonNode (and its subtree) into an *html.Node.
func build(n jsonNode) (*html.Node, error) {
	kinds := 0
	if n.Tag != "" {
		kinds++
	}
	if n.Text != nil {
		kinds++
	}
	if n.Comment != nil {
		kinds++
	}
	if kinds != 1 {
		return nil, fmt.Errorf("domjson: node must set exactly one of tag, text, comment (got %d)", kinds)
	}

	switch {
	case n.Text != nil:
		return &html.Node{Type: html.TextNode, Text: *n.Text}, nil
	case n.Comment != nil:
		return &html.Node{Type: html.CommentNode, Text: *n.Comment}, nil
	}

	node := &html.Node{
		Type:       html.ElementNode,
		TagName:    n.Tag,
		Attributes: make(map[string]string, len(n.Attributes)+1),
		Children:   make([]*html.Node, 0, len(n.Children)),
	}
	for k, v := range n.Attributes {
		node.Attributes[k] = v
	}
	if len(n.Styles) > 0 {
		if existing, ok := node.Attributes["style"]; ok && existing != "" {
			node.Attributes["style"] = existing + "; " + inlineStyle(n.Styles)
		} else {
			node.Attributes["style"] = inlineStyle(n.Styles)
		}
	}

	for _, c := range n.Children {
		child, err := build(c)
		if err != nil {
			return nil, err
		}
		node.AddChild(child)
	}
	return node, nil
}

// inlineStyle serializes a styles map into a "prop: value; prop: value"
// string in the form pkg/css.ParseInlineStyle expects. Keys are sorted so
// Load is deterministic across repeated calls on the same input.
func inlineStyle(styles map[string]string) string {
	keys := make([]string, 0, len(styles))
	for k := range styles {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+styles[k])
	}
	return strings.Join(parts, "; ")
}
