package html

import "fmt"

type Parser struct {
	tokenizer *Tokenizer
	doc       *Document
	stack     []*Node // Phase 2: Stack for tracking nested elements

	keepRawElements bool // keep <style>/<script> as elements instead of collecting their text
}

func NewParser(html string) *Parser {
	return &Parser{
		tokenizer: NewTokenizer(html),
		doc:       NewDocument(),
	}
}

func (p *Parser) Parse() (*Document, error) {
	// Phase 2: Initialize stack with root node
	p.stack = []*Node{p.doc.Root}
	rawTag := "" // "style" or "script" while inside one; its text goes to the document, not the tree

	for {
		token, err := p.tokenizer.NextToken()
		if err != nil {
			return nil, fmt.Errorf("tokenizer error: %w", err)
		}
		if token.Type == TokenEOF {
			break
		}

		switch token.Type {
		case TokenStartTag:
			if !p.keepRawElements && (token.TagName == "style" || token.TagName == "script") {
				rawTag = token.TagName
				continue
			}
			// Create new element node
			node := &Node{
				Type:       ElementNode,
				TagName:    token.TagName,
				Attributes: token.Attributes,
				Children:   make([]*Node, 0),
			}

			// Add to current parent (top of stack)
			parent := p.currentParent()
			parent.AddChild(node)

			// Check if this is a self-closing/void element
			if !p.isSelfClosing(token.TagName) {
				// Push onto stack to become new parent
				p.push(node)
			}

		case TokenText:
			// <style>/<script> text is collected on the document; other text goes to the current parent
			if rawTag == "style" {
				p.doc.Stylesheets = append(p.doc.Stylesheets, token.Text)
			} else if rawTag == "script" {
				p.doc.Scripts = append(p.doc.Scripts, token.Text)
			} else if token.Text != "" {
				parent := p.currentParent()
				parent.AppendText(token.Text)
			}

		case TokenEndTag:
			if rawTag != "" && token.TagName == rawTag {
				rawTag = ""
				continue
			}
			// Pop from stack (close current element)
			if len(p.stack) > 1 {
				p.pop()
			}
		}
	}

	return p.doc, nil
}

// currentParent returns the current parent node (top of stack)
func (p *Parser) currentParent() *Node {
	if len(p.stack) == 0 {
		return p.doc.Root
	}
	return p.stack[len(p.stack)-1]
}

// push adds a node to the stack
func (p *Parser) push(node *Node) {
	p.stack = append(p.stack, node)
}

// pop removes the top node from the stack
func (p *Parser) pop() *Node {
	if len(p.stack) == 0 {
		return nil
	}
	node := p.stack[len(p.stack)-1]
	p.stack = p.stack[:len(p.stack)-1]
	return node
}

// isSelfClosing returns true for void/self-closing HTML elements
func (p *Parser) isSelfClosing(tagName string) bool {
	selfClosingTags := map[string]bool{
		"br": true, "hr": true, "img": true, "input": true,
		"meta": true, "link": true, "area": true, "base": true,
		"col": true, "embed": true, "param": true, "source": true,
		"track": true, "wbr": true,
	}
	return selfClosingTags[tagName]
}

func Parse(html string) (*Document, error) {
	parser := NewParser(html)
	return parser.Parse()
}

// ParseFragment parses an HTML fragment and returns its top-level nodes,
// detached from any document. Used by innerHTML-style DOM mutation, where
// the caller adopts the returned nodes into an existing tree. <style> and
// <script> stay in the returned nodes as elements.
func ParseFragment(html string) ([]*Node, error) {
	parser := NewParser(html)
	parser.keepRawElements = true
	doc, err := parser.Parse()
	if err != nil {
		return nil, err
	}
	children := doc.Root.Children
	for _, child := range children {
		child.Parent = nil
	}
	return children, nil
}
