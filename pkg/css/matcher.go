package css

import (
	"strings"

	"tessera/pkg/html"
)

// Phase 3: Selector matching

// MatchesSelector returns true if the node matches the selector
func MatchesSelector(node *html.Node, selector Selector) bool {
	if node.Type != html.ElementNode {
		return false
	}

	switch selector.Type {
	case ElementSelector:
		// Match element name (e.g., "div" matches <div>)
		return node.TagName == selector.Value

	case ClassSelector:
		// Match class attribute (e.g., ".highlight" matches class="highlight")
		if class, ok := node.GetAttribute("class"); ok {
			// Simple class matching (doesn't handle multiple classes yet)
			return class == selector.Value
		}
		return false

	case IDSelector:
		// Match id attribute (e.g., "#header" matches id="header")
		if id, ok := node.GetAttribute("id"); ok {
			return id == selector.Value
		}
		return false
	}

	return false
}

// FindMatchingRules returns all rules that match the given node and whose
// media query (if any) matches the viewport size
func FindMatchingRules(node *html.Node, stylesheet *Stylesheet, viewportWidth, viewportHeight float64) []Rule {
	matches := make([]Rule, 0)

	for _, rule := range stylesheet.Rules {
		if EvaluateMediaQuery(rule.MediaQuery, viewportWidth, viewportHeight) && MatchesSelector(node, rule.Selector) {
			matches = append(matches, rule)
		}
	}

	return matches
}

// ParseSelector parses one selector string (no commas) into a Selector.
func ParseSelector(selectorStr string) Selector {
	return parseSelector(selectorStr)
}

// SplitSelectorGroup splits a selector group like "div, .box" into its
// individual selector strings.
func SplitSelectorGroup(group string) []string {
	var out []string
	for _, part := range strings.Split(group, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
