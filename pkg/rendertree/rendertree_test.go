package rendertree

import (
	"testing"

	"tessera/pkg/html"
)

func elem(tag string, children ...*html.Node) *html.Node {
	n := &html.Node{Type: html.ElementNode, TagName: tag, Attributes: map[string]string{}}
	for _, c := range children {
		n.AddChild(c)
	}
	return n
}

func text(s string) *html.Node {
	n := &html.Node{Type: html.TextNode, Text: s}
	return n
}

func docWith(root *html.Node) *html.Document {
	doc := html.NewDocument()
	doc.Root.AddChild(root)
	return doc
}

func TestBuildFiltersDisplayNone(t *testing.T) {
	hidden := elem("div")
	hidden.Attributes["style"] = "display: none"
	visible := elem("span", text("hi"))
	body := elem("body", hidden, visible)
	doc := docWith(body)

	tree := Build(doc, nil, 800, 600)
	if len(tree.Roots()) != 1 {
		t.Fatalf("expected 1 root, got %d", len(tree.Roots()))
	}
	body_ := tree.Node(tree.Roots()[0])
	if len(body_.Children) != 1 {
		t.Fatalf("expected display:none child filtered, got %d children", len(body_.Children))
	}
	survivor := tree.Node(body_.Children[0])
	if survivor.Tag != "span" {
		t.Errorf("expected surviving child to be span, got %q", survivor.Tag)
	}
}

func TestBuildSkipsWhitespaceOnlyText(t *testing.T) {
	body := elem("body", text("   \n  "), elem("p", text("hello")))
	doc := docWith(body)

	tree := Build(doc, nil, 800, 600)
	b := tree.Node(tree.Roots()[0])
	if len(b.Children) != 1 {
		t.Fatalf("expected whitespace-only text node dropped, got %d children", len(b.Children))
	}
}

func TestBuildCollapsesWhitespace(t *testing.T) {
	body := elem("p", text("a   b\n\tc"))
	doc := docWith(body)

	tree := Build(doc, nil, 800, 600)
	p := tree.Node(tree.Roots()[0])
	if len(p.Children) != 1 {
		t.Fatalf("expected one text child, got %d", len(p.Children))
	}
	got := tree.Node(p.Children[0]).Text
	if got != "a b c" {
		t.Errorf("expected collapsed text %q, got %q", "a b c", got)
	}
}

func TestBuildPreservesWhitespaceInPre(t *testing.T) {
	pre := elem("pre", text("a   b\nc"))
	doc := docWith(pre)

	tree := Build(doc, nil, 800, 600)
	p := tree.Node(tree.Roots()[0])
	got := tree.Node(p.Children[0]).Text
	if got != "a   b\nc" {
		t.Errorf("expected whitespace preserved verbatim, got %q", got)
	}
}

func TestInheritancePropagatesThroughRenderTree(t *testing.T) {
	inner := elem("span", text("x"))
	outer := elem("div", inner)
	outer.Attributes["style"] = "color: red"
	doc := docWith(outer)

	tree := Build(doc, nil, 800, 600)
	div := tree.Node(tree.Roots()[0])
	span := tree.Node(div.Children[0])
	if v, _ := span.Raw.Get("color"); v != "red" {
		t.Errorf("expected span to inherit color from div, got %q", v)
	}
}

func TestNodeForLooksUpSurvivingDOMNode(t *testing.T) {
	p := elem("p", text("hi"))
	doc := docWith(p)

	tree := Build(doc, nil, 800, 600)
	id, ok := tree.NodeFor(p)
	if !ok {
		t.Fatalf("expected p to be indexed")
	}
	if tree.Node(id).Tag != "p" {
		t.Errorf("expected indexed node to be p")
	}
}

func TestWalkVisitsInDocumentOrder(t *testing.T) {
	body := elem("body", elem("h1", text("a")), elem("p", text("b")))
	doc := docWith(body)

	tree := Build(doc, nil, 800, 600)
	var tags []string
	tree.Walk(func(n *Node) {
		if n.Kind == KindElement {
			tags = append(tags, n.Tag)
		}
	})
	want := []string{"body", "h1", "p"}
	if len(tags) != len(want) {
		t.Fatalf("expected %v, got %v", want, tags)
	}
	for i := range want {
		if tags[i] != want[i] {
			t.Errorf("position %d: expected %q, got %q", i, want[i], tags[i])
		}
	}
}
