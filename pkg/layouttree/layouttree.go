// Package layouttree turns the output of a Layouter (pkg/layout's
// LayoutEngine, or any other implementation of the Layouter capability)
// into an arena of layout elements addressed by stable integer ids, each
// carrying the four nested box-model rectangles layering/tiling need.
//
// pkg/layout's LayoutEngine already produces a pointer tree of *layout.Box
// with exactly these measurements (X/Y/Width/Height plus Margin/Padding/
// Border edges); this package does not re-derive layout, it re-indexes that
// box tree into the handle-addressed shape the rest of the
// pipeline (layering, tiling, painting) is built around.
package layouttree

import (
	"tessera/pkg/html"
	"tessera/pkg/layout"
	"tessera/pkg/rendertree"
	"tessera/pkg/spatial"
	"tessera/pkg/style"
)

// ElementID addresses one layout element within a Tree.
type ElementID int

// NoElement is the reserved "absent" handle.
const NoElement ElementID = -1

// Rect is an axis-aligned rectangle in layout-tree (CSS pixel) coordinates.
type Rect struct {
	X, Y, W, H float64
}

func (r Rect) expand(top, right, bottom, left float64) Rect {
	return Rect{
		X: r.X - left,
		Y: r.Y - top,
		W: r.W + left + right,
		H: r.H + top + bottom,
	}
}

// BoxModel holds the four nested rectangles CSS box-model rules define.
// Each rect contains the one nested inside it: margin ⊇ border ⊇ padding ⊇
// content.
type BoxModel struct {
	Content Rect
	Padding Rect
	Border  Rect
	Margin  Rect
}

// GlyphRun is one run of already-measured, already-positioned text. Layout
// is solely responsible for producing these; paint must not re-measure
// text, only read the run back.
type GlyphRun struct {
	Text       string
	Rect       Rect
	FontFamily string
	FontSize   float64
	FontWeight style.FontWeight
	Color      style.Color
}

// Element is one node in the layout tree: a positioned box with a full box
// model, optionally carrying glyph runs if it represents measured text.
type Element struct {
	ID ElementID

	RenderNode rendertree.NodeID // back-reference; rendertree.NoNode if none
	DOM        *html.Node        // optional DOM back-reference
	Box        *layout.Box       // the layouter's own box, kept for fields this package doesn't re-model (e.g. stacking inputs)
	Style      *style.Computed

	Model BoxModel
	Runs  []GlyphRun // non-empty only for text boxes

	Parent   ElementID
	Children []ElementID
}

// Tree is the arena owning every layout element produced by one Build
// call, plus the spatial index used by find_element_at.
type Tree struct {
	elements []*Element
	roots    []ElementID

	rootWidth  float64
	rootHeight float64

	render *rendertree.Tree
	index  *spatial.Index // keyed by ElementID, over margin rects
}

// Element returns the element for id, or nil if out of range.
func (t *Tree) Element(id ElementID) *Element {
	if id < 0 || int(id) >= len(t.elements) {
		return nil
	}
	return t.elements[id]
}

// Roots returns the top-level layout elements, in document order.
func (t *Tree) Roots() []ElementID { return t.roots }

// Len returns the number of layout elements in the tree.
func (t *Tree) Len() int { return len(t.elements) }

// RootDimension returns the layout tree's overall (width, height) in CSS
// pixels — the viewport size layout ran against.
func (t *Tree) RootDimension() (float64, float64) { return t.rootWidth, t.rootHeight }

// RenderTree returns the render tree this layout tree was built from.
func (t *Tree) RenderTree() *rendertree.Tree { return t.render }

// FindElementAt returns every layout element whose margin-rect contains
// (x, y), via the spatial index (not ordered — callers that need stacking
// order combine this with a layer list).
func (t *Tree) FindElementAt(x, y float64) []ElementID {
	ids := t.index.QueryPoint(x, y)
	out := make([]ElementID, len(ids))
	for i, id := range ids {
		out[i] = ElementID(id)
	}
	return out
}

// Walk visits every element depth-first, in document order.
func (t *Tree) Walk(fn func(*Element)) {
	var visit func(id ElementID)
	visit = func(id ElementID) {
		e := t.Element(id)
		if e == nil {
			return
		}
		fn(e)
		for _, c := range e.Children {
			visit(c)
		}
	}
	for _, r := range t.roots {
		visit(r)
	}
}

type builder struct {
	tree  *Tree
	ids   []int
	rects []spatial.Rect
}

// Build re-indexes boxes (the output of a Layouter) into a Tree. rt is the
// render tree that produced the render nodes behind boxes, used to
// populate each element's RenderNode back-reference; viewportW/H become
// the tree's root_dimension.
func Build(boxes []*layout.Box, rt *rendertree.Tree, viewportW, viewportH float64) *Tree {
	t := &Tree{render: rt, rootWidth: viewportW, rootHeight: viewportH}
	b := &builder{tree: t}

	for _, box := range boxes {
		if id, ok := b.visit(box, NoElement); ok {
			t.roots = append(t.roots, id)
		}
	}
	t.index = spatial.Build(b.ids, b.rects)
	return t
}

func (b *builder) visit(box *layout.Box, parentID ElementID) (ElementID, bool) {
	if box == nil {
		return NoElement, false
	}

	model := boxModel(box)
	var domNode *html.Node
	renderID := rendertree.NoNode
	if box.Node != nil {
		domNode = box.Node
		if b.tree.render != nil {
			if id, ok := b.tree.render.NodeFor(box.Node); ok {
				renderID = id
			}
		}
	}

	elem := &Element{
		RenderNode: renderID,
		DOM:        domNode,
		Box:        box,
		Style:      style.Resolve(box.Style),
		Model:      model,
		Parent:     parentID,
	}
	if run, ok := glyphRun(box, model); ok {
		elem.Runs = []GlyphRun{run}
	}

	id := ElementID(len(b.tree.elements))
	elem.ID = id
	b.tree.elements = append(b.tree.elements, elem)
	b.ids = append(b.ids, int(id))
	b.rects = append(b.rects, spatial.Rect{X: model.Margin.X, Y: model.Margin.Y, W: model.Margin.W, H: model.Margin.H})

	for _, child := range box.Children {
		if cid, ok := b.visit(child, id); ok {
			elem.Children = append(elem.Children, cid)
		}
	}
	return id, true
}

// boxModel derives the four nested box-model rects from the layouter's Box.
// Box.X/Box.Y denote the border-box origin and Box.Width/Box.Height the
// content size (the content origin is X + border.Left + padding.Left, the
// convention the layout engine uses everywhere it positions children), so
// the padding and content rects nest inward from (X, Y) and only the
// margin rect extends outward.
func boxModel(box *layout.Box) BoxModel {
	border := Rect{
		X: box.X,
		Y: box.Y,
		W: box.Width + box.Padding.Left + box.Padding.Right + box.Border.Left + box.Border.Right,
		H: box.Height + box.Padding.Top + box.Padding.Bottom + box.Border.Top + box.Border.Bottom,
	}
	padding := Rect{
		X: box.X + box.Border.Left,
		Y: box.Y + box.Border.Top,
		W: box.Width + box.Padding.Left + box.Padding.Right,
		H: box.Height + box.Padding.Top + box.Padding.Bottom,
	}
	content := Rect{
		X: box.X + box.Border.Left + box.Padding.Left,
		Y: box.Y + box.Border.Top + box.Padding.Top,
		W: box.Width,
		H: box.Height,
	}
	margin := border.expand(box.Margin.Top, box.Margin.Right, box.Margin.Bottom, box.Margin.Left)
	return BoxModel{Content: content, Padding: padding, Border: border, Margin: margin}
}

// glyphRun extracts the single measured run a text box represents. The
// layout engine already splits wrapped text into one Box per line (storing the
// line's text in PseudoContent when it differs from the source node's full
// text), so one Box maps to exactly one run.
func glyphRun(box *layout.Box, model BoxModel) (GlyphRun, bool) {
	isText := (box.Node != nil && box.Node.Type == html.TextNode) || box.PseudoContent != ""
	if !isText {
		return GlyphRun{}, false
	}
	text := box.PseudoContent
	if text == "" && box.Node != nil {
		text = box.Node.Text
	}
	if text == "" {
		return GlyphRun{}, false
	}

	var fontFamily string
	var fontSize float64 = 16
	var weight style.FontWeight = style.FontWeightNormal
	var color style.Color
	if box.Style != nil {
		computed := style.Resolve(box.Style)
		fontFamily = computed.FontFamily
		fontSize = computed.FontSize
		weight = computed.FontWeight
		color = computed.Color
	}

	return GlyphRun{
		Text:       text,
		Rect:       model.Content,
		FontFamily: fontFamily,
		FontSize:   fontSize,
		FontWeight: weight,
		Color:      color,
	}, true
}
