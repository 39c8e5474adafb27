// Package layer partitions a layout tree into ordered stacking layers and
// answers hit-test queries against them.
//
// Tiling needs a flat, ID-addressed assignment (every layout element in
// exactly one layer, layers in a total order) so painter, rasterizer and
// compositor can be driven purely by layer id, rather than the recursive
// stacking-context tree a one-pass renderer would walk.
package layer

import (
	"sort"

	"tessera/pkg/layouttree"
	"tessera/pkg/spatial"
)

// LayerID addresses one layer within a List, in stacking order: layer 0
// paints first (bottommost), the last layer paints last (topmost).
type LayerID int

// Layer holds the ordered (DOM order) set of layout elements assigned to
// it, plus a spatial index over their margin-rects for hit-testing.
type Layer struct {
	ID       LayerID
	ZIndex   int
	Elements []layouttree.ElementID

	index *spatial.Index
}

// List is the full layer assignment for one layout tree: every layer in
// stacking order, and a lookup from element to its layer.
type List struct {
	layers     []*Layer
	layerOf    map[layouttree.ElementID]LayerID
	layoutTree *layouttree.Tree
}

// Layers returns every layer in stacking order (bottom to top).
func (l *List) Layers() []*Layer { return l.layers }

// Layer returns the layer for id, or nil if out of range.
func (l *List) Layer(id LayerID) *Layer {
	if id < 0 || int(id) >= len(l.layers) {
		return nil
	}
	return l.layers[id]
}

// LayerOf returns which layer a layout element was assigned to.
func (l *List) LayerOf(id layouttree.ElementID) (LayerID, bool) {
	lid, ok := l.layerOf[id]
	return lid, ok
}

// stackEntry is a pending stacking context, collected while walking the
// layout tree, before layers are sorted into their final order.
type stackEntry struct {
	zIndex   int
	domOrder int
	elements []layouttree.ElementID
}

// Build walks lt in DOM order and assigns every layout element to exactly
// one layer: an element establishes a new stacking context (and therefore
// a new layer) if it is positioned with an explicit z-index, has
// opacity<1, or has a non-none transform; everything else, including the root,
// inherits its nearest stacking-context ancestor's layer. Layers are then
// ordered by z-index (ties broken by DOM order of the element that created
// the layer), matching CSS stacking rules.
func Build(lt *layouttree.Tree) *List {
	l := &List{layerOf: make(map[layouttree.ElementID]LayerID), layoutTree: lt}
	if lt == nil {
		return l
	}

	root := &stackEntry{domOrder: -1}
	domCounter := 0
	var contexts []*stackEntry

	var visit func(id layouttree.ElementID, current *stackEntry)
	visit = func(id layouttree.ElementID, current *stackEntry) {
		el := lt.Element(id)
		if el == nil {
			return
		}
		domCounter++

		target := current
		if createsStackingContext(el) {
			target = &stackEntry{zIndex: zIndexOf(el), domOrder: domCounter}
			contexts = append(contexts, target)
		}
		target.elements = append(target.elements, id)

		for _, c := range el.Children {
			visit(c, target)
		}
	}
	for _, r := range lt.Roots() {
		visit(r, root)
	}

	all := make([]*stackEntry, 0, len(contexts)+1)
	for _, entry := range append([]*stackEntry{root}, contexts...) {
		if len(entry.elements) > 0 {
			all = append(all, entry)
		}
	}
	sort.SliceStable(all, func(i, j int) bool {
		if all[i].zIndex != all[j].zIndex {
			return all[i].zIndex < all[j].zIndex
		}
		return all[i].domOrder < all[j].domOrder
	})

	for i, entry := range all {
		layer := &Layer{ID: LayerID(i), ZIndex: entry.zIndex, Elements: entry.elements}
		layer.index = buildIndex(lt, entry.elements)
		l.layers = append(l.layers, layer)
		for _, eid := range entry.elements {
			l.layerOf[eid] = layer.ID
		}
	}
	return l
}

func buildIndex(lt *layouttree.Tree, elements []layouttree.ElementID) *spatial.Index {
	ids := make([]int, len(elements))
	rects := make([]spatial.Rect, len(elements))
	for i, eid := range elements {
		el := lt.Element(eid)
		ids[i] = int(eid)
		if el != nil {
			m := el.Model.Margin
			rects[i] = spatial.Rect{X: m.X, Y: m.Y, W: m.W, H: m.H}
		}
	}
	return spatial.Build(ids, rects)
}

func createsStackingContext(el *layouttree.Element) bool {
	if el == nil || el.Style == nil {
		return false
	}
	return el.Style.IsStackingContextRoot()
}

func zIndexOf(el *layouttree.Element) int {
	if el.Style != nil && el.Style.HasZIndex {
		return el.Style.ZIndex
	}
	return 0
}

// FindElementAt returns the topmost layout element (by stacking order)
// whose margin-rect contains (x, y), descending from the last (topmost)
// layer to the first. visible, if non-nil, filters which layers
// participate (e.g. the browser state's per-layer visibility toggles);
// a nil visible function means every layer participates.
func (l *List) FindElementAt(x, y float64, visible func(LayerID) bool) (layouttree.ElementID, bool) {
	for i := len(l.layers) - 1; i >= 0; i-- {
		layer := l.layers[i]
		if visible != nil && !visible(layer.ID) {
			continue
		}
		hits := layer.index.QueryPoint(x, y)
		if best, ok := topmostInLayer(l.layoutTree, layer, hits); ok {
			return best, true
		}
	}
	return layouttree.NoElement, false
}

// topmostInLayer picks the winner among several elements of the same
// layer that all contain the point: last in DOM/paint order wins (later
// siblings, and descendants over ancestors, paint on top within one
// layer), and elements whose resolved style carries pointer-events:none
// are skipped entirely.
func topmostInLayer(lt *layouttree.Tree, layer *Layer, hits []int) (layouttree.ElementID, bool) {
	if len(hits) == 0 {
		return layouttree.NoElement, false
	}
	hitSet := make(map[layouttree.ElementID]bool, len(hits))
	for _, h := range hits {
		hitSet[layouttree.ElementID(h)] = true
	}

	best := layouttree.NoElement
	found := false
	for _, eid := range layer.Elements {
		if !hitSet[eid] {
			continue
		}
		el := lt.Element(eid)
		if el == nil || (el.Style != nil && el.Style.PointerEventsNone) {
			continue
		}
		best = eid
		found = true
	}
	return best, found
}
