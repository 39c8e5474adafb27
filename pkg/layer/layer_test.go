package layer

import (
	"testing"

	"tessera/pkg/css"
	"tessera/pkg/layout"
	"tessera/pkg/layouttree"
)

func build(t *testing.T, boxes []*layout.Box) *layouttree.Tree {
	t.Helper()
	return layouttree.Build(boxes, nil, 800, 600)
}

func TestEveryElementAssignedToExactlyOneLayer(t *testing.T) {
	child := &layout.Box{Style: css.NewStyle(), Width: 10, Height: 10}
	root := &layout.Box{Style: css.NewStyle(), Width: 100, Height: 100, Children: []*layout.Box{child}}
	lt := build(t, []*layout.Box{root})

	list := Build(lt)
	seen := map[layouttree.ElementID]int{}
	for _, l := range list.Layers() {
		for _, eid := range l.Elements {
			seen[eid]++
		}
	}
	if lt.Len() != len(seen) {
		t.Fatalf("expected all %d elements assigned, got %d", lt.Len(), len(seen))
	}
	for eid, count := range seen {
		if count != 1 {
			t.Errorf("element %v assigned to %d layers, want 1", eid, count)
		}
	}
}

func TestPositionedZIndexElementGetsOwnLayer(t *testing.T) {
	positioned := css.NewStyle()
	positioned.Set("position", "relative")
	positioned.Set("z-index", "2")

	plain := &layout.Box{Style: css.NewStyle(), Width: 10, Height: 10}
	stacked := &layout.Box{Style: positioned, Position: css.PositionRelative, ZIndex: 2, Width: 10, Height: 10}
	lt := build(t, []*layout.Box{plain, stacked})

	list := Build(lt)
	if len(list.Layers()) != 2 {
		t.Fatalf("expected 2 layers (root + stacked), got %d", len(list.Layers()))
	}
	top := list.Layers()[len(list.Layers())-1]
	if top.ZIndex != 2 {
		t.Errorf("expected topmost layer to carry z-index 2, got %d", top.ZIndex)
	}
}

func TestFindElementAtReturnsTopmostStackingOrderHit(t *testing.T) {
	positioned := css.NewStyle()
	positioned.Set("position", "relative")
	positioned.Set("z-index", "1")

	base := &layout.Box{Style: css.NewStyle(), X: 0, Y: 0, Width: 100, Height: 100}
	overlay := &layout.Box{Style: positioned, Position: css.PositionRelative, ZIndex: 1, X: 0, Y: 0, Width: 100, Height: 100}
	lt := build(t, []*layout.Box{base, overlay})

	list := Build(lt)
	hit, ok := list.FindElementAt(10, 10, nil)
	if !ok {
		t.Fatalf("expected a hit")
	}
	overlayID := list.Layers()[len(list.Layers())-1].Elements[0]
	if hit != overlayID {
		t.Errorf("expected topmost (overlay) element to win, got %v want %v", hit, overlayID)
	}
}

func TestFindElementAtSkipsPointerEventsNone(t *testing.T) {
	none := css.NewStyle()
	none.Set("pointer-events", "none")

	behind := &layout.Box{Style: css.NewStyle(), X: 0, Y: 0, Width: 100, Height: 100}
	ghost := &layout.Box{Style: none, X: 0, Y: 0, Width: 100, Height: 100}
	lt := build(t, []*layout.Box{behind, ghost})

	list := Build(lt)
	hit, ok := list.FindElementAt(10, 10, nil)
	if !ok {
		t.Fatalf("expected a hit on the non-ghost element")
	}
	if hit != list.Layers()[0].Elements[0] {
		t.Errorf("expected pointer-events:none element skipped")
	}
}

func TestFindElementAtRespectsLayerVisibility(t *testing.T) {
	positioned := css.NewStyle()
	positioned.Set("position", "relative")
	positioned.Set("z-index", "1")

	base := &layout.Box{Style: css.NewStyle(), X: 0, Y: 0, Width: 100, Height: 100}
	overlay := &layout.Box{Style: positioned, Position: css.PositionRelative, ZIndex: 1, X: 0, Y: 0, Width: 100, Height: 100}
	lt := build(t, []*layout.Box{base, overlay})

	list := Build(lt)
	topLayer := list.Layers()[len(list.Layers())-1].ID
	hit, ok := list.FindElementAt(10, 10, func(id LayerID) bool { return id != topLayer })
	if !ok {
		t.Fatalf("expected a hit on the base layer")
	}
	if hit != list.Layers()[0].Elements[0] {
		t.Errorf("expected base element when top layer hidden")
	}
}

func TestBuildNilLayoutTree(t *testing.T) {
	list := Build(nil)
	if len(list.Layers()) != 0 {
		t.Errorf("expected no layers for nil layout tree")
	}
}
