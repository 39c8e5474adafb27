package browser

import (
	"testing"

	"tessera/pkg/html"
	"tessera/pkg/tile"
)

func parseDoc(t *testing.T, src string) *html.Document {
	t.Helper()
	doc, err := html.Parse(src)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	return doc
}

// A single red box in a 256x256 viewport
// produces exactly one layer and one tile, and the first redraw returns
// an image and leaves that tile Clean.
func TestScenario1_SingleRedBox(t *testing.T) {
	doc := parseDoc(t, `<html><body><div style="width:100px;height:100px;background-color:red"></div></body></html>`)
	s := New(doc, 256, 256)

	if got := len(s.layers.Layers()); got != 1 {
		t.Fatalf("expected 1 layer, got %d", got)
	}
	if got := s.TileCount(); got != 1 {
		t.Fatalf("expected 1 tile, got %d", got)
	}

	img := s.Redraw()
	if img == nil {
		t.Fatal("expected a composited image")
	}

	if got := s.tiles.Tile(0).State; got != tile.Clean {
		t.Errorf("expected the tile to be Clean after its first redraw, got %v", got)
	}
}

func TestScenario3_HoverInvalidatesOnlyTouchingTiles(t *testing.T) {
	doc := parseDoc(t, `<html><body>
		<div id="a" style="position:absolute;left:0px;top:0px;width:50px;height:50px;background-color:blue"></div>
		<div id="b" style="position:absolute;left:400px;top:400px;width:50px;height:50px;background-color:green"></div>
	</body></html>`)
	s := New(doc, 512, 512)
	s.Redraw() // settle every tile to Clean/Empty first

	// Hover over box A (world coords inside its rect).
	if !s.PointerMove(10, 10) {
		t.Fatal("expected PointerMove onto box A to report a change")
	}

	dirty := 0
	for _, l := range s.layers.Layers() {
		tl := s.tiles.Layer(l.ID)
		if tl == nil {
			continue
		}
		for _, tid := range tl.Tiles {
			if s.tiles.Tile(tid).State == tile.Dirty {
				dirty++
			}
		}
	}
	hovered, ok := s.Hovered()
	if !ok {
		t.Fatal("expected box A to be hovered")
	}
	if want := len(s.tiles.TilesForElement(hovered)); dirty != want || dirty == 0 {
		t.Errorf("expected exactly the %d tiles touching A to be dirty, got %d", want, dirty)
	}
}

func TestScenario6_WireframeCycleInvalidatesThreeTimes(t *testing.T) {
	doc := parseDoc(t, `<html><body><div style="width:10px;height:10px;"></div></body></html>`)
	s := New(doc, 256, 256)
	s.Redraw()

	for i := 0; i < 3; i++ {
		s.CycleWireframe()
		dirtyCount := 0
		for _, l := range s.layers.Layers() {
			tl := s.tiles.Layer(l.ID)
			for _, tid := range tl.Tiles {
				if s.tiles.Tile(tid).State == tile.Dirty {
					dirtyCount++
				}
			}
		}
		if dirtyCount == 0 {
			t.Fatalf("cycle %d: expected invalidate_all to mark tiles dirty", i)
		}
		s.Redraw()
	}
	if s.wireframed != 0 {
		t.Errorf("expected wireframed to cycle back to None after 3 presses, got %v", s.wireframed)
	}
}

func TestHoverIdempotence(t *testing.T) {
	doc := parseDoc(t, `<html><body><div style="width:50px;height:50px;background-color:blue"></div></body></html>`)
	s := New(doc, 256, 256)

	if !s.PointerMove(10, 10) {
		t.Fatal("expected first move onto the box to report a change")
	}
	if s.PointerMove(10, 10) {
		t.Error("expected a second identical PointerMove to be a no-op")
	}
	if s.PointerMove(20, 20) {
		t.Error("expected a move still inside the same box to be a no-op")
	}
}

func TestResizeViewportDoesNotReplaceLayoutTree(t *testing.T) {
	doc := parseDoc(t, `<html><body><div style="width:50px;height:50px;"></div></body></html>`)
	s := New(doc, 256, 256)
	before := s.layoutTree

	s.ResizeViewport(512, 512)

	if s.layoutTree != before {
		t.Error("expected ResizeViewport to preserve the existing layout tree")
	}
	v := s.Viewport()
	if v.W != 512 || v.H != 512 {
		t.Errorf("expected viewport to update to 512x512, got %+v", v)
	}
}

func TestResizeWindowReflows(t *testing.T) {
	doc := parseDoc(t, `<html><body><div style="width:50px;height:50px;"></div></body></html>`)
	s := New(doc, 256, 256)
	before := s.layoutTree

	s.ResizeWindow(1024, 768)

	if s.layoutTree == before {
		t.Error("expected ResizeWindow to rebuild the layout tree")
	}
	w, h := s.layoutTree.RootDimension()
	if w != 1024 || h != 768 {
		t.Errorf("expected new layout tree sized 1024x768, got %vx%v", w, h)
	}
}

func TestToggleLayerDoesNotInvalidate(t *testing.T) {
	doc := parseDoc(t, `<html><body><div style="width:10px;height:10px;"></div></body></html>`)
	s := New(doc, 256, 256)
	s.Redraw()

	s.ToggleLayer(0)

	for _, l := range s.layers.Layers() {
		tl := s.tiles.Layer(l.ID)
		for _, tid := range tl.Tiles {
			if s.tiles.Tile(tid).State == tile.Dirty {
				t.Error("expected ToggleLayer to leave tile state untouched")
			}
		}
	}
}
