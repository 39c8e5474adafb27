package paint

import (
	"testing"

	"tessera/pkg/css"
	"tessera/pkg/layout"
	"tessera/pkg/layouttree"
	"tessera/pkg/spatial"
	"tessera/pkg/tile"
)

func buildSingle(t *testing.T, s *css.Style, x, y, w, h float64) (*layouttree.Tree, layouttree.ElementID) {
	t.Helper()
	box := &layout.Box{Style: s, X: x, Y: y, Width: w, Height: h}
	lt := layouttree.Build([]*layout.Box{box}, nil, 800, 600)
	return lt, lt.Roots()[0]
}

func TestTranslateEmitsFillRectForBackground(t *testing.T) {
	s := css.NewStyle()
	s.Set("background-color", "red")
	lt, id := buildSingle(t, s, 0, 0, 100, 100)

	te := &tile.TiledElement{Element: id, Rect: spatial.Rect{X: 0, Y: 0, W: 100, H: 100}}
	cmds := Translate(te, lt, spatial.Rect{X: 0, Y: 0, W: 256, H: 256}, Options{})

	found := false
	for _, c := range cmds {
		if c.Kind == tile.KindFillRect && c.Color.R == 255 {
			found = true
		}
	}
	if !found {
		t.Errorf("expected a FillRect command for the background, got %+v", cmds)
	}
}

func TestTranslateSkipsTransparentBackground(t *testing.T) {
	lt, id := buildSingle(t, css.NewStyle(), 0, 0, 100, 100)
	te := &tile.TiledElement{Element: id, Rect: spatial.Rect{X: 0, Y: 0, W: 100, H: 100}}
	cmds := Translate(te, lt, spatial.Rect{X: 0, Y: 0, W: 256, H: 256}, Options{})

	for _, c := range cmds {
		if c.Kind == tile.KindFillRect {
			t.Errorf("did not expect a FillRect for a transparent background, got %+v", c)
		}
	}
}

func TestTranslateEmitsBorderWhenNonZeroWidth(t *testing.T) {
	s := css.NewStyle()
	s.Set("border-top-width", "2px")
	s.Set("border-top-style", "solid")
	lt, id := buildSingle(t, s, 0, 0, 100, 100)
	te := &tile.TiledElement{Element: id, Rect: spatial.Rect{X: 0, Y: 0, W: 100, H: 100}}
	cmds := Translate(te, lt, spatial.Rect{X: 0, Y: 0, W: 256, H: 256}, Options{})

	found := false
	for _, c := range cmds {
		if c.Kind == tile.KindBorder {
			found = true
		}
	}
	if !found {
		t.Errorf("expected a Border command, got %+v", cmds)
	}
}

func TestTranslateWireframeOnlySuppressesFillButKeepsText(t *testing.T) {
	s := css.NewStyle()
	s.Set("background-color", "red")
	lt, id := buildSingle(t, s, 0, 0, 100, 100)
	te := &tile.TiledElement{Element: id, Rect: spatial.Rect{X: 0, Y: 0, W: 100, H: 100}}
	cmds := Translate(te, lt, spatial.Rect{X: 0, Y: 0, W: 256, H: 256}, Options{Wireframe: WireframeOnly})

	for _, c := range cmds {
		if c.Kind == tile.KindFillRect {
			t.Errorf("wireframe Only must suppress fill, got %+v", c)
		}
	}
	hasStroke := false
	for _, c := range cmds {
		if c.Kind == tile.KindStrokeRect {
			hasStroke = true
		}
	}
	if !hasStroke {
		t.Errorf("expected a StrokeRect outline in wireframe Only mode")
	}
}

func TestTranslateWireframeBothKeepsFillAndAddsStroke(t *testing.T) {
	s := css.NewStyle()
	s.Set("background-color", "red")
	lt, id := buildSingle(t, s, 0, 0, 100, 100)
	te := &tile.TiledElement{Element: id, Rect: spatial.Rect{X: 0, Y: 0, W: 100, H: 100}}
	cmds := Translate(te, lt, spatial.Rect{X: 0, Y: 0, W: 256, H: 256}, Options{Wireframe: WireframeBoth})

	hasFill, hasStroke := false, false
	for _, c := range cmds {
		if c.Kind == tile.KindFillRect {
			hasFill = true
		}
		if c.Kind == tile.KindStrokeRect {
			hasStroke = true
		}
	}
	if !hasFill || !hasStroke {
		t.Errorf("expected both fill and stroke in Both mode, got %+v", cmds)
	}
}

func TestTranslateDebugHoverSkipsNonHoveredElements(t *testing.T) {
	s := css.NewStyle()
	s.Set("background-color", "red")
	lt, id := buildSingle(t, s, 0, 0, 100, 100)
	te := &tile.TiledElement{Element: id, Rect: spatial.Rect{X: 0, Y: 0, W: 100, H: 100}}

	cmds := Translate(te, lt, spatial.Rect{X: 0, Y: 0, W: 256, H: 256}, Options{
		DebugHover: true,
		Hovered:    layouttree.ElementID(999),
	})
	if len(cmds) != 0 {
		t.Errorf("expected no commands for a non-hovered element in debug-hover mode, got %+v", cmds)
	}
}

func TestTranslateEmitsGradientForLinearGradientBackground(t *testing.T) {
	s := css.NewStyle()
	s.Set("background-image", "linear-gradient(to right, blue, red)")
	lt, id := buildSingle(t, s, 0, 0, 100, 100)
	te := &tile.TiledElement{Element: id, Rect: spatial.Rect{X: 0, Y: 0, W: 100, H: 100}}
	cmds := Translate(te, lt, spatial.Rect{X: 0, Y: 0, W: 256, H: 256}, Options{})

	found := false
	for _, c := range cmds {
		if c.Kind == tile.KindFillGradient && c.Gradient != nil && len(c.Gradient.ColorStops) == 2 {
			found = true
		}
	}
	if !found {
		t.Errorf("expected a FillGradient command, got %+v", cmds)
	}
}

func TestTranslateEmitsImageForImgElement(t *testing.T) {
	s := css.NewStyle()
	box := &layout.Box{Style: s, X: 0, Y: 0, Width: 64, Height: 64, ImagePath: "logo.png"}
	lt := layouttree.Build([]*layout.Box{box}, nil, 800, 600)
	id := lt.Roots()[0]
	te := &tile.TiledElement{Element: id, Rect: spatial.Rect{X: 0, Y: 0, W: 64, H: 64}}
	cmds := Translate(te, lt, spatial.Rect{X: 0, Y: 0, W: 256, H: 256}, Options{})

	found := false
	for _, c := range cmds {
		if c.Kind == tile.KindImage && c.ImageHandle == "logo.png" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected an Image command for the img box, got %+v", cmds)
	}
}
