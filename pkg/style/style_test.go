package style

import (
	"testing"

	"tessera/pkg/css"
)

func TestResolveDefaults(t *testing.T) {
	c := Resolve(nil)
	if c.Display != DisplayInline {
		t.Errorf("expected default display inline, got %v", c.Display)
	}
	if c.FontSize != 16 {
		t.Errorf("expected default font-size 16, got %v", c.FontSize)
	}
}

func TestResolveBackgroundColor(t *testing.T) {
	raw := css.NewStyle()
	raw.Set("display", "block")
	raw.Set("background-color", "red")
	raw.Set("width", "100px")
	raw.Set("height", "50%")

	c := Resolve(raw)
	if c.Display != DisplayBlock {
		t.Errorf("expected block display, got %v", c.Display)
	}
	if c.BackgroundColor.A == 0 {
		t.Errorf("expected opaque background color, got %+v", c.BackgroundColor)
	}
	if c.Width.Unit != UnitPx || c.Width.Value != 100 {
		t.Errorf("expected width 100px, got %+v", c.Width)
	}
	if c.Height.Unit != UnitPercent || c.Height.Value != 50 {
		t.Errorf("expected height 50%%, got %+v", c.Height)
	}
}

func TestInheritDoesNotOverrideOwnDeclaration(t *testing.T) {
	parent := css.NewStyle()
	parent.Set("color", "blue")
	parent.Set("font-size", "20px")

	child := css.NewStyle()
	child.Set("color", "red")

	Inherit(child, parent)

	if v, _ := child.Get("color"); v != "red" {
		t.Errorf("expected child's own color to win, got %q", v)
	}
	if v, _ := child.Get("font-size"); v != "20px" {
		t.Errorf("expected font-size inherited from parent, got %q", v)
	}
}

func TestInheritSkipsNonInheritedProperties(t *testing.T) {
	parent := css.NewStyle()
	parent.Set("background-color", "green")

	child := css.NewStyle()
	Inherit(child, parent)

	if _, ok := child.Get("background-color"); ok {
		t.Errorf("background-color must not inherit")
	}
}

func TestStackingContextRoot(t *testing.T) {
	raw := css.NewStyle()
	raw.Set("position", "relative")
	raw.Set("z-index", "2")
	c := Resolve(raw)
	if !c.IsStackingContextRoot() {
		t.Errorf("positioned element with z-index should create a stacking context")
	}

	raw2 := css.NewStyle()
	c2 := Resolve(raw2)
	if c2.IsStackingContextRoot() {
		t.Errorf("static element with no special properties should not create a stacking context")
	}
}

func TestResolveBackgroundGradient(t *testing.T) {
	raw := css.NewStyle()
	raw.Set("background-image", "linear-gradient(to right, blue 0%, red 100%)")

	c := Resolve(raw)
	if c.BackgroundGradient == nil {
		t.Fatal("expected a parsed background gradient")
	}
	if len(c.BackgroundGradient.ColorStops) != 2 {
		t.Errorf("expected 2 color stops, got %d", len(c.BackgroundGradient.ColorStops))
	}
	if c.BackgroundGradient.Direction != "to right" {
		t.Errorf("expected direction 'to right', got %q", c.BackgroundGradient.Direction)
	}
}

func TestResolveBackgroundImageURL(t *testing.T) {
	raw := css.NewStyle()
	raw.Set("background-image", "url(bg.png)")

	c := Resolve(raw)
	if c.BackgroundGradient != nil {
		t.Errorf("url background must not parse as a gradient")
	}
	if c.BackgroundImage != "bg.png" {
		t.Errorf("expected background image %q, got %q", "bg.png", c.BackgroundImage)
	}
}
