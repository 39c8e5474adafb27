// Package paint translates one tiled-layout-element into a flat list of
// backend-agnostic paint commands. It has read-only access to the layout
// tree and never re-measures text — glyph runs come straight off the
// layout element the tile references.
package paint

import (
	"tessera/pkg/layouttree"
	"tessera/pkg/spatial"
	"tessera/pkg/style"
	"tessera/pkg/tile"
)

// WireframeMode mirrors the browser state's wireframed toggle.
type WireframeMode int

const (
	WireframeNone WireframeMode = iota
	WireframeOnly
	WireframeBoth
)

var wireframeAccent = style.Color{R: 255, G: 0, B: 255, A: 1}

// Options carries the per-frame modes that affect translation but are not
// part of the element/tile data itself.
type Options struct {
	Wireframe  WireframeMode
	DebugHover bool
	Hovered    layouttree.ElementID
}

// Translate produces the paint commands for one tiled-layout-element. tr
// is the tile's rect in world coordinates (needed to convert the element's
// world-space box model into tile-local coordinates); lt is the layout
// tree te.Element indexes into.
func Translate(te *tile.TiledElement, lt *layouttree.Tree, tileRect spatial.Rect, opts Options) []tile.PaintCommand {
	el := lt.Element(te.Element)
	if el == nil {
		return nil
	}
	if opts.DebugHover && te.Element != opts.Hovered {
		return nil
	}

	var cmds []tile.PaintCommand
	localMargin := translate(el.Model.Margin, tileRect)
	cmds = append(cmds, tile.PaintCommand{Kind: tile.KindPushClip, Rect: te.Rect})

	if opts.Wireframe != WireframeOnly {
		cmds = append(cmds, contentCommands(el, tileRect)...)
	}

	if opts.Wireframe == WireframeOnly || opts.Wireframe == WireframeBoth {
		cmds = append(cmds, tile.PaintCommand{
			Kind:  tile.KindStrokeRect,
			Rect:  localMargin,
			Color: wireframeAccent,
			Width: 1,
		})
	}

	if opts.Wireframe == WireframeOnly {
		cmds = append(cmds, textCommands(el, tileRect)...)
	}

	cmds = append(cmds, tile.PaintCommand{Kind: tile.KindPopClip})
	return cmds
}

// contentCommands emits the normal (non-wireframe) background/border/text
// commands: background color, then background image or gradient, then
// borders, then content (text).
func contentCommands(el *layouttree.Element, tileRect spatial.Rect) []tile.PaintCommand {
	var cmds []tile.PaintCommand
	if el.Style != nil && el.Style.BackgroundColor.A > 0 {
		cmds = append(cmds, tile.PaintCommand{
			Kind:  tile.KindFillRect,
			Rect:  translate(el.Model.Border, tileRect),
			Color: el.Style.BackgroundColor,
		})
	}
	if el.Style != nil && el.Style.BackgroundGradient != nil {
		cmds = append(cmds, tile.PaintCommand{
			Kind:     tile.KindFillGradient,
			Rect:     translate(el.Model.Border, tileRect),
			Gradient: el.Style.BackgroundGradient,
		})
	}
	if img := imageHandle(el); img != "" {
		r := translate(el.Model.Content, tileRect)
		cmds = append(cmds, tile.PaintCommand{
			Kind:        tile.KindImage,
			Rect:        r,
			Position:    [2]float64{r.X, r.Y},
			ImageHandle: img,
		})
	}
	if el.Style != nil && hasVisibleBorder(el.Style.Borders) {
		cmds = append(cmds, tile.PaintCommand{
			Kind:    tile.KindBorder,
			Rect:    translate(el.Model.Border, tileRect),
			Borders: el.Style.Borders,
		})
	}
	cmds = append(cmds, textCommands(el, tileRect)...)
	return cmds
}

func textCommands(el *layouttree.Element, tileRect spatial.Rect) []tile.PaintCommand {
	var cmds []tile.PaintCommand
	for i, run := range el.Runs {
		r := translate(run.Rect, tileRect)
		cmds = append(cmds, tile.PaintCommand{
			Kind:       tile.KindText,
			Position:   [2]float64{r.X, r.Y},
			Text:       run.Text,
			RunIndex:   i,
			Color:      run.Color,
			FontSize:   run.FontSize,
			FontWeight: run.FontWeight,
			FontFamily: run.FontFamily,
		})
	}
	return cmds
}

// imageHandle picks the image an element draws: an <img> element's source
// path if layout recorded one, else the style's background-image URL.
func imageHandle(el *layouttree.Element) string {
	if el.Box != nil && el.Box.ImagePath != "" {
		return el.Box.ImagePath
	}
	if el.Style != nil {
		return el.Style.BackgroundImage
	}
	return ""
}

func hasVisibleBorder(b style.Borders) bool {
	for _, side := range []style.BorderSide{b.Top, b.Right, b.Bottom, b.Left} {
		if side.Width > 0 && side.Style != style.BorderStyleNone {
			return true
		}
	}
	return false
}

// translate converts a world-coordinate rect into tile-local coordinates
// by subtracting the tile's own world origin. Unlike TiledElement.Rect,
// the result is not clamped to the tile's bounds — the PushClip/PopClip
// pair around each element's commands is what keeps rendering correct for
// content that spills outside the tile.
func translate(r layouttree.Rect, tileRect spatial.Rect) spatial.Rect {
	return spatial.Rect{X: r.X - tileRect.X, Y: r.Y - tileRect.Y, W: r.W, H: r.H}
}
