// Package compositor pastes rasterized tile textures onto the final
// on-screen surface in stacking order. It is backend-abstract: the only
// graphics-library dependency it needs is raster.Backend's Texture lookup,
// so composition (like rasterization) stays a
// capability, not a concrete drawing call sunk into the driver.
package compositor

import (
	"image"

	"github.com/fogleman/gg"

	"tessera/pkg/layer"
	"tessera/pkg/raster"
	"tessera/pkg/spatial"
	"tessera/pkg/style"
	"tessera/pkg/tile"
)

// Options carries the diagnostic overlays drawn on top of the plain
// tile blit: a tile-grid outline and a highlight around the hovered
// element. Both are overlay-only, drawn after every tile texture.
type Options struct {
	ShowTileGrid bool
	HoverRect    *spatial.Rect // world coordinates, nil when nothing is hovered
}

// Compositor draws the current tile list onto a target surface.
type Compositor interface {
	// Composite blits, for each layer in layers (bottom to top), every
	// tile intersecting viewport whose texture exists, at the tile's
	// world position translated by the viewport's scroll offset. Empty
	// tiles contribute nothing; a Dirty tile with a texture from a
	// previous frame is still drawn (avoids flicker on scroll) — only a tile with TextureID == 0 is
	// skipped outright.
	Composite(tiles *tile.List, backend raster.Backend, viewport spatial.Rect, layers []layer.LayerID, opts Options) image.Image
}

// GGCompositor composites with gg, the same drawing library the
// rasterizer's default backend uses, so the two stages agree on pixel
// format without an intermediate conversion.
type GGCompositor struct {
	cleanGridColor style.Color
	dirtyGridColor style.Color
	hoverColor     style.Color
}

// NewGGCompositor returns a compositor with the default diagnostic-overlay
// colors (a dim gray outline for clean tiles, a red one for dirty tiles,
// an orange hover outline).
func NewGGCompositor() *GGCompositor {
	return &GGCompositor{
		cleanGridColor: style.Color{R: 128, G: 128, B: 128, A: 0.5},
		dirtyGridColor: style.Color{R: 220, G: 40, B: 40, A: 0.7},
		hoverColor:     style.Color{R: 255, G: 165, B: 0, A: 1},
	}
}

func (c *GGCompositor) Composite(tiles *tile.List, backend raster.Backend, viewport spatial.Rect, layers []layer.LayerID, opts Options) image.Image {
	w, h := int(viewport.W), int(viewport.H)
	if w <= 0 {
		w = 1
	}
	if h <= 0 {
		h = 1
	}
	dc := gg.NewContext(w, h)

	var gridTiles []*tile.Tile
	for _, lid := range layers {
		tl := tiles.Layer(lid)
		if tl == nil {
			continue
		}
		for _, tid := range tl.Tiles {
			if t := tiles.Tile(tid); t != nil {
				gridTiles = append(gridTiles, t)
			}
		}
		for _, tid := range tiles.IntersectingTiles(lid, viewport) {
			t := tiles.Tile(tid)
			if t == nil || t.TextureID == 0 {
				continue
			}
			img, ok := backend.Texture(t.TextureID)
			if !ok {
				continue
			}
			dc.DrawImage(img, int(t.Rect.X-viewport.X), int(t.Rect.Y-viewport.Y))
		}
	}

	if opts.ShowTileGrid {
		c.drawTileGrid(dc, gridTiles, viewport)
	}
	if opts.HoverRect != nil {
		drawHoverOutline(dc, *opts.HoverRect, viewport, c.hoverColor)
	}

	return dc.Image()
}

// drawTileGrid outlines each tile color-coded by its state: dirty tiles
// in the dirty accent, clean tiles in the dim grid color, empty and
// unrenderable tiles not outlined at all (there is nothing behind them to
// diagnose).
func (c *GGCompositor) drawTileGrid(dc *gg.Context, gridTiles []*tile.Tile, viewport spatial.Rect) {
	dc.SetLineWidth(1)
	for _, t := range gridTiles {
		if !t.Rect.Intersects(viewport) {
			continue
		}
		var color style.Color
		switch t.State {
		case tile.Dirty:
			color = c.dirtyGridColor
		case tile.Clean:
			color = c.cleanGridColor
		default:
			continue
		}
		dc.SetRGBA(float64(color.R)/255, float64(color.G)/255, float64(color.B)/255, color.A)
		dc.DrawRectangle(t.Rect.X-viewport.X, t.Rect.Y-viewport.Y, t.Rect.W, t.Rect.H)
		dc.Stroke()
	}
}

func drawHoverOutline(dc *gg.Context, r spatial.Rect, viewport spatial.Rect, color style.Color) {
	dc.SetRGBA(float64(color.R)/255, float64(color.G)/255, float64(color.B)/255, color.A)
	dc.SetLineWidth(2)
	dc.DrawRectangle(r.X-viewport.X, r.Y-viewport.Y, r.W, r.H)
	dc.Stroke()
}
