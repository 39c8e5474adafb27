// Package tile slices each layer into a fixed grid of tiles and
// materializes the element↔tile mapping, so paint, rasterize and
// composite can all be driven purely by tile id.
package tile

import (
	"math"

	"tessera/pkg/css"
	"tessera/pkg/layer"
	"tessera/pkg/layouttree"
	"tessera/pkg/rendertree"
	"tessera/pkg/spatial"
	"tessera/pkg/style"
)

// DefaultWidth and DefaultHeight are the tile dimensions used unless a
// caller overrides them.
const (
	DefaultWidth  = 256
	DefaultHeight = 256
)

// TileID addresses one tile within a List.
type TileID int

// State is a tile's position in the dirty/clean/empty/unrenderable state
// machine driving incremental redraw.
type State int

const (
	Dirty State = iota
	Clean
	Empty
	Unrenderable
)

func (s State) String() string {
	switch s {
	case Dirty:
		return "dirty"
	case Clean:
		return "clean"
	case Empty:
		return "empty"
	case Unrenderable:
		return "unrenderable"
	default:
		return "unknown"
	}
}

// PaintCommand is the closed, backend-agnostic drawing-instruction
// enumeration that is the ABI between the painter and the rasterizer. All
// rects/positions are tile-local (origin at the tile's own top-left) so a
// tile can be rasterized without knowing its world position.
type PaintCommand struct {
	Kind Kind

	// FillRect / StrokeRect / Border / PushClip
	Rect  spatial.Rect
	Color style.Color
	Width float64 // stroke width (StrokeRect), unused otherwise

	// Border (per-side; index order Top, Right, Bottom, Left)
	Borders style.Borders

	// FillGradient. Stops and direction as parsed from the stylesheet;
	// the rasterizer resolves them against Rect.
	Gradient *css.Gradient

	// Text. The rasterizer has no reachback into the layout tree, so the
	// run's text is carried on the command itself; RunIndex is kept for
	// callers that want to correlate a command with the originating
	// GlyphRun (e.g. diagnostics).
	Position   [2]float64
	Text       string
	RunIndex   int // index into the owning TiledElement's Runs
	FontSize   float64
	FontWeight style.FontWeight
	FontFamily string

	// Image
	ImageHandle string
}

// Kind enumerates the closed set of paint commands.
type Kind int

const (
	KindFillRect Kind = iota
	KindFillGradient
	KindStrokeRect
	KindBorder
	KindText
	KindImage
	KindPushClip
	KindPopClip
)

// TiledElement is one layout element's contribution to one tile: the slice
// of its margin-rect that falls within the tile, in tile-local
// coordinates, plus the paint commands the painter produced for it.
type TiledElement struct {
	Element  layouttree.ElementID
	Rect     spatial.Rect // intersection(element.margin_rect, tile.rect), tile-local
	Position [2]float64   // where the element's own origin maps inside the tile

	PaintCommands []PaintCommand
}

// Tile is one fixed-size rectangle of one layer: the unit of
// rasterization and invalidation.
type Tile struct {
	ID      TileID
	Layer   layer.LayerID
	Rect    spatial.Rect // world (layout-tree) coordinates
	State   State
	BGColor style.Color

	TextureID int // 0 means "no texture"
	Elements  []*TiledElement
}

// Layer holds the ordered tile ids for one layer plus a spatial index over
// tile rects for viewport queries.
type TileLayer struct {
	Layer layer.LayerID
	Tiles []TileID
	Rows  int
	Cols  int

	index *spatial.Index
}

// List is the arena owning every tile, plus the per-layer tile layers.
// It is the single mutable per-frame structure during rendering: tile
// identity and geometry are fixed at Generate time, only State,
// TextureID and each element's PaintCommands mutate afterward.
type List struct {
	tiles      []*Tile
	layers     map[layer.LayerID]*TileLayer
	tileWidth  float64
	tileHeight float64
	layerList  *layer.List
}

// Tile returns the tile for id, or nil.
func (l *List) Tile(id TileID) *Tile {
	if id < 0 || int(id) >= len(l.tiles) {
		return nil
	}
	return l.tiles[id]
}

// TileMut is an alias for Tile; Go has no separate mutable-reference
// type, Tile already returns a pointer callers can mutate.
func (l *List) TileMut(id TileID) *Tile { return l.Tile(id) }

// Layer returns the tile layer for a given stacking layer, or nil.
func (l *List) Layer(id layer.LayerID) *TileLayer { return l.layers[id] }

// Generate slices every layer in layers into a uniform tileW×tileH grid
// covering (rootWidth, rootHeight), and maps each layer's elements onto
// the tiles they intersect. bgColor is the probed <html>/<body> background
// color, stamped onto the tiles of the bottommost layer only: the backdrop
// belongs to the page canvas, and an opaque clear on any higher layer's
// tiles would occlude everything composited beneath them.
func Generate(lt *layouttree.Tree, layers *layer.List, rootWidth, rootHeight, tileW, tileH float64, bgColor style.Color) *List {
	if tileW <= 0 {
		tileW = DefaultWidth
	}
	if tileH <= 0 {
		tileH = DefaultHeight
	}
	l := &List{layers: make(map[layer.LayerID]*TileLayer), tileWidth: tileW, tileHeight: tileH, layerList: layers}
	if layers == nil {
		return l
	}

	cols := int(math.Ceil(rootWidth / tileW))
	rows := int(math.Ceil(rootHeight / tileH))
	if cols < 1 {
		cols = 1
	}
	if rows < 1 {
		rows = 1
	}

	for i, ly := range layers.Layers() {
		tileBG := style.Transparent
		if i == 0 {
			tileBG = bgColor
		}
		tl := &TileLayer{Layer: ly.ID, Rows: rows, Cols: cols}
		ids := make([]int, 0, rows*cols)
		rects := make([]spatial.Rect, 0, rows*cols)
		for row := 0; row < rows; row++ {
			for col := 0; col < cols; col++ {
				rect := spatial.Rect{X: float64(col) * tileW, Y: float64(row) * tileH, W: tileW, H: tileH}
				t := &Tile{
					ID:      TileID(len(l.tiles)),
					Layer:   ly.ID,
					Rect:    rect,
					State:   Dirty,
					BGColor: tileBG,
				}
				l.tiles = append(l.tiles, t)
				tl.Tiles = append(tl.Tiles, t.ID)
				ids = append(ids, int(t.ID))
				rects = append(rects, rect)
			}
		}
		tl.index = spatial.Build(ids, rects)
		l.layers[ly.ID] = tl

		for _, eid := range ly.Elements {
			el := lt.Element(eid)
			if el == nil {
				continue
			}
			m := el.Model.Margin
			elRect := spatial.Rect{X: m.X, Y: m.Y, W: m.W, H: m.H}
			for _, tid := range tl.index.QueryRect(elRect) {
				tileID := TileID(tid)
				tileObj := l.tiles[tileID]
				te := intersect(elRect, tileObj.Rect)
				tileObj.Elements = append(tileObj.Elements, &TiledElement{
					Element:  eid,
					Rect:     te.rect,
					Position: te.position,
				})
			}
		}
	}
	return l
}

type tileLocal struct {
	rect     spatial.Rect
	position [2]float64
}

// intersect computes a tiled-layout-element's tile-local rect and origin
// position: rect is intersection(element, tile) translated so the tile's
// top-left is the origin; position is where the element's own origin
// (clamped to the tile) sits inside the tile.
func intersect(element, t spatial.Rect) tileLocal {
	x0 := math.Max(element.X, t.X)
	y0 := math.Max(element.Y, t.Y)
	x1 := math.Min(element.X+element.W, t.X+t.W)
	y1 := math.Min(element.Y+element.H, t.Y+t.H)

	rect := spatial.Rect{X: x0 - t.X, Y: y0 - t.Y, W: math.Max(0, x1-x0), H: math.Max(0, y1-y0)}
	pos := [2]float64{math.Max(0, element.X-t.X), math.Max(0, element.Y-t.Y)}
	return tileLocal{rect: rect, position: pos}
}

// InvalidateAll marks every tile Dirty.
func (l *List) InvalidateAll() {
	for _, t := range l.tiles {
		t.State = Dirty
	}
}

// InvalidateTile marks one tile Dirty.
func (l *List) InvalidateTile(id TileID) {
	if t := l.Tile(id); t != nil {
		t.State = Dirty
	}
}

// TilesForElement linearly scans every tile for references to element —
// invalidation is not a hot path relative to rasterization.
func (l *List) TilesForElement(element layouttree.ElementID) []TileID {
	var out []TileID
	for _, t := range l.tiles {
		for _, te := range t.Elements {
			if te.Element == element {
				out = append(out, t.ID)
				break
			}
		}
	}
	return out
}

// IntersectingTiles returns every tile of layerID whose rect intersects
// viewport, via that layer's spatial index.
func (l *List) IntersectingTiles(layerID layer.LayerID, viewport spatial.Rect) []TileID {
	tl := l.layers[layerID]
	if tl == nil {
		return nil
	}
	ids := tl.index.QueryRect(viewport)
	out := make([]TileID, len(ids))
	for i, id := range ids {
		out[i] = TileID(id)
	}
	return out
}

// ProbeBackgroundColor walks rt's roots looking for <html>, falling back
// to <body>, and returns its background-color if non-transparent.
func ProbeBackgroundColor(rt *rendertree.Tree) style.Color {
	if rt == nil {
		return style.Transparent
	}
	var htmlColor, bodyColor style.Color
	var haveHTML, haveBody bool
	rt.Walk(func(n *rendertree.Node) {
		if n.Kind != rendertree.KindElement || n.Style == nil {
			return
		}
		switch n.Tag {
		case "html":
			if !haveHTML {
				htmlColor, haveHTML = n.Style.BackgroundColor, true
			}
		case "body":
			if !haveBody {
				bodyColor, haveBody = n.Style.BackgroundColor, true
			}
		}
	})
	if haveHTML && htmlColor.A > 0 {
		return htmlColor
	}
	if haveBody && bodyColor.A > 0 {
		return bodyColor
	}
	return style.Transparent
}
