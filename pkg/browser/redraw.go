package browser

import (
	"image"
	"log"

	"github.com/google/uuid"

	"tessera/pkg/compositor"
	"tessera/pkg/layer"
	"tessera/pkg/layouttree"
	"tessera/pkg/paint"
	"tessera/pkg/raster"
	"tessera/pkg/spatial"
	"tessera/pkg/tile"
)

// Redraw draws one frame: for each visible layer in stacking order,
// paint then rasterize every Dirty tile intersecting the viewport, then
// composite the whole frame in one call.
//
// Paint always precedes rasterize for the same tile (two separate passes
// over the same intersecting set), and every visible tile of layer L is
// fully rasterized before composition can read any tile of L, because
// Composite is only invoked after every layer's paint+rasterize pass has
// returned. Each frame gets a UUID trace id so the log lines of one
// frame (lookup misses, rasterizer refusals) can be correlated.
func (s *State) Redraw() image.Image {
	traceID := uuid.NewString()

	s.mu.RLock()
	viewport := s.viewport
	layerIDs := s.visibleLayerIDsLocked()
	opts := paint.Options{Wireframe: s.wireframed, DebugHover: s.debugHover, Hovered: s.hovered}
	showGrid := s.showTileGrid
	hovered := s.hovered
	debugHover := s.debugHover
	lt := s.layoutTree
	backend := s.backend
	comp := s.compositor
	s.mu.RUnlock()

	if lt == nil {
		log.Printf("browser: frame %s skipped, no layout tree yet", traceID)
		return nil
	}

	tiles := s.rasterizeDirtyTiles(traceID, layerIDs, viewport, lt, opts, backend)
	if tiles == nil {
		return nil
	}

	var hoverRect *spatial.Rect
	if debugHover && hovered != layouttree.NoElement {
		if el := lt.Element(hovered); el != nil {
			m := el.Model.Margin
			r := spatial.Rect{X: m.X, Y: m.Y, W: m.W, H: m.H}
			hoverRect = &r
		}
	}

	return comp.Composite(tiles, backend, viewport, layerIDs, compositor.Options{
		ShowTileGrid: showGrid,
		HoverRect:    hoverRect,
	})
}

// rasterizeDirtyTiles holds the tile lock for the paint+rasterize passes
// across every visible layer, then releases it before returning — the
// compositor reads the (by-then immutable for this frame) tile list
// without holding the lock, since nothing concurrent can be mutating tile
// state once every Dirty tile this frame touched has settled to
// Clean/Empty/Unrenderable.
func (s *State) rasterizeDirtyTiles(traceID string, layerIDs []layer.LayerID, viewport spatial.Rect, lt *layouttree.Tree, opts paint.Options, backend raster.Backend) *tile.List {
	s.tileMu.Lock()
	defer s.tileMu.Unlock()

	tiles := s.tiles
	if tiles == nil {
		return nil
	}

	for _, lid := range layerIDs {
		intersecting := tiles.IntersectingTiles(lid, viewport)

		for _, tid := range intersecting {
			t := tiles.Tile(tid)
			if t == nil || t.State != tile.Dirty {
				continue
			}
			paintTile(t, lt, opts)
		}

		for _, tid := range intersecting {
			t := tiles.Tile(tid)
			if t == nil || t.State != tile.Dirty {
				continue
			}
			if _, ok := backend.Rasterize(t); !ok {
				log.Printf("browser: frame %s tile %d rasterized to %s", traceID, tid, t.State)
			}
		}
	}
	return tiles
}

// paintTile repopulates every tiled-layout-element's paint commands from
// scratch — a tile's Elements slice is fixed at Generate time, only the
// PaintCommands each element carries are replaced here.
func paintTile(t *tile.Tile, lt *layouttree.Tree, opts paint.Options) {
	for _, te := range t.Elements {
		te.PaintCommands = paint.Translate(te, lt, t.Rect, opts)
	}
}
