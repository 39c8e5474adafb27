package browser

import (
	"tessera/pkg/layouttree"
	"tessera/pkg/tile"
)

// PointerMove hit-tests the topmost visible element under (x,y), and if
// it differs from the currently-hovered element, invalidates every tile
// touching either the old or the new element (one union computation, not
// a per-branch tile set), updates the hover field, and reports that a
// redraw is needed.
//
// A PointerMove that resolves to the already-hovered element is a no-op:
// no invalidation, no redraw request.
func (s *State) PointerMove(x, y float64) bool {
	s.mu.Lock()
	if s.layers == nil {
		s.mu.Unlock()
		return false
	}
	next, _ := s.layers.FindElementAt(x, y, s.layerVisible)
	if next == s.hovered {
		s.mu.Unlock()
		return false
	}
	prev := s.hovered
	s.hovered = next
	s.mu.Unlock()

	s.invalidateHoverTiles(prev, next)
	return true
}

// invalidateHoverTiles marks Dirty the union of tiles referencing prev and
// next — each possibly layouttree.NoElement, in which case it contributes
// nothing to the union.
func (s *State) invalidateHoverTiles(prev, next layouttree.ElementID) {
	s.tileMu.Lock()
	defer s.tileMu.Unlock()
	if s.tiles == nil {
		return
	}
	touched := make(map[tile.TileID]struct{})
	if prev != layouttree.NoElement {
		for _, id := range s.tiles.TilesForElement(prev) {
			touched[id] = struct{}{}
		}
	}
	if next != layouttree.NoElement {
		for _, id := range s.tiles.TilesForElement(next) {
			touched[id] = struct{}{}
		}
	}
	for id := range touched {
		s.tiles.InvalidateTile(id)
	}
}

// Scroll moves only the scroll position. No tile is invalidated — the same tiles still cover the same
// world-space content, they are just differently intersected by the
// viewport query during redraw.
func (s *State) Scroll(dx, dy float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.viewport.X += dx
	s.viewport.Y += dy
}

// ScrollTo is the absolute-position form of Scroll.
func (s *State) ScrollTo(x, y float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.viewport.X = x
	s.viewport.Y = y
}

// ResizeViewport handles a viewport-size-only change: the visible area
// changes but layout is deliberately not re-run. Every tile is
// invalidated against the existing layout tree, so content already laid
// out simply re-rasterizes against the new visible rectangle. A host
// that wants a responsive relayout on resize should call ResizeWindow
// instead, which does a full reflow.
func (s *State) ResizeViewport(w, h float64) {
	s.mu.Lock()
	s.viewport.W = w
	s.viewport.H = h
	s.mu.Unlock()

	s.tileMu.Lock()
	if s.tiles != nil {
		s.tiles.InvalidateAll()
	}
	s.tileMu.Unlock()
}

// ResizeWindow handles a host window resize: update the viewport and run
// a full reflow — a new render tree, layout tree, layer list and tile
// list sized to the new dimensions.
func (s *State) ResizeWindow(w, h float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.viewport.W = w
	s.viewport.H = h
	s.reflowLocked()
}

// ToggleLayer flips one of the ten individually-addressable layer
// visibility toggles (keys '0'..'9'). No tile invalidation: a hidden
// layer's tiles keep whatever texture they already have, they are simply
// excluded from hit-testing and composition until toggled back on.
func (s *State) ToggleLayer(n int) {
	if n < 0 || n >= visibleLayerCount {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.visibleLayers[n] = !s.visibleLayers[n]
}

// CycleWireframe advances wireframed mode None -> Only -> Both -> None and
// invalidates every tile, since the mode changes what every element's
// paint commands look like.
func (s *State) CycleWireframe() {
	s.mu.Lock()
	s.wireframed = (s.wireframed + 1) % 3
	s.mu.Unlock()

	s.tileMu.Lock()
	if s.tiles != nil {
		s.tiles.InvalidateAll()
	}
	s.tileMu.Unlock()
}

// ToggleDebugHover flips debug-hover mode and invalidates every tile: in
// this mode, every element except the hovered one has its paint commands
// suppressed, so both entering and leaving the mode changes every tile's
// output.
func (s *State) ToggleDebugHover() {
	s.mu.Lock()
	s.debugHover = !s.debugHover
	s.mu.Unlock()

	s.tileMu.Lock()
	if s.tiles != nil {
		s.tiles.InvalidateAll()
	}
	s.tileMu.Unlock()
}

// ToggleTileGrid flips the tile-grid diagnostic overlay. It is
// overlay-only: no tile invalidation, just a redraw request so the
// compositor picks up the new setting.
func (s *State) ToggleTileGrid() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.showTileGrid = !s.showTileGrid
}

// HandleBackendLoss implements the device-reset recovery path: on a
// lost graphics surface, discard every texture the backend holds and mark
// every tile Dirty, so the very next redraw regenerates everything from
// scratch once the host has recreated its surface. Recovery is otherwise
// automatic — no user-visible error, at most one blank frame.
func (s *State) HandleBackendLoss() {
	s.mu.RLock()
	backend := s.backend
	s.mu.RUnlock()
	if backend != nil {
		backend.ReleaseAll()
	}

	s.tileMu.Lock()
	if s.tiles != nil {
		s.tiles.InvalidateAll()
	}
	s.tileMu.Unlock()
}
