// Package browser holds the process-wide browser state and the event
// controller and frame driver that sit on top of it: viewport, hover,
// per-layer visibility and debug-mode fields, plus the reflow/redraw
// orchestration that ties the render/layout/layer/tile/paint stages
// together into one frame.
package browser

import (
	"sync"

	"tessera/pkg/compositor"
	"tessera/pkg/css"
	"tessera/pkg/html"
	"tessera/pkg/images"
	"tessera/pkg/layer"
	"tessera/pkg/layout"
	"tessera/pkg/layouttree"
	"tessera/pkg/paint"
	"tessera/pkg/raster"
	"tessera/pkg/rendertree"
	"tessera/pkg/spatial"
	"tessera/pkg/tile"
)

// visibleLayerCount is the size of the fixed per-layer visibility toggle
// array (keys '0'..'9'); layers beyond this index are always visible
// (there's simply no key left to bind them to).
const visibleLayerCount = 10

// State is the single reader/writer-locked value the whole pipeline hangs
// off of. Redraw takes the read lock on State to snapshot it, releases it,
// then takes the inner tileMu write lock to flip tile state; handlers that
// change State itself (pointer-move's hover update, reflow, resize, mode
// toggles that invalidate) take State's write lock.
type State struct {
	mu sync.RWMutex

	doc        *html.Document
	layouter   layout.Layouter
	backend    raster.Backend
	compositor compositor.Compositor

	dpiScale   float32
	tileWidth  float64
	tileHeight float64

	viewport      spatial.Rect
	visibleLayers [visibleLayerCount]bool
	wireframed    paint.WireframeMode
	debugHover    bool
	showTileGrid  bool
	hovered       layouttree.ElementID

	renderTree *rendertree.Tree
	layoutTree *layouttree.Tree
	layers     *layer.List

	// tileMu serializes tile-state and texture mutation: paint and
	// rasterize run under tileMu alone, after Redraw has released State's
	// read lock, so State's lock is never held across a texture allocation
	// into the backend.
	tileMu sync.RWMutex
	tiles  *tile.List
}

// Option configures a State at construction time.
type Option func(*State)

// WithLayouter overrides the default layouter; any Layouter
// implementation may be substituted.
func WithLayouter(l layout.Layouter) Option { return func(s *State) { s.layouter = l } }

// WithBackend overrides the default rasterizer backend.
func WithBackend(b raster.Backend) Option { return func(s *State) { s.backend = b } }

// WithCompositor overrides the default compositor.
func WithCompositor(c compositor.Compositor) Option { return func(s *State) { s.compositor = c } }

// WithTileSize overrides the default 256x256 tile dimension.
func WithTileSize(w, h float64) Option {
	return func(s *State) { s.tileWidth, s.tileHeight = w, h }
}

// WithDPIScale sets the device-pixel scale factor threaded through to the
// layouter.
func WithDPIScale(scale float32) Option { return func(s *State) { s.dpiScale = scale } }

// WithImageFetcher wires an image source into both the default layouter
// (for intrinsic image sizing) and the default gg rasterizer (for Image
// paint commands). Apply it after WithLayouter/WithBackend if you're also
// overriding those, since it only recognizes the package's own concrete
// types.
func WithImageFetcher(fetcher images.ImageFetcher) Option {
	return func(s *State) {
		if dl, ok := s.layouter.(*layout.DefaultLayouter); ok {
			dl.SetImageFetcher(fetcher)
		}
		if gg, ok := s.backend.(*raster.GGBackend); ok {
			gg.SetImageFetcher(fetcher)
		}
	}
}

// New builds browser state for doc at the given initial viewport size and
// runs the first reflow. The DOM is treated as read-only from here on:
// New does not mutate doc, and nothing in this package ever will.
func New(doc *html.Document, viewportW, viewportH float64, opts ...Option) *State {
	s := &State{
		doc:        doc,
		layouter:   layout.NewDefaultLayouter(),
		backend:    raster.NewGGBackend(),
		compositor: compositor.NewGGCompositor(),
		dpiScale:   1,
		tileWidth:  tile.DefaultWidth,
		tileHeight: tile.DefaultHeight,
		viewport:   spatial.Rect{W: viewportW, H: viewportH},
		hovered:    layouttree.NoElement,
	}
	for i := range s.visibleLayers {
		s.visibleLayers[i] = true
	}
	for _, opt := range opts {
		opt(s)
	}
	s.reflowLocked()
	return s
}

// reflowLocked rebuilds the render tree, layout tree, layer list and tile
// list wholesale from the current document and viewport. Callers must
// already hold s.mu for writing (or be the constructor, before s is
// published).
func (s *State) reflowLocked() {
	stylesheets := parseStylesheets(s.doc)
	s.renderTree = rendertree.Build(s.doc, stylesheets, s.viewport.W, s.viewport.H)
	boxes := s.layouter.Layout(s.renderTree, s.viewport.W, s.viewport.H, float64(s.dpiScale))
	s.layoutTree = layouttree.Build(boxes, s.renderTree, s.viewport.W, s.viewport.H)
	s.layers = layer.Build(s.layoutTree)
	bg := tile.ProbeBackgroundColor(s.renderTree)

	s.tileMu.Lock()
	s.tiles = tile.Generate(s.layoutTree, s.layers, s.viewport.W, s.viewport.H, s.tileWidth, s.tileHeight, bg)
	s.tileMu.Unlock()

	s.hovered = layouttree.NoElement
}

func parseStylesheets(doc *html.Document) []*css.Stylesheet {
	if doc == nil {
		return nil
	}
	sheets := make([]*css.Stylesheet, 0, len(doc.Stylesheets))
	for _, text := range doc.Stylesheets {
		if sheet, err := css.ParseStylesheet(text); err == nil {
			sheets = append(sheets, sheet)
		}
	}
	return sheets
}

// Reflow forces a full rebuild of render tree, layout tree, layer list and
// tile list against the current viewport — the frame driver's "Resize
// (window)" path, and available directly for hosts that mutate the DOM
// out of band (e.g. the scripting bridge) and need to force a reflow.
func (s *State) Reflow() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reflowLocked()
}

// Viewport returns the current viewport rect (scroll offset + visible
// size, in layout coordinates).
func (s *State) Viewport() spatial.Rect {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.viewport
}

// Hovered returns the currently-hovered layout element, if any.
func (s *State) Hovered() (layouttree.ElementID, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.hovered, s.hovered != layouttree.NoElement
}

// TileCount returns the number of tiles in the current tile list, across
// all layers.
func (s *State) TileCount() int {
	s.tileMu.RLock()
	defer s.tileMu.RUnlock()
	if s.tiles == nil {
		return 0
	}
	n := 0
	for _, l := range s.layers.Layers() {
		if tl := s.tiles.Layer(l.ID); tl != nil {
			n += len(tl.Tiles)
		}
	}
	return n
}

// layerVisible reports whether layer id currently participates in hit
// testing and compositing. Layers beyond the fixed toggle array are always
// visible — there is no key left to hide them with.
func (s *State) layerVisible(id layer.LayerID) bool {
	if int(id) < 0 || int(id) >= visibleLayerCount {
		return true
	}
	return s.visibleLayers[id]
}

// visibleLayerIDsLocked returns every layer id currently visible, in
// stacking order. Caller must hold s.mu.
func (s *State) visibleLayerIDsLocked() []layer.LayerID {
	if s.layers == nil {
		return nil
	}
	out := make([]layer.LayerID, 0, len(s.layers.Layers()))
	for _, l := range s.layers.Layers() {
		if s.layerVisible(l.ID) {
			out = append(out, l.ID)
		}
	}
	return out
}
