package layout

import (
	"tessera/pkg/css"
	"tessera/pkg/html"
	"tessera/pkg/images"
	"tessera/pkg/rendertree"
)

// Layouter is the layout capability: given a render tree and a viewport, it
// produces a tree of positioned boxes with a full box model. It is a
// capability boundary, not a concrete algorithm — a caller that wants a
// different layout engine (a third-party solver, a test stub) only needs
// to implement this interface; the rest of the pipeline consumes the
// resulting []*Box and never calls back into a concrete engine.
//
// Re-entry: a second Layout call supersedes the first; there is no partial
// layout and no incremental re-layout contract.
type Layouter interface {
	Layout(rt *rendertree.Tree, viewportWidth, viewportHeight float64, dpiScale float64) []*Box
}

// DefaultLayouter wraps a *LayoutEngine as a Layouter, adapting the render
// tree's arena of filtered, style-resolved nodes back into the
// (*html.Node, map[*html.Node]*css.Style) shape layoutNode already expects.
// DefaultLayouter is the default engine: the recursive box/flex/table
// algorithm is untouched, only its entry point changes from
// "recompute styles from a raw document" to "reuse styles the render tree
// already resolved".
type DefaultLayouter struct {
	imageFetcher images.ImageFetcher
}

// NewDefaultLayouter returns a Layouter backed by this package's
// LayoutEngine.
func NewDefaultLayouter() *DefaultLayouter {
	return &DefaultLayouter{}
}

// SetImageFetcher configures the fetcher new LayoutEngines are given, for
// callers that need network image support during layout.
func (d *DefaultLayouter) SetImageFetcher(fetcher images.ImageFetcher) {
	d.imageFetcher = fetcher
}

// Layout builds a fresh LayoutEngine sized to the given viewport, derives a
// computedStyles map from rt's render nodes (so the cascade — including
// the inheritance rendertree already applied — is not recomputed), and
// runs the existing recursive layout over rt's originating document.
//
// dpiScale is accepted for interface symmetry;
// the layout algorithm operates in CSS pixels throughout and
// leaves device-pixel scaling to the rasterizer, so it is not consulted
// here.
func (d *DefaultLayouter) Layout(rt *rendertree.Tree, viewportWidth, viewportHeight float64, dpiScale float64) []*Box {
	if rt == nil {
		return nil
	}
	le := NewLayoutEngine(viewportWidth, viewportHeight)
	if d.imageFetcher != nil {
		le.SetImageFetcher(d.imageFetcher)
	}

	doc := &html.Document{Root: &html.Node{Type: html.ElementNode, TagName: "document"}}
	styles := make(map[*html.Node]*css.Style)
	rt.Walk(func(n *rendertree.Node) {
		if n.Kind == rendertree.KindElement && n.DOM != nil {
			styles[n.DOM] = n.Raw
		}
	})
	for _, rootID := range rt.Roots() {
		if root := rt.Node(rootID); root != nil && root.DOM != nil {
			doc.Root.Children = append(doc.Root.Children, root.DOM)
		}
	}

	return le.LayoutWithStyles(doc, styles)
}
