// Package spatial implements a small bounding-box index used to answer
// "what's at this point" and "what overlaps this rect" queries over layout
// and tile geometry. No third-party spatial index library is reachable from
// this codebase's dependency stack, so this is a compact in-house R-tree:
// a single-level grouping of entries into fixed-size leaf nodes, split by
// whichever axis has the larger spread. It is sized for the handful of
// thousands of boxes a single page layout produces, not millions of rows.
package spatial

import "sort"

// Rect is an axis-aligned bounding box in whatever coordinate space the
// caller is indexing (layout-tree pixels, tile-local pixels, ...).
type Rect struct {
	X, Y, W, H float64
}

// Contains reports whether the point (x, y) falls within r.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x < r.X+r.W && y >= r.Y && y < r.Y+r.H
}

// Intersects reports whether r and o overlap (share any area).
func (r Rect) Intersects(o Rect) bool {
	return r.X < o.X+o.W && o.X < r.X+r.W && r.Y < o.Y+o.H && o.Y < r.Y+r.H
}

func (r Rect) union(o Rect) Rect {
	minX, minY := min(r.X, o.X), min(r.Y, o.Y)
	maxX, maxY := max(r.X+r.W, o.X+o.W), max(r.Y+r.H, o.Y+o.H)
	return Rect{X: minX, Y: minY, W: maxX - minX, H: maxY - minY}
}

func min(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

func max(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}

// entry pairs a caller-owned id with the rect it occupies.
type entry struct {
	id   int
	rect Rect
}

// leafSize caps how many entries live in one leaf before the index splits
// it. Kept small since queries scan a matching leaf linearly.
const leafSize = 16

type node struct {
	bounds   Rect
	entries  []entry // leaf node if non-nil
	children []*node // interior node if non-nil
}

// Index is a static bounding-box index: build it once from a batch of
// entries, then run point/rect queries against it. It does not support
// incremental insertion — callers that mutate layout rebuild the index,
// which matches how layout/tile trees are already rebuilt wholesale on
// reflow.
type Index struct {
	root *node
}

// Build constructs an Index over the given ids and their rects. ids[i]
// corresponds to rects[i].
func Build(ids []int, rects []Rect) *Index {
	entries := make([]entry, len(ids))
	for i := range ids {
		entries[i] = entry{id: ids[i], rect: rects[i]}
	}
	if len(entries) == 0 {
		return &Index{root: &node{}}
	}
	return &Index{root: buildNode(entries)}
}

func buildNode(entries []entry) *node {
	bounds := entries[0].rect
	for _, e := range entries[1:] {
		bounds = bounds.union(e.rect)
	}
	if len(entries) <= leafSize {
		return &node{bounds: bounds, entries: entries}
	}

	// Split along whichever axis has the larger spread, at the median, so
	// each half holds roughly half the entries (a simple STR-style bulk
	// load rather than the usual R-tree insert-and-rebalance).
	spreadX := bounds.W
	spreadY := bounds.H
	sorted := append([]entry(nil), entries...)
	if spreadX >= spreadY {
		sort.Slice(sorted, func(i, j int) bool { return sorted[i].rect.X < sorted[j].rect.X })
	} else {
		sort.Slice(sorted, func(i, j int) bool { return sorted[i].rect.Y < sorted[j].rect.Y })
	}
	mid := len(sorted) / 2
	left := buildNode(sorted[:mid])
	right := buildNode(sorted[mid:])
	return &node{bounds: bounds, children: []*node{left, right}}
}

// QueryPoint returns the ids of every rect containing (x, y), in no
// particular order.
func (idx *Index) QueryPoint(x, y float64) []int {
	var out []int
	idx.root.queryPoint(x, y, &out)
	return out
}

func (n *node) queryPoint(x, y float64, out *[]int) {
	if n == nil || !n.bounds.Contains(x, y) {
		return
	}
	for _, e := range n.entries {
		if e.rect.Contains(x, y) {
			*out = append(*out, e.id)
		}
	}
	for _, c := range n.children {
		c.queryPoint(x, y, out)
	}
}

// QueryRect returns the ids of every rect intersecting r, in no particular
// order.
func (idx *Index) QueryRect(r Rect) []int {
	var out []int
	idx.root.queryRect(r, &out)
	return out
}

func (n *node) queryRect(r Rect, out *[]int) {
	if n == nil || !n.bounds.Intersects(r) {
		return
	}
	for _, e := range n.entries {
		if e.rect.Intersects(r) {
			*out = append(*out, e.id)
		}
	}
	for _, c := range n.children {
		c.queryRect(r, out)
	}
}
