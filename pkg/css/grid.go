package css

import (
	"strconv"
	"strings"
)

// GridTrack is one resolved track of a grid template. Only fixed-size
// tracks carry a Size; fr and auto tracks resolve to 0 and are sized by
// the layout engine from the remaining space.
type GridTrack struct {
	Size float64
}

// GridPlacement is a parsed grid-column/grid-row value: 1-indexed line
// numbers, End exclusive of the last spanned track + 1 as in CSS.
type GridPlacement struct {
	Start int
	End   int
}

// JustifyItems represents the justify-items property value
type JustifyItems string

const (
	JustifyItemsStart   JustifyItems = "start"
	JustifyItemsCenter  JustifyItems = "center"
	JustifyItemsEnd     JustifyItems = "end"
	JustifyItemsStretch JustifyItems = "stretch"
)

// GetGridTemplateColumns returns the parsed grid-template-columns tracks.
func (s *Style) GetGridTemplateColumns() []GridTrack {
	v, ok := s.Get("grid-template-columns")
	if !ok {
		return nil
	}
	return parseGridTracks(v)
}

// GetGridTemplateRows returns the parsed grid-template-rows tracks.
func (s *Style) GetGridTemplateRows() []GridTrack {
	v, ok := s.Get("grid-template-rows")
	if !ok {
		return nil
	}
	return parseGridTracks(v)
}

// parseGridTracks parses a track list like "100px 200px" or
// "repeat(3, 100px)". Unsupported track sizes (fr, auto, minmax) yield
// zero-size tracks.
func parseGridTracks(value string) []GridTrack {
	var tracks []GridTrack
	for _, tok := range splitTrackList(value) {
		tok = strings.TrimSpace(tok)
		if tok == "" {
			continue
		}
		if strings.HasPrefix(tok, "repeat(") && strings.HasSuffix(tok, ")") {
			inner := tok[len("repeat(") : len(tok)-1]
			parts := strings.SplitN(inner, ",", 2)
			if len(parts) != 2 {
				continue
			}
			count, err := strconv.Atoi(strings.TrimSpace(parts[0]))
			if err != nil || count <= 0 {
				continue
			}
			for _, rep := range parseGridTracks(strings.TrimSpace(parts[1])) {
				for i := 0; i < count; i++ {
					tracks = append(tracks, rep)
				}
			}
			continue
		}
		size, _ := ParseLength(tok)
		tracks = append(tracks, GridTrack{Size: size})
	}
	return tracks
}

// splitTrackList splits a track list on whitespace, keeping function
// tokens like repeat(3, 100px) intact.
func splitTrackList(value string) []string {
	var parts []string
	var current strings.Builder
	parenDepth := 0
	for _, ch := range value {
		switch {
		case ch == '(':
			parenDepth++
			current.WriteRune(ch)
		case ch == ')':
			parenDepth--
			current.WriteRune(ch)
		case (ch == ' ' || ch == '\t') && parenDepth == 0:
			if current.Len() > 0 {
				parts = append(parts, current.String())
				current.Reset()
			}
		default:
			current.WriteRune(ch)
		}
	}
	if current.Len() > 0 {
		parts = append(parts, current.String())
	}
	return parts
}

// GetGridGap returns the (rowGap, columnGap) pair, honoring the gap and
// grid-gap shorthands as well as the row-gap/column-gap longhands.
func (s *Style) GetGridGap() (rowGap, columnGap float64) {
	for _, prop := range []string{"grid-gap", "gap"} {
		if v, ok := s.Get(prop); ok {
			parts := strings.Fields(v)
			if len(parts) >= 1 {
				rowGap, _ = ParseLength(parts[0])
				columnGap = rowGap
			}
			if len(parts) >= 2 {
				columnGap, _ = ParseLength(parts[1])
			}
		}
	}
	if v, ok := s.GetLength("row-gap"); ok {
		rowGap = v
	}
	if v, ok := s.GetLength("column-gap"); ok {
		columnGap = v
	}
	return rowGap, columnGap
}

// GetJustifyItems returns the justify-items value (default: stretch)
func (s *Style) GetJustifyItems() JustifyItems {
	switch v, _ := s.Get("justify-items"); v {
	case "start":
		return JustifyItemsStart
	case "center":
		return JustifyItemsCenter
	case "end":
		return JustifyItemsEnd
	default:
		return JustifyItemsStretch
	}
}

// GetGridColumn returns the parsed grid-column placement, or nil when the
// item is auto-placed.
func (s *Style) GetGridColumn() *GridPlacement {
	v, ok := s.Get("grid-column")
	if !ok {
		return nil
	}
	return parseGridPlacement(v)
}

// GetGridRow returns the parsed grid-row placement, or nil when the item
// is auto-placed.
func (s *Style) GetGridRow() *GridPlacement {
	v, ok := s.Get("grid-row")
	if !ok {
		return nil
	}
	return parseGridPlacement(v)
}

// parseGridPlacement parses "2", "1 / 3", and "1 / span 2" forms.
func parseGridPlacement(value string) *GridPlacement {
	parts := strings.Split(value, "/")
	start, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return nil
	}
	p := &GridPlacement{Start: start, End: start + 1}
	if len(parts) >= 2 {
		end := strings.TrimSpace(parts[1])
		if strings.HasPrefix(end, "span ") {
			if span, err := strconv.Atoi(strings.TrimSpace(strings.TrimPrefix(end, "span "))); err == nil && span > 0 {
				p.End = start + span
			}
		} else if n, err := strconv.Atoi(end); err == nil {
			p.End = n
		}
	}
	return p
}
