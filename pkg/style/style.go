// Package style implements the computed-style model described by the
// browser engine's render pipeline: a closed enumeration of the properties
// actually consumed by layout and paint, each holding a typed value instead
// of a raw string.
//
// The CSS cascade itself (selector matching, specificity, the raw
// string-keyed declarations) remains the job of pkg/css — an external
// collaborator per the pipeline's scope. Resolve adapts the cascade's
// output into the typed model defined here.
package style

import (
	"strconv"
	"strings"

	"tessera/pkg/css"
)

// Display is the enumerated `display` keyword.
type Display int

const (
	DisplayBlock Display = iota
	DisplayInline
	DisplayInlineBlock
	DisplayFlex
	DisplayGrid
	DisplayTable
	DisplayListItem
	DisplayNone
)

// Position is the enumerated `position` keyword.
type Position int

const (
	PositionStatic Position = iota
	PositionRelative
	PositionAbsolute
	PositionFixed
	PositionSticky
)

// FontWeight is the enumerated `font-weight` keyword (numeric CSS weights
// collapse to normal/bold, matching what the layouter and painter need).
type FontWeight int

const (
	FontWeightNormal FontWeight = 400
	FontWeightBold   FontWeight = 700
)

// TextAlign is the enumerated `text-align` keyword.
type TextAlign int

const (
	TextAlignLeft TextAlign = iota
	TextAlignRight
	TextAlignCenter
	TextAlignJustify
)

// TextWrap is the enumerated `text-wrap`/`white-space` keyword.
type TextWrap int

const (
	TextWrapWrap TextWrap = iota
	TextWrapNoWrap
	TextWrapBalance
	TextWrapPre
)

// BorderLineStyle is the enumerated per-side `border-style` keyword.
type BorderLineStyle int

const (
	BorderStyleNone BorderLineStyle = iota
	BorderStyleSolid
	BorderStyleDashed
	BorderStyleDotted
	BorderStyleDouble
)

// Overflow is the enumerated `overflow` keyword.
type Overflow int

const (
	OverflowVisible Overflow = iota
	OverflowHidden
	OverflowScroll
	OverflowAuto
)

// BoxSizing is the enumerated `box-sizing` keyword.
type BoxSizing int

const (
	BoxSizingContentBox BoxSizing = iota
	BoxSizingBorderBox
)

// Color is a resolved RGBA color; A is in [0,1].
type Color struct {
	R, G, B uint8
	A       float64
}

// Transparent is the zero-value color: fully transparent black.
var Transparent = Color{}

// LengthUnit distinguishes absolute pixel lengths from percentages and the
// keyword lengths (auto/none) that layout must special-case.
type LengthUnit int

const (
	UnitPx LengthUnit = iota
	UnitPercent
	UnitAuto
	UnitNone
)

// Length is a single dimension value: either a pixel quantity, a percentage
// of the containing block, or the auto/none keywords.
type Length struct {
	Value float64
	Unit  LengthUnit
}

func px(v float64) Length { return Length{Value: v, Unit: UnitPx} }

// Auto reports whether this length is the `auto` keyword.
func (l Length) Auto() bool { return l.Unit == UnitAuto }

// Resolve returns the length in pixels given the containing-block size used
// to resolve percentages. Auto/none resolve to 0.
func (l Length) Resolve(containing float64) float64 {
	switch l.Unit {
	case UnitPx:
		return l.Value
	case UnitPercent:
		return containing * l.Value / 100
	default:
		return 0
	}
}

// Edge holds the four sides of a box-model edge (margin, padding, inset).
type Edge struct {
	Top, Right, Bottom, Left Length
}

// BorderSide is one side of a border: width, line style, color and the
// corner radius that applies where this side meets its neighbor.
type BorderSide struct {
	Width  float64
	Style  BorderLineStyle
	Color  Color
	Radius float64
}

// Borders holds the four border sides.
type Borders struct {
	Top, Right, Bottom, Left BorderSide
}

// FlexProps holds the flex-* properties consumed by layout.
type FlexProps struct {
	Direction    string // row | row-reverse | column | column-reverse
	Wrap         string // nowrap | wrap | wrap-reverse
	Grow         float64
	Shrink       float64
	Basis        Length
	JustifyItems string // justify-content
	AlignItems   string
	AlignSelf    string
}

// GridProps holds the grid-* properties consumed by layout.
type GridProps struct {
	TemplateColumns string
	TemplateRows    string
	ColumnGap       Length
	RowGap          Length
}

// Computed is the fully-resolved, typed style for one render node: the
// output of cascade + inheritance, restricted to the closed set of
// properties layout and paint actually consume.
type Computed struct {
	Display  Display
	Position Position

	Width, Height       Length
	MinWidth, MinHeight Length
	MaxWidth, MaxHeight Length

	Margin  Edge
	Padding Edge
	Inset   Edge

	Borders Borders

	BackgroundColor    Color
	BackgroundImage    string        // url, empty when none
	BackgroundGradient *css.Gradient // nil unless background(-image) is a linear-gradient()
	Color              Color         // foreground/text color

	FontWeight FontWeight
	FontSize   float64
	FontFamily string

	TextAlign TextAlign
	TextWrap  TextWrap

	Overflow  Overflow
	BoxSizing BoxSizing

	ZIndex    int
	HasZIndex bool
	Opacity   float64
	Transform string // kept opaque; only "none" vs non-"none" matters to layering

	Gap Length

	Flex FlexProps
	Grid GridProps

	PointerEventsNone bool
}

// inheritedProperties is the set of raw property names that propagate from
// parent to child when the child's own cascade doesn't set them — CSS's
// notion of "inherited" properties, restricted to what this engine models.
var inheritedProperties = map[string]bool{
	"color":           true,
	"font-size":       true,
	"font-weight":     true,
	"font-family":     true,
	"font-style":      true,
	"text-align":      true,
	"text-wrap":       true,
	"white-space":     true,
	"line-height":     true,
	"letter-spacing":  true,
	"visibility":      true,
	"cursor":          true,
	"list-style-type": true,
}

// Inherit copies, onto raw, any property in raw's closed set that raw does
// not itself define but the parent's resolved style does. It mutates and
// returns raw, leaving properties raw already set untouched (the cascade
// always wins over inheritance).
func Inherit(raw *css.Style, parent *css.Style) *css.Style {
	if parent == nil {
		return raw
	}
	for prop := range inheritedProperties {
		if _, ok := raw.Get(prop); ok {
			continue
		}
		if v, ok := parent.Get(prop); ok {
			raw.Set(prop, v)
		}
	}
	return raw
}

// Default returns the initial values for every property this model tracks.
func Default() *Computed {
	return &Computed{
		Display:    DisplayInline,
		Position:   PositionStatic,
		Width:      Length{Unit: UnitAuto},
		Height:     Length{Unit: UnitAuto},
		MinWidth:   Length{Unit: UnitAuto},
		MinHeight:  Length{Unit: UnitAuto},
		MaxWidth:   Length{Unit: UnitNone},
		MaxHeight:  Length{Unit: UnitNone},
		FontWeight: FontWeightNormal,
		FontSize:   16,
		FontFamily: "sans-serif",
		Color:      Color{R: 0, G: 0, B: 0, A: 1},
		Opacity:    1,
		Transform:  "none",
		Flex: FlexProps{
			Direction: "row",
			Wrap:      "nowrap",
			Grow:      0,
			Shrink:    1,
			Basis:     Length{Unit: UnitAuto},
		},
	}
}

// Resolve converts a cascaded (and, per Inherit, inheritance-applied)
// css.Style into the typed Computed model.
func Resolve(raw *css.Style) *Computed {
	c := Default()
	if raw == nil {
		return c
	}

	c.Display = parseDisplay(getOr(raw, "display", "inline"))
	c.Position = parsePosition(getOr(raw, "position", "static"))

	c.Width = parseLength(raw, "width", Length{Unit: UnitAuto})
	c.Height = parseLength(raw, "height", Length{Unit: UnitAuto})
	c.MinWidth = parseLength(raw, "min-width", Length{Unit: UnitAuto})
	c.MinHeight = parseLength(raw, "min-height", Length{Unit: UnitAuto})
	c.MaxWidth = parseLength(raw, "max-width", Length{Unit: UnitNone})
	c.MaxHeight = parseLength(raw, "max-height", Length{Unit: UnitNone})

	c.Margin = Edge{
		Top:    parseLength(raw, "margin-top", px(0)),
		Right:  parseLength(raw, "margin-right", px(0)),
		Bottom: parseLength(raw, "margin-bottom", px(0)),
		Left:   parseLength(raw, "margin-left", px(0)),
	}
	c.Padding = Edge{
		Top:    parseLength(raw, "padding-top", px(0)),
		Right:  parseLength(raw, "padding-right", px(0)),
		Bottom: parseLength(raw, "padding-bottom", px(0)),
		Left:   parseLength(raw, "padding-left", px(0)),
	}
	c.Inset = Edge{
		Top:    parseLength(raw, "top", Length{Unit: UnitAuto}),
		Right:  parseLength(raw, "right", Length{Unit: UnitAuto}),
		Bottom: parseLength(raw, "bottom", Length{Unit: UnitAuto}),
		Left:   parseLength(raw, "left", Length{Unit: UnitAuto}),
	}

	c.Borders = parseBorders(raw)

	if v, ok := raw.Get("background-color"); ok {
		if col, ok := parseColor(v); ok {
			c.BackgroundColor = col
		}
	}
	if v, ok := raw.Get("background-image"); ok {
		if grad, ok := css.GetGradient(v); ok {
			c.BackgroundGradient = grad
		} else if url, ok := raw.GetBackgroundImage(); ok {
			c.BackgroundImage = url
		}
	}
	if v, ok := raw.Get("color"); ok {
		if col, ok := parseColor(v); ok {
			c.Color = col
		}
	}

	if v, ok := raw.Get("font-weight"); ok {
		c.FontWeight = parseFontWeight(v)
	}
	if v, ok := raw.GetLength("font-size"); ok {
		c.FontSize = v
	}
	if v, ok := raw.Get("font-family"); ok {
		c.FontFamily = v
	}

	c.TextAlign = parseTextAlign(getOr(raw, "text-align", "left"))
	c.TextWrap = parseTextWrap(raw)

	c.Overflow = parseOverflow(getOr(raw, "overflow", "visible"))
	c.BoxSizing = parseBoxSizing(getOr(raw, "box-sizing", "content-box"))

	if v, ok := raw.Get("z-index"); ok && v != "auto" && v != "" {
		if z, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			c.ZIndex = z
			c.HasZIndex = true
		}
	}
	if v, ok := raw.Get("opacity"); ok {
		if f, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err == nil {
			c.Opacity = f
		}
	}
	if v, ok := raw.Get("transform"); ok && strings.TrimSpace(v) != "" {
		c.Transform = v
	}

	c.Gap = parseLength(raw, "gap", px(0))

	c.Flex = FlexProps{
		Direction:    getOr(raw, "flex-direction", "row"),
		Wrap:         getOr(raw, "flex-wrap", "nowrap"),
		Grow:         parseFloat(raw, "flex-grow", 0),
		Shrink:       parseFloat(raw, "flex-shrink", 1),
		Basis:        parseLength(raw, "flex-basis", Length{Unit: UnitAuto}),
		JustifyItems: getOr(raw, "justify-content", "flex-start"),
		AlignItems:   getOr(raw, "align-items", "stretch"),
		AlignSelf:    getOr(raw, "align-self", "auto"),
	}
	c.Grid = GridProps{
		TemplateColumns: getOr(raw, "grid-template-columns", ""),
		TemplateRows:    getOr(raw, "grid-template-rows", ""),
		ColumnGap:       parseLength(raw, "column-gap", c.Gap),
		RowGap:          parseLength(raw, "row-gap", c.Gap),
	}

	c.PointerEventsNone = getOr(raw, "pointer-events", "auto") == "none"

	return c
}

// IsStackingContextRoot reports whether this style, on its own, establishes
// a new CSS stacking context (ignoring the root-element special case, which
// the layer component handles separately).
func (c *Computed) IsStackingContextRoot() bool {
	if c.HasZIndex && c.Position != PositionStatic {
		return true
	}
	if c.Opacity < 1 {
		return true
	}
	if c.Transform != "" && c.Transform != "none" {
		return true
	}
	if c.Position == PositionFixed {
		return true
	}
	return false
}

func getOr(s *css.Style, prop, def string) string {
	if v, ok := s.Get(prop); ok && v != "" {
		return v
	}
	return def
}

func parseFloat(s *css.Style, prop string, def float64) float64 {
	v, ok := s.Get(prop)
	if !ok {
		return def
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil {
		return def
	}
	return f
}

func parseLength(s *css.Style, prop string, def Length) Length {
	v, ok := s.Get(prop)
	if !ok {
		return def
	}
	v = strings.TrimSpace(v)
	switch v {
	case "auto":
		return Length{Unit: UnitAuto}
	case "none":
		return Length{Unit: UnitNone}
	case "":
		return def
	}
	if strings.HasSuffix(v, "%") {
		if f, err := strconv.ParseFloat(strings.TrimSuffix(v, "%"), 64); err == nil {
			return Length{Value: f, Unit: UnitPercent}
		}
		return def
	}
	if f, ok := css.ParseLength(v); ok {
		return Length{Value: f, Unit: UnitPx}
	}
	return def
}

// parseColor resolves a color keyword via the cascade's named-color table.
// css.Color carries no alpha channel (the cascade only recognizes a fixed
// set of named colors), so any successful parse is fully opaque; a literal
// "transparent" keyword is not in that table, so it falls through to the
// caller's existing (already-transparent) default rather than being
// special-cased here.
func parseColor(v string) (Color, bool) {
	c, ok := css.ParseColor(v)
	if !ok {
		return Color{}, false
	}
	return Color{R: c.R, G: c.G, B: c.B, A: 1}, true
}

func parseDisplay(v string) Display {
	switch v {
	case "none":
		return DisplayNone
	case "inline":
		return DisplayInline
	case "inline-block":
		return DisplayInlineBlock
	case "flex", "inline-flex":
		return DisplayFlex
	case "grid", "inline-grid":
		return DisplayGrid
	case "table", "table-row", "table-cell":
		return DisplayTable
	case "list-item":
		return DisplayListItem
	default:
		return DisplayBlock
	}
}

func parsePosition(v string) Position {
	switch v {
	case "relative":
		return PositionRelative
	case "absolute":
		return PositionAbsolute
	case "fixed":
		return PositionFixed
	case "sticky":
		return PositionSticky
	default:
		return PositionStatic
	}
}

func parseFontWeight(v string) FontWeight {
	v = strings.TrimSpace(v)
	if v == "bold" {
		return FontWeightBold
	}
	if n, err := strconv.Atoi(v); err == nil && n >= 600 {
		return FontWeightBold
	}
	return FontWeightNormal
}

func parseTextAlign(v string) TextAlign {
	switch v {
	case "right":
		return TextAlignRight
	case "center":
		return TextAlignCenter
	case "justify":
		return TextAlignJustify
	default:
		return TextAlignLeft
	}
}

func parseTextWrap(s *css.Style) TextWrap {
	if v, ok := s.Get("white-space"); ok {
		switch v {
		case "nowrap":
			return TextWrapNoWrap
		case "pre":
			return TextWrapPre
		}
	}
	if v, ok := s.Get("text-wrap"); ok {
		switch v {
		case "nowrap":
			return TextWrapNoWrap
		case "balance":
			return TextWrapBalance
		}
	}
	return TextWrapWrap
}

func parseOverflow(v string) Overflow {
	switch v {
	case "hidden":
		return OverflowHidden
	case "scroll":
		return OverflowScroll
	case "auto":
		return OverflowAuto
	default:
		return OverflowVisible
	}
}

func parseBoxSizing(v string) BoxSizing {
	if v == "border-box" {
		return BoxSizingBorderBox
	}
	return BoxSizingContentBox
}

func parseBorderLineStyle(v string) BorderLineStyle {
	switch v {
	case "solid":
		return BorderStyleSolid
	case "dashed":
		return BorderStyleDashed
	case "dotted":
		return BorderStyleDotted
	case "double":
		return BorderStyleDouble
	default:
		return BorderStyleNone
	}
}

func parseBorders(raw *css.Style) Borders {
	side := func(edge string) BorderSide {
		width := 0.0
		if w, ok := raw.GetLength("border-" + edge + "-width"); ok {
			width = w
		}
		lineStyle := parseBorderLineStyle(getOr(raw, "border-"+edge+"-style", "none"))
		colorStr := getOr(raw, "border-"+edge+"-color", "")
		if colorStr == "" {
			colorStr = getOr(raw, "color", "black")
		}
		col, _ := parseColor(colorStr)
		radius := 0.0
		if r, ok := raw.GetLength("border-radius"); ok {
			radius = r
		}
		return BorderSide{Width: width, Style: lineStyle, Color: col, Radius: radius}
	}
	return Borders{
		Top:    side("top"),
		Right:  side("right"),
		Bottom: side("bottom"),
		Left:   side("left"),
	}
}
