package css

import (
	"strconv"
	"strings"
)

// FlexDirection represents the flex-direction property value
type FlexDirection string

const (
	FlexDirectionRow           FlexDirection = "row"
	FlexDirectionRowReverse    FlexDirection = "row-reverse"
	FlexDirectionColumn        FlexDirection = "column"
	FlexDirectionColumnReverse FlexDirection = "column-reverse"
)

// FlexWrap represents the flex-wrap property value
type FlexWrap string

const (
	FlexWrapNowrap      FlexWrap = "nowrap"
	FlexWrapWrap        FlexWrap = "wrap"
	FlexWrapWrapReverse FlexWrap = "wrap-reverse"
)

// JustifyContent represents the justify-content property value
type JustifyContent string

const (
	JustifyContentFlexStart    JustifyContent = "flex-start"
	JustifyContentFlexEnd      JustifyContent = "flex-end"
	JustifyContentCenter       JustifyContent = "center"
	JustifyContentSpaceBetween JustifyContent = "space-between"
	JustifyContentSpaceAround  JustifyContent = "space-around"
	JustifyContentSpaceEvenly  JustifyContent = "space-evenly"
)

// AlignItems represents the align-items property value
type AlignItems string

const (
	AlignItemsStretch   AlignItems = "stretch"
	AlignItemsFlexStart AlignItems = "flex-start"
	AlignItemsFlexEnd   AlignItems = "flex-end"
	AlignItemsCenter    AlignItems = "center"
	AlignItemsBaseline  AlignItems = "baseline"
)

// AlignContent represents the align-content property value
type AlignContent string

const (
	AlignContentStretch      AlignContent = "stretch"
	AlignContentFlexStart    AlignContent = "flex-start"
	AlignContentFlexEnd      AlignContent = "flex-end"
	AlignContentCenter       AlignContent = "center"
	AlignContentSpaceBetween AlignContent = "space-between"
	AlignContentSpaceAround  AlignContent = "space-around"
)

// AlignSelf represents the align-self property value
type AlignSelf string

const (
	AlignSelfAuto      AlignSelf = "auto"
	AlignSelfStretch   AlignSelf = "stretch"
	AlignSelfFlexStart AlignSelf = "flex-start"
	AlignSelfFlexEnd   AlignSelf = "flex-end"
	AlignSelfCenter    AlignSelf = "center"
	AlignSelfBaseline  AlignSelf = "baseline"
)

// GetFlexDirection returns the flex-direction value (default: row)
func (s *Style) GetFlexDirection() FlexDirection {
	switch v, _ := s.Get("flex-direction"); v {
	case "row-reverse":
		return FlexDirectionRowReverse
	case "column":
		return FlexDirectionColumn
	case "column-reverse":
		return FlexDirectionColumnReverse
	default:
		return FlexDirectionRow
	}
}

// GetFlexWrap returns the flex-wrap value (default: nowrap)
func (s *Style) GetFlexWrap() FlexWrap {
	switch v, _ := s.Get("flex-wrap"); v {
	case "wrap":
		return FlexWrapWrap
	case "wrap-reverse":
		return FlexWrapWrapReverse
	default:
		return FlexWrapNowrap
	}
}

// GetJustifyContent returns the justify-content value (default: flex-start)
func (s *Style) GetJustifyContent() JustifyContent {
	switch v, _ := s.Get("justify-content"); v {
	case "flex-end", "end":
		return JustifyContentFlexEnd
	case "center":
		return JustifyContentCenter
	case "space-between":
		return JustifyContentSpaceBetween
	case "space-around":
		return JustifyContentSpaceAround
	case "space-evenly":
		return JustifyContentSpaceEvenly
	default:
		return JustifyContentFlexStart
	}
}

// GetAlignItems returns the align-items value (default: stretch)
func (s *Style) GetAlignItems() AlignItems {
	switch v, _ := s.Get("align-items"); v {
	case "flex-start", "start":
		return AlignItemsFlexStart
	case "flex-end", "end":
		return AlignItemsFlexEnd
	case "center":
		return AlignItemsCenter
	case "baseline":
		return AlignItemsBaseline
	default:
		return AlignItemsStretch
	}
}

// GetAlignContent returns the align-content value (default: stretch)
func (s *Style) GetAlignContent() AlignContent {
	switch v, _ := s.Get("align-content"); v {
	case "flex-start", "start":
		return AlignContentFlexStart
	case "flex-end", "end":
		return AlignContentFlexEnd
	case "center":
		return AlignContentCenter
	case "space-between":
		return AlignContentSpaceBetween
	case "space-around":
		return AlignContentSpaceAround
	default:
		return AlignContentStretch
	}
}

// GetAlignSelf returns the align-self value (default: auto)
func (s *Style) GetAlignSelf() AlignSelf {
	switch v, _ := s.Get("align-self"); v {
	case "stretch":
		return AlignSelfStretch
	case "flex-start", "start":
		return AlignSelfFlexStart
	case "flex-end", "end":
		return AlignSelfFlexEnd
	case "center":
		return AlignSelfCenter
	case "baseline":
		return AlignSelfBaseline
	default:
		return AlignSelfAuto
	}
}

// GetFlexGrow returns the flex-grow value (default: 0)
func (s *Style) GetFlexGrow() float64 {
	if v, ok := s.Get("flex-grow"); ok {
		if f, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err == nil && f >= 0 {
			return f
		}
	}
	return 0
}

// GetFlexShrink returns the flex-shrink value (default: 1)
func (s *Style) GetFlexShrink() float64 {
	if v, ok := s.Get("flex-shrink"); ok {
		if f, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err == nil && f >= 0 {
			return f
		}
	}
	return 1
}

// GetOrder returns the order value (default: 0)
func (s *Style) GetOrder() int {
	if v, ok := s.Get("order"); ok {
		if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			return n
		}
	}
	return 0
}

// FlexBasis is a parsed flex-basis value: the auto keyword, a percentage,
// or an absolute length.
type FlexBasis struct {
	IsAuto     bool
	IsPercent  bool
	Percentage float64
	Length     float64
}

// GetFlexBasisValue returns the parsed flex-basis value (default: auto)
func (s *Style) GetFlexBasisValue() FlexBasis {
	v, ok := s.Get("flex-basis")
	if !ok || v == "auto" || v == "" {
		return FlexBasis{IsAuto: true}
	}
	if pct, ok := ParsePercentage(v); ok {
		return FlexBasis{IsPercent: true, Percentage: pct}
	}
	if l, ok := ParseLength(v); ok {
		return FlexBasis{Length: l}
	}
	return FlexBasis{IsAuto: true}
}

// ParsePercentage parses a percentage value like "50%" into its number (50).
func ParsePercentage(val string) (float64, bool) {
	val = strings.TrimSpace(val)
	if !strings.HasSuffix(val, "%") {
		return 0, false
	}
	num, err := strconv.ParseFloat(strings.TrimSuffix(val, "%"), 64)
	if err != nil {
		return 0, false
	}
	return num, true
}

// ParseLengthWithFontSize parses a length value, resolving em units against
// fontSize and rem units against the root default of 16px.
func ParseLengthWithFontSize(val string, fontSize float64) (float64, bool) {
	val = strings.TrimSpace(val)
	switch {
	case strings.HasSuffix(val, "rem"):
		if n, err := strconv.ParseFloat(strings.TrimSuffix(val, "rem"), 64); err == nil {
			return n * 16, true
		}
		return 0, false
	case strings.HasSuffix(val, "em"):
		if n, err := strconv.ParseFloat(strings.TrimSuffix(val, "em"), 64); err == nil {
			return n * fontSize, true
		}
		return 0, false
	default:
		return ParseLength(val)
	}
}
