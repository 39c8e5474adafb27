package css

import (
	"strconv"
	"strings"
)

// BackgroundRepeatType represents the background-repeat keywords.
type BackgroundRepeatType string

const (
	BackgroundRepeatRepeat   BackgroundRepeatType = "repeat"
	BackgroundRepeatNoRepeat BackgroundRepeatType = "no-repeat"
	BackgroundRepeatRepeatX  BackgroundRepeatType = "repeat-x"
	BackgroundRepeatRepeatY  BackgroundRepeatType = "repeat-y"
)

// BackgroundPosition is the background-position offset in pixels.
type BackgroundPosition struct {
	X, Y float64
}

// ParseURLValue extracts the URL from a CSS url(...) value.
// Handles url(foo.png), url('foo.png'), url("foo.png"), and data URIs.
func ParseURLValue(value string) (string, bool) {
	value = strings.TrimSpace(value)
	if !strings.HasPrefix(value, "url(") || !strings.HasSuffix(value, ")") {
		return "", false
	}
	inner := strings.TrimSpace(value[len("url(") : len(value)-1])
	inner = strings.Trim(inner, `'"`)
	inner = strings.TrimSpace(inner)
	if inner == "" {
		return "", false
	}
	return inner, true
}

// GetBackgroundImage returns the background-image URL, if one is set.
func (s *Style) GetBackgroundImage() (string, bool) {
	v, ok := s.Get("background-image")
	if !ok {
		return "", false
	}
	return ParseURLValue(v)
}

// GetBackgroundRepeat returns the background-repeat value (default: repeat).
func (s *Style) GetBackgroundRepeat() BackgroundRepeatType {
	switch v, _ := s.Get("background-repeat"); v {
	case "no-repeat":
		return BackgroundRepeatNoRepeat
	case "repeat-x":
		return BackgroundRepeatRepeatX
	case "repeat-y":
		return BackgroundRepeatRepeatY
	default:
		return BackgroundRepeatRepeat
	}
}

// GetBackgroundPosition returns the background-position offset in pixels
// (default: 0 0). Only pixel and bare-number values are handled; keyword
// positions resolve to 0.
func (s *Style) GetBackgroundPosition() BackgroundPosition {
	v, ok := s.Get("background-position")
	if !ok {
		return BackgroundPosition{}
	}
	parts := strings.Fields(v)
	pos := BackgroundPosition{}
	if len(parts) >= 1 {
		pos.X = parsePositionComponent(parts[0])
	}
	if len(parts) >= 2 {
		pos.Y = parsePositionComponent(parts[1])
	}
	return pos
}

func parsePositionComponent(v string) float64 {
	v = strings.TrimSuffix(v, "px")
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0
	}
	return f
}

// expandBackgroundProperty expands the background shorthand into
// background-color, background-image, background-repeat and
// background-position. Tokens are classified by shape: url(...) and
// gradients are images, repeat keywords are repeats, lengths are position
// components, anything left is the color.
func expandBackgroundProperty(style *Style, value string) {
	if strings.Contains(value, "-gradient(") {
		style.Set("background-image", strings.TrimSpace(value))
		return
	}

	var positions []string
	for _, part := range strings.Fields(value) {
		switch {
		case strings.HasPrefix(part, "url("):
			style.Set("background-image", part)
		case part == "repeat" || part == "no-repeat" || part == "repeat-x" || part == "repeat-y":
			style.Set("background-repeat", part)
		case isPositionComponent(part):
			positions = append(positions, part)
		default:
			style.Set("background-color", part)
		}
	}
	if len(positions) > 0 {
		style.Set("background-position", strings.Join(positions, " "))
	}
}

func isPositionComponent(v string) bool {
	trimmed := strings.TrimSuffix(v, "px")
	trimmed = strings.TrimSuffix(trimmed, "%")
	_, err := strconv.ParseFloat(trimmed, 64)
	return err == nil
}
