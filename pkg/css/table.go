package css

// BorderCollapse represents the border-collapse property value
type BorderCollapse string

const (
	BorderCollapseSeparate BorderCollapse = "separate"
	BorderCollapseCollapse BorderCollapse = "collapse"
)

// GetBorderCollapse returns the border-collapse value (default: separate)
func (s *Style) GetBorderCollapse() BorderCollapse {
	if v, _ := s.Get("border-collapse"); v == "collapse" {
		return BorderCollapseCollapse
	}
	return BorderCollapseSeparate
}

// GetBorderSpacing returns the border-spacing length in pixels (default: 0)
func (s *Style) GetBorderSpacing() float64 {
	if v, ok := s.GetLength("border-spacing"); ok {
		return v
	}
	return 0
}
