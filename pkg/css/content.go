package css

import "strings"

// ContentValue is one component of a parsed `content` property value.
// Type is one of "text", "url", "counter", "attr", "open-quote",
// "close-quote"; Value carries the string, URL, counter name or attribute
// name for the types that have one.
type ContentValue struct {
	Type  string
	Value string
}

// GetContentValues parses the `content` property into its components.
// Returns (nil, false) for none/normal or when the property is unset.
func (s *Style) GetContentValues() ([]ContentValue, bool) {
	raw, ok := s.Get("content")
	if !ok {
		return nil, false
	}
	raw = strings.TrimSpace(raw)
	if raw == "" || raw == "none" || raw == "normal" {
		return nil, false
	}

	var values []ContentValue
	i := 0
	for i < len(raw) {
		switch {
		case raw[i] == ' ' || raw[i] == '\t':
			i++
		case raw[i] == '"' || raw[i] == '\'':
			quote := raw[i]
			end := i + 1
			for end < len(raw) && raw[end] != quote {
				end++
			}
			values = append(values, ContentValue{Type: "text", Value: raw[i+1 : end]})
			if end < len(raw) {
				end++
			}
			i = end
		default:
			end := i
			depth := 0
			for end < len(raw) && (depth > 0 || (raw[end] != ' ' && raw[end] != '\t')) {
				if raw[end] == '(' {
					depth++
				} else if raw[end] == ')' {
					depth--
				}
				end++
			}
			token := raw[i:end]
			i = end
			switch {
			case token == "open-quote":
				values = append(values, ContentValue{Type: "open-quote"})
			case token == "close-quote":
				values = append(values, ContentValue{Type: "close-quote"})
			case strings.HasPrefix(token, "url("):
				if url, ok := ParseURLValue(token); ok {
					values = append(values, ContentValue{Type: "url", Value: url})
				}
			case strings.HasPrefix(token, "counter(") && strings.HasSuffix(token, ")"):
				name := strings.TrimSpace(token[len("counter(") : len(token)-1])
				if comma := strings.Index(name, ","); comma >= 0 {
					name = strings.TrimSpace(name[:comma])
				}
				values = append(values, ContentValue{Type: "counter", Value: name})
			case strings.HasPrefix(token, "attr(") && strings.HasSuffix(token, ")"):
				name := strings.TrimSpace(token[len("attr(") : len(token)-1])
				values = append(values, ContentValue{Type: "attr", Value: name})
			}
		}
	}
	if len(values) == 0 {
		return nil, false
	}
	return values, true
}
