package text

import (
	"github.com/fogleman/gg"
)

// DefaultFontPath is the path to the regular-weight font used for
// measurement and painting when no font-family on the element resolves to
// something the backend has loaded. Relative to the process's working
// directory; override via SetFontPaths for a packaged binary.
var DefaultFontPath = "assets/fonts/AtkinsonHyperlegible-Regular.ttf"

// BoldFontPath is the bold-weight counterpart of DefaultFontPath.
var BoldFontPath = "assets/fonts/AtkinsonHyperlegible-Bold.ttf"

// SetFontPaths overrides the regular/bold font paths, e.g. so cmd/tessera
// can point at fonts bundled alongside the executable.
func SetFontPaths(regular, bold string) {
	DefaultFontPath = regular
	BoldFontPath = bold
}

// FontConfig names the font file backing each face a document might ask
// for. Fields left empty fall back to the regular face.
type FontConfig struct {
	Regular string
	Bold    string
	Italic  string
	Mono    string
	Ahem    string
}

// DefaultFontConfig returns the bundled regular/bold pair with no italic,
// monospace, or test-font overrides.
func DefaultFontConfig() FontConfig {
	return FontConfig{Regular: DefaultFontPath, Bold: BoldFontPath}
}

// FontPath resolves which face file to load for a run with the given
// style flags. ahem takes priority (it's only set for layout tests that
// need a predictable glyph metric), then mono, then bold/italic.
func (f FontConfig) FontPath(bold, italic, mono, ahem bool) string {
	switch {
	case ahem && f.Ahem != "":
		return f.Ahem
	case mono && f.Mono != "":
		return f.Mono
	case bold && f.Bold != "":
		return f.Bold
	case italic && f.Italic != "":
		return f.Italic
	case f.Regular != "":
		return f.Regular
	default:
		return DefaultFontPath
	}
}

// MeasureText measures the width and height of text with the given font size
func MeasureText(text string, fontSize float64, fontPath string) (width, height float64) {
	// Use a temporary context for measurement
	dc := gg.NewContext(1000, 1000)

	// Load the font
	if err := dc.LoadFontFace(fontPath, fontSize); err != nil {
		// If font loading fails, return rough estimate
		return float64(len(text)) * fontSize * 0.6, fontSize * 1.2
	}

	// Measure the text
	w, h := dc.MeasureString(text)

	// Add some padding to height for proper baseline alignment
	return w, h
}

// MeasureTextDefault measures text using the default font
func MeasureTextDefault(text string, fontSize float64) (width, height float64) {
	return MeasureText(text, fontSize, DefaultFontPath)
}

// MeasureTextWithWeight measures text using the specified font weight
func MeasureTextWithWeight(text string, fontSize float64, bold bool) (width, height float64) {
	fontPath := DefaultFontPath
	if bold {
		fontPath = BoldFontPath
	}
	return MeasureText(text, fontSize, fontPath)
}

// Phase 6 Enhancement: BreakTextIntoLines breaks text into lines that fit within maxWidth
func BreakTextIntoLines(text string, fontSize float64, bold bool, maxWidth float64) []string {
	fontPath := DefaultFontPath
	if bold {
		fontPath = BoldFontPath
	}

	// Use a temporary context for measurement
	dc := gg.NewContext(1000, 1000)
	if err := dc.LoadFontFace(fontPath, fontSize); err != nil {
		// If font loading fails, return text as single line
		return []string{text}
	}

	// Check if text fits on one line
	textWidth, _ := dc.MeasureString(text)
	if textWidth <= maxWidth {
		return []string{text}
	}

	// Split into words
	words := splitIntoWords(text)
	if len(words) == 0 {
		return []string{text}
	}

	// Build lines
	lines := make([]string, 0)
	currentLine := ""

	for _, word := range words {
		testLine := currentLine
		if testLine != "" {
			testLine += " "
		}
		testLine += word

		lineWidth, _ := dc.MeasureString(testLine)
		if lineWidth <= maxWidth {
			currentLine = testLine
		} else {
			// Word doesn't fit, start new line
			if currentLine != "" {
				lines = append(lines, currentLine)
			}
			currentLine = word
		}
	}

	// Add last line
	if currentLine != "" {
		lines = append(lines, currentLine)
	}

	if len(lines) == 0 {
		return []string{text}
	}

	return lines
}

// splitIntoWords splits text into words preserving spaces
func splitIntoWords(text string) []string {
	words := make([]string, 0)
	currentWord := ""

	for _, ch := range text {
		if ch == ' ' || ch == '\t' || ch == '\n' {
			if currentWord != "" {
				words = append(words, currentWord)
				currentWord = ""
			}
		} else {
			currentWord += string(ch)
		}
	}

	if currentWord != "" {
		words = append(words, currentWord)
	}

	return words
}

// BreakTextIntoLinesWithWrap breaks text into lines where the first line
// fits within firstLineWidth and every subsequent line within laterWidth.
// Used when text starts beside a float or an inline image and wraps back
// to the full content width below it.
func BreakTextIntoLinesWithWrap(text string, fontSize float64, bold bool, firstLineWidth, laterWidth float64) []string {
	fontPath := DefaultFontPath
	if bold {
		fontPath = BoldFontPath
	}

	dc := gg.NewContext(1000, 1000)
	if err := dc.LoadFontFace(fontPath, fontSize); err != nil {
		return []string{text}
	}

	words := splitIntoWords(text)
	if len(words) == 0 {
		return []string{text}
	}

	lines := make([]string, 0)
	currentLine := ""
	maxWidth := firstLineWidth

	for _, word := range words {
		testLine := currentLine
		if testLine != "" {
			testLine += " "
		}
		testLine += word

		lineWidth, _ := dc.MeasureString(testLine)
		if lineWidth <= maxWidth {
			currentLine = testLine
		} else {
			if currentLine != "" {
				lines = append(lines, currentLine)
			}
			currentLine = word
			maxWidth = laterWidth
		}
	}

	if currentLine != "" {
		lines = append(lines, currentLine)
	}

	if len(lines) == 0 {
		return []string{text}
	}
	return lines
}

// GetFirstWord returns the first whitespace-delimited word of text.
func GetFirstWord(text string) string {
	words := splitIntoWords(text)
	if len(words) == 0 {
		return ""
	}
	return words[0]
}
