package gutter

import "strconv"

// LineNumberMode defines how line numbers are displayed.
type LineNumberMode uint8

const (
	// LineNumberAbsolute shows absolute line numbers (1, 2, 3, ...).
	LineNumberAbsolute LineNumberMode = iota

	// LineNumberRelative shows relative line numbers from cursor.
	LineNumberRelative

	// LineNumberHybrid shows absolute for current line, relative for others.
	LineNumberHybrid
)

// ParseMode maps a config value to a mode. Unknown names are absolute.
func ParseMode(s string) LineNumberMode {
	switch s {
	case "relative":
		return LineNumberRelative
	case "hybrid":
		return LineNumberHybrid
	default:
		return LineNumberAbsolute
	}
}

// LineNumberFormatter formats line numbers according to configuration.
type LineNumberFormatter struct {
	mode        LineNumberMode
	width       int
	currentLine int
}

// NewLineNumberFormatter creates a new line number formatter.
func NewLineNumberFormatter(mode LineNumberMode, width int) *LineNumberFormatter {
	return &LineNumberFormatter{mode: mode, width: width}
}

// SetCurrentLine sets the current cursor line for relative calculations.
func (f *LineNumberFormatter) SetCurrentLine(line int) {
	f.currentLine = line
}

// Format returns the formatted line number string.
func (f *LineNumberFormatter) Format(line int) string {
	return PadLeft(strconv.Itoa(f.calculateNumber(line)), f.width)
}

// FormatWithHighlight returns the formatted number and whether it should be highlighted.
func (f *LineNumberFormatter) FormatWithHighlight(line int) (string, bool) {
	return f.Format(line), line == f.currentLine
}

func (f *LineNumberFormatter) calculateNumber(line int) int {
	switch f.mode {
	case LineNumberRelative:
		return absDiff(line, f.currentLine)
	case LineNumberHybrid:
		if line == f.currentLine {
			return line + 1
		}
		return absDiff(line, f.currentLine)
	default:
		return line + 1 // 1-indexed display
	}
}

func absDiff(a, b int) int {
	if a > b {
		return a - b
	}
	return b - a
}

// PadLeft pads a string with spaces on the left to the specified width.
func PadLeft(s string, width int) string {
	for len(s) < width {
		s = " " + s
	}
	return s
}

// CalculateWidth calculates the minimum width needed to display line numbers
// for the given line count.
func CalculateWidth(lineCount int, minWidth int) int {
	return max(countDigits(lineCount), minWidth)
}
