package viewport

// MarginConfig holds scroll margin configuration.
type MarginConfig struct {
	Top    int // Rows to keep above cursor
	Bottom int // Rows to keep below cursor
	Left   int // Columns to keep left of cursor
	Right  int // Columns to keep right of cursor
}

// DefaultMargins returns the margins used when none are configured.
func DefaultMargins() MarginConfig {
	return MarginConfig{Top: 3, Bottom: 3, Left: 8, Right: 8}
}

// NoMargins returns zero margins (cursor can go to edge).
func NoMargins() MarginConfig {
	return MarginConfig{}
}

// SetMargins sets the scroll margins. Negative values become zero.
func (v *Viewport) SetMargins(m MarginConfig) {
	v.margins = MarginConfig{
		Top:    max(m.Top, 0),
		Bottom: max(m.Bottom, 0),
		Left:   max(m.Left, 0),
		Right:  max(m.Right, 0),
	}
}

// maxMarginRatio limits margins to 1/3 of viewport dimension to ensure
// there's always usable space in the center.
const maxMarginRatio = 3

// EffectiveMargins returns margins adjusted for viewport size.
func (v *Viewport) EffectiveMargins() MarginConfig {
	m := v.margins
	maxV := (v.height - 1) / maxMarginRatio
	maxH := (v.width - 1) / maxMarginRatio
	m.Top = min(m.Top, maxV)
	m.Bottom = min(m.Bottom, maxV)
	m.Left = min(m.Left, maxH)
	m.Right = min(m.Right, maxH)
	return m
}
