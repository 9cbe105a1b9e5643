package popup

import (
	"fmt"
	"strconv"
)

// Content is what the popup displays.
type Content struct {
	Percent  int    // Backlight brightness, 0-100
	Color    string // "#RRGGBB"
	FontSize int    // Points
}

// Markup renders the content as Pango markup.
func (c Content) Markup() string {
	return fmt.Sprintf("<span color='%s' font='%d' weight='heavy'>%d%%</span>", c.Color, c.FontSize, c.Percent)
}

// Plain renders the content without markup.
func (c Content) Plain() string {
	return strconv.Itoa(c.Percent) + "%"
}

// Fraction returns the brightness as 0.0-1.0, clamped.
func (c Content) Fraction() float64 {
	switch {
	case c.Percent <= 0:
		return 0
	case c.Percent >= 100:
		return 1
	default:
		return float64(c.Percent) / 100
	}
}
