// Package render holds helpers shared by the arena's drawing back-ends.
package render

import (
	"image/color"
	"math"

	"github.com/lucasb-eyer/go-colorful"
)

// ParseColor parses a #RRGGBB entity color, returning fallback when the
// value is empty or malformed.
func ParseColor(hex string, fallback color.RGBA) color.RGBA {
	c, err := colorful.Hex(hex)
	if err != nil {
		return fallback
	}
	r, g, b := c.RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 255}
}

// FlashColor blends c toward white by the flash intensity in [0, 1].
func FlashColor(c color.RGBA, flash float64) color.RGBA {
	if flash <= 0 {
		return c
	}
	flash = math.Min(flash, 1)
	base := colorful.Color{R: float64(c.R) / 255, G: float64(c.G) / 255, B: float64(c.B) / 255}
	r, g, b := base.BlendRgb(colorful.Color{R: 1, G: 1, B: 1}, flash).Clamped().RGB255()
	return color.RGBA{R: r, G: g, B: b, A: c.A}
}

// ArenaToCell maps an arena position onto a cols x rows character grid.
func ArenaToCell(x, y, width, height float64, cols, rows int) (int, int) {
	if width <= 0 || height <= 0 || cols <= 0 || rows <= 0 {
		return 0, 0
	}
	col := int(x / width * float64(cols))
	row := int(y / height * float64(rows))
	return clampInt(col, 0, cols-1), clampInt(row, 0, rows-1)
}

// CellToArena maps a grid cell back to the arena position of its center.
func CellToArena(col, row int, width, height float64, cols, rows int) (float64, float64) {
	if cols <= 0 || rows <= 0 {
		return 0, 0
	}
	return (float64(col) + 0.5) * width / float64(cols), (float64(row) + 0.5) * height / float64(rows)
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
