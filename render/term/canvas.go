// Package term draws the arena in a terminal with tcell.
package term

import (
	"image/color"
	"math"

	"github.com/automoto/arena-mp/netsync"
	"github.com/automoto/arena-mp/render"
	"github.com/gdamore/tcell/v2"
)

var (
	styleDefault    = tcell.StyleDefault
	styleProjectile = tcell.StyleDefault.Foreground(tcell.ColorYellow).Bold(true)
	styleStatus     = tcell.StyleDefault.Reverse(true)
	styleGrid       = tcell.StyleDefault.Foreground(tcell.ColorDarkGray)
)

var fallbackColor = color.RGBA{R: 255, G: 255, B: 255, A: 255}

// Canvas maps the arena onto the terminal grid. The bottom row is kept for
// the status line.
type Canvas struct {
	screen tcell.Screen
	arena  netsync.Bounds
	cols   int
	rows   int
}

func NewCanvas(screen tcell.Screen) *Canvas {
	return &Canvas{screen: screen}
}

// Begin clears the screen and sizes the grid for a frame of arena.
func (c *Canvas) Begin(arena netsync.Bounds) {
	c.arena = arena
	w, h := c.screen.Size()
	c.cols, c.rows = w, max(h-1, 1)
	c.screen.Clear()

	for row := 0; row < c.rows; row++ {
		for col := 0; col < c.cols; col++ {
			if col%10 == 0 && row%5 == 0 {
				c.screen.SetContent(col, row, '+', nil, styleGrid)
			}
		}
	}
}

func (c *Canvas) ApplyEntityState(_ netsync.EntityID, x, y, angle float64, attrs netsync.Attributes) {
	col, row := c.cell(x, y)

	rgb := render.ParseColor(attrs.Color, fallbackColor)
	style := styleDefault.Foreground(tcell.NewRGBColor(int32(rgb.R), int32(rgb.G), int32(rgb.B)))
	if attrs.Flash > 0 {
		style = style.Reverse(true)
	}
	glyph := 'o'
	if attrs.Local {
		glyph = '@'
		style = style.Bold(true)
	}

	gcol := col + int(math.Round(math.Cos(angle)))
	grow := row + int(math.Round(math.Sin(angle)))
	if c.inside(gcol, grow) && (gcol != col || grow != row) {
		c.screen.SetContent(gcol, grow, gunGlyph(angle), nil, style.Reverse(false))
	}
	c.screen.SetContent(col, row, glyph, nil, style)

	if attrs.Name != "" && row > 0 {
		c.text(col-len([]rune(attrs.Name))/2, row-1, attrs.Name, style.Reverse(false).Bold(false).Dim(true))
	}
}

func (c *Canvas) ApplyProjectile(p netsync.Projectile) {
	col, row := c.cell(p.X, p.Y)
	c.screen.SetContent(col, row, '*', nil, styleProjectile)
}

// Status writes line across the bottom row.
func (c *Canvas) Status(line string) {
	w, h := c.screen.Size()
	row := h - 1
	for col := 0; col < w; col++ {
		c.screen.SetContent(col, row, ' ', nil, styleStatus)
	}
	c.text(0, row, line, styleStatus)
}

func (c *Canvas) End() {
	c.screen.Show()
}

// ToArena converts a terminal cell to the arena position at its center.
func (c *Canvas) ToArena(col, row int) (float64, float64) {
	return render.CellToArena(col, row, c.arena.Width, c.arena.Height, c.cols, c.rows)
}

func (c *Canvas) cell(x, y float64) (int, int) {
	return render.ArenaToCell(x, y, c.arena.Width, c.arena.Height, c.cols, c.rows)
}

func (c *Canvas) inside(col, row int) bool {
	return col >= 0 && row >= 0 && col < c.cols && row < c.rows
}

func (c *Canvas) text(col, row int, s string, style tcell.Style) {
	for _, r := range s {
		if col >= 0 && col < c.cols {
			c.screen.SetContent(col, row, r, nil, style)
		}
		col++
	}
}

// gunGlyph picks the line character closest to angle on a y-down grid.
func gunGlyph(angle float64) rune {
	octant := int(math.Round(netsync.NormalizeAngle(angle) / (math.Pi / 4)))
	switch ((octant % 4) + 4) % 4 {
	case 1:
		return '\\'
	case 2:
		return '|'
	case 3:
		return '/'
	default:
		return '-'
	}
}
