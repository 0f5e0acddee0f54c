package term

import (
	"math"
	"testing"

	"github.com/automoto/arena-mp/netsync"
	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testArena = netsync.Bounds{Width: 800, Height: 600}

func newScreen(t *testing.T) tcell.SimulationScreen {
	t.Helper()
	s := tcell.NewSimulationScreen("UTF-8")
	require.NoError(t, s.Init())
	s.SetSize(80, 25)
	t.Cleanup(s.Fini)
	return s
}

func runeAt(s tcell.Screen, col, row int) rune {
	r, _, _, _ := s.GetContent(col, row)
	return r
}

func attrsAt(s tcell.Screen, col, row int) tcell.AttrMask {
	_, _, style, _ := s.GetContent(col, row)
	_, _, attrs := style.Decompose()
	return attrs
}

func TestCanvasDrawsEntities(t *testing.T) {
	s := newScreen(t)
	c := NewCanvas(s)

	c.Begin(testArena)
	c.ApplyEntityState("me", 400, 300, 0, netsync.Attributes{Color: "#00ff00", Name: "me", Local: true})
	c.ApplyEntityState("them", 200, 300, math.Pi/2, netsync.Attributes{Color: "#ff0000"})
	c.End()

	assert.Equal(t, '@', runeAt(s, 40, 12))
	assert.Equal(t, '-', runeAt(s, 41, 12))
	assert.Equal(t, 'm', runeAt(s, 39, 11))
	assert.Equal(t, 'e', runeAt(s, 40, 11))

	assert.Equal(t, 'o', runeAt(s, 20, 12))
	assert.Equal(t, '|', runeAt(s, 20, 13))
	assert.NotZero(t, attrsAt(s, 40, 12)&tcell.AttrBold)
	assert.Zero(t, attrsAt(s, 20, 12)&tcell.AttrBold)
}

func TestCanvasFlashReversesEntity(t *testing.T) {
	s := newScreen(t)
	c := NewCanvas(s)

	c.Begin(testArena)
	c.ApplyEntityState("hit", 400, 300, 0, netsync.Attributes{Flash: 0.5})
	c.End()

	assert.NotZero(t, attrsAt(s, 40, 12)&tcell.AttrReverse)
	assert.Zero(t, attrsAt(s, 41, 12)&tcell.AttrReverse)
}

func TestCanvasProjectilesAndStatus(t *testing.T) {
	s := newScreen(t)
	c := NewCanvas(s)

	c.Begin(testArena)
	c.ApplyProjectile(netsync.Projectile{ID: "b1", X: 795, Y: 595})
	c.Status("connected")
	c.End()

	assert.Equal(t, '*', runeAt(s, 79, 23))
	assert.Equal(t, 'c', runeAt(s, 0, 24))
	assert.NotZero(t, attrsAt(s, 20, 24)&tcell.AttrReverse)
}

func TestCanvasToArena(t *testing.T) {
	s := newScreen(t)
	c := NewCanvas(s)
	c.Begin(testArena)

	x, y := c.ToArena(40, 12)
	assert.InDelta(t, 405, x, 1e-9)
	assert.InDelta(t, 312.5, y, 1e-9)
}

func TestGunGlyph(t *testing.T) {
	cases := map[float64]rune{
		0:                '-',
		math.Pi / 4:      '\\',
		math.Pi / 2:      '|',
		3 * math.Pi / 4:  '/',
		math.Pi:          '-',
		-math.Pi / 4:     '/',
		-math.Pi / 2:     '|',
		-3 * math.Pi / 4: '\\',
	}
	for angle, want := range cases {
		assert.Equal(t, want, gunGlyph(angle), "angle %v", angle)
	}
}
