package systems

import (
	"image/color"

	cfg "github.com/automoto/arena-mp/config"
	"github.com/automoto/arena-mp/netsync"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/yohamta/donburi/ecs"
)

var (
	ghostColor  = color.RGBA{0, 255, 255, 255}
	staleColor  = color.RGBA{100, 100, 100, 255} // Only one snapshot buffered
	ghostBorder = float32(1)
)

// NewGhostRenderer outlines where the server last placed each remote player,
// next to the interpolated position drawn by the players renderer.
func NewGhostRenderer(engine *netsync.Engine) func(*ecs.ECS, *ebiten.Image) {
	return func(_ *ecs.ECS, screen *ebiten.Image) {
		if !cfg.Debug.ShowGhosts {
			return
		}
		for _, id := range engine.Registry().IDs() {
			snap, ok := engine.LatestSnapshot(id)
			if !ok {
				continue
			}
			v, _ := engine.Registry().Lookup(id)
			size := float32(v.Attrs.Size)
			if size <= 0 {
				size = defaultEntitySize
			}
			c := ghostColor
			if engine.BufferLen(id) < 2 {
				c = staleColor
			}
			drawOutline(screen, float32(snap.Pose.X)-size, float32(snap.Pose.Y)-size, 2*size, 2*size, c)
		}
	}
}

func drawOutline(screen *ebiten.Image, x, y, w, h float32, c color.RGBA) {
	vector.FillRect(screen, x, y, w, ghostBorder, c, false)
	vector.FillRect(screen, x, y+h-ghostBorder, w, ghostBorder, c, false)
	vector.FillRect(screen, x, y, ghostBorder, h, c, false)
	vector.FillRect(screen, x+w-ghostBorder, y, ghostBorder, h, c, false)
}
