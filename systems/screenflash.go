package systems

import (
	"image/color"
	"time"

	cfg "github.com/automoto/arena-mp/config"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
	"github.com/yohamta/donburi/ecs"
)

// ScreenFlash tints the whole screen when the local player is hit.
type ScreenFlash struct {
	tween *gween.Tween
	alpha float64
}

// Trigger restarts the flash at full strength.
func (f *ScreenFlash) Trigger() {
	f.tween = gween.New(float32(cfg.ScreenFlash.MaxAlpha), 0, float32(cfg.ScreenFlash.Duration.Seconds()), ease.OutQuad)
	f.alpha = cfg.ScreenFlash.MaxAlpha
}

// Advance moves the fade forward by dt.
func (f *ScreenFlash) Advance(dt time.Duration) {
	if f.tween == nil {
		return
	}
	v, done := f.tween.Update(float32(dt.Seconds()))
	f.alpha = float64(v)
	if done {
		f.tween = nil
		f.alpha = 0
	}
}

func (f *ScreenFlash) Alpha() float64 { return f.alpha }

// Draw is an ECS renderer.
func (f *ScreenFlash) Draw(e *ecs.ECS, screen *ebiten.Image) {
	if f.alpha <= 0 {
		return
	}
	c := cfg.ScreenFlash.Color
	c.A = uint8(f.alpha * 255)
	w, h := screen.Bounds().Dx(), screen.Bounds().Dy()
	vector.DrawFilledRect(screen, 0, 0, float32(w), float32(h), premultiply(c), false)
}

func premultiply(c color.RGBA) color.RGBA {
	a := uint16(c.A)
	return color.RGBA{
		R: uint8(uint16(c.R) * a / 255),
		G: uint8(uint16(c.G) * a / 255),
		B: uint8(uint16(c.B) * a / 255),
		A: c.A,
	}
}
