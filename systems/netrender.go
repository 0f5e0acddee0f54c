package systems

import (
	"fmt"
	"image/color"
	"math"

	"github.com/automoto/arena-mp/components"
	cfg "github.com/automoto/arena-mp/config"
	"github.com/automoto/arena-mp/fonts"
	"github.com/automoto/arena-mp/netsync"
	"github.com/automoto/arena-mp/render"
	"github.com/dustin/go-humanize"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/ecs"
	"golang.org/x/image/font"
)

const defaultEntitySize = 20

// DrawArena clears the screen and draws the background grid.
func DrawArena(e *ecs.ECS, screen *ebiten.Image) {
	screen.Fill(cfg.Arena.Background)

	w, h := float32(screen.Bounds().Dx()), float32(screen.Bounds().Dy())
	step := float32(cfg.Arena.GridSpacing)
	if step <= 0 {
		return
	}
	for x := float32(0); x <= w; x += step {
		vector.StrokeLine(screen, x, 0, x, h, 1, cfg.Arena.GridColor, false)
	}
	for y := float32(0); y <= h; y += step {
		vector.StrokeLine(screen, 0, y, w, y, 1, cfg.Arena.GridColor, false)
	}
}

// canvas draws published entity state onto an ebiten image.
type canvas struct {
	screen *ebiten.Image
	label  font.Face
}

func (c *canvas) ApplyEntityState(_ netsync.EntityID, x, y, angle float64, attrs netsync.Attributes) {
	size := attrs.Size
	if size <= 0 {
		size = defaultEntitySize
	}
	fill := render.FlashColor(render.ParseColor(attrs.Color, cfg.White), attrs.Flash)

	gun := size * cfg.Arena.GunLength
	gx, gy := x+math.Cos(angle)*gun, y+math.Sin(angle)*gun
	vector.StrokeLine(c.screen, float32(x), float32(y), float32(gx), float32(gy), float32(cfg.Arena.GunWidth), fill, true)
	vector.DrawFilledCircle(c.screen, float32(x), float32(y), float32(size), fill, true)
	if attrs.Local {
		vector.StrokeCircle(c.screen, float32(x), float32(y), float32(size)+2, 2, cfg.BrightGreen, true)
	}

	if attrs.Name != "" {
		labelW := font.MeasureString(c.label, attrs.Name).Ceil()
		labelX := int(x) - labelW/2
		labelY := int(y - size - cfg.Arena.NameOffset)
		text.Draw(c.screen, attrs.Name, c.label, labelX, labelY, cfg.White)
	}
}

func (c *canvas) ApplyProjectile(p netsync.Projectile) {
	vector.DrawFilledCircle(c.screen, float32(p.X), float32(p.Y), float32(cfg.Arena.ProjectileSize), cfg.Yellow, true)
}

// NewNetworkedPlayersRenderer returns an ECS renderer that draws every
// synchronized entity and projectile.
func NewNetworkedPlayersRenderer(engine *netsync.Engine) func(*ecs.ECS, *ebiten.Image) {
	return func(e *ecs.ECS, screen *ebiten.Image) {
		engine.Publish(&canvas{screen: screen, label: fonts.Label.Get()})
	}
}

// HUDStatus is the connection summary shown in the corner.
type HUDStatus struct {
	State       string
	Err         string
	BytesIn     uint64
	BytesOut    uint64
	Sync        netsync.Stats
	ServerError string
}

// NewNetworkHUD returns an ECS renderer for the status overlay.
func NewNetworkHUD(status func() HUDStatus) func(*ecs.ECS, *ebiten.Image) {
	return func(e *ecs.ECS, screen *ebiten.Image) {
		if !cfg.Debug.ShowHUD {
			return
		}
		entityCount := 0
		components.NetIdentity.Each(e.World, func(_ *donburi.Entry) {
			entityCount++
		})

		s := status()
		face := fonts.HUD.Get()
		lines := []string{
			fmt.Sprintf("%s - Entities: %d  Projectiles: %d", s.State, entityCount, s.Sync.Projectiles),
			fmt.Sprintf("In %s  Out %s", humanize.Bytes(s.BytesIn), humanize.Bytes(s.BytesOut)),
			fmt.Sprintf("Interp %d/%d/%d  Corrections %d  Dropped %d",
				s.Sync.Bracketed, s.Sync.Smoothed, s.Sync.Held, s.Sync.Corrections, s.Sync.Discarded),
		}
		lineH := face.Metrics().Height.Ceil()
		for i, line := range lines {
			text.Draw(screen, line, face, 6, 6+lineH*(i+1), cfg.BrightGreen)
		}

		if msg := firstNonEmpty(s.Err, s.ServerError); msg != "" {
			drawBanner(screen, msg, face, cfg.LightRed)
		}
	}
}

func drawBanner(screen *ebiten.Image, msg string, face font.Face, clr color.Color) {
	w := screen.Bounds().Dx()
	h := face.Metrics().Height.Ceil() + 8
	y := screen.Bounds().Dy() - h
	vector.DrawFilledRect(screen, 0, float32(y), float32(w), float32(h), cfg.BlackOverlay, false)
	text.Draw(screen, msg, face, 6, y+h-6, clr)
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
