package systems

import (
	"math"

	"github.com/automoto/arena-mp/netsync"
	"github.com/automoto/arena-mp/network"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/yohamta/donburi/ecs"
)

// ActionID represents a logical input action
type ActionID int

const (
	ActionMoveLeft ActionID = iota
	ActionMoveRight
	ActionMoveUp
	ActionMoveDown
	ActionShoot
)

// Bindings maps each action to the keys that trigger it.
var Bindings = map[ActionID][]ebiten.Key{
	ActionMoveLeft:  {ebiten.KeyLeft, ebiten.KeyA},
	ActionMoveRight: {ebiten.KeyRight, ebiten.KeyD},
	ActionMoveUp:    {ebiten.KeyUp, ebiten.KeyW},
	ActionMoveDown:  {ebiten.KeyDown, ebiten.KeyS},
	ActionShoot:     {ebiten.KeySpace},
}

type netInputState struct {
	lastCursorX, lastCursorY int
}

// NewNetworkInputSystem returns an ECS system that polls keyboard and mouse
// input and feeds it to the session: held keys move, the cursor aims, left
// click or space shoots and right click sets a move-to target.
func NewNetworkInputSystem(session *network.Session) func(*ecs.ECS) {
	state := &netInputState{lastCursorX: -1, lastCursorY: -1}

	return func(e *ecs.ECS) {
		var intent netsync.MoveIntent
		if anyKeyPressed(Bindings[ActionMoveLeft]) {
			intent.DX--
		}
		if anyKeyPressed(Bindings[ActionMoveRight]) {
			intent.DX++
		}
		if anyKeyPressed(Bindings[ActionMoveUp]) {
			intent.DY--
		}
		if anyKeyPressed(Bindings[ActionMoveDown]) {
			intent.DY++
		}
		session.Move(intent)

		local := session.Engine().Local()
		if !local.Ready() {
			return
		}

		cx, cy := ebiten.CursorPosition()
		if cx != state.lastCursorX || cy != state.lastCursorY {
			state.lastCursorX, state.lastCursorY = cx, cy
			pose := local.Pose()
			session.Aim(math.Atan2(float64(cy)-pose.Y, float64(cx)-pose.X))
		}

		if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonRight) {
			session.MoveTo(float64(cx), float64(cy))
		}
		if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) || anyKeyJustPressed(Bindings[ActionShoot]) {
			session.Shoot()
		}
	}
}

func anyKeyPressed(keys []ebiten.Key) bool {
	for _, k := range keys {
		if ebiten.IsKeyPressed(k) {
			return true
		}
	}
	return false
}

func anyKeyJustPressed(keys []ebiten.Key) bool {
	for _, k := range keys {
		if inpututil.IsKeyJustPressed(k) {
			return true
		}
	}
	return false
}
