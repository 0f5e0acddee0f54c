package term

import (
	"math"

	"github.com/automoto/arena-mp/netsync"
	"github.com/gdamore/tcell/v2"
)

// holdFrames is how long one key press keeps moving, since terminals report
// presses and repeats but no releases.
const holdFrames = 6

// Controls is what terminal input drives. *network.Session implements it.
type Controls interface {
	Move(in netsync.MoveIntent)
	MoveTo(x, y float64)
	Aim(angle float64)
	Shoot() bool
}

// Input turns tcell events into arena actions.
type Input struct {
	intent netsync.MoveIntent
	ttl    int
}

// Handle applies one event and reports whether the user asked to quit.
func (in *Input) Handle(ev tcell.Event, canvas *Canvas, local netsync.Pose, ctl Controls) (quit bool) {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		switch ev.Key() {
		case tcell.KeyEscape, tcell.KeyCtrlC:
			return true
		case tcell.KeyLeft:
			in.hold(netsync.MoveIntent{DX: -1}, ctl)
		case tcell.KeyRight:
			in.hold(netsync.MoveIntent{DX: 1}, ctl)
		case tcell.KeyUp:
			in.hold(netsync.MoveIntent{DY: -1}, ctl)
		case tcell.KeyDown:
			in.hold(netsync.MoveIntent{DY: 1}, ctl)
		case tcell.KeyRune:
			switch ev.Rune() {
			case 'q', 'Q':
				return true
			case ' ':
				ctl.Shoot()
			case 'a', 'h':
				in.hold(netsync.MoveIntent{DX: -1}, ctl)
			case 'd', 'l':
				in.hold(netsync.MoveIntent{DX: 1}, ctl)
			case 'w', 'k':
				in.hold(netsync.MoveIntent{DY: -1}, ctl)
			case 's', 'j':
				in.hold(netsync.MoveIntent{DY: 1}, ctl)
			}
		}
	case *tcell.EventMouse:
		if ev.Buttons()&tcell.Button1 != 0 {
			x, y := canvas.ToArena(ev.Position())
			ctl.Aim(math.Atan2(y-local.Y, x-local.X))
			ctl.MoveTo(x, y)
		}
		if ev.Buttons()&tcell.Button2 != 0 {
			x, y := canvas.ToArena(ev.Position())
			ctl.Aim(math.Atan2(y-local.Y, x-local.X))
			ctl.Shoot()
		}
	}
	return false
}

func (in *Input) hold(intent netsync.MoveIntent, ctl Controls) {
	in.intent = intent
	in.ttl = holdFrames
	ctl.Aim(math.Atan2(intent.DY, intent.DX))
}

// Frame applies the held movement for one frame.
func (in *Input) Frame(ctl Controls) {
	if in.ttl > 0 {
		in.ttl--
		ctl.Move(in.intent)
		return
	}
	ctl.Move(netsync.MoveIntent{})
}
