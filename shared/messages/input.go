package messages

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// MaxNameLength is the longest player name the server accepts.
const MaxNameLength = 20

// Update reports the local player's predicted position and aim. Aim-only
// updates leave X and Y unset.
type Update struct {
	Type string     `json:"type"`
	Data UpdateData `json:"data"`
}

type UpdateData struct {
	X     *float64 `json:"x,omitempty"`
	Y     *float64 `json:"y,omitempty"`
	Angle float64  `json:"angle"`
}

func NewPositionUpdate(x, y, angle float64) Update {
	return Update{Type: TypeUpdate, Data: UpdateData{X: &x, Y: &y, Angle: angle}}
}

func NewAimUpdate(angle float64) Update {
	return Update{Type: TypeUpdate, Data: UpdateData{Angle: angle}}
}

// Shoot asks the server to fire along the player's current angle.
type Shoot struct {
	Type string `json:"type"`
}

func NewShoot() Shoot {
	return Shoot{Type: TypeShoot}
}

// ChangeName requests a new display name.
type ChangeName struct {
	Type string `json:"type"`
	Name string `json:"name"`
}

// NewChangeName trims name and checks it is 1 to MaxNameLength characters.
func NewChangeName(name string) (ChangeName, error) {
	name = strings.TrimSpace(name)
	if n := utf8.RuneCountInString(name); n == 0 || n > MaxNameLength {
		return ChangeName{}, fmt.Errorf("%w: %q must be 1-%d characters", ErrInvalidName, name, MaxNameLength)
	}
	return ChangeName{Type: TypeChangeName, Name: name}, nil
}
