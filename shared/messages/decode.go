package messages

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Message type tags.
const (
	TypeInit              = "init"
	TypeState             = "state"
	TypePlayerJoined      = "player_joined"
	TypePlayerLeft        = "player_left"
	TypePlayerNameChanged = "player_name_changed"
	TypePlayerHit         = "player_hit"
	TypeBulletCreated     = "bullet_created"
	TypeError             = "error"

	TypeUpdate     = "update"
	TypeShoot      = "shoot"
	TypeChangeName = "change_name"
)

var (
	ErrUnknownType  = errors.New("unknown message type")
	ErrMissingField = errors.New("missing field")
	ErrInvalidName  = errors.New("invalid name")
)

type envelope struct {
	Type string `json:"type"`
}

// Decode parses one server frame into its message struct (Init, State,
// PlayerJoined, PlayerLeft, PlayerNameChanged, PlayerHit, BulletCreated or
// Error). Player entries inside State are not validated here; a bad entry
// only spoils itself.
func Decode(data []byte) (any, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("decode envelope: %w", err)
	}

	var msg any
	switch env.Type {
	case TypeInit:
		msg = &Init{}
	case TypeState:
		msg = &State{}
	case TypePlayerJoined:
		msg = &PlayerJoined{}
	case TypePlayerLeft:
		msg = &PlayerLeft{}
	case TypePlayerNameChanged:
		msg = &PlayerNameChanged{}
	case TypePlayerHit:
		msg = &PlayerHit{}
	case TypeBulletCreated:
		msg = &BulletCreated{}
	case TypeError:
		msg = &Error{}
	case "":
		return nil, fmt.Errorf("%w: type", ErrMissingField)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownType, env.Type)
	}

	if err := json.Unmarshal(data, msg); err != nil {
		return nil, fmt.Errorf("decode %s: %w", env.Type, err)
	}

	switch m := msg.(type) {
	case *Init:
		if m.PlayerID == "" {
			return nil, fmt.Errorf("decode init: %w: player_id", ErrMissingField)
		}
		if err := m.Player.Validate(); err != nil {
			return nil, fmt.Errorf("decode init: %w", err)
		}
		return *m, nil
	case *State:
		return *m, nil
	case *PlayerJoined:
		if m.PlayerID == "" {
			return nil, fmt.Errorf("decode player_joined: %w: player_id", ErrMissingField)
		}
		return *m, nil
	case *PlayerLeft:
		if m.PlayerID == "" {
			return nil, fmt.Errorf("decode player_left: %w: player_id", ErrMissingField)
		}
		return *m, nil
	case *PlayerNameChanged:
		return *m, nil
	case *PlayerHit:
		return *m, nil
	case *BulletCreated:
		return *m, nil
	case *Error:
		return *m, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownType, env.Type)
}
