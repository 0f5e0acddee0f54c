package messages

import (
	"encoding/json"
	"fmt"
	"maps"
	"slices"
)

// PlayerData is one player's state as sent by the server. Position and
// angle are pointers so a missing field can be told apart from zero.
type PlayerData struct {
	ID    string   `json:"id"`
	Name  string   `json:"name"`
	X     *float64 `json:"x"`
	Y     *float64 `json:"y"`
	Angle *float64 `json:"angle"`
	Size  float64  `json:"size"`
	Color string   `json:"color"`
}

// Validate reports the first missing pose field.
func (p PlayerData) Validate() error {
	switch {
	case p.X == nil:
		return fmt.Errorf("player %q: %w: x", p.ID, ErrMissingField)
	case p.Y == nil:
		return fmt.Errorf("player %q: %w: y", p.ID, ErrMissingField)
	case p.Angle == nil:
		return fmt.Errorf("player %q: %w: angle", p.ID, ErrMissingField)
	}
	return nil
}

// BulletData is a projectile as simulated by the server.
type BulletData struct {
	ID      string  `json:"id"`
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	VX      float64 `json:"vx"`
	VY      float64 `json:"vy"`
	OwnerID string  `json:"owner_id"`
}

// HitData reports a bullet striking a player.
type HitData struct {
	BulletID  string `json:"bullet_id"`
	PlayerID  string `json:"player_id"`
	ShooterID string `json:"shooter_id"`
}

// State is the periodic world snapshot.
type State struct {
	Data StateData `json:"data"`
	Hits []HitData `json:"hits"`
}

type StateData struct {
	Players map[string]PlayerData `json:"players"`
	Bullets map[string]BulletData `json:"bullets"`

	// Malformed lists, in order, the player ids whose entries failed to
	// decode. They are left out of Players.
	Malformed []string `json:"-"`
}

// UnmarshalJSON decodes every player and bullet entry on its own, so one bad
// entry does not spoil the rest of the snapshot. Bad bullets are dropped.
func (d *StateData) UnmarshalJSON(data []byte) error {
	var raw struct {
		Players map[string]json.RawMessage `json:"players"`
		Bullets map[string]json.RawMessage `json:"bullets"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	*d = StateData{}
	if raw.Players != nil {
		d.Players = make(map[string]PlayerData, len(raw.Players))
	}
	for _, id := range slices.Sorted(maps.Keys(raw.Players)) {
		var p PlayerData
		if err := json.Unmarshal(raw.Players[id], &p); err != nil {
			d.Malformed = append(d.Malformed, id)
			continue
		}
		d.Players[id] = p
	}
	if raw.Bullets != nil {
		d.Bullets = make(map[string]BulletData, len(raw.Bullets))
	}
	for id, msg := range raw.Bullets {
		var b BulletData
		if err := json.Unmarshal(msg, &b); err != nil {
			continue
		}
		d.Bullets[id] = b
	}
	return nil
}

// PlayerHit is sent on its own when a hit happens between snapshots.
type PlayerHit struct {
	Hit HitData `json:"hit"`
}

// BulletCreated is broadcast when any player fires.
type BulletCreated struct {
	Bullet BulletData `json:"bullet"`
}
