package network

import (
	"testing"
	"time"

	"github.com/automoto/arena-mp/netsync"
	"github.com/automoto/arena-mp/shared/messages"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSender struct {
	open      bool
	positions []netsync.Pose
	aims      []float64
	shots     int
}

func (s *fakeSender) SendPosition(x, y, angle float64) (bool, error) {
	if !s.open {
		return false, nil
	}
	s.positions = append(s.positions, netsync.Pose{X: x, Y: y, Angle: angle})
	return true, nil
}

func (s *fakeSender) SendAim(angle float64) (bool, error) {
	if !s.open {
		return false, nil
	}
	s.aims = append(s.aims, angle)
	return true, nil
}

func (s *fakeSender) Shoot() (bool, error) {
	s.shots++
	return true, nil
}

type fakeSource []Inbound

func (f *fakeSource) Drain() []Inbound {
	out := *f
	*f = nil
	return out
}

func f64(v float64) *float64 { return &v }

func player(id string, x, y float64) messages.PlayerData {
	return messages.PlayerData{ID: id, Name: "P " + id, X: f64(x), Y: f64(y), Angle: f64(0), Size: 20, Color: "#4ECDC4"}
}

func welcomeMsg() Inbound {
	return Inbound{
		Message: messages.Init{
			PlayerID: "me",
			Player:   player("me", 100, 100),
			Config:   messages.GameConfig{CanvasWidth: 800, CanvasHeight: 600, PlayerSpeed: 5},
		},
	}
}

func TestSessionTranslatesState(t *testing.T) {
	engine := netsync.NewEngine(netsync.DefaultConfig())
	s := NewSession(engine, &fakeSender{open: true})

	broken := player("b", 0, 0)
	broken.Angle = nil
	src := &fakeSource{
		welcomeMsg(),
		{
			ReceivedAt: 1000 * time.Millisecond,
			Message: messages.State{
				Data: messages.StateData{
					Players: map[string]messages.PlayerData{
						"me": player("me", 100, 100),
						"a":  player("a", 10, 20),
						"b":  broken,
					},
					Bullets: map[string]messages.BulletData{
						"k": {ID: "k", X: 1, Y: 2, VX: 10, OwnerID: "a"},
					},
				},
				Hits: []messages.HitData{{BulletID: "k", PlayerID: "a", ShooterID: "me"}},
			},
		},
	}

	require.Equal(t, 2, s.Pump(src))
	engine.Tick(1016 * time.Millisecond)

	assert.True(t, s.Welcomed())
	assert.Equal(t, netsync.EntityID("me"), engine.LocalID())
	assert.True(t, engine.Tracked("a"))
	assert.False(t, engine.Tracked("b"))
	assert.Equal(t, uint64(1), engine.Stats().Malformed)
	assert.Equal(t, netsync.Bounds{Width: 800, Height: 600}, engine.Arena())

	a, ok := engine.Registry().Lookup("a")
	require.True(t, ok)
	assert.Equal(t, "P a", a.Attrs.Name)
	assert.Positive(t, a.Attrs.Flash)

	require.Len(t, engine.Projectiles(), 1)
	assert.Equal(t, netsync.EntityID("a"), engine.Projectiles()[0].Owner)
}

func TestSessionLifecycleMessages(t *testing.T) {
	engine := netsync.NewEngine(netsync.DefaultConfig())
	s := NewSession(engine, &fakeSender{open: true})

	s.Handle(Inbound{ReceivedAt: time.Second, Message: messages.PlayerJoined{PlayerID: "a", Player: player("a", 5, 5)}})
	s.Handle(Inbound{Message: messages.PlayerNameChanged{PlayerID: "a", Name: "Ace"}})
	engine.Tick(time.Second)

	v, ok := engine.Registry().Lookup("a")
	require.True(t, ok)
	assert.Equal(t, "Ace", v.Attrs.Name)

	s.Handle(Inbound{ReceivedAt: 2 * time.Second, Message: messages.PlayerLeft{PlayerID: "a"}})
	s.Handle(Inbound{Message: messages.BulletCreated{Bullet: messages.BulletData{ID: "z"}}})
	s.Handle(Inbound{Message: messages.Error{Message: "Invalid name"}})
	engine.Tick(2 * time.Second)

	assert.False(t, engine.Tracked("a"))
	assert.Len(t, engine.Projectiles(), 1)
	assert.Equal(t, "Invalid name", s.ServerError())
}

func TestSessionReport(t *testing.T) {
	engine := netsync.NewEngine(netsync.DefaultConfig())
	sender := &fakeSender{}
	s := NewSession(engine, sender)
	s.Handle(welcomeMsg())
	engine.Tick(0)

	s.Move(netsync.MoveIntent{DX: 1})
	s.Report(engine.Tick(16 * time.Millisecond))
	assert.Empty(t, sender.positions, "throttled")

	s.Move(netsync.MoveIntent{})
	sender.open = true
	s.Report(engine.Tick(32 * time.Millisecond))

	require.Len(t, sender.positions, 1)
	assert.Equal(t, 105.0, sender.positions[0].X)

	s.Report(engine.Tick(48 * time.Millisecond))
	assert.Len(t, sender.positions, 1)

	s.Aim(1.25)
	s.Report(engine.Tick(64 * time.Millisecond))
	assert.Equal(t, []float64{1.25}, sender.aims)

	assert.True(t, s.Shoot())
	assert.Equal(t, 1, sender.shots)
}

func TestSessionSkipsBadlyTypedEntity(t *testing.T) {
	engine := netsync.NewEngine(netsync.DefaultConfig())
	s := NewSession(engine, &fakeSender{open: true})

	msg, err := messages.Decode([]byte(`{"type":"state","data":{"players":{
		"a":{"id":"a","x":10,"y":20,"angle":0,"size":20},
		"b":{"id":"b","x":"oops","y":20,"angle":0}}}}`))
	require.NoError(t, err)

	s.Handle(Inbound{Message: msg, ReceivedAt: 1000 * time.Millisecond})
	engine.Tick(1016 * time.Millisecond)

	assert.True(t, engine.Tracked("a"))
	assert.False(t, engine.Tracked("b"))
	assert.Equal(t, uint64(1), engine.Stats().Malformed)
}
