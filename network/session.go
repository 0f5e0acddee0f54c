package network

import (
	"errors"
	"log"
	"maps"
	"slices"

	"github.com/automoto/arena-mp/netsync"
	"github.com/automoto/arena-mp/shared/messages"
)

// Source yields decoded inbound messages. *Client implements it.
type Source interface {
	Drain() []Inbound
}

// Sender carries local actions to the server. *Client implements it.
type Sender interface {
	SendPosition(x, y, angle float64) (bool, error)
	SendAim(angle float64) (bool, error)
	Shoot() (bool, error)
}

// Session translates server messages into netsync events and reports the
// local entity's actions back. It runs on the frame goroutine.
type Session struct {
	engine *netsync.Engine
	sender Sender

	welcomed    bool
	serverError string

	positionDirty bool
	aimDirty      bool
}

func NewSession(engine *netsync.Engine, sender Sender) *Session {
	return &Session{engine: engine, sender: sender}
}

func (s *Session) Engine() *netsync.Engine { return s.engine }

// Reset clears the engine and the session's own state for a new connection.
func (s *Session) Reset() {
	s.engine.Reset()
	s.welcomed = false
	s.serverError = ""
	s.positionDirty = false
	s.aimDirty = false
}

func (s *Session) Welcomed() bool { return s.welcomed }

// ServerError returns the last error message the server sent.
func (s *Session) ServerError() string { return s.serverError }

// Pump drains src into the engine and returns how many messages it handled.
func (s *Session) Pump(src Source) int {
	in := src.Drain()
	for _, msg := range in {
		s.Handle(msg)
	}
	return len(in)
}

// Handle translates one message and queues the result on the engine.
func (s *Session) Handle(in Inbound) {
	switch m := in.Message.(type) {
	case messages.Init:
		up, err := entityUpdate(m.PlayerID, m.Player)
		if err != nil {
			log.Printf("[session] bad init: %v", err)
			return
		}
		s.welcomed = true
		s.engine.Ingest(netsync.Welcome{
			Local:      up,
			Arena:      netsync.Bounds{Width: m.Config.CanvasWidth, Height: m.Config.CanvasHeight},
			Speed:      m.Config.PlayerSpeed,
			ReceivedAt: in.ReceivedAt,
		})
	case messages.State:
		s.engine.Ingest(snapshotBatch(m, in))
	case messages.PlayerJoined:
		up, err := entityUpdate(m.PlayerID, m.Player)
		if err != nil {
			log.Printf("[session] bad join: %v", err)
			return
		}
		s.engine.Ingest(netsync.Joined{ReceivedAt: in.ReceivedAt, Entity: up})
	case messages.PlayerLeft:
		s.engine.Ingest(netsync.Left{ReceivedAt: in.ReceivedAt, ID: netsync.EntityID(m.PlayerID)})
	case messages.PlayerNameChanged:
		s.engine.Ingest(netsync.Renamed{ID: netsync.EntityID(m.PlayerID), Name: m.Name})
	case messages.PlayerHit:
		s.engine.Ingest(hit(m.Hit))
	case messages.BulletCreated:
		s.engine.Ingest(netsync.ProjectileSpawned{Projectile: projectile(m.Bullet)})
	case messages.Error:
		s.serverError = m.Message
		log.Printf("[session] server error: %s", m.Message)
	}
}

func snapshotBatch(m messages.State, in Inbound) netsync.SnapshotBatch {
	b := netsync.SnapshotBatch{
		ReceivedAt:     in.ReceivedAt,
		HasProjectiles: m.Data.Bullets != nil,
	}
	for _, id := range m.Data.Malformed {
		b.Malformed = append(b.Malformed, netsync.EntityID(id))
	}
	for _, id := range slices.Sorted(maps.Keys(m.Data.Players)) {
		up, err := entityUpdate(id, m.Data.Players[id])
		if err != nil {
			b.Malformed = append(b.Malformed, netsync.EntityID(id))
			continue
		}
		b.Entities = append(b.Entities, up)
	}
	for _, id := range slices.Sorted(maps.Keys(m.Data.Bullets)) {
		p := projectile(m.Data.Bullets[id])
		if p.ID == "" {
			p.ID = id
		}
		b.Projectiles = append(b.Projectiles, p)
	}
	for _, h := range m.Hits {
		b.Hits = append(b.Hits, hit(h))
	}
	return b
}

// entityUpdate converts a player entry keyed by id. The key wins over the
// entry's own id field.
func entityUpdate(id string, p messages.PlayerData) (netsync.EntityUpdate, error) {
	if id == "" {
		id = p.ID
	}
	if err := p.Validate(); err != nil {
		return netsync.EntityUpdate{}, err
	}
	return netsync.EntityUpdate{
		ID:   netsync.EntityID(id),
		Pose: netsync.Pose{X: *p.X, Y: *p.Y, Angle: *p.Angle},
		Attrs: netsync.Attributes{
			Size:  p.Size,
			Color: p.Color,
			Name:  p.Name,
		},
	}, nil
}

func projectile(b messages.BulletData) netsync.Projectile {
	return netsync.Projectile{
		ID:    b.ID,
		X:     b.X,
		Y:     b.Y,
		VX:    b.VX,
		VY:    b.VY,
		Owner: netsync.EntityID(b.OwnerID),
	}
}

func hit(h messages.HitData) netsync.Hit {
	return netsync.Hit{
		Target:     netsync.EntityID(h.PlayerID),
		Shooter:    netsync.EntityID(h.ShooterID),
		Projectile: h.BulletID,
	}
}

// Move sets the held movement input for the local entity.
func (s *Session) Move(in netsync.MoveIntent) {
	s.engine.Local().SetIntent(in)
}

// MoveTo steers the local entity toward an arena position.
func (s *Session) MoveTo(x, y float64) {
	s.engine.Local().MoveTo(x, y)
}

// Aim turns the local entity and schedules an aim update.
func (s *Session) Aim(angle float64) {
	local := s.engine.Local()
	if !local.Ready() || local.Pose().Angle == angle {
		return
	}
	local.SetAim(angle)
	s.aimDirty = true
}

// Shoot fires if the cooldown allows it and reports whether it did.
func (s *Session) Shoot() bool {
	if !s.engine.Local().Ready() {
		return false
	}
	sent, err := s.sender.Shoot()
	s.logSendError(err)
	return sent
}

// Report sends the local pose after a tick. Movement that hits the update
// throttle stays pending and goes out on a later frame.
func (s *Session) Report(res netsync.AdvanceResult) {
	if res.Moved {
		s.positionDirty = true
	}
	local := s.engine.Local()
	if !local.Ready() {
		return
	}
	pose := local.Pose()

	if s.positionDirty {
		sent, err := s.sender.SendPosition(pose.X, pose.Y, pose.Angle)
		s.logSendError(err)
		if sent && err == nil {
			s.positionDirty = false
			s.aimDirty = false
		}
		return
	}
	if s.aimDirty {
		sent, err := s.sender.SendAim(pose.Angle)
		s.logSendError(err)
		if sent && err == nil {
			s.aimDirty = false
		}
	}
}

func (s *Session) logSendError(err error) {
	if err != nil && !errors.Is(err, ErrNotConnected) {
		log.Printf("[session] send failed: %v", err)
	}
}
