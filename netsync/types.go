package netsync

import "time"

// EntityID identifies a synchronized entity for its whole lifetime.
type EntityID string

// Pose is a position on the arena plane plus a facing angle in radians.
// Angles are not normalized at rest; only differences are.
type Pose struct {
	X, Y  float64
	Angle float64
}

// Attributes are display fields passed through to renderers. They are never
// interpolated.
type Attributes struct {
	Size  float64
	Color string
	Name  string

	Local bool    // set on the locally controlled entity
	Flash float64 // hit feedback intensity, 1 on impact fading to 0
}

// Snapshot is one authoritative pose sample for an entity, stamped with the
// client-local receive time.
type Snapshot struct {
	ID         EntityID
	Pose       Pose
	ReceivedAt time.Duration
}

// Bounds is the arena extent. The arena spans [0, Width] x [0, Height].
type Bounds struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

// Projectile is a server-simulated bullet. Projectiles are drawn as received.
type Projectile struct {
	ID     string
	X, Y   float64
	VX, VY float64
	Owner  EntityID
}
