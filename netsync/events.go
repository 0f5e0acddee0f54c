package netsync

import "time"

// Event is anything the transport layer hands to Engine.Ingest.
type Event interface {
	event()
}

// EntityUpdate is one entity's entry in a snapshot batch or join.
type EntityUpdate struct {
	ID    EntityID
	Pose  Pose
	Attrs Attributes
}

// Welcome identifies the local entity and the arena it plays in.
type Welcome struct {
	Local      EntityUpdate
	Arena      Bounds
	Speed      float64
	ReceivedAt time.Duration
}

// SnapshotBatch is one periodic world update. Malformed lists ids whose
// entries could not be decoded; they are skipped for this batch.
type SnapshotBatch struct {
	ReceivedAt  time.Duration
	Entities    []EntityUpdate
	Malformed   []EntityID
	Projectiles []Projectile
	Hits        []Hit
	// HasProjectiles marks Projectiles as the full current set.
	HasProjectiles bool
}

type Joined struct {
	ReceivedAt time.Duration
	Entity     EntityUpdate
}

type Left struct {
	ReceivedAt time.Duration
	ID         EntityID
}

type Renamed struct {
	ID   EntityID
	Name string
}

// Hit reports a projectile striking Target.
type Hit struct {
	Target     EntityID
	Shooter    EntityID
	Projectile string
}

type ProjectileSpawned struct {
	Projectile Projectile
}

func (Welcome) event()           {}
func (SnapshotBatch) event()     {}
func (Joined) event()            {}
func (Left) event()              {}
func (Renamed) event()           {}
func (Hit) event()               {}
func (ProjectileSpawned) event() {}
