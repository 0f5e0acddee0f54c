package netsync

// Sink receives the published state of every registered entity once per
// frame. Renderers implement it.
type Sink interface {
	ApplyEntityState(id EntityID, x, y, angle float64, attrs Attributes)
}

// ProjectileSink is implemented by sinks that also draw projectiles.
type ProjectileSink interface {
	ApplyProjectile(p Projectile)
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(id EntityID, x, y, angle float64, attrs Attributes)

func (f SinkFunc) ApplyEntityState(id EntityID, x, y, angle float64, attrs Attributes) {
	f(id, x, y, angle, attrs)
}
