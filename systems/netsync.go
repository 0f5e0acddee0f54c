package systems

import (
	"github.com/automoto/arena-mp/netsync"
	"github.com/automoto/arena-mp/network"
	"github.com/yohamta/donburi/ecs"
)

// NewNetSyncSystem returns an ECS system that hands queued server messages
// to the engine, ticks it once and reports the local pose back.
func NewNetSyncSystem(session *network.Session, src network.Source, clock netsync.Clock) func(*ecs.ECS) {
	return func(e *ecs.ECS) {
		session.Pump(src)
		res := session.Engine().Tick(clock.Now())
		session.Report(res)
	}
}
