package netsync

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func batch(at int, updates ...EntityUpdate) SnapshotBatch {
	return SnapshotBatch{ReceivedAt: ms(at), Entities: updates}
}

func update(id string, x, y float64) EntityUpdate {
	return EntityUpdate{ID: EntityID(id), Pose: Pose{X: x, Y: y}, Attrs: Attributes{Size: 20, Color: "#ff0000", Name: id}}
}

func welcome(id string, x, y float64) Welcome {
	return Welcome{
		Local: update(id, x, y),
		Arena: Bounds{Width: 800, Height: 600},
		Speed: 5,
	}
}

type recordingSink struct {
	entities    map[EntityID]Attributes
	poses       map[EntityID]Pose
	projectiles []Projectile
}

func newRecordingSink() *recordingSink {
	return &recordingSink{
		entities: make(map[EntityID]Attributes),
		poses:    make(map[EntityID]Pose),
	}
}

func (s *recordingSink) ApplyEntityState(id EntityID, x, y, angle float64, attrs Attributes) {
	s.entities[id] = attrs
	s.poses[id] = Pose{X: x, Y: y, Angle: angle}
}

func (s *recordingSink) ApplyProjectile(p Projectile) {
	s.projectiles = append(s.projectiles, p)
}

func TestEngineCreatesOnFirstSnapshot(t *testing.T) {
	e := NewEngine(DefaultConfig())
	e.Ingest(batch(1000, update("a", 10, 10)))
	require.Equal(t, 1, e.Pending())

	e.Tick(ms(1016))

	assert.Zero(t, e.Pending())
	assert.True(t, e.Tracked("a"))
	v, ok := e.Registry().Lookup("a")
	require.True(t, ok)
	assert.Equal(t, Pose{X: 10, Y: 10}, v.Pose)
	assert.Equal(t, "a", v.Attrs.Name)
	assert.False(t, v.Attrs.Local)
}

func TestEngineInterpolatesRemote(t *testing.T) {
	e := NewEngine(DefaultConfig())
	e.Ingest(batch(1000, update("a", 0, 0)))
	e.Ingest(batch(1100, update("a", 100, 0)))

	e.Tick(ms(1150))

	v, _ := e.Registry().Lookup("a")
	assert.InDelta(t, 87.5, v.Pose.X, eps)
	assert.Equal(t, 1, e.Stats().Bracketed)
}

func TestEngineLifecycle(t *testing.T) {
	e := NewEngine(DefaultConfig())
	e.Ingest(Joined{ReceivedAt: ms(900), Entity: update("a", 10, 10)})
	e.Ingest(batch(1000, update("a", 20, 10)))
	e.Tick(ms(1016))
	require.True(t, e.Tracked("a"))
	require.Equal(t, 2, e.BufferLen("a"))

	e.Ingest(Left{ReceivedAt: ms(1020), ID: "a"})
	e.Tick(ms(1032))

	assert.False(t, e.Tracked("a"))
	assert.Zero(t, e.BufferLen("a"))
	_, ok := e.Registry().Lookup("a")
	assert.False(t, ok)
	assert.Zero(t, e.Registry().Len())

	t.Run("stale snapshot discarded", func(t *testing.T) {
		e.Ingest(batch(1100, update("a", 30, 10)))
		e.Tick(ms(1116))

		assert.False(t, e.Tracked("a"))
		assert.Equal(t, uint64(1), e.Stats().Discarded)
	})

	t.Run("later snapshot recreates fresh", func(t *testing.T) {
		e.Ingest(batch(1400, update("a", 50, 50)))
		e.Tick(ms(1416))

		require.True(t, e.Tracked("a"))
		assert.Equal(t, 1, e.BufferLen("a"))
		v, ok := e.Registry().Lookup("a")
		require.True(t, ok)
		assert.Equal(t, Pose{X: 50, Y: 50}, v.Pose)
	})
}

func TestEngineRemovalWithinSameTick(t *testing.T) {
	e := NewEngine(DefaultConfig())
	e.Ingest(batch(1000, update("a", 10, 10)))
	e.Ingest(Left{ReceivedAt: ms(1010), ID: "a"})
	e.Ingest(batch(1020, update("a", 12, 10)))

	e.Tick(ms(1030))

	assert.False(t, e.Tracked("a"))
	assert.Zero(t, e.Registry().Len())
	assert.True(t, e.Tombstoned("a"))

	e.Tick(ms(1300))
	assert.False(t, e.Tombstoned("a"))
}

func TestEngineJoinClearsTombstone(t *testing.T) {
	e := NewEngine(DefaultConfig())
	e.Ingest(batch(1000, update("a", 10, 10)))
	e.Ingest(Left{ReceivedAt: ms(1010), ID: "a"})
	e.Ingest(Joined{ReceivedAt: ms(1050), Entity: update("a", 40, 40)})
	e.Ingest(batch(1060, update("a", 42, 40)))

	e.Tick(ms(1070))

	assert.True(t, e.Tracked("a"))
	assert.Equal(t, 2, e.BufferLen("a"))
}

func TestEngineLocalEntity(t *testing.T) {
	e := NewEngine(DefaultConfig())
	e.Ingest(welcome("me", 100, 100))
	e.Tick(ms(0))

	require.Equal(t, EntityID("me"), e.LocalID())
	v, ok := e.Registry().Lookup("me")
	require.True(t, ok)
	assert.True(t, v.Attrs.Local)

	me := update("me", 120, 100)
	me.Pose.Angle = 1
	e.Ingest(batch(50, me))
	res := e.Tick(ms(66))

	assert.False(t, e.Tracked("me"))
	assert.True(t, res.Corrected)
	assert.InDelta(t, 106, res.Pose.X, 1e-9)
	assert.Equal(t, 1.0, res.Pose.Angle)
	v, _ = e.Registry().Lookup("me")
	assert.InDelta(t, 106, v.Pose.X, 1e-9)
	assert.Equal(t, uint64(1), e.Stats().Corrections)
}

func TestEngineWelcomeAdoptsTrackedEntity(t *testing.T) {
	e := NewEngine(DefaultConfig())
	e.Ingest(batch(10, update("me", 300, 300)))
	e.Tick(ms(20))
	require.True(t, e.Tracked("me"))

	e.Ingest(welcome("me", 300, 300))
	e.Tick(ms(40))

	assert.False(t, e.Tracked("me"))
	assert.Equal(t, 1, e.Registry().Len())
	v, _ := e.Registry().Lookup("me")
	assert.True(t, v.Attrs.Local)
}

func TestEngineLocalLeave(t *testing.T) {
	e := NewEngine(DefaultConfig())
	e.Ingest(welcome("me", 100, 100))
	e.Tick(ms(0))

	e.Ingest(Left{ReceivedAt: ms(10), ID: "me"})
	e.Tick(ms(16))

	assert.Empty(t, e.LocalID())
	assert.False(t, e.Local().Ready())
	assert.Zero(t, e.Registry().Len())
}

func TestEngineMalformedEntries(t *testing.T) {
	m := NewMetrics(prometheus.NewRegistry())
	e := NewEngine(DefaultConfig(), WithMetrics(m))
	b := batch(1000, update("good", 1, 1), EntityUpdate{})
	b.Malformed = []EntityID{"bad"}

	e.Ingest(b)
	e.Tick(ms(1016))

	assert.True(t, e.Tracked("good"))
	assert.False(t, e.Tracked("bad"))
	assert.Equal(t, 1, e.Registry().Len())
	assert.Equal(t, uint64(2), e.Stats().Malformed)
	assert.Equal(t, 2.0, testutil.ToFloat64(m.Discarded.WithLabelValues(discardMalformed)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Snapshots))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Entities))
}

func TestEngineRename(t *testing.T) {
	e := NewEngine(DefaultConfig())
	e.Ingest(batch(1000, update("a", 1, 1)))
	e.Ingest(Renamed{ID: "a", Name: "zed"})
	e.Ingest(Renamed{ID: "ghost", Name: "boo"})
	e.Tick(ms(1016))

	v, _ := e.Registry().Lookup("a")
	assert.Equal(t, "zed", v.Attrs.Name)
	assert.Equal(t, 1, e.Registry().Len())
}

func TestEngineHitFlash(t *testing.T) {
	var hits []Hit
	var localHits int
	e := NewEngine(DefaultConfig(), WithHitHandler(func(h Hit, local bool) {
		hits = append(hits, h)
		if local {
			localHits++
		}
	}))
	e.Ingest(welcome("me", 100, 100))
	e.Tick(ms(0))

	e.Ingest(Hit{Target: "me", Shooter: "other", Projectile: "b1"})
	e.Tick(ms(16))

	require.Len(t, hits, 1)
	assert.Equal(t, 1, localHits)
	v, _ := e.Registry().Lookup("me")
	assert.Greater(t, v.Attrs.Flash, 0.9)
	assert.LessOrEqual(t, v.Attrs.Flash, 1.0)

	e.Tick(ms(2000))

	v, _ = e.Registry().Lookup("me")
	assert.Zero(t, v.Attrs.Flash)
}

func TestEngineProjectiles(t *testing.T) {
	e := NewEngine(DefaultConfig())
	e.Ingest(ProjectileSpawned{Projectile: Projectile{ID: "b2", X: 5}})
	e.Ingest(ProjectileSpawned{Projectile: Projectile{ID: "b1", X: 1}})
	e.Tick(ms(16))
	require.Len(t, e.Projectiles(), 2)
	assert.Equal(t, "b1", e.Projectiles()[0].ID)

	e.Ingest(SnapshotBatch{
		ReceivedAt:     ms(20),
		HasProjectiles: true,
		Projectiles:    []Projectile{{ID: "b3"}},
	})
	e.Tick(ms(32))

	require.Len(t, e.Projectiles(), 1)
	assert.Equal(t, "b3", e.Projectiles()[0].ID)
}

func TestEnginePublish(t *testing.T) {
	e := NewEngine(DefaultConfig())
	e.Ingest(welcome("me", 100, 100))
	e.Ingest(batch(1000, update("a", 10, 20)))
	e.Ingest(ProjectileSpawned{Projectile: Projectile{ID: "b1"}})
	e.Tick(ms(1016))

	sink := newRecordingSink()
	e.Publish(sink)

	require.Len(t, sink.entities, 2)
	assert.True(t, sink.entities["me"].Local)
	assert.False(t, sink.entities["a"].Local)
	assert.Equal(t, Pose{X: 10, Y: 20}, sink.poses["a"])
	assert.Len(t, sink.projectiles, 1)

	var n int
	e.Publish(SinkFunc(func(EntityID, float64, float64, float64, Attributes) { n++ }))
	assert.Equal(t, 2, n)
}

func TestEngineHoldsWithoutNewData(t *testing.T) {
	e := NewEngine(DefaultConfig())
	e.Ingest(batch(1000, update("a", 0, 0)))
	e.Ingest(batch(1100, update("a", 100, 0)))
	e.Tick(ms(1150))

	var last float64
	for now := 1300; now < 1600; now += 16 {
		e.Tick(ms(now))
		v, _ := e.Registry().Lookup("a")
		assert.GreaterOrEqual(t, v.Pose.X, last)
		assert.LessOrEqual(t, v.Pose.X, 100.0+eps)
		last = v.Pose.X
	}
	assert.InDelta(t, 100, last, 0.05)
	assert.Equal(t, 1, e.Stats().Smoothed)
}

func TestEngineReset(t *testing.T) {
	e := NewEngine(DefaultConfig())
	e.Ingest(welcome("me", 100, 100))
	e.Ingest(batch(1000, update("a", 10, 10), update("b", 20, 20)))
	e.Ingest(SnapshotBatch{ReceivedAt: ms(1000), HasProjectiles: true, Projectiles: []Projectile{{ID: "p1"}}})
	e.Ingest(Left{ReceivedAt: ms(1010), ID: "b"})
	e.Tick(ms(1016))
	require.True(t, e.Local().Ready())
	require.True(t, e.Tombstoned("b"))
	e.Ingest(batch(1020, update("a", 12, 10)))

	e.Reset()

	assert.Zero(t, e.Registry().Len())
	assert.Zero(t, e.Pending())
	assert.False(t, e.Local().Ready())
	assert.Empty(t, e.LocalID())
	assert.False(t, e.Tracked("a"))
	assert.False(t, e.Tombstoned("b"))
	assert.Empty(t, e.Projectiles())
	assert.Equal(t, Stats{}, e.Stats())

	e.Ingest(batch(1030, update("b", 30, 30)))
	e.Tick(ms(1046))
	assert.True(t, e.Tracked("b"))
}
