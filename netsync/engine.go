package netsync

import (
	"log"
	"slices"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

// Stats summarizes engine activity for HUDs and logs.
type Stats struct {
	Entities    int
	Remote      int
	Projectiles int

	Snapshots   uint64
	Discarded   uint64
	Malformed   uint64
	Corrections uint64

	// Sample modes of the most recent tick.
	Bracketed, Smoothed, Held int
}

type remoteEntity struct {
	buf   *SnapshotBuffer
	state InterpolationState
}

// Engine owns the per-entity synchronization state and publishes display
// poses into the Registry once per tick. It is not safe for concurrent use:
// the transport hands events over through Ingest on the frame goroutine.
type Engine struct {
	cfg      Config
	interp   Interpolator
	registry *Registry
	local    *LocalReconciler
	metrics  *Metrics
	onHit    func(h Hit, local bool)
	verbose  bool

	localID    EntityID
	localAttrs Attributes
	remotes    map[EntityID]*remoteEntity
	tombstones map[EntityID]time.Duration

	projectiles map[string]Projectile

	queue    []Event
	lastTick time.Duration
	ticked   bool

	stats     Stats
	malformed map[EntityID]*rate.Limiter
}

type Option func(*Engine)

// WithRegistry publishes into r instead of a private registry.
func WithRegistry(r *Registry) Option {
	return func(e *Engine) { e.registry = r }
}

func WithMetrics(m *Metrics) Option {
	return func(e *Engine) { e.metrics = m }
}

// WithHitHandler calls fn for every hit; local is set when the local entity
// was struck.
func WithHitHandler(fn func(h Hit, local bool)) Option {
	return func(e *Engine) { e.onHit = fn }
}

// WithVerbose logs entity lifecycle changes.
func WithVerbose(v bool) Option {
	return func(e *Engine) { e.verbose = v }
}

func NewEngine(cfg Config, opts ...Option) *Engine {
	e := &Engine{
		cfg:         cfg,
		interp:      Interpolator{SmoothingFactor: cfg.SmoothingFactor},
		local:       NewLocalReconciler(cfg),
		remotes:     make(map[EntityID]*remoteEntity),
		tombstones:  make(map[EntityID]time.Duration),
		projectiles: make(map[string]Projectile),
		malformed:   make(map[EntityID]*rate.Limiter),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.registry == nil {
		e.registry = NewRegistry()
	}
	return e
}

func (e *Engine) Registry() *Registry     { return e.registry }
func (e *Engine) Local() *LocalReconciler { return e.local }
func (e *Engine) LocalID() EntityID       { return e.localID }
func (e *Engine) Config() Config          { return e.cfg }
func (e *Engine) Arena() Bounds           { return e.local.bounds }
func (e *Engine) Stats() Stats            { return e.stats }
func (e *Engine) Pending() int            { return len(e.queue) }

// Tracked reports whether id has a snapshot buffer.
func (e *Engine) Tracked(id EntityID) bool {
	_, ok := e.remotes[id]
	return ok
}

// Tombstoned reports whether snapshots for id are currently discarded.
func (e *Engine) Tombstoned(id EntityID) bool {
	_, ok := e.tombstones[id]
	return ok
}

// BufferLen returns how many snapshots are buffered for a remote entity.
func (e *Engine) BufferLen(id EntityID) int {
	if r, ok := e.remotes[id]; ok {
		return r.buf.Len()
	}
	return 0
}

// LatestSnapshot returns the newest buffered snapshot of a remote entity.
func (e *Engine) LatestSnapshot(id EntityID) (Snapshot, bool) {
	if r, ok := e.remotes[id]; ok {
		return r.buf.Latest()
	}
	return Snapshot{}, false
}

// Reset forgets every entity, projectile and queued event, for example after
// reconnecting. Configuration and options are kept.
func (e *Engine) Reset() {
	for _, id := range e.registry.IDs() {
		e.registry.Remove(id)
	}
	clear(e.remotes)
	clear(e.tombstones)
	clear(e.projectiles)
	clear(e.malformed)
	e.queue = e.queue[:0]
	e.local.Clear()
	e.localID = ""
	e.localAttrs = Attributes{}
	e.stats = Stats{}
}

// Ingest queues ev for the next Tick.
func (e *Engine) Ingest(ev Event) {
	if ev == nil {
		return
	}
	e.queue = append(e.queue, ev)
}

// Tick applies queued events, samples every remote entity at now minus the
// interpolation delay, advances the local entity and publishes the results.
// It returns the local advance step.
func (e *Engine) Tick(now time.Duration) AdvanceResult {
	start := time.Now()

	var dt time.Duration
	if e.ticked && now > e.lastTick {
		dt = now - e.lastTick
	}
	e.lastTick, e.ticked = now, true

	for i, ev := range e.queue {
		e.apply(ev)
		e.queue[i] = nil
	}
	e.queue = e.queue[:0]

	render := now - e.cfg.InterpolationDelay
	e.stats.Bracketed, e.stats.Smoothed, e.stats.Held = 0, 0, 0
	for id, r := range e.remotes {
		mode := e.interp.Sample(r.buf, render, &r.state)
		r.buf.Trim(render)
		e.registry.SetPose(id, r.state.Pose)
		e.countSample(mode)
	}

	var res AdvanceResult
	if e.localID != "" && e.local.Ready() {
		res = e.local.Advance()
		e.registry.SetPose(e.localID, res.Pose)
		if res.Corrected {
			e.stats.Corrections++
			e.metrics.correction()
		}
	}

	e.registry.advanceFlashes(dt)
	e.expireTombstones(now)

	e.stats.Entities = e.registry.Len()
	e.stats.Remote = len(e.remotes)
	e.stats.Projectiles = len(e.projectiles)
	e.metrics.tick(e.stats.Entities, time.Since(start).Seconds())
	return res
}

func (e *Engine) countSample(mode SampleMode) {
	switch mode {
	case SampleBracketed:
		e.stats.Bracketed++
	case SampleSmoothed:
		e.stats.Smoothed++
	default:
		e.stats.Held++
	}
	e.metrics.sample(mode)
}

func (e *Engine) apply(ev Event) {
	switch ev := ev.(type) {
	case Welcome:
		e.applyWelcome(ev)
	case SnapshotBatch:
		e.applyBatch(ev)
	case Joined:
		delete(e.tombstones, ev.Entity.ID)
		e.applyEntity(ev.Entity, ev.ReceivedAt)
	case Left:
		e.remove(ev.ID, ev.ReceivedAt)
	case Renamed:
		if ev.ID == e.localID {
			e.localAttrs.Name = ev.Name
		}
		e.registry.SetName(ev.ID, ev.Name)
	case Hit:
		e.applyHit(ev)
	case ProjectileSpawned:
		e.projectiles[ev.Projectile.ID] = ev.Projectile
	}
}

func (e *Engine) applyWelcome(w Welcome) {
	id := w.Local.ID
	if id == "" {
		return
	}
	if e.localID != "" && e.localID != id {
		e.registry.Remove(e.localID)
	}
	delete(e.remotes, id)
	delete(e.tombstones, id)

	e.localID = id
	e.localAttrs = w.Local.Attrs
	e.localAttrs.Local = true
	if w.Arena.Width > 0 && w.Arena.Height > 0 {
		e.local.SetBounds(w.Arena)
	}
	e.local.SetSpeed(w.Speed)
	e.local.Reset(w.Local.Pose, w.Local.Attrs.Size)
	e.registry.Set(id, e.local.Pose(), e.localAttrs)
	log.Printf("[netsync] local entity %s", id)
}

func (e *Engine) applyBatch(b SnapshotBatch) {
	for _, id := range b.Malformed {
		e.rejectMalformed(id)
	}
	for _, u := range b.Entities {
		if u.ID == "" {
			e.rejectMalformed(u.ID)
			continue
		}
		if e.removedRecently(u.ID, b.ReceivedAt) {
			e.stats.Discarded++
			e.metrics.discard(discardRemoved)
			continue
		}
		e.applyEntity(u, b.ReceivedAt)
	}
	if b.HasProjectiles {
		clear(e.projectiles)
		for _, p := range b.Projectiles {
			e.projectiles[p.ID] = p
		}
	}
	for _, h := range b.Hits {
		e.applyHit(h)
	}
}

// applyEntity routes one authoritative sample to the local reconciler or to
// the entity's buffer, creating the entity when it is unknown.
func (e *Engine) applyEntity(u EntityUpdate, at time.Duration) {
	e.stats.Snapshots++
	e.metrics.snapshot()

	if u.ID == e.localID {
		attrs := u.Attrs
		attrs.Local = true
		e.localAttrs = attrs
		e.local.SetRadius(attrs.Size)
		e.local.IngestAuthoritative(u.Pose)
		if _, ok := e.registry.Lookup(u.ID); !ok {
			e.registry.Set(u.ID, e.local.Pose(), attrs)
		} else {
			e.registry.SetAttributes(u.ID, attrs)
		}
		return
	}

	snap := Snapshot{ID: u.ID, Pose: u.Pose, ReceivedAt: at}
	r, ok := e.remotes[u.ID]
	if !ok {
		r = &remoteEntity{
			buf:   NewSnapshotBuffer(e.cfg.BufferCap, e.cfg.TrimWindow),
			state: InterpolationState{Pose: u.Pose, Initialized: true},
		}
		r.buf.sortOnInsert = e.cfg.SortOnInsert
		e.remotes[u.ID] = r
		e.registry.Set(u.ID, u.Pose, u.Attrs)
		if e.verbose {
			log.Printf("[netsync] tracking %s", u.ID)
		}
	} else {
		e.registry.SetAttributes(u.ID, u.Attrs)
	}
	r.buf.Push(snap)
}

func (e *Engine) remove(id EntityID, at time.Duration) {
	if id == "" {
		return
	}
	if id == e.localID {
		e.local.Clear()
		e.localID = ""
	}
	delete(e.remotes, id)
	delete(e.malformed, id)
	e.registry.Remove(id)
	e.tombstones[id] = at
	if e.verbose {
		log.Printf("[netsync] removed %s", id)
	}
}

func (e *Engine) removedRecently(id EntityID, at time.Duration) bool {
	removedAt, ok := e.tombstones[id]
	if !ok {
		return false
	}
	if at-removedAt <= e.cfg.RemovalGrace {
		return true
	}
	delete(e.tombstones, id)
	return false
}

func (e *Engine) expireTombstones(now time.Duration) {
	for id, removedAt := range e.tombstones {
		if now-removedAt > e.cfg.RemovalGrace {
			delete(e.tombstones, id)
		}
	}
}

func (e *Engine) applyHit(h Hit) {
	e.registry.Flash(h.Target, e.cfg.FlashDuration)
	if e.onHit != nil {
		e.onHit(h, h.Target != "" && h.Target == e.localID)
	}
}

func (e *Engine) rejectMalformed(id EntityID) {
	e.stats.Malformed++
	e.stats.Discarded++
	e.metrics.discard(discardMalformed)

	lim, ok := e.malformed[id]
	if !ok {
		lim = rate.NewLimiter(rate.Every(time.Second), 1)
		e.malformed[id] = lim
	}
	if lim.Allow() {
		log.Printf("[netsync] skipping malformed entity %q", id)
	}
}

// Projectiles returns the current projectiles ordered by id.
func (e *Engine) Projectiles() []Projectile {
	out := make([]Projectile, 0, len(e.projectiles))
	for _, p := range e.projectiles {
		out = append(out, p)
	}
	slices.SortFunc(out, func(a, b Projectile) int {
		return strings.Compare(a.ID, b.ID)
	})
	return out
}

// Publish hands every entity to sink, then the projectiles when sink also
// implements ProjectileSink.
func (e *Engine) Publish(sink Sink) {
	e.registry.Publish(sink)
	if ps, ok := sink.(ProjectileSink); ok {
		for _, p := range e.Projectiles() {
			ps.ApplyProjectile(p)
		}
	}
}
