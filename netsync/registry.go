package netsync

import (
	"slices"
	"time"

	"github.com/automoto/arena-mp/archetypes"
	"github.com/automoto/arena-mp/components"
	"github.com/automoto/arena-mp/tags"
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
	"github.com/yohamta/donburi"
)

// EntityView is a read-only copy of one registry entry.
type EntityView struct {
	ID    EntityID
	Pose  Pose
	Attrs Attributes
}

// Registry is the published entity state, stored as donburi entities so the
// rendering systems can query it alongside the rest of the world. The Engine
// is its only writer.
type Registry struct {
	world    donburi.World
	entities map[EntityID]donburi.Entity
}

// NewRegistry returns a registry over its own world.
func NewRegistry() *Registry {
	return NewRegistryInWorld(donburi.NewWorld())
}

// NewRegistryInWorld returns a registry that creates its entities in world.
func NewRegistryInWorld(world donburi.World) *Registry {
	return &Registry{
		world:    world,
		entities: make(map[EntityID]donburi.Entity),
	}
}

func (r *Registry) World() donburi.World { return r.world }

func (r *Registry) Len() int { return len(r.entities) }

// IDs returns the registered ids in sorted order.
func (r *Registry) IDs() []EntityID {
	ids := make([]EntityID, 0, len(r.entities))
	for id := range r.entities {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

func (r *Registry) entry(id EntityID) (*donburi.Entry, bool) {
	ent, ok := r.entities[id]
	if !ok {
		return nil, false
	}
	if !r.world.Valid(ent) {
		delete(r.entities, id)
		return nil, false
	}
	return r.world.Entry(ent), true
}

// Set creates or overwrites the entry for id.
func (r *Registry) Set(id EntityID, pose Pose, attrs Attributes) {
	entry, ok := r.entry(id)
	if !ok {
		entry = archetypes.Player(attrs.Local).Spawn(r.world)
		components.NetIdentity.SetValue(entry, components.NetIdentityData{ID: string(id)})
		r.entities[id] = entry.Entity()
	}
	components.NetTransform.SetValue(entry, components.NetTransformData{X: pose.X, Y: pose.Y, Angle: pose.Angle})
	r.setAttrs(entry, attrs)
}

// SetPose updates the pose of an existing entry.
func (r *Registry) SetPose(id EntityID, pose Pose) bool {
	entry, ok := r.entry(id)
	if !ok {
		return false
	}
	components.NetTransform.SetValue(entry, components.NetTransformData{X: pose.X, Y: pose.Y, Angle: pose.Angle})
	return true
}

// SetAttributes replaces the attributes of an existing entry. Flash is
// managed by Flash and ignored here.
func (r *Registry) SetAttributes(id EntityID, attrs Attributes) bool {
	entry, ok := r.entry(id)
	if !ok {
		return false
	}
	r.setAttrs(entry, attrs)
	return true
}

func (r *Registry) SetName(id EntityID, name string) bool {
	entry, ok := r.entry(id)
	if !ok {
		return false
	}
	components.NetAttrs.Get(entry).Name = name
	return true
}

func (r *Registry) setAttrs(entry *donburi.Entry, attrs Attributes) {
	components.NetAttrs.SetValue(entry, components.NetAttrsData{
		Size:  attrs.Size,
		Color: attrs.Color,
		Name:  attrs.Name,
	})
	add, drop := tags.RemotePlayer, tags.LocalPlayer
	if attrs.Local {
		add, drop = tags.LocalPlayer, tags.RemotePlayer
	}
	if entry.HasComponent(drop) {
		entry.RemoveComponent(drop)
	}
	if !entry.HasComponent(add) {
		entry.AddComponent(add)
	}
}

// Remove deletes the entry for id and reports whether it existed.
func (r *Registry) Remove(id EntityID) bool {
	entry, ok := r.entry(id)
	if !ok {
		return false
	}
	r.world.Remove(entry.Entity())
	delete(r.entities, id)
	return true
}

func (r *Registry) Lookup(id EntityID) (EntityView, bool) {
	entry, ok := r.entry(id)
	if !ok {
		return EntityView{}, false
	}
	return view(entry), true
}

// Flash starts a hit flash on id that fades out over d.
func (r *Registry) Flash(id EntityID, d time.Duration) bool {
	entry, ok := r.entry(id)
	if !ok {
		return false
	}
	if !entry.HasComponent(components.HitFlash) {
		entry.AddComponent(components.HitFlash)
	}
	components.HitFlash.SetValue(entry, components.HitFlashData{
		Tween: gween.New(1, 0, float32(d.Seconds()), ease.OutCubic),
		Value: 1,
	})
	return true
}

func (r *Registry) advanceFlashes(dt time.Duration) {
	var done []*donburi.Entry
	components.HitFlash.Each(r.world, func(entry *donburi.Entry) {
		flash := components.HitFlash.Get(entry)
		v, finished := flash.Tween.Update(float32(dt.Seconds()))
		flash.Value = float64(v)
		if finished {
			done = append(done, entry)
		}
	})
	for _, entry := range done {
		entry.RemoveComponent(components.HitFlash)
	}
}

// Publish hands every entry to sink.
func (r *Registry) Publish(sink Sink) {
	components.NetIdentity.Each(r.world, func(entry *donburi.Entry) {
		v := view(entry)
		sink.ApplyEntityState(v.ID, v.Pose.X, v.Pose.Y, v.Pose.Angle, v.Attrs)
	})
}

func view(entry *donburi.Entry) EntityView {
	tr := components.NetTransform.Get(entry)
	at := components.NetAttrs.Get(entry)
	v := EntityView{
		ID:   EntityID(components.NetIdentity.Get(entry).ID),
		Pose: Pose{X: tr.X, Y: tr.Y, Angle: tr.Angle},
		Attrs: Attributes{
			Size:  at.Size,
			Color: at.Color,
			Name:  at.Name,
			Local: entry.HasComponent(tags.LocalPlayer),
		},
	}
	if entry.HasComponent(components.HitFlash) {
		v.Attrs.Flash = components.HitFlash.Get(entry).Value
	}
	return v
}
