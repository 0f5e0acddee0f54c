package archetypes

import (
	"github.com/automoto/arena-mp/components"
	"github.com/automoto/arena-mp/tags"
	"github.com/yohamta/donburi"
)

var (
	LocalPlayer = newArchetype(
		tags.LocalPlayer,
		components.NetIdentity,
		components.NetTransform,
		components.NetAttrs,
	)
	RemotePlayer = newArchetype(
		tags.RemotePlayer,
		components.NetIdentity,
		components.NetTransform,
		components.NetAttrs,
	)
)

type archetype struct {
	components []donburi.IComponentType
}

func newArchetype(cs ...donburi.IComponentType) *archetype {
	return &archetype{
		components: cs,
	}
}

func (a *archetype) Spawn(world donburi.World, cs ...donburi.IComponentType) *donburi.Entry {
	return world.Entry(world.Create(append(a.components[:len(a.components):len(a.components)], cs...)...))
}

// Player returns the archetype for a local or remote player.
func Player(local bool) *archetype {
	if local {
		return LocalPlayer
	}
	return RemotePlayer
}
