package components

import (
	"github.com/tanema/gween"
	"github.com/yohamta/donburi"
)

// NetIdentityData links a world entity to its synchronized entity id.
type NetIdentityData struct {
	ID string
}

// NetTransformData is the published display pose of a synchronized entity:
// interpolated for remote entities, predicted for the local one.
type NetTransformData struct {
	X, Y  float64
	Angle float64
}

// NetAttrsData holds pass-through display attributes.
type NetAttrsData struct {
	Size  float64
	Color string
	Name  string
}

// HitFlashData fades hit feedback from 1 to 0.
type HitFlashData struct {
	Tween *gween.Tween
	Value float64
}

var (
	NetIdentity  = donburi.NewComponentType[NetIdentityData]()
	NetTransform = donburi.NewComponentType[NetTransformData]()
	NetAttrs     = donburi.NewComponentType[NetAttrsData]()
	HitFlash     = donburi.NewComponentType[HitFlashData]()
)
