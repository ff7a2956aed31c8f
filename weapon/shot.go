package weapon

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/oomph-ac/frontline/game"
)

// ShotKind describes what a shot hit.
type ShotKind uint8

const (
	ShotMiss ShotKind = iota
	ShotEntity
	ShotWorld
)

func (k ShotKind) String() string {
	switch k {
	case ShotEntity:
		return "entity"
	case ShotWorld:
		return "world"
	}
	return "miss"
}

// Shot is the outcome of a single accepted shot.
type Shot struct {
	Kind ShotKind
	// TargetID is the participant hit, set for ShotEntity.
	TargetID string

	Origin, Direction mgl32.Vec3
	// Point is where the shot hit. Normal is the surface normal at that point and is only set for
	// ShotWorld, where it orients the decal left behind.
	Point, Normal mgl32.Vec3
	// Distance is the distance to the hit, or the range of the weapon for a miss.
	Distance float32
}

// EstimatedDamage returns the damage the shot is expected to deal for the base damage passed. The value
// is only used for local feedback: the server decides the damage actually dealt.
func (s Shot) EstimatedDamage(base int) int {
	if s.Kind != ShotEntity {
		return 0
	}
	return game.DamageAtDistance(base, s.Distance, game.EffectiveRange)
}
