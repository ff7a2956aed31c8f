package client

import (
	"time"

	"github.com/go-gl/mathgl/mgl32"
)

// Decal is the mark left where a shot hit the world.
type Decal struct {
	Point  mgl32.Vec3
	Normal mgl32.Vec3
	At     time.Time
}

// HitFeedback describes the last hit of the local player on another participant, as shown next to the
// hit marker. Damage is estimated locally from the distance of the hit.
type HitFeedback struct {
	TargetID string
	Damage   int
	At       time.Time
}
