package combat

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/oomph-ac/frontline/game"
	"github.com/zeebo/xxh3"
)

// SpawnPoints is the set of points participants are respawned at when the server does not say where.
type SpawnPoints []mgl32.Vec3

// DefaultSpawnPoints returns the spawn points of the standard map.
func DefaultSpawnPoints() SpawnPoints {
	return SpawnPoints{
		{-40, 5, -40}, {40, 5, -40}, {-40, 5, 40}, {40, 5, 40},
		{0, 5, 0},
		{20, 5, -20}, {-20, 5, 20}, {-20, 5, -20}, {20, 5, 20},
	}
}

// For returns the spawn point assigned to a participant. The same participant is always assigned the
// same point for a given set. With no points the participant spawns at eye height in the centre.
func (s SpawnPoints) For(id string) mgl32.Vec3 {
	if len(s) == 0 {
		return mgl32.Vec3{0, game.EyeHeight, 0}
	}
	return s[xxh3.HashString(id)%uint64(len(s))]
}
