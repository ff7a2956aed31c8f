package client

import (
	"github.com/oomph-ac/frontline/combat"
	"github.com/oomph-ac/frontline/entity"
	"github.com/oomph-ac/frontline/player"
	"github.com/oomph-ac/frontline/weapon"
)

// Config holds the configuration of every component of a game.
type Config struct {
	Movement player.Config
	Weapon   weapon.Config
	Combat   combat.Config
	// NewInterpolator returns the interpolator used for a remote participant joining the game.
	NewInterpolator func() *entity.Interpolator
	// Unstick moves the local player back to its spawn point when it ends up inside the world or
	// another participant.
	Unstick bool
	// DecalCapacity is the number of bullet impacts kept.
	DecalCapacity int
}

// DefaultConfig returns the default configuration of a game.
func DefaultConfig() Config {
	return Config{
		Movement:        player.DefaultConfig(),
		Weapon:          weapon.DefaultConfig(),
		Combat:          combat.DefaultConfig(),
		NewInterpolator: entity.DefaultInterpolator,
		DecalCapacity:   64,
	}
}
