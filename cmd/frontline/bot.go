package main

import (
	"github.com/chewxy/math32"
	"github.com/oomph-ac/frontline/client"
	"github.com/oomph-ac/frontline/entity"
	"github.com/oomph-ac/frontline/game"
	"github.com/oomph-ac/frontline/player"
)

// closeRange is the distance the bot stops walking towards its target at.
const closeRange = float32(10)

// bot steers the local player when there is nobody at the keyboard. It turns towards the nearest
// participant alive, walks up to them and fires once they are in range. Without a target it walks in
// circles.
type bot struct {
	fireRange float32
}

func newBot(fireRange float32) *bot {
	return &bot{fireRange: fireRange}
}

func (b *bot) input(g *client.Game) player.Input {
	local, ok := g.Local()
	if !ok || g.LocalDead() {
		return player.Input{}
	}
	yaw, pitch := local.Rotation()

	var (
		target *entity.Entity
		best   = float32(math32.MaxFloat32)
	)
	for e := range g.Registry().Remotes() {
		if !e.Alive() {
			continue
		}
		if d := e.Position().Sub(local.Position()).Len(); d < best {
			target, best = e, d
		}
	}
	if target == nil {
		return player.Input{Forward: true, Yaw: game.WrapAngle(yaw + 0.02), Pitch: pitch}
	}

	diff := target.Position().Sub(local.Position())
	return player.Input{
		Forward: best > closeRange,
		Sprint:  best > closeRange*3,
		Yaw:     math32.Atan2(-diff.X(), -diff.Z()),
		Pitch:   game.ClampPitch(math32.Atan2(diff.Y(), math32.Hypot(diff.X(), diff.Z()))),
		Fire:    best <= b.fireRange,
		Reload:  g.Weapon().Ammo() == 0,
	}
}
