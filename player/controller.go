package player

import (
	"iter"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/oomph-ac/frontline/entity"
	"github.com/oomph-ac/frontline/game"
	"github.com/oomph-ac/frontline/world"
	"github.com/sirupsen/logrus"
)

// stuckDistance is how close another participant has to be for the local player to count as stuck in it.
const stuckDistance = float32(2)

// Config holds the movement constants of the controller.
type Config struct {
	Gravity     float32
	JumpImpulse float32
	WalkSpeed   float32
	SprintSpeed float32
	Radius      float32
	// Bounds is the half extent of the playable area on the X and Z axes.
	Bounds float32
}

// DefaultConfig returns the standard movement constants.
func DefaultConfig() Config {
	return Config{
		Gravity:     game.Gravity,
		JumpImpulse: game.JumpImpulse,
		WalkSpeed:   game.WalkSpeed,
		SprintSpeed: game.SprintSpeed,
		Radius:      game.CapsuleRadius,
		Bounds:      game.WorldHalfExtent,
	}
}

// Controller owns the physics of the local player. It is advanced once per frame by Tick.
type Controller struct {
	cfg    Config
	log    *logrus.Logger
	entity *entity.Entity
	world  *world.World

	grounded bool
}

// NewController returns a controller moving e through w.
func NewController(cfg Config, log *logrus.Logger, e *entity.Entity, w *world.World) *Controller {
	c := &Controller{cfg: cfg, log: log, entity: e, world: w}
	c.grounded = e.Position().Y() <= game.EyeHeight
	return c
}

// Entity returns the entity moved by the controller.
func (c *Controller) Entity() *entity.Entity {
	return c.entity
}

// SetWorld replaces the geometry the controller collides with.
func (c *Controller) SetWorld(w *world.World) {
	c.world = w
}

// Grounded returns true if the player is standing on the ground.
func (c *Controller) Grounded() bool {
	return c.grounded
}

// Reset places the player at pos at rest.
func (c *Controller) Reset(pos mgl32.Vec3) {
	c.entity.SetPosition(pos)
	c.entity.SetVelocity(mgl32.Vec3{})
	c.grounded = pos.Y() <= game.EyeHeight
}

// Tick advances the player by delta seconds using the input given. The delta is used as is, so a long
// stall results in a single large step. It returns true if the player collided with the world.
func (c *Controller) Tick(delta float32, in Input) bool {
	c.entity.SetRotation(in.Yaw, in.Pitch)
	pos, vel := c.entity.Position(), c.entity.Velocity()

	// Jumping is only possible from the ground.
	if in.Jump && c.grounded {
		vel[1] = c.cfg.JumpImpulse
		c.grounded = false
	}

	// Movement has no inertia: without intent the player stops at once.
	if intent := in.Intent(); intent.LenSqr() > 0 {
		speed := c.cfg.WalkSpeed
		if in.Sprint {
			speed = c.cfg.SprintSpeed
		}
		move := game.RotateY(intent, in.Yaw).Mul(speed)
		vel[0], vel[2] = move[0], move[2]
	} else {
		vel[0], vel[2] = 0, 0
	}

	vel[1] -= c.cfg.Gravity * delta
	pos[1] += vel[1] * delta
	if pos[1] < game.EyeHeight {
		pos[1] = game.EyeHeight
		vel[1] = 0
		c.grounded = true
	}

	prev := pos
	pos[0] += vel[0] * delta
	pos[2] += vel[2] * delta

	// Only the first object collided with is resolved every frame. Obstacles are sparse and steps are
	// small, so this does not need to be an iterative solver.
	collided := false
	for o := range c.world.Colliders() {
		normal, ok := game.CapsuleOverlap(o.Box, pos, c.cfg.Radius)
		if !ok {
			continue
		}
		pos = prev
		if dot := vel.Dot(normal); dot < 0 {
			vel = vel.Sub(normal.Mul(dot))
		}
		collided = true
		c.log.Debugf("collision with %v at %v, normal %v", o.Kind, prev, normal)
		break
	}

	pos[0] = mgl32.Clamp(pos[0], -c.cfg.Bounds, c.cfg.Bounds)
	pos[2] = mgl32.Clamp(pos[2], -c.cfg.Bounds, c.cfg.Bounds)

	c.entity.SetPosition(pos)
	c.entity.SetVelocity(vel)
	return collided
}

// Stuck returns true if the player overlaps the world or stands within reach of another participant.
func (c *Controller) Stuck(others iter.Seq[*entity.Entity]) bool {
	pos := c.entity.Position()
	for o := range c.world.Colliders() {
		if _, ok := game.CapsuleOverlap(o.Box, pos, c.cfg.Radius); ok {
			return true
		}
	}
	if others == nil {
		return false
	}
	for e := range others {
		if e.ID() != c.entity.ID() && e.Position().Sub(pos).Len() < stuckDistance {
			return true
		}
	}
	return false
}
