package entity

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/oomph-ac/frontline/game"
)

// Entity represents a participant of the match, the local player included.
type Entity struct {
	// id is the identifier the server assigned to the entity. It is unique for the lifetime of the session.
	id string
	// username is the display name of the entity.
	username string
	// position is the eye position of the entity in world space.
	position mgl32.Vec3
	// velocity is the velocity of the entity in units per second.
	velocity mgl32.Vec3
	// yaw and pitch are the orientation of the entity in radians. pitch is always within game.PitchLimit.
	yaw, pitch float32
	// health is within [0, game.MaxHealth]. An entity with no health is dead.
	health int
	// score only ever goes up, unless it is explicitly reset.
	score int
	// local is true for the entity controlled by this client.
	local bool
	// motion smooths the network updates of remote entities. It is nil for the local entity.
	motion *Interpolator
}

// NewLocal creates the entity controlled by this client.
func NewLocal(id, username string, position mgl32.Vec3) *Entity {
	return &Entity{
		id:       id,
		username: username,
		position: position,
		health:   game.MaxHealth,
		local:    true,
	}
}

// NewRemote creates an entity controlled by another client. Its motion is reconstructed from snapshots
// by the interpolator passed.
func NewRemote(id, username string, position mgl32.Vec3, motion *Interpolator) *Entity {
	motion.Reset(position)
	return &Entity{
		id:       id,
		username: username,
		position: position,
		health:   game.MaxHealth,
		motion:   motion,
	}
}

// ID returns the identifier of the entity.
func (e *Entity) ID() string {
	return e.id
}

// Username returns the display name of the entity.
func (e *Entity) Username() string {
	return e.username
}

// SetUsername updates the display name of the entity.
func (e *Entity) SetUsername(name string) {
	e.username = name
}

// Local returns true if the entity is controlled by this client.
func (e *Entity) Local() bool {
	return e.local
}

// Position returns the eye position of the entity.
func (e *Entity) Position() mgl32.Vec3 {
	return e.position
}

// SetPosition moves the entity to the given eye position.
func (e *Entity) SetPosition(pos mgl32.Vec3) {
	e.position = pos
}

// Velocity returns the velocity of the entity.
func (e *Entity) Velocity() mgl32.Vec3 {
	return e.velocity
}

// SetVelocity sets the velocity of the entity.
func (e *Entity) SetVelocity(vel mgl32.Vec3) {
	e.velocity = vel
}

// Rotation returns the yaw and pitch of the entity in radians.
func (e *Entity) Rotation() (yaw, pitch float32) {
	return e.yaw, e.pitch
}

// SetRotation sets the yaw and pitch of the entity. The pitch is clamped.
func (e *Entity) SetRotation(yaw, pitch float32) {
	e.yaw, e.pitch = yaw, game.ClampPitch(pitch)
}

// Health returns the health of the entity.
func (e *Entity) Health() int {
	return e.health
}

// SetHealth sets the health of the entity, clamped to [0, game.MaxHealth].
func (e *Entity) SetHealth(health int) {
	e.health = min(max(health, 0), game.MaxHealth)
}

// Damage removes the given amount of health from the entity and returns what is left.
func (e *Entity) Damage(amount int) int {
	e.SetHealth(e.health - max(amount, 0))
	return e.health
}

// Alive returns true if the entity has health left.
func (e *Entity) Alive() bool {
	return e.health > 0
}

// Score returns the score of the entity.
func (e *Entity) Score() int {
	return e.score
}

// AddScore increases the score of the entity. Negative amounts are ignored.
func (e *Entity) AddScore(amount int) {
	if amount > 0 {
		e.score += amount
	}
}

// SetScore overwrites the score of the entity with an authoritative value.
func (e *Entity) SetScore(score int) {
	e.score = max(score, 0)
}

// ResetScore sets the score of the entity back to zero.
func (e *Entity) ResetScore() {
	e.score = 0
}

// Respawn restores the entity to full health at the given position, at rest.
func (e *Entity) Respawn(pos mgl32.Vec3) {
	e.health = game.MaxHealth
	e.position = pos
	e.velocity = mgl32.Vec3{}
	if e.motion != nil {
		e.motion.Reset(pos)
	}
}

// Motion returns the interpolator of a remote entity, or nil for the local entity.
func (e *Entity) Motion() *Interpolator {
	return e.motion
}

// Push hands a snapshot received from the network to the entity. Discrete state (health and score) is
// applied immediately while motion is buffered for interpolation. Snapshots are ignored by the local entity.
func (e *Entity) Push(s Snapshot) {
	if e.motion == nil {
		return
	}
	if s.HasHealth {
		e.SetHealth(s.Health)
	}
	if s.HasScore {
		e.SetScore(s.Score)
	}
	if s.HasVelocity {
		e.velocity = s.Velocity
	}
	e.motion.Push(s)
}

// Interpolate moves a remote entity to its smoothed position and rotation at the given time in milliseconds.
func (e *Entity) Interpolate(nowMs int64) {
	if e.motion == nil {
		return
	}
	pos, yaw, pitch := e.motion.Sample(nowMs, e.yaw, e.pitch)
	e.position = pos
	e.SetRotation(yaw, pitch)
}
