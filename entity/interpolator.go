package entity

import (
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/oomph-ac/frontline/game"
)

const (
	// DefaultBufferSize is the number of snapshots kept per remote entity.
	DefaultBufferSize = 20
	// DefaultInterpolationDelay is how far behind real time remote entities are played back.
	DefaultInterpolationDelay = 100 * time.Millisecond
	// DefaultBlend is the fraction of the remaining distance to the target covered every frame.
	DefaultBlend = float32(0.3)
)

// Interpolator reconstructs smooth motion for a remote entity from irregular, delayed snapshots. The
// entity is played back slightly in the past so that two snapshots usually bracket the playback time,
// and the result is eased towards every frame to hide the remaining jitter.
type Interpolator struct {
	buffer *RingBuffer
	delay  int64
	blend  float32

	displayed mgl32.Vec3

	// targetYaw and targetPitch are the latest rotation sample. Rotation is not buffered.
	targetYaw, targetPitch float32
	hasRotation            bool
}

// NewInterpolator returns an interpolator keeping size snapshots and playing them back delay behind
// real time, easing by blend every frame.
func NewInterpolator(size int, delay time.Duration, blend float32) *Interpolator {
	return &Interpolator{
		buffer: NewRingBuffer(size),
		delay:  delay.Milliseconds(),
		blend:  mgl32.Clamp(blend, 0, 1),
	}
}

// DefaultInterpolator returns an interpolator using the default buffer size, delay and blend.
func DefaultInterpolator() *Interpolator {
	return NewInterpolator(DefaultBufferSize, DefaultInterpolationDelay, DefaultBlend)
}

// Reset discards all buffered snapshots and snaps the displayed position to pos.
func (i *Interpolator) Reset(pos mgl32.Vec3) {
	i.buffer.Clear()
	i.displayed = pos
	i.hasRotation = false
}

// Push buffers the motion of a snapshot.
func (i *Interpolator) Push(s Snapshot) {
	if s.HasPosition {
		i.buffer.Add(s)
	}
	if s.HasRotation {
		i.targetPitch, i.targetYaw = s.Rotation[0], s.Rotation[1]
		i.hasRotation = true
	}
}

// Target returns the position the entity should be at for the given time in milliseconds, before easing.
// It returns false if no snapshot has been buffered yet.
func (i *Interpolator) Target(nowMs int64) (mgl32.Vec3, bool) {
	playback := nowMs - i.delay
	if current, next, ok := i.buffer.Bracket(playback); ok {
		span := next.Timestamp - current.Timestamp
		if span <= 0 {
			return next.Position, true
		}
		alpha := float32(playback-current.Timestamp) / float32(span)
		return game.LerpVec3(current.Position, next.Position, alpha), true
	}
	latest, ok := i.buffer.Latest()
	return latest.Position, ok
}

// Sample eases the displayed position towards the target for the given time, and the rotation from the
// yaw and pitch passed towards the latest rotation sample. It returns the new position and rotation.
func (i *Interpolator) Sample(nowMs int64, yaw, pitch float32) (mgl32.Vec3, float32, float32) {
	if target, ok := i.Target(nowMs); ok {
		i.displayed = game.LerpVec3(i.displayed, target, i.blend)
	}
	if i.hasRotation {
		yaw = game.LerpAngle(yaw, i.targetYaw, i.blend)
		pitch = game.Lerp(pitch, i.targetPitch, i.blend)
	}
	return i.displayed, yaw, pitch
}
