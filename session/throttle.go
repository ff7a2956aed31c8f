package session

import (
	"time"

	"github.com/chewxy/math32"
	"github.com/oomph-ac/frontline/protocol"
)

// Throttle decides which state updates of the local player are worth sending. An update is sent at
// most once per interval, and only if it differs enough from the last update sent for the receivers to
// notice.
type Throttle struct {
	interval               time.Duration
	posEps, rotEps, velEps float32

	checked   bool
	lastCheck time.Time
	sent      bool
	last      protocol.StateUpdate
}

// NewThrottle returns a throttle using the update settings of cfg.
func NewThrottle(cfg Config) *Throttle {
	return &Throttle{
		interval: cfg.UpdateInterval,
		posEps:   cfg.PositionEpsilon,
		rotEps:   cfg.RotationEpsilon,
		velEps:   cfg.VelocityEpsilon,
	}
}

// Allow returns true if the update should be sent. The interval starts over on every call past it,
// whether the update was allowed or not. An allowed update only becomes the last update sent once it is
// passed to Sent.
func (t *Throttle) Allow(now time.Time, u protocol.StateUpdate) bool {
	if t.checked && now.Sub(t.lastCheck) < t.interval {
		return false
	}
	t.checked, t.lastCheck = true, now
	return !t.sent || t.changed(u)
}

// Sent records u as the last update sent. Later updates are compared against it.
func (t *Throttle) Sent(u protocol.StateUpdate) {
	t.sent, t.last = true, u
}

// Reset forgets the last update sent, so that the next update is sent whatever it holds.
func (t *Throttle) Reset() {
	t.checked, t.sent = false, false
}

func (t *Throttle) changed(u protocol.StateUpdate) bool {
	return u.Position.Vec().Sub(t.last.Position.Vec()).Len() > t.posEps ||
		math32.Abs(u.Rotation.Y-t.last.Rotation.Y) > t.rotEps ||
		u.Velocity.Vec().Sub(t.last.Velocity.Vec()).Len() > t.velEps
}
