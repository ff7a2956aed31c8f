package entity

import "github.com/go-gl/mathgl/mgl32"

// Snapshot is one timestamped observation of a remote entity. Snapshots are values and are never
// mutated once they are created.
type Snapshot struct {
	EntityID string

	Position mgl32.Vec3
	// Rotation holds the pitch in X and the yaw in Y, in radians.
	Rotation mgl32.Vec3
	Velocity mgl32.Vec3
	Health   int
	Score    int

	HasPosition bool
	HasRotation bool
	HasVelocity bool
	HasHealth   bool
	HasScore    bool

	// Timestamp is the local time in milliseconds at which the snapshot was received.
	Timestamp int64
	// RemoteTimestamp is the timestamp the sender attached to the snapshot, on the sender's clock.
	RemoteTimestamp float64
}
