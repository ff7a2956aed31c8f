package game

import "math"

const (
	// Gravity is the downward acceleration applied to the local player, in units per second squared.
	Gravity = float32(9.8)
	// EyeHeight is the height of the camera above the feet. The local player's position is its eye position.
	EyeHeight = float32(1.6)
	// JumpImpulse is the vertical speed given to a grounded player when jumping.
	JumpImpulse = float32(5.0)

	WalkSpeed   = float32(5.0)
	SprintSpeed = float32(8.0)

	// CapsuleRadius is the radius of the vertical capsule approximating a participant.
	CapsuleRadius = float32(0.4)
	// CapsuleCenterOffset is how far below the eye position the capsule midpoint sits.
	CapsuleCenterOffset = float32(0.3)

	// WorldHalfExtent bounds the playable area on the X and Z axes.
	WorldHalfExtent = float32(50)

	MaxHealth = 100

	// PitchLimit keeps the camera just short of looking straight up or down.
	PitchLimit = float32(math.Pi / 2 * 0.99)
)
