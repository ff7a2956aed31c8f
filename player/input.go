package player

import "github.com/go-gl/mathgl/mgl32"

// Input is the state of the player's controls for a single frame.
type Input struct {
	Forward, Back, Left, Right bool
	Sprint                     bool
	Jump                       bool
	Fire                       bool
	Reload                     bool
	// Yaw and Pitch are the camera orientation in radians.
	Yaw, Pitch float32
}

// Intent returns the movement direction in local space: forward is -Z and right is +X. Opposing keys
// cancel each other. The result is either zero or a unit vector.
func (in Input) Intent() mgl32.Vec3 {
	var v mgl32.Vec3
	if in.Forward {
		v[2]--
	}
	if in.Back {
		v[2]++
	}
	if in.Left {
		v[0]--
	}
	if in.Right {
		v[0]++
	}
	if v.LenSqr() == 0 {
		return v
	}
	return v.Normalize()
}
