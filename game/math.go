package game

import (
	"math"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// Float32ApproxEq determines whether two floating point numbers are close enough to each other
// by a threshold of 1e-5.
func Float32ApproxEq(a, b float32) bool {
	return math32.Abs(a-b) <= 1e-5
}

// Vec3ApproxEq is Float32ApproxEq applied to every component of two vectors.
func Vec3ApproxEq(a, b mgl32.Vec3) bool {
	return Float32ApproxEq(a[0], b[0]) && Float32ApproxEq(a[1], b[1]) && Float32ApproxEq(a[2], b[2])
}

// Lerp linearly interpolates between a and b by t.
func Lerp(a, b, t float32) float32 {
	return a + (b-a)*t
}

// LerpVec3 linearly interpolates between two vectors by t.
func LerpVec3(a, b mgl32.Vec3, t float32) mgl32.Vec3 {
	return a.Add(b.Sub(a).Mul(t))
}

// WrapAngle wraps an angle in radians into the range (-π, π].
func WrapAngle(a float32) float32 {
	a = math32.Mod(a+math.Pi, 2*math.Pi)
	if a <= 0 {
		a += 2 * math.Pi
	}
	return a - math.Pi
}

// LerpAngle interpolates between two angles in radians by t, taking the shortest way around the circle.
func LerpAngle(from, to, t float32) float32 {
	return WrapAngle(from + WrapAngle(to-from)*t)
}

// ClampPitch limits a pitch in radians to (-PitchLimit, PitchLimit).
func ClampPitch(pitch float32) float32 {
	return mgl32.Clamp(pitch, -PitchLimit, PitchLimit)
}

// RotateY rotates v around the vertical axis by yaw radians. A yaw of zero faces -Z.
func RotateY(v mgl32.Vec3, yaw float32) mgl32.Vec3 {
	sin, cos := math32.Sin(yaw), math32.Cos(yaw)
	return mgl32.Vec3{
		v[0]*cos + v[2]*sin,
		v[1],
		-v[0]*sin + v[2]*cos,
	}
}

// DirectionVector returns the unit camera forward vector for the given yaw and pitch in radians.
func DirectionVector(yaw, pitch float32) mgl32.Vec3 {
	m := math32.Cos(pitch)
	return mgl32.Vec3{
		-m * math32.Sin(yaw),
		math32.Sin(pitch),
		-m * math32.Cos(yaw),
	}
}
