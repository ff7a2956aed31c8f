package protocol

import "github.com/go-gl/mathgl/mgl32"

// Vec3 is a vector as it appears on the wire, an object with x, y and z members.
type Vec3 struct {
	X float32 `json:"x" msgpack:"x"`
	Y float32 `json:"y" msgpack:"y"`
	Z float32 `json:"z" msgpack:"z"`
}

// Vec returns the vector as an mgl32.Vec3.
func (v Vec3) Vec() mgl32.Vec3 {
	return mgl32.Vec3{v.X, v.Y, v.Z}
}

// FromVec converts an mgl32.Vec3 into its wire representation.
func FromVec(v mgl32.Vec3) Vec3 {
	return Vec3{X: v[0], Y: v[1], Z: v[2]}
}

// VecOr returns the vector pointed to by v, or def if v is nil.
func VecOr(v *Vec3, def mgl32.Vec3) mgl32.Vec3 {
	if v == nil {
		return def
	}
	return v.Vec()
}
