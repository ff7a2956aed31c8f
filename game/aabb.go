package game

import (
	"github.com/chewxy/math32"
	"github.com/ethaniccc/float32-cube/cube"
	"github.com/ethaniccc/float32-cube/cube/trace"
	"github.com/go-gl/mathgl/mgl32"
)

// BoxFromCenter returns a bounding box centered on center with the full extents given by size.
func BoxFromCenter(center, size mgl32.Vec3) cube.BBox {
	h := size.Mul(0.5)
	return cube.Box(
		center[0]-h[0], center[1]-h[1], center[2]-h[2],
		center[0]+h[0], center[1]+h[1], center[2]+h[2],
	)
}

// EntityBBox returns the hit volume of a participant whose eye is at the given position. It spans
// from the feet to the top of the head and is as wide as the collision capsule.
func EntityBBox(eye mgl32.Vec3) cube.BBox {
	return cube.Box(
		eye[0]-CapsuleRadius, eye[1]-EyeHeight, eye[2]-CapsuleRadius,
		eye[0]+CapsuleRadius, eye[1]+CapsuleRadius, eye[2]+CapsuleRadius,
	)
}

// CapsuleCenter returns the midpoint of the collision capsule for an eye position.
func CapsuleCenter(eye mgl32.Vec3) mgl32.Vec3 {
	return mgl32.Vec3{eye[0], eye[1] - CapsuleCenterOffset, eye[2]}
}

// ClosestPoint returns the point inside the bounding box that is closest to v.
func ClosestPoint(a cube.BBox, v mgl32.Vec3) mgl32.Vec3 {
	min, max := a.Min(), a.Max()
	return mgl32.Vec3{
		mgl32.Clamp(v[0], min[0], max[0]),
		mgl32.Clamp(v[1], min[1], max[1]),
		mgl32.Clamp(v[2], min[2], max[2]),
	}
}

// AABBVectorDistance calculates the distance between an AABB and a vector.
func AABBVectorDistance(a cube.BBox, v mgl32.Vec3) float32 {
	x := math32.Max(a.Min().X()-v.X(), math32.Max(0, v.X()-a.Max().X()))
	y := math32.Max(a.Min().Y()-v.Y(), math32.Max(0, v.Y()-a.Max().Y()))
	z := math32.Max(a.Min().Z()-v.Z(), math32.Max(0, v.Z()-a.Max().Z()))

	dist := math32.Sqrt(x*x + y*y + z*z)
	if math32.IsNaN(dist) {
		dist = 0
	}
	return dist
}

// CapsuleOverlap tests the capsule of a player whose eye is at the given position against a box. The
// capsule is reduced to its midpoint, so the test is a sphere of the given radius against the box. If
// they overlap, the outward collision normal pointing from the box towards the capsule is returned.
func CapsuleOverlap(a cube.BBox, eye mgl32.Vec3, radius float32) (mgl32.Vec3, bool) {
	center := CapsuleCenter(eye)
	diff := center.Sub(ClosestPoint(a, center))
	dist := diff.Len()
	if dist >= radius {
		return mgl32.Vec3{}, false
	}
	if dist > 1e-6 {
		return diff.Mul(1 / dist), true
	}
	// The midpoint is inside the box, push out through the nearest face.
	return SurfaceNormal(a, center), true
}

// SurfaceNormal returns the outward normal of the face of the box closest to point.
func SurfaceNormal(a cube.BBox, point mgl32.Vec3) mgl32.Vec3 {
	min, max := a.Min(), a.Max()
	best, normal := float32(math32.MaxFloat32), mgl32.Vec3{0, 1, 0}
	for axis := 0; axis < 3; axis++ {
		if d := math32.Abs(point[axis] - min[axis]); d < best {
			best = d
			normal = mgl32.Vec3{}
			normal[axis] = -1
		}
		if d := math32.Abs(max[axis] - point[axis]); d < best {
			best = d
			normal = mgl32.Vec3{}
			normal[axis] = 1
		}
	}
	return normal
}

// RayIntersect intersects the segment starting at origin, travelling maxDist units along the unit
// vector dir, with a bounding box. It returns the distance to the entry point and the point itself.
func RayIntersect(a cube.BBox, origin, dir mgl32.Vec3, maxDist float32) (float32, mgl32.Vec3, bool) {
	result, ok := trace.BBoxIntercept(a, origin, origin.Add(dir.Mul(maxDist)))
	if !ok {
		return 0, mgl32.Vec3{}, false
	}
	pos := result.Position()
	return pos.Sub(origin).Len(), pos, true
}
