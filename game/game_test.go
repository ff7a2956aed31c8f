package game

import (
	"math"
	"testing"

	"github.com/ethaniccc/float32-cube/cube"
	"github.com/go-gl/mathgl/mgl32"
)

func TestDamageAtDistance(t *testing.T) {
	tests := []struct {
		distance float32
		want     int
	}{
		{0, 5},
		{50, 3},
		{99, 2},
		{100, 0},
		{200, 0},
		{-10, 5},
	}
	for _, tt := range tests {
		if got := DamageAtDistance(5, tt.distance, EffectiveRange); got != tt.want {
			t.Fatalf("distance %v: expected damage %d, got %d", tt.distance, tt.want, got)
		}
	}
	if got := DamageAtDistance(20, 0, EffectiveRange); got != 20 {
		t.Fatalf("expected full damage at point blank, got %d", got)
	}
}

func TestCapsuleOverlap(t *testing.T) {
	box := cube.Box(1, 0, -1, 3, 2, 1)

	// Capsule center at (0.5, 1.3, 0) is 0.5 from the box's -X face.
	if _, ok := CapsuleOverlap(box, mgl32.Vec3{0.5, 1.6, 0}, CapsuleRadius); ok {
		t.Fatalf("expected no overlap at distance 0.5")
	}

	normal, ok := CapsuleOverlap(box, mgl32.Vec3{0.7, 1.6, 0}, CapsuleRadius)
	if !ok {
		t.Fatalf("expected overlap at distance 0.3")
	}
	if !Vec3ApproxEq(normal, mgl32.Vec3{-1, 0, 0}) {
		t.Fatalf("expected normal (-1, 0, 0), got %v", normal)
	}

	normal, ok = CapsuleOverlap(box, mgl32.Vec3{2.9, 1.3, 0}, CapsuleRadius)
	if !ok {
		t.Fatalf("expected overlap when the capsule center is inside the box")
	}
	if !Vec3ApproxEq(normal, mgl32.Vec3{1, 0, 0}) {
		t.Fatalf("expected normal (1, 0, 0) through the nearest face, got %v", normal)
	}
}

func TestAABBVectorDistance(t *testing.T) {
	box := cube.Box(0, 0, 0, 1, 1, 1)
	if d := AABBVectorDistance(box, mgl32.Vec3{0.5, 0.5, 0.5}); d != 0 {
		t.Fatalf("expected 0 distance inside the box, got %v", d)
	}
	if d := AABBVectorDistance(box, mgl32.Vec3{4, 0.5, 0.5}); !Float32ApproxEq(d, 3) {
		t.Fatalf("expected distance 3, got %v", d)
	}
}

func TestEntityBBox(t *testing.T) {
	bb := EntityBBox(mgl32.Vec3{0, 1.6, 0})
	if !Float32ApproxEq(bb.Min().Y(), 0) || !Float32ApproxEq(bb.Max().Y(), 2.0) {
		t.Fatalf("expected entity box from feet to head, got %v-%v", bb.Min(), bb.Max())
	}
}

func TestSurfaceNormal(t *testing.T) {
	box := cube.Box(-1, 0, -1, 1, 2, 1)
	if n := SurfaceNormal(box, mgl32.Vec3{0, 2, 0.2}); !Vec3ApproxEq(n, mgl32.Vec3{0, 1, 0}) {
		t.Fatalf("expected up normal, got %v", n)
	}
	if n := SurfaceNormal(box, mgl32.Vec3{0.3, 1, -1}); !Vec3ApproxEq(n, mgl32.Vec3{0, 0, -1}) {
		t.Fatalf("expected -Z normal, got %v", n)
	}
}

func TestRotateAndDirection(t *testing.T) {
	forward := RotateY(mgl32.Vec3{0, 0, -1}, 0)
	if !Vec3ApproxEq(forward, mgl32.Vec3{0, 0, -1}) {
		t.Fatalf("expected forward to stay -Z at yaw 0, got %v", forward)
	}
	// Turning left by 90 degrees faces -X.
	left := RotateY(mgl32.Vec3{0, 0, -1}, math.Pi/2)
	if !Vec3ApproxEq(left, mgl32.Vec3{-1, 0, 0}) {
		t.Fatalf("expected -X after a quarter turn, got %v", left)
	}
	if dir := DirectionVector(math.Pi/2, 0); !Vec3ApproxEq(dir, left) {
		t.Fatalf("expected direction vector %v, got %v", left, dir)
	}
}

func TestLerpAngleWraps(t *testing.T) {
	got := LerpAngle(3.0, -3.0, 0.5)
	if math.Abs(math.Abs(float64(got))-math.Pi) > 1e-3 {
		t.Fatalf("expected interpolation across the seam to land near pi, got %v", got)
	}
	if got := ClampPitch(10); got != PitchLimit {
		t.Fatalf("expected pitch clamped to %v, got %v", PitchLimit, got)
	}
}
