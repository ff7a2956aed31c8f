package world

import (
	"iter"

	"github.com/ethaniccc/float32-cube/cube"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/oomph-ac/frontline/game"
	"github.com/oomph-ac/frontline/protocol"
)

// Kind identifies what part of the map an Object was built from.
type Kind uint8

const (
	KindGround Kind = iota
	KindBoundaryWall
	KindBuilding
	KindObstacle
)

const (
	// groundThickness is the depth of the box standing in for the ground plane.
	groundThickness = float32(0.1)
	// roofThickness is the height of the roof laid on top of every building.
	roofThickness = float32(0.5)
)

// Object is a piece of static world geometry.
type Object struct {
	Kind Kind
	Box  cube.BBox
	// Ground is true for objects the player stands on. They are never collided against horizontally.
	Ground  bool
	Color   uint32
	Texture string
}

// World holds the static geometry of the map. It is built once per session and never mutated while
// the session runs.
type World struct {
	objects []Object
}

// New returns a world holding the given objects in order.
func New(objects ...Object) *World {
	return &World{objects: objects}
}

// FromTerrain builds the world described by the terrain of a start event.
func FromTerrain(t protocol.Terrain) *World {
	w := &World{}
	if t.Ground != nil {
		w.objects = append(w.objects, groundObject(t.Ground.Size, t.Ground.Texture))
	}
	w.addBoxes(KindBoundaryWall, t.BoundaryWalls)
	w.addBoxes(KindBuilding, t.Buildings)
	w.addBoxes(KindObstacle, t.Obstacles)
	return w
}

// addBoxes adds an object for each box. Buildings stand on their position with their roof on top, every
// other box is centered on its position.
func (w *World) addBoxes(kind Kind, boxes []protocol.Box) {
	for _, b := range boxes {
		box := game.BoxFromCenter(b.Position.Vec(), b.Size.Vec())
		if kind == KindBuilding {
			h := b.Size.Vec().Mul(0.5)
			p := b.Position
			box = cube.Box(p.X-h.X(), p.Y, p.Z-h.Z(), p.X+h.X(), p.Y+b.Size.Y+roofThickness, p.Z+h.Z())
		}
		w.objects = append(w.objects, Object{
			Kind:    kind,
			Box:     box,
			Color:   b.Color,
			Texture: b.Texture,
		})
	}
}

func groundObject(size float32, texture string) Object {
	h := size / 2
	return Object{
		Kind:    KindGround,
		Box:     cube.Box(-h, -groundThickness, -h, h, 0, h),
		Ground:  true,
		Texture: texture,
	}
}

// Default returns the fixed part of the standard map: the ground, the four boundary walls and the two
// buildings. It is used until the server sends a terrain of its own.
func Default() *World {
	wall := protocol.Vec3{X: 100, Y: 10, Z: 2}
	sideWall := protocol.Vec3{X: 2, Y: 10, Z: 100}
	return FromTerrain(protocol.Terrain{
		Ground: &protocol.Ground{Size: 500, Texture: "ground.jpg", TextureRepeat: 100},
		BoundaryWalls: []protocol.Box{
			{Position: protocol.Vec3{Y: 5, Z: -50}, Size: wall, Color: 0x555555},
			{Position: protocol.Vec3{Y: 5, Z: 50}, Size: wall, Color: 0x555555},
			{Position: protocol.Vec3{X: -50, Y: 5}, Size: sideWall, Color: 0x555555},
			{Position: protocol.Vec3{X: 50, Y: 5}, Size: sideWall, Color: 0x555555},
		},
		Buildings: []protocol.Box{
			{Position: protocol.Vec3{X: -20, Z: -15}, Size: protocol.Vec3{X: 10, Y: 8, Z: 12}, Color: 0x888888, Texture: "concrete.jpg"},
			{Position: protocol.Vec3{X: 15, Z: 20}, Size: protocol.Vec3{X: 8, Y: 5, Z: 8}, Color: 0x999999, Texture: "concrete.jpg"},
		},
	})
}

// Objects iterates every object in the world, ground included, in the order they were added.
func (w *World) Objects() iter.Seq[Object] {
	return func(yield func(Object) bool) {
		for _, o := range w.objects {
			if !yield(o) {
				return
			}
		}
	}
}

// Colliders iterates every object the player can collide with horizontally, in the order they were added.
func (w *World) Colliders() iter.Seq[Object] {
	return func(yield func(Object) bool) {
		for _, o := range w.objects {
			if o.Ground {
				continue
			}
			if !yield(o) {
				return
			}
		}
	}
}

// Len returns the number of objects in the world.
func (w *World) Len() int {
	return len(w.objects)
}

// Raycast returns the nearest object hit by the segment starting at origin, travelling maxDist along dir.
func (w *World) Raycast(origin, dir mgl32.Vec3, maxDist float32) (Object, float32, mgl32.Vec3, bool) {
	var (
		nearest Object
		dist    = maxDist
		point   mgl32.Vec3
		found   bool
	)
	for _, o := range w.objects {
		d, p, ok := game.RayIntersect(o.Box, origin, dir, maxDist)
		if ok && d <= dist {
			nearest, dist, point, found = o, d, p, true
		}
	}
	return nearest, dist, point, found
}
