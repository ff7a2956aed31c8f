package protocol

// Terrain describes the static world sent with the start event. Lighting is part of the payload but is
// only of interest to a renderer, so it is not decoded.
type Terrain struct {
	BoundaryWalls []Box   `json:"boundary_walls" msgpack:"boundary_walls"`
	Buildings     []Box   `json:"buildings" msgpack:"buildings"`
	Obstacles     []Box   `json:"obstacles" msgpack:"obstacles"`
	Ground        *Ground `json:"ground,omitempty" msgpack:"ground,omitempty"`
}

// Box is an axis-aligned box centered on Position with the full extents given by Size.
type Box struct {
	Position Vec3   `json:"position" msgpack:"position"`
	Size     Vec3   `json:"size" msgpack:"size"`
	Color    uint32 `json:"color" msgpack:"color"`
	Texture  string `json:"texture,omitempty" msgpack:"texture,omitempty"`
}

// Ground is a square plane at y = 0 with the side length given by Size.
type Ground struct {
	Size          float32 `json:"size" msgpack:"size"`
	Texture       string  `json:"texture,omitempty" msgpack:"texture,omitempty"`
	TextureRepeat float32 `json:"textureRepeat,omitempty" msgpack:"textureRepeat,omitempty"`
}
