package chunk

import "github.com/go-gl/mathgl/mgl32"

// RenderBounds is the world-space box enclosing a chunk's geometry.
type RenderBounds struct {
	Min, Max mgl32.Vec3
}

// BoundsForChunk returns the full 16^3 box of the chunk at chunk coordinates.
func BoundsForChunk(cx, cy, cz int) RenderBounds {
	origin := mgl32.Vec3{float32(cx * Size), float32(cy * Size), float32(cz * Size)}
	return RenderBounds{Min: origin, Max: origin.Add(mgl32.Vec3{Size, Size, Size})}
}

// Center returns the midpoint of the box.
func (b RenderBounds) Center() mgl32.Vec3 {
	return b.Min.Add(b.Max).Mul(0.5)
}
