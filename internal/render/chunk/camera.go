package chunk

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// CameraContext is the camera position split into an integer block part and a
// fractional delta, so that region-relative translations stay precise far
// from the origin.
type CameraContext struct {
	BlockX, BlockY, BlockZ int
	DeltaX, DeltaY, DeltaZ float32
	Pos                    mgl64.Vec3
}

// NewCameraContext splits a world-space camera position.
func NewCameraContext(x, y, z float64) CameraContext {
	bx, by, bz := math.Floor(x), math.Floor(y), math.Floor(z)
	return CameraContext{
		BlockX: int(bx), BlockY: int(by), BlockZ: int(bz),
		DeltaX: float32(x - bx), DeltaY: float32(y - by), DeltaZ: float32(z - bz),
		Pos: mgl64.Vec3{x, y, z},
	}
}

// Translation returns the camera-relative offset of a block coordinate on one axis.
func Translation(originBlock, cameraBlock int, cameraDelta float32) float32 {
	return float32(originBlock-cameraBlock) - cameraDelta
}
