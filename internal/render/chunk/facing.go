// Package chunk holds the per-chunk render data consumed by the region
// renderer: graphics state per pass, facing ranges, bounds and camera context.
package chunk

import "github.com/go-gl/mathgl/mgl32"

// Facing is the direction a group of quads faces. Unassigned holds geometry
// that is not axis aligned and is never culled by facing.
type Facing int

const (
	FacingUp Facing = iota
	FacingDown
	FacingEast
	FacingWest
	FacingSouth
	FacingNorth
	FacingUnassigned
)

// FacingCount is the number of facings including Unassigned.
const FacingCount = 7

// Directions lists the six axis-aligned facings.
var Directions = [6]Facing{FacingUp, FacingDown, FacingEast, FacingWest, FacingSouth, FacingNorth}

var normals = [FacingCount]mgl32.Vec3{
	FacingUp:    {0, 1, 0},
	FacingDown:  {0, -1, 0},
	FacingEast:  {1, 0, 0},
	FacingWest:  {-1, 0, 0},
	FacingSouth: {0, 0, 1},
	FacingNorth: {0, 0, -1},
}

// Normal returns the outward unit normal of an axis-aligned facing, or the
// zero vector for Unassigned.
func (f Facing) Normal() mgl32.Vec3 {
	if f < 0 || f >= FacingCount {
		return mgl32.Vec3{}
	}
	return normals[f]
}

func (f Facing) String() string {
	switch f {
	case FacingUp:
		return "up"
	case FacingDown:
		return "down"
	case FacingEast:
		return "east"
	case FacingWest:
		return "west"
	case FacingSouth:
		return "south"
	case FacingNorth:
		return "north"
	default:
		return "unassigned"
	}
}
