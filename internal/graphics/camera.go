package graphics

import (
	"math"

	"regionview/internal/render/chunk"

	"github.com/go-gl/mathgl/mgl32"
)

// Camera is a free-flying camera. Position is kept in float64 so large world
// coordinates stay exact; the view rotation never contains a translation.
type Camera struct {
	AspectRatio float32
	FOV         float32
	NearPlane   float32
	FarPlane    float32

	X, Y, Z    float64
	Yaw, Pitch float64 // degrees

	Sensitivity float64
	Speed       float64 // blocks per second

	firstMouse bool
	lastX      float64
	lastY      float64
}

func NewCamera(width, height int) *Camera {
	return &Camera{
		AspectRatio: float32(width) / float32(max(height, 1)),
		FOV:         70.0,
		NearPlane:   0.1,
		FarPlane:    1000.0,
		Yaw:         -90,
		Sensitivity: 0.1,
		Speed:       20,
		firstMouse:  true,
	}
}

// SetViewport updates the aspect ratio after a resize.
func (c *Camera) SetViewport(width, height int) {
	if height > 0 {
		c.AspectRatio = float32(width) / float32(height)
	}
}

func (c *Camera) GetProjectionMatrix() mgl32.Mat4 {
	return mgl32.Perspective(mgl32.DegToRad(c.FOV), c.AspectRatio, c.NearPlane, c.FarPlane)
}

// GetFrontVector returns the unit look direction.
func (c *Camera) GetFrontVector() mgl32.Vec3 {
	y := mgl32.DegToRad(float32(c.Yaw))
	pt := mgl32.DegToRad(float32(c.Pitch))
	fx := float32(math.Cos(float64(y)) * math.Cos(float64(pt)))
	fy := float32(math.Sin(float64(pt)))
	fz := float32(math.Sin(float64(y)) * math.Cos(float64(pt)))
	return mgl32.Vec3{fx, fy, fz}.Normalize()
}

// GetRotationMatrix is the view matrix of a camera sitting at the origin.
func (c *Camera) GetRotationMatrix() mgl32.Mat4 {
	return mgl32.LookAtV(mgl32.Vec3{}, c.GetFrontVector(), mgl32.Vec3{0, 1, 0})
}

// GetViewMatrix is the full world-to-view matrix, used for frustum extraction.
func (c *Camera) GetViewMatrix() mgl32.Mat4 {
	return c.GetRotationMatrix().Mul4(mgl32.Translate3D(-float32(c.X), -float32(c.Y), -float32(c.Z)))
}

// Context splits the position for camera-relative region translation.
func (c *Camera) Context() chunk.CameraContext {
	return chunk.NewCameraContext(c.X, c.Y, c.Z)
}

// HandleMouseMovement turns cursor motion into yaw and pitch.
func (c *Camera) HandleMouseMovement(xpos, ypos float64) {
	if c.firstMouse {
		c.lastX = xpos
		c.lastY = ypos
		c.firstMouse = false
		return
	}

	xoffset := (xpos - c.lastX) * c.Sensitivity
	yoffset := (c.lastY - ypos) * c.Sensitivity
	c.lastX = xpos
	c.lastY = ypos

	c.Yaw += xoffset
	// Constrain pitch
	c.Pitch = max(min(c.Pitch+yoffset, 89.0), -89.0)
}

// Move translates the camera along its look direction (forward), the
// horizontal right vector (right) and world up (up), scaled by dt.
func (c *Camera) Move(forward, right, up float64, dt float64) {
	front := c.GetFrontVector()
	side := front.Cross(mgl32.Vec3{0, 1, 0}).Normalize()
	step := c.Speed * dt
	c.X += (float64(front.X())*forward + float64(side.X())*right) * step
	c.Y += (float64(front.Y())*forward+float64(side.Y())*right)*step + up*step
	c.Z += (float64(front.Z())*forward + float64(side.Z())*right) * step
}
