package applescene

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Camera is the editor's fly camera. Yaw and Pitch are degrees.
type Camera struct {
	Position    mgl32.Vec3
	Yaw         float32
	Pitch       float32
	Speed       float32
	Sensitivity float32
}

func NewCamera(cfg CameraConfig) *Camera {
	return &Camera{
		Position:    mgl32.Vec3{0, 0, 5},
		Speed:       cfg.Speed,
		Sensitivity: cfg.Sensitivity,
	}
}

func (c *Camera) Forward() mgl32.Vec3 {
	yaw := float64(mgl32.DegToRad(c.Yaw))
	pitch := float64(mgl32.DegToRad(c.Pitch))
	return mgl32.Vec3{
		float32(math.Sin(yaw) * math.Cos(pitch)),
		float32(math.Sin(pitch)),
		float32(-math.Cos(yaw) * math.Cos(pitch)),
	}.Normalize()
}

// Look turns the camera by a mouse delta.
func (c *Camera) Look(dx, dy float32) {
	sens := c.Sensitivity
	if sens == 0 {
		sens = 0.1
	}
	c.Yaw += dx * sens
	c.Pitch -= dy * sens
	c.Pitch = min(max(c.Pitch, -89), 89)
}

// Move advances the camera along move (x right, y up, z forward) for dt
// seconds.
func (c *Camera) Move(move mgl32.Vec3, dt float32) {
	if dt <= 0 || move.Len() == 0 {
		return
	}
	speed := c.Speed
	if speed == 0 {
		speed = 5
	}

	up := mgl32.Vec3{0, 1, 0}
	forward := c.Forward()
	right := forward.Cross(up).Normalize()

	dir := right.Mul(move[0]).Add(up.Mul(move[1])).Add(forward.Mul(move[2]))
	if dir.Len() > 0 {
		c.Position = c.Position.Add(dir.Normalize().Mul(speed * dt))
	}
}

func (c *Camera) View() mgl32.Mat4 {
	return mgl32.LookAtV(c.Position, c.Position.Add(c.Forward()), mgl32.Vec3{0, 1, 0})
}
