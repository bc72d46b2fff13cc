package systems

import (
	"math"

	"github.com/gonewx/snowglobe/pkg/components"
)

// Fog range in camera-space depth units.
const (
	FogNear = 10.0
	FogFar  = 50.0

	nearClip = 0.1
)

// Projector maps world-space points to screen pixels for a camera looking
// down -Z with a vertical field of view.
type Projector struct {
	Width, Height int
	Camera        components.CameraState
	focal         float64
}

// NewProjector creates a projector for the given viewport and vertical FOV in degrees.
func NewProjector(width, height int, fovDegrees float64, cam components.CameraState) Projector {
	half := fovDegrees * math.Pi / 360
	return Projector{
		Width:  width,
		Height: height,
		Camera: cam,
		focal:  float64(height) / 2 / math.Tan(half),
	}
}

// Project returns the screen position of p, the pixels per world unit at
// that depth, and the depth itself. ok is false for points behind the near plane.
func (pr Projector) Project(p components.Vec3) (sx, sy, scale, depth float64, ok bool) {
	depth = pr.Camera.Z - p.Z
	if depth <= nearClip {
		return 0, 0, 0, depth, false
	}
	scale = pr.focal / depth
	sx = float64(pr.Width)/2 + (p.X-pr.Camera.X)*scale
	sy = float64(pr.Height)/2 - (p.Y-pr.Camera.Y)*scale
	return sx, sy, scale, depth, true
}

// Unproject returns the world point at the given depth in front of the
// camera that projects to screen position (sx, sy).
func (pr Projector) Unproject(sx, sy, depth float64) components.Vec3 {
	perUnit := depth / pr.focal
	return components.Vec3{
		X: pr.Camera.X + (sx-float64(pr.Width)/2)*perUnit,
		Y: pr.Camera.Y - (sy-float64(pr.Height)/2)*perUnit,
		Z: pr.Camera.Z - depth,
	}
}

// FogFactor returns the linear fog amount for a depth: 0 at FogNear or
// closer, 1 at FogFar or further.
func FogFactor(depth float64) float64 {
	f := (depth - FogNear) / (FogFar - FogNear)
	return math.Max(0, math.Min(1, f))
}

// RotateY rotates p around the world Y axis by angle radians.
func RotateY(p components.Vec3, angle float64) components.Vec3 {
	s, c := math.Sincos(angle)
	return components.Vec3{
		X: p.X*c + p.Z*s,
		Y: p.Y,
		Z: -p.X*s + p.Z*c,
	}
}
