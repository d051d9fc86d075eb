package renderer

import (
	"errors"
	"fmt"
	"math"

	"github.com/df07/go-uvsphere/pkg/core"
	"github.com/go-gl/mathgl/mgl64"
)

// CameraConfig describes a pinhole camera in the primitive's local frame
type CameraConfig struct {
	Position    mgl64.Vec3
	LookAt      mgl64.Vec3
	Up          mgl64.Vec3
	VFov        float64 // Vertical field of view in degrees
	AspectRatio float64 // Width / height
}

// DefaultCameraConfig looks at the unit sphere from +z
func DefaultCameraConfig(aspectRatio float64) CameraConfig {
	return CameraConfig{
		Position:    mgl64.Vec3{0, 0, 4},
		LookAt:      mgl64.Vec3{0, 0, 0},
		Up:          mgl64.Vec3{0, 1, 0},
		VFov:        40,
		AspectRatio: aspectRatio,
	}
}

// ErrDegenerateCamera is returned when a camera configuration has no
// well-defined view basis
var ErrDegenerateCamera = errors.New("degenerate camera")

// Validate checks that the view direction is non-zero and not parallel to Up
// and that the field of view and aspect ratio are usable.
func (c CameraConfig) Validate() error {
	view := c.Position.Sub(c.LookAt)
	if view.Len() == 0 {
		return fmt.Errorf("%w: position equals look-at %v", ErrDegenerateCamera, c.Position)
	}
	if c.Up.Cross(view).Len() <= 1e-12*view.Len()*c.Up.Len() {
		return fmt.Errorf("%w: view direction %v is parallel to up %v", ErrDegenerateCamera, view, c.Up)
	}
	if !(c.VFov > 0 && c.VFov < 180) {
		return fmt.Errorf("%w: vertical fov %g outside (0,180)", ErrDegenerateCamera, c.VFov)
	}
	if !(c.AspectRatio > 0) || math.IsInf(c.AspectRatio, 0) {
		return fmt.Errorf("%w: aspect ratio %g", ErrDegenerateCamera, c.AspectRatio)
	}
	return nil
}

// Camera generates rays for rendering
type Camera struct {
	origin          mgl64.Vec3
	lowerLeftCorner mgl64.Vec3
	horizontal      mgl64.Vec3
	vertical        mgl64.Vec3
}

// NewCamera creates a look-at pinhole camera with a focal distance of 1
func NewCamera(config CameraConfig) (*Camera, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	theta := mgl64.DegToRad(config.VFov)
	viewportHeight := 2.0 * math.Tan(theta/2)
	viewportWidth := config.AspectRatio * viewportHeight

	w := config.Position.Sub(config.LookAt).Normalize()
	u := config.Up.Cross(w).Normalize()
	v := w.Cross(u)

	origin := config.Position
	horizontal := u.Mul(viewportWidth)
	vertical := v.Mul(viewportHeight)
	lowerLeftCorner := origin.Sub(horizontal.Mul(0.5)).
		Sub(vertical.Mul(0.5)).
		Sub(w)

	return &Camera{
		origin:          origin,
		horizontal:      horizontal,
		vertical:        vertical,
		lowerLeftCorner: lowerLeftCorner,
	}, nil
}

// GetRay generates a ray for screen coordinates (s, t) where 0 <= s,t <= 1
// and (0,0) is the lower left corner
func (c *Camera) GetRay(s, t float64) core.Ray {
	direction := c.lowerLeftCorner.
		Add(c.horizontal.Mul(s)).
		Add(c.vertical.Mul(t)).
		Sub(c.origin)

	return core.NewRay(c.origin, direction)
}
