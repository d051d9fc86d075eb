package material

import (
	"fmt"
	"strings"

	"github.com/df07/go-uvsphere/pkg/core"
	"github.com/go-gl/mathgl/mgl64"
	"golang.org/x/image/colornames"
)

// ColorSource provides spatially-varying colors for materials
type ColorSource interface {
	// Evaluate returns color at given UV coordinates and 3D point
	// UV is used for image textures, point for procedural textures
	Evaluate(uv core.TexCoord, point mgl64.Vec3) mgl64.Vec3
}

// SolidColor provides uniform color
type SolidColor struct {
	Color mgl64.Vec3
}

// NewSolidColor creates a new solid color source
func NewSolidColor(color mgl64.Vec3) *SolidColor {
	return &SolidColor{Color: color}
}

// Evaluate returns the solid color regardless of UV or position
func (s *SolidColor) Evaluate(uv core.TexCoord, point mgl64.Vec3) mgl64.Vec3 {
	return s.Color
}

// Luminance returns the perceptual luminance of an RGB color
// Uses standard luminance weights: 0.299*R + 0.587*G + 0.114*B
func Luminance(c mgl64.Vec3) float64 {
	return 0.299*c.X() + 0.587*c.Y() + 0.114*c.Z()
}

// NamedColor looks up an SVG 1.1 color keyword such as "slategray"
func NamedColor(name string) (mgl64.Vec3, error) {
	c, ok := colornames.Map[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return mgl64.Vec3{}, fmt.Errorf("unknown color name %q", name)
	}
	return mgl64.Vec3{
		float64(c.R) / 255.0,
		float64(c.G) / 255.0,
		float64(c.B) / 255.0,
	}, nil
}
