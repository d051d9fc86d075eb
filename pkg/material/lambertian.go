package material

import (
	"math"

	"github.com/df07/go-uvsphere/pkg/core"
	"github.com/go-gl/mathgl/mgl64"
)

// Lambertian represents a perfectly diffuse surface with an optional bump map
type Lambertian struct {
	Albedo ColorSource // Base color/reflectance (can be solid or textured)
	Bump   *BumpMap    // Optional normal perturbation, nil for none
}

// NewLambertian creates a new lambertian surface with solid color
func NewLambertian(albedo mgl64.Vec3) *Lambertian {
	return &Lambertian{Albedo: NewSolidColor(albedo)}
}

// NewTexturedLambertian creates a new lambertian surface with texture
func NewTexturedLambertian(albedoTexture ColorSource) *Lambertian {
	return &Lambertian{Albedo: albedoTexture}
}

// WithBump returns a copy of l that perturbs normals with bump
func (l *Lambertian) WithBump(bump *BumpMap) *Lambertian {
	c := *l
	c.Bump = bump
	return &c
}

// Sample implements core.Surface
func (l *Lambertian) Sample(uv core.TexCoord, p mgl64.Vec3) core.MaterialSample {
	return core.MaterialSample{Albedo: l.Albedo.Evaluate(uv, p)}
}

// ApplyToNormal implements core.Surface
func (l *Lambertian) ApplyToNormal(uv core.TexCoord, normal, tangent mgl64.Vec3) mgl64.Vec3 {
	if l.Bump == nil {
		return normal
	}
	return l.Bump.Perturb(uv, normal, tangent)
}

// EvaluateBRDF returns the reflected radiance factor for light arriving from
// toLight: albedo / π · cos(θ). Directions below the surface reflect nothing.
func EvaluateBRDF(sample core.MaterialSample, normal, toLight mgl64.Vec3) mgl64.Vec3 {
	cosTheta := normal.Dot(toLight.Normalize())
	if cosTheta <= 0 {
		return mgl64.Vec3{}
	}
	return sample.Albedo.Mul(cosTheta / math.Pi)
}
