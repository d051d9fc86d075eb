package geometry

import (
	"fmt"
	"math"

	"github.com/df07/go-uvsphere/pkg/core"
	"github.com/df07/go-uvsphere/pkg/material"
	"github.com/df07/go-uvsphere/pkg/mesh"
	"github.com/go-gl/mathgl/mgl64"
)

const (
	DefaultLongitudeSteps = 20
	DefaultLatitudeSteps  = 10
)

// Sphere is a unit sphere centered at the origin. It carries a tessellated
// mesh for rasterization and traces rays analytically. A Sphere is immutable
// after construction and safe for concurrent use.
type Sphere struct {
	mesh           *mesh.Mesh
	longitudeSteps int
	latitudeSteps  int
	surface        core.Surface
}

type sphereOptions struct {
	surface core.Surface
	logger  core.Logger
}

// SphereOption configures NewSphere
type SphereOption func(*sphereOptions)

// WithTint sets a solid diffuse color
func WithTint(color mgl64.Vec3) SphereOption {
	return func(o *sphereOptions) {
		o.surface = material.NewLambertian(color)
	}
}

// WithSurface sets the material lookup used for hit records
func WithSurface(surface core.Surface) SphereOption {
	return func(o *sphereOptions) {
		o.surface = surface
	}
}

// WithLogger sets the logger used during construction
func WithLogger(logger core.Logger) SphereOption {
	return func(o *sphereOptions) {
		o.logger = logger
	}
}

// NewSphere creates a unit sphere tessellated into longitudeSteps by
// latitudeSteps cells. The default surface is plain white.
func NewSphere(longitudeSteps, latitudeSteps int, opts ...SphereOption) (*Sphere, error) {
	o := sphereOptions{
		surface: material.NewLambertian(mgl64.Vec3{1, 1, 1}),
		logger:  core.NopLogger(),
	}
	for _, opt := range opts {
		opt(&o)
	}

	m, err := Tessellate(longitudeSteps, latitudeSteps)
	if err != nil {
		return nil, fmt.Errorf("failed to build sphere: %w", err)
	}
	o.logger.Debugf("tessellated sphere %dx%d: %d vertices, %d faces",
		longitudeSteps, latitudeSteps, m.NumVertices(), m.NumFaces())

	return &Sphere{
		mesh:           m,
		longitudeSteps: longitudeSteps,
		latitudeSteps:  latitudeSteps,
		surface:        o.surface,
	}, nil
}

// DefaultSphere creates a white 20x10 sphere
func DefaultSphere() *Sphere {
	s, err := NewSphere(DefaultLongitudeSteps, DefaultLatitudeSteps)
	if err != nil {
		panic(err)
	}
	return s
}

// Mesh returns the tessellation built at construction time
func (s *Sphere) Mesh() *mesh.Mesh {
	return s.mesh
}

// Resolution returns the longitude and latitude step counts
func (s *Sphere) Resolution() (longitudeSteps, latitudeSteps int) {
	return s.longitudeSteps, s.latitudeSteps
}

// TraceLocal returns both intersections of ray with the sphere, in the order
// (-b+√disc)/a then (-b-√disc)/a. A miss yields an empty slice. Tangent rays
// yield two coincident hits and roots behind the origin are kept.
func (s *Sphere) TraceLocal(ray core.Ray) ([]core.HitRecord, error) {
	return s.TraceLocalInto(ray, make([]core.HitRecord, 0, 2))
}

// TraceLocalInto is TraceLocal appending to dst, so callers can reuse a
// buffer per goroutine.
func (s *Sphere) TraceLocalInto(ray core.Ray, dst []core.HitRecord) ([]core.HitRecord, error) {
	// Quadratic a·t² + 2b·t + c = 0 from |O + tD|² = 1
	a := ray.Direction.Dot(ray.Direction)
	if a == 0 || math.IsNaN(a) || math.IsInf(a, 0) {
		return dst, fmt.Errorf("%w: direction %v", ErrDegenerateRay, ray.Direction)
	}
	b := ray.Origin.Dot(ray.Direction)
	c := ray.Origin.Dot(ray.Origin) - 1

	discriminant := b*b - a*c
	if discriminant < 0 {
		return dst, nil
	}

	root := math.Sqrt(discriminant)
	t1 := (-b + root) / a
	t2 := (-b - root) / a

	dst = append(dst, s.hit(ray, t1), s.hit(ray, t2))
	return dst, nil
}

func (s *Sphere) hit(ray core.Ray, t float64) core.HitRecord {
	p := ray.At(t)
	uv := s.TextureCoord(p)
	return core.HitRecord{
		T:        t,
		Point:    p,
		Normal:   s.surface.ApplyToNormal(uv, p.Normalize(), s.TangentBasis(p)),
		TexCoord: uv,
		Material: s.surface.Sample(uv, p),
	}
}

// TextureCoord maps a point on the unit sphere to texture space. u wraps
// around the y axis starting at -x, v runs from 0 at y=+1 to 1 at y=-1.
func (s *Sphere) TextureCoord(p mgl64.Vec3) core.TexCoord {
	return SphereTextureCoord(p)
}

// TangentBasis returns the unit U-basis direction at p. It lies in the
// equatorial plane and depends only on the longitude of p.
func (s *Sphere) TangentBasis(p mgl64.Vec3) mgl64.Vec3 {
	return SphereTangentBasis(p)
}

// SphereTextureCoord is the unit sphere parameterization used by Sphere
func SphereTextureCoord(p mgl64.Vec3) core.TexCoord {
	// Clamp so rounding on the pole rows cannot push asin out of its domain
	y := math.Max(-1, math.Min(1, p.Y()))
	return core.TexCoord{
		U: 0.5 + math.Atan2(p.Z(), -p.X())/(2*math.Pi),
		V: 0.5 - math.Asin(y)/math.Pi,
	}
}

// SphereTangentBasis is the U-basis field used by Sphere
func SphereTangentBasis(p mgl64.Vec3) mgl64.Vec3 {
	theta := math.Atan2(p.Z(), p.X())
	return mgl64.Vec3{
		math.Cos(theta + math.Pi/2),
		0,
		math.Sin(theta + math.Pi/2),
	}
}

var _ Primitive = (*Sphere)(nil)
