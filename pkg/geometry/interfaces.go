package geometry

import (
	"github.com/df07/go-uvsphere/pkg/core"
	"github.com/df07/go-uvsphere/pkg/mesh"
	"github.com/go-gl/mathgl/mgl64"
)

// Parameterization maps surface points to texture space
type Parameterization interface {
	TextureCoord(p mgl64.Vec3) core.TexCoord
	TangentBasis(p mgl64.Vec3) mgl64.Vec3
}

// Primitive is a shape that can be both rasterized and ray traced in its
// local frame. Callers transform rays into that frame.
type Primitive interface {
	Parameterization

	// Mesh returns the tessellation built at construction time
	Mesh() *mesh.Mesh

	// TraceLocal returns every intersection of ray with the primitive,
	// including those behind the ray origin.
	TraceLocal(ray core.Ray) ([]core.HitRecord, error)
}
