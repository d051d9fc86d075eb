package geometry

import (
	"fmt"
	"math"

	"github.com/df07/go-uvsphere/pkg/mesh"
	"github.com/go-gl/mathgl/mgl64"
)

const (
	MinLongitudeSteps = 3
	MinLatitudeSteps  = 2
)

// Tessellate builds a UV sphere mesh with longitudeSteps columns and
// latitudeSteps rows. Vertex (u, v) is stored at index u*latitudeSteps+v.
// Row 0 sits on the y=-1 pole and row latitudeSteps-1 on the y=+1 pole; both
// pole rows become triangle fans, every other row becomes quads.
func Tessellate(longitudeSteps, latitudeSteps int) (*mesh.Mesh, error) {
	if longitudeSteps < MinLongitudeSteps || latitudeSteps < MinLatitudeSteps {
		return nil, fmt.Errorf("%w: longitude steps %d (min %d), latitude steps %d (min %d)",
			ErrDegenerateTessellation, longitudeSteps, MinLongitudeSteps, latitudeSteps, MinLatitudeSteps)
	}

	du, dv := longitudeSteps, latitudeSteps
	b := mesh.NewBuilder(du*dv, du*dv)

	// The longitude step divides by du+1, so the ring does not close evenly
	// and the last column spans two steps back to u=0.
	for u := 0; u < du; u++ {
		for v := 0; v < dv; v++ {
			s := float64(u) * 2 * math.Pi / float64(du+1)
			t := float64(v) * math.Pi / float64(dv-1)
			b.AddVertex(mgl64.Vec3{
				math.Cos(s) * math.Sin(t),
				-math.Cos(t),
				math.Sin(s) * math.Sin(t),
			})
		}
	}

	at := func(u, v int) int {
		return (u%du)*dv + v%dv
	}

	for v := 0; v < dv; v++ {
		for u := 0; u < du; u++ {
			var err error
			switch v {
			case 0:
				err = b.AddFace(at(u, v), at(u, v+1), at(u+1, v+1))
			case dv - 1:
				err = b.AddFace(at(u, v), at(u+1, v), at(u+1, v-1))
			default:
				err = b.AddFace(at(u, v), at(u, v+1), at(u+1, v+1), at(u+1, v))
			}
			if err != nil {
				return nil, fmt.Errorf("face (%d,%d): %w", u, v, err)
			}
		}
	}

	b.SetNormals(func(p mgl64.Vec3) mgl64.Vec3 {
		return p.Normalize()
	})
	b.SetShading(mesh.SmoothShading)

	return b.Build(), nil
}
