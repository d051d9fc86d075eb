package geometry

import (
	"math"
	"sync"
	"testing"

	"github.com/df07/go-uvsphere/pkg/core"
	"github.com/df07/go-uvsphere/pkg/material"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSphere(t *testing.T) *Sphere {
	t.Helper()
	s, err := NewSphere(DefaultLongitudeSteps, DefaultLatitudeSteps)
	require.NoError(t, err)
	return s
}

// hitByT returns the hit whose T is closest to want
func hitByT(hits []core.HitRecord, want float64) core.HitRecord {
	best := hits[0]
	for _, h := range hits[1:] {
		if math.Abs(h.T-want) < math.Abs(best.T-want) {
			best = h
		}
	}
	return best
}

func TestSphere_TraceLocal_TwoHits(t *testing.T) {
	sphere := newTestSphere(t)
	ray := core.NewRay(mgl64.Vec3{0, 0, 5}, mgl64.Vec3{0, 0, -1})

	hits, err := sphere.TraceLocal(ray)
	require.NoError(t, err)
	require.Len(t, hits, 2)

	// (-b+√disc)/a comes first
	assert.InDelta(t, 6.0, hits[0].T, tolerance)
	assert.InDelta(t, 4.0, hits[1].T, tolerance)

	near := hitByT(hits, 4)
	far := hitByT(hits, 6)
	assertVecNear(t, mgl64.Vec3{0, 0, 1}, near.Point, tolerance, "near point %v", near.Point)
	assertVecNear(t, mgl64.Vec3{0, 0, -1}, far.Point, tolerance, "far point %v", far.Point)
	assertVecNear(t, mgl64.Vec3{0, 0, 1}, near.Normal, tolerance, "near normal %v", near.Normal)
	assertVecNear(t, mgl64.Vec3{0, 0, -1}, far.Normal, tolerance, "far normal %v", far.Normal)
	assert.True(t, near.FrontFace(ray))
	assert.False(t, far.FrontFace(ray))
}

func TestSphere_TraceLocal_UnnormalizedDirection(t *testing.T) {
	sphere := newTestSphere(t)
	ray := core.NewRay(mgl64.Vec3{0, 0, 5}, mgl64.Vec3{0, 0, -2})

	hits, err := sphere.TraceLocal(ray)
	require.NoError(t, err)
	require.Len(t, hits, 2)
	assert.InDelta(t, 2.0, hitByT(hits, 2).T, tolerance)
	assert.InDelta(t, 3.0, hitByT(hits, 3).T, tolerance)
}

func TestSphere_TraceLocal_Miss(t *testing.T) {
	sphere := newTestSphere(t)
	ray := core.NewRay(mgl64.Vec3{2, 2, 2}, mgl64.Vec3{1, 0, 0})

	hits, err := sphere.TraceLocal(ray)
	require.NoError(t, err)
	assert.NotNil(t, hits)
	assert.Empty(t, hits)
}

func TestSphere_TraceLocal_Tangent(t *testing.T) {
	sphere := newTestSphere(t)
	ray := core.NewRay(mgl64.Vec3{0, 0, 1}, mgl64.Vec3{1, 0, 0})

	hits, err := sphere.TraceLocal(ray)
	require.NoError(t, err)
	require.Len(t, hits, 2)

	assert.Equal(t, hits[0].T, hits[1].T)
	assert.InDelta(t, 0.0, hits[0].T, tolerance)
	for _, h := range hits {
		assertVecNear(t, mgl64.Vec3{0, 0, 1}, h.Point, tolerance, "point %v", h.Point)
	}
}

func TestSphere_TraceLocal_KeepsRootsBehindOrigin(t *testing.T) {
	sphere := newTestSphere(t)

	// Origin inside the sphere: one root behind, one ahead
	inside := core.NewRay(mgl64.Vec3{0, 0, 0}, mgl64.Vec3{0, 1, 0})
	hits, err := sphere.TraceLocal(inside)
	require.NoError(t, err)
	require.Len(t, hits, 2)
	assert.InDelta(t, 1.0, hits[0].T, tolerance)
	assert.InDelta(t, -1.0, hits[1].T, tolerance)

	// Sphere entirely behind the origin
	behind := core.NewRay(mgl64.Vec3{0, 0, 5}, mgl64.Vec3{0, 0, 1})
	hits, err = sphere.TraceLocal(behind)
	require.NoError(t, err)
	require.Len(t, hits, 2)
	for _, h := range hits {
		assert.Less(t, h.T, 0.0)
	}
}

func TestSphere_TraceLocal_DegenerateRay(t *testing.T) {
	sphere := newTestSphere(t)

	tests := []struct {
		name      string
		origin    mgl64.Vec3
		direction mgl64.Vec3
	}{
		{"zero direction", mgl64.Vec3{0, 0, 5}, mgl64.Vec3{}},
		{"NaN direction", mgl64.Vec3{0, 0, 5}, mgl64.Vec3{math.NaN(), 0, -1}},
		{"infinite direction", mgl64.Vec3{0, 0, 0.5}, mgl64.Vec3{math.Inf(1), 0, 0}},
		{"overflowing direction", mgl64.Vec3{0, 0, 0.5}, mgl64.Vec3{0, 1e200, 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hits, err := sphere.TraceLocal(core.NewRay(tt.origin, tt.direction))
			assert.ErrorIs(t, err, ErrDegenerateRay)
			assert.Empty(t, hits)
		})
	}
}

func TestSphere_TraceLocalInto_Appends(t *testing.T) {
	sphere := newTestSphere(t)
	ray := core.NewRay(mgl64.Vec3{0, 0, 5}, mgl64.Vec3{0, 0, -1})

	buf := []core.HitRecord{{T: 42}}
	buf, err := sphere.TraceLocalInto(ray, buf)
	require.NoError(t, err)
	require.Len(t, buf, 3)
	assert.Equal(t, 42.0, buf[0].T)

	miss := core.NewRay(mgl64.Vec3{2, 2, 2}, mgl64.Vec3{1, 0, 0})
	buf, err = sphere.TraceLocalInto(miss, buf[:0])
	require.NoError(t, err)
	assert.Empty(t, buf)
}

func TestSphere_HitMaterialAndTexCoord(t *testing.T) {
	tint := mgl64.Vec3{0.2, 0.4, 0.6}
	sphere, err := NewSphere(12, 6, WithTint(tint))
	require.NoError(t, err)

	hits, err := sphere.TraceLocal(core.NewRay(mgl64.Vec3{-3, 0.5, 0.1}, mgl64.Vec3{1, 0, 0}))
	require.NoError(t, err)
	require.Len(t, hits, 2)
	for _, h := range hits {
		assert.Equal(t, tint, h.Material.Albedo)
		assert.Equal(t, sphere.TextureCoord(h.Point), h.TexCoord)
		assert.InDelta(t, 1.0, h.Point.Len(), 1e-9)
	}
}

func TestSphere_BumpedNormal(t *testing.T) {
	stripes := material.NewCheckerboardTexture(64, 64, 4,
		mgl64.Vec3{1, 1, 1}, mgl64.Vec3{0, 0, 0})
	surface := material.NewTexturedLambertian(stripes).WithBump(
		&material.BumpMap{Height: stripes, Scale: 0.01, Delta: 1.0 / 64})
	sphere, err := NewSphere(12, 6, WithSurface(surface))
	require.NoError(t, err)

	var perturbed int
	for i := 0; i < 64; i++ {
		y := -0.9 + 1.8*float64(i)/63
		ray := core.NewRay(mgl64.Vec3{-3, y, 0.3}, mgl64.Vec3{1, 0, 0})
		hits, err := sphere.TraceLocal(ray)
		require.NoError(t, err)
		for _, h := range hits {
			assert.InDelta(t, 1.0, h.Normal.Len(), 1e-9)
			if h.Normal.Sub(h.Point.Normalize()).Len() > 1e-9 {
				perturbed++
			}
		}
	}
	assert.Greater(t, perturbed, 0, "bump map never changed a normal")
}

func TestSphere_TextureCoord(t *testing.T) {
	sphere := newTestSphere(t)

	tests := []struct {
		name  string
		point mgl64.Vec3
		want  core.TexCoord
	}{
		{"-x equator", mgl64.Vec3{-1, 0, 0}, core.TexCoord{U: 0.5, V: 0.5}},
		{"+z equator", mgl64.Vec3{0, 0, 1}, core.TexCoord{U: 0.75, V: 0.5}},
		{"-z equator", mgl64.Vec3{0, 0, -1}, core.TexCoord{U: 0.25, V: 0.5}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := sphere.TextureCoord(tt.point)
			assert.InDelta(t, tt.want.U, got.U, tolerance)
			assert.InDelta(t, tt.want.V, got.V, tolerance)
		})
	}

	// u is arbitrary on the poles, v is not
	assert.InDelta(t, 0.0, sphere.TextureCoord(mgl64.Vec3{0, 1, 0}).V, tolerance)
	assert.InDelta(t, 1.0, sphere.TextureCoord(mgl64.Vec3{0, -1, 0}).V, tolerance)

	// Slightly outside [-1,1] from rounding must not produce NaN
	got := sphere.TextureCoord(mgl64.Vec3{0, 1 + 1e-15, 0})
	assert.False(t, math.IsNaN(got.V))
	assert.InDelta(t, 0.0, got.V, tolerance)
}

func TestSphere_TangentBasis(t *testing.T) {
	sphere := newTestSphere(t)

	for _, v := range []float64{-1, -0.7, -0.2, 0, 0.3, 0.8, 1} {
		for k := 0; k < 16; k++ {
			theta := float64(k) * 2 * math.Pi / 16
			r := math.Sqrt(1 - v*v)
			p := mgl64.Vec3{r * math.Cos(theta), v, r * math.Sin(theta)}

			tangent := sphere.TangentBasis(p)
			assert.InDelta(t, 1.0, tangent.Len(), tolerance)
			assert.Equal(t, 0.0, tangent.Y())
			if r > 1e-9 {
				assert.InDelta(t, 0.0, tangent.Dot(p), 1e-9, "tangent should be perpendicular to %v", p)
			}
		}
	}

	// Same longitude, different latitude, same tangent
	a := sphere.TangentBasis(mgl64.Vec3{0.6, 0.8, 0})
	b := sphere.TangentBasis(mgl64.Vec3{1, 0, 0})
	assertVecNear(t, b, a, tolerance)
	assertVecNear(t, mgl64.Vec3{0, 0, 1}, b, tolerance)
}

// wrapDelta is the distance between two u values on the unit circle
func wrapDelta(a, b float64) float64 {
	d := math.Abs(a - b)
	return math.Min(d, 1-d)
}

func TestSphere_TextureCoordAgreesWithMesh(t *testing.T) {
	sphere, err := NewSphere(24, 12)
	require.NoError(t, err)
	m := sphere.Mesh()
	du, dv := sphere.Resolution()

	for u := 0; u < du; u++ {
		// Skip pole rows where u is undefined
		for v := 1; v < dv-1; v++ {
			p := m.Vertex(u*dv + v).Position

			// From outside along the radial line; the near root is t=2 at p
			ray := core.NewRay(p.Mul(3), p.Mul(-1))
			hits, err := sphere.TraceLocal(ray)
			require.NoError(t, err)
			hit, ok := core.Nearest(hits, 0, math.Inf(1))
			require.True(t, ok)
			require.Less(t, hit.Point.Sub(p).Len(), 1e-9)

			meshUV := sphere.TextureCoord(p)
			assert.Less(t, wrapDelta(meshUV.U, hit.TexCoord.U), 1e-9, "u mismatch at (%d,%d)", u, v)
			assert.InDelta(t, meshUV.V, hit.TexCoord.V, 1e-9, "v mismatch at (%d,%d)", u, v)
		}
	}
}

func TestSphere_ConcurrentTrace(t *testing.T) {
	sphere := newTestSphere(t)

	var wg sync.WaitGroup
	errs := make(chan error, 8)
	for w := 0; w < 8; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			buf := make([]core.HitRecord, 0, 2)
			for i := 0; i < 500; i++ {
				x := -0.99 + 1.98*float64((i+w)%100)/99
				var err error
				buf, err = sphere.TraceLocalInto(core.NewRay(mgl64.Vec3{x, 0, 5}, mgl64.Vec3{0, 0, -1}), buf[:0])
				if err != nil {
					errs <- err
					return
				}
				if len(buf) != 2 {
					errs <- assert.AnError
					return
				}
			}
		}(w)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		assert.NoError(t, err)
	}
}

func TestNewSphere_Degenerate(t *testing.T) {
	s, err := NewSphere(2, 10)
	assert.Nil(t, s)
	assert.ErrorIs(t, err, ErrDegenerateTessellation)

	s, err = NewSphere(20, 1)
	assert.Nil(t, s)
	assert.ErrorIs(t, err, ErrDegenerateTessellation)
}

func TestDefaultSphere(t *testing.T) {
	s := DefaultSphere()
	du, dv := s.Resolution()
	assert.Equal(t, 20, du)
	assert.Equal(t, 10, dv)
	assert.Equal(t, 200, s.Mesh().NumFaces())
}
