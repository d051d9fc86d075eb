package material

import (
	"github.com/df07/go-uvsphere/pkg/core"
	"github.com/go-gl/mathgl/mgl64"
)

const defaultBumpDelta = 1e-3

// BumpMap perturbs shading normals using the luminance of a ColorSource as a
// height field over texture space.
type BumpMap struct {
	Height ColorSource
	Scale  float64 // Strength of the perturbation
	Delta  float64 // Finite-difference step in UV units, 0 for default
}

// NewBumpMap creates a bump map
func NewBumpMap(height ColorSource, scale float64) *BumpMap {
	return &BumpMap{Height: height, Scale: scale}
}

// Perturb tilts normal along the tangent frame built from tangent (the U
// direction) and normal×tangent (the V direction). The result is unit length.
func (b *BumpMap) Perturb(uv core.TexCoord, normal, tangent mgl64.Vec3) mgl64.Vec3 {
	if b.Scale == 0 {
		return normal
	}
	delta := b.Delta
	if delta <= 0 {
		delta = defaultBumpDelta
	}

	dhdu := (b.height(core.TexCoord{U: uv.U + delta, V: uv.V}, normal) -
		b.height(core.TexCoord{U: uv.U - delta, V: uv.V}, normal)) / (2 * delta)
	dhdv := (b.height(core.TexCoord{U: uv.U, V: uv.V + delta}, normal) -
		b.height(core.TexCoord{U: uv.U, V: uv.V - delta}, normal)) / (2 * delta)

	bitangent := normal.Cross(tangent)
	offset := tangent.Mul(dhdu).Add(bitangent.Mul(dhdv)).Mul(b.Scale)
	perturbed := normal.Sub(offset)
	if perturbed.Len() == 0 {
		return normal
	}
	return perturbed.Normalize()
}

func (b *BumpMap) height(uv core.TexCoord, p mgl64.Vec3) float64 {
	return Luminance(b.Height.Evaluate(uv, p))
}
