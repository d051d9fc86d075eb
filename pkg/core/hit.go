package core

import "github.com/go-gl/mathgl/mgl64"

// HitRecord contains information about a ray-primitive intersection
type HitRecord struct {
	T        float64        // Parameter t along the ray, may be negative
	Point    mgl64.Vec3     // Point of intersection
	Normal   mgl64.Vec3     // Shading normal at intersection
	TexCoord TexCoord       // Texture coordinate of Point
	Material MaterialSample // Material sampled at Point
}

// FrontFace reports whether the ray arrives from the side the normal points to
func (h HitRecord) FrontFace(ray Ray) bool {
	return ray.Direction.Dot(h.Normal) < 0
}

// Nearest returns the hit with the smallest T in [tMin, tMax].
// Choosing which intersections are relevant is the caller's job; primitives
// report every root.
func Nearest(hits []HitRecord, tMin, tMax float64) (HitRecord, bool) {
	var best HitRecord
	found := false
	for _, h := range hits {
		if h.T < tMin || h.T > tMax {
			continue
		}
		if !found || h.T < best.T {
			best = h
			found = true
		}
	}
	return best, found
}
