package mesh

import "github.com/go-gl/mathgl/mgl64"

// FaceNormal returns the unnormalized Newell normal of face i. Its length is
// twice the polygon area, so collapsed faces return a near-zero vector.
func (m *Mesh) FaceNormal(i int) mgl64.Vec3 {
	pts := m.FacePositions(i)
	var n mgl64.Vec3
	for k := range pts {
		cur := pts[k]
		next := pts[(k+1)%len(pts)]
		n[0] += (cur.Y() - next.Y()) * (cur.Z() + next.Z())
		n[1] += (cur.Z() - next.Z()) * (cur.X() + next.X())
		n[2] += (cur.X() - next.X()) * (cur.Y() + next.Y())
	}
	return n
}

// FaceCentroid returns the average of the face corners
func (m *Mesh) FaceCentroid(i int) mgl64.Vec3 {
	pts := m.FacePositions(i)
	var c mgl64.Vec3
	for _, p := range pts {
		c = c.Add(p)
	}
	return c.Mul(1.0 / float64(len(pts)))
}
