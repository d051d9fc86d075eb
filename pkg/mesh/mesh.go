// Package mesh holds static polygon meshes produced by primitive tessellation.
package mesh

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
)

// ShadingMode tells the rendering pipeline how to interpolate normals
type ShadingMode int

const (
	// FlatShading uses one normal per face
	FlatShading ShadingMode = iota
	// SmoothShading interpolates per-vertex normals across each face
	SmoothShading
)

func (m ShadingMode) String() string {
	switch m {
	case FlatShading:
		return "flat"
	case SmoothShading:
		return "smooth"
	default:
		return fmt.Sprintf("ShadingMode(%d)", int(m))
	}
}

// Vertex is a mesh vertex with its shading normal
type Vertex struct {
	Position mgl64.Vec3
	Normal   mgl64.Vec3
}

// Face is a polygon given by vertex indices in winding order
type Face struct {
	Indices []int
}

// IsTriangle returns true for three-cornered faces
func (f Face) IsTriangle() bool {
	return len(f.Indices) == 3
}

// Mesh is a read-only vertex/face container. It is built once through a
// Builder and never mutated afterwards, so it may be shared between goroutines.
type Mesh struct {
	vertices []Vertex
	faces    []Face
	shading  ShadingMode
}

// NumVertices returns the number of vertices
func (m *Mesh) NumVertices() int {
	return len(m.vertices)
}

// NumFaces returns the number of faces
func (m *Mesh) NumFaces() int {
	return len(m.faces)
}

// Vertex returns the i-th vertex
func (m *Mesh) Vertex(i int) Vertex {
	return m.vertices[i]
}

// Face returns the i-th face. The returned index slice must not be modified.
func (m *Mesh) Face(i int) Face {
	return m.faces[i]
}

// Shading returns the shading mode selected by the mesh producer
func (m *Mesh) Shading() ShadingMode {
	return m.shading
}

// FacePositions returns the corner positions of face i in winding order
func (m *Mesh) FacePositions(i int) []mgl64.Vec3 {
	f := m.faces[i]
	pts := make([]mgl64.Vec3, len(f.Indices))
	for k, idx := range f.Indices {
		pts[k] = m.vertices[idx].Position
	}
	return pts
}

// Builder accumulates vertices and faces for a Mesh
type Builder struct {
	vertices []Vertex
	faces    []Face
	shading  ShadingMode
	built    bool
}

// NewBuilder creates a builder with preallocated capacity
func NewBuilder(numVertices, numFaces int) *Builder {
	return &Builder{
		vertices: make([]Vertex, 0, numVertices),
		faces:    make([]Face, 0, numFaces),
	}
}

// AddVertex appends a vertex and returns its index
func (b *Builder) AddVertex(position mgl64.Vec3) int {
	b.vertices = append(b.vertices, Vertex{Position: position})
	return len(b.vertices) - 1
}

// AddFace appends a triangle or quad. Indices must refer to added vertices.
func (b *Builder) AddFace(indices ...int) error {
	if len(indices) != 3 && len(indices) != 4 {
		return fmt.Errorf("face must have 3 or 4 corners, got %d", len(indices))
	}
	for _, idx := range indices {
		if idx < 0 || idx >= len(b.vertices) {
			return fmt.Errorf("face index %d out of bounds [0,%d)", idx, len(b.vertices))
		}
	}
	b.faces = append(b.faces, Face{Indices: append([]int(nil), indices...)})
	return nil
}

// SetNormals assigns every vertex normal from fn(position)
func (b *Builder) SetNormals(fn func(position mgl64.Vec3) mgl64.Vec3) {
	for i := range b.vertices {
		b.vertices[i].Normal = fn(b.vertices[i].Position)
	}
}

// SetShading selects the shading mode
func (b *Builder) SetShading(mode ShadingMode) {
	b.shading = mode
}

// Build finalizes the mesh. The builder must not be used afterwards.
func (b *Builder) Build() *Mesh {
	if b.built {
		panic("mesh: Build called twice")
	}
	b.built = true
	return &Mesh{
		vertices: b.vertices,
		faces:    b.faces,
		shading:  b.shading,
	}
}
