package mesh

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/df07/go-uvsphere/pkg/core"
	"github.com/go-gl/mathgl/mgl64"
)

// PLY formats supported by WritePLY
const (
	PLYFormatASCII              = "ascii"
	PLYFormatBinaryLittleEndian = "binary_little_endian"
)

// PLYOptions controls mesh export
type PLYOptions struct {
	Format  string // PLYFormatASCII or PLYFormatBinaryLittleEndian; empty means ASCII
	Comment string // Optional header comment

	// TexCoord, when set, adds per-vertex u and v properties computed from
	// each vertex position.
	TexCoord func(p mgl64.Vec3) core.TexCoord
}

// PLYHeader represents the parsed header information from a PLY file
type PLYHeader struct {
	Format      string // "binary_little_endian", "binary_big_endian", or "ascii"
	Version     string // Usually "1.0"
	VertexCount int
	FaceCount   int
	VertexProps []PLYProperty
	FaceProps   []PLYProperty

	HasNormals   bool
	HasTexCoords bool
}

// PLYProperty represents a property definition in the PLY header
type PLYProperty struct {
	Name     string
	Type     string
	IsList   bool
	ListType string // For list properties, the type of the count
	DataType string // For list properties, the type of the data
}

// WritePLY writes the mesh as a PLY file with positions, normals, optional
// texture coordinates and variable-length face index lists.
func WritePLY(w io.Writer, m *Mesh, opts PLYOptions) error {
	format := opts.Format
	if format == "" {
		format = PLYFormatASCII
	}
	if format != PLYFormatASCII && format != PLYFormatBinaryLittleEndian {
		return fmt.Errorf("unsupported PLY format: %s", format)
	}

	bw := bufio.NewWriter(w)
	writeHeader(bw, m, format, opts)

	var err error
	if format == PLYFormatASCII {
		err = writeASCIIBody(bw, m, opts)
	} else {
		err = writeBinaryBody(bw, m, opts)
	}
	if err != nil {
		return fmt.Errorf("failed to write PLY body: %w", err)
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("failed to flush PLY data: %w", err)
	}
	return nil
}

func writeHeader(w *bufio.Writer, m *Mesh, format string, opts PLYOptions) {
	fmt.Fprintln(w, "ply")
	fmt.Fprintf(w, "format %s 1.0\n", format)
	if opts.Comment != "" {
		fmt.Fprintf(w, "comment %s\n", opts.Comment)
	}
	fmt.Fprintf(w, "comment shading %s\n", m.Shading())
	fmt.Fprintf(w, "element vertex %d\n", m.NumVertices())
	for _, name := range []string{"x", "y", "z", "nx", "ny", "nz"} {
		fmt.Fprintf(w, "property float %s\n", name)
	}
	if opts.TexCoord != nil {
		fmt.Fprintln(w, "property float u")
		fmt.Fprintln(w, "property float v")
	}
	fmt.Fprintf(w, "element face %d\n", m.NumFaces())
	fmt.Fprintln(w, "property list uchar int vertex_indices")
	fmt.Fprintln(w, "end_header")
}

func writeASCIIBody(w *bufio.Writer, m *Mesh, opts PLYOptions) error {
	for i := 0; i < m.NumVertices(); i++ {
		v := m.Vertex(i)
		line := fmt.Sprintf("%g %g %g %g %g %g",
			v.Position.X(), v.Position.Y(), v.Position.Z(),
			v.Normal.X(), v.Normal.Y(), v.Normal.Z())
		if opts.TexCoord != nil {
			uv := opts.TexCoord(v.Position)
			line += fmt.Sprintf(" %g %g", uv.U, uv.V)
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}

	for i := 0; i < m.NumFaces(); i++ {
		f := m.Face(i)
		parts := make([]string, 0, len(f.Indices)+1)
		parts = append(parts, strconv.Itoa(len(f.Indices)))
		for _, idx := range f.Indices {
			parts = append(parts, strconv.Itoa(idx))
		}
		if _, err := fmt.Fprintln(w, strings.Join(parts, " ")); err != nil {
			return err
		}
	}
	return nil
}

func writeBinaryBody(w *bufio.Writer, m *Mesh, opts PLYOptions) error {
	for i := 0; i < m.NumVertices(); i++ {
		v := m.Vertex(i)
		vals := []float32{
			float32(v.Position.X()), float32(v.Position.Y()), float32(v.Position.Z()),
			float32(v.Normal.X()), float32(v.Normal.Y()), float32(v.Normal.Z()),
		}
		if opts.TexCoord != nil {
			uv := opts.TexCoord(v.Position)
			vals = append(vals, float32(uv.U), float32(uv.V))
		}
		if err := binary.Write(w, binary.LittleEndian, vals); err != nil {
			return err
		}
	}

	for i := 0; i < m.NumFaces(); i++ {
		f := m.Face(i)
		if err := w.WriteByte(uint8(len(f.Indices))); err != nil {
			return err
		}
		for _, idx := range f.Indices {
			if err := binary.Write(w, binary.LittleEndian, int32(idx)); err != nil {
				return err
			}
		}
	}
	return nil
}

// ReadPLYHeader parses a PLY header up to and including end_header
func ReadPLYHeader(r io.Reader) (*PLYHeader, error) {
	header := &PLYHeader{
		VertexProps: make([]PLYProperty, 0),
		FaceProps:   make([]PLYProperty, 0),
	}

	scanner := bufio.NewScanner(r)
	var currentElement string
	first := true
	ended := false

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if first {
			if line != "ply" {
				return nil, fmt.Errorf("missing PLY magic number")
			}
			first = false
			continue
		}
		if line == "end_header" {
			ended = true
			break
		}

		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}

		switch parts[0] {
		case "format":
			if len(parts) >= 3 {
				header.Format = parts[1]
				header.Version = parts[2]
			}
		case "comment":
			// Ignore comments
		case "element":
			if len(parts) >= 3 {
				count, err := strconv.Atoi(parts[2])
				if err != nil {
					return nil, fmt.Errorf("invalid element count: %s", parts[2])
				}

				currentElement = parts[1]
				switch currentElement {
				case "vertex":
					header.VertexCount = count
				case "face":
					header.FaceCount = count
				}
			}
		case "property":
			prop, err := parsePLYProperty(parts[1:])
			if err != nil {
				return nil, fmt.Errorf("failed to parse property: %w", err)
			}

			switch currentElement {
			case "vertex":
				header.VertexProps = append(header.VertexProps, prop)
				switch prop.Name {
				case "nx", "ny", "nz":
					header.HasNormals = true
				case "u", "v", "s", "t", "texture_u", "texture_v":
					header.HasTexCoords = true
				}
			case "face":
				header.FaceProps = append(header.FaceProps, prop)
			}
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading header: %w", err)
	}
	if first {
		return nil, fmt.Errorf("empty PLY input")
	}
	if !ended {
		return nil, fmt.Errorf("PLY header has no end_header")
	}

	return header, nil
}

// parsePLYProperty parses a property line from the PLY header
func parsePLYProperty(parts []string) (PLYProperty, error) {
	if len(parts) < 2 {
		return PLYProperty{}, fmt.Errorf("invalid property definition")
	}

	prop := PLYProperty{}

	if parts[0] == "list" {
		if len(parts) < 4 {
			return PLYProperty{}, fmt.Errorf("invalid list property definition")
		}
		prop.IsList = true
		prop.ListType = parts[1]
		prop.DataType = parts[2]
		prop.Name = parts[3]
	} else {
		prop.Type = parts[0]
		prop.Name = parts[1]
	}

	return prop, nil
}
