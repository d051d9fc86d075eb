package material

import (
	"image"

	"github.com/df07/go-uvsphere/pkg/core"
	"github.com/go-gl/mathgl/mgl64"
	"golang.org/x/image/draw"
)

// ImageTexture provides color from an in-memory pixel grid
type ImageTexture struct {
	Width  int
	Height int
	Pixels []mgl64.Vec3 // Row-major: Pixels[y*Width + x]
}

// NewImageTexture creates a new image texture
func NewImageTexture(width, height int, pixels []mgl64.Vec3) *ImageTexture {
	return &ImageTexture{
		Width:  width,
		Height: height,
		Pixels: pixels,
	}
}

// Evaluate samples the texture at given UV coordinates using nearest-neighbor filtering.
// V=0 is the first image row, matching the sphere's v which grows from the
// top pole towards the bottom one.
func (t *ImageTexture) Evaluate(uv core.TexCoord, point mgl64.Vec3) mgl64.Vec3 {
	u := wrapUnit(uv.U)
	v := wrapUnit(uv.V)

	x := clampIndex(int(u*float64(t.Width)), t.Width)
	y := clampIndex(int(v*float64(t.Height)), t.Height)

	return t.Pixels[y*t.Width+x]
}

// wrapUnit wraps a coordinate into [0, 1)
func wrapUnit(x float64) float64 {
	x -= float64(int(x))
	if x < 0 {
		x += 1.0
	}
	return x
}

func clampIndex(i, n int) int {
	if i >= n {
		return n - 1
	}
	if i < 0 {
		return 0
	}
	return i
}

// NewImageTextureFromImage converts a decoded image to a texture. When size is
// positive the image is first resampled to size x size.
func NewImageTextureFromImage(img image.Image, size int) *ImageTexture {
	if size > 0 {
		dst := image.NewRGBA(image.Rect(0, 0, size, size))
		draw.BiLinear.Scale(dst, dst.Bounds(), img, img.Bounds(), draw.Src, nil)
		img = dst
	}

	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	pixels := make([]mgl64.Vec3, width*height)

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			// RGBA returns uint32 in [0, 65535]
			r, g, b, _ := img.At(x+bounds.Min.X, y+bounds.Min.Y).RGBA()
			pixels[y*width+x] = mgl64.Vec3{
				float64(r) / 65535.0,
				float64(g) / 65535.0,
				float64(b) / 65535.0,
			}
		}
	}

	return NewImageTexture(width, height, pixels)
}
