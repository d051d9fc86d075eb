// Package imageio reads and writes raster images in the formats the tool
// accepts for textures and render output.
package imageio

import (
	"bufio"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// Format is an image encoding
type Format int

const (
	None Format = iota
	PNG
	JPEG
	TIFF
	BMP
	WebP
)

func (f Format) String() string {
	switch f {
	case PNG:
		return "png"
	case JPEG:
		return "jpeg"
	case TIFF:
		return "tiff"
	case BMP:
		return "bmp"
	case WebP:
		return "webp"
	default:
		return "none"
	}
}

// ErrUnsupportedFormat is returned when a format can be decoded but not encoded
var ErrUnsupportedFormat = errors.New("unsupported image format")

// ExtToFormat returns the Format for a filename extension, with or without
// the leading dot.
func ExtToFormat(ext string) (Format, error) {
	if len(ext) == 0 {
		return None, errors.New("image extension is empty")
	}
	ext = strings.ToLower(strings.TrimPrefix(ext, "."))
	switch ext {
	case "png":
		return PNG, nil
	case "jpg", "jpeg":
		return JPEG, nil
	case "tif", "tiff":
		return TIFF, nil
	case "bmp":
		return BMP, nil
	case "webp":
		return WebP, nil
	}
	return None, fmt.Errorf("image extension %q not recognized", ext)
}

// Open decodes the image at filename. The format is detected from the data.
func Open(filename string) (image.Image, Format, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, None, fmt.Errorf("failed to open image file: %w", err)
	}
	defer file.Close()
	return Read(file)
}

// Read decodes an image from r
func Read(r io.Reader) (image.Image, Format, error) {
	img, name, err := image.Decode(r)
	if err != nil {
		return nil, None, fmt.Errorf("failed to decode image: %w", err)
	}
	f, err := ExtToFormat(name)
	return img, f, err
}

// Save writes img to filename in the format implied by its extension,
// creating parent directories as needed.
func Save(img image.Image, filename string) error {
	f, err := ExtToFormat(filepath.Ext(filename))
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(filename), 0755); err != nil {
		return err
	}
	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer file.Close()

	bw := bufio.NewWriter(file)
	if err := Write(img, bw, f); err != nil {
		return err
	}
	return bw.Flush()
}

// Write encodes img to w. WebP can only be decoded.
func Write(img image.Image, w io.Writer, f Format) error {
	switch f {
	case PNG:
		return png.Encode(w, img)
	case JPEG:
		return jpeg.Encode(w, img, &jpeg.Options{Quality: 90})
	case TIFF:
		return tiff.Encode(w, img, nil)
	case BMP:
		return bmp.Encode(w, img)
	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedFormat, f)
	}
}
