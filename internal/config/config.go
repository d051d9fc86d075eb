// Package config handles configuration loading for the uvsphere tool.
package config

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/df07/go-uvsphere/internal/imageio"
	"github.com/df07/go-uvsphere/pkg/geometry"
	"github.com/df07/go-uvsphere/pkg/material"
	"github.com/df07/go-uvsphere/pkg/mesh"
	"github.com/df07/go-uvsphere/pkg/renderer"
	"github.com/go-gl/mathgl/mgl64"
)

// Config holds all tool settings.
type Config struct {
	Sphere  SphereConfig  `yaml:"sphere"`
	Texture TextureConfig `yaml:"texture"`
	Render  RenderConfig  `yaml:"render"`
	Export  ExportConfig  `yaml:"export"`
	Logging LoggingConfig `yaml:"logging"`
}

// SphereConfig holds tessellation settings.
type SphereConfig struct {
	LongitudeSteps int    `yaml:"longitude_steps"`
	LatitudeSteps  int    `yaml:"latitude_steps"`
	Color          string `yaml:"color"` // SVG color name, used by the solid texture
}

// TextureConfig selects the surface applied to the sphere.
type TextureConfig struct {
	Kind         string    `yaml:"kind"` // solid, checker, uv, gradient or image
	Colors       [2]string `yaml:"colors"`
	Checks       int       `yaml:"checks"`
	Resolution   int       `yaml:"resolution"`
	Image        string    `yaml:"image"`
	BumpStrength float64   `yaml:"bump_strength"`
}

// RenderConfig holds ray tracing output settings.
type RenderConfig struct {
	Width    int        `yaml:"width"`
	Height   int        `yaml:"height"`
	TileSize int        `yaml:"tile_size"`
	Workers  int        `yaml:"workers"`
	Camera   [3]float64 `yaml:"camera"`
	LookAt   [3]float64 `yaml:"look_at"`
	VFov     float64    `yaml:"vfov"`
	Light    [3]float64 `yaml:"light"`
	Ambient  float64    `yaml:"ambient"`
	Output   string     `yaml:"output"`
}

// CameraConfig returns the renderer camera described by these settings.
// Up is always +y.
func (r RenderConfig) CameraConfig() renderer.CameraConfig {
	return renderer.CameraConfig{
		Position:    vec3(r.Camera),
		LookAt:      vec3(r.LookAt),
		Up:          mgl64.Vec3{0, 1, 0},
		VFov:        r.VFov,
		AspectRatio: float64(r.Width) / float64(r.Height),
	}
}

func vec3(v [3]float64) mgl64.Vec3 {
	return mgl64.Vec3{v[0], v[1], v[2]}
}

// ExportConfig holds mesh export settings.
type ExportConfig struct {
	Output    string `yaml:"output"`
	Format    string `yaml:"format"` // ascii or binary_little_endian
	TexCoords bool   `yaml:"tex_coords"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Texture kinds
const (
	TextureSolid    = "solid"
	TextureChecker  = "checker"
	TextureUV       = "uv"
	TextureGradient = "gradient"
	TextureImage    = "image"
)

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Sphere: SphereConfig{
			LongitudeSteps: geometry.DefaultLongitudeSteps,
			LatitudeSteps:  geometry.DefaultLatitudeSteps,
			Color:          "white",
		},
		Texture: TextureConfig{
			Kind:       TextureChecker,
			Colors:     [2]string{"white", "slategray"},
			Checks:     8,
			Resolution: 256,
		},
		Render: RenderConfig{
			Width:    400,
			Height:   300,
			TileSize: 32,
			Workers:  0,
			Camera:   [3]float64{0, 1, 4},
			VFov:     40,
			Light:    [3]float64{1, 1, 1},
			Ambient:  0.1,
			Output:   "output/sphere.png",
		},
		Export: ExportConfig{
			Output:    "output/sphere.ply",
			Format:    mesh.PLYFormatASCII,
			TexCoords: true,
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}

// Validate checks settings that would otherwise fail deep inside a build or render.
func (c *Config) Validate() error {
	var errs []error

	if c.Sphere.LongitudeSteps < geometry.MinLongitudeSteps {
		errs = append(errs, fmt.Errorf("sphere.longitude_steps must be at least %d, got %d",
			geometry.MinLongitudeSteps, c.Sphere.LongitudeSteps))
	}
	if c.Sphere.LatitudeSteps < geometry.MinLatitudeSteps {
		errs = append(errs, fmt.Errorf("sphere.latitude_steps must be at least %d, got %d",
			geometry.MinLatitudeSteps, c.Sphere.LatitudeSteps))
	}

	if _, err := material.NamedColor(c.Sphere.Color); err != nil {
		errs = append(errs, fmt.Errorf("sphere.color: %w", err))
	}

	switch c.Texture.Kind {
	case TextureSolid, TextureUV:
	case TextureChecker, TextureGradient:
		for i, name := range c.Texture.Colors {
			if _, err := material.NamedColor(name); err != nil {
				errs = append(errs, fmt.Errorf("texture.colors[%d]: %w", i, err))
			}
		}
		if c.Texture.Kind == TextureChecker && c.Texture.Checks <= 0 {
			errs = append(errs, fmt.Errorf("texture.checks must be positive, got %d", c.Texture.Checks))
		}
	case TextureImage:
		if c.Texture.Image == "" {
			errs = append(errs, errors.New("texture.image is required for the image texture"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown texture.kind %q", c.Texture.Kind))
	}
	if c.Texture.Resolution <= 0 {
		errs = append(errs, fmt.Errorf("texture.resolution must be positive, got %d", c.Texture.Resolution))
	}

	if c.Render.Width <= 0 || c.Render.Height <= 0 {
		errs = append(errs, fmt.Errorf("render size must be positive, got %dx%d", c.Render.Width, c.Render.Height))
	}
	if c.Render.VFov <= 0 || c.Render.VFov >= 180 {
		errs = append(errs, fmt.Errorf("render.vfov must be in (0,180), got %g", c.Render.VFov))
	} else if c.Render.Width > 0 && c.Render.Height > 0 {
		if err := c.Render.CameraConfig().Validate(); err != nil {
			errs = append(errs, fmt.Errorf("render.camera: %w", err))
		}
	}

	if _, err := imageio.ExtToFormat(filepath.Ext(c.Render.Output)); err != nil {
		errs = append(errs, fmt.Errorf("render.output: %w", err))
	}

	if c.Export.Format != mesh.PLYFormatASCII && c.Export.Format != mesh.PLYFormatBinaryLittleEndian {
		errs = append(errs, fmt.Errorf("unknown export.format %q", c.Export.Format))
	}

	return errors.Join(errs...)
}
