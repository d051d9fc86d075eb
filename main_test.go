package main

import (
	"bufio"
	"context"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/df07/go-uvsphere/internal/config"
	"github.com/df07/go-uvsphere/internal/imageio"
	"github.com/df07/go-uvsphere/pkg/core"
	"github.com/df07/go-uvsphere/pkg/geometry"
	"github.com/df07/go-uvsphere/pkg/mesh"
	"github.com/df07/go-uvsphere/pkg/renderer"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()
	cfg := config.Default()
	cfg.Sphere.LongitudeSteps = 8
	cfg.Sphere.LatitudeSteps = 5
	cfg.Texture.Resolution = 16
	cfg.Render.Width = 24
	cfg.Render.Height = 16
	cfg.Render.TileSize = 8
	cfg.Render.Workers = 2
	cfg.Render.Output = filepath.Join(dir, "render", "sphere.png")
	cfg.Export.Output = filepath.Join(dir, "mesh", "sphere.ply")
	require.NoError(t, cfg.Validate())
	return cfg
}

func TestCreateSurface(t *testing.T) {
	dir := t.TempDir()
	texPath := filepath.Join(dir, "tex.bmp")
	tex := image.NewRGBA(image.Rect(0, 0, 2, 2))
	for i := range tex.Pix {
		tex.Pix[i] = 255
	}
	tex.Set(0, 0, color.RGBA{255, 0, 0, 255})
	require.NoError(t, imageio.Save(tex, texPath))

	tests := []struct {
		name        string
		modify      func(*config.Config)
		expectError bool
	}{
		{"solid", func(c *config.Config) { c.Texture.Kind = config.TextureSolid; c.Sphere.Color = "gold" }, false},
		{"checker", func(c *config.Config) { c.Texture.Kind = config.TextureChecker }, false},
		{"gradient", func(c *config.Config) { c.Texture.Kind = config.TextureGradient }, false},
		{"uv", func(c *config.Config) { c.Texture.Kind = config.TextureUV }, false},
		{"image", func(c *config.Config) { c.Texture.Kind = config.TextureImage; c.Texture.Image = texPath }, false},
		{"bumped checker", func(c *config.Config) { c.Texture.BumpStrength = 0.5 }, false},
		{"missing image", func(c *config.Config) {
			c.Texture.Kind = config.TextureImage
			c.Texture.Image = filepath.Join(dir, "missing.png")
		}, true},
		{"unknown kind", func(c *config.Config) { c.Texture.Kind = "marble" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig(t)
			tt.modify(cfg)

			surface, err := createSurface(cfg)
			if tt.expectError {
				assert.Error(t, err)
				assert.Nil(t, surface)
				return
			}
			require.NoError(t, err)

			n := mgl64.Vec3{0, 0, 1}
			sample := surface.Sample(core.TexCoord{U: 0.3, V: 0.4}, n)
			for i := 0; i < 3; i++ {
				assert.GreaterOrEqual(t, sample.Albedo[i], 0.0)
				assert.LessOrEqual(t, sample.Albedo[i], 1.0)
			}
			perturbed := surface.ApplyToNormal(core.TexCoord{U: 0.3, V: 0.4}, n, mgl64.Vec3{1, 0, 0})
			assert.InDelta(t, 1.0, perturbed.Len(), 1e-9)
		})
	}
}

func TestRun_Export(t *testing.T) {
	cfg := testConfig(t)
	cfg.Export.Format = mesh.PLYFormatBinaryLittleEndian

	require.NoError(t, run(context.Background(), cfg, config.ModeExport, zap.NewNop()))

	f, err := os.Open(cfg.Export.Output)
	require.NoError(t, err)
	defer f.Close()

	header, err := mesh.ReadPLYHeader(bufio.NewReader(f))
	require.NoError(t, err)
	assert.Equal(t, mesh.PLYFormatBinaryLittleEndian, header.Format)
	assert.Equal(t, 40, header.VertexCount)
	assert.Equal(t, 40, header.FaceCount)
	assert.True(t, header.HasNormals)
	assert.True(t, header.HasTexCoords)

	_, err = os.Stat(cfg.Render.Output)
	assert.True(t, os.IsNotExist(err), "export mode should not render")
}

func TestRun_Both(t *testing.T) {
	cfg := testConfig(t)
	cfg.Render.Output = filepath.Join(filepath.Dir(cfg.Render.Output), "sphere.bmp")

	require.NoError(t, run(context.Background(), cfg, config.ModeBoth, zap.NewNop()))

	img, format, err := imageio.Open(cfg.Render.Output)
	require.NoError(t, err)
	assert.Equal(t, imageio.BMP, format)
	assert.Equal(t, image.Rect(0, 0, 24, 16), img.Bounds())

	_, err = os.Stat(cfg.Export.Output)
	assert.NoError(t, err)
}

func TestRun_Cancelled(t *testing.T) {
	cfg := testConfig(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := run(ctx, cfg, config.ModeRender, zap.NewNop())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRun_DegenerateCamera(t *testing.T) {
	for _, camera := range [][3]float64{{0, 5, 0}, {0, 0, 0}} {
		cfg := testConfig(t)
		cfg.Render.Camera = camera

		assert.ErrorIs(t, cfg.Validate(), renderer.ErrDegenerateCamera, "camera %v", camera)

		err := run(context.Background(), cfg, config.ModeRender, zap.NewNop())
		assert.ErrorIs(t, err, renderer.ErrDegenerateCamera, "camera %v", camera)
		assert.NotErrorIs(t, err, geometry.ErrDegenerateRay)
	}
}
