package renderer

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"math"
	"time"

	"github.com/df07/go-uvsphere/pkg/core"
	"github.com/df07/go-uvsphere/pkg/geometry"
	"github.com/df07/go-uvsphere/pkg/material"
	"github.com/go-gl/mathgl/mgl64"
)

const (
	DefaultTileSize = 32
	defaultTMin     = 1e-6
)

// Config contains rendering configuration
type Config struct {
	Width      int
	Height     int
	TileSize   int        // Tile edge in pixels, 0 for DefaultTileSize
	NumWorkers int        // Worker goroutines, 0 for one per CPU
	LightDir   mgl64.Vec3 // Direction towards the light
	Ambient    float64    // Ambient light added to every hit
	Background mgl64.Vec3 // Color for rays that miss
	TMin       float64    // Hits closer than this are ignored, 0 for default
}

// DefaultConfig returns sensible default values
func DefaultConfig(width, height int) Config {
	return Config{
		Width:      width,
		Height:     height,
		TileSize:   DefaultTileSize,
		LightDir:   mgl64.Vec3{1, 1, 1},
		Ambient:    0.1,
		Background: mgl64.Vec3{0.05, 0.05, 0.08},
	}
}

// hitBufferTracer is implemented by primitives that can append into a
// caller-owned hit buffer
type hitBufferTracer interface {
	TraceLocalInto(ray core.Ray, dst []core.HitRecord) ([]core.HitRecord, error)
}

// Raytracer casts one primary ray per pixel at a primitive and shades the
// nearest hit in front of the camera with a single directional light.
// A Raytracer is safe for concurrent use; each caller passes its own hit buffer.
type Raytracer struct {
	primitive geometry.Primitive
	camera    *Camera
	config    Config
	logger    core.Logger
}

// NewRaytracer creates a new raytracer
func NewRaytracer(primitive geometry.Primitive, camera *Camera, config Config, logger core.Logger) *Raytracer {
	if config.TileSize <= 0 {
		config.TileSize = DefaultTileSize
	}
	if config.TMin <= 0 {
		config.TMin = defaultTMin
	}
	if logger == nil {
		logger = core.NopLogger()
	}
	return &Raytracer{
		primitive: primitive,
		camera:    camera,
		config:    config,
		logger:    logger,
	}
}

// trace returns every intersection of ray, reusing buf when the primitive allows
func (rt *Raytracer) trace(ray core.Ray, buf []core.HitRecord) ([]core.HitRecord, error) {
	if bt, ok := rt.primitive.(hitBufferTracer); ok {
		return bt.TraceLocalInto(ray, buf[:0])
	}
	return rt.primitive.TraceLocal(ray)
}

// RayColor returns the shaded color for a ray and whether it hit the primitive.
// The returned buffer should be passed to the next call.
func (rt *Raytracer) RayColor(ray core.Ray, buf []core.HitRecord) (mgl64.Vec3, bool, []core.HitRecord, error) {
	hits, err := rt.trace(ray, buf)
	if err != nil {
		return rt.config.Background, false, hits, err
	}

	// Primitives report roots behind the origin too; keep the nearest one ahead
	hit, ok := core.Nearest(hits, rt.config.TMin, math.Inf(1))
	if !ok {
		return rt.config.Background, false, hits, nil
	}

	normal := hit.Normal
	if !hit.FrontFace(ray) {
		normal = normal.Mul(-1)
	}

	// BRDF already carries 1/π; scale so a head-on light gives the albedo
	direct := material.EvaluateBRDF(hit.Material, normal, rt.config.LightDir).Mul(math.Pi)
	ambient := hit.Material.Albedo.Mul(rt.config.Ambient)
	return direct.Add(ambient), true, hits, nil
}

// RenderBounds renders pixels within bounds into img. Tiles never overlap, so
// concurrent calls with disjoint bounds may share img.
func (rt *Raytracer) RenderBounds(bounds image.Rectangle, img *image.RGBA) (RenderStats, error) {
	stats := RenderStats{TotalPixels: bounds.Dx() * bounds.Dy()}
	buf := make([]core.HitRecord, 0, 2)

	for j := bounds.Min.Y; j < bounds.Max.Y; j++ {
		for i := bounds.Min.X; i < bounds.Max.X; i++ {
			// Pixel centers; image rows run top to bottom
			s := (float64(i) + 0.5) / float64(rt.config.Width)
			t := 1 - (float64(j)+0.5)/float64(rt.config.Height)
			ray := rt.camera.GetRay(s, t)

			var c mgl64.Vec3
			var hit bool
			var err error
			c, hit, buf, err = rt.RayColor(ray, buf)
			if err != nil {
				return stats, fmt.Errorf("pixel (%d,%d): %w", i, j, err)
			}

			stats.RaysCast++
			stats.HitRecords += len(buf)
			if hit {
				stats.HitPixels++
			}
			img.SetRGBA(i, j, toRGBA(c))
		}
	}

	return stats, nil
}

// Render renders the full image using a worker pool
func (rt *Raytracer) Render(ctx context.Context) (*image.RGBA, RenderStats, error) {
	start := time.Now()
	img := image.NewRGBA(image.Rect(0, 0, rt.config.Width, rt.config.Height))
	tiles := NewTileGrid(rt.config.Width, rt.config.Height, rt.config.TileSize)

	pool := NewWorkerPool(rt, img, len(tiles), rt.config.NumWorkers)
	pool.Start(ctx)
	rt.logger.Debugf("rendering %dx%d in %d tiles with %d workers",
		rt.config.Width, rt.config.Height, len(tiles), pool.GetNumWorkers())

	for _, tile := range tiles {
		pool.SubmitTask(TileTask{Tile: tile, TaskID: tile.ID})
	}
	pool.Stop()

	var stats RenderStats
	var firstErr error
	for {
		result, ok := pool.GetResult()
		if !ok {
			break
		}
		stats.Merge(result.Stats)
		if result.Error != nil && firstErr == nil {
			firstErr = result.Error
		}
	}
	if firstErr != nil {
		return img, stats, firstErr
	}

	rt.logger.Infof("render completed in %v: %s", time.Since(start), stats)
	return img, stats, nil
}

// toRGBA gamma-corrects and clamps a linear color
func toRGBA(c mgl64.Vec3) color.RGBA {
	channel := func(x float64) uint8 {
		x = math.Sqrt(math.Max(0, math.Min(1, x))) // gamma 2
		return uint8(math.Round(255 * x))
	}
	return color.RGBA{R: channel(c.X()), G: channel(c.Y()), B: channel(c.Z()), A: 255}
}
