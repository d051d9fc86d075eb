package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/df07/go-uvsphere/internal/config"
	"github.com/df07/go-uvsphere/internal/imageio"
	"github.com/df07/go-uvsphere/internal/logger"
	"github.com/df07/go-uvsphere/pkg/core"
	"github.com/df07/go-uvsphere/pkg/geometry"
	"github.com/df07/go-uvsphere/pkg/material"
	"github.com/df07/go-uvsphere/pkg/mesh"
	"github.com/df07/go-uvsphere/pkg/renderer"
	"github.com/go-gl/mathgl/mgl64"
	"go.uber.org/zap"
)

func main() {
	fs := flag.NewFlagSet("uvsphere", flag.ExitOnError)
	flags := config.RegisterFlags(fs)
	help := fs.Bool("help", false, "Show help information")
	_ = fs.Parse(os.Args[1:])

	if *help {
		fmt.Println("UV Sphere")
		fmt.Println("Usage: uvsphere [options]")
		fmt.Println()
		fmt.Println("Tessellates a unit sphere, exports it as PLY and ray traces it.")
		fmt.Println()
		fmt.Println("Options:")
		fs.PrintDefaults()
		fmt.Println()
		fmt.Println("Textures: solid, checker, uv, gradient, image")
		fmt.Println("Render output format follows the file extension: png, jpg, tiff or bmp")
		fmt.Println("Use -save-config to write the effective settings as a starting config file")
		return
	}

	if err := flags.ValidateMode(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}

	cfg, err := config.Load(flags)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.NewConsole(cfg.Logging.Level, cfg.Logging.LogFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()
	if flags.SaveConfig != "" {
		log.Info("effective config saved", zap.String("path", flags.SaveConfig))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, cfg, flags.Mode, log); err != nil {
		log.Error("uvsphere failed", zap.Error(err))
		_ = log.Sync()
		os.Exit(1)
	}
}

// run builds the sphere once and produces the outputs selected by mode
func run(ctx context.Context, cfg *config.Config, mode string, log *zap.Logger) error {
	sugar := log.Sugar()

	surface, err := createSurface(cfg)
	if err != nil {
		return err
	}

	start := time.Now()
	sphere, err := geometry.NewSphere(cfg.Sphere.LongitudeSteps, cfg.Sphere.LatitudeSteps,
		geometry.WithSurface(surface), geometry.WithLogger(sugar))
	if err != nil {
		return err
	}
	log.Info("sphere built",
		zap.Int("longitude_steps", cfg.Sphere.LongitudeSteps),
		zap.Int("latitude_steps", cfg.Sphere.LatitudeSteps),
		zap.Int("vertices", sphere.Mesh().NumVertices()),
		zap.Int("faces", sphere.Mesh().NumFaces()),
		zap.Duration("elapsed", time.Since(start)))

	if mode == config.ModeExport || mode == config.ModeBoth {
		if err := exportMesh(sphere.Mesh(), cfg.Export); err != nil {
			return fmt.Errorf("export failed: %w", err)
		}
		log.Info("mesh exported", zap.String("path", cfg.Export.Output), zap.String("format", cfg.Export.Format))
	}

	if mode == config.ModeRender || mode == config.ModeBoth {
		if err := renderSphere(ctx, sphere, cfg.Render, sugar); err != nil {
			return fmt.Errorf("render failed: %w", err)
		}
		log.Info("render saved", zap.String("path", cfg.Render.Output))
	}

	return nil
}

// createSurface builds the sphere material from the texture settings
func createSurface(cfg *config.Config) (core.Surface, error) {
	tc := cfg.Texture

	var albedo material.ColorSource
	switch tc.Kind {
	case config.TextureSolid:
		c, err := material.NamedColor(cfg.Sphere.Color)
		if err != nil {
			return nil, err
		}
		albedo = material.NewSolidColor(c)
	case config.TextureChecker, config.TextureGradient:
		c1, err := material.NamedColor(tc.Colors[0])
		if err != nil {
			return nil, err
		}
		c2, err := material.NamedColor(tc.Colors[1])
		if err != nil {
			return nil, err
		}
		if tc.Kind == config.TextureChecker {
			// Twice as many checks around the equator as from pole to pole
			albedo = material.NewCheckerboardTexture(2*tc.Resolution, tc.Resolution,
				max(1, tc.Resolution/tc.Checks), c1, c2)
		} else {
			albedo = material.NewGradientTexture(tc.Resolution, tc.Resolution, c1, c2)
		}
	case config.TextureUV:
		albedo = material.NewUVDebugTexture(tc.Resolution, tc.Resolution)
	case config.TextureImage:
		img, _, err := imageio.Open(tc.Image)
		if err != nil {
			return nil, fmt.Errorf("texture %s: %w", tc.Image, err)
		}
		albedo = material.NewImageTextureFromImage(img, tc.Resolution)
	default:
		return nil, fmt.Errorf("unknown texture kind %q", tc.Kind)
	}

	surface := material.NewTexturedLambertian(albedo)
	if tc.BumpStrength != 0 {
		surface = surface.WithBump(material.NewBumpMap(albedo, tc.BumpStrength))
	}
	return surface, nil
}

// exportMesh writes the tessellation to a PLY file
func exportMesh(m *mesh.Mesh, ec config.ExportConfig) error {
	if err := os.MkdirAll(filepath.Dir(ec.Output), 0755); err != nil {
		return err
	}
	file, err := os.Create(ec.Output)
	if err != nil {
		return err
	}
	defer file.Close()

	opts := mesh.PLYOptions{
		Format:  ec.Format,
		Comment: "unit uv sphere",
	}
	if ec.TexCoords {
		opts.TexCoord = geometry.SphereTextureCoord
	}
	if err := mesh.WritePLY(file, m, opts); err != nil {
		return err
	}
	return file.Close()
}

// renderSphere ray traces the sphere and saves the image
func renderSphere(ctx context.Context, sphere *geometry.Sphere, rc config.RenderConfig, log core.Logger) error {
	camera, err := renderer.NewCamera(rc.CameraConfig())
	if err != nil {
		return err
	}

	rtConfig := renderer.DefaultConfig(rc.Width, rc.Height)
	rtConfig.TileSize = rc.TileSize
	rtConfig.NumWorkers = rc.Workers
	rtConfig.LightDir = mgl64.Vec3{rc.Light[0], rc.Light[1], rc.Light[2]}
	rtConfig.Ambient = rc.Ambient

	rt := renderer.NewRaytracer(sphere, camera, rtConfig, log)
	img, _, err := rt.Render(ctx)
	if err != nil {
		return err
	}
	return imageio.Save(img, rc.Output)
}
