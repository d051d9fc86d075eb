package config

import (
	"flag"
	"fmt"
)

// Flags holds command-line overrides. Zero values leave the config untouched.
type Flags struct {
	ConfigPath string
	Mode       string
	Debug      bool
	Width      int
	Height     int
	Longitude  int
	Latitude   int
	Texture    string
	RenderOut  string
	ExportOut  string
	SaveConfig string
}

// Modes of the command-line tool
const (
	ModeRender = "render"
	ModeExport = "export"
	ModeBoth   = "both"
)

// RegisterFlags defines the tool's flags on fs.
func RegisterFlags(fs *flag.FlagSet) *Flags {
	f := &Flags{}
	fs.StringVar(&f.ConfigPath, "config", "", "Path to YAML config file")
	fs.StringVar(&f.Mode, "mode", ModeBoth, "What to produce: render, export or both")
	fs.BoolVar(&f.Debug, "debug", false, "Enable debug logging")
	fs.IntVar(&f.Width, "width", 0, "Render width in pixels")
	fs.IntVar(&f.Height, "height", 0, "Render height in pixels")
	fs.IntVar(&f.Longitude, "du", 0, "Longitude steps")
	fs.IntVar(&f.Latitude, "dv", 0, "Latitude steps")
	fs.StringVar(&f.Texture, "texture", "", "Texture kind: solid, checker, uv, gradient or image")
	fs.StringVar(&f.RenderOut, "out", "", "Render output path; .png, .jpg, .tif or .bmp picks the format")
	fs.StringVar(&f.ExportOut, "ply", "", "PLY output path")
	fs.StringVar(&f.SaveConfig, "save-config", "", "Write the effective config as YAML to this path")
	return f
}

// Load loads configuration with priority: defaults < file < flags. When
// -save-config is set the validated result is also written there.
func Load(f *Flags) (*Config, error) {
	cfg := Default()
	if f.ConfigPath != "" {
		var err error
		if cfg, err = LoadFile(f.ConfigPath); err != nil {
			return nil, err
		}
	}

	f.apply(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	if f.SaveConfig != "" {
		if err := cfg.SaveTo(f.SaveConfig); err != nil {
			return nil, fmt.Errorf("saving config to %s: %w", f.SaveConfig, err)
		}
	}
	return cfg, nil
}

// ValidateMode checks the -mode flag.
func (f *Flags) ValidateMode() error {
	switch f.Mode {
	case ModeRender, ModeExport, ModeBoth:
		return nil
	default:
		return fmt.Errorf("unknown mode %q", f.Mode)
	}
}

// apply applies flag overrides to the config.
func (f *Flags) apply(cfg *Config) {
	if f.Debug {
		cfg.Logging.Level = "debug"
	}
	if f.Width > 0 {
		cfg.Render.Width = f.Width
	}
	if f.Height > 0 {
		cfg.Render.Height = f.Height
	}
	if f.Longitude != 0 {
		cfg.Sphere.LongitudeSteps = f.Longitude
	}
	if f.Latitude != 0 {
		cfg.Sphere.LatitudeSteps = f.Latitude
	}
	if f.Texture != "" {
		cfg.Texture.Kind = f.Texture
	}
	if f.RenderOut != "" {
		cfg.Render.Output = f.RenderOut
	}
	if f.ExportOut != "" {
		cfg.Export.Output = f.ExportOut
	}
}
