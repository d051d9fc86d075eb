package core

import "github.com/go-gl/mathgl/mgl64"

// Logger interface for primitive and renderer logging.
// *zap.SugaredLogger satisfies it.
type Logger interface {
	Debugf(template string, args ...interface{})
	Infof(template string, args ...interface{})
}

// TexCoord is a 2D texture coordinate. U runs around the polar axis, V from
// one pole to the other.
type TexCoord struct {
	U, V float64
}

// MaterialSample is the material data resolved at a single surface point.
type MaterialSample struct {
	Albedo mgl64.Vec3 // Diffuse reflectance in [0,1]
}

// Surface resolves material data and normal perturbation for points on a
// primitive. Implementations must be safe for concurrent use.
type Surface interface {
	// Sample returns the material at texture coordinate uv and local point p.
	Sample(uv TexCoord, p mgl64.Vec3) MaterialSample

	// ApplyToNormal returns the shading normal for the geometric normal at uv.
	// tangent is the primitive's U-basis direction at the same point.
	ApplyToNormal(uv TexCoord, normal, tangent mgl64.Vec3) mgl64.Vec3
}

// nopLogger discards everything
type nopLogger struct{}

func (nopLogger) Debugf(string, ...interface{}) {}
func (nopLogger) Infof(string, ...interface{})  {}

// NopLogger returns a Logger that drops all messages.
func NopLogger() Logger {
	return nopLogger{}
}
