package renderer

import "fmt"

// RenderStats contains statistics about the rendering process
type RenderStats struct {
	TotalPixels int // Pixels rendered
	HitPixels   int // Pixels whose ray reached the primitive
	RaysCast    int // Primary rays traced
	HitRecords  int // Hit records returned, including those behind the camera
}

// Merge adds other into s
func (s *RenderStats) Merge(other RenderStats) {
	s.TotalPixels += other.TotalPixels
	s.HitPixels += other.HitPixels
	s.RaysCast += other.RaysCast
	s.HitRecords += other.HitRecords
}

// Coverage returns the fraction of pixels that hit the primitive
func (s RenderStats) Coverage() float64 {
	if s.TotalPixels == 0 {
		return 0
	}
	return float64(s.HitPixels) / float64(s.TotalPixels)
}

func (s RenderStats) String() string {
	return fmt.Sprintf("%d pixels, %d hit (%.1f%%), %d rays, %d hit records",
		s.TotalPixels, s.HitPixels, 100*s.Coverage(), s.RaysCast, s.HitRecords)
}
