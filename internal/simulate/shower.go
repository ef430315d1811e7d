// Package simulate produces synthetic shower images for exercising the
// cleaning and parameterization chain without a real event source. Images
// are elliptical Gaussian light pools plus Poisson night-sky background,
// generated deterministically from an explicit seed.
package simulate

import (
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/Yun532/pylast/internal/camera"
	"github.com/Yun532/pylast/internal/event"
)

// ShowerConfig describes one synthetic shower image.
type ShowerConfig struct {
	// Centroid of the light pool in camera coordinates (meters).
	CentroidX float64
	CentroidY float64
	// Length and Width are the Gaussian sigmas along the shower axes.
	Length float64
	Width  float64
	// Psi is the major-axis orientation in radians.
	Psi float64
	// Amplitude is the peak charge at the centroid.
	Amplitude float64
	// NSBLevel is the mean Poisson night-sky background per pixel.
	NSBLevel float64
}

// Shower renders the configured shower onto the camera, adding Poisson
// night-sky background when NSBLevel is positive. The same seed always
// produces the same image.
func Shower(geom *camera.Geometry, cfg ShowerConfig, seed uint64) []float64 {
	img := make([]float64, geom.NumPixels)

	cosPsi := math.Cos(cfg.Psi)
	sinPsi := math.Sin(cfg.Psi)
	for i := 0; i < geom.NumPixels; i++ {
		dx := geom.PixX[i] - cfg.CentroidX
		dy := geom.PixY[i] - cfg.CentroidY
		long := dx*cosPsi + dy*sinPsi
		trans := -dx*sinPsi + dy*cosPsi
		arg := long*long/(2*cfg.Length*cfg.Length) + trans*trans/(2*cfg.Width*cfg.Width)
		img[i] = cfg.Amplitude * math.Exp(-arg)
	}

	if cfg.NSBLevel > 0 {
		nsb := distuv.Poisson{
			Lambda: cfg.NSBLevel,
			Src:    rand.NewPCG(seed, 0x9e3779b97f4a7c15),
		}
		for i := range img {
			img[i] += nsb.Rand()
		}
	}
	return img
}

// Source generates reproducible ArrayEvents on a shared camera, standing in
// for the out-of-scope raw event source behind the same frame records.
type Source struct {
	Geom      *camera.Geometry
	Telescope int
	NSBLevel  float64
	rng       *rand.Rand
	nextID    int64
}

// NewSource creates a deterministic synthetic event source.
func NewSource(geom *camera.Geometry, telescopes int, nsbLevel float64, seed uint64) *Source {
	return &Source{
		Geom:      geom,
		Telescope: telescopes,
		NSBLevel:  nsbLevel,
		rng:       rand.New(rand.NewPCG(seed, 0xda3e39cb94b95bdb)),
	}
}

// Next produces the next event: each telescope sees the same shower with an
// independently drawn orientation and brightness, as stereo views would.
func (s *Source) Next() *event.ArrayEvent {
	s.nextID++
	ev := &event.ArrayEvent{EventID: s.nextID}

	spanX, spanY := s.cameraSpan()
	for tel := 1; tel <= s.Telescope; tel++ {
		cfg := ShowerConfig{
			CentroidX: spanX * (0.3 + 0.4*s.rng.Float64()),
			CentroidY: spanY * (0.3 + 0.4*s.rng.Float64()),
			Length:    spanX * (0.08 + 0.08*s.rng.Float64()),
			Width:     spanX * (0.03 + 0.04*s.rng.Float64()),
			Psi:       math.Pi * (s.rng.Float64() - 0.5),
			Amplitude: 40 + 160*s.rng.Float64(),
			NSBLevel:  s.NSBLevel,
		}
		img := Shower(s.Geom, cfg, s.rng.Uint64())
		ev.Frames = append(ev.Frames, event.TelescopeFrame{TelID: tel, Image: img})
	}
	return ev
}

// Events draws n consecutive events.
func (s *Source) Events(n int) []*event.ArrayEvent {
	out := make([]*event.ArrayEvent, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, s.Next())
	}
	return out
}

func (s *Source) cameraSpan() (float64, float64) {
	var maxX, maxY float64
	for i := 0; i < s.Geom.NumPixels; i++ {
		if s.Geom.PixX[i] > maxX {
			maxX = s.Geom.PixX[i]
		}
		if s.Geom.PixY[i] > maxY {
			maxY = s.Geom.PixY[i]
		}
	}
	return maxX, maxY
}
