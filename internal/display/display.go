// Package display renders camera images as PNG plots: per-pixel charge,
// the retained signal mask, and the fitted ellipse overlay.
package display

import (
	"fmt"
	"image/color"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/Yun532/pylast/internal/camera"
	"github.com/Yun532/pylast/internal/params"
)

const ellipseSegments = 64

// CameraImage builds a plot of the charge image. Masked pixels get a ring
// outline, and a non-nil Hillas result adds its 1-sigma ellipse and centroid.
func CameraImage(geom *camera.Geometry, image []float64, mask []bool, h *params.Hillas, title string) (*plot.Plot, error) {
	if len(image) != geom.NumPixels {
		return nil, fmt.Errorf("image has %d pixels, camera has %d", len(image), geom.NumPixels)
	}

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "x (m)"
	p.Y.Label.Text = "y (m)"

	maxCharge := 0.0
	for _, q := range image {
		if q > maxCharge {
			maxCharge = q
		}
	}

	pts := make(plotter.XYs, geom.NumPixels)
	for i := 0; i < geom.NumPixels; i++ {
		pts[i].X = geom.PixX[i]
		pts[i].Y = geom.PixY[i]
	}
	pixels, err := plotter.NewScatter(pts)
	if err != nil {
		return nil, fmt.Errorf("pixel scatter: %w", err)
	}
	radius := vg.Points(4)
	pixels.GlyphStyleFunc = func(i int) draw.GlyphStyle {
		return draw.GlyphStyle{
			Color:  chargeColor(image[i], maxCharge),
			Radius: radius,
			Shape:  draw.BoxGlyph{},
		}
	}
	p.Add(pixels)

	if mask != nil {
		var maskPts plotter.XYs
		for i := 0; i < geom.NumPixels; i++ {
			if mask[i] {
				maskPts = append(maskPts, plotter.XY{X: geom.PixX[i], Y: geom.PixY[i]})
			}
		}
		if len(maskPts) > 0 {
			sel, err := plotter.NewScatter(maskPts)
			if err != nil {
				return nil, fmt.Errorf("mask scatter: %w", err)
			}
			sel.GlyphStyle = draw.GlyphStyle{
				Color:  color.RGBA{R: 255, A: 255},
				Radius: radius,
				Shape:  draw.RingGlyph{},
			}
			p.Add(sel)
			p.Legend.Add("signal", sel)
		}
	}

	if h != nil && !math.IsNaN(h.Intensity) {
		line, err := plotter.NewLine(ellipsePoints(h))
		if err != nil {
			return nil, fmt.Errorf("ellipse line: %w", err)
		}
		line.Color = color.RGBA{G: 200, B: 255, A: 255}
		line.Width = vg.Points(1.5)
		p.Add(line)
		p.Legend.Add("ellipse", line)

		centroid, err := plotter.NewScatter(plotter.XYs{{X: h.X, Y: h.Y}})
		if err != nil {
			return nil, fmt.Errorf("centroid scatter: %w", err)
		}
		centroid.GlyphStyle = draw.GlyphStyle{
			Color:  color.RGBA{G: 200, B: 255, A: 255},
			Radius: vg.Points(3),
			Shape:  draw.CrossGlyph{},
		}
		p.Add(centroid)
	}

	return p, nil
}

// SavePNG renders the camera image to a PNG file.
func SavePNG(path string, geom *camera.Geometry, image []float64, mask []bool, h *params.Hillas, title string) error {
	p, err := CameraImage(geom, image, mask, h, title)
	if err != nil {
		return err
	}
	if err := p.Save(8*vg.Inch, 8*vg.Inch, path); err != nil {
		return fmt.Errorf("save camera image %s: %w", path, err)
	}
	return nil
}

// ellipsePoints traces the 1-sigma ellipse of the moment analysis.
func ellipsePoints(h *params.Hillas) plotter.XYs {
	cosPsi := math.Cos(h.Psi)
	sinPsi := math.Sin(h.Psi)
	pts := make(plotter.XYs, ellipseSegments+1)
	for k := 0; k <= ellipseSegments; k++ {
		t := 2 * math.Pi * float64(k) / ellipseSegments
		long := h.Length * math.Cos(t)
		trans := h.Width * math.Sin(t)
		pts[k].X = h.X + long*cosPsi - trans*sinPsi
		pts[k].Y = h.Y + long*sinPsi + trans*cosPsi
	}
	return pts
}

// chargeColor maps a charge to a dark-to-yellow heat ramp.
func chargeColor(q, max float64) color.Color {
	if max <= 0 {
		return color.RGBA{R: 20, G: 20, B: 40, A: 255}
	}
	f := q / max
	if f < 0 {
		f = 0
	}
	if f > 1 {
		f = 1
	}
	return color.RGBA{
		R: uint8(20 + 235*f),
		G: uint8(20 + 180*f),
		B: uint8(40 * (1 - f)),
		A: 255,
	}
}
