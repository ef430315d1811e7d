package params

import (
	"math"

	"github.com/Yun532/pylast/internal/camera"
)

// ConcentrationParameters relates the charge in three information-dense pixel
// subsets to the total retained intensity: the single brightest pixel, the
// one or two retained pixels nearest the centroid, and the pixels inside the
// fitted Hillas ellipse. All ratios are NaN when the Hillas fit itself is
// undefined (zero intensity).
func ConcentrationParameters(geom *camera.Geometry, image []float64, mask []bool, h Hillas) Concentration {
	if math.IsNaN(h.Intensity) || h.Intensity == 0 {
		return nanConcentration()
	}

	cosPsi := math.Cos(h.Psi)
	sinPsi := math.Sin(h.Psi)

	// Nearest-two bookkeeping: distances to the centroid, ties broken by
	// pixel index for determinism.
	best1, best2 := -1, -1
	dist1, dist2 := math.Inf(1), math.Inf(1)

	var maxCharge, coreCharge float64
	for i := 0; i < geom.NumPixels; i++ {
		if !mask[i] {
			continue
		}
		w := image[i]
		if w > maxCharge {
			maxCharge = w
		}

		dx := geom.PixX[i] - h.X
		dy := geom.PixY[i] - h.Y

		d := math.Hypot(dx, dy)
		if d < dist1 {
			best2, dist2 = best1, dist1
			best1, dist1 = i, d
		} else if d < dist2 {
			best2, dist2 = i, d
		}

		// Ellipse interior test in the principal frame. A zero-width axis
		// only admits pixels with no transverse offset.
		long := dx*cosPsi + dy*sinPsi
		trans := -dx*sinPsi + dy*cosPsi
		if insideEllipse(long, trans, h.Length, h.Width) {
			coreCharge += w
		}
	}

	cogCharge := 0.0
	if best1 >= 0 {
		cogCharge += image[best1]
	}
	if best2 >= 0 {
		cogCharge += image[best2]
	}

	return Concentration{
		Cog:   cogCharge / h.Intensity,
		Core:  coreCharge / h.Intensity,
		Pixel: maxCharge / h.Intensity,
	}
}

// insideEllipse reports whether the point (long, trans) in the principal
// frame lies within the axis-aligned ellipse of the given semi-axes. A zero
// semi-axis degenerates to requiring a zero offset along that axis.
func insideEllipse(long, trans, length, width float64) bool {
	var sum float64
	switch {
	case length > 0:
		sum += (long / length) * (long / length)
	case long != 0:
		return false
	}
	switch {
	case width > 0:
		sum += (trans / width) * (trans / width)
	case trans != 0:
		return false
	}
	return sum <= 1
}
