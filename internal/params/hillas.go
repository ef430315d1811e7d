package params

import (
	"math"

	"github.com/Yun532/pylast/internal/camera"
)

// HillasParameters computes the weighted moment ellipse of the retained
// pixels. Weights are the pixel charges; pixels outside the mask contribute
// nothing. The 2×2 covariance eigenproblem is solved in closed form (the
// quadratic formula), not with a general eigensolver, so results are
// bit-reproducible across platforms and runs.
func HillasParameters(geom *camera.Geometry, image []float64, mask []bool) Hillas {
	var sumW, sumWX, sumWY float64
	for i := 0; i < geom.NumPixels; i++ {
		if !mask[i] {
			continue
		}
		w := image[i]
		sumW += w
		sumWX += w * geom.PixX[i]
		sumWY += w * geom.PixY[i]
	}
	if sumW == 0 {
		return nanHillas()
	}

	meanX := sumWX / sumW
	meanY := sumWY / sumW

	// Weighted central second moments, population-normalized by the total
	// intensity.
	var sxx, sxy, syy float64
	for i := 0; i < geom.NumPixels; i++ {
		if !mask[i] {
			continue
		}
		w := image[i]
		dx := geom.PixX[i] - meanX
		dy := geom.PixY[i] - meanY
		sxx += w * dx * dx
		sxy += w * dx * dy
		syy += w * dy * dy
	}
	sxx /= sumW
	sxy /= sumW
	syy /= sumW

	// Closed-form eigenvalues of [[sxx, sxy], [sxy, syy]].
	tr := sxx + syy
	det := sxx*syy - sxy*sxy
	disc := tr*tr/4 - det
	if disc < 0 {
		// Round-off can push the discriminant marginally negative for
		// near-isotropic images.
		disc = 0
	}
	root := math.Sqrt(disc)
	lambda1 := tr/2 + root
	lambda2 := tr/2 - root
	if lambda1 < 0 {
		lambda1 = 0
	}
	if lambda2 < 0 {
		lambda2 = 0
	}
	length := math.Sqrt(lambda1)
	width := math.Sqrt(lambda2)

	// Major-axis orientation; atan2 keeps psi in (−π/2, π/2] and handles the
	// isotropic case (both arguments zero) by returning 0.
	psi := 0.5 * math.Atan2(2*sxy, sxx-syy)

	// Third and fourth standardized moments of the major-axis projection.
	skewness := math.NaN()
	kurtosis := math.NaN()
	if length > 0 {
		cosPsi := math.Cos(psi)
		sinPsi := math.Sin(psi)
		var m3, m4 float64
		for i := 0; i < geom.NumPixels; i++ {
			if !mask[i] {
				continue
			}
			w := image[i]
			d := (geom.PixX[i]-meanX)*cosPsi + (geom.PixY[i]-meanY)*sinPsi
			d2 := d * d
			m3 += w * d2 * d
			m4 += w * d2 * d2
		}
		m3 /= sumW
		m4 /= sumW
		skewness = m3 / (length * length * length)
		kurtosis = m4 / (length * length * length * length)
	}

	return Hillas{
		Intensity: sumW,
		X:         meanX,
		Y:         meanY,
		Length:    length,
		Width:     width,
		Psi:       psi,
		Skewness:  skewness,
		Kurtosis:  kurtosis,
		R:         math.Hypot(meanX, meanY),
		Phi:       math.Atan2(meanY, meanX),
	}
}
