package params

import (
	"github.com/Yun532/pylast/internal/camera"
)

// LeakageParameters measures the fraction of retained pixels and retained
// charge sitting in the one- and two-pixel-wide border rings of the camera.
// The rings are purely geometric and come precomputed with the Geometry;
// only the retained-pixel restriction depends on the image.
//
// The pixel ratios are NaN when the mask retains nothing; the intensity
// ratios are NaN when the retained charge sums to zero.
func LeakageParameters(geom *camera.Geometry, image []float64, mask []bool) Leakage {
	var nRetained, nRing1, nRing2 int
	var intensity, inRing1, inRing2 float64
	for i := 0; i < geom.NumPixels; i++ {
		if !mask[i] {
			continue
		}
		nRetained++
		intensity += image[i]
		if geom.BorderRing1(i) {
			nRing1++
			inRing1 += image[i]
		}
		if geom.BorderRing2(i) {
			nRing2++
			inRing2 += image[i]
		}
	}

	out := nanLeakage()
	if nRetained > 0 {
		out.PixelsWidth1 = float64(nRing1) / float64(nRetained)
		out.PixelsWidth2 = float64(nRing2) / float64(nRetained)
	}
	if intensity != 0 {
		out.IntensityWidth1 = inRing1 / intensity
		out.IntensityWidth2 = inRing2 / intensity
	}
	return out
}
