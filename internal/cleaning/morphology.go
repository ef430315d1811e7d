package cleaning

import (
	"github.com/Yun532/pylast/internal/camera"
	"github.com/Yun532/pylast/internal/units"
)

// Dilate grows the mask by one adjacency step: a pixel joins the result when
// it is already set or has at least one set neighbor. Pure; the input mask is
// not modified.
func Dilate(geom *camera.Geometry, mask []bool) []bool {
	counts := geom.CountNeighbors(mask)
	out := make([]bool, geom.NumPixels)
	for i := range out {
		out[i] = mask[i] || counts[i] > 0
	}
	return out
}

// SelectByDistance returns the pixels whose angular offset from the optical
// axis is within cutRadiusDeg degrees. The offset of a pixel is its radial
// camera-plane distance divided by the focal length (plate-scale rule; the
// optical axis pierces the camera plane at the coordinate origin). Pixels
// exactly at the cut are retained, so enlarging the radius never drops a
// previously selected pixel.
func SelectByDistance(geom *camera.Geometry, focalLength, cutRadiusDeg float64) []bool {
	mask := make([]bool, geom.NumPixels)
	// Compare squared angles to avoid a sqrt per pixel.
	cutRadSq := units.DegToRad(cutRadiusDeg) * units.DegToRad(cutRadiusDeg)
	fSq := focalLength * focalLength
	for i := 0; i < geom.NumPixels; i++ {
		x := geom.PixX[i]
		y := geom.PixY[i]
		mask[i] = (x*x+y*y)/fSq <= cutRadSq
	}
	return mask
}
