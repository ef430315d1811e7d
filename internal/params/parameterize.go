package params

import (
	"github.com/Yun532/pylast/internal/camera"
)

// Parameterize extracts the full parameter bundle for one (image, mask)
// pair. It is the single entry point used by the per-event processor; every
// field of the result is always populated (NaN/0 for degenerate inputs), so
// schema-driven writers never see a missing column.
func Parameterize(geom *camera.Geometry, image []float64, mask []bool, thresholds IslandThresholds) ImageParameters {
	hillas := HillasParameters(geom, image, mask)
	return ImageParameters{
		Hillas:        hillas,
		Leakage:       LeakageParameters(geom, image, mask),
		Concentration: ConcentrationParameters(geom, image, mask, hillas),
		Morphology:    MorphologyParameters(geom, mask, thresholds),
		Intensity:     IntensityParameters(image, mask),
	}
}
