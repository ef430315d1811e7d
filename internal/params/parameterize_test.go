package params

import (
	"math"
	"testing"

	"github.com/Yun532/pylast/internal/cleaning"
)

// End-to-end of the extraction chain on a cleaned image: clean, then verify
// the bundle is internally consistent and repeatable bit for bit.
func TestParameterizeCleanedImage(t *testing.T) {
	g := squareGrid(t, 5, 5)
	img := make([]float64, g.NumPixels)
	for i := range img {
		img[i] = 2
	}
	img[12] = 20
	img[11] = 12
	img[13] = 9

	mask := cleaning.TailcutsClean(g, img, 8, 4, false, 1)
	p := Parameterize(g, img, mask, DefaultIslandThresholds())

	if p.Morphology.NPixels == 0 {
		t.Fatal("cleaning should retain the bright blob")
	}
	if p.Morphology.NIslands != 1 {
		t.Errorf("expected a single island, got %d", p.Morphology.NIslands)
	}
	if p.Hillas.Intensity <= 0 {
		t.Errorf("expected positive intensity, got %v", p.Hillas.Intensity)
	}
	if p.Hillas.Length < p.Hillas.Width {
		t.Errorf("length %v < width %v", p.Hillas.Length, p.Hillas.Width)
	}
	if p.Concentration.Pixel <= 0 || p.Concentration.Pixel > 1 {
		t.Errorf("pixel concentration out of range: %v", p.Concentration.Pixel)
	}
	if p.Intensity.Max != 20 {
		t.Errorf("expected max charge 20, got %v", p.Intensity.Max)
	}

	again := Parameterize(g, img, mask, DefaultIslandThresholds())
	if p != again {
		t.Error("parameterization is not deterministic")
	}
}

// The persistence layer requires every numeric field present; degenerate
// images must produce NaN-filled bundles, never partially populated ones.
func TestParameterizeEmptyMaskAllFieldsNaN(t *testing.T) {
	g := squareGrid(t, 5, 5)
	img := make([]float64, g.NumPixels)

	p := Parameterize(g, img, make([]bool, g.NumPixels), DefaultIslandThresholds())

	for name, v := range map[string]float64{
		"hillas_intensity":  p.Hillas.Intensity,
		"hillas_length":     p.Hillas.Length,
		"leakage_pixels_1":  p.Leakage.PixelsWidth1,
		"concentration_cog": p.Concentration.Cog,
		"intensity_mean":    p.Intensity.Mean,
	} {
		if !math.IsNaN(v) {
			t.Errorf("%s: expected NaN, got %v", name, v)
		}
	}
	if p.Morphology.NPixels != 0 || p.Morphology.NIslands != 0 {
		t.Errorf("counts must be zero on empty mask: %+v", p.Morphology)
	}
}
