package params

import (
	"math"
	"testing"

	"github.com/Yun532/pylast/internal/camera"
)

const tol = 1e-9

func squareGrid(t *testing.T, rows, cols int) *camera.Geometry {
	t.Helper()
	g, err := camera.NewSquareGrid("test", rows, cols, 1)
	if err != nil {
		t.Fatalf("NewSquareGrid: %v", err)
	}
	return g
}

func fullMask(n int) []bool {
	mask := make([]bool, n)
	for i := range mask {
		mask[i] = true
	}
	return mask
}

func approx(t *testing.T, name string, got, want float64) {
	t.Helper()
	if math.Abs(got-want) > tol {
		t.Errorf("%s: expected %v, got %v", name, want, got)
	}
}

func TestHillasDiagonal(t *testing.T) {
	g := squareGrid(t, 4, 4)
	img := make([]float64, g.NumPixels)
	for _, i := range []int{0, 5, 10, 15} {
		img[i] = 1
	}

	h := HillasParameters(g, img, fullMask(g.NumPixels))

	approx(t, "intensity", h.Intensity, 4)
	approx(t, "x", h.X, 1.5)
	approx(t, "y", h.Y, 1.5)
	approx(t, "psi", h.Psi, math.Pi/4)
	approx(t, "length", h.Length, math.Sqrt(2.5))
	approx(t, "width", h.Width, 0)
	approx(t, "r", h.R, math.Hypot(1.5, 1.5))
	approx(t, "phi", h.Phi, math.Pi/4)
	// A symmetric charge distribution has no skew along the major axis.
	approx(t, "skewness", h.Skewness, 0)
}

func TestHillasEmptyImage(t *testing.T) {
	g := squareGrid(t, 4, 4)
	img := make([]float64, g.NumPixels)

	h := HillasParameters(g, img, fullMask(g.NumPixels))

	for name, v := range map[string]float64{
		"intensity": h.Intensity, "x": h.X, "y": h.Y,
		"length": h.Length, "width": h.Width, "psi": h.Psi,
		"skewness": h.Skewness, "kurtosis": h.Kurtosis,
		"r": h.R, "phi": h.Phi,
	} {
		if !math.IsNaN(v) {
			t.Errorf("%s: expected NaN for zero intensity, got %v", name, v)
		}
	}
}

func TestHillasEmptyMask(t *testing.T) {
	g := squareGrid(t, 4, 4)
	img := make([]float64, g.NumPixels)
	for i := range img {
		img[i] = 10
	}

	h := HillasParameters(g, img, make([]bool, g.NumPixels))
	if !math.IsNaN(h.Intensity) {
		t.Errorf("empty mask: expected NaN intensity, got %v", h.Intensity)
	}
}

func TestHillasLengthWidthOrdering(t *testing.T) {
	// Horizontal bar: length along x, width along y, psi 0.
	g := squareGrid(t, 5, 5)
	img := make([]float64, g.NumPixels)
	for _, i := range []int{10, 11, 12, 13, 14} { // row y=2
		img[i] = 2
	}
	img[7] = 1  // (2,1)
	img[17] = 1 // (2,3)

	h := HillasParameters(g, img, fullMask(g.NumPixels))

	if h.Length < h.Width {
		t.Errorf("length %v must not be smaller than width %v", h.Length, h.Width)
	}
	approx(t, "psi", h.Psi, 0)
	approx(t, "x", h.X, 2)
	approx(t, "y", h.Y, 2)
	if h.Width <= 0 {
		t.Errorf("bar with transverse charge should have positive width, got %v", h.Width)
	}
}

func TestHillasSkewedImage(t *testing.T) {
	// Charge piled on one end of the major axis makes the third moment
	// nonzero with a definite sign.
	g := squareGrid(t, 5, 5)
	img := make([]float64, g.NumPixels)
	img[10] = 10 // (0,2)
	img[11] = 4  // (1,2)
	img[12] = 2  // (2,2)
	img[13] = 1  // (3,2)
	img[14] = 1  // (4,2)

	h := HillasParameters(g, img, fullMask(g.NumPixels))

	approx(t, "psi", h.Psi, 0)
	if h.Skewness <= 0 {
		t.Errorf("charge concentrated below the centroid projects to positive skew, got %v", h.Skewness)
	}
	if h.Kurtosis <= 0 {
		t.Errorf("kurtosis of a nondegenerate image must be positive, got %v", h.Kurtosis)
	}
}

func TestHillasPsiRange(t *testing.T) {
	g := squareGrid(t, 5, 5)
	for _, axis := range [][]int{
		{0, 6, 12, 18, 24}, // main diagonal
		{4, 8, 12, 16, 20}, // anti-diagonal
		{2, 7, 12, 17, 22}, // vertical
		{10, 11, 12, 13, 14},
	} {
		img := make([]float64, g.NumPixels)
		for _, i := range axis {
			img[i] = 1
		}
		h := HillasParameters(g, img, fullMask(g.NumPixels))
		if !(h.Psi > -math.Pi/2-tol && h.Psi <= math.Pi/2+tol) {
			t.Errorf("psi %v outside (-pi/2, pi/2]", h.Psi)
		}
	}
}

func TestHillasDeterministic(t *testing.T) {
	g := squareGrid(t, 5, 5)
	img := make([]float64, g.NumPixels)
	for i := range img {
		img[i] = float64((i*37)%11) + 0.25
	}
	mask := fullMask(g.NumPixels)

	first := HillasParameters(g, img, mask)
	for run := 0; run < 3; run++ {
		if got := HillasParameters(g, img, mask); got != first {
			t.Fatalf("run %d: parameters differ: %+v vs %+v", run, got, first)
		}
	}
}
