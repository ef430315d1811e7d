package display

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/Yun532/pylast/internal/camera"
	"github.com/Yun532/pylast/internal/cleaning"
	"github.com/Yun532/pylast/internal/params"
	"github.com/Yun532/pylast/internal/simulate"
)

func TestSavePNGWritesFile(t *testing.T) {
	geom, err := camera.NewSquareGrid("display-test", 10, 10, 0.1)
	if err != nil {
		t.Fatalf("NewSquareGrid: %v", err)
	}
	img := simulate.Shower(geom, simulate.ShowerConfig{
		CentroidX: 0.45, CentroidY: 0.45,
		Length: 0.15, Width: 0.06,
		Psi: 0.5, Amplitude: 80,
	}, 1)
	mask := cleaning.TailcutsClean(geom, img, 10, 5, false, 0)
	p := params.Parameterize(geom, img, mask, params.DefaultIslandThresholds())

	path := filepath.Join(t.TempDir(), "camera.png")
	if err := SavePNG(path, geom, img, mask, &p.Hillas, "test event"); err != nil {
		t.Fatalf("SavePNG: %v", err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat output: %v", err)
	}
	if info.Size() == 0 {
		t.Fatal("PNG file is empty")
	}
}

func TestCameraImageRejectsBadLength(t *testing.T) {
	geom, err := camera.NewSquareGrid("display-test", 4, 4, 1)
	if err != nil {
		t.Fatalf("NewSquareGrid: %v", err)
	}
	if _, err := CameraImage(geom, make([]float64, 3), nil, nil, ""); err == nil {
		t.Fatal("expected error for image/camera size mismatch")
	}
}

func TestCameraImageSkipsUndefinedEllipse(t *testing.T) {
	geom, err := camera.NewSquareGrid("display-test", 4, 4, 1)
	if err != nil {
		t.Fatalf("NewSquareGrid: %v", err)
	}
	img := make([]float64, geom.NumPixels)
	mask := make([]bool, geom.NumPixels)
	p := params.Parameterize(geom, img, mask, params.DefaultIslandThresholds())

	// NaN parameters from an empty mask must not reach the plotter.
	if _, err := CameraImage(geom, img, mask, &p.Hillas, "empty"); err != nil {
		t.Fatalf("CameraImage: %v", err)
	}
}

func TestEllipsePointsClose(t *testing.T) {
	h := &params.Hillas{X: 1, Y: 2, Length: 0.5, Width: 0.2, Psi: 0.3, Intensity: 10}
	pts := ellipsePoints(h)
	first, last := pts[0], pts[len(pts)-1]
	if math.Abs(first.X-last.X) > 1e-12 || math.Abs(first.Y-last.Y) > 1e-12 {
		t.Fatalf("ellipse not closed: start (%g,%g), end (%g,%g)", first.X, first.Y, last.X, last.Y)
	}
	for _, pt := range pts {
		d := math.Hypot(pt.X-h.X, pt.Y-h.Y)
		if d > h.Length+1e-9 || d < h.Width-1e-9 {
			t.Fatalf("ellipse point (%g,%g) outside axis bounds", pt.X, pt.Y)
		}
	}
}
