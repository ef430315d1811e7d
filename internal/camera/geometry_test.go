package camera

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func mustSquareGrid(t *testing.T, rows, cols int) *Geometry {
	t.Helper()
	g, err := NewSquareGrid("test", rows, cols, 1)
	if err != nil {
		t.Fatalf("NewSquareGrid: %v", err)
	}
	return g
}

func TestNewGeometryValidation(t *testing.T) {
	if _, err := NewGeometry("empty", nil, nil, nil, ShapeSquare); err == nil {
		t.Error("expected error for empty camera")
	}
	if _, err := NewGeometry("ragged", []float64{0, 1}, []float64{0}, []float64{1, 1}, ShapeSquare); err == nil {
		t.Error("expected error for mismatched array lengths")
	}
}

func TestSinglePixelCamera(t *testing.T) {
	g, err := NewGeometry("solo", []float64{0}, []float64{0}, []float64{1}, ShapeSquare)
	if err != nil {
		t.Fatalf("NewGeometry: %v", err)
	}
	if g.NumNeighbors(0) != 0 {
		t.Errorf("single pixel should have no neighbors, got %d", g.NumNeighbors(0))
	}
	if !g.BorderRing1(0) {
		t.Error("single pixel is on the border")
	}
}

func TestSquareGridAdjacency(t *testing.T) {
	g := mustSquareGrid(t, 4, 4)

	if g.Pitch != 1 {
		t.Errorf("pitch: expected 1, got %v", g.Pitch)
	}

	// Center pixel (row 1, col 1 → index 5) has the full 4-neighborhood;
	// square pixels are edge-adjacent only, never diagonal.
	want := []int32{1, 4, 6, 9}
	if diff := cmp.Diff(want, g.Neighbors(5)); diff != "" {
		t.Errorf("neighbors of pixel 5 (-want +got):\n%s", diff)
	}

	// Corner pixel 0 has exactly 2 neighbors.
	if diff := cmp.Diff([]int32{1, 4}, g.Neighbors(0)); diff != "" {
		t.Errorf("neighbors of pixel 0 (-want +got):\n%s", diff)
	}

	// Adjacency is symmetric.
	for i := 0; i < g.NumPixels; i++ {
		for _, j := range g.Neighbors(i) {
			found := false
			for _, k := range g.Neighbors(int(j)) {
				if int(k) == i {
					found = true
				}
			}
			if !found {
				t.Fatalf("adjacency not symmetric: %d→%d", i, j)
			}
		}
	}
}

func TestHexGridAdjacency(t *testing.T) {
	// Seven hexagonal pixels: one center, six surrounding at unit pitch.
	pitch := 1.0
	pixX := []float64{0}
	pixY := []float64{0}
	for k := 0; k < 6; k++ {
		a := float64(k) * math.Pi / 3
		pixX = append(pixX, pitch*math.Cos(a))
		pixY = append(pixY, pitch*math.Sin(a))
	}
	area := math.Sqrt(3) / 2 * pitch * pitch
	areas := make([]float64, 7)
	for i := range areas {
		areas[i] = area
	}

	g, err := NewGeometry("hex", pixX, pixY, areas, ShapeHexagon)
	if err != nil {
		t.Fatalf("NewGeometry: %v", err)
	}
	if got := g.NumNeighbors(0); got != 6 {
		t.Errorf("hex center should have 6 neighbors, got %d", got)
	}
	if g.BorderRing1(0) {
		t.Error("fully surrounded hex pixel must not be border")
	}
	// Outer pixels see the center plus their two ring neighbors.
	for i := 1; i < 7; i++ {
		if got := g.NumNeighbors(i); got != 3 {
			t.Errorf("ring pixel %d: expected 3 neighbors, got %d", i, got)
		}
		if !g.BorderRing1(i) {
			t.Errorf("ring pixel %d should be border", i)
		}
	}
}

func TestCountNeighbors(t *testing.T) {
	g := mustSquareGrid(t, 4, 4)

	mask := make([]bool, g.NumPixels)
	mask[10] = true
	counts := g.CountNeighbors(mask)

	for i, want := range map[int]int{6: 1, 9: 1, 11: 1, 14: 1, 10: 0, 0: 0} {
		if counts[i] != want {
			t.Errorf("counts[%d]: expected %d, got %d", i, want, counts[i])
		}
	}
}

func TestBorderRings5x5(t *testing.T) {
	g := mustSquareGrid(t, 5, 5)

	ring1, ring2 := 0, 0
	for i := 0; i < g.NumPixels; i++ {
		if g.BorderRing1(i) {
			ring1++
		}
		if g.BorderRing2(i) {
			ring2++
		}
	}
	if ring1 != 16 {
		t.Errorf("ring1: expected 16 border pixels, got %d", ring1)
	}
	if ring2 != 24 {
		t.Errorf("ring2: expected 24 pixels, got %d", ring2)
	}
	// Only the central pixel (index 12) escapes ring 2.
	if g.BorderRing2(12) {
		t.Error("central pixel must not be in ring 2")
	}
}
