package params

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestMorphologyEmptyMask(t *testing.T) {
	g := squareGrid(t, 5, 5)

	m := MorphologyParameters(g, make([]bool, g.NumPixels), DefaultIslandThresholds())

	want := Morphology{}
	if diff := cmp.Diff(want, m); diff != "" {
		t.Errorf("empty mask morphology (-want +got):\n%s", diff)
	}
}

func TestMorphologyFullMask(t *testing.T) {
	g := squareGrid(t, 5, 5)

	m := MorphologyParameters(g, fullMask(g.NumPixels), DefaultIslandThresholds())

	want := Morphology{NPixels: 25, NIslands: 1, NMediumIslands: 1}
	if diff := cmp.Diff(want, m); diff != "" {
		t.Errorf("full mask morphology (-want +got):\n%s", diff)
	}
}

func TestMorphologyTwoIslands(t *testing.T) {
	g := squareGrid(t, 5, 5)
	mask := make([]bool, g.NumPixels)
	for _, i := range []int{0, 1, 2, 3, 4, 20, 21, 22, 23, 24} {
		mask[i] = true
	}

	m := MorphologyParameters(g, mask, DefaultIslandThresholds())

	want := Morphology{NPixels: 10, NIslands: 2, NSmallIslands: 2}
	if diff := cmp.Diff(want, m); diff != "" {
		t.Errorf("two-island morphology (-want +got):\n%s", diff)
	}
}

func TestMorphologyDiagonalPixelsAreSeparate(t *testing.T) {
	// Square pixels are edge-adjacent only, so a diagonal chain is all
	// isolated single-pixel islands.
	g := squareGrid(t, 4, 4)
	mask := make([]bool, g.NumPixels)
	for _, i := range []int{0, 5, 10, 15} {
		mask[i] = true
	}

	m := MorphologyParameters(g, mask, DefaultIslandThresholds())

	if m.NIslands != 4 {
		t.Errorf("expected 4 islands, got %d", m.NIslands)
	}
	if m.NSmallIslands != 4 {
		t.Errorf("expected all islands small, got %d", m.NSmallIslands)
	}
}

func TestMorphologyLargeIsland(t *testing.T) {
	g := squareGrid(t, 9, 9)

	m := MorphologyParameters(g, fullMask(g.NumPixels), DefaultIslandThresholds())

	want := Morphology{NPixels: 81, NIslands: 1, NLargeIslands: 1}
	if diff := cmp.Diff(want, m); diff != "" {
		t.Errorf("large island morphology (-want +got):\n%s", diff)
	}
}

func TestMorphologyCustomThresholds(t *testing.T) {
	g := squareGrid(t, 5, 5)
	mask := make([]bool, g.NumPixels)
	for _, i := range []int{0, 1, 2, 3, 4} {
		mask[i] = true
	}

	m := MorphologyParameters(g, mask, IslandThresholds{SmallMax: 4, MediumMax: 10})

	if m.NMediumIslands != 1 || m.NSmallIslands != 0 {
		t.Errorf("5-pixel island with SmallMax=4 should classify medium: %+v", m)
	}
}
