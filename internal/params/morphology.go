package params

import (
	"github.com/Yun532/pylast/internal/camera"
)

// MorphologyParameters labels the connected components ("islands") of the
// retained mask over the pixel-adjacency graph and classifies each by size.
// An empty mask yields zero counts, not an error.
func MorphologyParameters(geom *camera.Geometry, mask []bool, thresholds IslandThresholds) Morphology {
	n := geom.NumPixels
	var out Morphology

	// Breadth-first labeling restricted to retained pixels. label 0 means
	// unvisited; islands are numbered from 1 in pixel-index order, so the
	// labeling is deterministic.
	labels := make([]int32, n)
	queue := make([]int32, 0, 64)

	for start := 0; start < n; start++ {
		if !mask[start] || labels[start] != 0 {
			continue
		}
		out.NIslands++
		island := int32(out.NIslands)
		size := 0

		queue = append(queue[:0], int32(start))
		labels[start] = island
		for len(queue) > 0 {
			p := queue[len(queue)-1]
			queue = queue[:len(queue)-1]
			size++
			for _, q := range geom.Neighbors(int(p)) {
				if mask[q] && labels[q] == 0 {
					labels[q] = island
					queue = append(queue, q)
				}
			}
		}

		out.NPixels += size
		switch {
		case size <= thresholds.SmallMax:
			out.NSmallIslands++
		case size <= thresholds.MediumMax:
			out.NMediumIslands++
		default:
			out.NLargeIslands++
		}
	}
	return out
}
