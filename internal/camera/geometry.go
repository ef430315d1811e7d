// Package camera describes the pixel layout of an imaging telescope camera:
// pixel positions, the pixel-adjacency graph, and the derived border masks.
//
// A Geometry is built once per telescope at subarray-description time and is
// strictly read-only afterwards, so it can be shared by any number of
// concurrent per-event readers without locking.
package camera

import (
	"fmt"
	"math"
	"sort"
)

// PixelShape identifies the photo-sensor outline, which fixes the canonical
// neighbor count used for border detection.
type PixelShape int

const (
	// ShapeCircle is a circular photomultiplier in a hexagonal packing.
	ShapeCircle PixelShape = iota
	// ShapeHexagon is a hexagonal pixel (6 neighbors when fully surrounded).
	ShapeHexagon
	// ShapeSquare is a square pixel (4 edge neighbors when fully surrounded).
	ShapeSquare
)

// canonicalNeighbors returns the neighbor count of a fully surrounded pixel.
func (s PixelShape) canonicalNeighbors() int {
	if s == ShapeSquare {
		return 4
	}
	return 6
}

// neighborRadiusFactor scales the pixel pitch into the center-distance cut
// that defines adjacency. 1.2 admits edge neighbors (distance = pitch) while
// rejecting diagonal squares (1.414•pitch) and second-ring hexagons
// (1.732•pitch).
const neighborRadiusFactor = 1.2

// Geometry is the immutable per-telescope pixel topology.
type Geometry struct {
	Name      string
	NumPixels int

	// PixX, PixY are pixel center coordinates in the camera plane (meters).
	PixX []float64
	PixY []float64
	// PixArea is the photosensitive area per pixel (m²).
	PixArea []float64
	Shape   PixelShape

	// Pitch is the nominal center-to-center distance of adjacent pixels,
	// measured as the minimum pairwise distance over the camera.
	Pitch float64

	// CSR adjacency: neighbors of pixel i are
	// neighborList[neighborStart[i]:neighborStart[i+1]], sorted ascending.
	neighborStart []int32
	neighborList  []int32

	borderRing1 []bool
	borderRing2 []bool
}

// NewGeometry builds the adjacency graph and border masks from raw per-pixel
// geometry. It fails on an empty camera or inconsistent array lengths; these
// are construction-time errors and are never deferred to per-event calls.
func NewGeometry(name string, pixX, pixY, pixArea []float64, shape PixelShape) (*Geometry, error) {
	n := len(pixX)
	if n < 1 {
		return nil, fmt.Errorf("camera %q: need at least 1 pixel, got %d", name, n)
	}
	if len(pixY) != n || len(pixArea) != n {
		return nil, fmt.Errorf("camera %q: coordinate array lengths differ: x=%d y=%d area=%d",
			name, n, len(pixY), len(pixArea))
	}

	g := &Geometry{
		Name:      name,
		NumPixels: n,
		PixX:      append([]float64(nil), pixX...),
		PixY:      append([]float64(nil), pixY...),
		PixArea:   append([]float64(nil), pixArea...),
		Shape:     shape,
	}

	g.buildAdjacency()
	g.buildBorderRings()
	return g, nil
}

// buildAdjacency finds neighbor pairs with a spatial hash grid keyed on an
// area-derived cell size, so construction stays near O(n) for real cameras.
func (g *Geometry) buildAdjacency() {
	n := g.NumPixels

	cell := g.cellSizeEstimate()
	grid := make(map[int64][]int32, n)
	key := func(x, y float64) int64 {
		cx := int64(math.Floor(x / cell))
		cy := int64(math.Floor(y / cell))
		return cx<<32 ^ (cy & 0xffffffff)
	}
	for i := 0; i < n; i++ {
		k := key(g.PixX[i], g.PixY[i])
		grid[k] = append(grid[k], int32(i))
	}

	// Pass 1: true pitch = minimum center distance among grid-local pairs.
	minDistSq := math.Inf(1)
	forEachCandidate(grid, cell, g.PixX, g.PixY, func(i, j int32, distSq float64) {
		if distSq < minDistSq {
			minDistSq = distSq
		}
	})
	if math.IsInf(minDistSq, 1) {
		// Single pixel, or pixels too sparse for the cell estimate.
		g.Pitch = 0
		g.neighborStart = make([]int32, n+1)
		return
	}
	g.Pitch = math.Sqrt(minDistSq)

	// Pass 2: adjacency cut at neighborRadiusFactor times the pitch.
	cutSq := (neighborRadiusFactor * g.Pitch) * (neighborRadiusFactor * g.Pitch)
	adj := make([][]int32, n)
	forEachCandidate(grid, cell, g.PixX, g.PixY, func(i, j int32, distSq float64) {
		if distSq <= cutSq {
			adj[i] = append(adj[i], j)
			adj[j] = append(adj[j], i)
		}
	})

	g.neighborStart = make([]int32, n+1)
	total := 0
	for i := 0; i < n; i++ {
		sort.Slice(adj[i], func(a, b int) bool { return adj[i][a] < adj[i][b] })
		total += len(adj[i])
		g.neighborStart[i+1] = int32(total)
	}
	g.neighborList = make([]int32, 0, total)
	for i := 0; i < n; i++ {
		g.neighborList = append(g.neighborList, adj[i]...)
	}
}

// cellSizeEstimate derives a hash cell size from the median pixel area, so
// that adjacent pixels always land in the same or a touching cell.
func (g *Geometry) cellSizeEstimate() float64 {
	areas := append([]float64(nil), g.PixArea...)
	sort.Float64s(areas)
	median := areas[len(areas)/2]
	if median <= 0 {
		median = 1
	}
	// Square pitch = √A; hexagon pitch = √(2A/√3) ≈ 1.07√A. A factor of 2
	// over √A comfortably covers both with the 1.2 adjacency cut inside one
	// cell ring.
	return 2 * math.Sqrt(median)
}

// forEachCandidate visits each unordered pixel pair (i<j) that shares a grid
// cell or sits in horizontally/vertically/diagonally adjacent cells.
func forEachCandidate(grid map[int64][]int32, cell float64, pixX, pixY []float64, visit func(i, j int32, distSq float64)) {
	for k, members := range grid {
		cx := k >> 32
		cy := int64(int32(k & 0xffffffff))
		for dx := int64(-1); dx <= 1; dx++ {
			for dy := int64(-1); dy <= 1; dy++ {
				nk := (cx+dx)<<32 ^ ((cy + dy) & 0xffffffff)
				others, ok := grid[nk]
				if !ok {
					continue
				}
				for _, i := range members {
					for _, j := range others {
						if j <= i {
							continue
						}
						ddx := pixX[i] - pixX[j]
						ddy := pixY[i] - pixY[j]
						visit(i, j, ddx*ddx+ddy*ddy)
					}
				}
			}
		}
	}
}

// buildBorderRings derives the physical-edge masks. Ring 1 holds pixels whose
// neighbor count falls short of the canonical value for the pixel shape;
// ring 2 additionally includes their one-step neighbors.
func (g *Geometry) buildBorderRings() {
	canonical := g.Shape.canonicalNeighbors()
	g.borderRing1 = make([]bool, g.NumPixels)
	for i := 0; i < g.NumPixels; i++ {
		if int(g.neighborStart[i+1]-g.neighborStart[i]) < canonical {
			g.borderRing1[i] = true
		}
	}

	g.borderRing2 = make([]bool, g.NumPixels)
	copy(g.borderRing2, g.borderRing1)
	counts := g.CountNeighbors(g.borderRing1)
	for i := range g.borderRing2 {
		if counts[i] > 0 {
			g.borderRing2[i] = true
		}
	}
}

// Neighbors returns the sorted neighbor indices of pixel i. The returned
// slice aliases internal storage and must not be modified.
func (g *Geometry) Neighbors(i int) []int32 {
	return g.neighborList[g.neighborStart[i]:g.neighborStart[i+1]]
}

// NumNeighbors returns the neighbor count of pixel i.
func (g *Geometry) NumNeighbors(i int) int {
	return int(g.neighborStart[i+1] - g.neighborStart[i])
}

// CountNeighbors applies the adjacency relation to a boolean mask in a single
// pass, returning for every pixel the number of its neighbors that are true.
// This is the sparse equivalent of the incidence-matrix × mask product.
func (g *Geometry) CountNeighbors(mask []bool) []int {
	counts := make([]int, g.NumPixels)
	g.CountNeighborsInto(counts, mask)
	return counts
}

// CountNeighborsInto is CountNeighbors writing into a caller-owned buffer,
// for allocation-free reuse in per-event loops.
func (g *Geometry) CountNeighborsInto(counts []int, mask []bool) {
	for i := 0; i < g.NumPixels; i++ {
		c := 0
		for _, j := range g.neighborList[g.neighborStart[i]:g.neighborStart[i+1]] {
			if mask[j] {
				c++
			}
		}
		counts[i] = c
	}
}

// BorderRing1 reports whether pixel i lies on the physical camera edge.
func (g *Geometry) BorderRing1(i int) bool { return g.borderRing1[i] }

// BorderRing2 reports whether pixel i lies within two pixels of the edge.
func (g *Geometry) BorderRing2(i int) bool { return g.borderRing2[i] }
