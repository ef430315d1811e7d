// Package cleaning selects the signal pixels of a camera image. The tailcuts
// algorithm keeps pixels above a picture threshold (optionally requiring
// picture-level neighbors) and boundary-level pixels adjacent to them;
// morphology helpers grow or geometrically restrict the resulting mask.
package cleaning

import (
	"fmt"

	"github.com/Yun532/pylast/internal/camera"
)

// Default tailcuts parameters, matching the production reconstruction
// configuration.
const (
	DefaultPictureThresh       = 10.0
	DefaultBoundaryThresh      = 5.0
	DefaultKeepIsolatedPixels  = false
	DefaultMinPictureNeighbors = 2
)

// Auto-threshold floors and peak divisors for the adaptive variant.
const (
	autoPictureFloor    = 10.0
	autoBoundaryFloor   = 5.0
	autoPictureDivisor  = 10.0
	autoBoundaryDivisor = 20.0
)

// Cleaner turns a calibrated charge image into a boolean signal mask. The
// concrete variant is resolved once per run, never per pixel.
type Cleaner interface {
	Clean(geom *camera.Geometry, image []float64) []bool
}

// TailcutsCleaner is the two-threshold picture/boundary cleaner.
type TailcutsCleaner struct {
	PictureThresh       float64
	BoundaryThresh      float64
	KeepIsolatedPixels  bool
	MinPictureNeighbors int
}

// NewTailcutsCleaner returns a cleaner with the production defaults.
func NewTailcutsCleaner() *TailcutsCleaner {
	return &TailcutsCleaner{
		PictureThresh:       DefaultPictureThresh,
		BoundaryThresh:      DefaultBoundaryThresh,
		KeepIsolatedPixels:  DefaultKeepIsolatedPixels,
		MinPictureNeighbors: DefaultMinPictureNeighbors,
	}
}

// Validate reports configuration errors before any event is processed.
func (c *TailcutsCleaner) Validate() error {
	if c.BoundaryThresh > c.PictureThresh {
		return fmt.Errorf("boundary threshold %v exceeds picture threshold %v",
			c.BoundaryThresh, c.PictureThresh)
	}
	if c.MinPictureNeighbors < 0 {
		return fmt.Errorf("min picture neighbors must be >= 0, got %d", c.MinPictureNeighbors)
	}
	return nil
}

// Clean implements Cleaner.
func (c *TailcutsCleaner) Clean(geom *camera.Geometry, image []float64) []bool {
	return TailcutsClean(geom, image, c.PictureThresh, c.BoundaryThresh,
		c.KeepIsolatedPixels, c.MinPictureNeighbors)
}

// AutoTailcutsCleaner derives its thresholds from the image's own peak value
// (picture = max(10, peak/10), boundary = max(5, peak/20)) before delegating
// to the tailcuts core, so cleaning tracks very bright or very faint showers
// without retuning. The peak of an empty image is taken as 0.
type AutoTailcutsCleaner struct {
	KeepIsolatedPixels  bool
	MinPictureNeighbors int
}

// NewAutoTailcutsCleaner returns an adaptive cleaner with the default
// connectivity requirements.
func NewAutoTailcutsCleaner() *AutoTailcutsCleaner {
	return &AutoTailcutsCleaner{
		KeepIsolatedPixels:  DefaultKeepIsolatedPixels,
		MinPictureNeighbors: DefaultMinPictureNeighbors,
	}
}

// Clean implements Cleaner.
func (c *AutoTailcutsCleaner) Clean(geom *camera.Geometry, image []float64) []bool {
	peak := 0.0
	for _, v := range image {
		if v > peak {
			peak = v
		}
	}
	picture := autoPictureFloor
	if p := peak / autoPictureDivisor; p > picture {
		picture = p
	}
	boundary := autoBoundaryFloor
	if b := peak / autoBoundaryDivisor; b > boundary {
		boundary = b
	}
	return TailcutsClean(geom, image, picture, boundary, c.KeepIsolatedPixels, c.MinPictureNeighbors)
}

// TailcutsClean selects signal pixels with the two-threshold tailcuts rule:
//
//  1. pixels at or above pictureThresh form the picture candidates;
//  2. unless keepIsolatedPixels is set (or minPictureNeighbors is 0), a
//     candidate additionally needs at least minPictureNeighbors neighbors
//     that are themselves above the picture threshold;
//  3. pixels at or above boundaryThresh join the mask when they touch a
//     picture pixel; without keepIsolatedPixels, picture pixels in turn need
//     at least one boundary-level neighbor to survive.
//
// The result is deterministic and allocates only the output mask and two
// scratch buffers sized to the camera.
func TailcutsClean(geom *camera.Geometry, image []float64, pictureThresh, boundaryThresh float64, keepIsolatedPixels bool, minPictureNeighbors int) []bool {
	n := geom.NumPixels

	abovePicture := make([]bool, n)
	for i := 0; i < n; i++ {
		abovePicture[i] = image[i] >= pictureThresh
	}

	inPicture := abovePicture
	if !keepIsolatedPixels && minPictureNeighbors > 0 {
		counts := geom.CountNeighbors(abovePicture)
		inPicture = make([]bool, n)
		for i := 0; i < n; i++ {
			inPicture[i] = abovePicture[i] && counts[i] >= minPictureNeighbors
		}
	}

	aboveBoundary := make([]bool, n)
	for i := 0; i < n; i++ {
		aboveBoundary[i] = image[i] >= boundaryThresh
	}

	pictureNeighborCounts := geom.CountNeighbors(inPicture)

	mask := make([]bool, n)
	if keepIsolatedPixels {
		for i := 0; i < n; i++ {
			mask[i] = (aboveBoundary[i] && pictureNeighborCounts[i] > 0) || inPicture[i]
		}
		return mask
	}

	boundaryNeighborCounts := geom.CountNeighbors(aboveBoundary)
	for i := 0; i < n; i++ {
		mask[i] = (aboveBoundary[i] && pictureNeighborCounts[i] > 0) ||
			(inPicture[i] && boundaryNeighborCounts[i] > 0)
	}
	return mask
}
