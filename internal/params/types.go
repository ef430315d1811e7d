// Package params reduces a cleaned camera image to the scalar descriptors
// consumed by shower reconstruction: the Hillas ellipse, border leakage,
// charge concentration, island morphology, and raw intensity statistics.
//
// Every function here is a pure function of (geometry, image, mask) with no
// shared mutable state; callers may evaluate any number of images in
// parallel. Physically undefined quantities come back as NaN (or 0 for
// counts), never as errors, so the persistence schema always sees every
// field.
package params

import "math"

// Hillas is the weighted second-moment ellipse of a cleaned image, plus the
// third/fourth standardized moments along its major axis.
//
// Invariants: Length ≥ Width ≥ 0 and Psi ∈ (−π/2, π/2] whenever Intensity is
// positive; every field is NaN when the retained intensity is zero.
type Hillas struct {
	Intensity float64 `json:"hillas_intensity"`
	X         float64 `json:"hillas_x"`
	Y         float64 `json:"hillas_y"`
	Length    float64 `json:"hillas_length"`
	Width     float64 `json:"hillas_width"`
	Psi       float64 `json:"hillas_psi"`
	Skewness  float64 `json:"hillas_skewness"`
	Kurtosis  float64 `json:"hillas_kurtosis"`
	R         float64 `json:"hillas_r"`
	Phi       float64 `json:"hillas_phi"`
}

// Leakage measures how much of the retained signal sits on the camera edge,
// indicating possible truncation of the shower image.
type Leakage struct {
	PixelsWidth1    float64 `json:"leakage_pixels_width_1"`
	PixelsWidth2    float64 `json:"leakage_pixels_width_2"`
	IntensityWidth1 float64 `json:"leakage_intensity_width_1"`
	IntensityWidth2 float64 `json:"leakage_intensity_width_2"`
}

// Concentration relates locally concentrated charge to the total intensity.
type Concentration struct {
	Cog   float64 `json:"concentration_cog"`
	Core  float64 `json:"concentration_core"`
	Pixel float64 `json:"concentration_pixel"`
}

// Morphology counts retained pixels and their connected components.
type Morphology struct {
	NPixels        int `json:"morphology_n_pixels"`
	NIslands       int `json:"morphology_n_islands"`
	NSmallIslands  int `json:"morphology_n_small_islands"`
	NMediumIslands int `json:"morphology_n_medium_islands"`
	NLargeIslands  int `json:"morphology_n_large_islands"`
}

// Intensity holds the plain statistics of the retained charge values.
type Intensity struct {
	Max      float64 `json:"intensity_max"`
	Mean     float64 `json:"intensity_mean"`
	Std      float64 `json:"intensity_std"`
	Skewness float64 `json:"intensity_skewness"`
	Kurtosis float64 `json:"intensity_kurtosis"`
}

// ImageParameters bundles all parameter groups for one telescope image.
type ImageParameters struct {
	Hillas        Hillas        `json:"hillas"`
	Leakage       Leakage       `json:"leakage"`
	Concentration Concentration `json:"concentration"`
	Morphology    Morphology    `json:"morphology"`
	Intensity     Intensity     `json:"intensity"`
}

// IslandThresholds classifies islands by pixel count: n ≤ SmallMax is small,
// n ≤ MediumMax is medium, anything larger is large.
type IslandThresholds struct {
	SmallMax  int `json:"small_max"`
	MediumMax int `json:"medium_max"`
}

// DefaultIslandThresholds matches the observed classification anchors
// (a 5-pixel island is small, a 25-pixel island is medium).
func DefaultIslandThresholds() IslandThresholds {
	return IslandThresholds{SmallMax: 10, MediumMax: 50}
}

func nanHillas() Hillas {
	nan := math.NaN()
	return Hillas{
		Intensity: nan, X: nan, Y: nan, Length: nan, Width: nan,
		Psi: nan, Skewness: nan, Kurtosis: nan, R: nan, Phi: nan,
	}
}

func nanLeakage() Leakage {
	nan := math.NaN()
	return Leakage{PixelsWidth1: nan, PixelsWidth2: nan, IntensityWidth1: nan, IntensityWidth2: nan}
}

func nanConcentration() Concentration {
	nan := math.NaN()
	return Concentration{Cog: nan, Core: nan, Pixel: nan}
}

func nanIntensity() Intensity {
	nan := math.NaN()
	return Intensity{Max: nan, Mean: nan, Std: nan, Skewness: nan, Kurtosis: nan}
}
