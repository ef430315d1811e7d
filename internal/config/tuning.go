// Package config resolves the processing parameters before any event is
// touched: cleaning thresholds, dilation rounds, radius cut, island
// classification, and simulation handling. The JSON schema uses pointer
// fields so a partial file overrides only what it names.
package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"github.com/Yun532/pylast/internal/cleaning"
	"github.com/Yun532/pylast/internal/params"
)

// Cleaner type names accepted by CleanerType.
const (
	CleanerTailcuts     = "tailcuts"
	CleanerAutoTailcuts = "auto_tailcuts"
)

// TuningConfig is the root configuration for the image processing stage.
// All fields are optional; nil means "use the default".
type TuningConfig struct {
	// Cleaning params
	CleanerType         *string  `json:"cleaner_type,omitempty"`
	PictureThresh       *float64 `json:"picture_thresh,omitempty"`
	BoundaryThresh      *float64 `json:"boundary_thresh,omitempty"`
	KeepIsolatedPixels  *bool    `json:"keep_isolated_pixels,omitempty"`
	MinPictureNeighbors *int     `json:"min_number_picture_neighbors,omitempty"`
	DilateRounds        *int     `json:"dilate_rounds,omitempty"`

	// Optical-axis distance cut
	UseCutRadius *bool    `json:"use_cut_radius,omitempty"`
	CutRadiusDeg *float64 `json:"cut_radius_deg,omitempty"`

	// Island classification
	IslandSmallMax  *int `json:"island_small_max,omitempty"`
	IslandMediumMax *int `json:"island_medium_max,omitempty"`

	// Simulation handling
	PoissonNoise     *float64 `json:"poisson_noise,omitempty"`
	TriggerThresh    *float64 `json:"trigger_thresh,omitempty"`
	TriggerMinPixels *int     `json:"trigger_min_pixels,omitempty"`
	RequireTrigger   *bool    `json:"require_trigger,omitempty"`
	UseTrueImage     *bool    `json:"use_true_image,omitempty"`

	// Batch processing
	Workers *int `json:"workers,omitempty"`
}

// Resolved is a TuningConfig with every default applied, ready for the
// processor's hot path. It never changes after Resolve.
type Resolved struct {
	CleanerType         string
	PictureThresh       float64
	BoundaryThresh      float64
	KeepIsolatedPixels  bool
	MinPictureNeighbors int
	DilateRounds        int
	UseCutRadius        bool
	CutRadiusDeg        float64
	Islands             params.IslandThresholds
	PoissonNoise        float64
	TriggerThresh       float64
	TriggerMinPixels    int
	RequireTrigger      bool
	UseTrueImage        bool
	Workers             int
}

// defaultResolved mirrors the production reconstruction defaults.
func defaultResolved() Resolved {
	return Resolved{
		CleanerType:         CleanerTailcuts,
		PictureThresh:       cleaning.DefaultPictureThresh,
		BoundaryThresh:      cleaning.DefaultBoundaryThresh,
		KeepIsolatedPixels:  cleaning.DefaultKeepIsolatedPixels,
		MinPictureNeighbors: cleaning.DefaultMinPictureNeighbors,
		DilateRounds:        0,
		UseCutRadius:        false,
		CutRadiusDeg:        0,
		Islands:             params.DefaultIslandThresholds(),
		PoissonNoise:        0,
		TriggerThresh:       cleaning.DefaultBoundaryThresh,
		TriggerMinPixels:    4,
		RequireTrigger:      false,
		UseTrueImage:        false,
		Workers:             1,
	}
}

// Resolve applies the config on top of the defaults and validates the
// result. A nil receiver resolves to pure defaults.
func (c *TuningConfig) Resolve() (Resolved, error) {
	r := defaultResolved()
	if c != nil {
		if c.CleanerType != nil {
			r.CleanerType = *c.CleanerType
		}
		if c.PictureThresh != nil {
			r.PictureThresh = *c.PictureThresh
		}
		if c.BoundaryThresh != nil {
			r.BoundaryThresh = *c.BoundaryThresh
		}
		if c.KeepIsolatedPixels != nil {
			r.KeepIsolatedPixels = *c.KeepIsolatedPixels
		}
		if c.MinPictureNeighbors != nil {
			r.MinPictureNeighbors = *c.MinPictureNeighbors
		}
		if c.DilateRounds != nil {
			r.DilateRounds = *c.DilateRounds
		}
		if c.UseCutRadius != nil {
			r.UseCutRadius = *c.UseCutRadius
		}
		if c.CutRadiusDeg != nil {
			r.CutRadiusDeg = *c.CutRadiusDeg
		}
		if c.IslandSmallMax != nil {
			r.Islands.SmallMax = *c.IslandSmallMax
		}
		if c.IslandMediumMax != nil {
			r.Islands.MediumMax = *c.IslandMediumMax
		}
		if c.PoissonNoise != nil {
			r.PoissonNoise = *c.PoissonNoise
		}
		if c.TriggerThresh != nil {
			r.TriggerThresh = *c.TriggerThresh
		}
		if c.TriggerMinPixels != nil {
			r.TriggerMinPixels = *c.TriggerMinPixels
		}
		if c.RequireTrigger != nil {
			r.RequireTrigger = *c.RequireTrigger
		}
		if c.UseTrueImage != nil {
			r.UseTrueImage = *c.UseTrueImage
		}
		if c.Workers != nil {
			r.Workers = *c.Workers
		}
	}
	if err := r.validate(); err != nil {
		return Resolved{}, err
	}
	return r, nil
}

func (r Resolved) validate() error {
	switch r.CleanerType {
	case CleanerTailcuts, CleanerAutoTailcuts:
	default:
		return fmt.Errorf("unknown cleaner type %q", r.CleanerType)
	}
	if r.BoundaryThresh > r.PictureThresh {
		return fmt.Errorf("boundary threshold %v exceeds picture threshold %v", r.BoundaryThresh, r.PictureThresh)
	}
	if r.MinPictureNeighbors < 0 {
		return fmt.Errorf("min_number_picture_neighbors must be >= 0, got %d", r.MinPictureNeighbors)
	}
	if r.DilateRounds < 0 {
		return fmt.Errorf("dilate_rounds must be >= 0, got %d", r.DilateRounds)
	}
	if r.UseCutRadius && r.CutRadiusDeg <= 0 {
		return fmt.Errorf("cut_radius_deg must be > 0 when the cut is enabled, got %v", r.CutRadiusDeg)
	}
	if r.Islands.SmallMax <= 0 || r.Islands.MediumMax <= r.Islands.SmallMax {
		return fmt.Errorf("island thresholds must satisfy 0 < small < medium, got %+v", r.Islands)
	}
	if r.PoissonNoise < 0 {
		return fmt.Errorf("poisson_noise must be >= 0, got %v", r.PoissonNoise)
	}
	if r.Workers < 1 {
		return fmt.Errorf("workers must be >= 1, got %d", r.Workers)
	}
	return nil
}

// LoadTuningConfig reads a TuningConfig from a JSON file. Unknown fields are
// rejected so typos surface before a run, not after it.
func LoadTuningConfig(path string) (*TuningConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read tuning config: %w", err)
	}
	var cfg TuningConfig
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("parse tuning config %s: %w", path, err)
	}
	return &cfg, nil
}
