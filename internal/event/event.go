// Package event defines the per-event records exchanged with the calibration
// and reconstruction collaborators. The processor fills the DL1 section; the
// calibrated images come from upstream and are treated as read-only here.
package event

import "github.com/Yun532/pylast/internal/params"

// TelescopeFrame is one camera's view of an event: the calibrated charge
// image and, for simulated events, the noiseless true image.
type TelescopeFrame struct {
	TelID int
	// Image holds one calibrated charge per pixel, indexed like the
	// telescope's camera geometry.
	Image []float64
	// PeakTime optionally holds the per-pixel signal peak time.
	PeakTime []float64
	// TrueImage optionally holds the simulated photoelectron counts.
	TrueImage []float64
}

// TelescopeDL1 is the parameterization output for one telescope: the final
// signal mask and the full parameter bundle attached to the event record.
type TelescopeDL1 struct {
	TelID      int
	Mask       []bool
	Parameters params.ImageParameters
	// Triggered is false when the simulated camera failed the trigger
	// check; the parameter bundle is then absent from DL1.
	Triggered bool
}

// ArrayEvent is one recorded air-shower event across the telescope array.
type ArrayEvent struct {
	EventID int64
	Frames  []TelescopeFrame
	// DL1 holds one entry per processed frame, in frame order.
	DL1 []TelescopeDL1
}
