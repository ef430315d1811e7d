// Package processor runs the DL1 chain: optional simulation handling,
// cleaning, mask dilation, and parameterization, per telescope frame. A
// Processor is built once from a resolved config and is safe for concurrent
// use across events.
package processor

import (
	"context"
	"fmt"
	"math/rand/v2"
	"sync"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/Yun532/pylast/internal/camera"
	"github.com/Yun532/pylast/internal/cleaning"
	"github.com/Yun532/pylast/internal/config"
	"github.com/Yun532/pylast/internal/event"
	"github.com/Yun532/pylast/internal/monitoring"
	"github.com/Yun532/pylast/internal/params"
)

// Telescope describes one array member: its camera and the optics needed to
// convert camera distances to angles.
type Telescope struct {
	Geom *camera.Geometry
	// FocalLength is the effective focal length in the same length unit
	// as the camera pixel coordinates.
	FocalLength float64
}

// Processor applies the configured chain to telescope frames.
type Processor struct {
	cfg     config.Resolved
	cleaner cleaning.Cleaner
	tels    map[int]Telescope
	// preMask caches the radius-cut pixel selection per telescope.
	preMask map[int][]bool
}

// New builds a Processor for a fixed telescope layout. The cleaner and the
// radius-cut masks are resolved here, off the per-event path.
func New(cfg config.Resolved, tels map[int]Telescope) (*Processor, error) {
	if len(tels) == 0 {
		return nil, fmt.Errorf("processor needs at least one telescope")
	}

	var cleaner cleaning.Cleaner
	switch cfg.CleanerType {
	case config.CleanerTailcuts:
		c := &cleaning.TailcutsCleaner{
			PictureThresh:       cfg.PictureThresh,
			BoundaryThresh:      cfg.BoundaryThresh,
			KeepIsolatedPixels:  cfg.KeepIsolatedPixels,
			MinPictureNeighbors: cfg.MinPictureNeighbors,
		}
		if err := c.Validate(); err != nil {
			return nil, err
		}
		cleaner = c
	case config.CleanerAutoTailcuts:
		cleaner = cleaning.NewAutoTailcutsCleaner()
	default:
		return nil, fmt.Errorf("unknown cleaner type %q", cfg.CleanerType)
	}

	p := &Processor{
		cfg:     cfg,
		cleaner: cleaner,
		tels:    tels,
		preMask: make(map[int][]bool),
	}
	if cfg.UseCutRadius {
		for id, tel := range tels {
			if tel.FocalLength <= 0 {
				return nil, fmt.Errorf("telescope %d: focal length must be > 0 for the radius cut, got %v",
					id, tel.FocalLength)
			}
			p.preMask[id] = cleaning.SelectByDistance(tel.Geom, tel.FocalLength, cfg.CutRadiusDeg)
		}
	}
	return p, nil
}

// ProcessFrame runs the chain for one telescope frame. The event ID seeds
// the simulated noise so reprocessing a run reproduces it bit for bit.
func (p *Processor) ProcessFrame(eventID int64, fr event.TelescopeFrame) (event.TelescopeDL1, error) {
	tel, ok := p.tels[fr.TelID]
	if !ok {
		return event.TelescopeDL1{}, fmt.Errorf("event %d: unknown telescope %d", eventID, fr.TelID)
	}

	image := fr.Image
	if p.cfg.UseTrueImage {
		if fr.TrueImage == nil {
			return event.TelescopeDL1{}, fmt.Errorf("event %d tel %d: true image requested but absent",
				eventID, fr.TelID)
		}
		image = fr.TrueImage
	}
	if len(image) != tel.Geom.NumPixels {
		return event.TelescopeDL1{}, fmt.Errorf("event %d tel %d: image has %d pixels, camera has %d",
			eventID, fr.TelID, len(image), tel.Geom.NumPixels)
	}

	if p.cfg.PoissonNoise > 0 {
		image = addNoise(image, p.cfg.PoissonNoise, uint64(eventID), uint64(fr.TelID))
	}

	dl1 := event.TelescopeDL1{TelID: fr.TelID, Triggered: true}
	if p.cfg.RequireTrigger && !p.triggered(image) {
		dl1.Triggered = false
		return dl1, nil
	}

	if pre := p.preMask[fr.TelID]; pre != nil {
		image = applyPreMask(image, pre)
	}

	mask := p.cleaner.Clean(tel.Geom, image)
	for i := 0; i < p.cfg.DilateRounds; i++ {
		mask = cleaning.Dilate(tel.Geom, mask)
	}

	dl1.Mask = mask
	dl1.Parameters = params.Parameterize(tel.Geom, image, mask, p.cfg.Islands)
	return dl1, nil
}

// ProcessEvent fills ev.DL1 with one entry per frame, in frame order.
func (p *Processor) ProcessEvent(ev *event.ArrayEvent) error {
	ev.DL1 = make([]event.TelescopeDL1, 0, len(ev.Frames))
	for _, fr := range ev.Frames {
		dl1, err := p.ProcessFrame(ev.EventID, fr)
		if err != nil {
			return err
		}
		ev.DL1 = append(ev.DL1, dl1)
	}
	return nil
}

// ProcessBatch processes events on a pool of cfg.Workers goroutines.
// Results land in each event's DL1 slice; the first error cancels the rest
// of the batch.
func (p *Processor) ProcessBatch(ctx context.Context, events []*event.ArrayEvent) error {
	if p.cfg.Workers <= 1 || len(events) <= 1 {
		for _, ev := range events {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := p.ProcessEvent(ev); err != nil {
				return err
			}
		}
		return nil
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	work := make(chan *event.ArrayEvent)
	var wg sync.WaitGroup
	var firstErr error
	var errOnce sync.Once

	for w := 0; w < p.cfg.Workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for ev := range work {
				if err := p.ProcessEvent(ev); err != nil {
					errOnce.Do(func() {
						firstErr = err
						cancel()
					})
					return
				}
			}
		}()
	}

feed:
	for _, ev := range events {
		select {
		case work <- ev:
		case <-ctx.Done():
			break feed
		}
	}
	close(work)
	wg.Wait()

	if firstErr != nil {
		return firstErr
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	monitoring.Logf("processed %d events on %d workers", len(events), p.cfg.Workers)
	return nil
}

// triggered reports whether enough pixels clear the trigger threshold.
func (p *Processor) triggered(image []float64) bool {
	n := 0
	for _, q := range image {
		if q >= p.cfg.TriggerThresh {
			n++
			if n >= p.cfg.TriggerMinPixels {
				return true
			}
		}
	}
	return false
}

// addNoise returns a copy of image with Poisson noise of the given mean
// added per pixel. The PCG stream is keyed on event and telescope so frames
// stay independent yet reproducible.
func addNoise(image []float64, level float64, eventID, telID uint64) []float64 {
	noise := distuv.Poisson{
		Lambda: level,
		Src:    rand.NewPCG(eventID, telID<<32|0x5851f42d),
	}
	out := make([]float64, len(image))
	for i, q := range image {
		out[i] = q + noise.Rand()
	}
	return out
}

// applyPreMask returns a copy of image with the pixels outside the radius
// cut zeroed, so the cleaner never picks them up.
func applyPreMask(image []float64, pre []bool) []float64 {
	out := make([]float64, len(image))
	for i, q := range image {
		if pre[i] {
			out[i] = q
		}
	}
	return out
}
