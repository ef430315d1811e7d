// Command telparams runs the image parameterization chain over simulated
// shower events: clean each camera image, extract the moment parameters,
// persist them to SQLite, and optionally render an HTML report and a camera
// display of the brightest image.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"math"
	"os"

	"github.com/Yun532/pylast/internal/camera"
	"github.com/Yun532/pylast/internal/config"
	"github.com/Yun532/pylast/internal/display"
	"github.com/Yun532/pylast/internal/event"
	"github.com/Yun532/pylast/internal/processor"
	"github.com/Yun532/pylast/internal/report"
	"github.com/Yun532/pylast/internal/simulate"
	sqlite "github.com/Yun532/pylast/internal/storage/sqlite"
)

func main() {
	// Camera layout
	cameraName := flag.String("camera", "sim-square", "Camera name recorded with the run")
	rows := flag.Int("rows", 40, "Camera rows")
	cols := flag.Int("cols", 40, "Camera columns")
	pitch := flag.Float64("pitch", 0.01, "Pixel pitch in meters")
	focalLength := flag.Float64("focal-length", 16.0, "Effective focal length in meters")

	// Event generation
	telescopes := flag.Int("telescopes", 4, "Telescopes per event")
	events := flag.Int("events", 100, "Number of events to simulate")
	nsb := flag.Float64("nsb", 1.0, "Mean night-sky background per pixel")
	seed := flag.Uint64("seed", 1, "Simulation seed")

	// Processing
	configPath := flag.String("config", "", "Tuning config JSON (defaults apply when empty)")

	// Outputs
	dbPath := flag.String("db", "telparams.db", "SQLite database path")
	reportPath := flag.String("report", "", "Write an HTML report to this path")
	displayPath := flag.String("display", "", "Write a PNG of the brightest image to this path")
	flag.Parse()

	if err := run(*cameraName, *rows, *cols, *pitch, *focalLength,
		*telescopes, *events, *nsb, *seed,
		*configPath, *dbPath, *reportPath, *displayPath); err != nil {
		log.Fatalf("telparams: %v", err)
	}
}

func run(cameraName string, rows, cols int, pitch, focalLength float64,
	telescopes, nEvents int, nsb float64, seed uint64,
	configPath, dbPath, reportPath, displayPath string) error {

	var tuning *config.TuningConfig
	if configPath != "" {
		var err error
		tuning, err = config.LoadTuningConfig(configPath)
		if err != nil {
			return err
		}
	}
	cfg, err := tuning.Resolve()
	if err != nil {
		return err
	}

	geom, err := camera.NewSquareGrid(cameraName, rows, cols, pitch)
	if err != nil {
		return err
	}
	tels := make(map[int]processor.Telescope, telescopes)
	for id := 1; id <= telescopes; id++ {
		tels[id] = processor.Telescope{Geom: geom, FocalLength: focalLength}
	}
	proc, err := processor.New(cfg, tels)
	if err != nil {
		return err
	}

	log.Printf("simulating %d events on %q (%dx%d, %d telescopes)",
		nEvents, cameraName, rows, cols, telescopes)
	batch := simulate.NewSource(geom, telescopes, nsb, seed).Events(nEvents)
	if err := proc.ProcessBatch(context.Background(), batch); err != nil {
		return err
	}

	store, err := sqlite.Open(dbPath)
	if err != nil {
		return err
	}
	defer store.Close()

	cfgJSON, err := json.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encode run config: %w", err)
	}
	runRec := &sqlite.Run{CameraName: cameraName, ConfigJSON: cfgJSON}
	if err := store.CreateRun(runRec); err != nil {
		return err
	}
	for _, ev := range batch {
		if err := store.InsertEvent(runRec.RunID, ev); err != nil {
			return err
		}
	}
	n, err := store.CountByRun(runRec.RunID)
	if err != nil {
		return err
	}
	log.Printf("run %s: stored %d telescope records in %s", runRec.RunID, n, dbPath)

	if reportPath != "" {
		recs, err := store.ListByRun(runRec.RunID)
		if err != nil {
			return err
		}
		if err := report.WriteFile(reportPath, runRec.RunID, recs); err != nil {
			return err
		}
		log.Printf("wrote report %s", reportPath)
	}

	if displayPath != "" {
		if err := writeBrightestDisplay(displayPath, geom, batch); err != nil {
			return err
		}
		log.Printf("wrote camera display %s", displayPath)
	}
	return nil
}

// writeBrightestDisplay renders the frame with the highest retained
// intensity across the batch.
func writeBrightestDisplay(path string, geom *camera.Geometry, batch []*event.ArrayEvent) error {
	bestIntensity := math.Inf(-1)
	var bestEv *event.ArrayEvent
	bestFrame := -1
	for _, ev := range batch {
		for k, dl1 := range ev.DL1 {
			if i := dl1.Parameters.Hillas.Intensity; !math.IsNaN(i) && i > bestIntensity {
				bestIntensity = i
				bestEv = ev
				bestFrame = k
			}
		}
	}
	if bestEv == nil {
		fmt.Fprintln(os.Stderr, "no parameterized image to display")
		return nil
	}

	fr := bestEv.Frames[bestFrame]
	dl1 := bestEv.DL1[bestFrame]
	title := fmt.Sprintf("event %d tel %d (intensity %.0f p.e.)",
		bestEv.EventID, fr.TelID, bestIntensity)
	return display.SavePNG(path, geom, fr.Image, dl1.Mask, &dl1.Parameters.Hillas, title)
}
