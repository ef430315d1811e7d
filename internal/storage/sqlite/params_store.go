package sqlite

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/Yun532/pylast/internal/event"
	"github.com/Yun532/pylast/internal/params"
)

// Run identifies one processing pass over an event stream, pinning the
// camera and the configuration it ran with.
type Run struct {
	RunID      string          `json:"run_id"`
	CameraName string          `json:"camera_name"`
	ConfigJSON json.RawMessage `json:"config_json,omitempty"`
	CreatedAt  int64           `json:"created_at"`
}

// TelescopeRecord is one persisted telescope parameterization. NaN-valued
// parameters round-trip through NULL columns.
type TelescopeRecord struct {
	RunID      string
	EventID    int64
	TelID      int
	Triggered  bool
	Parameters params.ImageParameters
}

// CreateRun inserts a new run row. An empty RunID gets a fresh UUID.
func (s *Store) CreateRun(run *Run) error {
	if run.RunID == "" {
		run.RunID = uuid.New().String()
	}
	if run.CreatedAt == 0 {
		run.CreatedAt = time.Now().UnixNano()
	}

	var cfg interface{}
	if len(run.ConfigJSON) > 0 {
		cfg = string(run.ConfigJSON)
	}
	err := retryOnBusy(func() error {
		_, err := s.db.Exec(`
			INSERT INTO runs (run_id, camera_name, config_json, created_at)
			VALUES (?, ?, ?, ?)`,
			run.RunID, run.CameraName, cfg, run.CreatedAt)
		return err
	})
	if err != nil {
		return fmt.Errorf("inserting run %s: %w", run.RunID, err)
	}
	return nil
}

// GetRun loads one run row by ID.
func (s *Store) GetRun(runID string) (*Run, error) {
	var run Run
	var cfg sql.NullString
	err := s.db.QueryRow(`
		SELECT run_id, camera_name, config_json, created_at
		FROM runs WHERE run_id = ?`, runID).
		Scan(&run.RunID, &run.CameraName, &cfg, &run.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("loading run %s: %w", runID, err)
	}
	if cfg.Valid {
		run.ConfigJSON = json.RawMessage(cfg.String)
	}
	return &run, nil
}

const insertParametersSQL = `
	INSERT INTO telescope_parameters (
		run_id, event_id, tel_id, triggered,
		hillas_intensity, hillas_x, hillas_y, hillas_length, hillas_width,
		hillas_psi, hillas_skewness, hillas_kurtosis, hillas_r, hillas_phi,
		leakage_pixels_width_1, leakage_pixels_width_2,
		leakage_intensity_width_1, leakage_intensity_width_2,
		concentration_cog, concentration_core, concentration_pixel,
		morphology_n_pixels, morphology_n_islands, morphology_n_small_islands,
		morphology_n_medium_islands, morphology_n_large_islands,
		intensity_max, intensity_mean, intensity_std,
		intensity_skewness, intensity_kurtosis
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

func insertParametersArgs(runID string, eventID int64, dl1 event.TelescopeDL1) []interface{} {
	p := dl1.Parameters
	return []interface{}{
		runID, eventID, dl1.TelID, dl1.Triggered,
		nullFloat(p.Hillas.Intensity), nullFloat(p.Hillas.X), nullFloat(p.Hillas.Y),
		nullFloat(p.Hillas.Length), nullFloat(p.Hillas.Width),
		nullFloat(p.Hillas.Psi), nullFloat(p.Hillas.Skewness), nullFloat(p.Hillas.Kurtosis),
		nullFloat(p.Hillas.R), nullFloat(p.Hillas.Phi),
		nullFloat(p.Leakage.PixelsWidth1), nullFloat(p.Leakage.PixelsWidth2),
		nullFloat(p.Leakage.IntensityWidth1), nullFloat(p.Leakage.IntensityWidth2),
		nullFloat(p.Concentration.Cog), nullFloat(p.Concentration.Core), nullFloat(p.Concentration.Pixel),
		p.Morphology.NPixels, p.Morphology.NIslands, p.Morphology.NSmallIslands,
		p.Morphology.NMediumIslands, p.Morphology.NLargeIslands,
		nullFloat(p.Intensity.Max), nullFloat(p.Intensity.Mean), nullFloat(p.Intensity.Std),
		nullFloat(p.Intensity.Skewness), nullFloat(p.Intensity.Kurtosis),
	}
}

// InsertParameters persists one telescope's DL1 output for an event.
func (s *Store) InsertParameters(runID string, eventID int64, dl1 event.TelescopeDL1) error {
	err := retryOnBusy(func() error {
		_, err := s.db.Exec(insertParametersSQL, insertParametersArgs(runID, eventID, dl1)...)
		return err
	})
	if err != nil {
		return fmt.Errorf("inserting parameters run %s event %d tel %d: %w",
			runID, eventID, dl1.TelID, err)
	}
	return nil
}

// InsertEvent persists every DL1 entry of an event in one transaction.
func (s *Store) InsertEvent(runID string, ev *event.ArrayEvent) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin event insert: %w", err)
	}
	defer tx.Rollback()

	for _, dl1 := range ev.DL1 {
		if _, err := tx.Exec(insertParametersSQL, insertParametersArgs(runID, ev.EventID, dl1)...); err != nil {
			return fmt.Errorf("inserting parameters run %s event %d tel %d: %w",
				runID, ev.EventID, dl1.TelID, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit event %d: %w", ev.EventID, err)
	}
	return nil
}

// ListByRun returns all records for a run ordered by event then telescope.
func (s *Store) ListByRun(runID string) ([]*TelescopeRecord, error) {
	rows, err := s.db.Query(`
		SELECT run_id, event_id, tel_id, triggered,
		       hillas_intensity, hillas_x, hillas_y, hillas_length, hillas_width,
		       hillas_psi, hillas_skewness, hillas_kurtosis, hillas_r, hillas_phi,
		       leakage_pixels_width_1, leakage_pixels_width_2,
		       leakage_intensity_width_1, leakage_intensity_width_2,
		       concentration_cog, concentration_core, concentration_pixel,
		       morphology_n_pixels, morphology_n_islands, morphology_n_small_islands,
		       morphology_n_medium_islands, morphology_n_large_islands,
		       intensity_max, intensity_mean, intensity_std,
		       intensity_skewness, intensity_kurtosis
		FROM telescope_parameters
		WHERE run_id = ?
		ORDER BY event_id, tel_id`, runID)
	if err != nil {
		return nil, fmt.Errorf("query parameters: %w", err)
	}
	defer rows.Close()

	var out []*TelescopeRecord
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// CountByRun returns the number of persisted telescope records for a run.
func (s *Store) CountByRun(runID string) (int, error) {
	var n int
	err := s.db.QueryRow(`
		SELECT COUNT(*) FROM telescope_parameters WHERE run_id = ?`, runID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count parameters: %w", err)
	}
	return n, nil
}

func scanRecord(rows *sql.Rows) (*TelescopeRecord, error) {
	var rec TelescopeRecord
	p := &rec.Parameters

	var (
		hi, hx, hy, hl, hw, hp, hs, hk, hr, hphi sql.NullFloat64
		lp1, lp2, li1, li2                       sql.NullFloat64
		cc, ccore, cp                            sql.NullFloat64
		im, imean, istd, iskew, ikurt            sql.NullFloat64
	)
	err := rows.Scan(&rec.RunID, &rec.EventID, &rec.TelID, &rec.Triggered,
		&hi, &hx, &hy, &hl, &hw, &hp, &hs, &hk, &hr, &hphi,
		&lp1, &lp2, &li1, &li2,
		&cc, &ccore, &cp,
		&p.Morphology.NPixels, &p.Morphology.NIslands, &p.Morphology.NSmallIslands,
		&p.Morphology.NMediumIslands, &p.Morphology.NLargeIslands,
		&im, &imean, &istd, &iskew, &ikurt,
	)
	if err != nil {
		return nil, fmt.Errorf("scan parameters: %w", err)
	}
	p.Hillas = params.Hillas{
		Intensity: floatOrNaN(hi), X: floatOrNaN(hx), Y: floatOrNaN(hy),
		Length: floatOrNaN(hl), Width: floatOrNaN(hw), Psi: floatOrNaN(hp),
		Skewness: floatOrNaN(hs), Kurtosis: floatOrNaN(hk),
		R: floatOrNaN(hr), Phi: floatOrNaN(hphi),
	}
	p.Leakage = params.Leakage{
		PixelsWidth1: floatOrNaN(lp1), PixelsWidth2: floatOrNaN(lp2),
		IntensityWidth1: floatOrNaN(li1), IntensityWidth2: floatOrNaN(li2),
	}
	p.Concentration = params.Concentration{
		Cog: floatOrNaN(cc), Core: floatOrNaN(ccore), Pixel: floatOrNaN(cp),
	}
	p.Intensity = params.Intensity{
		Max: floatOrNaN(im), Mean: floatOrNaN(imean), Std: floatOrNaN(istd),
		Skewness: floatOrNaN(iskew), Kurtosis: floatOrNaN(ikurt),
	}
	return &rec, nil
}

// nullFloat maps NaN to NULL so the schema never stores the literal string
// "NaN" a driver might otherwise produce.
func nullFloat(v float64) interface{} {
	if math.IsNaN(v) {
		return nil
	}
	return v
}

func floatOrNaN(v sql.NullFloat64) float64 {
	if !v.Valid {
		return math.NaN()
	}
	return v.Float64
}
