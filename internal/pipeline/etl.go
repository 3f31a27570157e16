// Package pipeline orchestrates the quarterly extract-transform-load run
// over FAERS ASCII drops.
package pipeline

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/aetrend/aetrend-cli/internal/config"
	"github.com/aetrend/aetrend-cli/internal/faers"
	"github.com/aetrend/aetrend-cli/internal/tabfile"
)

// QuarterReport records what happened to one discovered quarter.
type QuarterReport struct {
	Quarter string
	Events  int
	Skipped bool
	Reason  string
}

// RunSummary describes a completed ETL run.
type RunSummary struct {
	RunID       string
	StartedAt   time.Time
	Duration    time.Duration
	Quarters    []QuarterReport
	TotalEvents int
	Months      int
	OutDir      string
}

// Run executes the full pipeline: discover quarter drops under the raw
// directory, load and standardize each, join, consolidate across
// quarters, and write the event and aggregate files. A quarter whose
// mandatory tables cannot load is skipped and recorded rather than
// failing the run, unless strict mode is on.
func Run(cfg *config.Global) (*RunSummary, error) {
	start := time.Now()
	summary := &RunSummary{
		RunID:     uuid.New().String(),
		StartedAt: start,
		OutDir:    cfg.OutDir,
	}
	slog.Info("starting ETL run", "run_id", summary.RunID, "raw_dir", cfg.RawDir)

	quarters, err := faers.DiscoverQuarters(cfg.RawDir)
	if err != nil {
		return nil, err
	}
	if len(quarters) == 0 {
		return nil, fmt.Errorf("no quarter drops found under %s", cfg.RawDir)
	}
	if cfg.LimitQuarters > 0 && len(quarters) > cfg.LimitQuarters {
		quarters = quarters[len(quarters)-cfg.LimitQuarters:]
		slog.Info("limiting run to most recent quarters", "count", cfg.LimitQuarters)
	}

	diag := faers.JoinDiag{
		RowLossWarnPct:    cfg.JoinLossWarnPct,
		KeyOverlapWarnPct: cfg.KeyOverlapWarnPct,
	}
	readOpt := tabfile.Options{
		Delimiter: '$',
		Encodings: cfg.Encodings,
		ChunkSize: cfg.ChunkSize,
	}

	var perQuarter [][]faers.Event
	for _, q := range quarters {
		events, err := loadQuarter(q, readOpt, diag)
		report := QuarterReport{Quarter: q.Label(), Events: len(events)}
		if err != nil {
			if cfg.Strict {
				return nil, fmt.Errorf("quarter %s: %w", q.Label(), err)
			}
			report.Skipped = true
			report.Reason = err.Error()
			report.Events = 0
			slog.Warn("skipping quarter", "quarter", q.Label(), "reason", err)
		} else {
			perQuarter = append(perQuarter, events)
			slog.Info("quarter loaded", "quarter", q.Label(), "events", len(events))
		}
		summary.Quarters = append(summary.Quarters, report)
	}
	if len(perQuarter) == 0 {
		return nil, fmt.Errorf("all %d quarters failed to load", len(quarters))
	}

	events := faers.Consolidate(perQuarter)
	summary.TotalEvents = len(events)
	if err := faers.WriteOutputs(cfg.OutDir, events); err != nil {
		return nil, err
	}

	months, err := smokeCheck(cfg.OutDir, len(events))
	if err != nil {
		return nil, fmt.Errorf("output verification: %w", err)
	}
	summary.Months = months
	summary.Duration = time.Since(start)
	slog.Info("ETL run complete", "run_id", summary.RunID,
		"events", summary.TotalEvents, "months", summary.Months, "duration", summary.Duration)
	return summary, nil
}

// loadQuarter reads and standardizes one quarter's tables and joins them
// into events. Mandatory tables propagate their errors; optional tables
// degrade to absent with a log line.
func loadQuarter(q faers.Quarter, opt tabfile.Options, diag faers.JoinDiag) ([]faers.Event, error) {
	frames := make(map[faers.TableType]*faers.Frame)

	for _, typ := range faers.MandatoryTables {
		f, err := loadTable(q, typ, opt)
		if err != nil {
			return nil, fmt.Errorf("mandatory table %s: %w", typ, err)
		}
		frames[typ] = f
	}
	for _, typ := range faers.OptionalTables {
		f, err := loadTable(q, typ, opt)
		if err != nil {
			slog.Debug("optional table unavailable", "quarter", q.Label(), "table", typ, "reason", err)
			continue
		}
		frames[typ] = f
	}
	return faers.Join(frames, diag), nil
}

func loadTable(q faers.Quarter, typ faers.TableType, opt tabfile.Options) (*faers.Frame, error) {
	path, err := faers.TableFile(q, typ)
	if err != nil {
		return nil, err
	}
	tbl, err := tabfile.Read(path, opt)
	if err != nil {
		return nil, err
	}
	return faers.Standardize(tbl, typ)
}

// smokeCheck re-reads the written outputs and verifies the row counts
// line up, returning the number of month buckets.
func smokeCheck(outDir string, wantEvents int) (int, error) {
	events, err := readCSVRows(filepath.Join(outDir, faers.EventsFile))
	if err != nil {
		return 0, err
	}
	if events != wantEvents {
		return 0, fmt.Errorf("%s has %d rows, wrote %d events", faers.EventsFile, events, wantEvents)
	}
	months, err := readCSVRows(filepath.Join(outDir, faers.MonthlyFile))
	if err != nil {
		return 0, err
	}
	for _, name := range []string{faers.ByDrugFile, faers.ByReactionFile} {
		if _, err := readCSVRows(filepath.Join(outDir, name)); err != nil {
			return 0, err
		}
	}
	return months, nil
}

func readCSVRows(path string) (int, error) {
	tbl, err := tabfile.Read(path, tabfile.Options{Delimiter: ','})
	if err != nil {
		return 0, err
	}
	return len(tbl.Rows), nil
}
