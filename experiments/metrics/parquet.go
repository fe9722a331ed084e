package metrics

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/parquet-go/parquet-go"
	"github.com/parquet-go/parquet-go/compress/zstd"
)

// TrialRow is the Parquet layout of a TrialRecord.
type TrialRow struct {
	Trial      int32 `parquet:"trial"`
	Seed       int64 `parquet:"seed"`
	Captured   bool  `parquet:"captured"`
	Steps      int32 `parquet:"steps"`
	StartUnix  int64 `parquet:"start_unix_ms"`
	DurationMs int64 `parquet:"duration_ms"`
}

// StepRow is the Parquet layout of a StepRecord.
type StepRow struct {
	Trial            int32 `parquet:"trial"`
	Step             int32 `parquet:"step"`
	Agent            int32 `parquet:"agent"`
	DurationUs       int64 `parquet:"duration_us"`
	Rollouts         int32 `parquet:"rollouts"`
	TerminalRollouts int32 `parquet:"terminal_rollouts"`
	Depth            int32 `parquet:"depth"`
	MaxDepth         int32 `parquet:"max_depth"`
	IsStatsReused    bool  `parquet:"is_stats_reused"`
}

func (w *Writer) WriteTrialParquet(records []TrialRecord) error {
	rows := make([]TrialRow, len(records))
	for i, r := range records {
		rows[i] = TrialRow{
			Trial:      int32(r.Trial),
			Seed:       int64(r.Seed),
			Captured:   r.Captured,
			Steps:      int32(r.Steps),
			StartUnix:  r.StartTime.UnixMilli(),
			DurationMs: r.Duration.Milliseconds(),
		}
	}
	return writeParquet(filepath.Join(w.baseDir, "trials.parquet"), rows, "trials_v1")
}

func (w *Writer) WriteStepParquet(records []StepRecord) error {
	rows := make([]StepRow, len(records))
	for i, r := range records {
		rows[i] = StepRow{
			Trial:            int32(r.Trial),
			Step:             int32(r.Step),
			Agent:            int32(r.Agent),
			DurationUs:       r.Duration.Microseconds(),
			Rollouts:         int32(r.Rollouts),
			TerminalRollouts: int32(r.TerminalRollouts),
			Depth:            int32(r.Depth),
			MaxDepth:         int32(r.MaxDepth),
			IsStatsReused:    r.IsStatsReused,
		}
	}
	return writeParquet(filepath.Join(w.baseDir, "steps.parquet"), rows, "steps_v1")
}

func writeParquet[T any](outPath string, rows []T, schema string) error {
	// Write to a temp file and rename atomically.
	tmpPath := outPath + ".tmp"
	_ = os.Remove(tmpPath)

	if err := parquet.WriteFile(tmpPath, rows,
		parquet.Compression(&zstd.Codec{Level: zstd.SpeedDefault}),
		parquet.KeyValueMetadata("schema", schema),
	); err != nil {
		return fmt.Errorf("write parquet: %w", err)
	}
	if err := os.Rename(tmpPath, outPath); err != nil {
		return fmt.Errorf("rename parquet: %w", err)
	}
	return nil
}
