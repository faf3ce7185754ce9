// Package export writes run listings in machine readable formats.
package export

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"strconv"
	"time"

	"github.com/kilianp07/kelheim/core/runs"
)

// WriteJSON writes the run records to w in JSON format.
func WriteJSON(w io.Writer, records []runs.RunRecord) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(records)
}

// WriteCSV writes one row per run record.
func WriteCSV(w io.Writer, records []runs.RunRecord) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"id", "run_id", "status", "started_at", "finished_at", "duration_s", "exit_code", "output_dir"}); err != nil {
		return err
	}
	for _, r := range records {
		finished := ""
		if !r.FinishedAt.IsZero() {
			finished = r.FinishedAt.Format(time.RFC3339)
		}
		rec := []string{
			r.ID,
			r.RunID,
			string(r.Status),
			r.StartedAt.Format(time.RFC3339),
			finished,
			strconv.FormatFloat(r.Duration().Seconds(), 'f', 0, 64),
			strconv.Itoa(r.ExitCode),
			r.OutputDir,
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
