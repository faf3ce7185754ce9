// Package runs records the lifecycle of simulation runs so that past runs
// can be listed and compared.
package runs

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
)

// Status is the lifecycle state of a run.
type Status string

const (
	StatusStaged    Status = "staged"
	StatusRunning   Status = "running"
	StatusSucceeded Status = "succeeded"
	StatusFailed    Status = "failed"
	StatusCancelled Status = "cancelled"
)

// Done reports whether the status is terminal.
func (s Status) Done() bool {
	return s == StatusSucceeded || s == StatusFailed || s == StatusCancelled
}

// RunRecord captures one state of a run. A run is appended once per state
// change; the latest record per ID describes the run.
type RunRecord struct {
	ID         string            `json:"id"`
	RunID      string            `json:"run_id"`
	Command    string            `json:"command"`
	Options    map[string]string `json:"options,omitempty"`
	Status     Status            `json:"status"`
	StagingDir string            `json:"staging_dir,omitempty"`
	OutputDir  string            `json:"output_dir,omitempty"`
	ExitCode   int               `json:"exit_code"`
	Error      string            `json:"error,omitempty"`
	StartedAt  time.Time         `json:"started_at"`
	FinishedAt time.Time         `json:"finished_at"`
	UpdatedAt  time.Time         `json:"updated_at"`
}

// NewRecord starts a record with a fresh ID.
func NewRecord(runID, command string, options map[string]string) RunRecord {
	now := time.Now().UTC()
	return RunRecord{
		ID:        uuid.NewString(),
		RunID:     runID,
		Command:   command,
		Options:   options,
		Status:    StatusStaged,
		StartedAt: now,
		UpdatedAt: now,
	}
}

// Duration is the wall time of a finished run, or the time so far.
func (r RunRecord) Duration() time.Duration {
	if r.FinishedAt.IsZero() {
		return time.Since(r.StartedAt)
	}
	return r.FinishedAt.Sub(r.StartedAt)
}

// RunQuery defines filters for retrieving records.
type RunQuery struct {
	RunID  string
	Status Status
	Since  time.Time
}

func (q RunQuery) matches(r RunRecord) bool {
	if q.RunID != "" && r.RunID != q.RunID {
		return false
	}
	if !q.Since.IsZero() && r.StartedAt.Before(q.Since) {
		return false
	}
	return true
}

// RunStore persists RunRecords and supports querying. Query ignores the
// status filter, which only applies to the latest state of a run.
type RunStore interface {
	Append(ctx context.Context, rec RunRecord) error
	Query(ctx context.Context, q RunQuery) ([]RunRecord, error)
	Close() error
}

// Latest keeps the most recent record per run ID, ordered by start time.
func Latest(recs []RunRecord) []RunRecord {
	byID := make(map[string]int, len(recs))
	var out []RunRecord
	for _, r := range recs {
		if i, ok := byID[r.ID]; ok {
			if !r.UpdatedAt.Before(out[i].UpdatedAt) {
				out[i] = r
			}
			continue
		}
		byID[r.ID] = len(out)
		out = append(out, r)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].StartedAt.Before(out[j].StartedAt) })
	return out
}

// List returns the latest state of each run matching q.
func List(ctx context.Context, s RunStore, q RunQuery) ([]RunRecord, error) {
	recs, err := s.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	latest := Latest(recs)
	if q.Status == "" {
		return latest, nil
	}
	out := latest[:0]
	for _, r := range latest {
		if r.Status == q.Status {
			out = append(out, r)
		}
	}
	return out, nil
}
