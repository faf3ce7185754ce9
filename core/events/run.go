package events

import "time"

// Kind identifies a run lifecycle step.
type Kind string

const (
	KindStaged    Kind = "staged"
	KindStarted   Kind = "started"
	KindIteration Kind = "iteration"
	KindFinished  Kind = "finished"
)

// RunEvent is published for every lifecycle step of a run. Elapsed is the
// time since the run started.
type RunEvent struct {
	RunID     string        `json:"run_id"`
	RecordID  string        `json:"record_id"`
	Kind      Kind          `json:"kind"`
	Iteration int           `json:"iteration,omitempty"`
	Status    string        `json:"status,omitempty"`
	ExitCode  int           `json:"exit_code,omitempty"`
	Error     string        `json:"error,omitempty"`
	Elapsed   time.Duration `json:"elapsed_ns,omitempty"`
	Time      time.Time     `json:"time"`
}

// HighwayPatchEvent reports links inserted by a network patch.
type HighwayPatchEvent struct {
	RunID        string    `json:"run_id"`
	Plan         string    `json:"plan"`
	AddedLinks   int       `json:"added_links"`
	FreightLinks int       `json:"freight_links"`
	Connected    bool      `json:"connected"`
	Time         time.Time `json:"time"`
}
