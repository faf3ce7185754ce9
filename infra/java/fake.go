package java

import (
	"context"
	"sync"
	"time"
)

// FakeRunner replays canned output instead of starting a process.
type FakeRunner struct {
	Lines    []string
	ExitCode int
	Err      error

	mu    sync.Mutex
	calls []Command
}

func (f *FakeRunner) Run(ctx context.Context, cmd Command, onLine LineHandler) (Result, error) {
	f.mu.Lock()
	f.calls = append(f.calls, cmd)
	f.mu.Unlock()
	res := Result{StartedAt: time.Now(), ExitCode: f.ExitCode}
	for _, l := range f.Lines {
		if err := ctx.Err(); err != nil {
			res.FinishedAt = time.Now()
			res.ExitCode = -1
			return res, err
		}
		if onLine != nil {
			onLine(Stdout, l)
		}
	}
	res.FinishedAt = time.Now()
	return res, f.Err
}

// Calls returns the commands passed to Run.
func (f *FakeRunner) Calls() []Command {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Command(nil), f.calls...)
}
