package java

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"sync"
	"time"

	"github.com/kilianp07/kelheim/infra/logger"
)

// Stream names passed to a LineHandler.
const (
	Stdout = "stdout"
	Stderr = "stderr"
)

// ErrNonZeroExit is returned when the process exits with a non-zero code.
var ErrNonZeroExit = errors.New("java: process exited with non-zero code")

// maxLine bounds a single output line; MATSim stack traces can be long.
const maxLine = 1 << 20

// LineHandler receives every output line. Calls are serialized.
type LineHandler func(stream, line string)

// Result describes a finished process.
type Result struct {
	ExitCode   int
	StartedAt  time.Time
	FinishedAt time.Time
}

// Duration is the wall time of the process.
func (r Result) Duration() time.Duration { return r.FinishedAt.Sub(r.StartedAt) }

// Runner executes a command until it exits or the context is canceled.
type Runner interface {
	Run(ctx context.Context, cmd Command, onLine LineHandler) (Result, error)
}

// ExecRunner runs commands on the host with os/exec. On cancellation the
// process gets an interrupt and GracePeriod to shut down before it is killed.
type ExecRunner struct {
	GracePeriod time.Duration
	log         logger.Logger
}

// NewExecRunner returns a runner logging under the "java" component.
func NewExecRunner() *ExecRunner {
	return &ExecRunner{GracePeriod: 30 * time.Second, log: logger.New("java")}
}

func (r *ExecRunner) Run(ctx context.Context, cmd Command, onLine LineHandler) (Result, error) {
	res := Result{ExitCode: -1}
	if onLine == nil {
		onLine = func(string, string) {}
	}
	c := exec.CommandContext(ctx, cmd.Binary, cmd.Args...)
	c.Dir = cmd.Dir
	if len(cmd.Env) > 0 {
		c.Env = append(os.Environ(), cmd.Env...)
	}
	c.Cancel = func() error { return c.Process.Signal(os.Interrupt) }
	c.WaitDelay = r.GracePeriod

	var mu sync.Mutex
	emit := func(stream, line string) {
		mu.Lock()
		defer mu.Unlock()
		onLine(stream, line)
	}
	stdout := &lineWriter{stream: Stdout, emit: emit}
	stderr := &lineWriter{stream: Stderr, emit: emit}
	c.Stdout = stdout
	c.Stderr = stderr

	r.log.Infof("starting %s", cmd.String())
	res.StartedAt = time.Now()
	if err := c.Start(); err != nil {
		res.FinishedAt = time.Now()
		return res, fmt.Errorf("start %s: %w", cmd.Binary, err)
	}

	err := c.Wait()
	stdout.flush()
	stderr.flush()
	res.FinishedAt = time.Now()
	if c.ProcessState != nil {
		res.ExitCode = c.ProcessState.ExitCode()
	}
	if ctx.Err() != nil {
		return res, fmt.Errorf("java interrupted: %w", ctx.Err())
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return res, fmt.Errorf("%w: %d", ErrNonZeroExit, res.ExitCode)
	}
	if err != nil {
		return res, fmt.Errorf("wait %s: %w", cmd.Binary, err)
	}
	return res, nil
}

// lineWriter splits process output into lines. exec copies each stream
// from a single goroutine, so Write is never called concurrently.
type lineWriter struct {
	stream string
	emit   LineHandler
	buf    []byte
}

func (w *lineWriter) Write(p []byte) (int, error) {
	w.buf = append(w.buf, p...)
	for {
		i := bytes.IndexByte(w.buf, '\n')
		if i < 0 {
			break
		}
		w.emit(w.stream, strings.TrimRight(string(w.buf[:i]), "\r"))
		w.buf = w.buf[i+1:]
	}
	if len(w.buf) > maxLine {
		w.flush()
	}
	return len(p), nil
}

func (w *lineWriter) flush() {
	if len(w.buf) == 0 {
		return
	}
	w.emit(w.stream, strings.TrimRight(string(w.buf), "\r"))
	w.buf = nil
}
