// Package worker implements the per-worker candidate pump: fetch a batch
// from the source façade, hand each candidate to the backend, maintain
// local stats, and react to the supervisor's cancellation signal. Grounded
// on Asylian's worker() goroutine -- a tight generate/check loop with
// batched atomic counters and continue-on-error -- generalized from address
// generation to the dictionary/incremental pipeline.
package worker

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync/atomic"

	"github.com/Asylian21/passcrack/backend"
	"github.com/Asylian21/passcrack/engine"
	"github.com/Asylian21/passcrack/source"
)

// State is a worker's terminal outcome: RUNNING -> {SOLVED, EXHAUSTED, ABORTED}.
type State int

const (
	Running State = iota
	Solved
	Exhausted
	Aborted
)

func (s State) String() string {
	switch s {
	case Solved:
		return "solved"
	case Exhausted:
		return "exhausted"
	case Aborted:
		return "aborted"
	default:
		return "running"
	}
}

// Result is what a worker goroutine reports back to the supervisor.
type Result struct {
	ID    int
	State State
	Err   error
}

// Stats is one worker's local progress counters, read by the stats-signal
// handler (worker 0 only).
type Stats struct {
	Phrases uint64
	Latest  string
}

// Worker runs candidates from a Source through a Backend for one worker
// slot.
type Worker struct {
	ID      int
	Workers int
	Backend backend.Backend
	Source  source.Source

	// BufferSize is B, the batch size requested from the source on each
	// GetWords call.
	BufferSize int

	// ErrOut receives "[backend] ..." lines for per-candidate failures --
	// a failed TryPhrase call is logged and the worker continues.
	// Defaults to os.Stderr.
	ErrOut io.Writer

	stats      atomic.Uint64 // total phrases tried
	thousands  atomic.Uint64 // bumped when Run's local count*Workers > 1000; that local count is then reset
	latestWord atomic.Value  // string
}

// New returns a Worker. bufferSize defaults to source.WordBufferSize if 0.
func New(id, workers int, b backend.Backend, s source.Source, bufferSize int) *Worker {
	if bufferSize <= 0 {
		bufferSize = source.WordBufferSize
	}
	w := &Worker{ID: id, Workers: workers, Backend: b, Source: s, BufferSize: bufferSize, ErrOut: os.Stderr}
	w.latestWord.Store("")
	return w
}

// Run executes the worker loop until the source is exhausted or ctx is
// cancelled.
func (w *Worker) Run(ctx context.Context) Result {
	if err := w.Source.Init(w.ID, w.Workers); err != nil {
		return Result{ID: w.ID, State: Aborted, Err: fmt.Errorf("worker %d: source init: %w", w.ID, err)}
	}
	defer w.Source.Close()

	buf := make([][]byte, w.BufferSize)
	for i := range buf {
		buf[i] = make([]byte, 0, source.MaxWordLength+1)
	}

	if err := w.Backend.WorkerInit(w.ID); err != nil {
		return Result{ID: w.ID, State: Aborted, Err: fmt.Errorf("worker %d: backend init: %w", w.ID, err)}
	}

	localCount := 0
	for {
		select {
		case <-ctx.Done():
			w.Backend.WorkerFinish(w.ID)
			return Result{ID: w.ID, State: Aborted}
		default:
		}

		for i := range buf {
			buf[i] = buf[i][:cap(buf[i])][:0]
		}
		n, err := w.Source.GetWords(buf)
		if err != nil {
			w.Backend.WorkerFinish(w.ID)
			return Result{ID: w.ID, State: Aborted, Err: fmt.Errorf("worker %d: source: %w", w.ID, err)}
		}
		if n == 0 {
			w.Backend.WorkerFinish(w.ID)
			return Result{ID: w.ID, State: Exhausted}
		}

		for j := 0; j < n; j++ {
			status, err := w.Backend.TryPhrase(w.ID, buf[j])
			if err != nil {
				// PROTOCOL/TRANSIENT error: logged, the worker continues.
				engine.Logf(w.ErrOut, w.Backend.Info().Name, "try_phrase failed for %q: %v", buf[j], err)
			}

			w.stats.Add(1)
			w.latestWord.Store(string(buf[j]))
			localCount++
			if uint64(localCount)*uint64(w.Workers) > 1000 {
				w.thousands.Add(1)
				localCount = 0
			}

			switch status {
			case backend.StatusCompleted:
				w.Backend.WorkerFinish(w.ID)
				return Result{ID: w.ID, State: Solved}
			case backend.StatusFail:
				continue
			case backend.StatusContinue:
				continue
			}
		}

		select {
		case <-ctx.Done():
			w.Backend.WorkerFinish(w.ID)
			return Result{ID: w.ID, State: Aborted}
		default:
		}
	}
}

// SnapshotStats reads this worker's current counters, safe to call from any
// goroutine (used by worker 0's stats-signal handler).
func (w *Worker) SnapshotStats() Stats {
	return Stats{
		Phrases: w.stats.Load(),
		Latest:  w.latestWord.Load().(string),
	}
}
