// Package supervisor spawns the worker pool, installs signal handlers, and
// reaps workers to completion or broadcast termination. Grounded on
// Asylian's main() orchestration (sync.WaitGroup, buffered channels, ordered
// startup/shutdown of worker/writer/stats goroutines), generalized to run
// until solved, exhausted, or signaled rather than forever.
package supervisor

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/Asylian21/passcrack/backend"
	"github.com/Asylian21/passcrack/engine"
	"github.com/Asylian21/passcrack/source"
	"github.com/Asylian21/passcrack/worker"
)

// Config describes one run of the engine.
type Config struct {
	Workers    int
	Descriptor source.Descriptor
	BufferSize int

	// NewBackend is called once to construct the single backend.Backend
	// instance shared by every worker goroutine in this run. The backend
	// is responsible for making its own TryPhrase calls safe for
	// concurrent, multi-worker use.
	NewBackend func() backend.Backend

	// Registrar receives solved (key, passphrase) pairs. Typically an
	// *engine.Printer, so its accumulated Results can be read back after
	// Run returns.
	Registrar backend.Registrar
	Stdout    io.Writer
	Stderr    io.Writer
}

type noRegistrar struct{}

func (noRegistrar) RegisterPassword(string, string) {}

// Outcome is the result of running the supervisor to completion.
type Outcome struct {
	// Solved is true if any worker reported a passphrase.
	Solved bool
	// ExitCode is 0 on clean completion, non-zero on configuration or
	// backend-init failure.
	ExitCode int
	Results  []engine.Found
}

// Supervisor owns the worker pool for a single engine run.
type Supervisor struct {
	cfg Config

	mu        sync.Mutex
	completed int

	statsRequested chan int // worker IDs, for SIGUSR1 routing (worker 0 only)
}

// New returns a Supervisor for cfg. Workers below 1 are corrected to 1.
func New(cfg Config) *Supervisor {
	if cfg.Workers < 1 {
		cfg.Workers = 1
	}
	if cfg.BufferSize <= 0 {
		cfg.BufferSize = source.WordBufferSize
	}
	if cfg.Stdout == nil {
		cfg.Stdout = os.Stdout
	}
	if cfg.Stderr == nil {
		cfg.Stderr = os.Stderr
	}
	return &Supervisor{cfg: cfg, statsRequested: make(chan int, 1)}
}

// Run installs signal handlers, runs backend.Init, spawns the worker pool,
// and blocks until every worker has exited.
func (s *Supervisor) Run(ctx context.Context) (Outcome, error) {
	printer := s.cfg.Registrar
	if printer == nil {
		printer = noRegistrar{}
	}

	b0 := s.cfg.NewBackend()
	b0.SetRegistrar(printer)
	if err := b0.Init(s.cfg.Workers); err != nil {
		return Outcome{ExitCode: 1}, fmt.Errorf("supervisor: backend init: %w", err)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sigCh := make(chan os.Signal, 4)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM, syscall.SIGUSR1)
	defer signal.Stop(sigCh)

	results := make(chan worker.Result, s.cfg.Workers)
	workers := make([]*worker.Worker, s.cfg.Workers)

	// b0 is shared by every worker goroutine: Init(W) happens once before
	// any worker starts, mirroring the original fork() model where a
	// child inherits the parent's post-Init memory via copy-on-write.
	// With goroutines there is no fork, so the equivalent translation is
	// to share one Backend value and rely on the backend itself (not the
	// worker loop) to make concurrent TryPhrase calls safe.
	var wg sync.WaitGroup
	for id := 0; id < s.cfg.Workers; id++ {
		src := source.New(s.cfg.Descriptor)
		w := worker.New(id, s.cfg.Workers, b0, src, s.cfg.BufferSize)
		w.ErrOut = s.cfg.Stderr
		workers[id] = w

		wg.Add(1)
		go func() {
			defer wg.Done()
			results <- w.Run(ctx)
		}()
	}

	go func() {
		for sig := range sigCh {
			switch sig {
			case syscall.SIGUSR1:
				s.printStats(workers)
			default: // os.Interrupt, SIGTERM: the TERMINATE signal
				cancel()
			}
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	var outcome Outcome
	for res := range results {
		s.mu.Lock()
		s.completed++
		s.mu.Unlock()

		if res.Err != nil {
			engine.Errorf(b0.Info().Name, "worker %d failed: %v", res.ID, res.Err)
		}
		if res.State == worker.Solved {
			outcome.Solved = true
			cancel() // broadcast TERMINATE to the remaining workers
		}
	}

	b0.Finish()

	if printerImpl, ok := printer.(interface{ Results() []engine.Found }); ok {
		outcome.Results = printerImpl.Results()
	}
	return outcome, nil
}

// printStats handles the stats-request signal: only worker 0 prints, in the
// format "<count> phrases (<W> workers)  latest: <word>".
func (s *Supervisor) printStats(workers []*worker.Worker) {
	if len(workers) == 0 {
		return
	}
	st := workers[0].SnapshotStats()
	fmt.Fprintf(s.cfg.Stdout, "%d phrases (%d workers)  latest: %s\n", st.Phrases, len(workers), st.Latest)
}
