// Package backend defines the contract every cracking backend satisfies and
// the in-process registry used to resolve a backend by name. This repo uses
// an in-process registry keyed by name rather than dynamic plugin loading.
package backend

import "fmt"

// Status is the outcome of a single TryPhrase call.
type Status int

const (
	// StatusContinue means the candidate was rejected; try the next one.
	StatusContinue Status = iota
	// StatusCompleted means the backend has nothing more to try (all
	// targets solved or exhausted); the worker should exit successfully.
	StatusCompleted
	// StatusFail means try_phrase itself errored for this candidate
	// (distinct from the candidate simply being wrong); it is logged and
	// the worker continues.
	StatusFail
)

func (s Status) String() string {
	switch s {
	case StatusContinue:
		return "continue"
	case StatusCompleted:
		return "completed"
	case StatusFail:
		return "fail"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

// Registrar is the callback a backend uses to report a solved passphrase.
// The implementation that prints results is engine.Printer, which
// serializes output across workers; the supervisor falls back to a no-op
// implementation when no Registrar is configured.
type Registrar interface {
	RegisterPassword(key, passphrase string)
}

// Option is a single (flag, description) pair in a backend's usage table.
type Option struct {
	Flag        byte
	Description string
}

// Info is the static metadata a backend exposes for help/usage output.
type Info struct {
	Name          string
	Author        string
	Version       string
	Usage         []Option
	OptionLetters string
	InfoText      string
}

// Backend is the contract every cracking plug-in satisfies.
// A Backend value is constructed once per process by its registered
// factory; Init is called once by the supervisor before any worker starts,
// WorkerInit/WorkerFinish bracket each worker's lifetime, and TryPhrase must
// tolerate being called concurrently from distinct worker goroutines without
// assuming shared mutable state with other workers.
type Backend interface {
	// Info returns this backend's static metadata.
	Info() Info

	// SetOption captures one (option_char, argument_string) pair during
	// configuration, before Init is called.
	SetOption(flag byte, arg string) error

	// SetRegistrar installs the callback used to report a solved
	// passphrase. Called before Init.
	SetRegistrar(r Registrar)

	// Init validates configuration and performs any one-time setup
	// (reading target files, resolving hostnames); called once by the
	// supervisor before workers start.
	Init(workers int) error

	// WorkerInit is called once per worker after the worker starts.
	WorkerInit(id int) error

	// TryPhrase attempts candidate as the passphrase for worker id. It
	// must be safe to call concurrently from distinct worker contexts.
	TryPhrase(id int, candidate []byte) (Status, error)

	// WorkerFinish is called once per worker on clean shutdown.
	WorkerFinish(id int)

	// Finish is called once by the supervisor after all workers exit.
	Finish()
}
