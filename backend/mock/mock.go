// Package mock provides a minimal backend.Backend used by this repository's
// own tests (and available to any caller) to exercise the engine core
// without a live target: it accepts one fixed passphrase and rejects every
// other candidate.
package mock

import (
	"bytes"
	"sync"

	"github.com/Asylian21/passcrack/backend"
)

// Backend is a single-target backend.Backend that accepts exactly one fixed
// passphrase and rejects all others.
type Backend struct {
	Key    string
	Target []byte

	mu        sync.Mutex
	registrar backend.Registrar
	found     bool

	// Attempts counts every TryPhrase call, for test assertions.
	Attempts int
}

// New returns a Backend that accepts target as the only valid passphrase,
// reporting it under key.
func New(key string, target []byte) *Backend {
	return &Backend{Key: key, Target: append([]byte(nil), target...)}
}

func (b *Backend) Info() backend.Info {
	return backend.Info{Name: "mock", Version: "test", InfoText: "fixed-passphrase test backend"}
}

func (b *Backend) SetOption(flag byte, arg string) error { return nil }

func (b *Backend) SetRegistrar(r backend.Registrar) { b.registrar = r }

func (b *Backend) Init(workers int) error { return nil }

func (b *Backend) WorkerInit(id int) error { return nil }

func (b *Backend) TryPhrase(id int, candidate []byte) (backend.Status, error) {
	b.mu.Lock()
	b.Attempts++
	b.mu.Unlock()

	if !bytes.Equal(candidate, b.Target) {
		return backend.StatusContinue, nil
	}

	b.mu.Lock()
	already := b.found
	b.found = true
	b.mu.Unlock()
	if !already && b.registrar != nil {
		b.registrar.RegisterPassword(b.Key, string(candidate))
	}
	return backend.StatusCompleted, nil
}

func (b *Backend) WorkerFinish(id int) {}

func (b *Backend) Finish() {}
