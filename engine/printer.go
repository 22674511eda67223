// Package engine holds the small pieces of shared state every worker and
// the supervisor agree on: the registrar that prints a solved passphrase,
// and the verbose/error line prefixing convention.
package engine

import (
	"fmt"
	"io"
	"os"
	"sync"
)

// Printer is the Registrar implementation used across this repository. It
// serializes concurrent RegisterPassword calls from worker goroutines
// through a single mutex so stdout writes and the results slice stay
// consistent even when multiple workers solve close together.
type Printer struct {
	mu    sync.Mutex
	out   io.Writer
	found []Found
}

// Found records one solved (key, passphrase) pair, in the order it was
// reported.
type Found struct {
	Key        string
	Passphrase string
}

// NewPrinter returns a Printer writing to out (typically os.Stdout).
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// RegisterPassword implements backend.Registrar.
func (p *Printer) RegisterPassword(key, passphrase string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	fmt.Fprintf(p.out, "password for %s: %s\n", key, passphrase)
	p.found = append(p.found, Found{Key: key, Passphrase: passphrase})
}

// Results returns every passphrase reported so far, in report order.
func (p *Printer) Results() []Found {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]Found(nil), p.found...)
}

// Logf writes a verbose line prefixed with the backend name.
func Logf(w io.Writer, backendName, format string, args ...interface{}) {
	fmt.Fprintf(w, "[%s] "+format+"\n", append([]interface{}{backendName}, args...)...)
}

// Errorf writes an error line prefixed with the backend name to stderr.
func Errorf(backendName, format string, args ...interface{}) {
	Logf(os.Stderr, backendName, format, args...)
}
