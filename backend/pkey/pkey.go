// Package pkey implements a backend that checks candidate passphrases
// against an encrypted PEM or OpenSSH private key file, using the same
// parser the ssh package uses to unlock a key for authentication.
package pkey

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	"golang.org/x/crypto/ssh"

	"github.com/Asylian21/passcrack/backend"
)

func init() {
	backend.Register("pkey", func() backend.Backend { return &Backend{} })
}

// Backend checks a candidate passphrase against a single encrypted private
// key file.
type Backend struct {
	Key  string
	Path string

	mu        sync.Mutex
	registrar backend.Registrar
	found     bool

	raw []byte
}

func (b *Backend) Info() backend.Info {
	return backend.Info{
		Name:    "pkey",
		Author:  "passcrack",
		Version: "1.0",
		Usage: []backend.Option{
			{Flag: 'f', Description: "path to the encrypted private key"},
			{Flag: 'k', Description: "key name reported on success (defaults to the file path)"},
		},
		OptionLetters: "fk",
		InfoText:      "checks candidates against an encrypted PEM/OpenSSH private key",
	}
}

func (b *Backend) SetOption(flag byte, arg string) error {
	switch flag {
	case 'f':
		b.Path = arg
	case 'k':
		b.Key = arg
	}
	return nil
}

func (b *Backend) SetRegistrar(r backend.Registrar) { b.registrar = r }

func (b *Backend) Init(workers int) error {
	if b.Path == "" {
		return errors.New("pkey: -f path is required")
	}
	if b.Key == "" {
		b.Key = b.Path
	}
	raw, err := os.ReadFile(b.Path)
	if err != nil {
		return fmt.Errorf("pkey: failed to read %s: %w", b.Path, err)
	}
	if _, err := ssh.ParsePublicKey(raw); err == nil {
		return errors.New("pkey: file looks like a public key, not a private key")
	}
	b.raw = raw
	return nil
}

func (b *Backend) WorkerInit(id int) error { return nil }

// TryPhrase attempts to decrypt the key with candidate. A wrong passphrase
// and a correctly-decrypted-but-malformed key both surface as an error from
// ParseRawPrivateKeyWithPassphrase; only the passphrase error is
// distinguishable by substring match, which is how x/crypto/ssh itself
// reports it (there is no typed sentinel for it).
func (b *Backend) TryPhrase(id int, candidate []byte) (backend.Status, error) {
	_, err := ssh.ParseRawPrivateKeyWithPassphrase(b.raw, candidate)
	if err != nil {
		if strings.Contains(err.Error(), "decrypt") || strings.Contains(err.Error(), "passphrase") {
			return backend.StatusContinue, nil
		}
		return backend.StatusFail, fmt.Errorf("pkey: %w", err)
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
