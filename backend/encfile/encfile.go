// Package encfile implements a backend that checks candidate passphrases
// against a saltybox-style encrypted container: a salt, a nonce, and a
// length-prefixed NaCl secretbox sealed with a scrypt-derived key. A
// candidate is correct if and only if the box opens.
package encfile

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"

	"golang.org/x/crypto/nacl/secretbox"
	"golang.org/x/crypto/scrypt"

	"github.com/Asylian21/passcrack/backend"
)

func init() {
	backend.Register("enc-file", func() backend.Backend { return &Backend{} })
}

const (
	saltLen = 8

	scryptN = 32768
	scryptR = 8
	scryptP = 1

	keyLen   = 32
	nonceLen = 24
)

// Backend checks a candidate passphrase against a single encrypted file.
type Backend struct {
	Key  string // reported to the registrar on success
	Path string

	mu        sync.Mutex
	registrar backend.Registrar
	found     bool

	salt      [saltLen]byte
	nonce     [nonceLen]byte
	sealedBox []byte
}

func (b *Backend) Info() backend.Info {
	return backend.Info{
		Name:    "enc-file",
		Author:  "passcrack",
		Version: "1.0",
		Usage: []backend.Option{
			{Flag: 'f', Description: "path to the encrypted container"},
			{Flag: 'k', Description: "key name reported on success (defaults to the file path)"},
		},
		OptionLetters: "fk",
		InfoText:      "checks candidates against a scrypt+secretbox encrypted container",
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

// Init parses the container's header once, ahead of any worker trying a
// candidate. The salt/nonce/sealed box are immutable for the life of the
// run, so reading them here and reusing them for every TryPhrase call
// avoids re-reading the file per candidate.
func (b *Backend) Init(workers int) error {
	if b.Path == "" {
		return errors.New("enc-file: -f path is required")
	}
	if b.Key == "" {
		b.Key = b.Path
	}

	raw, err := os.ReadFile(b.Path)
	if err != nil {
		return fmt.Errorf("enc-file: failed to read %s: %w", b.Path, err)
	}
	r := bytes.NewReader(raw)

	if _, err := io.ReadFull(r, b.salt[:]); err != nil {
		return fmt.Errorf("enc-file: truncated while reading salt: %w", err)
	}
	if _, err := io.ReadFull(r, b.nonce[:]); err != nil {
		return fmt.Errorf("enc-file: truncated while reading nonce: %w", err)
	}
	var boxLen int64
	if err := binary.Read(r, binary.BigEndian, &boxLen); err != nil {
		return fmt.Errorf("enc-file: truncated while reading sealed box length: %w", err)
	}
	if boxLen < 0 || boxLen > int64(len(raw)) {
		return errors.New("enc-file: corrupt container, claimed sealed box length out of range")
	}
	b.sealedBox = make([]byte, boxLen)
	if _, err := io.ReadFull(r, b.sealedBox); err != nil {
		return fmt.Errorf("enc-file: truncated while reading sealed box: %w", err)
	}
	return nil
}

func (b *Backend) WorkerInit(id int) error { return nil }

// TryPhrase derives a key from candidate and the stored salt, then attempts
// to open the sealed box. secretbox.Open is safe to call concurrently; the
// derived candidate key is local to this call, and the stored salt, nonce
// and sealed box are only read.
func (b *Backend) TryPhrase(id int, candidate []byte) (backend.Status, error) {
	secretKey, err := scrypt.Key(candidate, b.salt[:], scryptN, scryptR, scryptP, keyLen)
	if err != nil {
		return backend.StatusFail, fmt.Errorf("enc-file: scrypt: %w", err)
	}
	var key [keyLen]byte
	copy(key[:], secretKey)

	if _, ok := secretbox.Open(nil, b.sealedBox, &b.nonce, &key); !ok {
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
