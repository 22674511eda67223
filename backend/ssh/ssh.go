// Package ssh implements a backend that attempts SSH password
// authentication against a live host, one user at a time, using
// golang.org/x/crypto/ssh.
package ssh

import (
	"bufio"
	"errors"
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"golang.org/x/crypto/ssh"

	"github.com/Asylian21/passcrack/backend"
)

func init() {
	backend.Register("ssh", func() backend.Backend { return &Backend{DialTimeout: 10 * time.Second} })
}

// Backend attempts SSH password authentication against Host:Port for every
// user in UsersFile, reporting each solved user and continuing until every
// user is solved or every candidate is exhausted.
type Backend struct {
	Host        string
	Port        int
	UsersFile   string
	DialTimeout time.Duration

	mu        sync.Mutex
	users     []string
	solved    map[string]bool
	registrar backend.Registrar
}

func (b *Backend) Info() backend.Info {
	return backend.Info{
		Name:    "ssh",
		Author:  "passcrack",
		Version: "1.0",
		Usage: []backend.Option{
			{Flag: 'h', Description: "target host"},
			{Flag: 'p', Description: "target port (default 22)"},
			{Flag: 'u', Description: "path to a newline-separated user list"},
		},
		OptionLetters: "hpu",
		InfoText:      "attempts SSH password authentication against a live host",
	}
}

func (b *Backend) SetOption(flag byte, arg string) error {
	switch flag {
	case 'h':
		b.Host = arg
	case 'p':
		port, err := strconv.Atoi(arg)
		if err != nil {
			return fmt.Errorf("ssh: invalid -p %q: %w", arg, err)
		}
		b.Port = port
	case 'u':
		b.UsersFile = arg
	}
	return nil
}

func (b *Backend) SetRegistrar(r backend.Registrar) { b.registrar = r }

func (b *Backend) Init(workers int) error {
	if b.Host == "" {
		return errors.New("ssh: -h host is required")
	}
	if b.Port == 0 {
		b.Port = 22
	}
	if b.DialTimeout == 0 {
		b.DialTimeout = 10 * time.Second
	}
	if b.UsersFile == "" {
		return errors.New("ssh: -u users file is required")
	}

	f, err := os.Open(b.UsersFile)
	if err != nil {
		return fmt.Errorf("ssh: failed to open %s: %w", b.UsersFile, err)
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	for sc.Scan() {
		user := strings.TrimSpace(sc.Text())
		if user == "" {
			continue
		}
		b.users = append(b.users, user)
	}
	if err := sc.Err(); err != nil {
		return fmt.Errorf("ssh: failed to read %s: %w", b.UsersFile, err)
	}
	if len(b.users) == 0 {
		return fmt.Errorf("ssh: %s contains no users", b.UsersFile)
	}
	b.solved = make(map[string]bool, len(b.users))
	return nil
}

func (b *Backend) WorkerInit(id int) error { return nil }

// TryPhrase attempts candidate against every user not yet solved. One dial
// and handshake is performed per still-open user; a successful
// authentication reports that user and removes it from future attempts.
// Once every user is solved the backend reports completed.
func (b *Backend) TryPhrase(id int, candidate []byte) (backend.Status, error) {
	addr := net.JoinHostPort(b.Host, strconv.Itoa(b.Port))

	anyOpen := false
	for _, user := range b.snapshotOpenUsers() {
		anyOpen = true
		cfg := &ssh.ClientConfig{
			User:            user,
			Auth:            []ssh.AuthMethod{ssh.Password(string(candidate))},
			HostKeyCallback: ssh.InsecureIgnoreHostKey(),
			Timeout:         b.DialTimeout,
		}

		client, err := ssh.Dial("tcp", addr, cfg)
		if err != nil {
			if isAuthFailure(err) {
				continue
			}
			return backend.StatusFail, fmt.Errorf("ssh: dial %s: %w", addr, err)
		}
		client.Close()

		b.markSolved(user, string(candidate))
	}

	if !anyOpen {
		return backend.StatusCompleted, nil
	}
	if b.allSolved() {
		return backend.StatusCompleted, nil
	}
	return backend.StatusContinue, nil
}

func (b *Backend) snapshotOpenUsers() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	open := make([]string, 0, len(b.users))
	for _, u := range b.users {
		if !b.solved[u] {
			open = append(open, u)
		}
	}
	return open
}

func (b *Backend) markSolved(user, passphrase string) {
	b.mu.Lock()
	already := b.solved[user]
	b.solved[user] = true
	b.mu.Unlock()
	if !already && b.registrar != nil {
		b.registrar.RegisterPassword(user, passphrase)
	}
}

func (b *Backend) allSolved() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, u := range b.users {
		if !b.solved[u] {
			return false
		}
	}
	return true
}

// isAuthFailure reports whether err is an SSH authentication rejection
// rather than a network or protocol failure. x/crypto/ssh has no typed
// sentinel for this; it reports rejection as a plain error string.
func isAuthFailure(err error) bool {
	return strings.Contains(err.Error(), "unable to authenticate") ||
		strings.Contains(err.Error(), "no supported methods remain")
}

func (b *Backend) WorkerFinish(id int) {}

func (b *Backend) Finish() {}
