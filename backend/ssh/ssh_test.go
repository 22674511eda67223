package ssh

import (
	"crypto/rand"
	"crypto/rsa"
	"errors"
	"net"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"golang.org/x/crypto/ssh"

	"github.com/Asylian21/passcrack/backend"
)

// startTestServer runs a minimal SSH server accepting only the given
// user/password pairs, returning its listening port and a stop function.
func startTestServer(t *testing.T, creds map[string]string) (port int, stop func()) {
	t.Helper()

	signer := newHostSigner(t)
	cfg := &ssh.ServerConfig{
		PasswordCallback: func(c ssh.ConnMetadata, pass []byte) (*ssh.Permissions, error) {
			if want, ok := creds[c.User()]; ok && want == string(pass) {
				return nil, nil
			}
			return nil, errors.New("invalid credentials")
		},
	}
	cfg.AddHostKey(signer)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}

	done := make(chan struct{})
	var wg sync.WaitGroup
	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			wg.Add(1)
			go func() {
				defer wg.Done()
				sc, chans, reqs, err := ssh.NewServerConn(conn, cfg)
				if err != nil {
					conn.Close()
					return
				}
				defer sc.Close()
				go ssh.DiscardRequests(reqs)
				for ch := range chans {
					ch.Reject(ssh.Prohibited, "no channels")
				}
			}()
		}
	}()

	stop = func() {
		close(done)
		ln.Close()
		wg.Wait()
	}
	return ln.Addr().(*net.TCPAddr).Port, stop
}

func newHostSigner(t *testing.T) ssh.Signer {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatal(err)
	}
	signer, err := ssh.NewSignerFromKey(key)
	if err != nil {
		t.Fatal(err)
	}
	return signer
}

func writeUsersFile(t *testing.T, users ...string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "users.txt")
	content := ""
	for _, u := range users {
		content += u + "\n"
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

type recorder struct {
	mu    sync.Mutex
	found map[string]string
}

func (r *recorder) RegisterPassword(key, passphrase string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.found == nil {
		r.found = map[string]string{}
	}
	r.found[key] = passphrase
}

func TestSSHSingleUserCorrectPassword(t *testing.T) {
	port, stop := startTestServer(t, map[string]string{"root": "hunter2"})
	defer stop()

	usersPath := writeUsersFile(t, "root")
	b := &Backend{Host: "127.0.0.1", Port: port, UsersFile: usersPath, DialTimeout: 2 * time.Second}
	rec := &recorder{}
	b.SetRegistrar(rec)
	if err := b.Init(1); err != nil {
		t.Fatal(err)
	}

	status, err := b.TryPhrase(0, []byte("wrong"))
	if err != nil {
		t.Fatal(err)
	}
	if status != backend.StatusContinue {
		t.Fatalf("status = %v, want Continue", status)
	}

	status, err = b.TryPhrase(0, []byte("hunter2"))
	if err != nil {
		t.Fatal(err)
	}
	if status != backend.StatusCompleted {
		t.Fatalf("status = %v, want Completed", status)
	}
	if rec.found["root"] != "hunter2" {
		t.Fatalf("found = %v", rec.found)
	}
}

func TestSSHMultiUserContinuesUntilAllSolved(t *testing.T) {
	port, stop := startTestServer(t, map[string]string{
		"alice": "shared-pw",
		"bob":   "shared-pw",
	})
	defer stop()

	usersPath := writeUsersFile(t, "alice", "bob")
	b := &Backend{Host: "127.0.0.1", Port: port, UsersFile: usersPath, DialTimeout: 2 * time.Second}
	rec := &recorder{}
	b.SetRegistrar(rec)
	if err := b.Init(1); err != nil {
		t.Fatal(err)
	}

	status, err := b.TryPhrase(0, []byte("shared-pw"))
	if err != nil {
		t.Fatal(err)
	}
	if status != backend.StatusCompleted {
		t.Fatalf("status = %v, want Completed once every user solves together", status)
	}
	if len(rec.found) != 2 {
		t.Fatalf("found = %v", rec.found)
	}
}

func TestSSHMissingUsersFileFailsInit(t *testing.T) {
	b := &Backend{Host: "127.0.0.1"}
	if err := b.Init(1); err == nil {
		t.Fatal("expected error for missing users file")
	}
}
